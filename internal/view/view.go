// Package view holds the server-rendered HTML templates.
package view

import (
	"embed"
	"io/fs"
	"net/http"

	"github.com/gofiber/template/html/v2"
)

//go:embed templates
var files embed.FS

// NewEngine returns a template engine over the embedded templates. Template
// names are paths relative to the templates directory without extension,
// e.g. "admin" or "partials/notice".
func NewEngine() *html.Engine {
	sub, err := fs.Sub(files, "templates")
	if err != nil {
		panic(err)
	}
	return html.NewFileSystem(http.FS(sub), ".html")
}
