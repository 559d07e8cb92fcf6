package http

import (
	"context"
	"runtime/debug"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"go.uber.org/zap"

	"github.com/spec-kit/support-admin/internal/dashboard"
	"github.com/spec-kit/support-admin/internal/observability"
	apperrors "github.com/spec-kit/support-admin/pkg/util/errorutil"
)

// RegisterMiddlewares attaches global middlewares such as error handling and logging.
// HTML page failures are rendered with the "error" view under pageTitle.
func RegisterMiddlewares(app *fiber.App, logger *zap.Logger, metrics *observability.Metrics, timeout time.Duration, pageTitle string) {
	app.Use(requestid.New())
	if timeout > 0 {
		app.Use(requestTimeoutMiddleware(timeout))
	}
	app.Use(observability.RequestLogger(logger, metrics))
	app.Use(errorHandlingMiddleware(logger, metrics, pageTitle))
}

func requestTimeoutMiddleware(timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), timeout)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}

func errorHandlingMiddleware(logger *zap.Logger, metrics *observability.Metrics, title string) fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered", zap.Any("panic", r), zap.ByteString("stack", debug.Stack()))
				err = apperrors.NewInternalError(nil)
			}
			if err != nil {
				domainErr := apperrors.ToDomainError(err)
				metrics.RecordError(c.Path(), c.Method(), domainErr.Code)
				if domainErr.HTTPStatus >= 500 {
					logger.Error("request failed", zap.Error(domainErr))
				}
				c.Status(domainErr.HTTPStatus)
				if servesJSON(c.Path()) {
					_ = c.JSON(errorBody(domainErr))
				} else {
					renderErrorPage(c, domainErr, title)
				}
				err = nil
			}
		}()
		return c.Next()
	}
}

var jsonPrefixes = []string{"/api", "/auth", "/health"}

// servesJSON reports whether path belongs to the JSON surface; everything
// else is an HTML page.
func servesJSON(path string) bool {
	for _, prefix := range jsonPrefixes {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}
	return false
}

func errorBody(domainErr *apperrors.DomainError) fiber.Map {
	body := fiber.Map{
		"code":    domainErr.Code,
		"message": domainErr.Message,
	}
	if len(domainErr.Details) > 0 {
		body["details"] = domainErr.Details
	}
	return fiber.Map{"error": body}
}

const pageFailureMessage = "Something went wrong. Please try again later."

type errorPage struct {
	Title  string
	Status int
	Notice *dashboard.Notice
}

func renderErrorPage(c *fiber.Ctx, domainErr *apperrors.DomainError, title string) {
	msg := domainErr.Message
	if domainErr.HTTPStatus >= fiber.StatusInternalServerError {
		msg = pageFailureMessage
	}
	page := errorPage{
		Title:  title,
		Status: domainErr.HTTPStatus,
		Notice: &dashboard.Notice{Kind: dashboard.NoticeError, Message: msg},
	}
	if err := c.Render("error", page); err != nil {
		c.Type("txt", "utf-8")
		_ = c.SendString(msg)
	}
}
