package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/support-admin/internal/dashboard"
)

// PageConfig carries settings shared by the HTML handlers.
type PageConfig struct {
	Title         string
	Paths         dashboard.Paths
	CookieName    string
	SecureCookies bool
}

// redirectRecorder captures the first navigation requested by a screen.
type redirectRecorder struct {
	target string
}

func (r *redirectRecorder) Navigate(path string) {
	if r.target == "" {
		r.target = path
	}
}

func setSessionCookie(c *fiber.Ctx, cfg PageConfig, token string, expiresAt time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     cfg.CookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		Secure:   cfg.SecureCookies,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func clearSessionCookie(c *fiber.Ctx, cfg PageConfig) {
	c.Cookie(&fiber.Cookie{
		Name:     cfg.CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		Secure:   cfg.SecureCookies,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}
