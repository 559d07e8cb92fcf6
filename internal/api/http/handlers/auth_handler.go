package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/support-admin/internal/api/dto"
	"github.com/spec-kit/support-admin/internal/auth"
	"github.com/spec-kit/support-admin/internal/dashboard"
	"github.com/spec-kit/support-admin/internal/domain"
	apperrors "github.com/spec-kit/support-admin/pkg/util/errorutil"
)

// SessionService issues and ends operator sessions.
type SessionService interface {
	Login(ctx context.Context, email, password string) (*domain.User, string, time.Time, error)
	Logout(ctx context.Context, sess domain.Session) error
}

// AuthHandler exposes login and logout for both the JSON API and the HTML pages.
type AuthHandler struct {
	sessions SessionService
	logger   *zap.Logger
	cfg      PageConfig
}

// NewAuthHandler constructs handler.
func NewAuthHandler(sessions SessionService, logger *zap.Logger, cfg PageConfig) *AuthHandler {
	return &AuthHandler{sessions: sessions, logger: logger, cfg: cfg}
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return apperrors.NewValidationError("email and password required", nil)
	}

	user, token, exp, err := h.sessions.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"data": dto.LoginResponse{
			User: user.Profile(),
			Auth: dto.AuthResponse{Token: token, ExpiresAt: exp},
		},
	})
}

// Logout handles POST /auth/logout.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	if err := h.sessions.Logout(c.UserContext(), principal.Session); err != nil {
		return err
	}
	clearSessionCookie(c, h.cfg)
	return c.JSON(fiber.Map{"data": fiber.Map{"status": "logged_out"}})
}

type loginPage struct {
	Title     string
	LoginPath string
	Email     string
	Notice    *dashboard.Notice
}

// LoginPage handles GET /login.
func (h *AuthHandler) LoginPage(c *fiber.Ctx) error {
	return c.Render("login", loginPage{Title: h.cfg.Title, LoginPath: h.cfg.Paths.Login})
}

// LoginSubmit handles POST /login.
func (h *AuthHandler) LoginSubmit(c *fiber.Ctx) error {
	email := c.FormValue("email")
	user, token, exp, err := h.sessions.Login(c.UserContext(), email, c.FormValue("password"))
	if err != nil {
		if de := apperrors.ToDomainError(err); de.HTTPStatus >= http.StatusInternalServerError {
			h.logger.Error("login failed", zap.Error(err))
		}
		c.Status(http.StatusUnauthorized)
		return c.Render("login", loginPage{
			Title:     h.cfg.Title,
			LoginPath: h.cfg.Paths.Login,
			Email:     email,
			Notice:    &dashboard.Notice{Kind: dashboard.NoticeError, Message: "Invalid email or password"},
		})
	}

	setSessionCookie(c, h.cfg, token, exp)
	target := h.cfg.Paths.Dashboard
	if user.IsAdmin() {
		target = h.cfg.Paths.Screen
	}
	return c.Redirect(target, fiber.StatusSeeOther)
}

type operatorPage struct {
	Title      string
	Operator   *domain.UserProfile
	LogoutPath string
}

// DashboardPage handles GET /dashboard, the landing page for every operator.
func (h *AuthHandler) DashboardPage(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	return c.Render("dashboard", operatorPage{
		Title:      h.cfg.Title,
		Operator:   principal.Profile(),
		LogoutPath: "/logout",
	})
}

// LogoutSubmit handles POST /logout.
func (h *AuthHandler) LogoutSubmit(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	if err := h.sessions.Logout(c.UserContext(), principal.Session); err != nil {
		h.logger.Error("Failed to log out", zap.Error(err))
		return c.Redirect(h.cfg.Paths.Dashboard, fiber.StatusSeeOther)
	}
	clearSessionCookie(c, h.cfg)
	return c.Redirect(h.cfg.Paths.Login, fiber.StatusSeeOther)
}
