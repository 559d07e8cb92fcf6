package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/support-admin/internal/auth"
	"github.com/spec-kit/support-admin/internal/dashboard"
)

// AuthContextFactory builds the screen's backend capability for a principal.
type AuthContextFactory func(principal *auth.Principal) dashboard.AuthContext

// AdminHandler serves the admin screen.
type AdminHandler struct {
	contexts AuthContextFactory
	renderer dashboard.Renderer
	logger   *zap.Logger
	cfg      PageConfig
}

// NewAdminHandler constructs handler.
func NewAdminHandler(contexts AuthContextFactory, renderer dashboard.Renderer, logger *zap.Logger, cfg PageConfig) *AdminHandler {
	return &AdminHandler{contexts: contexts, renderer: renderer, logger: logger, cfg: cfg}
}

// Show handles GET /admin.
func (h *AdminHandler) Show(c *fiber.Ctx) error {
	screen, nav := h.newScreen(c)
	screen.SelectTab(dashboard.ParseTab(c.Query("tab")))
	screen.Mount(c.UserContext())
	if nav.target != "" {
		return c.Redirect(nav.target, fiber.StatusSeeOther)
	}
	return h.render(c, fiber.StatusOK, screen)
}

// CreateGroup handles POST /admin/groups.
func (h *AdminHandler) CreateGroup(c *fiber.Ctx) error {
	screen, nav := h.newScreen(c)
	screen.SelectTab(dashboard.TabGroups)
	screen.Mount(c.UserContext())
	if nav.target != "" {
		return c.Redirect(nav.target, fiber.StatusSeeOther)
	}

	_ = screen.ApplyForm(dashboard.FormInput{
		Name:        c.FormValue("name"),
		Description: c.FormValue("description"),
		Capacity:    c.FormValue("capacity"),
		NextMeeting: c.FormValue("nextMeeting"),
	})
	notice := screen.CreateGroup(c.UserContext())

	status := fiber.StatusOK
	if notice.Kind != dashboard.NoticeSuccess {
		status = fiber.StatusUnprocessableEntity
	}
	return h.render(c, status, screen)
}

// Logout handles POST /admin/logout.
func (h *AdminHandler) Logout(c *fiber.Ctx) error {
	screen, nav := h.newScreen(c)
	screen.Logout(c.UserContext())
	if nav.target != "" {
		clearSessionCookie(c, h.cfg)
		return c.Redirect(nav.target, fiber.StatusSeeOther)
	}

	screen.Mount(c.UserContext())
	if nav.target != "" {
		return c.Redirect(nav.target, fiber.StatusSeeOther)
	}
	return h.render(c, fiber.StatusOK, screen)
}

func (h *AdminHandler) newScreen(c *fiber.Ctx) (*dashboard.Screen, *redirectRecorder) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		principal = &auth.Principal{}
	}
	nav := &redirectRecorder{}
	screen := dashboard.New(dashboard.Dependencies{
		Auth:      h.contexts(principal),
		Navigator: nav,
		Renderer:  h.renderer,
		Logger:    h.logger.With(zap.String("request_id", requestID(c))),
		Operator:  principal.Profile(),
		Title:     h.cfg.Title,
		Paths:     h.cfg.Paths,
	})
	return screen, nav
}

func (h *AdminHandler) render(c *fiber.Ctx, status int, screen *dashboard.Screen) error {
	c.Status(status)
	c.Type("html", "utf-8")
	return screen.Render(c)
}

func requestID(c *fiber.Ctx) string {
	id, _ := c.Locals("requestid").(string)
	return id
}
