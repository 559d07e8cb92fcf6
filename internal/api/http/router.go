package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/support-admin/internal/api/http/handlers"
	"github.com/spec-kit/support-admin/internal/auth"
	"github.com/spec-kit/support-admin/internal/dashboard"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Admin          *handlers.AdminHandler
	Users          *handlers.UsersHandler
	SupportGroups  *handlers.SupportGroupsHandler
	AuthMiddleware *auth.AuthMiddleware
	Paths          dashboard.Paths
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/users/register", cfg.Users.Register)
	authGroup.Post("/password/change", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated(), cfg.Users.ChangePassword)
	authGroup.Post("/logout", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated(), cfg.Auth.Logout)

	api := app.Group("/api", cfg.AuthMiddleware.Handle, auth.RequireAdmin())
	api.Get("/users", cfg.Users.List)
	api.Post("/support-groups", cfg.SupportGroups.Create)

	app.Get(cfg.Paths.Login, cfg.Auth.LoginPage)
	app.Post(cfg.Paths.Login, cfg.Auth.LoginSubmit)

	page := cfg.AuthMiddleware.RequirePage(cfg.Paths.Login)
	app.Get(cfg.Paths.Dashboard, page, cfg.Auth.DashboardPage)
	app.Post("/logout", page, cfg.Auth.LogoutSubmit)
	app.Get(cfg.Paths.Screen, page, cfg.Admin.Show)
	app.Post(cfg.Paths.CreateGroup, page, cfg.Admin.CreateGroup)
	app.Post(cfg.Paths.Logout, page, cfg.Admin.Logout)
}
