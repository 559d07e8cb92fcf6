package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/support-admin/internal/api/dto"
	"github.com/spec-kit/support-admin/internal/auth"
	"github.com/spec-kit/support-admin/internal/domain"
	"github.com/spec-kit/support-admin/internal/service"
	apperrors "github.com/spec-kit/support-admin/pkg/util/errorutil"
)

// UserDirectory manages operator accounts.
type UserDirectory interface {
	Register(ctx context.Context, in service.RegisterInput) (*domain.User, error)
	ListUsers(ctx context.Context, actor *domain.User) ([]domain.UserProfile, error)
	ChangePassword(ctx context.Context, actor *domain.User, currentPassword, newPassword string) error
}

// UsersHandler exposes the user directory.
type UsersHandler struct {
	users UserDirectory
}

// NewUsersHandler constructs handler.
func NewUsersHandler(users UserDirectory) *UsersHandler {
	return &UsersHandler{users: users}
}

// Register handles POST /auth/users/register. Self-registered accounts
// always get the user role.
func (h *UsersHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
	}

	user, err := h.users.Register(c.UserContext(), service.RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      domain.RoleUser,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"data": fiber.Map{"user": user.Profile()},
	})
}

// ChangePassword handles POST /auth/password/change for the signed-in operator.
func (h *UsersHandler) ChangePassword(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
	}
	if err := h.users.ChangePassword(c.UserContext(), principal.User, req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"status": "password_changed"}})
}

// List handles GET /api/users.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	users, err := h.users.ListUsers(c.UserContext(), principal.User)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": users})
}
