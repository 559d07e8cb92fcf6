package handlers

import (
	"context"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/support-admin/internal/auth"
	"github.com/spec-kit/support-admin/internal/domain"
	apperrors "github.com/spec-kit/support-admin/pkg/util/errorutil"
)

// GroupCreator creates support groups.
type GroupCreator interface {
	Create(ctx context.Context, actor *domain.User, form domain.SupportGroupForm) (*domain.SupportGroup, error)
}

// SupportGroupsHandler exposes support group commands.
type SupportGroupsHandler struct {
	groups GroupCreator
}

// NewSupportGroupsHandler constructs handler.
func NewSupportGroupsHandler(groups GroupCreator) *SupportGroupsHandler {
	return &SupportGroupsHandler{groups: groups}
}

// Create handles POST /api/support-groups.
func (h *SupportGroupsHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req domain.SupportGroupForm
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	group, err := h.groups.Create(c.UserContext(), principal.User, req)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": group})
}
