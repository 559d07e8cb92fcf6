package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/support-admin/internal/domain"
	"github.com/spec-kit/support-admin/internal/repository"
	apperrors "github.com/spec-kit/support-admin/pkg/util/errorutil"
)

const principalKey = "auth_principal"

// Principal represents the authenticated caller.
type Principal struct {
	User    *domain.User
	Session domain.Session
}

// Profile returns the caller's public identity, or nil when unauthenticated.
func (p *Principal) Profile() *domain.UserProfile {
	if p == nil || p.User == nil {
		return nil
	}
	profile := p.User.Profile()
	return &profile
}

// RevocationChecker reports whether a token id has been logged out.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// AuthMiddleware validates bearer tokens or session cookies and loads principals.
type AuthMiddleware struct {
	tokens      *TokenManager
	users       repository.UserRepository
	revocations RevocationChecker
	cookieName  string
	logger      *zap.Logger
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager, users repository.UserRepository, revocations RevocationChecker, cookieName string, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		tokens:      tokens,
		users:       users,
		revocations: revocations,
		cookieName:  cookieName,
		logger:      logger,
	}
}

// Handle enforces authentication for API routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	principal, err := m.authenticate(c)
	if err != nil {
		return err
	}
	SetPrincipal(c, principal)
	return c.Next()
}

// RequirePage enforces authentication for HTML routes, redirecting to loginPath
// when the caller has no valid session.
func (m *AuthMiddleware) RequirePage(loginPath string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, err := m.authenticate(c)
		if err != nil {
			if de := apperrors.ToDomainError(err); de.HTTPStatus >= fiber.StatusInternalServerError {
				return err
			}
			return c.Redirect(loginPath, fiber.StatusSeeOther)
		}
		SetPrincipal(c, principal)
		return c.Next()
	}
}

func (m *AuthMiddleware) authenticate(c *fiber.Ctx) (*Principal, error) {
	raw, err := m.extractToken(c)
	if err != nil {
		return nil, err
	}

	claims, err := m.tokens.ParseToken(raw)
	if err != nil {
		return nil, apperrors.NewUnauthorized("invalid token")
	}

	ctx := c.UserContext()
	revoked, err := m.revocations.IsRevoked(ctx, claims.ID)
	if err != nil {
		m.logger.Error("revocation lookup failed", zap.String("token_id", claims.ID), zap.Error(err))
		return nil, apperrors.NewInternalError(err)
	}
	if revoked {
		return nil, apperrors.NewUnauthorized("session ended")
	}

	user, err := m.users.GetByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewUnauthorized("user not found")
		}
		return nil, apperrors.MapError(err)
	}

	return &Principal{User: user, Session: claims.Session()}, nil
}

func (m *AuthMiddleware) extractToken(c *fiber.Ctx) (string, error) {
	if authHeader := c.Get(fiber.HeaderAuthorization); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return "", apperrors.NewUnauthorized("invalid authorization header")
		}
		return parts[1], nil
	}
	if cookie := c.Cookies(m.cookieName); cookie != "" {
		return cookie, nil
	}
	return "", apperrors.NewUnauthorized("missing credentials")
}

// SetPrincipal attaches principal to the request.
func SetPrincipal(c *fiber.Ctx, principal *Principal) {
	c.Locals(principalKey, principal)
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	principal, ok := c.Locals(principalKey).(*Principal)
	return principal, ok && principal != nil
}
