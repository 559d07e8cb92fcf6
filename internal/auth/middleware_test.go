package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/support-admin/internal/domain"
	"github.com/spec-kit/support-admin/internal/repository"
	apperrors "github.com/spec-kit/support-admin/pkg/util/errorutil"
)

type userRepoMock struct{ mock.Mock }

var _ repository.UserRepository = (*userRepoMock)(nil)

func (m *userRepoMock) Create(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *userRepoMock) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *userRepoMock) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *userRepoMock) List(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *userRepoMock) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	return m.Called(ctx, id, passwordHash).Error(0)
}

type revokedSet struct {
	ids map[string]bool
	err error
}

func (r *revokedSet) IsRevoked(_ context.Context, id string) (bool, error) {
	return r.ids[id], r.err
}

const cookieName = "sid"

func newTestApp(t *testing.T, users *userRepoMock, revoked *revokedSet) (*fiber.App, *TokenManager) {
	t.Helper()
	tokens := NewTokenManager("secret", 5)
	mw := NewAuthMiddleware(tokens, users, revoked, cookieName, zap.NewNop())

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			de := apperrors.ToDomainError(err)
			return c.Status(de.HTTPStatus).JSON(fiber.Map{"code": de.Code})
		},
	})
	app.Get("/api/me", mw.Handle, func(c *fiber.Ctx) error {
		p, ok := PrincipalFromContext(c)
		require.True(t, ok)
		return c.JSON(p.Profile())
	})
	app.Get("/api/admin", mw.Handle, RequireAdmin(), func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusNoContent)
	})
	app.Get("/page", mw.RequirePage("/login"), func(c *fiber.Ctx) error {
		return c.SendString("page")
	})
	return app, tokens
}

func errorCode(t *testing.T, resp *http.Response) string {
	t.Helper()
	var body struct {
		Code string `json:"code"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body.Code
}

func TestHandleAcceptsBearerToken(t *testing.T) {
	user := &domain.User{ID: "u-1", Email: "a@x.com", Role: domain.RoleUser}
	users := &userRepoMock{}
	users.On("GetByID", mock.Anything, "u-1").Return(user, nil)
	app, tokens := newTestApp(t, users, &revokedSet{})

	token, _, err := tokens.GenerateToken(user)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var profile domain.UserProfile
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&profile))
	require.Equal(t, "a@x.com", profile.Email)
}

func TestHandleAcceptsSessionCookie(t *testing.T) {
	user := &domain.User{ID: "u-1", Role: domain.RoleUser}
	users := &userRepoMock{}
	users.On("GetByID", mock.Anything, "u-1").Return(user, nil)
	app, tokens := newTestApp(t, users, &revokedSet{})

	token, _, err := tokens.GenerateToken(user)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.AddCookie(&http.Cookie{Name: cookieName, Value: token})
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestHandleRejections(t *testing.T) {
	user := &domain.User{ID: "u-1", Role: domain.RoleUser}
	tokens := NewTokenManager("secret", 5)
	token, sess, err := tokens.GenerateToken(user)
	require.NoError(t, err)

	tests := []struct {
		name    string
		header  string
		revoked map[string]bool
		lookup  error
		status  int
	}{
		{name: "missing credentials", status: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic abc", status: http.StatusUnauthorized},
		{name: "garbage token", header: "Bearer nope", status: http.StatusUnauthorized},
		{name: "revoked", header: "Bearer " + token, revoked: map[string]bool{sess.TokenID: true}, status: http.StatusUnauthorized},
		{name: "deleted user", header: "Bearer " + token, lookup: pgx.ErrNoRows, status: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			users := &userRepoMock{}
			if tt.lookup != nil {
				users.On("GetByID", mock.Anything, "u-1").Return(nil, tt.lookup)
			} else {
				users.On("GetByID", mock.Anything, "u-1").Return(user, nil)
			}
			app, _ := newTestApp(t, users, &revokedSet{ids: tt.revoked})

			req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			require.Equal(t, tt.status, resp.StatusCode)
			require.Equal(t, "UNAUTHORIZED", errorCode(t, resp))
		})
	}
}

func TestHandleRevocationLookupFailure(t *testing.T) {
	user := &domain.User{ID: "u-1", Role: domain.RoleUser}
	app, tokens := newTestApp(t, &userRepoMock{}, &revokedSet{err: errors.New("redis down")})
	token, _, err := tokens.GenerateToken(user)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestRequireAdmin(t *testing.T) {
	for _, tt := range []struct {
		role   domain.Role
		status int
	}{
		{role: domain.RoleAdmin, status: http.StatusNoContent},
		{role: domain.RoleUser, status: http.StatusForbidden},
	} {
		user := &domain.User{ID: "u-1", Role: tt.role}
		users := &userRepoMock{}
		users.On("GetByID", mock.Anything, "u-1").Return(user, nil)
		app, tokens := newTestApp(t, users, &revokedSet{})
		token, _, err := tokens.GenerateToken(user)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/api/admin", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		resp, err := app.Test(req)
		require.NoError(t, err)
		resp.Body.Close()

		require.Equal(t, tt.status, resp.StatusCode, string(tt.role))
	}
}

func TestRequirePageRedirectsToLogin(t *testing.T) {
	app, _ := newTestApp(t, &userRepoMock{}, &revokedSet{})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/page", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, "/login", resp.Header.Get("Location"))
}
