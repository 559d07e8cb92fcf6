package handlers

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/support-admin/internal/auth"
	"github.com/spec-kit/support-admin/internal/dashboard"
	"github.com/spec-kit/support-admin/internal/domain"
	"github.com/spec-kit/support-admin/internal/view"
	apperrors "github.com/spec-kit/support-admin/pkg/util/errorutil"
)

type authContextMock struct{ mock.Mock }

func (m *authContextMock) GetAllUsers(ctx context.Context) ([]domain.UserProfile, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.UserProfile), args.Error(1)
}

func (m *authContextMock) CreateSupportGroup(ctx context.Context, form domain.SupportGroupForm) error {
	return m.Called(ctx, form).Error(0)
}

func (m *authContextMock) Logout(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type sessionServiceMock struct{ mock.Mock }

func (m *sessionServiceMock) Login(ctx context.Context, email, password string) (*domain.User, string, time.Time, error) {
	args := m.Called(ctx, email, password)
	user, _ := args.Get(0).(*domain.User)
	return user, args.String(1), args.Get(2).(time.Time), args.Error(3)
}

func (m *sessionServiceMock) Logout(ctx context.Context, sess domain.Session) error {
	return m.Called(ctx, sess).Error(0)
}

var (
	adminUser = &domain.User{ID: "1", Email: "root@x.com", FirstName: "Root", LastName: "Admin", Role: domain.RoleAdmin}
	plainUser = &domain.User{ID: "2", Email: "u@x.com", FirstName: "Uma", LastName: "User", Role: domain.RoleUser}
)

func testPageConfig() PageConfig {
	return PageConfig{Title: "MindForward Africa - Admin", Paths: dashboard.DefaultPaths(), CookieName: "sid"}
}

// newTestApp builds an app whose requests are authenticated as user (or
// anonymous when user is nil).
func newTestApp(user *domain.User) *fiber.App {
	app := fiber.New(fiber.Config{
		Views: view.NewEngine(),
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			de := apperrors.ToDomainError(err)
			return c.Status(de.HTTPStatus).JSON(fiber.Map{"error": fiber.Map{"code": de.Code, "details": de.Details}})
		},
	})
	app.Use(func(c *fiber.Ctx) error {
		if user != nil {
			auth.SetPrincipal(c, &auth.Principal{
				User:    user,
				Session: domain.Session{TokenID: "t-" + user.ID, UserID: user.ID, ExpiresAt: time.Now().Add(time.Hour)},
			})
		}
		return c.Next()
	})
	return app
}

func mountAdmin(app *fiber.App, ctxMock *authContextMock) {
	h := NewAdminHandler(func(*auth.Principal) dashboard.AuthContext { return ctxMock }, view.NewEngine(), zap.NewNop(), testPageConfig())
	app.Get("/admin", h.Show)
	app.Post("/admin/groups", h.CreateGroup)
	app.Post("/admin/logout", h.Logout)
}

func formRequest(path string, values url.Values) *http.Request {
	req, _ := http.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationForm)
	return req
}

func jsonRequest(method, path, body string) *http.Request {
	req, _ := http.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return req
}

func do(t *testing.T, app *fiber.App, req *http.Request) (*http.Response, string) {
	t.Helper()
	resp, err := app.Test(req)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	return resp, string(body)
}

func sessionCookie(resp *http.Response, name string) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}
