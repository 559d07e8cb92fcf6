package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/support-admin/internal/api/dto"
	"github.com/spec-kit/support-admin/internal/domain"
	apperrors "github.com/spec-kit/support-admin/pkg/util/errorutil"
)

func newAuthHandler(sessions *sessionServiceMock) *AuthHandler {
	return NewAuthHandler(sessions, zap.NewNop(), testPageConfig())
}

func TestLoginJSON(t *testing.T) {
	exp := time.Now().Add(time.Hour).UTC().Truncate(time.Second)
	sessions := &sessionServiceMock{}
	sessions.On("Login", mock.Anything, "root@x.com", "pw").Return(adminUser, "tok", exp, nil)

	app := newTestApp(nil)
	app.Post("/auth/login", newAuthHandler(sessions).Login)

	resp, body := do(t, app, jsonRequest(http.MethodPost, "/auth/login", `{"email":"root@x.com","password":"pw"}`))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out struct {
		Data dto.LoginResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &out))
	require.Equal(t, "tok", out.Data.Auth.Token)
	require.True(t, exp.Equal(out.Data.Auth.ExpiresAt))
	require.Equal(t, "root@x.com", out.Data.User.Email)
	require.Equal(t, domain.RoleAdmin, out.Data.User.Role)
}

func TestLoginJSONRejections(t *testing.T) {
	sessions := &sessionServiceMock{}
	sessions.On("Login", mock.Anything, "root@x.com", "bad").
		Return(nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials"))

	app := newTestApp(nil)
	app.Post("/auth/login", newAuthHandler(sessions).Login)

	resp, _ := do(t, app, jsonRequest(http.MethodPost, "/auth/login", `{"email":"","password":""}`))
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = do(t, app, jsonRequest(http.MethodPost, "/auth/login", `{"email":"root@x.com","password":"bad"}`))
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestLogoutJSON(t *testing.T) {
	sessions := &sessionServiceMock{}
	sessions.On("Logout", mock.Anything, mock.MatchedBy(func(s domain.Session) bool { return s.TokenID == "t-1" })).Return(nil)

	app := newTestApp(adminUser)
	app.Post("/auth/logout", newAuthHandler(sessions).Logout)

	resp, body := do(t, app, jsonRequest(http.MethodPost, "/auth/logout", `{}`))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.JSONEq(t, `{"data":{"status":"logged_out"}}`, body)
	sessions.AssertExpectations(t)
}

func TestLoginPageRoundTrip(t *testing.T) {
	exp := time.Now().Add(time.Hour)
	sessions := &sessionServiceMock{}
	sessions.On("Login", mock.Anything, "root@x.com", "pw").Return(adminUser, "admin-token", exp, nil)
	sessions.On("Login", mock.Anything, "u@x.com", "pw").Return(plainUser, "user-token", exp, nil)
	sessions.On("Login", mock.Anything, "root@x.com", "bad").
		Return(nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials"))

	app := newTestApp(nil)
	h := newAuthHandler(sessions)
	app.Get("/login", h.LoginPage)
	app.Post("/login", h.LoginSubmit)

	resp, body := do(t, app, httpGet("/login"))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, body, `action="/login"`)

	resp, _ = do(t, app, formRequest("/login", url.Values{"email": {"root@x.com"}, "password": {"pw"}}))
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, "/admin", resp.Header.Get("Location"))
	require.Equal(t, "admin-token", sessionCookie(resp, "sid").Value)

	resp, _ = do(t, app, formRequest("/login", url.Values{"email": {"u@x.com"}, "password": {"pw"}}))
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, "/dashboard", resp.Header.Get("Location"))

	resp, body = do(t, app, formRequest("/login", url.Values{"email": {"root@x.com"}, "password": {"bad"}}))
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Contains(t, body, "Invalid email or password")
	require.Contains(t, body, `value="root@x.com"`)
	require.Nil(t, sessionCookie(resp, "sid"))
}

func TestDashboardPageAndLogout(t *testing.T) {
	sessions := &sessionServiceMock{}
	sessions.On("Logout", mock.Anything, mock.Anything).Return(nil).Once()
	sessions.On("Logout", mock.Anything, mock.Anything).Return(errors.New("redis down")).Once()

	app := newTestApp(plainUser)
	h := newAuthHandler(sessions)
	app.Get("/dashboard", h.DashboardPage)
	app.Post("/logout", h.LogoutSubmit)

	resp, body := do(t, app, httpGet("/dashboard"))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, body, "Welcome, Uma")

	resp, _ = do(t, app, formRequest("/logout", url.Values{}))
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, "/login", resp.Header.Get("Location"))

	resp, _ = do(t, app, formRequest("/logout", url.Values{}))
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, "/dashboard", resp.Header.Get("Location"))
}
