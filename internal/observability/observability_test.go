package observability

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/support-admin/internal/config"
)

func TestNewLoggerFallsBackOnUnknownLevel(t *testing.T) {
	logger, err := NewLogger(config.LoggerConfig{Level: "chatty"})
	require.NoError(t, err)
	require.True(t, logger.Core().Enabled(zap.InfoLevel))
	require.False(t, logger.Core().Enabled(zap.DebugLevel))
}

func TestMetricsCounters(t *testing.T) {
	m := NewMetrics()
	m.RecordRequest("/admin", http.MethodGet, http.StatusOK, time.Millisecond)
	m.RecordRequest("/admin", http.MethodGet, http.StatusOK, time.Millisecond)
	m.RecordError("/api/users", http.MethodGet, "FORBIDDEN")

	snap := m.Snapshot()
	require.Equal(t, int64(2), snap.Requests["/admin|GET|200"])
	require.Equal(t, int64(1), snap.Errors["/api/users|GET|FORBIDDEN"])
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.RecordRequest("/", http.MethodGet, http.StatusOK, 0)
	m.RecordError("/", http.MethodGet, "X")
	require.Empty(t, m.Snapshot().Requests)
}

func TestRequestLoggerRecordsPath(t *testing.T) {
	metrics := NewMetrics()
	app := fiber.New()
	app.Use(RequestLogger(zap.NewNop(), metrics))
	app.Get("/health/live", func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusNoContent)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health/live", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	require.Equal(t, int64(1), metrics.Snapshot().Requests["/health/live|GET|204"])
}
