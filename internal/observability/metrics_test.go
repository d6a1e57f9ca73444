package observability

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMetricsSnapshot(t *testing.T) {
	m := NewMetrics()
	m.RecordRequest("/api/orders", "POST", 201, 10*time.Millisecond)
	m.RecordRequest("/api/orders", "POST", 201, 30*time.Millisecond)
	m.RecordError("/api/orders", "POST", "VALIDATION_ERROR")

	snap := m.Snapshot()
	assert.Equal(t, int64(2), snap.TotalRequests)
	assert.Equal(t, int64(2), snap.Requests["POST /api/orders|201"])
	assert.Equal(t, int64(1), snap.Errors["POST /api/orders|VALIDATION_ERROR"])
	assert.InDelta(t, 20.0, snap.AverageLatencyMS, 0.01)
}

func TestMetricsNilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordRequest("/", "GET", 200, time.Millisecond)
		m.RecordError("/", "GET", "INTERNAL_ERROR")
	})
}

func TestRequestLoggerRecordsRoute(t *testing.T) {
	metrics := NewMetrics()
	app := fiber.New()
	app.Use(RequestLogger(zap.NewNop(), metrics))
	app.Get("/items/:id", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/items/42", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	snap := metrics.Snapshot()
	assert.Equal(t, int64(1), snap.Requests["GET /items/:id|204"])
}
