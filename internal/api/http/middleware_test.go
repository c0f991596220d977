package http

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/deskhive/support-desk/internal/observability"
	apperrors "github.com/deskhive/support-desk/pkg/util/errorutil"
)

func newTestApp(metrics *observability.Metrics) *fiber.App {
	app := fiber.New()
	RegisterMiddlewares(app, zap.NewNop(), metrics, 0)
	return app
}

func TestErrorEnvelopeWritten(t *testing.T) {
	app := newTestApp(observability.NewMetrics())
	app.Get("/boom", func(c *fiber.Ctx) error {
		return apperrors.NewValidationError("bad input", nil)
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/boom", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, 400, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"failed","message":"bad input"}`, string(body))
}

// A failed request must be counted under its failure status, not the
// pre-envelope 200.
func TestFailedRequestRecordedWithFailureStatus(t *testing.T) {
	metrics := observability.NewMetrics()
	app := newTestApp(metrics)
	app.Get("/boom", func(c *fiber.Ctx) error {
		return apperrors.NewValidationError("bad input", nil)
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/boom", nil))
	require.NoError(t, err)
	resp.Body.Close()

	requests, errors := metrics.Snapshot()
	assert.Equal(t, int64(1), requests["/boom|GET|400"])
	assert.Zero(t, requests["/boom|GET|200"])
	assert.Equal(t, int64(1), errors["/boom|GET|VALIDATION_FAILED"])
}

func TestSuccessfulRequestRecorded(t *testing.T) {
	metrics := observability.NewMetrics()
	app := newTestApp(metrics)
	app.Get("/ok", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/ok", nil))
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, 200, resp.StatusCode)
	requests, errors := metrics.Snapshot()
	assert.Equal(t, int64(1), requests["/ok|GET|200"])
	assert.Empty(t, errors)
}

func TestPanicRecoveredAsInternalError(t *testing.T) {
	metrics := observability.NewMetrics()
	app := newTestApp(metrics)
	app.Get("/panic", func(c *fiber.Ctx) error {
		panic("kaboom")
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/panic", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, 500, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"failed","message":"internal server error"}`, string(body))

	requests, _ := metrics.Snapshot()
	assert.Equal(t, int64(1), requests["/panic|GET|500"])
}
