package observability

import (
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/amirasaad/cinema/pkg/config"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddleware_CountsByRouteTemplate(t *testing.T) {
	InitMetrics()
	app := fiber.New()
	app.Use(Middleware())
	app.Get("/film/:id", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) })

	before := testutil.ToFloat64(HTTPRequests.WithLabelValues("GET", "/film/:id", "204"))
	for _, id := range []string{"a", "b"} {
		resp, err := app.Test(httptest.NewRequest("GET", "/film/"+id, nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	}
	after := testutil.ToFloat64(HTTPRequests.WithLabelValues("GET", "/film/:id", "204"))
	assert.Equal(t, 2.0, after-before)
}

func TestHandler_ExposesCollectors(t *testing.T) {
	InitMetrics()
	InitMetrics()
	TransactionTransitions.WithLabelValues("Approved").Inc()

	app := fiber.New()
	app.Get("/metrics", Handler())
	resp, err := app.Test(httptest.NewRequest("GET", "/metrics", nil))
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), "cinema_transaction_transitions_total"))
}

func TestInitTracing_DisabledWithoutEndpoint(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	shutdown, err := InitTracing(context.Background(), &config.Otel{}, logger)
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}
