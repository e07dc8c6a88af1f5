package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTPRequests counts served requests by route template and status code.
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinema_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPDuration observes request latency.
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cinema_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// TransactionTransitions counts approve, reject and reset calls by target status.
	TransactionTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinema_transaction_transitions_total",
			Help: "Total number of transaction status transitions",
		},
		[]string{"status"},
	)

	// MediaUploads counts media proxy uploads by outcome.
	MediaUploads = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinema_media_uploads_total",
			Help: "Total number of media uploads",
		},
		[]string{"folder", "result"},
	)

	registerOnce sync.Once
)

// InitMetrics registers the collectors with the default registry.
// Calling it more than once is harmless.
func InitMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(HTTPRequests, HTTPDuration, TransactionTransitions, MediaUploads)
	})
}

// Middleware records HTTPRequests and HTTPDuration for every request.
// The route template is used as label so path ids do not blow up cardinality.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		route := c.Route().Path
		HTTPRequests.WithLabelValues(c.Method(), route, strconv.Itoa(status)).Inc()
		HTTPDuration.WithLabelValues(c.Method(), route).Observe(time.Since(start).Seconds())
		return err
	}
}

// Handler exposes the default registry in the Prometheus text format.
func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
