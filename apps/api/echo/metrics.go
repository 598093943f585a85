package echoapi

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var requestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "api_request_duration_seconds",
		Help:    "API request duration in seconds",
		Buckets: prometheus.DefBuckets,
	},
	[]string{"path", "method", "status"},
)

// metricsMiddleware records the duration of every request, labeled by route.
func metricsMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			start := time.Now()
			err := next(ctx)
			requestDuration.WithLabelValues(
				ctx.Path(),
				ctx.Request().Method,
				strconv.Itoa(ctx.Response().Status),
			).Observe(time.Since(start).Seconds())
			return err
		}
	}
}
