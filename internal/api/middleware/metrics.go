// Package middleware provides Echo middleware for the pickupwatch API.
package middleware

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/pickupwatch/pickupwatch/internal/metrics"
)

// metricsSkipPaths defines URL paths excluded from HTTP request metrics.
// These high-frequency operational endpoints (probes, scrapes) would
// otherwise create metric noise without actionable insight.
var metricsSkipPaths = map[string]struct{}{
	"/metrics": {},
	"/healthz": {},
}

// Metrics returns Echo middleware that records request duration and status.
// Operational paths (/metrics, /healthz) are excluded from histogram and
// counter metrics; /healthz updates a simple up/down gauge instead.
func Metrics() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := c.Path()
			if path == "" {
				path = c.Request().URL.Path
			}

			if _, skip := metricsSkipPaths[path]; skip {
				err := next(c)
				if path == "/healthz" {
					updateHealthGauge(c.Response().Status)
				}
				return err
			}

			start := time.Now()

			err := next(c)

			duration := time.Since(start).Seconds()
			status := strconv.Itoa(c.Response().Status)
			method := c.Request().Method

			metrics.HTTPRequestDuration.
				WithLabelValues(method, path, status).
				Observe(duration)
			metrics.HTTPRequestsTotal.
				WithLabelValues(method, path, status).
				Inc()

			return err
		}
	}
}

// updateHealthGauge sets the health gauge to 1 (success) or 0 (failure).
func updateHealthGauge(status int) {
	if status >= 200 && status < 300 {
		metrics.HealthzUp.Set(1)
	} else {
		metrics.HealthzUp.Set(0)
	}
}
