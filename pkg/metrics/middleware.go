package metrics

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
)

// Middleware records request count, latency and in-flight requests. The
// route pattern is used as the path label to keep cardinality bounded.
func Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			HTTPRequestsInFlight.Inc()
			defer HTTPRequestsInFlight.Dec()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			path := c.Path()
			if path == "" {
				path = "unmatched"
			}
			method := c.Request().Method
			HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(c.Response().Status)).Inc()
			HTTPRequestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
			return nil
		}
	}
}
