package middleware

import (
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"

	"kisaan/pkg/logger"
)

const RequestIDHeader = "X-Request-Id"

// RequestID propagates or creates a request id, stores it in the request
// context for logger.FromContext and logs one line per request.
func RequestID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := c.Request().Header.Get(RequestIDHeader)
			if id == "" {
				id = logger.GenerateRequestID()
			}
			c.Response().Header().Set(RequestIDHeader, id)
			req := c.Request()
			ctx := logger.WithRequestID(req.Context(), id)
			c.SetRequest(req.WithContext(ctx))

			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}
			logger.FromContext(ctx).LogAttrs(ctx, slog.LevelDebug, "http request",
				slog.String("method", req.Method),
				slog.String("path", c.Path()),
				slog.Int("status", c.Response().Status),
				slog.Duration("took", time.Since(start)),
			)
			return nil
		}
	}
}
