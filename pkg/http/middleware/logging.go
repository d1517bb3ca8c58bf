package middleware

import (
	"time"

	"github.com/labstack/echo/v4"

	xlogger "CoinSentry/pkg/logger"
)

// RequestLogging logs HTTP requests through the structured logger.
func RequestLogging(l *xlogger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			res := c.Response()
			start := time.Now()

			err := next(c)

			l.Info("http request",
				xlogger.String("method", req.Method),
				xlogger.String("uri", req.RequestURI),
				xlogger.Int("status", res.Status),
				xlogger.Duration("duration_ms", time.Since(start)),
			)

			return err
		}
	}
}
