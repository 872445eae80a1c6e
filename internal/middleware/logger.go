package middleware

import (
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/oklog/ulid/v2"

	"github.com/liftlog/workout-api/internal/logging"
)

// RequestLogger tags every request with an id (the incoming X-Request-ID or
// a fresh ULID), attaches a request-scoped logger to the context and logs one
// line per completed request. Nothing is logged when env is "test"; in
// "production" the line carries fewer fields.
func RequestLogger(base *slog.Logger, env string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()

			reqID := req.Header.Get(echo.HeaderXRequestID)
			if reqID == "" {
				reqID = ulid.Make().String()
			}
			c.Response().Header().Set(echo.HeaderXRequestID, reqID)

			logger := base.With("req_id", reqID)
			c.SetRequest(req.WithContext(logging.WithContext(req.Context(), logger)))

			if err := next(c); err != nil {
				// Let the error handler write the response now so the
				// logged status is the one the client sees.
				c.Error(err)
			}
			if env == "test" {
				return nil
			}

			res := c.Response()
			attrs := []any{
				"method", req.Method,
				"path", req.URL.RequestURI(),
				"status", res.Status,
				"bytes", res.Size,
				"duration_ms", time.Since(start).Milliseconds(),
			}
			if env != "production" {
				attrs = append(attrs,
					"remote_addr", c.RealIP(),
					"user_agent", req.UserAgent(),
				)
			}
			logger.Info("http_request", attrs...)
			return nil
		}
	}
}
