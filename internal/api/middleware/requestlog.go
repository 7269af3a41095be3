package middleware

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel/trace"

	"github.com/donaldgifford/bargain-finder/pkg/logger"
)

const (
	requestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
)

// probePaths are logged on their first success and on every failure.
var probePaths = map[string]bool{
	"/healthz": true,
	"/readyz":  true,
}

// RequestLog returns Echo middleware that logs requests with structured
// fields. It generates a request ID if none is provided, echoes it in the
// response header and stores a request-scoped logger in the request
// context for handlers to pick up with logger.FromContext.
func RequestLog(log *slog.Logger) echo.MiddlewareFunc {
	var (
		mu          sync.Mutex
		probeLogged = map[string]bool{}
	)

	// shouldLog suppresses repeated successful probes.
	shouldLog := func(path string, status int) bool {
		if !probePaths[path] || status >= http.StatusBadRequest {
			return true
		}
		mu.Lock()
		defer mu.Unlock()
		if probeLogged[path] {
			return false
		}
		probeLogged[path] = true
		return true
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()

			reqID := req.Header.Get(requestIDHeader)
			if reqID == "" {
				reqID = uuid.NewString()
			}

			c.Set(requestIDKey, reqID)
			c.Response().Header().Set(requestIDHeader, reqID)

			reqLog := log.With("request_id", reqID)
			c.SetRequest(req.WithContext(logger.WithContext(req.Context(), reqLog)))

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			status := c.Response().Status
			if !shouldLog(req.URL.Path, status) {
				return nil
			}

			attrs := []any{
				"method", req.Method,
				"path", req.URL.Path,
				"status", status,
				"duration_ms", time.Since(start).Milliseconds(),
			}
			if sc := trace.SpanContextFromContext(c.Request().Context()); sc.HasTraceID() {
				attrs = append(attrs, "trace_id", sc.TraceID().String())
			}

			switch {
			case status >= http.StatusInternalServerError && !probePaths[req.URL.Path]:
				reqLog.Error("request", attrs...)
			case status >= http.StatusBadRequest:
				reqLog.Warn("request", attrs...)
			default:
				reqLog.Info("request", attrs...)
			}

			return nil
		}
	}
}
