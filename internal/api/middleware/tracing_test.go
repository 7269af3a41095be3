package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

func newTracedEcho(t *testing.T, sr *tracetest.SpanRecorder) *echo.Echo {
	t.Helper()

	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	t.Cleanup(func() { _ = tp.Shutdown(t.Context()) })

	e := echo.New()
	e.Use(Tracing(tp))
	e.GET("/api/v1/listings/:marketplace/:id", func(c echo.Context) error {
		assert.True(t, trace.SpanContextFromContext(c.Request().Context()).IsValid())
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/api/v1/boom", func(_ echo.Context) error {
		return echo.NewHTTPError(http.StatusBadGateway, "upstream")
	})
	e.GET("/healthz", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	return e
}

func TestTracing(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		path       string
		wantSpan   string
		wantStatus int
		wantError  bool
	}{
		{
			name:       "names span by route template",
			path:       "/api/v1/listings/ebay/123",
			wantSpan:   "GET /api/v1/listings/:marketplace/:id",
			wantStatus: http.StatusOK,
		},
		{
			name:       "handler error marks span",
			path:       "/api/v1/boom",
			wantSpan:   "GET /api/v1/boom",
			wantStatus: http.StatusBadGateway,
			wantError:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			sr := tracetest.NewSpanRecorder()
			e := newTracedEcho(t, sr)

			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, http.NoBody))

			spans := sr.Ended()
			require.Len(t, spans, 1)
			span := spans[0]
			assert.Equal(t, tt.wantSpan, span.Name())
			assert.Equal(t, trace.SpanKindServer, span.SpanKind())
			assert.Contains(t, span.Attributes(), attribute.Int("http.response.status_code", tt.wantStatus))
			if tt.wantError {
				assert.Equal(t, codes.Error, span.Status().Code)
			} else {
				assert.Equal(t, codes.Unset, span.Status().Code)
			}
		})
	}
}

func TestTracing_SkipsProbes(t *testing.T) {
	t.Parallel()

	sr := tracetest.NewSpanRecorder()
	e := newTracedEcho(t, sr)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", http.NoBody))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, sr.Ended())
}

func TestTracing_ContinuesIncomingTrace(t *testing.T) {
	prev := otel.GetTextMapPropagator()
	otel.SetTextMapPropagator(propagation.TraceContext{})
	t.Cleanup(func() { otel.SetTextMapPropagator(prev) })

	sr := tracetest.NewSpanRecorder()
	e := newTracedEcho(t, sr)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/listings/amazon/B08XYZ1234", http.NoBody)
	req.Header.Set("traceparent", "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01")
	e.ServeHTTP(httptest.NewRecorder(), req)

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", spans[0].SpanContext().TraceID().String())
	assert.Equal(t, "00f067aa0ba902b7", spans[0].Parent().SpanID().String())
}
