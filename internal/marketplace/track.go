package marketplace

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/donaldgifford/bargain-finder/internal/metrics"
	"github.com/donaldgifford/bargain-finder/pkg/apperr"
)

const tracerName = "github.com/donaldgifford/bargain-finder/internal/marketplace"

// Track starts a span and a timer for one provider call. The returned
// function must be called with the call's final error.
//
//	ctx, done := marketplace.Track(ctx, "amazon", marketplace.OpSearch)
//	defer func() { done(err) }()
func Track(ctx context.Context, provider string, op Op) (context.Context, func(error)) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, provider+"."+string(op))
	span.SetAttributes(
		attribute.String("marketplace.provider", provider),
		attribute.String("marketplace.operation", string(op)),
	)
	start := time.Now()

	return ctx, func(err error) {
		metrics.MarketplaceRequestDuration.
			WithLabelValues(provider, string(op)).
			Observe(time.Since(start).Seconds())
		metrics.MarketplaceRequestsTotal.
			WithLabelValues(provider, string(op), outcome(err)).
			Inc()

		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case apperr.IsValidation(err):
		return "invalid"
	default:
		return "error"
	}
}
