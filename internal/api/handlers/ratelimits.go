package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/donaldgifford/bargain-finder/internal/ratelimit"
)

// RateLimitReporter exposes token bucket state.
type RateLimitReporter interface {
	Status() []ratelimit.BucketStatus
}

// RateLimitHandler provides the provider rate-limit status endpoint.
type RateLimitHandler struct {
	rl RateLimitReporter
}

// NewRateLimitHandler creates a new RateLimitHandler.
func NewRateLimitHandler(rl RateLimitReporter) *RateLimitHandler {
	return &RateLimitHandler{rl: rl}
}

// RateLimitOutput is the response body for the rate-limit endpoint.
type RateLimitOutput struct {
	Body struct {
		Buckets []ratelimit.BucketStatus `json:"buckets" doc:"Token bucket state per provider, ordered by provider"`
	}
}

// GetRateLimits returns the current token bucket state.
func (h *RateLimitHandler) GetRateLimits(_ context.Context, _ *struct{}) (*RateLimitOutput, error) {
	resp := &RateLimitOutput{}
	resp.Body.Buckets = []ratelimit.BucketStatus{}
	if h.rl == nil {
		return resp, nil
	}
	resp.Body.Buckets = h.rl.Status()
	return resp, nil
}

// RegisterRateLimitRoutes registers the rate-limit endpoint with the Huma API.
func RegisterRateLimitRoutes(api huma.API, h *RateLimitHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "get-ratelimits",
		Method:      http.MethodGet,
		Path:        "/api/v1/ratelimits",
		Summary:     "Get provider rate-limit status",
		Description: "Returns tokens available and the wait before the next call for each provider bucket.",
		Tags:        []string{"ratelimits"},
	}, h.GetRateLimits)
}
