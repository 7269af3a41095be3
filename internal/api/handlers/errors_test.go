package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/bargain-finder/internal/marketplace"
	"github.com/donaldgifford/bargain-finder/pkg/apperr"
)

func TestToHTTPError(t *testing.T) {
	t.Parallel()

	providerErr := marketplace.WrapProviderError("eBay", marketplace.OpSearch, errors.New("timeout"))

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantDetail string
		wantRetry  string
	}{
		{
			name:       "deadline",
			err:        fmt.Errorf("calling: %w", context.DeadlineExceeded),
			wantStatus: http.StatusGatewayTimeout,
			wantDetail: "upstream request timed out",
		},
		{
			name:       "plain error hides detail",
			err:        errors.New("db password is hunter2"),
			wantStatus: http.StatusInternalServerError,
			wantDetail: "internal server error",
		},
		{
			name:       "validation",
			err:        apperr.Validation("invalid URL"),
			wantStatus: http.StatusBadRequest,
			wantDetail: "invalid URL",
		},
		{
			name:       "not found",
			err:        apperr.NotFound("listing not found: 42"),
			wantStatus: http.StatusNotFound,
			wantDetail: "listing not found: 42",
		},
		{
			name:       "rate limited",
			err:        apperr.RateLimited("ebay", 1500*time.Millisecond),
			wantStatus: http.StatusTooManyRequests,
			wantRetry:  "2",
		},
		{
			name:       "provider failure",
			err:        apperr.Wrap(providerErr, providerErr.Error(), http.StatusInternalServerError, apperr.CodeInternal),
			wantStatus: http.StatusBadGateway,
			wantDetail: "failed to search eBay: timeout",
		},
		{
			name:       "invalid model answer",
			err:        apperr.New("reasoning must be a non-empty string", http.StatusInternalServerError, apperr.CodeInvalidAIResponse),
			wantStatus: http.StatusBadGateway,
			wantDetail: "reasoning must be a non-empty string",
		},
		{
			name:       "other internal",
			err:        apperr.Wrap(errors.New("x"), "calling evaluation backend: x", 0, ""),
			wantStatus: http.StatusInternalServerError,
			wantDetail: "calling evaluation backend: x",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := toHTTPError(tt.err)

			var se huma.StatusError
			require.ErrorAs(t, got, &se)
			assert.Equal(t, tt.wantStatus, se.GetStatus())
			if tt.wantDetail != "" {
				assert.Contains(t, se.Error(), tt.wantDetail)
			}
			if tt.wantRetry != "" {
				var he huma.HeadersError
				require.ErrorAs(t, got, &he)
				assert.Equal(t, tt.wantRetry, he.GetHeaders().Get("Retry-After"))
			}
		})
	}
}
