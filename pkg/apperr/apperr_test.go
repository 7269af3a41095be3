package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNew_Defaults(t *testing.T) {
	t.Parallel()

	e := New("boom", 0, "")
	assert.Equal(t, http.StatusInternalServerError, e.Status)
	assert.Equal(t, CodeInternal, e.Code)
	assert.Equal(t, "boom", e.Error())
}

func TestWrap_Unwraps(t *testing.T) {
	t.Parallel()

	cause := errors.New("connection reset")
	e := Wrap(cause, "failed to get listing: connection reset", http.StatusInternalServerError, CodeInternal)
	assert.ErrorIs(t, e, cause)
	assert.Equal(t, "failed to get listing: connection reset", e.Error())
}

func TestRateLimited(t *testing.T) {
	t.Parallel()

	e := RateLimited("Rate limit exceeded for ebay", 17*time.Second)
	assert.Equal(t, http.StatusTooManyRequests, e.Status)
	assert.Equal(t, CodeRateLimited, e.Code)
	assert.Equal(t, 17*time.Second, e.RetryAfter)
}

func TestStatusAndCodeOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		validation bool
		notFound   bool
	}{
		{
			name:       "validation",
			err:        Validationf("unsupported marketplace: %s", "etsy"),
			wantStatus: http.StatusBadRequest,
			wantCode:   CodeValidation,
			validation: true,
		},
		{
			name:       "wrapped not found",
			err:        fmt.Errorf("lookup: %w", NotFound("listing not found: B08XYZ1234")),
			wantStatus: http.StatusNotFound,
			wantCode:   CodeNotFound,
			notFound:   true,
		},
		{
			name:       "invalid AI response",
			err:        New("bad answer", http.StatusBadGateway, CodeInvalidAIResponse),
			wantStatus: http.StatusBadGateway,
			wantCode:   CodeInvalidAIResponse,
		},
		{
			name:       "plain error",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   CodeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.wantStatus, StatusOf(tt.err))
			assert.Equal(t, tt.wantCode, CodeOf(tt.err))
			assert.Equal(t, tt.validation, IsValidation(tt.err))
			assert.Equal(t, tt.notFound, IsNotFound(tt.err))
		})
	}
}
