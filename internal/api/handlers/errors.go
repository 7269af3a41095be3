package handlers

import (
	"context"
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/danielgtaylor/huma/v2"

	"github.com/donaldgifford/bargain-finder/internal/marketplace"
	"github.com/donaldgifford/bargain-finder/pkg/apperr"
)

// toHTTPError maps the apperr taxonomy onto API statuses. Provider and
// model failures become 502 since the fault lies upstream of this service.
func toHTTPError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return huma.Error504GatewayTimeout("upstream request timed out")
	}

	var ae *apperr.Error
	if !errors.As(err, &ae) {
		return huma.Error500InternalServerError("internal server error")
	}

	switch ae.Status {
	case http.StatusBadRequest:
		return huma.Error400BadRequest(ae.Message)
	case http.StatusNotFound:
		return huma.Error404NotFound(ae.Message)
	case http.StatusTooManyRequests:
		he := huma.Error429TooManyRequests(ae.Message)
		if ae.RetryAfter > 0 {
			secs := int(math.Ceil(ae.RetryAfter.Seconds()))
			return huma.ErrorWithHeaders(he, http.Header{"Retry-After": {strconv.Itoa(secs)}})
		}
		return he
	}

	var pe *marketplace.ProviderError
	if ae.Code == apperr.CodeInvalidAIResponse || errors.As(err, &pe) {
		return huma.Error502BadGateway(ae.Message)
	}
	return huma.Error500InternalServerError(ae.Message)
}
