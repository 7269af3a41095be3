package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	domain "github.com/donaldgifford/bargain-finder/pkg/types"
)

// ListingEvaluator produces fair-value assessments.
type ListingEvaluator interface {
	Evaluate(ctx context.Context, l *domain.Listing) (*domain.EvaluationResult, error)
}

// DealAlerter decides whether an evaluation is worth an alert and sends it.
type DealAlerter interface {
	Consider(ctx context.Context, l *domain.Listing, r *domain.EvaluationResult) bool
}

// EvaluationHandler fetches a listing and evaluates it.
type EvaluationHandler struct {
	listings  ListingService
	evaluator ListingEvaluator
	alerter   DealAlerter
}

// EvaluationOption configures an EvaluationHandler.
type EvaluationOption func(*EvaluationHandler)

// WithDealAlerter sends bargain alerts for qualifying evaluations.
func WithDealAlerter(a DealAlerter) EvaluationOption {
	return func(h *EvaluationHandler) {
		h.alerter = a
	}
}

// NewEvaluationHandler creates a new EvaluationHandler.
func NewEvaluationHandler(listings ListingService, evaluator ListingEvaluator, opts ...EvaluationOption) *EvaluationHandler {
	h := &EvaluationHandler{listings: listings, evaluator: evaluator}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// EvaluateInput is the request body for the evaluation endpoint.
type EvaluateInput struct {
	Body struct {
		URL string `json:"url" minLength:"1" doc:"Amazon or eBay listing URL" example:"https://www.ebay.com/itm/123456789012"`
	}
}

// EvaluateOutput pairs the evaluated listing with the result.
type EvaluateOutput struct {
	Body struct {
		Listing *domain.Listing          `json:"listing"`
		Result  *domain.EvaluationResult `json:"result"`
		Alerted bool                     `json:"alerted" doc:"Whether a bargain alert was sent"`
	}
}

// Evaluate resolves the URL and asks the model for a valuation.
func (h *EvaluationHandler) Evaluate(ctx context.Context, input *EvaluateInput) (*EvaluateOutput, error) {
	l, err := h.listings.FetchListingFromURL(ctx, input.Body.URL)
	if err != nil {
		return nil, toHTTPError(err)
	}

	res, err := h.evaluator.Evaluate(ctx, l)
	if err != nil {
		return nil, toHTTPError(err)
	}

	out := &EvaluateOutput{}
	out.Body.Listing = l
	out.Body.Result = res
	if h.alerter != nil {
		out.Body.Alerted = h.alerter.Consider(ctx, l, res)
	}
	return out, nil
}

// RegisterEvaluationRoutes registers the evaluation endpoint with the Huma API.
func RegisterEvaluationRoutes(api huma.API, h *EvaluationHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "evaluate-listing",
		Method:      http.MethodPost,
		Path:        "/api/v1/evaluations",
		Summary:     "Evaluate a listing",
		Description: "Fetches a listing by URL and returns an AI fair-value assessment with web-search citations.",
		Tags:        []string{"evaluations"},
		Errors:      []int{http.StatusBadRequest, http.StatusNotFound, http.StatusBadGateway},
	}, h.Evaluate)
}
