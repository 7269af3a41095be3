package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	domain "github.com/donaldgifford/bargain-finder/pkg/types"
)

// ListingService resolves listings from URLs or marketplace IDs.
type ListingService interface {
	FetchListingFromURL(ctx context.Context, rawURL string) (*domain.Listing, error)
	GetListingByID(ctx context.Context, m domain.Marketplace, id string) (*domain.Listing, error)
}

// ListingsHandler serves listing lookups.
type ListingsHandler struct {
	svc ListingService
}

// NewListingsHandler creates a new ListingsHandler.
func NewListingsHandler(svc ListingService) *ListingsHandler {
	return &ListingsHandler{svc: svc}
}

// LookupInput is the request body for a URL lookup.
type LookupInput struct {
	Body struct {
		URL string `json:"url" minLength:"1" doc:"Amazon or eBay listing URL" example:"https://www.amazon.com/dp/B08XYZ1234"`
	}
}

// ListingOutput wraps a single listing.
type ListingOutput struct {
	Body *domain.Listing
}

// Lookup resolves a marketplace URL to a normalized listing.
func (h *ListingsHandler) Lookup(ctx context.Context, input *LookupInput) (*ListingOutput, error) {
	l, err := h.svc.FetchListingFromURL(ctx, input.Body.URL)
	if err != nil {
		return nil, toHTTPError(err)
	}
	return &ListingOutput{Body: l}, nil
}

// GetListingInput identifies a listing by marketplace and ID.
type GetListingInput struct {
	Marketplace string `path:"marketplace" enum:"amazon,ebay" doc:"Marketplace"`
	ID          string `path:"id" doc:"ASIN or eBay item ID" example:"B08XYZ1234"`
}

// GetListing fetches a listing by marketplace ID. A listing the provider
// reports as absent is a 404.
func (h *ListingsHandler) GetListing(ctx context.Context, input *GetListingInput) (*ListingOutput, error) {
	l, err := h.svc.GetListingByID(ctx, domain.Marketplace(input.Marketplace), input.ID)
	if err != nil {
		return nil, toHTTPError(err)
	}
	if l == nil {
		return nil, huma.Error404NotFound("listing not found: " + input.ID)
	}
	return &ListingOutput{Body: l}, nil
}

// RegisterListingRoutes registers listing endpoints with the Huma API.
func RegisterListingRoutes(api huma.API, h *ListingsHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "lookup-listing",
		Method:      http.MethodPost,
		Path:        "/api/v1/listings/lookup",
		Summary:     "Look up a listing by URL",
		Description: "Parses an Amazon or eBay listing URL and fetches the normalized listing.",
		Tags:        []string{"listings"},
		Errors:      []int{http.StatusBadRequest, http.StatusNotFound, http.StatusBadGateway},
	}, h.Lookup)

	huma.Register(api, huma.Operation{
		OperationID: "get-listing",
		Method:      http.MethodGet,
		Path:        "/api/v1/listings/{marketplace}/{id}",
		Summary:     "Get a listing by marketplace ID",
		Tags:        []string{"listings"},
		Errors:      []int{http.StatusBadRequest, http.StatusNotFound, http.StatusBadGateway},
	}, h.GetListing)
}
