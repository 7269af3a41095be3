package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	domain "github.com/donaldgifford/bargain-finder/pkg/types"
)

// allMarketplaces fans a search out to every configured marketplace.
const allMarketplaces = "all"

// SearchService runs marketplace searches.
type SearchService interface {
	Search(ctx context.Context, params domain.SearchParams) (*domain.SearchResult, error)
	SearchAll(ctx context.Context, params domain.SearchParams) (*domain.SearchResult, error)
}

// SearchHandler handles marketplace search requests.
type SearchHandler struct {
	svc SearchService
}

// NewSearchHandler creates a new SearchHandler.
func NewSearchHandler(svc SearchService) *SearchHandler {
	return &SearchHandler{svc: svc}
}

// SearchInput is the request body for the search endpoint.
type SearchInput struct {
	Body struct {
		Query       string   `json:"query" minLength:"1" doc:"Search keywords" example:"sony wh-1000xm5"`
		Marketplace string   `json:"marketplace,omitempty" enum:"amazon,ebay,all" doc:"Marketplace to search (default amazon)"`
		Category    string   `json:"category,omitempty" doc:"Provider category (SearchIndex, categoryId or category_id)"`
		MinPrice    *float64 `json:"min_price,omitempty" minimum:"0" doc:"Minimum price"`
		MaxPrice    *float64 `json:"max_price,omitempty" minimum:"0" doc:"Maximum price"`
		Condition   string   `json:"condition,omitempty" enum:"new,used,refurbished,vintage,collectible" doc:"Item condition"`
		SortBy      string   `json:"sort_by,omitempty" enum:"relevance,price,newest" doc:"Sort order"`
		Limit       int      `json:"limit,omitempty" minimum:"1" maximum:"50" doc:"Page size (default 10)" example:"10"`
		Offset      int      `json:"offset,omitempty" minimum:"0" doc:"Result offset"`
	}
}

// SearchOutput is the response body for the search endpoint.
type SearchOutput struct {
	Body *domain.SearchResult
}

// Search runs a search against one marketplace, or all of them.
func (h *SearchHandler) Search(ctx context.Context, input *SearchInput) (*SearchOutput, error) {
	b := input.Body
	if b.MinPrice != nil && b.MaxPrice != nil && *b.MinPrice > *b.MaxPrice {
		return nil, huma.Error422UnprocessableEntity("min_price must not exceed max_price")
	}

	params := domain.SearchParams{
		Query:     b.Query,
		Category:  b.Category,
		MinPrice:  b.MinPrice,
		MaxPrice:  b.MaxPrice,
		Condition: domain.Condition(b.Condition),
		SortBy:    domain.SortBy(b.SortBy),
		Limit:     b.Limit,
		Offset:    b.Offset,
	}

	var (
		res *domain.SearchResult
		err error
	)
	if b.Marketplace == allMarketplaces {
		res, err = h.svc.SearchAll(ctx, params)
	} else {
		params.Marketplace = domain.Marketplace(b.Marketplace)
		res, err = h.svc.Search(ctx, params)
	}
	if err != nil {
		return nil, toHTTPError(err)
	}

	return &SearchOutput{Body: res}, nil
}

// RegisterSearchRoutes registers search endpoints with the Huma API.
func RegisterSearchRoutes(api huma.API, h *SearchHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "search-listings",
		Method:      http.MethodPost,
		Path:        "/api/v1/search",
		Summary:     "Search marketplace listings",
		Description: "Searches one marketplace, or every configured marketplace when marketplace is \"all\".",
		Tags:        []string{"search"},
		Errors:      []int{http.StatusBadRequest, http.StatusBadGateway},
	}, h.Search)
}
