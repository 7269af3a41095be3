package client

import (
	"context"
	"net/url"

	"github.com/donaldgifford/bargain-finder/internal/ratelimit"
	domain "github.com/donaldgifford/bargain-finder/pkg/types"
)

// Lookup resolves an Amazon or eBay listing URL.
func (c *Client) Lookup(ctx context.Context, listingURL string) (*domain.Listing, error) {
	var l domain.Listing
	if err := c.post(ctx, "/api/v1/listings/lookup", map[string]string{"url": listingURL}, &l); err != nil {
		return nil, err
	}
	return &l, nil
}

// GetListing returns a single listing by marketplace ID.
func (c *Client) GetListing(ctx context.Context, m domain.Marketplace, id string) (*domain.Listing, error) {
	var l domain.Listing
	path := "/api/v1/listings/" + url.PathEscape(string(m)) + "/" + url.PathEscape(id)
	if err := c.get(ctx, path, &l); err != nil {
		return nil, err
	}
	return &l, nil
}

// SearchRequest is the body of a search call. Marketplace may be "all".
type SearchRequest struct {
	Query       string   `json:"query"`
	Marketplace string   `json:"marketplace,omitempty"`
	Category    string   `json:"category,omitempty"`
	MinPrice    *float64 `json:"min_price,omitempty"`
	MaxPrice    *float64 `json:"max_price,omitempty"`
	Condition   string   `json:"condition,omitempty"`
	SortBy      string   `json:"sort_by,omitempty"`
	Limit       int      `json:"limit,omitempty"`
	Offset      int      `json:"offset,omitempty"`
}

// Search runs a marketplace search.
func (c *Client) Search(ctx context.Context, req *SearchRequest) (*domain.SearchResult, error) {
	var res domain.SearchResult
	if err := c.post(ctx, "/api/v1/search", req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// EvaluationResponse pairs an evaluated listing with its result.
type EvaluationResponse struct {
	Listing *domain.Listing          `json:"listing"`
	Result  *domain.EvaluationResult `json:"result"`
	Alerted bool                     `json:"alerted"`
}

// Evaluate fetches and evaluates the listing at listingURL.
func (c *Client) Evaluate(ctx context.Context, listingURL string) (*EvaluationResponse, error) {
	var resp EvaluationResponse
	if err := c.post(ctx, "/api/v1/evaluations", map[string]string{"url": listingURL}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// RateLimits returns provider token bucket state.
func (c *Client) RateLimits(ctx context.Context) ([]ratelimit.BucketStatus, error) {
	var resp struct {
		Buckets []ratelimit.BucketStatus `json:"buckets"`
	}
	if err := c.get(ctx, "/api/v1/ratelimits", &resp); err != nil {
		return nil, err
	}
	return resp.Buckets, nil
}
