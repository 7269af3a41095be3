// Package domain defines the core business types for the bargain finder.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Marketplace identifies the marketplace a listing was sourced from.
type Marketplace string

// Marketplace constants.
const (
	MarketplaceAmazon Marketplace = "amazon"
	MarketplaceEbay   Marketplace = "ebay"
)

// Valid reports whether m is a supported marketplace.
func (m Marketplace) Valid() bool {
	return m == MarketplaceAmazon || m == MarketplaceEbay
}

// Condition represents the normalized condition of a listed item.
type Condition string

// Condition constants.
const (
	ConditionNew         Condition = "new"
	ConditionUsed        Condition = "used"
	ConditionRefurbished Condition = "refurbished"
	ConditionVintage     Condition = "vintage"
	ConditionCollectible Condition = "collectible"
	ConditionUnknown     Condition = "unknown"
)

// SortBy is the requested result ordering for a search.
type SortBy string

// Sort constants.
const (
	SortRelevance SortBy = "relevance"
	SortPrice     SortBy = "price"
	SortNewest    SortBy = "newest"
)

// listingNamespace seeds deterministic listing IDs.
var listingNamespace = uuid.MustParse("8d3f6a52-3c1e-4c0b-9a57-6f0f1b1e7c21")

// ListingID returns the stable identifier for an item on a marketplace.
// The same marketplace item always maps to the same ID.
func ListingID(m Marketplace, marketplaceID string) string {
	return uuid.NewSHA1(listingNamespace, []byte(string(m)+":"+marketplaceID)).String()
}

// Listing is a marketplace item normalized across providers. Listings are
// produced by provider clients and are not modified after they are returned.
type Listing struct {
	ID            string      `json:"id"`
	Marketplace   Marketplace `json:"marketplace"`
	MarketplaceID string      `json:"marketplace_id"`
	Title         string      `json:"title"`
	Description   string      `json:"description,omitempty"`

	// Pricing
	Price    float64 `json:"price"`
	Currency string  `json:"currency"`

	Images    []string  `json:"images"`
	Category  string    `json:"category,omitempty"`
	Condition Condition `json:"condition,omitempty"`

	// Seller
	SellerName   string   `json:"seller_name,omitempty"`
	SellerRating *float64 `json:"seller_rating,omitempty"`

	ListingURL string `json:"listing_url"`
	Available  bool   `json:"available"`
}

// PrimaryImage returns the first image URL, or "" when the listing has none.
func (l *Listing) PrimaryImage() string {
	if len(l.Images) == 0 {
		return ""
	}
	return l.Images[0]
}

// SearchParams defines a marketplace search. An empty Marketplace means
// the default marketplace (amazon).
type SearchParams struct {
	Query       string      `json:"query"`
	Marketplace Marketplace `json:"marketplace,omitempty"`
	Category    string      `json:"category,omitempty"`
	MinPrice    *float64    `json:"min_price,omitempty"`
	MaxPrice    *float64    `json:"max_price,omitempty"`
	Condition   Condition   `json:"condition,omitempty"`
	SortBy      SortBy      `json:"sort_by,omitempty"`
	Limit       int         `json:"limit,omitempty"`
	Offset      int         `json:"offset,omitempty"`
}

// PageSize returns the effective page size, defaulting to 10.
func (p *SearchParams) PageSize() int {
	if p.Limit <= 0 {
		return 10
	}
	return p.Limit
}

// SearchResult holds one page of normalized search results.
type SearchResult struct {
	Listings []Listing `json:"listings"`
	Total    int       `json:"total"`
	HasMore  bool      `json:"has_more"`
}

// EvaluationMode records whether the model saw listing images.
type EvaluationMode string

// Evaluation mode constants.
const (
	EvaluationMultimodal EvaluationMode = "multimodal"
	EvaluationTextOnly   EvaluationMode = "text-only"
)

// Evaluation is the validated fair-value assessment produced by the model.
type Evaluation struct {
	EstimatedMarketValue     float64  `json:"estimated_market_value"`
	UndervaluationPercentage float64  `json:"undervaluation_percentage"`
	ConfidenceScore          int      `json:"confidence_score"`
	Reasoning                string   `json:"reasoning"`
	Factors                  []string `json:"factors"`
	IsReplicaOrNovelty       bool     `json:"is_replica_or_novelty"`
}

// Citation is a web source the model referenced. StartIndex and EndIndex
// are character offsets into the text the citation applies to.
type Citation struct {
	URL        string `json:"url"`
	Title      string `json:"title"`
	StartIndex int    `json:"start_index"`
	EndIndex   int    `json:"end_index"`
}

// EvaluationResult wraps an Evaluation with provenance metadata.
type EvaluationResult struct {
	Evaluation         Evaluation     `json:"evaluation"`
	ModelVersion       string         `json:"model_version"`
	PromptVersion      string         `json:"prompt_version"`
	EvaluationMode     EvaluationMode `json:"evaluation_mode"`
	EvaluatedAt        time.Time      `json:"evaluated_at"`
	WebSearchUsed      bool           `json:"web_search_used"`
	WebSearchCitations []Citation     `json:"web_search_citations,omitempty"`
}
