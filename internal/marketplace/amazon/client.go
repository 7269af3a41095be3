// Package amazon implements marketplace.Client against the Amazon Product
// Advertising API 5 with SigV4 request signing.
package amazon

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/donaldgifford/bargain-finder/internal/marketplace"
	"github.com/donaldgifford/bargain-finder/internal/ratelimit"
	"github.com/donaldgifford/bargain-finder/pkg/apperr"
	domain "github.com/donaldgifford/bargain-finder/pkg/types"
)

const (
	providerName = "Amazon"

	defaultBaseURL     = "https://webservices.amazon.com"
	defaultRegion      = "us-east-1"
	defaultMarketplace = "www.amazon.com"

	service      = "ProductAdvertisingAPI"
	targetPrefix = "com.amazon.paapi5.v1.ProductAdvertisingAPIv1."
	maxItemCount = 10
)

var resources = []string{
	"Images.Primary.Large",
	"Images.Variants.Large",
	"ItemInfo.Title",
	"ItemInfo.Features",
	"ItemInfo.Classifications",
	"Offers.Listings.Price",
	"Offers.Listings.Availability.Message",
	"Offers.Listings.Availability.Type",
	"Offers.Listings.Condition",
	"Offers.Listings.MerchantInfo",
}

// absentCodes are PA-API error codes that mean the item does not exist or
// cannot be offered, rather than a failed call.
var absentCodes = map[string]bool{
	"InvalidParameterValue": true,
	"ItemNotEligible":       true,
}

// Credentials authenticate against PA-API.
type Credentials struct {
	AccessKey    string
	SecretKey    string
	AssociateTag string
	Region       string
}

// Client is a PA-API 5 client.
type Client struct {
	creds       Credentials
	baseURL     string
	marketplace string
	doer        marketplace.HTTPDoer
	limiter     *ratelimit.Limiter
	signer      *Signer
	crypto      CryptoProvider
	nowFunc     func() time.Time
	log         *slog.Logger
}

var _ marketplace.Client = (*Client)(nil)

// Option configures the Client.
type Option func(*Client)

// WithBaseURL overrides the PA-API endpoint. The request Host is taken
// from it and signed.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = u
	}
}

// WithMarketplace overrides the PA-API marketplace, e.g. "www.amazon.co.uk".
func WithMarketplace(m string) Option {
	return func(c *Client) {
		c.marketplace = m
	}
}

// WithHTTPClient overrides the HTTP transport.
func WithHTTPClient(d marketplace.HTTPDoer) Option {
	return func(c *Client) {
		c.doer = d
	}
}

// WithCrypto overrides the digest implementation used for signing.
func WithCrypto(p CryptoProvider) Option {
	return func(c *Client) {
		c.crypto = p
	}
}

// WithNowFunc overrides the signing clock for testing.
func WithNowFunc(f func() time.Time) Option {
	return func(c *Client) {
		c.nowFunc = f
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		c.log = l
	}
}

// New creates a PA-API client. Every network call first takes an "amazon"
// token from limiter.
func New(creds Credentials, limiter *ratelimit.Limiter, opts ...Option) *Client {
	if creds.Region == "" {
		creds.Region = defaultRegion
	}
	c := &Client{
		creds:       creds,
		baseURL:     defaultBaseURL,
		marketplace: defaultMarketplace,
		doer:        &http.Client{Timeout: 30 * time.Second},
		limiter:     limiter,
		crypto:      StdCrypto{},
		nowFunc:     time.Now,
		log:         slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.signer = NewSigner(creds.AccessKey, creds.SecretKey, creds.Region, service, c.crypto)
	return c
}

// Name implements marketplace.Client.
func (*Client) Name() string {
	return providerName
}

// Search implements marketplace.Client using SearchItems.
func (c *Client) Search(ctx context.Context, params domain.SearchParams) (_ *domain.SearchResult, err error) {
	ctx, done := marketplace.Track(ctx, ratelimit.ProviderAmazon, marketplace.OpSearch)
	defer func() { done(err) }()

	limit := min(params.PageSize(), maxItemCount)
	index := params.Category
	if index == "" {
		index = "All"
	}
	body := searchItemsRequest{
		Keywords:    params.Query,
		SearchIndex: index,
		MinPrice:    cents(params.MinPrice),
		MaxPrice:    cents(params.MaxPrice),
		Condition:   searchCondition(params.Condition),
		SortBy:      sortBy(params.SortBy),
		ItemCount:   limit,
		ItemPage:    params.Offset/limit + 1,
		Resources:   resources,
		PartnerTag:  c.creds.AssociateTag,
		PartnerType: "Associates",
		Marketplace: c.marketplace,
	}

	resp, err := c.call(ctx, "searchitems", "SearchItems", body)
	if err != nil {
		return nil, marketplace.WrapProviderError(providerName, marketplace.OpSearch, err)
	}

	// Search failures report the HTTP status even when PA-API sends an
	// Errors body.
	if !resp.OK() {
		return nil, marketplace.WrapProviderError(providerName, marketplace.OpSearch,
			responseError(resp, nil))
	}
	var out searchItemsResponse
	if err := json.Unmarshal(resp.Body, &out); err != nil {
		return nil, marketplace.WrapProviderError(providerName, marketplace.OpSearch,
			fmt.Errorf("parsing search response: %w", err))
	}

	res := &domain.SearchResult{Listings: []domain.Listing{}}
	if out.SearchResult != nil {
		res.Listings = toListings(out.SearchResult.Items)
		res.Total = out.SearchResult.TotalResultCount
	}
	res.HasMore = params.Offset+len(res.Listings) < res.Total
	return res, nil
}

// GetItemByID implements marketplace.Client using GetItems. A malformed
// ASIN fails before any token is taken or request sent.
func (c *Client) GetItemByID(ctx context.Context, asin string) (_ *domain.Listing, err error) {
	if !marketplace.ValidASIN(asin) {
		return nil, apperr.Validation("invalid ASIN format")
	}

	ctx, done := marketplace.Track(ctx, ratelimit.ProviderAmazon, marketplace.OpGetItem)
	defer func() { done(err) }()

	body := getItemsRequest{
		ItemIDs:     []string{asin},
		ItemIDType:  "ASIN",
		Resources:   resources,
		PartnerTag:  c.creds.AssociateTag,
		PartnerType: "Associates",
		Marketplace: c.marketplace,
	}

	resp, err := c.call(ctx, "getitems", "GetItems", body)
	if err != nil {
		return nil, marketplace.WrapProviderError(providerName, marketplace.OpGetItem, err)
	}

	var out getItemsResponse
	if err := json.Unmarshal(resp.Body, &out); err != nil && resp.OK() {
		return nil, marketplace.WrapProviderError(providerName, marketplace.OpGetItem,
			fmt.Errorf("parsing item response: %w", err))
	}

	if len(out.Errors) > 0 {
		code := out.Errors[0].Code
		if absentCodes[code] {
			c.log.Debug("amazon item absent", "asin", asin, "code", code)
			return nil, nil
		}
		return nil, marketplace.WrapProviderError(providerName, marketplace.OpGetItem,
			responseError(resp, out.Errors))
	}
	if !resp.OK() {
		return nil, marketplace.WrapProviderError(providerName, marketplace.OpGetItem,
			responseError(resp, nil))
	}
	if out.ItemsResult == nil || len(out.ItemsResult.Items) == 0 {
		return nil, nil
	}

	l := toListing(&out.ItemsResult.Items[0])
	return &l, nil
}

// call waits for a rate-limit token, then sends a signed PA-API operation.
func (c *Client) call(ctx context.Context, path, op string, payload any) (*marketplace.Response, error) {
	if c.limiter != nil {
		if err := c.limiter.WaitAndConsume(ctx, ratelimit.ProviderAmazon); err != nil {
			return nil, err
		}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encoding %s request: %w", op, err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.baseURL+"/paapi5/"+path,
		bytes.NewReader(body),
	)
	if err != nil {
		return nil, fmt.Errorf("creating HTTP request: %w", err)
	}
	req.Header.Set("Content-Encoding", "amz-1.0")
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	req.Header.Set("X-Amz-Target", targetPrefix+op)
	c.signer.Sign(req, body, c.nowFunc())

	return marketplace.Do(c.doer, req)
}

func responseError(resp *marketplace.Response, errs []apiError) error {
	if len(errs) > 0 {
		return fmt.Errorf("Amazon API error: %s %s", errs[0].Code, errs[0].Message) //nolint:staticcheck // provider name
	}
	return fmt.Errorf("Amazon API error: %d %s", resp.StatusCode, resp.StatusText) //nolint:staticcheck // provider name
}
