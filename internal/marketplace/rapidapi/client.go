// Package rapidapi implements marketplace.Client against the RapidAPI
// "Real-Time Amazon Data" service. It serves Amazon listings when PA-API
// credentials are unavailable or PA-API calls fail.
package rapidapi

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/donaldgifford/bargain-finder/internal/marketplace"
	"github.com/donaldgifford/bargain-finder/internal/ratelimit"
	"github.com/donaldgifford/bargain-finder/pkg/apperr"
	domain "github.com/donaldgifford/bargain-finder/pkg/types"
)

const (
	providerName   = "RapidAPI"
	defaultHost    = "real-time-amazon-data.p.rapidapi.com"
	defaultCountry = "US"
)

// Credentials authenticate against RapidAPI.
type Credentials struct {
	APIKey  string
	APIHost string
}

// Client is a RapidAPI Real-Time Amazon Data client.
type Client struct {
	creds   Credentials
	baseURL string
	country string
	doer    marketplace.HTTPDoer
	limiter *ratelimit.Limiter
	log     *slog.Logger
}

var _ marketplace.Client = (*Client)(nil)

// Option configures the Client.
type Option func(*Client)

// WithBaseURL overrides the endpoint derived from the API host.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = u
	}
}

// WithCountry overrides the Amazon storefront country code.
func WithCountry(country string) Option {
	return func(c *Client) {
		c.country = country
	}
}

// WithHTTPClient overrides the HTTP transport.
func WithHTTPClient(d marketplace.HTTPDoer) Option {
	return func(c *Client) {
		c.doer = d
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		c.log = l
	}
}

// New creates a RapidAPI client. Every network call first takes an
// "amazon-rapidapi" token from limiter.
func New(creds Credentials, limiter *ratelimit.Limiter, opts ...Option) *Client {
	if creds.APIHost == "" {
		creds.APIHost = defaultHost
	}
	c := &Client{
		creds:   creds,
		baseURL: "https://" + creds.APIHost,
		country: defaultCountry,
		doer:    &http.Client{Timeout: 30 * time.Second},
		limiter: limiter,
		log:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name implements marketplace.Client.
func (*Client) Name() string {
	return providerName
}

// GetItemByID implements marketplace.Client. A malformed ASIN fails before
// any token is taken or request sent.
func (c *Client) GetItemByID(ctx context.Context, asin string) (_ *domain.Listing, err error) {
	if !marketplace.ValidASIN(asin) {
		return nil, apperr.Validation("invalid ASIN format")
	}
	asin = strings.ToUpper(asin)

	ctx, done := marketplace.Track(ctx, ratelimit.ProviderAmazonRapidAPI, marketplace.OpGetItem)
	defer func() { done(err) }()

	q := url.Values{}
	q.Set("asin", asin)
	q.Set("country", c.country)

	var env envelope[product]
	if err := c.get(ctx, "/product-details", q, &env); err != nil {
		return nil, marketplace.WrapProviderError(providerName, marketplace.OpGetItem, err)
	}
	if env.Status != "OK" || env.Data == nil {
		c.log.Debug("rapidapi item absent", "asin", asin, "status", env.Status)
		return nil, nil
	}

	l := toListing(env.Data, asin)
	return &l, nil
}

// Search implements marketplace.Client.
func (c *Client) Search(ctx context.Context, params domain.SearchParams) (_ *domain.SearchResult, err error) {
	ctx, done := marketplace.Track(ctx, ratelimit.ProviderAmazonRapidAPI, marketplace.OpSearch)
	defer func() { done(err) }()

	limit := params.PageSize()
	q := url.Values{}
	q.Set("query", params.Query)
	q.Set("country", c.country)
	q.Set("page", strconv.Itoa(params.Offset/limit+1))
	q.Set("sort_by", sortBy(params.SortBy))
	if params.MinPrice != nil {
		q.Set("min_price", strconv.FormatFloat(*params.MinPrice, 'f', -1, 64))
	}
	if params.MaxPrice != nil {
		q.Set("max_price", strconv.FormatFloat(*params.MaxPrice, 'f', -1, 64))
	}
	if v := productCondition(params.Condition); v != "" {
		q.Set("product_condition", v)
	}
	if params.Category != "" {
		q.Set("category_id", params.Category)
	}

	var env envelope[searchData]
	if err := c.get(ctx, "/search", q, &env); err != nil {
		return nil, marketplace.WrapProviderError(providerName, marketplace.OpSearch, err)
	}

	res := &domain.SearchResult{Listings: []domain.Listing{}}
	if env.Status != "OK" || env.Data == nil {
		return res, nil
	}
	for i := range env.Data.Products {
		p := &env.Data.Products[i]
		res.Listings = append(res.Listings, toListing(p, strings.ToUpper(p.ASIN)))
	}
	res.Total = env.Data.TotalProducts
	res.HasMore = len(res.Listings)+params.Offset < res.Total
	return res, nil
}

// get waits for a rate-limit token, sends the request and decodes the JSON
// body into out.
func (c *Client) get(ctx context.Context, path string, q url.Values, out any) error {
	if c.limiter != nil {
		if err := c.limiter.WaitAndConsume(ctx, ratelimit.ProviderAmazonRapidAPI); err != nil {
			return err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+q.Encode(), http.NoBody)
	if err != nil {
		return fmt.Errorf("creating HTTP request: %w", err)
	}
	req.Header.Set("X-RapidAPI-Key", c.creds.APIKey)
	req.Header.Set("X-RapidAPI-Host", c.creds.APIHost)

	resp, err := marketplace.Do(c.doer, req)
	if err != nil {
		return err
	}
	if !resp.OK() {
		return fmt.Errorf("RapidAPI error: %d %s", resp.StatusCode, resp.StatusText)
	}
	if err := json.Unmarshal(resp.Body, out); err != nil {
		return fmt.Errorf("parsing response: %w", err)
	}
	return nil
}
