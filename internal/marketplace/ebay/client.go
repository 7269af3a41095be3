// Package ebay implements marketplace.Client against the eBay Finding API.
package ebay

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/donaldgifford/bargain-finder/internal/marketplace"
	"github.com/donaldgifford/bargain-finder/internal/ratelimit"
	"github.com/donaldgifford/bargain-finder/pkg/apperr"
	domain "github.com/donaldgifford/bargain-finder/pkg/types"
)

const (
	providerName = "eBay"

	defaultFindingURL = "https://svcs.ebay.com/services/search/FindingService/v1"
	defaultSiteID     = "EBAY-US"
	opAdvanced        = "findItemsAdvanced"
	opByProduct       = "findItemsByProduct"
	serviceVersion    = "1.13.0"
)

// Credentials authenticate against the Finding API. AuthToken is optional.
type Credentials struct {
	AppID     string
	AuthToken string
	SiteID    string
}

// Client is a Finding API client.
type Client struct {
	creds      Credentials
	findingURL string
	doer       marketplace.HTTPDoer
	limiter    *ratelimit.Limiter
	log        *slog.Logger
}

var _ marketplace.Client = (*Client)(nil)

// Option configures the Client.
type Option func(*Client)

// WithFindingURL overrides the default Finding API endpoint.
func WithFindingURL(u string) Option {
	return func(c *Client) {
		c.findingURL = u
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

// New creates a Finding API client. Every network call first takes an
// "ebay" token from limiter.
func New(creds Credentials, limiter *ratelimit.Limiter, opts ...Option) *Client {
	if creds.SiteID == "" {
		creds.SiteID = defaultSiteID
	}
	c := &Client{
		creds:      creds,
		findingURL: defaultFindingURL,
		doer:       &http.Client{Timeout: 30 * time.Second},
		limiter:    limiter,
		log:        slog.Default(),
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

// Search implements marketplace.Client.
func (c *Client) Search(ctx context.Context, params domain.SearchParams) (_ *domain.SearchResult, err error) {
	ctx, done := marketplace.Track(ctx, ratelimit.ProviderEbay, marketplace.OpSearch)
	defer func() { done(err) }()

	limit := params.PageSize()
	q := c.baseQuery(opAdvanced)
	q.Set("keywords", params.Query)
	if params.Category != "" {
		q.Set("categoryId", params.Category)
	}
	addItemFilters(q, params)
	q.Set("paginationInput.entriesPerPage", strconv.Itoa(limit))
	q.Set("paginationInput.pageNumber", strconv.Itoa(params.Offset/limit+1))
	q.Set("sortOrder", sortOrder(params.SortBy))

	resp, err := c.find(ctx, q)
	if err != nil {
		return nil, marketplace.WrapProviderError(providerName, marketplace.OpSearch, err)
	}

	res := &domain.SearchResult{
		Listings: toListings(resp.SearchResult.first().Item),
	}
	page := resp.PaginationOutput.first()
	res.Total = atoi(page.TotalEntries.first())
	res.HasMore = atoi(page.PageNumber.first()) < atoi(page.TotalPages.first())
	return res, nil
}

// GetItemByID implements marketplace.Client. Non-numeric IDs fail before
// any token is taken or request sent.
func (c *Client) GetItemByID(ctx context.Context, id string) (_ *domain.Listing, err error) {
	if !marketplace.ValidEbayItemID(id) {
		return nil, apperr.Validation("invalid eBay item ID format")
	}

	ctx, done := marketplace.Track(ctx, ratelimit.ProviderEbay, marketplace.OpGetItem)
	defer func() { done(err) }()

	// A ReferenceID product lookup matches the listing with that item ID.
	q := c.baseQuery(opByProduct)
	q.Set("productId.@type", "ReferenceID")
	q.Set("productId", id)
	q.Set("paginationInput.entriesPerPage", "1")

	resp, err := c.find(ctx, q)
	if err != nil {
		return nil, marketplace.WrapProviderError(providerName, marketplace.OpGetItem, err)
	}

	items := resp.SearchResult.first().Item
	if len(items) == 0 {
		return nil, nil
	}
	l := toListing(&items[0])
	return &l, nil
}

func (c *Client) baseQuery(op string) url.Values {
	q := url.Values{}
	q.Set("OPERATION-NAME", op)
	q.Set("SERVICE-VERSION", serviceVersion)
	q.Set("SECURITY-APPNAME", c.creds.AppID)
	q.Set("GLOBAL-ID", c.creds.SiteID)
	q.Set("RESPONSE-DATA-FORMAT", "JSON")
	q.Set("outputSelector(0)", "SellerInfo")
	q.Set("outputSelector(1)", "PictureURLLarge")
	return q
}

// addItemFilters appends the numbered itemFilter(n) parameters.
func addItemFilters(q url.Values, params domain.SearchParams) {
	n := 0
	add := func(name, value string) {
		q.Set(fmt.Sprintf("itemFilter(%d).name", n), name)
		q.Set(fmt.Sprintf("itemFilter(%d).value", n), value)
		n++
	}
	if params.MinPrice != nil {
		add("MinPrice", strconv.FormatFloat(*params.MinPrice, 'f', 2, 64))
	}
	if params.MaxPrice != nil {
		add("MaxPrice", strconv.FormatFloat(*params.MaxPrice, 'f', 2, 64))
	}
	if v := conditionFilter(params.Condition); v != "" {
		add("Condition", v)
	}
}

// find waits for a rate-limit token, sends the query and unwraps the
// response envelope.
func (c *Client) find(ctx context.Context, q url.Values) (*findItemsResponse, error) {
	if c.limiter != nil {
		if err := c.limiter.WaitAndConsume(ctx, ratelimit.ProviderEbay); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.findingURL+"?"+q.Encode(), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating HTTP request: %w", err)
	}
	if c.creds.AuthToken != "" {
		req.Header.Set("X-EBAY-SOA-SECURITY-TOKEN", c.creds.AuthToken)
	}

	resp, err := marketplace.Do(c.doer, req)
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, fmt.Errorf("eBay API error: %d", resp.StatusCode) //nolint:staticcheck // provider name
	}

	var out findingResponse
	if err := json.Unmarshal(resp.Body, &out); err != nil {
		return nil, fmt.Errorf("parsing finding response: %w", err)
	}
	envelope := out.envelope(q.Get("OPERATION-NAME"))
	if len(envelope) == 0 {
		return nil, fmt.Errorf("parsing finding response: missing %sResponse", q.Get("OPERATION-NAME"))
	}

	r := envelope.first()
	if ack := r.Ack.first(); ack == "Failure" {
		msg := r.ErrorMessage.first().Error.first().Message.first()
		c.log.Warn("eBay finding call failed", "ack", ack, "message", msg)
		return nil, fmt.Errorf("eBay API error: %s", msg) //nolint:staticcheck // provider name
	}
	return &r, nil
}
