package marketplace

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/donaldgifford/bargain-finder/pkg/apperr"
	domain "github.com/donaldgifford/bargain-finder/pkg/types"
)

// Dispatcher parses listing URLs, routes calls to the matching provider
// client and normalizes provider failures into apperr errors.
type Dispatcher struct {
	clients map[domain.Marketplace]Client
	log     *slog.Logger
}

// DispatcherOption configures the Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithClient registers the client serving marketplace m.
func WithClient(m domain.Marketplace, c Client) DispatcherOption {
	return func(d *Dispatcher) {
		if c != nil {
			d.clients[m] = c
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) DispatcherOption {
	return func(d *Dispatcher) {
		d.log = l
	}
}

// NewDispatcher creates a Dispatcher.
func NewDispatcher(opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		clients: make(map[domain.Marketplace]Client),
		log:     slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Marketplaces returns the configured marketplaces in a stable order.
func (d *Dispatcher) Marketplaces() []domain.Marketplace {
	out := make([]domain.Marketplace, 0, len(d.clients))
	for m := range d.clients {
		out = append(out, m)
	}
	slices.Sort(out)
	return out
}

func (d *Dispatcher) client(m domain.Marketplace) (Client, error) {
	c, ok := d.clients[m]
	if !ok {
		return nil, apperr.Validationf("unsupported marketplace: %s", m)
	}
	return c, nil
}

// FetchListingFromURL resolves a listing URL to a listing.
func (d *Dispatcher) FetchListingFromURL(ctx context.Context, rawURL string) (*domain.Listing, error) {
	ref, err := ParseURL(rawURL)
	if err != nil {
		return nil, err
	}

	listing, err := d.GetListingByID(ctx, ref.Marketplace, ref.MarketplaceID)
	if err != nil {
		return nil, err
	}
	if listing == nil {
		return nil, apperr.NotFound("listing not found: " + ref.MarketplaceID)
	}
	return listing, nil
}

// GetListingByID fetches one item from marketplace m. A nil listing with a
// nil error means the provider reported the item as absent.
func (d *Dispatcher) GetListingByID(
	ctx context.Context,
	m domain.Marketplace,
	id string,
) (*domain.Listing, error) {
	c, err := d.client(m)
	if err != nil {
		return nil, err
	}

	listing, err := c.GetItemByID(ctx, id)
	if err != nil {
		if apperr.IsValidation(err) {
			return nil, err
		}
		d.log.Error("marketplace lookup failed",
			"marketplace", m,
			"provider", c.Name(),
			"id", id,
			"error_class", errorClass(err),
			"error", err,
		)
		return nil, apperr.Wrap(
			err,
			"failed to get listing: "+err.Error(),
			http.StatusInternalServerError,
			apperr.CodeInternal,
		)
	}
	return listing, nil
}

// Search routes params to the marketplace it names, defaulting to amazon.
// Params are passed to the client unchanged.
func (d *Dispatcher) Search(ctx context.Context, params domain.SearchParams) (*domain.SearchResult, error) {
	m := params.Marketplace
	if m == "" {
		m = domain.MarketplaceAmazon
	}

	c, err := d.client(m)
	if err != nil {
		return nil, err
	}

	res, err := c.Search(ctx, params)
	if err != nil {
		if apperr.IsValidation(err) {
			return nil, err
		}
		d.log.Error("marketplace search failed",
			"marketplace", m,
			"provider", c.Name(),
			"query", params.Query,
			"error_class", errorClass(err),
			"error", err,
		)
		return nil, apperr.Wrap(err, err.Error(), http.StatusInternalServerError, apperr.CodeInternal)
	}
	return res, nil
}

// SearchAll runs params against every configured marketplace concurrently
// and merges the pages. A marketplace that fails is logged and skipped; an
// error is returned only when every marketplace fails.
func (d *Dispatcher) SearchAll(ctx context.Context, params domain.SearchParams) (*domain.SearchResult, error) {
	markets := d.Marketplaces()
	if len(markets) == 0 {
		return nil, apperr.Validation("no marketplaces configured")
	}

	results := make([]*domain.SearchResult, len(markets))
	var (
		mu   sync.Mutex
		errs []error
	)

	var g errgroup.Group
	for i, m := range markets {
		g.Go(func() error {
			p := params
			p.Marketplace = m
			res, err := d.Search(ctx, p)
			if err != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf("%s: %w", m, err))
				mu.Unlock()
				return nil
			}
			results[i] = res
			return nil
		})
	}
	_ = g.Wait() //nolint:errcheck // goroutines never return errors

	if len(errs) == len(markets) {
		return nil, apperr.Wrap(
			errors.Join(errs...),
			"all marketplace searches failed",
			http.StatusInternalServerError,
			apperr.CodeInternal,
		)
	}

	merged := &domain.SearchResult{Listings: []domain.Listing{}}
	for _, res := range results {
		if res == nil {
			continue
		}
		merged.Listings = append(merged.Listings, res.Listings...)
		merged.Total += res.Total
		merged.HasMore = merged.HasMore || res.HasMore
	}
	return merged, nil
}

func errorClass(err error) string {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Provider + "/" + string(pe.Op)
	}
	return fmt.Sprintf("%T", err)
}
