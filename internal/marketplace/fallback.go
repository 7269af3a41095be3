package marketplace

import (
	"context"
	"log/slog"

	"github.com/donaldgifford/bargain-finder/pkg/apperr"
	domain "github.com/donaldgifford/bargain-finder/pkg/types"
)

// Fallback serves one marketplace from two providers. Calls go to the
// primary; when it fails with anything other than a validation error the
// secondary is tried. A nil listing from the primary is a real answer and
// is not retried on the secondary.
type Fallback struct {
	primary   Client
	secondary Client
	log       *slog.Logger
}

var _ Client = (*Fallback)(nil)

// NewFallback creates a Fallback. A nil logger uses slog.Default.
func NewFallback(primary, secondary Client, log *slog.Logger) *Fallback {
	if log == nil {
		log = slog.Default()
	}
	return &Fallback{primary: primary, secondary: secondary, log: log}
}

// Name implements Client.
func (f *Fallback) Name() string {
	return f.primary.Name() + "+" + f.secondary.Name()
}

// Search implements Client.
func (f *Fallback) Search(ctx context.Context, params domain.SearchParams) (*domain.SearchResult, error) {
	res, err := f.primary.Search(ctx, params)
	if err == nil || apperr.IsValidation(err) || ctx.Err() != nil {
		return res, err
	}
	f.log.Warn("primary provider failed, falling back",
		"primary", f.primary.Name(),
		"secondary", f.secondary.Name(),
		"error", err,
	)
	return f.secondary.Search(ctx, params)
}

// GetItemByID implements Client.
func (f *Fallback) GetItemByID(ctx context.Context, id string) (*domain.Listing, error) {
	listing, err := f.primary.GetItemByID(ctx, id)
	if err == nil || apperr.IsValidation(err) || ctx.Err() != nil {
		return listing, err
	}
	f.log.Warn("primary provider failed, falling back",
		"primary", f.primary.Name(),
		"secondary", f.secondary.Name(),
		"id", id,
		"error", err,
	)
	return f.secondary.GetItemByID(ctx, id)
}
