// Package marketplace unifies the Amazon and eBay provider clients behind a
// single interface and routes listing lookups and searches to them.
package marketplace

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	domain "github.com/donaldgifford/bargain-finder/pkg/types"
)

// Client is implemented by every marketplace provider.
type Client interface {
	// Search returns one page of listings matching params.
	Search(ctx context.Context, params domain.SearchParams) (*domain.SearchResult, error)
	// GetItemByID returns the listing for a provider item ID, or nil, nil
	// when the provider reports that the item does not exist.
	GetItemByID(ctx context.Context, id string) (*domain.Listing, error)
	// Name returns the provider name used in logs and metrics.
	Name() string
}

// HTTPDoer sends HTTP requests. *http.Client satisfies it.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Op names a provider operation.
type Op string

// Provider operations.
const (
	OpSearch  Op = "search"
	OpGetItem Op = "get_item"
)

// ProviderError wraps any failure a provider client hit while talking to its
// API. Its message always starts with "failed to search <Provider>" or
// "failed to get <Provider> item" so callers can tell providers apart
// without inspecting the cause.
type ProviderError struct {
	Provider string
	Op       Op
	Err      error
}

func (e *ProviderError) Error() string {
	if e.Op == OpSearch {
		return fmt.Sprintf("failed to search %s: %v", e.Provider, e.Err)
	}
	return fmt.Sprintf("failed to get %s item: %v", e.Provider, e.Err)
}

// Unwrap returns the underlying cause.
func (e *ProviderError) Unwrap() error {
	return e.Err
}

// WrapProviderError wraps err in a ProviderError. It returns nil for a nil
// err.
func WrapProviderError(provider string, op Op, err error) error {
	if err == nil {
		return nil
	}
	return &ProviderError{Provider: provider, Op: op, Err: err}
}

// Response is an HTTP response whose body has been fully read.
type Response struct {
	StatusCode int
	StatusText string
	Header     http.Header
	Body       []byte
}

// OK reports whether the status code is 2xx.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Do sends req with doer, reads the whole body and closes it.
func Do(doer HTTPDoer, req *http.Request) (*Response, error) {
	resp, err := doer.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		StatusText: statusText(resp),
		Header:     resp.Header,
		Body:       body,
	}, nil
}

// statusText returns the reason phrase, e.g. "Not Found" for a 404.
func statusText(resp *http.Response) string {
	text := strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)+" ")
	if text == "" || text == resp.Status {
		return http.StatusText(resp.StatusCode)
	}
	return text
}
