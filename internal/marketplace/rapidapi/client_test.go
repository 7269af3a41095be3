package rapidapi_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/bargain-finder/internal/marketplace/rapidapi"
	"github.com/donaldgifford/bargain-finder/internal/ratelimit"
	"github.com/donaldgifford/bargain-finder/pkg/apperr"
	domain "github.com/donaldgifford/bargain-finder/pkg/types"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*rapidapi.Client, *ratelimit.Limiter) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	rl := ratelimit.New()
	c := rapidapi.New(
		rapidapi.Credentials{APIKey: "key-1"},
		rl,
		rapidapi.WithBaseURL(srv.URL),
		rapidapi.WithHTTPClient(srv.Client()),
	)
	return c, rl
}

func TestClient_GetItemByID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		status  int
		body    string
		wantNil bool
		wantErr string
		check   func(t *testing.T, l *domain.Listing)
	}{
		{
			name:   "maps product",
			status: http.StatusOK,
			body: `{"status": "OK", "data": {
				"asin": "B0CHX3QBCH",
				"product_title": "Apple Watch Series 9 (Renewed)",
				"product_price": "$2,499.99",
				"product_original_price": "$2,999.00",
				"currency": "USD",
				"product_star_rating": "4.5 out of 5 stars",
				"product_url": "https://www.amazon.com/dp/B0CHX3QBCH",
				"product_photo": "https://m.media-amazon.com/images/I/main.jpg",
				"product_photos": ["https://m.media-amazon.com/images/I/1.jpg", "https://m.media-amazon.com/images/I/2.jpg"],
				"product_availability": "Only 2 left in stock",
				"about_product": ["Vintage look", "Always-on display"],
				"category_path": [{"name": "Electronics"}, {"name": "Smartwatches"}]
			}}`,
			check: func(t *testing.T, l *domain.Listing) {
				t.Helper()
				assert.Equal(t, domain.ListingID(domain.MarketplaceAmazon, "B0CHX3QBCH"), l.ID)
				assert.Equal(t, "B0CHX3QBCH", l.MarketplaceID)
				assert.InDelta(t, 2499.99, l.Price, 1e-9)
				assert.Equal(t, domain.ConditionRefurbished, l.Condition)
				assert.Equal(t, "Vintage look Always-on display", l.Description)
				assert.Len(t, l.Images, 2)
				assert.Equal(t, "Smartwatches", l.Category)
				require.NotNil(t, l.SellerRating)
				assert.InDelta(t, 4.5, *l.SellerRating, 1e-9)
				assert.True(t, l.Available)
			},
		},
		{
			name:   "original price fallback and out of stock",
			status: http.StatusOK,
			body: `{"status": "OK", "data": {
				"product_title": "Kindle",
				"product_price": null,
				"product_original_price": "$1,500.00",
				"product_photo": "https://m.media-amazon.com/images/I/k.jpg",
				"product_availability": "Currently unavailable."
			}}`,
			check: func(t *testing.T, l *domain.Listing) {
				t.Helper()
				assert.Equal(t, "B0CHX3QBCH", l.MarketplaceID)
				assert.InDelta(t, 1500.0, l.Price, 1e-9)
				assert.Equal(t, []string{"https://m.media-amazon.com/images/I/k.jpg"}, l.Images)
				assert.Equal(t, "USD", l.Currency)
				assert.Nil(t, l.SellerRating)
				assert.False(t, l.Available)
			},
		},
		{
			name:    "status not OK is absent",
			status:  http.StatusOK,
			body:    `{"status": "ERROR", "error": {"message": "not found"}}`,
			wantNil: true,
		},
		{
			name:    "null data is absent",
			status:  http.StatusOK,
			body:    `{"status": "OK", "data": null}`,
			wantNil: true,
		},
		{
			name:    "non-2xx",
			status:  http.StatusForbidden,
			body:    `{"message": "You are not subscribed to this API."}`,
			wantErr: "failed to get RapidAPI item: RapidAPI error: 403 Forbidden",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/product-details", r.URL.Path)
				assert.Equal(t, "B0CHX3QBCH", r.URL.Query().Get("asin"))
				assert.Equal(t, "US", r.URL.Query().Get("country"))
				assert.Equal(t, "key-1", r.Header.Get("X-RapidAPI-Key"))
				assert.Equal(t, "real-time-amazon-data.p.rapidapi.com", r.Header.Get("X-RapidAPI-Host"))

				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			got, err := c.GetItemByID(context.Background(), "b0chx3qbch")
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantErr, err.Error())
				return
			}
			require.NoError(t, err)
			if tt.wantNil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			tt.check(t, got)
		})
	}
}

func TestClient_GetItemByID_InvalidASIN(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	c, rl := newTestClient(t, func(_ http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
	})

	_, err := c.GetItemByID(context.Background(), "SHORT")
	require.Error(t, err)
	assert.True(t, apperr.IsValidation(err))
	assert.Zero(t, calls.Load())
	assert.InDelta(t, 5.0, rl.Tokens(ratelimit.ProviderAmazonRapidAPI), 0.01)
}

func TestClient_Search(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		params   domain.SearchParams
		total    int
		wantPage string
		wantSort string
		wantMore bool
	}{
		{
			name:     "first page has more",
			params:   domain.SearchParams{Query: "apple watch", Limit: 2},
			total:    10,
			wantPage: "1",
			wantSort: "RELEVANCE",
			wantMore: true,
		},
		{
			name:     "third page by price",
			params:   domain.SearchParams{Query: "apple watch", Limit: 2, Offset: 4, SortBy: domain.SortPrice},
			total:    10,
			wantPage: "3",
			wantSort: "LOWEST_PRICE",
			wantMore: true,
		},
		{
			name:     "last page",
			params:   domain.SearchParams{Query: "apple watch", Limit: 2, Offset: 8, SortBy: domain.SortNewest},
			total:    10,
			wantPage: "5",
			wantSort: "NEWEST",
			wantMore: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				q := r.URL.Query()
				assert.Equal(t, "/search", r.URL.Path)
				assert.Equal(t, "apple watch", q.Get("query"))
				assert.Equal(t, tt.wantPage, q.Get("page"))
				assert.Equal(t, tt.wantSort, q.Get("sort_by"))

				_, _ = w.Write([]byte(`{"status": "OK", "data": {"total_products": ` +
					strconv.Itoa(tt.total) + `, "products": [
					{"asin": "B000000001", "product_title": "Watch A", "product_price": "$199.00"},
					{"asin": "b000000002", "product_title": "Watch B (Renewed)", "product_price": "$149.00"}
				]}}`))
			})

			res, err := c.Search(context.Background(), tt.params)
			require.NoError(t, err)
			require.Len(t, res.Listings, 2)
			assert.Equal(t, tt.total, res.Total)
			assert.Equal(t, tt.wantMore, res.HasMore)
			assert.Equal(t, "B000000002", res.Listings[1].MarketplaceID)
			assert.Equal(t, domain.ConditionRefurbished, res.Listings[1].Condition)
		})
	}
}

func TestClient_Search_PriceFilters(t *testing.T) {
	t.Parallel()

	minPrice, maxPrice := 50.0, 250.5
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "50", q.Get("min_price"))
		assert.Equal(t, "250.5", q.Get("max_price"))
		assert.Equal(t, "USED", q.Get("product_condition"))
		_, _ = w.Write([]byte(`{"status": "OK", "data": {"total_products": 0, "products": []}}`))
	})

	res, err := c.Search(context.Background(), domain.SearchParams{
		Query:     "x",
		MinPrice:  &minPrice,
		MaxPrice:  &maxPrice,
		Condition: domain.ConditionUsed,
	})
	require.NoError(t, err)
	assert.Empty(t, res.Listings)
	assert.False(t, res.HasMore)
}
