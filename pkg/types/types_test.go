package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListingID(t *testing.T) {
	t.Parallel()

	a := ListingID(MarketplaceAmazon, "B08XYZ1234")
	assert.Equal(t, a, ListingID(MarketplaceAmazon, "B08XYZ1234"))
	assert.NotEqual(t, a, ListingID(MarketplaceEbay, "B08XYZ1234"))

	id, err := uuid.Parse(a)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(5), id.Version())
}

func TestMarketplaceValid(t *testing.T) {
	t.Parallel()

	assert.True(t, MarketplaceAmazon.Valid())
	assert.True(t, MarketplaceEbay.Valid())
	assert.False(t, Marketplace("walmart").Valid())
	assert.False(t, Marketplace("").Valid())
}

func TestPrimaryImage(t *testing.T) {
	t.Parallel()

	assert.Empty(t, (&Listing{}).PrimaryImage())
	assert.Equal(t, "https://i/1.jpg", (&Listing{Images: []string{"https://i/1.jpg", "https://i/2.jpg"}}).PrimaryImage())
}

func TestPageSize(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 10, (&SearchParams{}).PageSize())
	assert.Equal(t, 10, (&SearchParams{Limit: -3}).PageSize())
	assert.Equal(t, 25, (&SearchParams{Limit: 25}).PageSize())
}
