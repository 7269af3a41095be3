package ebay

import (
	"strconv"
	"strings"

	domain "github.com/donaldgifford/bargain-finder/pkg/types"
)

func toListings(items []item) []domain.Listing {
	listings := make([]domain.Listing, 0, len(items))
	for i := range items {
		listings = append(listings, toListing(&items[i]))
	}
	return listings
}

func toListing(it *item) domain.Listing {
	id := it.ItemID.first()
	l := domain.Listing{
		ID:            domain.ListingID(domain.MarketplaceEbay, id),
		Marketplace:   domain.MarketplaceEbay,
		MarketplaceID: id,
		Title:         it.Title.first(),
		Description:   it.Subtitle.first(),
		Category:      it.PrimaryCategory.first().CategoryName.first(),
		ListingURL:    it.ViewItemURL.first(),
		Images:        images(it),
		Currency:      "USD",
		Available:     true,
	}

	// Price
	status := it.SellingStatus.first()
	price := status.CurrentPrice.first()
	if price.Value == "" {
		price = status.ConvertedCurrentPrice.first()
	}
	if p, err := strconv.ParseFloat(price.Value, 64); err == nil && p >= 0 {
		l.Price = p
	}
	if price.CurrencyID != "" {
		l.Currency = price.CurrencyID
	}
	if state := status.SellingState.first(); state != "" {
		l.Available = state == "Active"
	}

	// Condition
	cond := it.Condition.first()
	l.Condition = parseCondition(cond.ConditionID.first(), cond.ConditionDisplayName.first())

	// Seller
	seller := it.SellerInfo.first()
	l.SellerName = seller.SellerUserName.first()
	if pct, err := strconv.ParseFloat(seller.PositiveFeedbackPercent.first(), 64); err == nil {
		r := min(max(pct/20, 0), 5)
		l.SellerRating = &r
	}

	return l
}

// images returns the large picture first, then the gallery thumbnail.
func images(it *item) []string {
	urls := []string{}
	for _, u := range []string{it.PictureURLLarge.first(), it.GalleryURL.first()} {
		if u != "" {
			urls = append(urls, u)
		}
	}
	return urls
}

// parseCondition maps eBay condition IDs to domain conditions, falling back
// to the display name for IDs outside the standard ranges.
func parseCondition(id, name string) domain.Condition {
	if n, err := strconv.Atoi(id); err == nil {
		switch {
		case n >= 1000 && n < 2000:
			return domain.ConditionNew
		case n >= 2000 && n < 3000:
			return domain.ConditionRefurbished
		case n >= 3000 && n <= 7000:
			return domain.ConditionUsed
		}
	}

	name = strings.ToLower(name)
	switch {
	case strings.Contains(name, "refurbished"):
		return domain.ConditionRefurbished
	case strings.Contains(name, "new"):
		return domain.ConditionNew
	case strings.Contains(name, "used"), strings.Contains(name, "pre-owned"):
		return domain.ConditionUsed
	default:
		return domain.ConditionUnknown
	}
}

// conditionFilter maps a domain condition to a Finding API condition ID.
func conditionFilter(c domain.Condition) string {
	switch c {
	case domain.ConditionNew:
		return "1000"
	case domain.ConditionRefurbished:
		return "2500"
	case domain.ConditionUsed:
		return "3000"
	default:
		return ""
	}
}

func sortOrder(s domain.SortBy) string {
	switch s {
	case domain.SortPrice:
		return "PricePlusShippingLowest"
	case domain.SortNewest:
		return "StartTimeNewest"
	default:
		return "BestMatch"
	}
}

func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
