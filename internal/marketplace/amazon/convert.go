package amazon

import (
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
	l := domain.Listing{
		ID:            domain.ListingID(domain.MarketplaceAmazon, it.ASIN),
		Marketplace:   domain.MarketplaceAmazon,
		MarketplaceID: it.ASIN,
		ListingURL:    it.DetailPageURL,
		Currency:      "USD",
		Images:        imageURLs(it.Images),
		Condition:     domain.ConditionUnknown,
	}

	if info := it.ItemInfo; info != nil {
		if info.Title != nil {
			l.Title = info.Title.DisplayValue
		}
		if info.Features != nil {
			l.Description = strings.Join(info.Features.DisplayValues, " ")
		}
		if info.Classifications != nil && info.Classifications.ProductGroup != nil {
			l.Category = info.Classifications.ProductGroup.DisplayValue
		}
	}

	if it.Offers == nil || len(it.Offers.Listings) == 0 {
		return l
	}
	offer := it.Offers.Listings[0]

	if offer.Price != nil {
		l.Price = max(offer.Price.Amount, 0)
		if offer.Price.Currency != "" {
			l.Currency = offer.Price.Currency
		}
	}
	l.Available = offer.Availability == nil || isAvailable(offer.Availability.Message)
	if offer.Condition != nil {
		l.Condition = parseCondition(offer.Condition.Value)
	}
	if m := offer.MerchantInfo; m != nil {
		l.SellerName = m.Name
		if m.FeedbackRating > 0 {
			r := min(m.FeedbackRating, 5)
			l.SellerRating = &r
		}
	}

	return l
}

// imageURLs returns the large primary image followed by the large variants.
func imageURLs(img *images) []string {
	urls := []string{}
	if img == nil {
		return urls
	}
	if img.Primary != nil && img.Primary.Large != nil && img.Primary.Large.URL != "" {
		urls = append(urls, img.Primary.Large.URL)
	}
	for _, v := range img.Variants {
		if v.Large != nil && v.Large.URL != "" {
			urls = append(urls, v.Large.URL)
		}
	}
	return urls
}

func isAvailable(msg string) bool {
	m := strings.ToLower(msg)
	return !strings.Contains(m, "unavailable") && !strings.Contains(m, "out of stock")
}

func parseCondition(v string) domain.Condition {
	switch strings.ToLower(v) {
	case "new":
		return domain.ConditionNew
	case "used":
		return domain.ConditionUsed
	case "refurbished":
		return domain.ConditionRefurbished
	case "collectible":
		return domain.ConditionCollectible
	default:
		return domain.ConditionUnknown
	}
}

// searchCondition maps a domain condition to the PA-API Condition filter.
func searchCondition(c domain.Condition) string {
	switch c {
	case domain.ConditionNew:
		return "New"
	case domain.ConditionUsed:
		return "Used"
	case domain.ConditionRefurbished:
		return "Refurbished"
	case domain.ConditionCollectible:
		return "Collectible"
	default:
		return ""
	}
}

func sortBy(s domain.SortBy) string {
	switch s {
	case domain.SortPrice:
		return "Price:LowToHigh"
	case domain.SortNewest:
		return "NewestArrivals"
	default:
		return "Relevance"
	}
}

// cents converts a price in major units to the minor units PA-API expects.
func cents(p *float64) *int {
	if p == nil {
		return nil
	}
	c := int(*p*100 + 0.5)
	return &c
}
