package rapidapi

import (
	"regexp"
	"strconv"
	"strings"

	domain "github.com/donaldgifford/bargain-finder/pkg/types"
)

var (
	priceTokenRE = regexp.MustCompile(`-?\d[\d,]*(?:\.\d+)?`)
	leadingNumRE = regexp.MustCompile(`^\s*(\d+(?:\.\d+)?)`)
)

// conditionRule classifies a listing when any keyword appears in the field
// it inspects. Rules are evaluated in order and the first match wins.
type conditionRule struct {
	condition domain.Condition
	field     func(title, description string) string
	keywords  []string
}

func titleField(title, _ string) string { return title }
func descriptionField(_, description string) string { return description }

var conditionRules = []conditionRule{
	{domain.ConditionRefurbished, titleField, []string{"refurbished", "renewed"}},
	{domain.ConditionUsed, titleField, []string{"used"}},
	{domain.ConditionVintage, titleField, []string{"vintage"}},
	{domain.ConditionCollectible, descriptionField, []string{"collectible", "rare"}},
}

// classifyCondition applies conditionRules, defaulting to new.
func classifyCondition(title, description string) domain.Condition {
	title = strings.ToLower(title)
	description = strings.ToLower(description)
	for _, r := range conditionRules {
		text := r.field(title, description)
		for _, kw := range r.keywords {
			if strings.Contains(text, kw) {
				return r.condition
			}
		}
	}
	return domain.ConditionNew
}

// parsePrice reads the first number in strings like "$2,499.99". For a
// range such as "$10.00 - $20.00" that is the low end.
func parsePrice(s string) (float64, bool) {
	tok := priceTokenRE.FindString(s)
	if tok == "" {
		return 0, false
	}
	p, err := strconv.ParseFloat(strings.ReplaceAll(tok, ",", ""), 64)
	if err != nil {
		return 0, false
	}
	return p, true
}

// price uses the current price, then the original price, then 0.
func price(current, original string) float64 {
	if p, ok := parsePrice(current); ok {
		return max(p, 0)
	}
	if p, ok := parsePrice(original); ok {
		return max(p, 0)
	}
	return 0
}

// parseRating reads the leading number of "4.5 out of 5 stars" or "4.2".
func parseRating(s string) *float64 {
	m := leadingNumRE.FindStringSubmatch(s)
	if m == nil {
		return nil
	}
	r, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return nil
	}
	r = min(max(r, 0), 5)
	return &r
}

func isAvailable(s string) bool {
	s = strings.ToLower(s)
	return !strings.Contains(s, "unavailable") && !strings.Contains(s, "out of stock")
}

func toListing(p *product, asin string) domain.Listing {
	if p.ASIN != "" {
		asin = strings.ToUpper(p.ASIN)
	}

	description := p.ProductDescription
	if description == "" {
		description = strings.Join(p.AboutProduct, " ")
	}

	images := []string{}
	switch {
	case len(p.ProductPhotos) > 0:
		images = append(images, p.ProductPhotos...)
	case p.ProductPhoto != "":
		images = append(images, p.ProductPhoto)
	}

	currency := p.Currency
	if currency == "" {
		currency = "USD"
	}

	l := domain.Listing{
		ID:            domain.ListingID(domain.MarketplaceAmazon, asin),
		Marketplace:   domain.MarketplaceAmazon,
		MarketplaceID: asin,
		Title:         p.ProductTitle,
		Description:   description,
		Price:         price(string(p.ProductPrice), string(p.ProductOriginalPrice)),
		Currency:      currency,
		Images:        images,
		Condition:     classifyCondition(p.ProductTitle, description),
		SellerRating:  parseRating(string(p.ProductStarRating)),
		ListingURL:    p.ProductURL,
		Available:     isAvailable(p.ProductAvailability),
	}
	if n := len(p.CategoryPath); n > 0 {
		l.Category = p.CategoryPath[n-1].Name
	}
	return l
}

func sortBy(s domain.SortBy) string {
	switch s {
	case domain.SortPrice:
		return "LOWEST_PRICE"
	case domain.SortNewest:
		return "NEWEST"
	default:
		return "RELEVANCE"
	}
}

func productCondition(c domain.Condition) string {
	switch c {
	case domain.ConditionNew:
		return "NEW"
	case domain.ConditionUsed:
		return "USED"
	case domain.ConditionRefurbished:
		return "RENEWED"
	default:
		return ""
	}
}
