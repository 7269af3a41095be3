package marketplace

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/donaldgifford/bargain-finder/pkg/apperr"
	domain "github.com/donaldgifford/bargain-finder/pkg/types"
)

// Ref identifies an item on a marketplace.
type Ref struct {
	Marketplace   domain.Marketplace `json:"marketplace"`
	MarketplaceID string             `json:"marketplace_id"`
}

var (
	asinPathRE   = regexp.MustCompile(`/(?:dp|gp/product|product)/([A-Za-z0-9]{10})(?:[/?#]|$)`)
	ebayItemRE   = regexp.MustCompile(`/itm/(?:[^/]+/)?(\d+)(?:[/?#]|$)`)
	asinFormatRE = regexp.MustCompile(`^[A-Za-z0-9]{10}$`)
	ebayIDRE     = regexp.MustCompile(`^\d+$`)
)

// ValidASIN reports whether s has the shape of an ASIN: ten ASCII letters
// or digits.
func ValidASIN(s string) bool {
	return asinFormatRE.MatchString(s)
}

// ValidEbayItemID reports whether s is a purely numeric eBay item ID.
func ValidEbayItemID(s string) bool {
	return ebayIDRE.MatchString(s)
}

// ParseURL extracts the marketplace and item ID from a listing URL. Amazon
// ASINs are normalized to upper case.
func ParseURL(raw string) (Ref, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return Ref{}, apperr.Validation("invalid URL")
	}

	host := strings.ToLower(u.Hostname())
	switch {
	case isMarketplaceHost(host, "amazon"):
		m := asinPathRE.FindStringSubmatch(u.Path)
		if m == nil {
			return Ref{}, apperr.Validation("could not extract ASIN from Amazon URL")
		}
		return Ref{
			Marketplace:   domain.MarketplaceAmazon,
			MarketplaceID: strings.ToUpper(m[1]),
		}, nil

	case isMarketplaceHost(host, "ebay"):
		m := ebayItemRE.FindStringSubmatch(u.Path)
		if m == nil {
			return Ref{}, apperr.Validation("could not extract item ID from eBay URL")
		}
		return Ref{
			Marketplace:   domain.MarketplaceEbay,
			MarketplaceID: m[1],
		}, nil

	default:
		return Ref{}, apperr.Validation("unsupported marketplace URL")
	}
}

// marketplaceSuffixRE matches the public suffix after the marketplace label:
// a bare TLD (com, de) or a two-level country suffix (co.uk, com.au).
var marketplaceSuffixRE = regexp.MustCompile(`^(?:[a-z]{2,3}|(?:co|com)\.[a-z]{2})$`)

// isMarketplaceHost matches name.<suffix> and any subdomain of it
// (amazon.co.uk, www.ebay.de). Hosts that merely contain the name, such as
// www.amazon.evil.com, do not match.
func isMarketplaceHost(host, name string) bool {
	host = strings.TrimSuffix(host, ".")
	var suffix string
	switch {
	case strings.HasPrefix(host, name+"."):
		suffix = strings.TrimPrefix(host, name+".")
	default:
		i := strings.LastIndex(host, "."+name+".")
		if i < 0 {
			return false
		}
		suffix = host[i+len(name)+2:]
	}
	return marketplaceSuffixRE.MatchString(suffix)
}
