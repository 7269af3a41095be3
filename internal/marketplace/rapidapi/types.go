package rapidapi

import (
	"bytes"
	"encoding/json"
)

// looseString accepts a JSON string, number or null. The API returns
// prices and ratings as formatted strings but occasionally as bare numbers.
type looseString string

func (s *looseString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*s = ""
		return nil
	case len(b) > 0 && b[0] == '"':
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = looseString(v)
		return nil
	default:
		*s = looseString(b)
		return nil
	}
}

type envelope[T any] struct {
	Status string `json:"status"`
	Data   *T     `json:"data"`
}

type product struct {
	ASIN                 string      `json:"asin"`
	ProductTitle         string      `json:"product_title"`
	ProductPrice         looseString `json:"product_price"`
	ProductOriginalPrice looseString `json:"product_original_price"`
	Currency             string      `json:"currency"`
	ProductStarRating    looseString `json:"product_star_rating"`
	ProductURL           string      `json:"product_url"`
	ProductPhoto         string      `json:"product_photo"`
	ProductPhotos        []string    `json:"product_photos"`
	ProductAvailability  string      `json:"product_availability"`
	ProductDescription   string      `json:"product_description"`
	AboutProduct         []string    `json:"about_product"`
	CategoryPath         []struct {
		Name string `json:"name"`
	} `json:"category_path"`
}

type searchData struct {
	TotalProducts int       `json:"total_products"`
	Products      []product `json:"products"`
}
