package amazon

// PA-API 5 wire types. Only the fields the client reads are modeled.

type searchItemsRequest struct {
	Keywords    string   `json:"Keywords"`
	SearchIndex string   `json:"SearchIndex"`
	MinPrice    *int     `json:"MinPrice,omitempty"`
	MaxPrice    *int     `json:"MaxPrice,omitempty"`
	Condition   string   `json:"Condition,omitempty"`
	SortBy      string   `json:"SortBy,omitempty"`
	ItemCount   int      `json:"ItemCount"`
	ItemPage    int      `json:"ItemPage"`
	Resources   []string `json:"Resources"`
	PartnerTag  string   `json:"PartnerTag"`
	PartnerType string   `json:"PartnerType"`
	Marketplace string   `json:"Marketplace"`
}

type getItemsRequest struct {
	ItemIDs     []string `json:"ItemIds"`
	ItemIDType  string   `json:"ItemIdType"`
	Resources   []string `json:"Resources"`
	PartnerTag  string   `json:"PartnerTag"`
	PartnerType string   `json:"PartnerType"`
	Marketplace string   `json:"Marketplace"`
}

type apiError struct {
	Code    string `json:"Code"`
	Message string `json:"Message"`
}

type searchItemsResponse struct {
	SearchResult *struct {
		Items            []item `json:"Items"`
		TotalResultCount int    `json:"TotalResultCount"`
	} `json:"SearchResult"`
	Errors []apiError `json:"Errors"`
}

type getItemsResponse struct {
	ItemsResult *struct {
		Items []item `json:"Items"`
	} `json:"ItemsResult"`
	Errors []apiError `json:"Errors"`
}

type item struct {
	ASIN          string    `json:"ASIN"`
	DetailPageURL string    `json:"DetailPageURL"`
	ItemInfo      *itemInfo `json:"ItemInfo"`
	Images        *images   `json:"Images"`
	Offers        *offers   `json:"Offers"`
}

type itemInfo struct {
	Title           *displayValue  `json:"Title"`
	Features        *displayValues `json:"Features"`
	Classifications *struct {
		ProductGroup *displayValue `json:"ProductGroup"`
	} `json:"Classifications"`
}

type displayValue struct {
	DisplayValue string `json:"DisplayValue"`
}

type displayValues struct {
	DisplayValues []string `json:"DisplayValues"`
}

type images struct {
	Primary  *imageSet  `json:"Primary"`
	Variants []imageSet `json:"Variants"`
}

type imageSet struct {
	Large *image `json:"Large"`
}

type image struct {
	URL string `json:"URL"`
}

type offers struct {
	Listings []offerListing `json:"Listings"`
}

type offerListing struct {
	Price *struct {
		Amount   float64 `json:"Amount"`
		Currency string  `json:"Currency"`
	} `json:"Price"`
	Availability *struct {
		Type    string `json:"Type"`
		Message string `json:"Message"`
	} `json:"Availability"`
	Condition *struct {
		Value string `json:"Value"`
	} `json:"Condition"`
	MerchantInfo *struct {
		Name           string  `json:"Name"`
		FeedbackRating float64 `json:"FeedbackRating"`
	} `json:"MerchantInfo"`
}
