package ebay

// The Finding API's JSON format mirrors its XML schema: every element is
// a one-element array, including nested objects. arr models that shape so
// converters read the first value explicitly instead of indexing blindly.
type arr[T any] []T

func (a arr[T]) first() T {
	var zero T
	if len(a) == 0 {
		return zero
	}
	return a[0]
}

// findingResponse holds whichever operation envelope the call returned.
// findItemsAdvanced and findItemsByProduct share the inner shape.
type findingResponse struct {
	FindItemsAdvancedResponse  arr[findItemsResponse] `json:"findItemsAdvancedResponse"`
	FindItemsByProductResponse arr[findItemsResponse] `json:"findItemsByProductResponse"`
}

func (r *findingResponse) envelope(op string) arr[findItemsResponse] {
	if op == opByProduct {
		return r.FindItemsByProductResponse
	}
	return r.FindItemsAdvancedResponse
}

type findItemsResponse struct {
	Ack              arr[string]           `json:"ack"`
	ErrorMessage     arr[errorMessage]     `json:"errorMessage"`
	SearchResult     arr[searchResult]     `json:"searchResult"`
	PaginationOutput arr[paginationOutput] `json:"paginationOutput"`
}

type errorMessage struct {
	Error arr[struct {
		ErrorID arr[string] `json:"errorId"`
		Message arr[string] `json:"message"`
	}] `json:"error"`
}

type searchResult struct {
	Count string    `json:"@count"`
	Item  arr[item] `json:"item"`
}

type paginationOutput struct {
	PageNumber     arr[string] `json:"pageNumber"`
	EntriesPerPage arr[string] `json:"entriesPerPage"`
	TotalPages     arr[string] `json:"totalPages"`
	TotalEntries   arr[string] `json:"totalEntries"`
}

type item struct {
	ItemID          arr[string]        `json:"itemId"`
	Title           arr[string]        `json:"title"`
	Subtitle        arr[string]        `json:"subtitle"`
	PrimaryCategory arr[category]      `json:"primaryCategory"`
	GalleryURL      arr[string]        `json:"galleryURL"`
	PictureURLLarge arr[string]        `json:"pictureURLLarge"`
	ViewItemURL     arr[string]        `json:"viewItemURL"`
	Condition       arr[itemCondition] `json:"condition"`
	SellingStatus   arr[sellingStatus] `json:"sellingStatus"`
	SellerInfo      arr[sellerInfo]    `json:"sellerInfo"`
}

type category struct {
	CategoryID   arr[string] `json:"categoryId"`
	CategoryName arr[string] `json:"categoryName"`
}

type itemCondition struct {
	ConditionID          arr[string] `json:"conditionId"`
	ConditionDisplayName arr[string] `json:"conditionDisplayName"`
}

type sellingStatus struct {
	CurrentPrice          arr[amount] `json:"currentPrice"`
	ConvertedCurrentPrice arr[amount] `json:"convertedCurrentPrice"`
	SellingState          arr[string] `json:"sellingState"`
}

// amount is a price element; its attribute and text become sibling keys.
type amount struct {
	CurrencyID string `json:"@currencyId"`
	Value      string `json:"__value__"`
}

type sellerInfo struct {
	SellerUserName          arr[string] `json:"sellerUserName"`
	FeedbackScore           arr[string] `json:"feedbackScore"`
	PositiveFeedbackPercent arr[string] `json:"positiveFeedbackPercent"`
}
