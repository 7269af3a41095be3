// Package main implements a mock marketplace server for local development.
// It serves canned catalog data shaped like the Amazon PA-API, RapidAPI
// Real-Time Amazon Data, the eBay Finding API and the OpenAI Responses API so
// bargain-finder can run end to end without real credentials.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"
)

type product struct {
	ASIN      string
	EbayID    string
	Title     string
	Price     float64
	Currency  string
	Image     string
	Category  string
	Condition string // New, Used, Refurbished
	Seller    string
	Rating    float64
}

var catalog = []product{
	{
		ASIN: "B09XS7JWHH", EbayID: "256123456789", Title: "Sony WH-1000XM5 Wireless Headphones",
		Price: 248, Currency: "USD", Image: "https://images.example/xm5.jpg",
		Category: "Headphones", Condition: "New", Seller: "Amazon.com", Rating: 4.7,
	},
	{
		ASIN: "B0BDHWDR12", EbayID: "256987654321", Title: "Apple AirPods Pro (2nd Generation)",
		Price: 189.99, Currency: "USD", Image: "https://images.example/airpods.jpg",
		Category: "Headphones", Condition: "Used", Seller: "gadgetdeals", Rating: 4.5,
	},
	{
		ASIN: "B08N5WRWNW", EbayID: "256555000111", Title: "Echo Dot (4th Gen) Smart Speaker",
		Price: 24.99, Currency: "USD", Image: "https://images.example/echo.jpg",
		Category: "Smart Home", Condition: "Refurbished", Seller: "Amazon Renewed", Rating: 4.2,
	},
	{
		ASIN: "B07FZ8S74R", EbayID: "256444333222", Title: "Omega Seamaster 300M Diver Watch",
		Price: 2100, Currency: "USD", Image: "https://images.example/omega.jpg",
		Category: "Watches", Condition: "Used", Seller: "timepieces", Rating: 4.9,
	},
}

// evaluationAnswer is the model text returned by the Responses handler.
const evaluationAnswer = "```json\n" + `{
  "estimatedMarketValue": 320,
  "undervaluationPercentage": 22.5,
  "confidenceScore": 80,
  "reasoning": "Comparable listings sell for around 320 USD.",
  "factors": ["recent sold listings", "condition"],
  "isReplicaOrNovelty": false
}` + "\n```"

func main() {
	port := flag.Int("port", 8089, "port to listen on")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	addr := fmt.Sprintf(":%d", *port)
	logger.Info("starting mock marketplace server", "addr", addr, "products", len(catalog))

	srv := &http.Server{
		Addr:         addr,
		Handler:      requestLogger(logger, newMux(logger)),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func newMux(logger *slog.Logger) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /paapi5/searchitems", paapiSearchHandler(logger))
	mux.HandleFunc("POST /paapi5/getitems", paapiGetItemsHandler(logger))
	mux.HandleFunc("GET /search", rapidSearchHandler(logger))
	mux.HandleFunc("GET /product-details", rapidDetailsHandler(logger))
	mux.HandleFunc("GET /services/search/FindingService/v1", findingHandler(logger))
	mux.HandleFunc("POST /v1/responses", responsesHandler(logger))
	return mux
}

func requestLogger(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.Debug("request", "method", r.Method, "path", r.URL.Path, "query", r.URL.RawQuery)
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck,gosec // best-effort write to HTTP response in mock server
	json.NewEncoder(w).Encode(v)
}

func matching(keywords string) []product {
	q := strings.ToLower(strings.TrimSpace(keywords))
	var out []product
	for _, p := range catalog {
		if q == "" || strings.Contains(strings.ToLower(p.Title), q) {
			out = append(out, p)
		}
	}
	return out
}

func page(items []product, offset, limit int) []product {
	if offset >= len(items) {
		return nil
	}
	return items[offset:min(offset+limit, len(items))]
}

func intParam(s string, def int) int {
	if v, err := strconv.Atoi(s); err == nil && v > 0 {
		return v
	}
	return def
}

// PA-API

func paapiItem(p product) map[string]any {
	return map[string]any{
		"ASIN":          p.ASIN,
		"DetailPageURL": "https://www.amazon.com/dp/" + p.ASIN,
		"ItemInfo": map[string]any{
			"Title":           map[string]any{"DisplayValue": p.Title},
			"Classifications": map[string]any{"ProductGroup": map[string]any{"DisplayValue": p.Category}},
		},
		"Images": map[string]any{"Primary": map[string]any{"Large": map[string]any{"URL": p.Image}}},
		"Offers": map[string]any{"Listings": []any{map[string]any{
			"Price":        map[string]any{"Amount": p.Price, "Currency": p.Currency},
			"Availability": map[string]any{"Type": "Now", "Message": "In Stock."},
			"Condition":    map[string]any{"Value": p.Condition},
			"MerchantInfo": map[string]any{"Name": p.Seller, "FeedbackRating": p.Rating},
		}}},
	}
}

func paapiAuthorized(w http.ResponseWriter, r *http.Request) bool {
	if strings.HasPrefix(r.Header.Get("Authorization"), "AWS4-HMAC-SHA256 ") {
		return true
	}
	writeJSON(w, http.StatusUnauthorized, map[string]any{"Errors": []any{map[string]string{
		"Code":    "IncompleteSignature",
		"Message": "The request signature did not include all of the required components.",
	}}})
	return false
}

func paapiSearchHandler(logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !paapiAuthorized(w, r) {
			return
		}
		var req struct {
			Keywords  string `json:"Keywords"`
			ItemCount int    `json:"ItemCount"`
			ItemPage  int    `json:"ItemPage"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{"Errors": []any{map[string]string{
				"Code": "InvalidParameterValue", "Message": err.Error(),
			}}})
			return
		}

		limit := max(req.ItemCount, 1)
		matched := matching(req.Keywords)
		items := make([]map[string]any, 0, limit)
		for _, p := range page(matched, (max(req.ItemPage, 1)-1)*limit, limit) {
			items = append(items, paapiItem(p))
		}

		if len(matched) == 0 {
			writeJSON(w, http.StatusOK, map[string]any{"Errors": []any{map[string]string{
				"Code": "NoResults", "Message": "No results found for your request.",
			}}})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"SearchResult": map[string]any{
			"Items":            items,
			"TotalResultCount": len(matched),
		}})
		logger.Info("paapi search", "keywords", req.Keywords, "matched", len(matched))
	}
}

func paapiGetItemsHandler(logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !paapiAuthorized(w, r) {
			return
		}
		var req struct {
			ItemIDs []string `json:"ItemIds"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{"Errors": []any{map[string]string{
				"Code": "InvalidParameterValue", "Message": err.Error(),
			}}})
			return
		}

		var items []map[string]any
		for _, id := range req.ItemIDs {
			for _, p := range catalog {
				if p.ASIN == id {
					items = append(items, paapiItem(p))
				}
			}
		}
		if len(items) == 0 {
			writeJSON(w, http.StatusOK, map[string]any{"Errors": []any{map[string]string{
				"Code": "InvalidParameterValue", "Message": "The ItemId provided in the request is invalid.",
			}}})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ItemsResult": map[string]any{"Items": items}})
		logger.Info("paapi get items", "ids", req.ItemIDs, "found", len(items))
	}
}

// RapidAPI

func rapidProduct(p product) map[string]any {
	return map[string]any{
		"asin":                 p.ASIN,
		"product_title":        p.Title,
		"product_price":        "$" + strconv.FormatFloat(p.Price, 'f', 2, 64),
		"currency":             p.Currency,
		"product_star_rating":  strconv.FormatFloat(p.Rating, 'f', 1, 64),
		"product_url":          "https://www.amazon.com/dp/" + p.ASIN,
		"product_photo":        p.Image,
		"product_availability": "In Stock",
		"category_path":        []any{map[string]string{"name": p.Category}},
	}
}

func rapidAuthorized(w http.ResponseWriter, r *http.Request) bool {
	if r.Header.Get("X-RapidAPI-Key") != "" {
		return true
	}
	writeJSON(w, http.StatusUnauthorized, map[string]string{
		"message": "Invalid API key. Go to https://docs.rapidapi.com/docs/keys for more info.",
	})
	return false
}

func rapidSearchHandler(logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !rapidAuthorized(w, r) {
			return
		}
		q := r.URL.Query()
		const perPage = 10
		matched := matching(q.Get("query"))
		products := make([]map[string]any, 0, perPage)
		for _, p := range page(matched, (intParam(q.Get("page"), 1)-1)*perPage, perPage) {
			products = append(products, rapidProduct(p))
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"status": "OK",
			"data":   map[string]any{"total_products": len(matched), "products": products},
		})
		logger.Info("rapidapi search", "query", q.Get("query"), "matched", len(matched))
	}
}

func rapidDetailsHandler(logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !rapidAuthorized(w, r) {
			return
		}
		asin := r.URL.Query().Get("asin")
		for _, p := range catalog {
			if p.ASIN == asin {
				writeJSON(w, http.StatusOK, map[string]any{"status": "OK", "data": rapidProduct(p)})
				logger.Info("rapidapi details", "asin", asin)
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]any{"status": "ERROR", "data": nil})
	}
}

// eBay Finding

var ebayConditionIDs = map[string]string{
	"New":         "1000",
	"Refurbished": "2000",
	"Used":        "3000",
}

func findingItem(p product) map[string]any {
	price := strconv.FormatFloat(p.Price, 'f', 2, 64)
	return map[string]any{
		"itemId":          []string{p.EbayID},
		"title":           []string{p.Title},
		"primaryCategory": []any{map[string]any{"categoryId": []string{"112529"}, "categoryName": []string{p.Category}}},
		"galleryURL":      []string{p.Image},
		"pictureURLLarge": []string{p.Image},
		"viewItemURL":     []string{"https://www.ebay.com/itm/" + p.EbayID},
		"condition": []any{map[string]any{
			"conditionId":          []string{ebayConditionIDs[p.Condition]},
			"conditionDisplayName": []string{p.Condition},
		}},
		"sellingStatus": []any{map[string]any{
			"currentPrice": []any{map[string]string{"@currencyId": p.Currency, "__value__": price}},
			"sellingState": []string{"Active"},
		}},
		"sellerInfo": []any{map[string]any{
			"sellerUserName":          []string{p.Seller},
			"feedbackScore":           []string{"1520"},
			"positiveFeedbackPercent": []string{strconv.FormatFloat(p.Rating*20, 'f', 1, 64)},
		}},
	}
}

func findingHandler(logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		op := q.Get("OPERATION-NAME")
		if op == "" {
			op = "findItemsAdvanced"
		}
		if q.Get("SECURITY-APPNAME") == "" {
			writeJSON(w, http.StatusOK, findingEnvelope(op, "Failure", nil, 0, 1, map[string]any{
				"error": []any{map[string]any{
					"errorId": []string{"11002"},
					"message": []string{"Authentication failed : Invalid Application: "},
				}},
			}))
			return
		}

		var matched []product
		if id := q.Get("productId"); op == "findItemsByProduct" {
			for _, p := range catalog {
				if p.EbayID == id {
					matched = append(matched, p)
				}
			}
		} else {
			matched = matching(q.Get("keywords"))
		}

		limit := intParam(q.Get("paginationInput.entriesPerPage"), 50)
		pageNum := intParam(q.Get("paginationInput.pageNumber"), 1)
		items := make([]map[string]any, 0, limit)
		for _, p := range page(matched, (pageNum-1)*limit, limit) {
			items = append(items, findingItem(p))
		}

		writeJSON(w, http.StatusOK, findingEnvelope(op, "Success", items, len(matched), limit, nil))
		logger.Info("finding", "operation", op, "keywords", q.Get("keywords"), "matched", len(matched))
	}
}

func findingEnvelope(op, ack string, items []map[string]any, total, limit int, errMsg map[string]any) map[string]any {
	resp := map[string]any{
		"ack": []string{ack},
		"searchResult": []any{map[string]any{
			"@count": strconv.Itoa(len(items)),
			"item":   items,
		}},
		"paginationOutput": []any{map[string]any{
			"totalEntries":   []string{strconv.Itoa(total)},
			"entriesPerPage": []string{strconv.Itoa(limit)},
			"totalPages":     []string{strconv.Itoa((total + limit - 1) / limit)},
		}},
	}
	if errMsg != nil {
		resp["errorMessage"] = []any{errMsg}
	}
	return map[string]any{op + "Response": []any{resp}}
}

// OpenAI Responses

func responsesHandler(logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Model string `json:"model"`
			Tools []struct {
				Type string `json:"type"`
			} `json:"tools"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": map[string]string{"message": err.Error()}})
			return
		}

		var output []any
		if len(req.Tools) > 0 {
			output = append(output, map[string]string{"type": "web_search_call", "status": "completed"})
		}
		output = append(output, map[string]any{
			"type": "message",
			"content": []any{map[string]any{
				"type": "output_text",
				"text": evaluationAnswer,
				"annotations": []any{map[string]any{
					"type":        "url_citation",
					"url":         "https://www.ebay.com/sch/i.html?LH_Sold=1",
					"title":       "eBay sold listings",
					"start_index": 0,
					"end_index":   10,
				}},
			}},
		})

		writeJSON(w, http.StatusOK, map[string]any{
			"model":       req.Model,
			"output_text": evaluationAnswer,
			"output":      output,
		})
		logger.Info("responses", "model", req.Model, "web_search", len(req.Tools) > 0)
	}
}
