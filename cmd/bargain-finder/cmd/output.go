package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
	"unicode/utf8"

	apiclient "github.com/donaldgifford/bargain-finder/internal/api/client"
	"github.com/donaldgifford/bargain-finder/internal/ratelimit"
	domain "github.com/donaldgifford/bargain-finder/pkg/types"
)

// tabWriter wraps tabwriter with error tracking.
type tabWriter struct {
	*tabwriter.Writer
	err error
}

func newTabWriter(w io.Writer) *tabWriter {
	return &tabWriter{Writer: tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)}
}

func (tw *tabWriter) writef(format string, args ...any) {
	if tw.err != nil {
		return
	}
	_, tw.err = fmt.Fprintf(tw.Writer, format, args...)
}

func (tw *tabWriter) finish() error {
	if tw.err != nil {
		return tw.err
	}
	return tw.Flush()
}

func printListingsTable(w io.Writer, res *domain.SearchResult) error {
	tw := newTabWriter(w)
	tw.writef("MARKETPLACE\tID\tTITLE\tPRICE\tCONDITION\tSELLER\n")
	for i := range res.Listings {
		l := &res.Listings[i]
		tw.writef("%s\t%s\t%s\t%s\t%s\t%s\n",
			l.Marketplace,
			l.MarketplaceID,
			truncate(l.Title, 48),
			formatPrice(l.Price, l.Currency),
			orDash(string(l.Condition)),
			orDash(l.SellerName),
		)
	}
	more := ""
	if res.HasMore {
		more = " (more available)"
	}
	tw.writef("\n%d of %d results%s\n", len(res.Listings), res.Total, more)
	return tw.finish()
}

func printListingDetail(w io.Writer, l *domain.Listing) error {
	tw := newTabWriter(w)
	tw.writef("ID:\t%s\n", l.ID)
	tw.writef("Marketplace:\t%s %s\n", l.Marketplace, l.MarketplaceID)
	tw.writef("Title:\t%s\n", l.Title)
	tw.writef("Price:\t%s\n", formatPrice(l.Price, l.Currency))
	tw.writef("Condition:\t%s\n", orDash(string(l.Condition)))
	tw.writef("Category:\t%s\n", orDash(l.Category))
	seller := orDash(l.SellerName)
	if l.SellerRating != nil {
		seller += fmt.Sprintf(" (%.1f/5)", *l.SellerRating)
	}
	tw.writef("Seller:\t%s\n", seller)
	tw.writef("Available:\t%v\n", l.Available)
	tw.writef("Images:\t%d\n", len(l.Images))
	tw.writef("URL:\t%s\n", l.ListingURL)
	return tw.finish()
}

func printEvaluation(w io.Writer, resp *apiclient.EvaluationResponse) error {
	if err := printListingDetail(w, resp.Listing); err != nil {
		return err
	}

	r := resp.Result
	ev := r.Evaluation
	tw := newTabWriter(w)
	tw.writef("\nMarket value:\t%s\n", formatPrice(ev.EstimatedMarketValue, resp.Listing.Currency))
	tw.writef("Undervalued by:\t%.1f%%\n", ev.UndervaluationPercentage)
	tw.writef("Confidence:\t%d/100\n", ev.ConfidenceScore)
	tw.writef("Replica/novelty:\t%v\n", ev.IsReplicaOrNovelty)
	tw.writef("Model:\t%s (prompt %s, %s)\n", r.ModelVersion, r.PromptVersion, r.EvaluationMode)
	tw.writef("Reasoning:\t%s\n", ev.Reasoning)
	for _, f := range ev.Factors {
		tw.writef("\t- %s\n", f)
	}
	if r.WebSearchUsed {
		tw.writef("Sources:\t%d\n", len(r.WebSearchCitations))
		for _, c := range r.WebSearchCitations {
			tw.writef("\t%s %s\n", orDash(c.Title), c.URL)
		}
	}
	if resp.Alerted {
		tw.writef("Alert:\tsent\n")
	}
	return tw.finish()
}

func printRateLimits(w io.Writer, buckets []ratelimit.BucketStatus) error {
	tw := newTabWriter(w)
	tw.writef("PROVIDER\tTOKENS\tCAPACITY\tREFILL/S\tWAIT\n")
	for _, b := range buckets {
		tw.writef("%s\t%.2f\t%g\t%g\t%dms\n", b.Provider, b.Tokens, b.Capacity, b.RefillRate, b.WaitMs)
	}
	return tw.finish()
}

func outputJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func formatPrice(v float64, currency string) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	if currency == "" {
		return s
	}
	return s + " " + currency
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func truncate(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	r := []rune(s)
	return string(r[:maxLen-3]) + "..."
}
