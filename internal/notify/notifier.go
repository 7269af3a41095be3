// Package notify delivers bargain alerts for evaluated listings.
package notify

import (
	"context"
	"fmt"

	domain "github.com/donaldgifford/bargain-finder/pkg/types"
)

// AlertPayload contains the data needed to send a bargain alert.
type AlertPayload struct {
	ListingTitle   string
	ListingURL     string
	ImageURL       string
	Marketplace    string
	Price          string
	EstimatedValue string
	Undervaluation float64 // percent below market value
	Confidence     int
	Condition      string
	Seller         string
	Reasoning      string
}

// NewAlertPayload formats a listing and its evaluation for delivery.
func NewAlertPayload(l *domain.Listing, r *domain.EvaluationResult) AlertPayload {
	p := AlertPayload{
		ListingTitle:   l.Title,
		ListingURL:     l.ListingURL,
		ImageURL:       l.PrimaryImage(),
		Marketplace:    string(l.Marketplace),
		Price:          money(l.Price, l.Currency),
		EstimatedValue: money(r.Evaluation.EstimatedMarketValue, l.Currency),
		Undervaluation: r.Evaluation.UndervaluationPercentage,
		Confidence:     r.Evaluation.ConfidenceScore,
		Seller:         l.SellerName,
		Reasoning:      r.Evaluation.Reasoning,
	}
	if l.Condition != "" && l.Condition != domain.ConditionUnknown {
		p.Condition = string(l.Condition)
	}
	return p
}

func money(v float64, currency string) string {
	if currency == "" || currency == "USD" {
		return fmt.Sprintf("$%.2f", v)
	}
	return fmt.Sprintf("%.2f %s", v, currency)
}

// Notifier defines the interface for sending bargain alerts.
type Notifier interface {
	SendAlert(ctx context.Context, alert *AlertPayload) error
}
