package notify

import (
	"context"
	"log/slog"

	"github.com/donaldgifford/bargain-finder/internal/metrics"
	domain "github.com/donaldgifford/bargain-finder/pkg/types"
)

// DealAlerter sends an alert when an evaluation clears the configured
// undervaluation and confidence thresholds.
type DealAlerter struct {
	notifier          Notifier
	minUndervaluation float64
	minConfidence     int
	log               *slog.Logger
}

// NewDealAlerter creates a DealAlerter.
func NewDealAlerter(n Notifier, minUndervaluation float64, minConfidence int, log *slog.Logger) *DealAlerter {
	return &DealAlerter{
		notifier:          n,
		minUndervaluation: minUndervaluation,
		minConfidence:     minConfidence,
		log:               log,
	}
}

// Qualifies reports whether r is a bargain worth alerting on. Replicas and
// novelty items never qualify.
func (a *DealAlerter) Qualifies(r *domain.EvaluationResult) bool {
	e := r.Evaluation
	return !e.IsReplicaOrNovelty &&
		e.UndervaluationPercentage >= a.minUndervaluation &&
		e.ConfidenceScore >= a.minConfidence
}

// Consider sends an alert for a qualifying evaluation and reports whether
// one was delivered. Send failures are logged, not returned.
func (a *DealAlerter) Consider(ctx context.Context, l *domain.Listing, r *domain.EvaluationResult) bool {
	if !a.Qualifies(r) {
		return false
	}

	alert := NewAlertPayload(l, r)
	if err := a.notifier.SendAlert(ctx, &alert); err != nil {
		metrics.NotificationsTotal.WithLabelValues("failed").Inc()
		a.log.Warn("bargain alert failed",
			"listing_id", l.ID,
			"error", err,
		)
		return false
	}

	metrics.NotificationsTotal.WithLabelValues("sent").Inc()
	a.log.Info("bargain alert sent",
		"listing_id", l.ID,
		"undervaluation", r.Evaluation.UndervaluationPercentage,
		"confidence", r.Evaluation.ConfidenceScore,
	)
	return true
}
