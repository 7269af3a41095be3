package rules

// RecordingRules returns a PrometheusRule CR containing pre-computed rate
// expressions used by dashboards and alert rules.
func RecordingRules() PrometheusRule {
	return newPrometheusRule("bargain-recording-rules", "bargain-recording", []Rule{
		{
			Record: "bargain:http_requests:rate5m",
			Expr:   `sum(rate(bargain_http_requests_total[5m]))`,
		},
		{
			Record: "bargain:http_errors:rate5m",
			Expr:   `sum(rate(bargain_http_requests_total{status=~"5.."}[5m]))`,
		},
		{
			Record: "bargain:marketplace_requests:rate5m",
			Expr:   `sum by (provider, operation) (rate(bargain_marketplace_requests_total[5m]))`,
		},
		{
			Record: "bargain:marketplace_errors:rate5m",
			Expr:   `sum by (provider, operation) (rate(bargain_marketplace_requests_total{outcome="error"}[5m]))`,
		},
		{
			Record: "bargain:evaluations:rate5m",
			Expr:   `sum by (outcome) (rate(bargain_evaluations_total[5m]))`,
		},
	})
}
