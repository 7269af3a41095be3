package rules

// AlertRules returns a PrometheusRule CR containing alert rules for
// bargain-finder operational monitoring.
func AlertRules() PrometheusRule {
	return newPrometheusRule("bargain-alerts", "bargain-alerts", []Rule{
		{
			Alert:  "BargainFinderDown",
			Expr:   `absent(up{job="bargain-finder"})`,
			For:    "2m",
			Labels: map[string]string{"severity": "critical"},
			Annotations: map[string]string{
				"summary":     "Bargain Finder is down",
				"description": "The bargain-finder job has been absent for more than 2 minutes.",
			},
		},
		{
			Alert:  "BargainFinderNotReady",
			Expr:   `bargain_readyz_up == 0`,
			For:    "2m",
			Labels: map[string]string{"severity": "critical"},
			Annotations: map[string]string{
				"summary":     "Bargain Finder has no marketplace configured",
				"description": "The readiness probe has reported no marketplace clients for more than 2 minutes.",
			},
		},
		{
			Alert:  "BargainFinderHighErrorRate",
			Expr:   `bargain:http_errors:rate5m / bargain:http_requests:rate5m > 0.05`,
			For:    "5m",
			Labels: map[string]string{"severity": "warning"},
			Annotations: map[string]string{
				"summary":     "High HTTP error rate on Bargain Finder",
				"description": "More than 5% of HTTP requests are returning 5xx errors over the last 5 minutes.",
			},
		},
		{
			Alert: "BargainFinderProviderErrors",
			Expr: `sum by (provider) (bargain:marketplace_errors:rate5m)` +
				` / sum by (provider) (bargain:marketplace_requests:rate5m) > 0.2`,
			For:    "10m",
			Labels: map[string]string{"severity": "warning"},
			Annotations: map[string]string{
				"summary":     "Marketplace provider {{ $labels.provider }} is failing",
				"description": "More than 20% of calls to {{ $labels.provider }} have failed for 10 minutes.",
			},
		},
		{
			Alert: "BargainFinderRateLimitSaturated",
			Expr: `histogram_quantile(0.95, sum by (provider, le)` +
				` (rate(bargain_ratelimit_wait_seconds_bucket[5m]))) > 30`,
			For:    "10m",
			Labels: map[string]string{"severity": "warning"},
			Annotations: map[string]string{
				"summary":     "Callers are queueing on the {{ $labels.provider }} rate limit",
				"description": "p95 token wait for {{ $labels.provider }} has exceeded 30s for 10 minutes.",
			},
		},
		{
			Alert:  "BargainFinderEbayBudgetHigh",
			Expr:   `sum(increase(bargain_marketplace_requests_total{provider="ebay"}[24h])) > 4000`,
			For:    "5m",
			Labels: map[string]string{"severity": "warning"},
			Annotations: map[string]string{
				"summary":     "eBay API daily usage is above 80% of the allowance",
				"description": "Rolling 24h eBay Finding API usage has exceeded 4000 calls (allowance is 5000).",
			},
		},
		{
			Alert: "BargainFinderInvalidAIResponses",
			Expr: `sum(rate(bargain_evaluations_total{outcome="invalid_response"}[15m]))` +
				` / sum(rate(bargain_evaluations_total[15m])) > 0.1`,
			For:    "15m",
			Labels: map[string]string{"severity": "warning"},
			Annotations: map[string]string{
				"summary":     "Model answers are failing validation",
				"description": "More than 10% of evaluations returned an invalid AI response over 15 minutes.",
			},
		},
	})
}
