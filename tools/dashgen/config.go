package main

import "errors"

// generatedHeader prefixes every generated YAML file.
const generatedHeader = "# Code generated by tools/dashgen. DO NOT EDIT.\n"

// KnownMetrics is the set of metric names exported by bargain-finder plus
// recording rule names referenced in dashboards and alerts.
var KnownMetrics = map[string]bool{
	// HTTP metrics.
	"bargain_http_request_duration_seconds_bucket": true,
	"bargain_http_requests_total":                  true,
	"bargain_http_requests_in_flight":              true,

	// Health metrics.
	"bargain_healthz_up": true,
	"bargain_readyz_up":  true,

	// Marketplace metrics.
	"bargain_marketplace_requests_total":                  true,
	"bargain_marketplace_request_duration_seconds_bucket": true,
	"bargain_marketplace_retries_total":                   true,

	// Rate limiter metrics.
	"bargain_ratelimit_wait_seconds_bucket": true,
	"bargain_ratelimit_tokens":              true,

	// Evaluation metrics.
	"bargain_evaluations_total":                  true,
	"bargain_evaluation_duration_seconds_bucket": true,
	"bargain_evaluation_web_search_total":        true,
	"bargain_evaluation_confidence_score_bucket": true,

	// Recording rules.
	"bargain:http_requests:rate5m":        true,
	"bargain:http_errors:rate5m":          true,
	"bargain:marketplace_requests:rate5m": true,
	"bargain:marketplace_errors:rate5m":   true,
	"bargain:evaluations:rate5m":          true,

	// Standard Prometheus metrics referenced in dashboards.
	"up":                         true,
	"process_start_time_seconds": true,
}

// Config controls which artifacts the generator produces and where they go.
type Config struct {
	OutputDir        string
	DashboardEnabled bool
	RulesEnabled     bool
}

// DefaultConfig returns a Config that generates all artifacts into ../../deploy
// (relative to tools/dashgen/).
func DefaultConfig() Config {
	return Config{
		OutputDir:        "../../deploy",
		DashboardEnabled: true,
		RulesEnabled:     true,
	}
}

// Validate checks that the config is usable.
func (c Config) Validate() error {
	if c.OutputDir == "" {
		return errors.New("output directory must be set")
	}
	if !c.DashboardEnabled && !c.RulesEnabled {
		return errors.New("at least one of dashboard or rules must be enabled")
	}
	return nil
}
