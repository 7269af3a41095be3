package panels

import (
	"fmt"

	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/gauge"
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// ProviderRequestRate returns a timeseries panel showing provider calls per
// second by provider and operation.
func ProviderRequestRate() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Provider Calls").
		Description("Marketplace API calls per second by provider and operation").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(TSWidth).
		WithTarget(PromQuery(`bargain:marketplace_requests:rate5m`, "{{provider}} {{operation}}", "A")).
		Unit("reqps").
		FillOpacity(10).
		LineWidth(2).
		Legend(TableLegend("mean", "max")).
		Tooltip(MultiTooltip()).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}

// ProviderLatency returns a timeseries panel showing p95 provider latency.
func ProviderLatency() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Provider Latency p95").
		Description("95th percentile marketplace API call duration, including rate-limit waits").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(TSWidth).
		WithTarget(PromQuery(
			quantile("0.95", "bargain_marketplace_request_duration_seconds_bucket", "provider"),
			"{{provider}}", "A",
		)).
		Unit("s").
		FillOpacity(10).
		LineWidth(2).
		Tooltip(MultiTooltip()).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}

// ProviderErrorRatio returns a timeseries panel showing the share of
// provider calls that failed.
func ProviderErrorRatio() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Provider Error %").
		Description("Failed marketplace calls as a percentage of all calls, per provider").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(TSWidth).
		WithTarget(PromQuery(
			`sum by (provider) (bargain:marketplace_errors:rate5m) / sum by (provider) (bargain:marketplace_requests:rate5m) * 100`,
			"{{provider}}", "A",
		)).
		Unit("percent").
		FillOpacity(10).
		LineWidth(2).
		Thresholds(ThresholdsGreenYellowRed(5, 20)).
		ColorScheme(ColorSchemeThresholds()).
		DrawStyle(common.GraphDrawStyleLine)
}

// RetryRate returns a timeseries panel showing transport retries per host.
func RetryRate() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Retries").
		Description("Retried provider HTTP requests per second by host").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(TSWidth).
		WithTarget(PromQuery(
			`sum by (host) (rate(bargain_marketplace_retries_total{job="`+Job+`"}[5m]))`,
			"{{host}}", "A",
		)).
		Unit("reqps").
		FillOpacity(10).
		LineWidth(2).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}

// EbayBudgetGauge returns a gauge panel showing rolling 24h eBay calls as a
// percentage of the daily allowance.
func EbayBudgetGauge() *gauge.PanelBuilder {
	expr := fmt.Sprintf(
		`sum(increase(bargain_marketplace_requests_total{job="%s", provider="ebay"}[24h])) / %d * 100`,
		Job, EbayDailyLimit,
	)
	return gauge.NewPanelBuilder().
		Title("eBay Daily Budget %").
		Description(fmt.Sprintf("Rolling 24h eBay Finding API calls (allowance: %d)", EbayDailyLimit)).
		Datasource(DSRef()).
		Height(StatHeight).
		Span(StatWidth).
		WithTarget(PromQuery(expr, "", "A")).
		Unit("percent").
		Min(0).
		Max(100).
		Thresholds(ThresholdsGreenYellowRed(80, 95)).
		ColorScheme(ColorSchemeThresholds())
}
