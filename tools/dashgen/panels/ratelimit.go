package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// TokensAvailable returns a timeseries panel showing each provider bucket's
// token level after its most recent acquisition.
func TokensAvailable() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Bucket Tokens").
		Description("Tokens left in each provider bucket after the latest acquisition").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(TSWidth).
		WithTarget(PromQuery(`bargain_ratelimit_tokens{job="`+Job+`"}`, "{{provider}}", "A")).
		Min(0).
		FillOpacity(10).
		LineWidth(2).
		Tooltip(MultiTooltip()).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}

// LimiterWait returns a timeseries panel showing p95 time spent waiting for
// a token.
func LimiterWait() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Rate-Limit Wait p95").
		Description("95th percentile time callers waited for a provider token").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(TSWidth).
		WithTarget(PromQuery(
			quantile("0.95", "bargain_ratelimit_wait_seconds_bucket", "provider"),
			"{{provider}}", "A",
		)).
		Unit("s").
		FillOpacity(10).
		LineWidth(2).
		Tooltip(MultiTooltip()).
		Thresholds(ThresholdsGreenYellowRed(5, 30)).
		ColorScheme(ColorSchemeThresholds()).
		DrawStyle(common.GraphDrawStyleLine)
}
