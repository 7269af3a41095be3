package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/stat"
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// EvaluationRate returns a timeseries panel showing evaluations per second
// by outcome.
func EvaluationRate() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Evaluations").
		Description("AI evaluations per second by outcome").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(8).
		WithTarget(PromQuery(`bargain:evaluations:rate5m`, "{{outcome}}", "A")).
		Unit("reqps").
		FillOpacity(10).
		LineWidth(2).
		Legend(TableLegend("mean", "max")).
		Tooltip(MultiTooltip()).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}

// EvaluationLatency returns a timeseries panel showing evaluation duration
// percentiles.
func EvaluationLatency() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Evaluation Duration").
		Description("Model call duration percentiles").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(8).
		WithTarget(PromQuery(quantile("0.50", "bargain_evaluation_duration_seconds_bucket", ""), "p50", "A")).
		WithTarget(PromQuery(quantile("0.95", "bargain_evaluation_duration_seconds_bucket", ""), "p95", "B")).
		Unit("s").
		FillOpacity(10).
		LineWidth(2).
		Tooltip(MultiTooltip()).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}

// ConfidenceMedian returns a timeseries panel showing median and p10
// confidence of accepted evaluations.
func ConfidenceMedian() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Confidence").
		Description("Confidence score of validated evaluations (0-100)").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(8).
		WithTarget(PromQuery(quantile("0.50", "bargain_evaluation_confidence_score_bucket", ""), "p50", "A")).
		WithTarget(PromQuery(quantile("0.10", "bargain_evaluation_confidence_score_bucket", ""), "p10", "B")).
		Min(0).
		Max(100).
		FillOpacity(10).
		LineWidth(2).
		Tooltip(MultiTooltip()).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}

// WebSearchShare returns a stat panel showing the share of successful
// evaluations in which the model searched the web.
func WebSearchShare() *stat.PanelBuilder {
	return stat.NewPanelBuilder().
		Title("Web Search Used").
		Description("Share of successful evaluations that used web search (1h)").
		Datasource(DSRef()).
		Height(StatHeight).
		Span(StatWidth).
		WithTarget(PromQuery(
			`sum(increase(bargain_evaluation_web_search_total{job="`+Job+`"}[1h])) / `+
				`sum(increase(bargain_evaluations_total{job="`+Job+`", outcome="success"}[1h])) * 100`,
			"", "A",
		)).
		Unit("percent").
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemeThresholds()).
		GraphMode(common.BigValueGraphModeArea)
}

// InvalidResponseStat returns a stat panel counting model answers rejected
// by the validator in the last 24 hours.
func InvalidResponseStat() *stat.PanelBuilder {
	return stat.NewPanelBuilder().
		Title("Invalid AI Responses (24h)").
		Description("Model answers that failed schema or range validation").
		Datasource(DSRef()).
		Height(StatHeight).
		Span(StatWidth).
		WithTarget(PromQuery(
			`sum(increase(bargain_evaluations_total{job="`+Job+`", outcome="invalid_response"}[24h]))`,
			"", "A",
		)).
		Thresholds(ThresholdsGreenYellowRed(1, 10)).
		ColorScheme(ColorSchemeThresholds()).
		ColorMode(common.BigValueColorModeBackground).
		GraphMode(common.BigValueGraphModeArea)
}
