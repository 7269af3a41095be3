// Package dashboards assembles Grafana dashboard definitions from panel builders.
package dashboards

import (
	"github.com/grafana/grafana-foundation-sdk/go/dashboard"

	"github.com/donaldgifford/bargain-finder/tools/dashgen/panels"
)

// BuildOverview constructs the bargain-finder overview dashboard.
func BuildOverview() *dashboard.DashboardBuilder {
	b := dashboard.NewDashboardBuilder("Bargain Finder Overview").
		Uid("bargain-overview").
		Tags([]string{"bargain-finder"}).
		Refresh("30s").
		Time("now-6h", "now").
		Timezone("browser").
		Editable().
		Tooltip(dashboard.DashboardCursorSyncCrosshair).
		WithVariable(datasourceVar())

	b.WithRow(dashboard.NewRowBuilder("Overview").
		WithPanel(panels.HealthzStat()).
		WithPanel(panels.ReadyzStat()).
		WithPanel(panels.InFlightStat()).
		WithPanel(panels.UptimeStat()))

	b.WithRow(dashboard.NewRowBuilder("HTTP").
		WithPanel(panels.RequestRate()).
		WithPanel(panels.LatencyPercentiles()).
		WithPanel(panels.ErrorRate()))

	b.WithRow(dashboard.NewRowBuilder("Marketplaces").
		WithPanel(panels.ProviderRequestRate()).
		WithPanel(panels.ProviderLatency()).
		WithPanel(panels.ProviderErrorRatio()).
		WithPanel(panels.RetryRate()))

	b.WithRow(dashboard.NewRowBuilder("Rate Limits").
		WithPanel(panels.TokensAvailable()).
		WithPanel(panels.LimiterWait()).
		WithPanel(panels.EbayBudgetGauge()))

	b.WithRow(dashboard.NewRowBuilder("Evaluations").
		WithPanel(panels.EvaluationRate()).
		WithPanel(panels.EvaluationLatency()).
		WithPanel(panels.ConfidenceMedian()).
		WithPanel(panels.WebSearchShare()).
		WithPanel(panels.InvalidResponseStat()))

	return b
}

func datasourceVar() *dashboard.DatasourceVariableBuilder {
	return dashboard.NewDatasourceVariableBuilder("datasource").
		Label("Datasource").
		Type("prometheus")
}
