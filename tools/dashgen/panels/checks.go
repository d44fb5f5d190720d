package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// ChecksRate returns a timeseries panel showing availability checks per minute.
func ChecksRate() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Checks / min").
		Description("Rate of availability checks per minute").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(6).
		WithTarget(PromQuery(`pw:checks:rate5m * 60`, "checks/min", "A")).
		FillOpacity(10).
		LineWidth(2).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}

// CheckFailures returns a timeseries panel showing terminal check failures
// per minute.
func CheckFailures() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Check Failures / min").
		Description("Rate of checks ending in a terminal failure per minute").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(6).
		WithTarget(PromQuery(`pw:check_failures:rate5m * 60`, "failures/min", "A")).
		FillOpacity(10).
		LineWidth(2).
		Thresholds(ThresholdsGreenYellowRed(0.1, 1)).
		ColorScheme(ColorSchemeThresholds()).
		DrawStyle(common.GraphDrawStyleLine)
}

// CheckDuration returns a timeseries panel showing the p95 check duration,
// retry waits included.
func CheckDuration() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Check Duration (p95)").
		Description("95th percentile availability check duration").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(6).
		WithTarget(PromQuery(
			`histogram_quantile(0.95, sum(rate(pickupwatch_check_duration_seconds_bucket{job="pickupwatch"}[5m])) by (le))`,
			"p95",
			"A",
		)).
		Unit("s").
		FillOpacity(10).
		LineWidth(2).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}

// FetchRetries returns a timeseries panel showing upstream fetch retries per
// minute. A sustained rise usually means anti-bot pressure from the upstream.
func FetchRetries() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Fetch Retries / min").
		Description("Rate of upstream fetch retries per minute").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(6).
		WithTarget(PromQuery(`pw:fetch_retries:rate5m * 60`, "retries/min", "A")).
		FillOpacity(10).
		LineWidth(2).
		Thresholds(ThresholdsGreenYellowRed(0.5, 2)).
		ColorScheme(ColorSchemeThresholds()).
		DrawStyle(common.GraphDrawStyleLine)
}
