package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/stat"
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// NotificationsSent returns a timeseries panel showing the rate of delivered
// notifications.
func NotificationsSent() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Notifications Sent").
		Description("Rate of delivered availability notifications per second").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(12).
		WithTarget(PromQuery(`pw:notifications:rate5m`, "sent/s", "A")).
		FillOpacity(10).
		LineWidth(2).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}

// NotificationFailures returns a stat panel showing notification failures
// in the past 24 hours.
func NotificationFailures() *stat.PanelBuilder {
	return stat.NewPanelBuilder().
		Title("Notification Failures (24h)").
		Description("Failed notification deliveries in the last 24 hours").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(12).
		WithTarget(PromQuery(`increase(pickupwatch_notification_failures_total{job="pickupwatch"}[24h])`, "", "A")).
		Thresholds(ThresholdsGreenYellowRed(1, 5)).
		ColorScheme(ColorSchemeThresholds()).
		ColorMode(common.BigValueColorModeBackground).
		GraphMode(common.BigValueGraphModeArea)
}
