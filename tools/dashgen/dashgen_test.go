package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/pickupwatch/pickupwatch/tools/dashgen/dashboards"
	"github.com/pickupwatch/pickupwatch/tools/dashgen/rules"
)

func TestDefaultConfigValid(t *testing.T) {
	t.Parallel()
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
}

func TestConfigValidate_EmptyOutputDir(t *testing.T) {
	t.Parallel()
	cfg := Config{OutputDir: "", DashboardEnabled: true}
	assert.Error(t, cfg.Validate())
}

func TestConfigValidate_NothingEnabled(t *testing.T) {
	t.Parallel()
	cfg := Config{OutputDir: "/tmp", DashboardEnabled: false, RulesEnabled: false}
	assert.Error(t, cfg.Validate())
}

func TestBuildOverviewDashboard(t *testing.T) {
	t.Parallel()

	builder := dashboards.BuildOverview()
	dash, err := builder.Build()
	require.NoError(t, err)

	require.NotNil(t, dash.Uid)
	assert.Equal(t, "pickupwatch-overview", *dash.Uid)

	require.NotNil(t, dash.Title)
	assert.Equal(t, "Pickupwatch Overview", *dash.Title)

	require.NotNil(t, dash.Templating)
	assert.Len(t, dash.Templating.List, 1)
	assert.Equal(t, "datasource", dash.Templating.List[0].Name)

	// Verify we have 4 rows.
	assert.Len(t, dash.Panels, 4)

	// Count total inner panels.
	totalPanels := 0
	for _, p := range dash.Panels {
		if p.RowPanel != nil {
			totalPanels += len(p.RowPanel.Panels)
		}
	}
	assert.Equal(t, 12, totalPanels)

	// Validate PromQL and metrics.
	result := ValidateDashboard(dash, KnownMetrics)
	assert.True(t, result.Ok(), "validation errors: %v", result.Errors)
	assert.Empty(t, result.Warnings, "unexpected warnings: %v", result.Warnings)
}

func TestRecordingRules(t *testing.T) {
	t.Parallel()

	cr := rules.RecordingRules()
	assert.Equal(t, "monitoring.coreos.com/v1", cr.APIVersion)
	assert.Equal(t, "PrometheusRule", cr.Kind)
	assert.Equal(t, "pickupwatch-recording-rules", cr.Metadata.Name)

	require.Len(t, cr.Spec.Groups, 1)
	group := cr.Spec.Groups[0]
	assert.Equal(t, "pickupwatch-recording", group.Name)
	require.Len(t, group.Rules, 6)

	expectedRecords := []string{
		"pw:http_requests:rate5m",
		"pw:http_errors:rate5m",
		"pw:checks:rate5m",
		"pw:check_failures:rate5m",
		"pw:fetch_retries:rate5m",
		"pw:notifications:rate5m",
	}
	for i, rule := range group.Rules {
		assert.Equal(t, expectedRecords[i], rule.Record)
		assert.NotEmpty(t, rule.Expr)
	}

	result := ValidateExprs(ruleExprs(cr), KnownMetrics)
	assert.True(t, result.Ok(), "validation errors: %v", result.Errors)
	assert.Empty(t, result.Warnings, "unexpected warnings: %v", result.Warnings)

	// Verify YAML marshaling works.
	data, err := yaml.Marshal(cr)
	require.NoError(t, err)
	assert.Contains(t, string(data), "apiVersion: monitoring.coreos.com/v1")
}

func TestAlertRules(t *testing.T) {
	t.Parallel()

	cr := rules.AlertRules()
	assert.Equal(t, "monitoring.coreos.com/v1", cr.APIVersion)
	assert.Equal(t, "PrometheusRule", cr.Kind)
	assert.Equal(t, "pickupwatch-alerts", cr.Metadata.Name)

	require.Len(t, cr.Spec.Groups, 1)
	group := cr.Spec.Groups[0]
	assert.Equal(t, "pickupwatch-alerts", group.Name)
	require.Len(t, group.Rules, 6)

	expectedAlerts := []string{
		"PickupwatchDown",
		"PickupwatchHighErrorRate",
		"PickupwatchCheckFailures",
		"PickupwatchFetchRetriesElevated",
		"PickupwatchNotificationFailures",
		"PickupwatchPartAvailable",
	}
	for i, rule := range group.Rules {
		assert.Equal(t, expectedAlerts[i], rule.Alert)
		assert.NotEmpty(t, rule.Expr)
		assert.NotEmpty(t, rule.Labels["severity"], "alert %s missing severity", rule.Alert)
		assert.NotEmpty(t, rule.Annotations["summary"], "alert %s missing summary", rule.Alert)
		assert.NotEmpty(t, rule.Annotations["description"], "alert %s missing description", rule.Alert)
	}

	result := ValidateExprs(ruleExprs(cr), KnownMetrics)
	assert.True(t, result.Ok(), "validation errors: %v", result.Errors)
	assert.Empty(t, result.Warnings, "unexpected warnings: %v", result.Warnings)
}

func TestValidateExprs_Invalid(t *testing.T) {
	t.Parallel()

	result := ValidateExprs([]string{`rate(pickupwatch_checks_total[5m]`}, KnownMetrics)
	assert.False(t, result.Ok())
}

func TestValidateExprs_UnknownMetric(t *testing.T) {
	t.Parallel()

	result := ValidateExprs([]string{`rate(pickupwatch_bogus_total[5m])`}, KnownMetrics)
	assert.True(t, result.Ok())
	assert.Len(t, result.Warnings, 1)
}
