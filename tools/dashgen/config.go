package main

import "errors"

// KnownMetrics is the set of metric names exported by pickupwatch plus
// recording rule names referenced in dashboards and alerts.
var KnownMetrics = map[string]bool{
	// HTTP metrics.
	"pickupwatch_http_request_duration_seconds": true,
	"pickupwatch_http_requests_total":           true,

	// Health metrics.
	"pickupwatch_healthz_up": true,

	// Check metrics.
	"pickupwatch_checks_total":           true,
	"pickupwatch_check_failures_total":   true,
	"pickupwatch_check_duration_seconds": true,
	"pickupwatch_availability_state":     true,

	// Fetch metrics.
	"pickupwatch_fetch_attempts_total": true,
	"pickupwatch_fetch_retries_total":  true,

	// Notification metrics.
	"pickupwatch_notifications_sent_total":    true,
	"pickupwatch_notification_failures_total": true,

	// Recording rules.
	"pw:http_requests:rate5m":  true,
	"pw:http_errors:rate5m":    true,
	"pw:checks:rate5m":         true,
	"pw:check_failures:rate5m": true,
	"pw:fetch_retries:rate5m":  true,
	"pw:notifications:rate5m":  true,

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
