package rules

// RecordingRules returns a PrometheusRule CR containing pre-computed rate
// expressions used by dashboards and alert rules.
func RecordingRules() PrometheusRule {
	return PrometheusRule{
		APIVersion: "monitoring.coreos.com/v1",
		Kind:       "PrometheusRule",
		Metadata: PrometheusRuleMetadata{
			Name: "pickupwatch-recording-rules",
			Labels: map[string]string{
				"prometheus": "system-rules-prometheus",
			},
		},
		Spec: PrometheusRuleSpec{
			Groups: []RuleGroup{
				{
					Name: "pickupwatch-recording",
					Rules: []Rule{
						{
							Record: "pw:http_requests:rate5m",
							Expr:   `sum(rate(pickupwatch_http_requests_total[5m]))`,
						},
						{
							Record: "pw:http_errors:rate5m",
							Expr:   `sum(rate(pickupwatch_http_requests_total{status=~"5.."}[5m]))`,
						},
						{
							Record: "pw:checks:rate5m",
							Expr:   `rate(pickupwatch_checks_total[5m])`,
						},
						{
							Record: "pw:check_failures:rate5m",
							Expr:   `rate(pickupwatch_check_failures_total[5m])`,
						},
						{
							Record: "pw:fetch_retries:rate5m",
							Expr:   `rate(pickupwatch_fetch_retries_total[5m])`,
						},
						{
							Record: "pw:notifications:rate5m",
							Expr:   `rate(pickupwatch_notifications_sent_total[5m])`,
						},
					},
				},
			},
		},
	}
}
