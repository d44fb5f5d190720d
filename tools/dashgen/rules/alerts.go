package rules

// AlertRules returns a PrometheusRule CR containing alert rules for
// pickupwatch operational monitoring.
func AlertRules() PrometheusRule {
	return PrometheusRule{
		APIVersion: "monitoring.coreos.com/v1",
		Kind:       "PrometheusRule",
		Metadata: PrometheusRuleMetadata{
			Name: "pickupwatch-alerts",
			Labels: map[string]string{
				"prometheus": "system-rules-prometheus",
			},
		},
		Spec: PrometheusRuleSpec{
			Groups: []RuleGroup{
				{
					Name: "pickupwatch-alerts",
					Rules: []Rule{
						{
							Alert: "PickupwatchDown",
							Expr:  `absent(up{job="pickupwatch"})`,
							For:   "2m",
							Labels: map[string]string{
								"severity": "critical",
							},
							Annotations: map[string]string{
								"summary":     "Pickupwatch is down",
								"description": "The pickupwatch job has been absent for more than 2 minutes.",
							},
						},
						{
							Alert: "PickupwatchHighErrorRate",
							Expr:  `pw:http_errors:rate5m / pw:http_requests:rate5m > 0.05`,
							For:   "5m",
							Labels: map[string]string{
								"severity": "warning",
							},
							Annotations: map[string]string{
								"summary":     "High HTTP error rate on pickupwatch",
								"description": "More than 5% of HTTP requests are returning 5xx errors over the last 5 minutes.",
							},
						},
						{
							Alert: "PickupwatchCheckFailures",
							Expr:  `pw:check_failures:rate5m > 0`,
							For:   "15m",
							Labels: map[string]string{
								"severity": "warning",
							},
							Annotations: map[string]string{
								"summary":     "Availability checks are failing",
								"description": "Checks have been ending in terminal failures for more than 15 minutes. The monitor may be blind to availability changes.",
							},
						},
						{
							Alert: "PickupwatchFetchRetriesElevated",
							Expr:  `pw:fetch_retries:rate5m > 0.05`,
							For:   "10m",
							Labels: map[string]string{
								"severity": "warning",
							},
							Annotations: map[string]string{
								"summary":     "Upstream fetch retries are elevated",
								"description": "Fetch retries have been sustained for 10 minutes. The upstream is likely applying anti-bot throttling.",
							},
						},
						{
							Alert: "PickupwatchNotificationFailures",
							Expr:  `increase(pickupwatch_notification_failures_total[5m]) > 0`,
							For:   "1m",
							Labels: map[string]string{
								"severity": "warning",
							},
							Annotations: map[string]string{
								"summary":     "Notification delivery failures detected",
								"description": "One or more availability notifications have failed to send.",
							},
						},
						{
							Alert: "PickupwatchPartAvailable",
							Expr:  `pickupwatch_availability_state == 1`,
							For:   "0m",
							Labels: map[string]string{
								"severity": "info",
							},
							Annotations: map[string]string{
								"summary":     "Monitored part is available for pickup",
								"description": "The last observed snapshot reports the part as available today at the target store.",
							},
						},
					},
				},
			},
		},
	}
}
