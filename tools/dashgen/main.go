// Package main generates the Grafana dashboard and Prometheus rule files
// for pickupwatch.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/pickupwatch/pickupwatch/tools/dashgen/dashboards"
	"github.com/pickupwatch/pickupwatch/tools/dashgen/rules"
)

const generatedHeader = "# Generated by tools/dashgen. Do not edit by hand.\n"

func main() {
	validateOnly := flag.Bool("validate", false, "validate generated artifacts without writing files")
	outputDir := flag.String("output", "", "override output directory")
	flag.Parse()

	cfg := DefaultConfig()
	if *outputDir != "" {
		cfg.OutputDir = *outputDir
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	if err := run(cfg, *validateOnly); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg Config, validateOnly bool) error {
	dash, err := dashboards.BuildOverview().Build()
	if err != nil {
		return fmt.Errorf("building dashboard: %w", err)
	}

	result := ValidateDashboard(dash, KnownMetrics)
	result = merge(result, ValidateExprs(ruleExprs(rules.RecordingRules()), KnownMetrics))
	result = merge(result, ValidateExprs(ruleExprs(rules.AlertRules()), KnownMetrics))

	for _, w := range result.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}
	if !result.Ok() {
		for _, e := range result.Errors {
			fmt.Fprintf(os.Stderr, "error: %s\n", e)
		}
		return fmt.Errorf("validation failed with %d error(s)", len(result.Errors))
	}

	if validateOnly {
		fmt.Println("validation passed")
		return nil
	}

	if cfg.DashboardEnabled {
		dashJSON, err := json.MarshalIndent(dash, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling dashboard: %w", err)
		}
		dashJSON = append(dashJSON, '\n')

		path := filepath.Join(cfg.OutputDir, "grafana", "data", "pickupwatch-overview.json")
		if err := writeFile(path, dashJSON); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", path)
	}

	if cfg.RulesEnabled {
		artifacts := []struct {
			name string
			rule rules.PrometheusRule
		}{
			{"pickupwatch-recording-rules.yaml", rules.RecordingRules()},
			{"pickupwatch-alerts.yaml", rules.AlertRules()},
		}
		for _, a := range artifacts {
			data, err := yaml.Marshal(a.rule)
			if err != nil {
				return fmt.Errorf("marshaling %s: %w", a.name, err)
			}
			data = append([]byte(generatedHeader), data...)

			path := filepath.Join(cfg.OutputDir, "prometheus", a.name)
			if err := writeFile(path, data); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", path)
		}
	}

	return nil
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func ruleExprs(cr rules.PrometheusRule) []string {
	var exprs []string
	for _, group := range cr.Spec.Groups {
		for _, rule := range group.Rules {
			exprs = append(exprs, rule.Expr)
		}
	}
	return exprs
}

func merge(a, b ValidationResult) ValidationResult {
	return ValidationResult{
		Errors:   append(a.Errors, b.Errors...),
		Warnings: append(a.Warnings, b.Warnings...),
	}
}
