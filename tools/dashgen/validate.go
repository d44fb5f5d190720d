package main

import (
	"encoding/json"
	"fmt"

	"github.com/grafana/grafana-foundation-sdk/go/dashboard"
	"github.com/prometheus/prometheus/promql/parser"
)

// ValidationResult collects problems found while checking generated artifacts.
type ValidationResult struct {
	Errors   []string
	Warnings []string
}

// Ok reports whether validation found no errors.
func (r ValidationResult) Ok() bool {
	return len(r.Errors) == 0
}

// ValidateDashboard parses every PromQL expression in the dashboard and
// checks each referenced metric against the known set. Unknown metrics are
// warnings: they usually mean a dashboard and the exporter drifted apart.
func ValidateDashboard(dash dashboard.Dashboard, known map[string]bool) ValidationResult {
	var result ValidationResult

	exprs, err := dashboardExprs(dash)
	if err != nil {
		result.Errors = append(result.Errors, err.Error())
		return result
	}

	for _, expr := range exprs {
		checkExpr(expr, known, &result)
	}
	return result
}

// ValidateExprs checks standalone PromQL expressions, e.g. from rule files.
func ValidateExprs(exprs []string, known map[string]bool) ValidationResult {
	var result ValidationResult
	for _, expr := range exprs {
		checkExpr(expr, known, &result)
	}
	return result
}

func checkExpr(expr string, known map[string]bool, result *ValidationResult) {
	parsed, err := parser.ParseExpr(expr)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("invalid PromQL %q: %v", expr, err))
		return
	}

	//nolint:errcheck // inspection callback never returns an error
	parser.Inspect(parsed, func(node parser.Node, _ []parser.Node) error {
		if vs, ok := node.(*parser.VectorSelector); ok && vs.Name != "" {
			if !known[vs.Name] {
				result.Warnings = append(result.Warnings,
					fmt.Sprintf("unknown metric %q in %q", vs.Name, expr))
			}
		}
		return nil
	})
}

// dashboardExprs extracts every target expression from the dashboard via its
// JSON form, which is stable regardless of SDK panel type.
func dashboardExprs(dash dashboard.Dashboard) ([]string, error) {
	data, err := json.Marshal(dash)
	if err != nil {
		return nil, fmt.Errorf("marshaling dashboard: %w", err)
	}

	var doc struct {
		Panels []jsonPanel `json:"panels"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing dashboard JSON: %w", err)
	}

	var exprs []string
	for _, p := range doc.Panels {
		exprs = append(exprs, p.exprs()...)
	}
	return exprs, nil
}

type jsonPanel struct {
	Panels  []jsonPanel `json:"panels"`
	Targets []struct {
		Expr string `json:"expr"`
	} `json:"targets"`
}

func (p jsonPanel) exprs() []string {
	var out []string
	for _, t := range p.Targets {
		if t.Expr != "" {
			out = append(out, t.Expr)
		}
	}
	for _, child := range p.Panels {
		out = append(out, child.exprs()...)
	}
	return out
}
