package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	domain "github.com/pickupwatch/pickupwatch/pkg/types"
)

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printStatusTable(w io.Writer, st *domain.MonitorStatus) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"Field", "Value"})

	t.AppendRow(table.Row{"Running", st.Running})
	t.AppendRow(table.Row{"Part", st.TargetPart})
	t.AppendRow(table.Row{"Store", st.TargetStore})
	t.AppendRow(table.Row{"Interval", (time.Duration(st.IntervalMs) * time.Millisecond).String()})
	t.AppendRow(table.Row{"Checks", st.CheckCount})
	t.AppendRow(table.Row{"Last checked", formatLastChecked(st.LastCheckedAt)})
	t.AppendRow(table.Row{"Availability", formatSnapshot(st.LastSnapshot)})
	if st.LastError != "" {
		t.AppendRow(table.Row{"Last error", st.LastError})
	}

	t.Render()
}

func formatLastChecked(ts *time.Time) string {
	if ts == nil {
		return "never"
	}
	return ts.Local().Format(time.RFC3339)
}

func formatSnapshot(s *domain.Snapshot) string {
	if s == nil {
		return "unknown"
	}
	if s.Available {
		return fmt.Sprintf("AVAILABLE (%s)", s.Message)
	}
	return fmt.Sprintf("not available (%s)", s.Message)
}
