package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/KaramelBytes/datavista-cli/internal/analysis"
)

// StatsTable writes one row of statistics and trend per analyzed series.
func StatsTable(w io.Writer, rep *analysis.InsightReport) error {
	trends := make(map[string]analysis.TrendResult, len(rep.Trends))
	for _, t := range rep.Trends {
		trends[t.Label] = t.Trend
	}
	anomalies := make(map[string]int, len(rep.Anomalies))
	for _, a := range rep.Anomalies {
		anomalies[a.Label] = len(a.Values)
	}

	table := tablewriter.NewWriter(w)
	table.Header("Series", "N", "Mean", "Median", "Std", "Min", "Max", "Trend", "Outliers")
	for _, s := range rep.Statistics {
		d := s.Display
		tr := trends[s.Label]
		trend := string(tr.Direction)
		if tr.Direction != analysis.InsufficientData {
			trend = fmt.Sprintf("%s (%d%%)", tr.Direction, tr.Strength)
		}
		if err := table.Append([]string{
			s.Label,
			strconv.Itoa(d.Count),
			num(d.Mean), num(d.Median), num(d.Std), num(d.Min), num(d.Max),
			trend,
			strconv.Itoa(anomalies[s.Label]),
		}); err != nil {
			return err
		}
	}
	return table.Render()
}

// ControlsTable writes the filter widget descriptor of every column.
func ControlsTable(w io.Writer, controls []analysis.ColumnControl) error {
	table := tablewriter.NewWriter(w)
	table.Header("Column", "Type", "Filter")
	for _, c := range controls {
		if err := table.Append([]string{c.Name, string(c.Type), controlSummary(c)}); err != nil {
			return err
		}
	}
	return table.Render()
}

func controlSummary(c analysis.ColumnControl) string {
	switch c.Type {
	case analysis.Numeric:
		if !c.HasBounds {
			return "range (no numeric values)"
		}
		return fmt.Sprintf("range %s..%s", num(c.Min), num(c.Max))
	case analysis.Categorical:
		const maxShown = 8
		opts := c.Options
		more := ""
		if len(opts) > maxShown {
			more = fmt.Sprintf(" (+%d more)", len(opts)-maxShown)
			opts = opts[:maxShown]
		}
		return "one of " + strings.Join(opts, ", ") + more
	case analysis.Date:
		return "dates YYYY-MM-DD..YYYY-MM-DD"
	}
	return ""
}

func num(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}
