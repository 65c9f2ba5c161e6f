package analysis

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

// SeriesTrend tags a trend with its series.
type SeriesTrend struct {
	Label       string      `json:"label" yaml:"label"`
	Trend       TrendResult `json:"trend" yaml:"trend"`
	Description string      `json:"description" yaml:"description"`
}

// SeriesStatistics tags statistics with their series. Display holds the
// two-decimal rendering of Stats.
type SeriesStatistics struct {
	Label   string      `json:"label" yaml:"label"`
	Stats   SeriesStats `json:"stats" yaml:"stats"`
	Display SeriesStats `json:"display" yaml:"display"`
}

// SeriesAnomalies lists the outliers of a series in source order.
type SeriesAnomalies struct {
	Label       string    `json:"label" yaml:"label"`
	Values      []float64 `json:"values" yaml:"values"`
	Description string    `json:"description" yaml:"description"`
}

// SeriesPatterns lists the pattern labels that fired for a series.
type SeriesPatterns struct {
	Label    string   `json:"label" yaml:"label"`
	Patterns []string `json:"patterns" yaml:"patterns"`
}

// InsightReport aggregates every detector over every series of one table.
// It is rebuilt from scratch on upload, filter apply and filter clear.
type InsightReport struct {
	Name        string             `json:"name,omitempty" yaml:"name,omitempty"`
	Rows        int                `json:"rows" yaml:"rows"`
	TotalRows   int                `json:"total_rows,omitempty" yaml:"total_rows,omitempty"`
	Filters     []string           `json:"filters,omitempty" yaml:"filters,omitempty"`
	Trends      []SeriesTrend      `json:"trends" yaml:"trends"`
	Statistics  []SeriesStatistics `json:"statistics" yaml:"statistics"`
	Anomalies   []SeriesAnomalies  `json:"anomalies" yaml:"anomalies"`
	Patterns    []SeriesPatterns   `json:"patterns" yaml:"patterns"`
	Warnings    []string           `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	GeneratedAt time.Time          `json:"generated_at" yaml:"generated_at"`
}

// ChartSeries is one plotted dataset.
type ChartSeries struct {
	Label string    `json:"label" yaml:"label"`
	Data  []float64 `json:"data" yaml:"data"`
}

// ChartData returns the labels and numeric series to plot. Renderers replace
// their whole dataset with this on every call.
func ChartData(t *Table, types TypeMap) ([]string, []ChartSeries) {
	names := NumericSeriesNames(t, types)
	out := make([]ChartSeries, 0, len(names))
	for _, n := range names {
		out = append(out, ChartSeries{Label: n, Data: t.Series(n)})
	}
	return append([]string(nil), t.Labels...), out
}

// Analyze runs trend, statistics, anomaly and pattern detection over every
// numeric series of the table in header order. A nil type map is inferred.
func Analyze(t *Table, types TypeMap, opt Options) (*InsightReport, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	if types == nil {
		var err error
		if types, err = InferTypes(t); err != nil {
			return nil, err
		}
	}
	log := opt.logger()
	rep := &InsightReport{
		Rows:        t.Len(),
		Trends:      []SeriesTrend{},
		Statistics:  []SeriesStatistics{},
		Anomalies:   []SeriesAnomalies{},
		Patterns:    []SeriesPatterns{},
		GeneratedAt: time.Now(),
	}
	_, series := ChartData(t, types)
	if len(series) == 0 {
		rep.Warnings = append(rep.Warnings, "no numeric series to analyze")
	}
	for _, s := range series {
		trend := DetectTrend(s.Data, opt)
		rep.Trends = append(rep.Trends, SeriesTrend{
			Label:       s.Label,
			Trend:       trend,
			Description: fmt.Sprintf("%s shows a %s trend", s.Label, trend.Direction),
		})

		st, err := ComputeStats(s.Data)
		if err != nil {
			log.Debug("skipping statistics", zap.String("series", s.Label), zap.Error(err))
			rep.Warnings = append(rep.Warnings, fmt.Sprintf("%s: no rows left to summarize", s.Label))
			continue
		}
		rep.Statistics = append(rep.Statistics, SeriesStatistics{Label: s.Label, Stats: st, Display: st.Rounded()})

		if out := DetectAnomalies(s.Data, st, opt.AnomalySigma); len(out) > 0 {
			rep.Anomalies = append(rep.Anomalies, SeriesAnomalies{
				Label:       s.Label,
				Values:      out,
				Description: fmt.Sprintf("Found %d potential outliers in %s", len(out), s.Label),
			})
		}
		if pats := DetectPatterns(s.Data, opt); len(pats) > 0 {
			rep.Patterns = append(rep.Patterns, SeriesPatterns{Label: s.Label, Patterns: pats})
		}
	}
	log.Debug("analysis complete",
		zap.Int("rows", rep.Rows),
		zap.Int("series", len(series)),
		zap.Int("anomalous_series", len(rep.Anomalies)))
	return rep, nil
}

// Headlines returns up to n short insight lines, trends first, then patterns
// and anomalies.
func (r *InsightReport) Headlines(n int) []string {
	var out []string
	for _, t := range r.Trends {
		out = append(out, t.Description)
	}
	for _, p := range r.Patterns {
		out = append(out, fmt.Sprintf("%s: %s", p.Label, strings.Join(p.Patterns, ", ")))
	}
	for _, a := range r.Anomalies {
		out = append(out, a.Description)
	}
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// Markdown renders the report in the insight panel layout.
func (r *InsightReport) Markdown() string {
	var b strings.Builder
	b.WriteString("[DATASET INSIGHTS]\n")
	if r.Name != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", r.Name))
	}
	if r.TotalRows > 0 && r.TotalRows != r.Rows {
		b.WriteString(fmt.Sprintf("Rows: %d of %d\n", r.Rows, r.TotalRows))
	} else {
		b.WriteString(fmt.Sprintf("Rows: %d\n", r.Rows))
	}
	if len(r.Filters) > 0 {
		b.WriteString("Filters: " + strings.Join(r.Filters, "; ") + "\n")
	}

	b.WriteString("\n[TRENDS]\n")
	for _, t := range r.Trends {
		b.WriteString(fmt.Sprintf("- %s: %s", t.Label, t.Description))
		if t.Trend.Direction != InsufficientData {
			b.WriteString(fmt.Sprintf(" (strength %d%%, slope %s)", t.Trend.Strength, t.Trend.SlopeText()))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n[PATTERNS]\n")
	if len(r.Patterns) == 0 {
		b.WriteString("- No significant patterns detected\n")
	}
	for _, p := range r.Patterns {
		b.WriteString(fmt.Sprintf("- %s: %s\n", p.Label, strings.Join(p.Patterns, ", ")))
	}

	b.WriteString("\n[ANOMALIES]\n")
	if len(r.Anomalies) == 0 {
		b.WriteString("- No significant anomalies detected\n")
	}
	for _, a := range r.Anomalies {
		shown := a.Values
		if len(shown) > 3 {
			shown = shown[:3]
		}
		vals := make([]string, len(shown))
		for i, v := range shown {
			vals[i] = fmt.Sprintf("%.2f", v)
		}
		more := ""
		if len(a.Values) > 3 {
			more = "..."
		}
		b.WriteString(fmt.Sprintf("- %s: %s (outlier values: %s%s)\n", a.Label, a.Description, strings.Join(vals, ", "), more))
	}

	b.WriteString("\n[STATISTICS]\n")
	for _, s := range r.Statistics {
		d := s.Display
		b.WriteString(fmt.Sprintf("- %s: mean %.2f | median %.2f | std %.2f | range %.2f - %.2f (n=%d)\n",
			s.Label, d.Mean, d.Median, d.Std, d.Min, d.Max, d.Count))
	}

	if len(r.Warnings) > 0 {
		b.WriteString("\n[NOTES]\n")
		for _, w := range r.Warnings {
			b.WriteString("- ")
			b.WriteString(w)
			b.WriteString("\n")
		}
	}
	return b.String()
}
