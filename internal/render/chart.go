// Package render turns analysis results into terminal output: sparklines,
// tables and serialized reports.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/NimbleMarkets/ntcharts/sparkline"
	"github.com/charmbracelet/lipgloss"

	"github.com/KaramelBytes/datavista-cli/internal/analysis"
)

const sparklineHeight = 3

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("51")).
			Bold(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("45"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	sparklineStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("51"))
)

// Sparkline draws data into a width-column sparkline. Longer series are
// averaged down to fit.
func Sparkline(data []float64, width int) string {
	if len(data) == 0 {
		return dimStyle.Render(fmt.Sprintf("%*s", width, "no data"))
	}
	spark := sparkline.New(width, sparklineHeight)
	for _, v := range resample(data, width) {
		spark.Push(v)
	}
	spark.Draw()
	return sparklineStyle.Render(spark.View())
}

// Chart writes one sparkline block per series. Each call renders the given
// labels and series in full.
func Chart(w io.Writer, title string, labels []string, series []analysis.ChartSeries, width int) error {
	var b strings.Builder
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")
	if len(labels) > 0 {
		b.WriteString(dimStyle.Render(fmt.Sprintf("%s … %s (%d points)", labels[0], labels[len(labels)-1], len(labels))))
		b.WriteString("\n")
	}
	if len(series) == 0 {
		b.WriteString(dimStyle.Render("no numeric series"))
		b.WriteString("\n")
	}
	for _, s := range series {
		b.WriteString("\n")
		b.WriteString(labelStyle.Render(s.Label))
		if lo, hi, ok := bounds(s.Data); ok {
			b.WriteString(dimStyle.Render(fmt.Sprintf("  min %.2f  max %.2f  last %.2f", lo, hi, s.Data[len(s.Data)-1])))
		}
		b.WriteString("\n")
		b.WriteString(Sparkline(s.Data, width))
		b.WriteString("\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// resample averages data into at most width buckets.
func resample(data []float64, width int) []float64 {
	if width <= 0 || len(data) <= width {
		return data
	}
	out := make([]float64, width)
	for i := range out {
		lo := i * len(data) / width
		hi := (i + 1) * len(data) / width
		var sum float64
		for _, v := range data[lo:hi] {
			sum += v
		}
		out[i] = sum / float64(hi-lo)
	}
	return out
}

func bounds(data []float64) (lo, hi float64, ok bool) {
	if len(data) == 0 {
		return 0, 0, false
	}
	lo, hi = data[0], data[0]
	for _, v := range data[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi, true
}
