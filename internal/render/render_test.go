package render

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/datavista-cli/internal/analysis"
)

func sampleReport(t *testing.T) *analysis.InsightReport {
	t.Helper()
	tbl := &analysis.Table{
		Headers: []string{"Month", "Sales"},
		Labels:  []string{"2024-01-01", "2024-02-01", "2024-03-01", "2024-04-01", "2024-05-01"},
		Columns: map[string][]analysis.Value{
			"Sales": {analysis.Number(10), analysis.Number(20), analysis.Number(30), analysis.Number(40), analysis.Number(50)},
		},
	}
	rep, err := analysis.Analyze(tbl, nil, analysis.DefaultOptions())
	require.NoError(t, err)
	rep.Name = "sales.csv"
	return rep
}

func TestReportFormats(t *testing.T) {
	rep := sampleReport(t)

	var md bytes.Buffer
	require.NoError(t, Report(&md, rep, FormatMarkdown))
	assert.Contains(t, md.String(), "[DATASET INSIGHTS]")
	assert.Contains(t, md.String(), "Sales shows a upward trend")

	var js bytes.Buffer
	require.NoError(t, Report(&js, rep, FormatJSON))
	var decoded analysis.InsightReport
	require.NoError(t, json.Unmarshal(js.Bytes(), &decoded))
	assert.Equal(t, "sales.csv", decoded.Name)
	require.Len(t, decoded.Statistics, 1)
	assert.Equal(t, 30.0, decoded.Statistics[0].Stats.Mean)

	var ym bytes.Buffer
	require.NoError(t, Report(&ym, rep, FormatYAML))
	var generic map[string]any
	require.NoError(t, yaml.Unmarshal(ym.Bytes(), &generic))
	assert.Equal(t, 5, generic["rows"])
	assert.Equal(t, "sales.csv", generic["name"])

	err := Report(&bytes.Buffer{}, rep, "html")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown format")
}

func TestStatsTable(t *testing.T) {
	rep := sampleReport(t)
	var buf bytes.Buffer
	require.NoError(t, StatsTable(&buf, rep))
	out := buf.String()
	assert.Contains(t, out, "Sales")
	assert.Contains(t, out, "30.00")
	assert.Contains(t, out, "upward (100%)")
}

func TestControlsTable(t *testing.T) {
	controls := []analysis.ColumnControl{
		{Name: "Sales", Type: analysis.Numeric, HasBounds: true, Min: 80, Max: 150},
		{Name: "Region", Type: analysis.Categorical, Options: []string{"North", "South"}},
		{Name: "Day", Type: analysis.Date},
	}
	var buf bytes.Buffer
	require.NoError(t, ControlsTable(&buf, controls))
	out := buf.String()
	assert.Contains(t, out, "range 80.00..150.00")
	assert.Contains(t, out, "one of North, South")
	assert.Contains(t, out, "YYYY-MM-DD")
}

func TestControlSummaryTruncatesOptions(t *testing.T) {
	opts := []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"}
	got := controlSummary(analysis.ColumnControl{Type: analysis.Categorical, Options: opts})
	assert.Equal(t, "one of a, b, c, d, e, f, g, h (+2 more)", got)
	assert.Equal(t, "range (no numeric values)", controlSummary(analysis.ColumnControl{Type: analysis.Numeric}))
}

func TestResample(t *testing.T) {
	data := []float64{1, 3, 5, 7, 9, 11}
	assert.Equal(t, []float64{2, 6, 10}, resample(data, 3))
	assert.Equal(t, data, resample(data, 10))
}

func TestChart(t *testing.T) {
	var buf bytes.Buffer
	series := []analysis.ChartSeries{{Label: "Sales", Data: []float64{1, 2, 3, 4}}}
	require.NoError(t, Chart(&buf, "sales.csv", []string{"a", "b", "c", "d"}, series, 8))
	out := buf.String()
	assert.Contains(t, out, "sales.csv")
	assert.Contains(t, out, "Sales")
	assert.Contains(t, out, "max 4.00")
	assert.Contains(t, out, "(4 points)")

	buf.Reset()
	require.NoError(t, Chart(&buf, "empty", nil, nil, 8))
	assert.True(t, strings.Contains(buf.String(), "no numeric series"))
}
