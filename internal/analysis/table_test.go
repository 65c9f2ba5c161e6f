package analysis

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var salesValues = []float64{100, 80, 110, 85, 120, 90, 130, 95, 140, 100, 150, 105}

// salesTable is twelve monthly rows with Region alternating North/South.
func salesTable() *Table {
	t := &Table{
		Headers: []string{"Date", "Region", "Sales"},
		Columns: map[string][]Value{},
	}
	for i, v := range salesValues {
		t.Labels = append(t.Labels, fmt.Sprintf("2024-%02d-01", i+1))
		region := "North"
		if i%2 == 1 {
			region = "South"
		}
		t.Columns["Region"] = append(t.Columns["Region"], Text(region))
		t.Columns["Sales"] = append(t.Columns["Sales"], Number(v))
	}
	return t
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		in     string
		number bool
		want   string
	}{
		{"3.5", true, "3.5"},
		{" 42 ", true, "42"},
		{"-1e3", true, "-1000"},
		{"", false, ""},
		{"NaN", false, "NaN"},
		{"Inf", false, "Inf"},
		{"0,5", false, "0,5"},
		{"North", false, "North"},
	}
	for _, tt := range tests {
		v := ParseValue(tt.in)
		assert.Equal(t, tt.number, v.IsNumber(), "ParseValue(%q)", tt.in)
		assert.Equal(t, tt.want, v.String(), "ParseValue(%q)", tt.in)
	}
}

func TestValueFloatCoercion(t *testing.T) {
	f, ok := Text(" 7 ").Float()
	assert.True(t, ok)
	assert.Equal(t, 7.0, f)

	_, ok = Text("").Float()
	assert.False(t, ok)

	_, ok = Text("abc").Float()
	assert.False(t, ok)
}

func TestValueJSON(t *testing.T) {
	var vals []Value
	require.NoError(t, json.Unmarshal([]byte(`[1.5, "x", null, true]`), &vals))
	require.Len(t, vals, 4)
	assert.True(t, vals[0].IsNumber())
	assert.Equal(t, "x", vals[1].String())
	assert.Equal(t, "", vals[2].String())
	assert.Equal(t, "true", vals[3].String())

	out, err := json.Marshal(vals)
	require.NoError(t, err)
	assert.JSONEq(t, `[1.5, "x", "", "true"]`, string(out))
}

func TestTableValidate(t *testing.T) {
	require.NoError(t, salesTable().Validate())

	mismatch := salesTable()
	mismatch.Columns["Sales"] = mismatch.Columns["Sales"][:5]

	noHeader := salesTable()
	noHeader.Headers = nil

	clash := salesTable()
	clash.Columns["Date"] = clash.Columns["Sales"]

	missing := salesTable()
	missing.Headers = append(missing.Headers, "Profit")

	dup := salesTable()
	dup.Headers = []string{"Date", "Sales", "Sales"}

	var nilTable *Table
	for name, tbl := range map[string]*Table{
		"length mismatch": mismatch,
		"empty header":    noHeader,
		"label clash":     clash,
		"missing column":  missing,
		"duplicate":       dup,
		"nil":             nilTable,
	} {
		err := tbl.Validate()
		assert.True(t, errors.Is(err, ErrMalformedTable), "%s: got %v", name, err)
	}
}

func TestTableColumnAndSeries(t *testing.T) {
	tbl := salesTable()

	labels, ok := tbl.Column("Date")
	require.True(t, ok)
	assert.Equal(t, "2024-01-01", labels[0].String())

	_, ok = tbl.Column("Profit")
	assert.False(t, ok)

	tbl.Columns["Region"][0] = Text("n/a")
	assert.Equal(t, salesValues, tbl.Series("Sales"))
	assert.Equal(t, 0.0, tbl.Series("Region")[0])
	assert.Nil(t, tbl.Series("Profit"))
}

func TestTableCloneIsDeep(t *testing.T) {
	tbl := salesTable()
	c := tbl.Clone()
	require.True(t, tbl.Equal(c))

	c.Columns["Sales"][0] = Number(-1)
	c.Labels[0] = "changed"
	assert.False(t, tbl.Equal(c))
	assert.Equal(t, "2024-01-01", tbl.Labels[0])
	assert.Equal(t, Number(100), tbl.Columns["Sales"][0])
}
