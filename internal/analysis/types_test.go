package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func values(ss ...string) []Value {
	out := make([]Value, len(ss))
	for i, s := range ss {
		out[i] = ParseValue(s)
	}
	return out
}

func TestInferColumnType(t *testing.T) {
	tests := []struct {
		name string
		in   []Value
		want ColumnType
	}{
		{"empty", nil, Categorical},
		{"all numeric", values("1", "2", "3.5"), Numeric},
		{"nine of ten numeric", values("1", "2", "3", "4", "5", "6", "7", "8", "9", "x"), Numeric},
		{"eight of ten is not enough", values("1", "2", "3", "4", "5", "6", "7", "8", "x", "y"), Categorical},
		{"blank cells do not count", values("1", "", "", "4"), Categorical},
		{"iso dates", values("2024-01-01", "2024-02-01"), Date},
		{"one date in sample", values("n/a", "2024-01-05T10:00:00Z"), Date},
		{"categories", values("North", "South"), Categorical},
		{"short column", values("7"), Numeric},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InferColumnType(tt.in))
		})
	}
}

func TestInferColumnTypeSamplesFirstTen(t *testing.T) {
	col := values("a", "b", "c", "d", "e", "f", "g", "h", "i", "j")
	for i := 0; i < 100; i++ {
		col = append(col, Number(float64(i)))
	}
	assert.Equal(t, Categorical, InferColumnType(col))
}

func TestInferTypes(t *testing.T) {
	tbl := salesTable()
	types, err := InferTypes(tbl)
	require.NoError(t, err)
	assert.Equal(t, TypeMap{"Date": Date, "Region": Categorical, "Sales": Numeric}, types)

	again, err := InferTypes(tbl)
	require.NoError(t, err)
	assert.Equal(t, types, again)

	assert.Equal(t, []string{"Sales"}, NumericSeriesNames(tbl, types))
}

func TestInferTypesRejectsMalformed(t *testing.T) {
	tbl := salesTable()
	tbl.Labels = tbl.Labels[:3]
	_, err := InferTypes(tbl)
	assert.ErrorIs(t, err, ErrMalformedTable)
}
