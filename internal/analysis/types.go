package analysis

import (
	"regexp"
)

// ColumnType is the inferred semantic kind of a column.
type ColumnType string

const (
	Numeric     ColumnType = "numeric"
	Date        ColumnType = "date"
	Categorical ColumnType = "categorical"
)

// TypeMap maps column name to its inferred type. It is derived from one table
// and goes stale when the column set changes.
type TypeMap map[string]ColumnType

const (
	inferSampleSize   = 10
	inferNumericRatio = 0.8
)

var isoDatePrefix = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`)

// InferColumnType classifies a column from its first ten cells: Numeric when
// more than 80% of the sample parses as a finite number, Date when any sampled
// cell starts with YYYY-MM-DD, Categorical otherwise. Empty columns are
// Categorical.
func InferColumnType(values []Value) ColumnType {
	sample := values
	if len(sample) > inferSampleSize {
		sample = sample[:inferSampleSize]
	}
	numeric := 0
	for _, v := range sample {
		if _, ok := v.Float(); ok {
			numeric++
		}
	}
	if len(sample) > 0 && float64(numeric) > float64(len(sample))*inferNumericRatio {
		return Numeric
	}
	for _, v := range sample {
		if isoDatePrefix.MatchString(v.String()) {
			return Date
		}
	}
	return Categorical
}

// InferTypes classifies every header of the table, label column included.
func InferTypes(t *Table) (TypeMap, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	out := make(TypeMap, len(t.Headers))
	for _, h := range t.Headers {
		vals, _ := t.Column(h)
		out[h] = InferColumnType(vals)
	}
	return out, nil
}

// NumericSeriesNames lists the non-label columns typed Numeric, in header
// order. These are the series that get charted and analyzed.
func NumericSeriesNames(t *Table, types TypeMap) []string {
	var out []string
	for _, h := range t.DataHeaders() {
		if types[h] == Numeric {
			out = append(out, h)
		}
	}
	return out
}
