// Package analysis implements the tabular insight engine: column type
// inference, filter predicates, descriptive statistics, trend fitting,
// outlier detection and pattern heuristics over the series of a Table.
package analysis

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ValueKind tags the variant held by a Value.
type ValueKind uint8

const (
	KindText ValueKind = iota
	KindNumber
)

// Value is a single raw cell. Parsers produce Number for cells that read as a
// finite float and Text for everything else, including empty cells.
type Value struct {
	kind ValueKind
	num  float64
	text string
}

// Number wraps a float cell.
func Number(f float64) Value { return Value{kind: KindNumber, num: f} }

// Text wraps a string cell.
func Text(s string) Value { return Value{kind: KindText, text: s} }

// ParseValue turns a raw string cell into Number when it reads as a finite
// float, otherwise Text. Surrounding whitespace is ignored for the numeric test
// but preserved in the Text variant.
func ParseValue(s string) Value {
	if f, ok := parseFinite(s); ok {
		return Number(f)
	}
	return Text(s)
}

func (v Value) Kind() ValueKind { return v.kind }

func (v Value) IsNumber() bool { return v.kind == KindNumber }

// Float coerces the cell to a finite float. Numbers convert directly; Text
// converts when it parses after trimming. Empty text, NaN and Inf never do.
func (v Value) Float() (float64, bool) {
	if v.kind == KindNumber {
		if math.IsNaN(v.num) || math.IsInf(v.num, 0) {
			return 0, false
		}
		return v.num, true
	}
	return parseFinite(v.text)
}

// String renders the cell the way it compares in categorical filters.
func (v Value) String() string {
	if v.kind == KindNumber {
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	}
	return v.text
}

func (v Value) MarshalJSON() ([]byte, error) {
	if v.kind == KindNumber {
		if math.IsNaN(v.num) || math.IsInf(v.num, 0) {
			return json.Marshal(v.String())
		}
		return json.Marshal(v.num)
	}
	return json.Marshal(v.text)
}

func (v *Value) UnmarshalJSON(b []byte) error {
	var raw any
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	switch x := raw.(type) {
	case float64:
		*v = Number(x)
	case string:
		*v = Text(x)
	case nil:
		*v = Text("")
	case bool:
		*v = Text(strconv.FormatBool(x))
	default:
		return fmt.Errorf("unsupported cell value %s", string(b))
	}
	return nil
}

func parseFinite(s string) (float64, bool) {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// Table is the normalized in-memory dataset. Headers[0] names the label
// column whose cells are Labels; every other header has a Columns entry of the
// same length as Labels.
type Table struct {
	Headers []string           `json:"headers"`
	Labels  []string           `json:"labels"`
	Columns map[string][]Value `json:"columns"`
}

// Len returns the row count.
func (t *Table) Len() int { return len(t.Labels) }

// LabelColumn returns the name of the label column, or "" for an empty header.
func (t *Table) LabelColumn() string {
	if len(t.Headers) == 0 {
		return ""
	}
	return t.Headers[0]
}

// DataHeaders returns the non-label headers in declaration order.
func (t *Table) DataHeaders() []string {
	if len(t.Headers) <= 1 {
		return nil
	}
	return t.Headers[1:]
}

// Column returns the raw cells of a column. The label column is exposed as
// Text cells so it takes part in type inference and filtering like any other.
func (t *Table) Column(name string) ([]Value, bool) {
	if name != "" && name == t.LabelColumn() {
		out := make([]Value, len(t.Labels))
		for i, l := range t.Labels {
			out[i] = ParseValue(l)
		}
		return out, true
	}
	vals, ok := t.Columns[name]
	return vals, ok
}

// Series coerces a column to floats for charting and analysis. Cells that do
// not parse become 0.
func (t *Table) Series(name string) []float64 {
	vals, ok := t.Column(name)
	if !ok {
		return nil
	}
	out := make([]float64, len(vals))
	for i, v := range vals {
		if f, ok := v.Float(); ok {
			out[i] = f
		}
	}
	return out
}

// Validate checks the structural invariants. Violations wrap ErrMalformedTable.
func (t *Table) Validate() error {
	if t == nil {
		return &Error{Op: "validate", Err: ErrMalformedTable, Detail: "nil table"}
	}
	if len(t.Headers) == 0 {
		return &Error{Op: "validate", Err: ErrMalformedTable, Detail: "empty header"}
	}
	if len(t.Columns) == 0 {
		return &Error{Op: "validate", Err: ErrMalformedTable, Detail: "no data columns"}
	}
	seen := make(map[string]struct{}, len(t.Headers))
	for _, h := range t.Headers {
		if _, dup := seen[h]; dup {
			return &Error{Op: "validate", Column: h, Err: ErrMalformedTable, Detail: "duplicate header"}
		}
		seen[h] = struct{}{}
	}
	if _, clash := t.Columns[t.LabelColumn()]; clash {
		return &Error{Op: "validate", Column: t.LabelColumn(), Err: ErrMalformedTable, Detail: "label column duplicated in columns"}
	}
	for _, h := range t.DataHeaders() {
		vals, ok := t.Columns[h]
		if !ok {
			return &Error{Op: "validate", Column: h, Err: ErrMalformedTable, Detail: "header has no column"}
		}
		if len(vals) != len(t.Labels) {
			return &Error{Op: "validate", Column: h, Err: ErrMalformedTable,
				Detail: fmt.Sprintf("column has %d rows, labels have %d", len(vals), len(t.Labels))}
		}
	}
	if len(t.Columns) != len(t.Headers)-1 {
		for name := range t.Columns {
			if _, ok := seen[name]; !ok {
				return &Error{Op: "validate", Column: name, Err: ErrMalformedTable, Detail: "column missing from headers"}
			}
		}
	}
	return nil
}

// Clone returns a deep copy.
func (t *Table) Clone() *Table {
	out := &Table{
		Headers: append([]string(nil), t.Headers...),
		Labels:  append([]string(nil), t.Labels...),
		Columns: make(map[string][]Value, len(t.Columns)),
	}
	for k, v := range t.Columns {
		out.Columns[k] = append([]Value(nil), v...)
	}
	return out
}

// Equal reports whether two tables hold the same headers, labels and cells.
func (t *Table) Equal(o *Table) bool {
	if t == nil || o == nil {
		return t == o
	}
	if len(t.Headers) != len(o.Headers) || len(t.Labels) != len(o.Labels) || len(t.Columns) != len(o.Columns) {
		return false
	}
	for i := range t.Headers {
		if t.Headers[i] != o.Headers[i] {
			return false
		}
	}
	for i := range t.Labels {
		if t.Labels[i] != o.Labels[i] {
			return false
		}
	}
	for k, a := range t.Columns {
		b, ok := o.Columns[k]
		if !ok || len(a) != len(b) {
			return false
		}
		for i := range a {
			if a[i].kind != b[i].kind || a[i].String() != b[i].String() {
				return false
			}
		}
	}
	return true
}
