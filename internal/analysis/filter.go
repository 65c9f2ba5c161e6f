package analysis

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"go.uber.org/zap"
)

// FilterKind selects the predicate a FilterSpec builds.
type FilterKind string

const (
	FilterNumericRange   FilterKind = "numeric_range"
	FilterCategoricalSet FilterKind = "categorical_set"
	FilterDateRange      FilterKind = "date_range"
)

// FilterSpec constrains one column. A column without a spec is unconstrained.
type FilterSpec struct {
	Kind    FilterKind `json:"kind" yaml:"kind"`
	Min     float64    `json:"min,omitempty" yaml:"min,omitempty"`
	Max     float64    `json:"max,omitempty" yaml:"max,omitempty"`
	Allowed []string   `json:"allowed,omitempty" yaml:"allowed,omitempty"`
	Start   string     `json:"start,omitempty" yaml:"start,omitempty"`
	End     string     `json:"end,omitempty" yaml:"end,omitempty"`
}

func NumericRange(min, max float64) FilterSpec {
	return FilterSpec{Kind: FilterNumericRange, Min: min, Max: max}
}

func CategoricalSet(allowed ...string) FilterSpec {
	return FilterSpec{Kind: FilterCategoricalSet, Allowed: allowed}
}

// DateRange bounds are ISO dates (YYYY-MM-DD); an empty bound is open.
func DateRange(start, end string) FilterSpec {
	return FilterSpec{Kind: FilterDateRange, Start: start, End: end}
}

func (f FilterSpec) String() string {
	switch f.Kind {
	case FilterNumericRange:
		return fmt.Sprintf("%g..%g", f.Min, f.Max)
	case FilterCategoricalSet:
		return "{" + strings.Join(f.Allowed, ", ") + "}"
	case FilterDateRange:
		return fmt.Sprintf("%s..%s", f.Start, f.End)
	}
	return string(f.Kind)
}

// RowIndexSet is an ascending list of 0-based row indices.
type RowIndexSet []int

// FullRange returns [0..n).
func FullRange(n int) RowIndexSet {
	out := make(RowIndexSet, n)
	for i := range out {
		out[i] = i
	}
	return out
}

// ColumnControl describes the filter widget for one column: numeric bounds,
// the sorted distinct values of a categorical column (all selected), or empty
// date bounds.
type ColumnControl struct {
	Name      string     `json:"name" yaml:"name"`
	Type      ColumnType `json:"type" yaml:"type"`
	HasBounds bool       `json:"has_bounds,omitempty" yaml:"has_bounds,omitempty"`
	Min       float64    `json:"min,omitempty" yaml:"min,omitempty"`
	Max       float64    `json:"max,omitempty" yaml:"max,omitempty"`
	Options   []string   `json:"options,omitempty" yaml:"options,omitempty"`
	Selected  []string   `json:"selected,omitempty" yaml:"selected,omitempty"`
	Start     string     `json:"start,omitempty" yaml:"start,omitempty"`
	End       string     `json:"end,omitempty" yaml:"end,omitempty"`
}

// BuildControls emits one descriptor per header in header order. It never
// filters.
func BuildControls(t *Table, types TypeMap) ([]ColumnControl, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	out := make([]ColumnControl, 0, len(t.Headers))
	for _, h := range t.Headers {
		vals, _ := t.Column(h)
		c := ColumnControl{Name: h, Type: types[h]}
		switch c.Type {
		case Numeric:
			lo, hi := math.Inf(1), math.Inf(-1)
			for _, v := range vals {
				f, ok := v.Float()
				if !ok {
					continue
				}
				lo = math.Min(lo, f)
				hi = math.Max(hi, f)
			}
			if !math.IsInf(lo, 1) {
				c.HasBounds, c.Min, c.Max = true, lo, hi
			}
		case Categorical:
			c.Options = distinctSorted(vals)
			c.Selected = append([]string(nil), c.Options...)
		}
		out = append(out, c)
	}
	return out, nil
}

func distinctSorted(vals []Value) []string {
	seen := make(map[string]struct{}, len(vals))
	out := make([]string, 0)
	for _, v := range vals {
		s := v.String()
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// Apply narrows the full row range by every spec in turn (AND semantics) and
// returns the surviving rows in ascending order. Specs naming a column the
// table does not have are ignored. A spec without a kind takes it from the
// column's inferred type.
func Apply(t *Table, types TypeMap, specs map[string]FilterSpec, opt Options) (RowIndexSet, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	log := opt.logger()
	rows := FullRange(t.Len())
	for _, name := range sortedSpecNames(t, specs) {
		spec := specs[name]
		vals, ok := t.Column(name)
		if !ok {
			log.Debug("ignoring filter on unknown column", zap.String("column", name))
			continue
		}
		if spec.Kind == "" {
			spec.Kind = kindForType(types[name])
		}
		keep := predicate(spec)
		if keep == nil {
			log.Debug("ignoring filter with unknown kind", zap.String("column", name), zap.String("kind", string(spec.Kind)))
			continue
		}
		narrowed := rows[:0:0]
		for _, i := range rows {
			if keep(vals[i]) {
				narrowed = append(narrowed, i)
			}
		}
		rows = narrowed
	}
	return rows, nil
}

// sortedSpecNames orders known columns by header position and unknown ones
// after them, so results and logs are deterministic.
func sortedSpecNames(t *Table, specs map[string]FilterSpec) []string {
	pos := make(map[string]int, len(t.Headers))
	for i, h := range t.Headers {
		pos[h] = i
	}
	names := make([]string, 0, len(specs))
	for n := range specs {
		names = append(names, n)
	}
	sort.Slice(names, func(i, j int) bool {
		pi, iok := pos[names[i]]
		pj, jok := pos[names[j]]
		if iok != jok {
			return iok
		}
		if iok && pi != pj {
			return pi < pj
		}
		return names[i] < names[j]
	})
	return names
}

// kindForType resolves a spec that omits its kind from the column type.
func kindForType(ct ColumnType) FilterKind {
	switch ct {
	case Numeric:
		return FilterNumericRange
	case Date:
		return FilterDateRange
	case Categorical:
		return FilterCategoricalSet
	}
	return ""
}

func predicate(spec FilterSpec) func(Value) bool {
	switch spec.Kind {
	case FilterNumericRange:
		return func(v Value) bool {
			f, ok := v.Float()
			return ok && f >= spec.Min && f <= spec.Max
		}
	case FilterCategoricalSet:
		allowed := make(map[string]struct{}, len(spec.Allowed))
		for _, a := range spec.Allowed {
			allowed[a] = struct{}{}
		}
		return func(v Value) bool {
			_, ok := allowed[v.String()]
			return ok
		}
	case FilterDateRange:
		if spec.Start == "" && spec.End == "" {
			return func(Value) bool { return true }
		}
		return func(v Value) bool {
			d := isoDatePrefix.FindString(v.String())
			if d == "" {
				return false
			}
			if spec.Start != "" && d < spec.Start {
				return false
			}
			if spec.End != "" && d > spec.End {
				return false
			}
			return true
		}
	}
	return nil
}

// Project returns a new table holding only the given rows, which must be
// strictly increasing. The source table is not modified.
func Project(t *Table, rows RowIndexSet) (*Table, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	n := t.Len()
	for k, i := range rows {
		if i < 0 || i >= n {
			return nil, &Error{Op: "project", Err: ErrRowIndex, Detail: fmt.Sprintf("index %d outside [0,%d)", i, n)}
		}
		if k > 0 && rows[k-1] >= i {
			return nil, &Error{Op: "project", Err: ErrRowIndex, Detail: "indices not strictly increasing"}
		}
	}
	out := &Table{
		Headers: append([]string(nil), t.Headers...),
		Labels:  make([]string, len(rows)),
		Columns: make(map[string][]Value, len(t.Columns)),
	}
	for k, i := range rows {
		out.Labels[k] = t.Labels[i]
	}
	for name, vals := range t.Columns {
		picked := make([]Value, len(rows))
		for k, i := range rows {
			picked[k] = vals[i]
		}
		out.Columns[name] = picked
	}
	return out, nil
}
