package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/datavista-cli/internal/analysis"
)

var (
	filterWorkspace string
	filterRanges    []string
	filterSelects   []string
	filterDates     []string
	filterDrop      []string
	filterClear     bool
)

var filterCmd = &cobra.Command{
	Use:   "filter",
	Short: "Set, drop or clear column filters on a workspace",
	Example: `  datavista filter -w sales --range Sales=90:120
  datavista filter -w sales --select Region=North,South --dates Month=2024-01-01:2024-06-30
  datavista filter -w sales --drop Region
  datavista filter -w sales --clear`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(filterWorkspace)
		if err != nil {
			return err
		}
		if s.Table() == nil {
			return fmt.Errorf("workspace '%s': no dataset uploaded (run 'datavista upload' first)", s.Workspace().Name)
		}
		specs, err := parseFilterFlags(filterRanges, filterSelects, filterDates)
		if err != nil {
			return err
		}
		if filterClear {
			if len(specs) > 0 || len(filterDrop) > 0 {
				return fmt.Errorf("--clear cannot be combined with other filter flags")
			}
			if err := s.ClearFilters(); err != nil {
				return err
			}
			okf(cmd, "Cleared all filters (%d rows)", s.Table().Len())
			return nil
		}
		if len(specs) == 0 && len(filterDrop) == 0 {
			return fmt.Errorf("specify at least one of --range, --select, --dates, --drop or --clear")
		}

		next := s.Filters()
		for _, col := range filterDrop {
			if _, ok := next[col]; !ok {
				warnf("no filter on column '%s'", col)
			}
			delete(next, col)
		}
		for col, spec := range specs {
			if err := checkFilterColumn(s.Types(), col, spec); err != nil {
				return err
			}
			next[col] = spec
		}
		if err := s.SetFilters(next); err != nil {
			return err
		}
		v, err := s.View()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, line := range s.Workspace().FilterDescriptions() {
			fmt.Fprintf(out, "  %s\n", line)
		}
		okf(cmd, "%d of %d rows match", len(v.Rows), v.TotalRows)
		if len(v.Rows) == 0 {
			warnf("no rows match the active filters")
		}
		return nil
	},
}

// checkFilterColumn rejects a spec whose kind cannot apply to the column's
// inferred type. Unknown columns pass through.
func checkFilterColumn(types analysis.TypeMap, col string, spec analysis.FilterSpec) error {
	ct, ok := types[col]
	if !ok {
		return nil
	}
	want := map[analysis.ColumnType]analysis.FilterKind{
		analysis.Numeric:     analysis.FilterNumericRange,
		analysis.Categorical: analysis.FilterCategoricalSet,
		analysis.Date:        analysis.FilterDateRange,
	}[ct]
	if spec.Kind != want {
		return fmt.Errorf("column '%s' is %s; use %s", col, ct, flagForKind(want))
	}
	return nil
}

func flagForKind(k analysis.FilterKind) string {
	switch k {
	case analysis.FilterNumericRange:
		return "--range"
	case analysis.FilterCategoricalSet:
		return "--select"
	case analysis.FilterDateRange:
		return "--dates"
	}
	return string(k)
}

// parseFilterFlags turns col=min:max, col=a,b and col=start:end arguments
// into filter specs. A column may appear only once.
func parseFilterFlags(ranges, selects, dates []string) (map[string]analysis.FilterSpec, error) {
	specs := map[string]analysis.FilterSpec{}
	add := func(flag, arg string, parse func(string) (analysis.FilterSpec, error)) error {
		col, val, ok := strings.Cut(arg, "=")
		col = strings.TrimSpace(col)
		if !ok || col == "" {
			return fmt.Errorf("invalid %s %q (want column=value)", flag, arg)
		}
		if _, dup := specs[col]; dup {
			return fmt.Errorf("column '%s' filtered more than once", col)
		}
		spec, err := parse(strings.TrimSpace(val))
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", flag, arg, err)
		}
		specs[col] = spec
		return nil
	}
	for _, arg := range ranges {
		if err := add("--range", arg, parseRange); err != nil {
			return nil, err
		}
	}
	for _, arg := range selects {
		if err := add("--select", arg, parseSelect); err != nil {
			return nil, err
		}
	}
	for _, arg := range dates {
		if err := add("--dates", arg, parseDates); err != nil {
			return nil, err
		}
	}
	return specs, nil
}

func parseRange(val string) (analysis.FilterSpec, error) {
	lo, hi, ok := strings.Cut(val, ":")
	if !ok {
		return analysis.FilterSpec{}, fmt.Errorf("want min:max")
	}
	min, err := strconv.ParseFloat(strings.TrimSpace(lo), 64)
	if err != nil {
		return analysis.FilterSpec{}, fmt.Errorf("min: %w", err)
	}
	max, err := strconv.ParseFloat(strings.TrimSpace(hi), 64)
	if err != nil {
		return analysis.FilterSpec{}, fmt.Errorf("max: %w", err)
	}
	if min > max {
		return analysis.FilterSpec{}, fmt.Errorf("min %g is greater than max %g", min, max)
	}
	return analysis.NumericRange(min, max), nil
}

// parseSelect splits on commas; `\,` keeps a literal comma inside a value.
func parseSelect(val string) (analysis.FilterSpec, error) {
	var allowed []string
	for _, v := range splitEscaped(val, ',') {
		if v = strings.TrimSpace(v); v != "" {
			allowed = append(allowed, v)
		}
	}
	if len(allowed) == 0 {
		return analysis.FilterSpec{}, fmt.Errorf("want at least one value")
	}
	return analysis.CategoricalSet(allowed...), nil
}

func splitEscaped(s string, sep rune) []string {
	var (
		out []string
		cur strings.Builder
		esc bool
	)
	for _, r := range s {
		switch {
		case esc:
			if r != sep && r != '\\' {
				cur.WriteRune('\\')
			}
			cur.WriteRune(r)
			esc = false
		case r == '\\':
			esc = true
		case r == sep:
			out = append(out, cur.String())
			cur.Reset()
		default:
			cur.WriteRune(r)
		}
	}
	if esc {
		cur.WriteRune('\\')
	}
	return append(out, cur.String())
}

// parseDates accepts start:end or start..end. Either bound may be empty; a
// non-empty bound must be a YYYY-MM-DD date.
func parseDates(val string) (analysis.FilterSpec, error) {
	sep := ":"
	if strings.Contains(val, "..") {
		sep = ".."
	}
	start, end, ok := strings.Cut(val, sep)
	if !ok {
		return analysis.FilterSpec{}, fmt.Errorf("want start:end")
	}
	start, end = strings.TrimSpace(start), strings.TrimSpace(end)
	for _, b := range []string{start, end} {
		if b == "" {
			continue
		}
		if _, err := time.Parse(time.DateOnly, b); err != nil {
			return analysis.FilterSpec{}, fmt.Errorf("bound %q is not a YYYY-MM-DD date", b)
		}
	}
	if start != "" && end != "" && start > end {
		return analysis.FilterSpec{}, fmt.Errorf("start %s is after end %s", start, end)
	}
	return analysis.DateRange(start, end), nil
}

func addFilterFlags(cmd *cobra.Command, ranges, selects, dates *[]string) {
	cmd.Flags().StringArrayVar(ranges, "range", nil, "numeric filter column=min:max (repeatable)")
	cmd.Flags().StringArrayVar(selects, "select", nil, "categorical filter column=a,b,c; escape a comma inside a value as \\, (repeatable)")
	cmd.Flags().StringArrayVar(dates, "dates", nil, "date filter column=YYYY-MM-DD:YYYY-MM-DD, either bound may be empty (repeatable)")
}

func init() {
	rootCmd.AddCommand(filterCmd)
	filterCmd.Flags().StringVarP(&filterWorkspace, "workspace", "w", "", "workspace name (default: enclosing workspace directory)")
	addFilterFlags(filterCmd, &filterRanges, &filterSelects, &filterDates)
	filterCmd.Flags().StringArrayVar(&filterDrop, "drop", nil, "remove the filter on a column (repeatable)")
	filterCmd.Flags().BoolVar(&filterClear, "clear", false, "remove every filter")
}
