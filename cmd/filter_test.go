package cmd

import (
	"reflect"
	"testing"

	"github.com/KaramelBytes/datavista-cli/internal/analysis"
)

func TestParseFilterFlags(t *testing.T) {
	specs, err := parseFilterFlags(
		[]string{"Sales=-5:12.5"},
		[]string{"Region= North , South,"},
		[]string{"Month=2024-01-01..", "Day=:2024-06-30"},
	)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := map[string]analysis.FilterSpec{
		"Sales":  analysis.NumericRange(-5, 12.5),
		"Region": analysis.CategoricalSet("North", "South"),
		"Month":  analysis.DateRange("2024-01-01", ""),
		"Day":    analysis.DateRange("", "2024-06-30"),
	}
	if !reflect.DeepEqual(specs, want) {
		t.Fatalf("specs = %+v, want %+v", specs, want)
	}
}

func TestParseFilterFlagsErrors(t *testing.T) {
	cases := []struct {
		name                   string
		ranges, selects, dates []string
	}{
		{name: "missing equals", ranges: []string{"Sales"}},
		{name: "missing colon", ranges: []string{"Sales=5"}},
		{name: "bad number", ranges: []string{"Sales=a:5"}},
		{name: "inverted", ranges: []string{"Sales=5:1"}},
		{name: "empty select", selects: []string{"Region= , "}},
		{name: "duplicate column", ranges: []string{"Sales=1:2"}, selects: []string{"Sales=a"}},
		{name: "dates without separator", dates: []string{"Month=2024-01-01"}},
		{name: "unpadded date bound", dates: []string{"Month=2024-1-1:"}},
		{name: "impossible date", dates: []string{"Month=:2024-02-30"}},
		{name: "reversed dates", dates: []string{"Month=2024-06-01:2024-01-01"}},
	}
	for _, tc := range cases {
		if _, err := parseFilterFlags(tc.ranges, tc.selects, tc.dates); err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
	}
}

func TestCheckFilterColumn(t *testing.T) {
	types := analysis.TypeMap{"Sales": analysis.Numeric, "Region": analysis.Categorical}
	if err := checkFilterColumn(types, "Sales", analysis.NumericRange(0, 1)); err != nil {
		t.Fatalf("numeric range on numeric: %v", err)
	}
	if err := checkFilterColumn(types, "Region", analysis.NumericRange(0, 1)); err == nil {
		t.Fatalf("expected error for range on categorical column")
	}
	if err := checkFilterColumn(types, "Other", analysis.DateRange("", "")); err != nil {
		t.Fatalf("unknown column should pass: %v", err)
	}
}

func TestParseSelectEscapedComma(t *testing.T) {
	spec, err := parseSelect(`Portland\, OR, Salem,a\\b`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := []string{"Portland, OR", "Salem", `a\b`}
	if !reflect.DeepEqual(spec.Allowed, want) {
		t.Fatalf("allowed = %q, want %q", spec.Allowed, want)
	}
}
