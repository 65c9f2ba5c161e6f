package parser

import "testing"

func TestIsDateStyle(t *testing.T) {
	custom := func(s string) *string { return &s }
	tests := []struct {
		name   string
		numFmt int
		custom *string
		want   bool
	}{
		{"general", 0, nil, false},
		{"two decimals", 2, nil, false},
		{"short date", 14, nil, true},
		{"date time", 22, nil, true},
		{"minutes seconds", 47, nil, true},
		{"percent", 10, nil, false},
		{"iso custom", 0, custom("yyyy-mm-dd"), true},
		{"day month custom", 0, custom("dd/mm"), true},
		{"currency custom", 0, custom(`[$€-407]#,##0.00`), false},
		{"quoted text custom", 0, custom(`0.0 "days"`), false},
		{"colour section", 0, custom(`[Red]0.00`), false},
	}
	for _, tt := range tests {
		if got := isDateStyle(tt.numFmt, tt.custom); got != tt.want {
			t.Errorf("%s: isDateStyle = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestPickSheet(t *testing.T) {
	sheets := []string{"Ignore", "Data"}
	if got, err := pickSheet(sheets, "DATA", 0); err != nil || got != "Data" {
		t.Fatalf("by name = %q, %v", got, err)
	}
	if got, err := pickSheet(sheets, "", 0); err != nil || got != "Ignore" {
		t.Fatalf("default = %q, %v", got, err)
	}
	if got, err := pickSheet(sheets, "", 2); err != nil || got != "Data" {
		t.Fatalf("by index = %q, %v", got, err)
	}
	if _, err := pickSheet(sheets, "", 3); err == nil {
		t.Fatalf("expected out of range error")
	}
}
