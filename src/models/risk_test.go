package models

import "testing"

// The two sources carry mixed numeric forms for the same category; every
// form must land on one canonical integer before equality comparison.
func TestParseRiskCategory(t *testing.T) {
	cases := []struct {
		in   string
		want RiskCategory
	}{
		{"4", 4},
		{"4.0", 4},
		{" 7 ", 7},
		{"1", 1},
		{"4.5", RiskAbsent}, // a real SRRI is a whole number
		{"0", RiskAbsent},
		{"8", RiskAbsent},
		{"", RiskAbsent},
		{"n/a", RiskAbsent},
	}
	for _, tc := range cases {
		if got := ParseRiskCategory(tc.in); got != tc.want {
			t.Errorf("ParseRiskCategory(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestRiskCategoryString(t *testing.T) {
	if got := RiskCategory(4).String(); got != "4" {
		t.Errorf("String() = %q, want \"4\"", got)
	}
	if got := RiskAbsent.String(); got != "" {
		t.Errorf("absent String() = %q, want empty", got)
	}
}
