package utils

import (
	"testing"
	"time"
)

func TestParseDayFirstDate(t *testing.T) {
	cases := []struct {
		in   string
		want time.Time
		ok   bool
	}{
		{"09.05.2017", time.Date(2017, 5, 9, 0, 0, 0, 0, time.UTC), true},
		{"01/02/2024", time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), true},
		{"1-2-2024", time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), true},
		{"01 January 2020", time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), true},
		{"3 Mar 2021", time.Date(2021, 3, 3, 0, 0, 0, 0, time.UTC), true},
		{"2024-03-01", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), true},
		{"2024-03-01 10:30:00", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), true},
		{"  14/06/2023  ", time.Date(2023, 6, 14, 0, 0, 0, 0, time.UTC), true},
		{"", time.Time{}, false},
		{"not a date", time.Time{}, false},
	}
	for _, tc := range cases {
		got, ok := ParseDayFirstDate(tc.in)
		if ok != tc.ok {
			t.Errorf("ParseDayFirstDate(%q) ok = %v, want %v", tc.in, ok, tc.ok)
			continue
		}
		if ok && !got.Equal(tc.want) {
			t.Errorf("ParseDayFirstDate(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

// Day-first precedence: 01/02 is the 1st of February, never January 2nd.
func TestParseDayFirstDatePrecedence(t *testing.T) {
	got, ok := ParseDayFirstDate("01/02/2024")
	if !ok {
		t.Fatal("expected parse to succeed")
	}
	if got.Month() != time.February || got.Day() != 1 {
		t.Errorf("got %v, want 1 February 2024", got)
	}
}
