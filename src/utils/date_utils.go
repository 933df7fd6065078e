// backend/src/utils/date_utils.go
package utils

import (
	"regexp"
	"strings"
	"time"
)

// Both input files and both document families write dates day-first, with
// whatever separator the issuing system preferred. Long-form month names
// appear on Fact Sheets ("01 January 2020"), numeric forms everywhere else.

var dayFirstFormats = []string{
	"2-1-2006",
	"2/1/2006",
	"2.1.2006",
	"2 1 2006",
	"2-1-06",
	"2/1/06",
	"2.1.06",
	"2 1 06",
	"2 January 2006",
	"2 Jan 2006",
	"2/1/2006 15:04",
	"2/1/2006 15:04:05",
}

// isoFormats cover cells that a spreadsheet already normalized.
var isoFormats = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

var spaceRunRe = regexp.MustCompile(`\s+`)

// ParseDayFirstDate parses a date string with day-first precedence and
// returns it truncated to calendar-date granularity. The boolean reports
// whether any known format matched.
func ParseDayFirstDate(s string) (time.Time, bool) {
	s = spaceRunRe.ReplaceAllString(strings.TrimSpace(s), " ")
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dayFirstFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return midnight(t), true
		}
	}
	for _, layout := range isoFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return midnight(t), true
		}
	}
	return time.Time{}, false
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
