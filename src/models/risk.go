package models

import (
	"strconv"
	"strings"
)

// RiskCategory is the canonical form of an SRRI value: an integer on the
// printed 1-7 scale. The zero value means "absent".
type RiskCategory int

// RiskAbsent is the zero RiskCategory, used where naming the intent helps.
const RiskAbsent RiskCategory = 0

func (r RiskCategory) Present() bool {
	return r >= 1 && r <= 7
}

func (r RiskCategory) String() string {
	if !r.Present() {
		return ""
	}
	return strconv.Itoa(int(r))
}

// ParseRiskCategory normalizes the mixed numeric forms the two sources
// carry ("4", "4.0", a float-formatted spreadsheet cell) to one canonical
// integer. Fractional or out-of-range values are absent: a real SRRI is a
// whole number between 1 and 7, anything else is noise from the source.
func ParseRiskCategory(s string) RiskCategory {
	s = strings.TrimSpace(s)
	if s == "" {
		return RiskAbsent
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return RiskAbsent
	}
	n := int(f)
	if float64(n) != f || n < 1 || n > 7 {
		return RiskAbsent
	}
	return RiskCategory(n)
}
