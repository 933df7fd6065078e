// backend/src/parsers/monitoring/schema.go
package monitoring

import (
	"regexp"
	"strings"

	"github.com/username/srriwatch/backend/src/models"
)

// Logical field names reported in schema errors.
const (
	colFund          = "Fund"
	colSubFund       = "Sub-Fund"
	colShareClass    = "Share Class"
	colCurrency      = "Currency"
	colLastValidated = "last validated document date"
	colWeekResults   = "SRRI Result (Week N)"
)

var weekTagRe = regexp.MustCompile(`Week\s*\d+`)

// weekColumns pairs the result column of one week with its report-date
// column. report is -1 when the sheet has no report column for the week.
type weekColumns struct {
	week   string
	result int
	report int
}

// sheetSchema maps every required logical field to the column index it was
// discovered at. It is resolved once per workbook, before any body row is
// read, so a malformed sheet fails before it can misalign the join.
type sheetSchema struct {
	fund          int
	subFund       int
	shareClass    int
	currency      int
	lastValidated int
	weeks         []weekColumns
}

// buildHeaders combines the week-tag row and the label row into single
// headers of the form "<label> (<week>)". A second pass re-labels any bare
// "SRRI Result" column with the week of the nearest preceding "SRRI
// Report" column: the source layout attaches the week tag only to the
// report-date column of each pair.
func buildHeaders(weekRow, labelRow []string) []string {
	n := len(labelRow)
	if len(weekRow) > n {
		n = len(weekRow)
	}
	headers := make([]string, n)
	for i := 0; i < n; i++ {
		label := strings.TrimSpace(cell(labelRow, i))
		week := strings.TrimSpace(cell(weekRow, i))
		if week != "" {
			headers[i] = label + " (" + week + ")"
		} else {
			headers[i] = label
		}
	}

	weekContext := ""
	for i, h := range headers {
		if strings.Contains(h, "SRRI Report") {
			weekContext = parenContent(h)
			continue
		}
		if h == "SRRI Result" && weekContext != "" {
			headers[i] = "SRRI Result (" + weekContext + ")"
		}
	}
	return headers
}

// resolveSchema validates the reconstructed headers against the required
// logical fields. Every missing field is collected so the error names the
// full set at once.
func resolveSchema(headers []string) (*sheetSchema, error) {
	s := &sheetSchema{fund: -1, subFund: -1, shareClass: -1, currency: -1, lastValidated: -1}
	reportByWeek := make(map[string]int)

	for i, h := range headers {
		lower := strings.ToLower(h)
		switch {
		case strings.EqualFold(h, colFund):
			s.fund = i
		case strings.EqualFold(h, colSubFund):
			s.subFund = i
		case strings.EqualFold(h, colShareClass):
			s.shareClass = i
		case strings.EqualFold(h, colCurrency):
			s.currency = i
		case strings.Contains(lower, "last validated"):
			s.lastValidated = i
		case strings.HasPrefix(h, "SRRI Result (Week"):
			s.weeks = append(s.weeks, weekColumns{week: weekTag(h), result: i, report: -1})
		case strings.HasPrefix(h, "SRRI Report (Week"):
			reportByWeek[weekTag(h)] = i
		}
	}
	for i := range s.weeks {
		if idx, ok := reportByWeek[s.weeks[i].week]; ok {
			s.weeks[i].report = idx
		}
	}

	var missing []string
	for _, f := range []struct {
		name string
		idx  int
	}{
		{colFund, s.fund},
		{colSubFund, s.subFund},
		{colShareClass, s.shareClass},
		{colCurrency, s.currency},
		{colLastValidated, s.lastValidated},
	} {
		if f.idx < 0 {
			missing = append(missing, f.name)
		}
	}
	if len(s.weeks) == 0 {
		missing = append(missing, colWeekResults)
	}
	if len(missing) > 0 {
		return nil, &models.SchemaError{Input: "monitoring workbook", Missing: missing}
	}
	return s, nil
}

// weekTag extracts the canonical "Week N" tag from a reconstructed header.
// Columns keep their file position for ordering; the tag is display only.
func weekTag(header string) string {
	content := parenContent(header)
	if m := weekTagRe.FindString(content); m != "" {
		return m
	}
	return content
}

func parenContent(header string) string {
	open := strings.LastIndex(header, "(")
	if open < 0 {
		return ""
	}
	return strings.TrimSpace(strings.TrimSuffix(header[open+1:], ")"))
}

// cell reads a column from a possibly ragged spreadsheet row.
func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}
