package monitoring

import (
	"bytes"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/xuri/excelize/v2"

	"github.com/username/srriwatch/backend/src/models"
)

// buildWorkbook writes an in-memory XLSX with the two-row monitoring
// header layout: week tags on row 1, column labels on row 2.
func buildWorkbook(t *testing.T, rows [][]interface{}) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetList()[0]
	for i, row := range rows {
		addr, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		if err := f.SetSheetRow(sheet, addr, &row); err != nil {
			t.Fatalf("set row %d: %v", i+1, err)
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	return buf
}

func TestParse(t *testing.T) {
	buf := buildWorkbook(t, [][]interface{}{
		{nil, nil, nil, nil, nil, "Week 1", nil, "Week 2", nil},
		{"Fund", "Sub-Fund", "Share Class", "Currency", "last validated document date", "SRRI Report", "SRRI Result", "SRRI Report", "SRRI Result"},
		{"Global Fund", "Equity", "Class A Acc", "GBP", "01/02/2024", "05/01/2024", 3, "12/01/2024", 4},
	})

	p := NewParser()
	got, err := p.Parse(buf)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	want := []models.MonitoringRecord{
		{
			Fund:            "Global Fund",
			SubFund:         "Equity",
			ShareClassLabel: "Class A Acc",
			Currency:        "GBP",
			Identifier:      "aaccgbp",
			LastValidated:   "01/02/2024",
			Weeks: []models.WeekObservation{
				{Week: "Week 1", SRRI: "3", ReportDate: "05/01/2024"},
				{Week: "Week 2", SRRI: "4", ReportDate: "12/01/2024"},
			},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Parse mismatch (-want +got):\n%s", diff)
	}
}

// The week tag is attached only to the report-date column in the source
// layout; the adjacent bare "SRRI Result" header inherits it.
func TestBuildHeadersRelabelsBareResultColumns(t *testing.T) {
	weekRow := []string{"", "Week 3", "", "Week 7", ""}
	labelRow := []string{"Fund", "SRRI Report", "SRRI Result", "SRRI Report", "SRRI Result"}

	got := buildHeaders(weekRow, labelRow)
	want := []string{
		"Fund",
		"SRRI Report (Week 3)",
		"SRRI Result (Week 3)",
		"SRRI Report (Week 7)",
		"SRRI Result (Week 7)",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("buildHeaders mismatch (-want +got):\n%s", diff)
	}
}

func TestParseMissingColumnsIsSchemaError(t *testing.T) {
	buf := buildWorkbook(t, [][]interface{}{
		{nil, nil},
		{"Fund", "Share Class"},
		{"Global Fund", "Class A Acc"},
	})

	p := NewParser()
	_, err := p.Parse(buf)
	var schemaErr *models.SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("want *models.SchemaError, got %v", err)
	}
	for _, name := range []string{colSubFund, colCurrency, colLastValidated, colWeekResults} {
		found := false
		for _, m := range schemaErr.Missing {
			if m == name {
				found = true
			}
		}
		if !found {
			t.Errorf("schema error should name %q, got %v", name, schemaErr.Missing)
		}
	}
}

// A row without a usable share-class label cannot join anything downstream.
func TestParseDropsRowsWithoutIdentifier(t *testing.T) {
	buf := buildWorkbook(t, [][]interface{}{
		{nil, nil, nil, nil, nil, "Week 1", nil},
		{"Fund", "Sub-Fund", "Share Class", "Currency", "last validated document date", "SRRI Report", "SRRI Result"},
		{"Global Fund", "Equity", "", "GBP", "01/02/2024", "05/01/2024", 3},
		{"Global Fund", "Equity", "Class A Acc", "GBP", "01/02/2024", "05/01/2024", 3},
	})

	p := NewParser()
	got, err := p.Parse(buf)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("want 1 record, got %d", len(got))
	}
	if got[0].Identifier != "aaccgbp" {
		t.Errorf("unexpected identifier %q", got[0].Identifier)
	}
}
