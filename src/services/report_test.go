// backend/src/services/report_test.go
package services

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/username/srriwatch/backend/src/models"
)

func TestRenderReportCSV(t *testing.T) {
	rows := []models.ReconciliationRow{
		{
			FundName:        "Global Equity Fund",
			ShareClassLabel: "Class A Accumulation",
			SecurityID:      "LU0000000001",
			Identifier:      "aacc",
			KiidSRRI:        4,
			LatestSRRI:      5,
			WeekOfChange:    "Week 7",
			DateOfChange:    time.Date(2024, 2, 16, 0, 0, 0, 0, time.UTC),
			FeePercent:      0.85,
			FeeFound:        true,
			KiidURL:         "https://docs.example.com/a-KIID.pdf",
		},
		{
			FundName:   "=cmd|' /C calc'!A0",
			Identifier: "bacc",
			KiidSRRI:   3,
			LatestSRRI: 4,
		},
	}

	var buf bytes.Buffer
	if err := RenderReportCSV(&buf, rows); err != nil {
		t.Fatalf("RenderReportCSV() error = %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("reading rendered CSV: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("len(records) = %d, want header + 2 rows", len(records))
	}

	first := records[1]
	if first[0] != "Global Equity Fund" || first[4] != "4" || first[5] != "5" || first[7] != "2024-02-16" || first[8] != "0.85" {
		t.Errorf("unexpected first row: %v", first)
	}
	if records[2][0] != "'=cmd|' /C calc'!A0" {
		t.Errorf("formula cell not sanitized: %q", records[2][0])
	}
	if records[2][8] != "" {
		t.Errorf("fee cell for absent fee = %q, want empty", records[2][8])
	}
}
