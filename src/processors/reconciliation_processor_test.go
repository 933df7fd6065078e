package processors

import (
	"errors"
	"testing"

	"github.com/username/srriwatch/backend/src/models"
)

func TestReconcileEmitsMismatchesOnly(t *testing.T) {
	summaries := []models.MonitoringSummary{
		{Identifier: "aaccgbp", LatestSRRI: 4, WeekOfChange: "Week 4"},
		{Identifier: "bincusd", LatestSRRI: 5},
	}
	classes := []models.ShareClassRecord{
		{Identifier: "aaccgbp", FundName: "Global Fund", SecurityID: "IE00B1234567"},
		{Identifier: "bincusd", FundName: "Global Fund", SecurityID: "IE00B7654321"},
	}
	facts := []models.ExtractedFacts{
		{RiskCategory: 3, FeePercent: 0.75, FeeFound: true}, // disagrees with 4
		{RiskCategory: 5},                                   // agrees
	}

	rows, err := NewReconciliationProcessor().Reconcile(summaries, classes, facts)
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("want 1 mismatch row, got %d", len(rows))
	}
	row := rows[0]
	if row.Identifier != "aaccgbp" || row.KiidSRRI != 3 || row.LatestSRRI != 4 {
		t.Errorf("unexpected row: %+v", row)
	}
	if row.WeekOfChange != "Week 4" {
		t.Errorf("WeekOfChange = %q, want \"Week 4\"", row.WeekOfChange)
	}
	if !row.FeeFound || row.FeePercent != 0.75 {
		t.Errorf("fee not carried through: %+v", row)
	}
}

func TestReconcileDisjointIdentifiersYieldEmptyReport(t *testing.T) {
	summaries := []models.MonitoringSummary{{Identifier: "left", LatestSRRI: 4}}
	classes := []models.ShareClassRecord{{Identifier: "right"}}
	facts := []models.ExtractedFacts{{RiskCategory: 3}}

	rows, err := NewReconciliationProcessor().Reconcile(summaries, classes, facts)
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("want empty report, got %d rows", len(rows))
	}
}

// An unreadable KIID (absent extracted category) against a monitored value
// is still a mismatch the reviewer must see.
func TestReconcileAbsentExtractionIsMismatch(t *testing.T) {
	summaries := []models.MonitoringSummary{{Identifier: "x", LatestSRRI: 4}}
	classes := []models.ShareClassRecord{{Identifier: "x"}}
	facts := []models.ExtractedFacts{{}}

	rows, err := NewReconciliationProcessor().Reconcile(summaries, classes, facts)
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("want 1 row, got %d", len(rows))
	}
	if rows[0].KiidSRRI.Present() {
		t.Errorf("KiidSRRI should be absent, got %d", rows[0].KiidSRRI)
	}
}

func TestReconcileMisalignedInputsFail(t *testing.T) {
	_, err := NewReconciliationProcessor().Reconcile(nil, make([]models.ShareClassRecord, 2), make([]models.ExtractedFacts, 1))
	if err == nil {
		t.Fatal("want error for misaligned classes/facts")
	}
}

func TestReconcileEmptyIdentifierIsSchemaError(t *testing.T) {
	summaries := []models.MonitoringSummary{{Identifier: "", LatestSRRI: 4}}
	_, err := NewReconciliationProcessor().Reconcile(summaries, nil, nil)
	var schemaErr *models.SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("want *models.SchemaError, got %v", err)
	}
}
