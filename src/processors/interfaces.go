package processors

import (
	"github.com/username/srriwatch/backend/src/models"
)

// ChangeProcessor reduces monitoring records to per-fund change summaries.
// Rows whose risk category never moved across the observed weeks are not
// reported downstream.
type ChangeProcessor interface {
	Process(records []models.MonitoringRecord) []models.MonitoringSummary
}

// ReconciliationProcessor joins the monitoring summaries with the
// document-extracted facts and keeps only the disagreeing rows. The facts
// slice is positional: facts[i] belongs to classes[i].
type ReconciliationProcessor interface {
	Reconcile(summaries []models.MonitoringSummary, classes []models.ShareClassRecord, facts []models.ExtractedFacts) ([]models.ReconciliationRow, error)
}
