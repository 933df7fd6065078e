// backend/src/services/interfaces.go
package services

import (
	"context"
	"io"
	"time"

	"github.com/username/srriwatch/backend/src/models"
)

// DocumentFetcher downloads a disclosure document by URL.
type DocumentFetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// ExtractionService reads risk, fee and inception facts out of the
// disclosure documents of a share class.
type ExtractionService interface {
	ExtractFacts(ctx context.Context, class models.ShareClassRecord) models.ExtractedFacts
	// ExtractAll returns one ExtractedFacts per input record, in input order.
	ExtractAll(ctx context.Context, classes []models.ShareClassRecord) []models.ExtractedFacts
}

// RunSummary is the list view of a stored reconciliation run.
type RunSummary struct {
	ID                string    `json:"id"`
	CreatedAt         time.Time `json:"created_at"`
	ManifestRecords   int       `json:"manifest_records"`
	MonitoringRecords int       `json:"monitoring_records"`
	Summaries         int       `json:"summaries"`
	MismatchCount     int       `json:"mismatch_count"`
}

// RunResult is a full reconciliation run: its summary plus the mismatch rows.
type RunResult struct {
	RunSummary
	Mismatches []models.ReconciliationRow `json:"mismatches"`
}

// ReconciliationService runs the manifest-against-monitoring pipeline and
// serves previously stored runs.
type ReconciliationService interface {
	Run(ctx context.Context, manifest io.Reader, monitoring io.Reader, userID int64) (*RunResult, error)
	ListRuns(userID int64) ([]RunSummary, error)
	LatestRun(userID int64) (*RunResult, error)
	RunReport(userID int64, runID string) (*RunResult, error)
}

// EmailService delivers the mismatch report of a finished run.
type EmailService interface {
	SendMismatchReport(toEmail string, runID string, mismatchCount int, reportCSV []byte) error
}
