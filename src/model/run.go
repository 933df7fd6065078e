package model

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/username/srriwatch/backend/src/models"
)

// ReconciliationRun is one stored pipeline execution: input statistics plus
// how many mismatches it produced. The mismatch rows live in their own table.
type ReconciliationRun struct {
	ID                string    `json:"id"`
	UserID            int64     `json:"user_id"`
	CreatedAt         time.Time `json:"created_at"`
	ManifestRecords   int       `json:"manifest_records"`
	MonitoringRecords int       `json:"monitoring_records"`
	Summaries         int       `json:"summaries"`
	MismatchCount     int       `json:"mismatch_count"`
}

const runDateLayout = "2006-01-02"

// InsertRun stores a run and its mismatch rows in one transaction.
func InsertRun(db *sql.DB, run *ReconciliationRun, rows []models.ReconciliationRow) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning run transaction: %w", err)
	}
	defer tx.Rollback()

	run.CreatedAt = time.Now()
	_, err = tx.Exec(`
	INSERT INTO reconciliation_runs (id, user_id, created_at, manifest_records, monitoring_records, summaries, mismatch_count)
	VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.UserID, run.CreatedAt, run.ManifestRecords, run.MonitoringRecords, run.Summaries, run.MismatchCount,
	)
	if err != nil {
		return fmt.Errorf("inserting run %s: %w", run.ID, err)
	}

	stmt, err := tx.Prepare(`
	INSERT INTO mismatches (run_id, user_id, fund_name, share_class, security_id, kiid_url, fact_sheet_url,
		identifier, kiid_srri, latest_srri, week_of_change, date_of_change, fee_percent, fee_found, inception_date)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing mismatch insert: %w", err)
	}
	defer stmt.Close()

	for _, row := range rows {
		_, err = stmt.Exec(
			run.ID, run.UserID,
			row.FundName, row.ShareClassLabel, row.SecurityID, row.KiidURL, row.FactSheetURL,
			row.Identifier, int(row.KiidSRRI), int(row.LatestSRRI),
			row.WeekOfChange, storedDate(row.DateOfChange),
			row.FeePercent, row.FeeFound, storedDate(row.InceptionDate),
		)
		if err != nil {
			return fmt.Errorf("inserting mismatch for %s: %w", row.Identifier, err)
		}
	}
	return tx.Commit()
}

// ListRunsByUser returns the user's runs, newest first.
func ListRunsByUser(db *sql.DB, userID int64) ([]ReconciliationRun, error) {
	rows, err := db.Query(`
	SELECT id, user_id, created_at, manifest_records, monitoring_records, summaries, mismatch_count
	FROM reconciliation_runs
	WHERE user_id = ?
	ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []ReconciliationRun
	for rows.Next() {
		var run ReconciliationRun
		if err := rows.Scan(&run.ID, &run.UserID, &run.CreatedAt,
			&run.ManifestRecords, &run.MonitoringRecords, &run.Summaries, &run.MismatchCount); err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// GetRunByID retrieves one run scoped to its owner. Returns sql.ErrNoRows
// when the run does not exist or belongs to someone else.
func GetRunByID(db *sql.DB, userID int64, runID string) (*ReconciliationRun, error) {
	row := db.QueryRow(`
	SELECT id, user_id, created_at, manifest_records, monitoring_records, summaries, mismatch_count
	FROM reconciliation_runs
	WHERE user_id = ? AND id = ?`, userID, runID)

	var run ReconciliationRun
	err := row.Scan(&run.ID, &run.UserID, &run.CreatedAt,
		&run.ManifestRecords, &run.MonitoringRecords, &run.Summaries, &run.MismatchCount)
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// GetLatestRunByUser retrieves the user's most recent run. Returns
// sql.ErrNoRows when the user has no runs yet.
func GetLatestRunByUser(db *sql.DB, userID int64) (*ReconciliationRun, error) {
	row := db.QueryRow(`
	SELECT id, user_id, created_at, manifest_records, monitoring_records, summaries, mismatch_count
	FROM reconciliation_runs
	WHERE user_id = ?
	ORDER BY created_at DESC
	LIMIT 1`, userID)

	var run ReconciliationRun
	err := row.Scan(&run.ID, &run.UserID, &run.CreatedAt,
		&run.ManifestRecords, &run.MonitoringRecords, &run.Summaries, &run.MismatchCount)
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// GetMismatchesByRun returns the stored mismatch rows of one run in insert
// order.
func GetMismatchesByRun(db *sql.DB, userID int64, runID string) ([]models.ReconciliationRow, error) {
	rows, err := db.Query(`
	SELECT fund_name, share_class, security_id, kiid_url, fact_sheet_url, identifier,
		kiid_srri, latest_srri, week_of_change, date_of_change, fee_percent, fee_found, inception_date
	FROM mismatches
	WHERE user_id = ? AND run_id = ?
	ORDER BY id`, userID, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []models.ReconciliationRow
	for rows.Next() {
		var row models.ReconciliationRow
		var kiidSRRI, latestSRRI int
		var dateOfChange, inceptionDate string
		if err := rows.Scan(&row.FundName, &row.ShareClassLabel, &row.SecurityID, &row.KiidURL, &row.FactSheetURL,
			&row.Identifier, &kiidSRRI, &latestSRRI, &row.WeekOfChange, &dateOfChange,
			&row.FeePercent, &row.FeeFound, &inceptionDate); err != nil {
			return nil, err
		}
		row.KiidSRRI = models.RiskCategory(kiidSRRI)
		row.LatestSRRI = models.RiskCategory(latestSRRI)
		row.DateOfChange = loadedDate(dateOfChange)
		row.InceptionDate = loadedDate(inceptionDate)
		result = append(result, row)
	}
	return result, rows.Err()
}

func storedDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(runDateLayout)
}

func loadedDate(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(runDateLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
