// backend/src/services/report.go
package services

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/username/srriwatch/backend/src/models"
	"github.com/username/srriwatch/backend/src/security/validation"
)

var reportHeader = []string{
	"fund_name", "share_class", "security_id", "identifier",
	"kiid_srri", "latest_srri", "week_of_change", "date_of_change",
	"ongoing_charge_pct", "inception_date", "kiid_url", "fact_sheet_url",
}

// RenderReportCSV writes the mismatch rows as a CSV report. Cell values are
// sanitized so a spreadsheet opening the file cannot be tricked into
// evaluating fund names as formulas.
func RenderReportCSV(w io.Writer, rows []models.ReconciliationRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(reportHeader); err != nil {
		return fmt.Errorf("writing report header: %w", err)
	}
	for _, row := range rows {
		fee := ""
		if row.FeeFound {
			fee = strconv.FormatFloat(row.FeePercent, 'f', -1, 64)
		}
		record := []string{
			row.FundName,
			row.ShareClassLabel,
			row.SecurityID,
			row.Identifier,
			row.KiidSRRI.String(),
			row.LatestSRRI.String(),
			row.WeekOfChange,
			formatReportDate(row.DateOfChange),
			fee,
			formatReportDate(row.InceptionDate),
			row.KiidURL,
			row.FactSheetURL,
		}
		for i, cell := range record {
			record[i] = validation.SanitizeForFormulaInjection(cell)
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing report row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatReportDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}
