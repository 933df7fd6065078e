// backend/src/parsers/monitoring/parser.go
package monitoring

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/username/srriwatch/backend/src/models"
	"github.com/username/srriwatch/backend/src/utils"
)

// Parser reads the SRRI monitoring workbook: two header rows (week tags,
// then column labels), data from the third row on.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

func (p *Parser) Parse(file io.Reader) ([]models.MonitoringRecord, error) {
	wb, err := excelize.OpenReader(file)
	if err != nil {
		return nil, fmt.Errorf("failed to open monitoring workbook: %w", err)
	}
	defer wb.Close()

	sheets := wb.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("monitoring workbook has no sheets")
	}
	rows, err := wb.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	if len(rows) < 2 {
		return nil, &models.SchemaError{
			Input:   "monitoring workbook",
			Missing: []string{colFund, colSubFund, colShareClass, colCurrency, colLastValidated, colWeekResults},
		}
	}

	headers := buildHeaders(rows[0], rows[1])
	schema, err := resolveSchema(headers)
	if err != nil {
		return nil, err
	}

	var records []models.MonitoringRecord
	for _, row := range rows[2:] {
		rec, ok := buildRecord(schema, row)
		if !ok {
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

// buildRecord maps one body row through the resolved schema. Rows whose
// share-class label yields no identifier cannot join anything and are
// dropped rather than failed.
func buildRecord(s *sheetSchema, row []string) (models.MonitoringRecord, bool) {
	shareClass := strings.TrimSpace(cell(row, s.shareClass))
	currency := strings.TrimSpace(cell(row, s.currency))
	identifier := utils.NormalizeIdentifier(shareClass, currency)
	if identifier == "" {
		return models.MonitoringRecord{}, false
	}

	weeks := make([]models.WeekObservation, 0, len(s.weeks))
	for _, wc := range s.weeks {
		obs := models.WeekObservation{
			Week: wc.week,
			SRRI: strings.TrimSpace(cell(row, wc.result)),
		}
		if wc.report >= 0 {
			obs.ReportDate = strings.TrimSpace(cell(row, wc.report))
		}
		weeks = append(weeks, obs)
	}

	return models.MonitoringRecord{
		Fund:            strings.TrimSpace(cell(row, s.fund)),
		SubFund:         strings.TrimSpace(cell(row, s.subFund)),
		ShareClassLabel: shareClass,
		Currency:        currency,
		Identifier:      identifier,
		LastValidated:   strings.TrimSpace(cell(row, s.lastValidated)),
		Weeks:           weeks,
	}, true
}
