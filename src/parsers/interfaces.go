package parsers

import (
	"io"

	"github.com/username/srriwatch/backend/src/models"
)

// ManifestParser turns the raw document-link manifest into one joined
// record per share class. Non-qualifying and malformed lines are dropped,
// not failed; an error means the input itself could not be read.
type ManifestParser interface {
	Parse(file io.Reader) ([]models.ShareClassRecord, error)
}

// MonitoringParser turns the SRRI monitoring workbook into one record per
// body row, week series in column order. A workbook whose headers cannot
// satisfy the required schema fails with *models.SchemaError.
type MonitoringParser interface {
	Parse(file io.Reader) ([]models.MonitoringRecord, error)
}
