package models

import "time"

// DocumentCategory identifies which disclosure document a manifest line
// points at.
type DocumentCategory string

const (
	DocumentKIID      DocumentCategory = "KIID"
	DocumentFactSheet DocumentCategory = "FACT_SHEET"
)

// DisclosureRecord is one qualifying manifest line: a share class and the
// URL of one of its disclosure documents. Identity is (SecurityID, category).
type DisclosureRecord struct {
	FundName        string `json:"fund_name"`
	ShareClassLabel string `json:"share_class"`
	SecurityID      string `json:"security_id"`
	DocumentURL     string `json:"document_url"`
}

// ShareClassRecord merges a KIID disclosure record with its matching
// Fact-Sheet record (same security ID). FactSheetURL is empty when no
// Fact-Sheet line existed for the security.
type ShareClassRecord struct {
	FundName        string `json:"fund_name"`
	ShareClassLabel string `json:"share_class"`
	SecurityID      string `json:"security_id"`
	KiidURL         string `json:"kiid_url"`
	FactSheetURL    string `json:"fact_sheet_url"`
	Identifier      string `json:"identifier"`
}

// ExtractedFacts holds what could be read out of a share class's disclosure
// documents. Absence is a valid terminal state, not an error: RiskCategory
// zero, FeeFound false, and a zero InceptionDate all mean "the document did
// not yield this fact".
type ExtractedFacts struct {
	RiskCategory  RiskCategory `json:"risk_category"`
	FeePercent    float64      `json:"fee_percent"`
	FeeFound      bool         `json:"fee_found"`
	InceptionDate time.Time    `json:"inception_date"`
}

// WeekObservation is one (week tag, SRRI value) pair of a monitoring row,
// in file order. ReportDate is the raw cell of the matching report-date
// column for the same week, empty when that column does not exist.
type WeekObservation struct {
	Week       string `json:"week"`
	SRRI       string `json:"srri"`
	ReportDate string `json:"report_date"`
}

// MonitoringRecord is one body row of the monitoring workbook. The week
// series preserves column order; week tags are never parsed for ordering.
type MonitoringRecord struct {
	Fund            string            `json:"fund"`
	SubFund         string            `json:"sub_fund"`
	ShareClassLabel string            `json:"share_class"`
	Currency        string            `json:"currency"`
	Identifier      string            `json:"identifier"`
	LastValidated   string            `json:"last_validated"`
	Weeks           []WeekObservation `json:"weeks"`
}

// MonitoringSummary is the reduced view of a MonitoringRecord: the latest
// risk category, the one before the last change, and when that change
// happened. Stable is true iff every non-absent weekly value is identical.
type MonitoringSummary struct {
	Fund            string       `json:"fund"`
	SubFund         string       `json:"sub_fund"`
	ShareClassLabel string       `json:"share_class"`
	Currency        string       `json:"currency"`
	Identifier      string       `json:"identifier"`
	LastValidated   time.Time    `json:"last_validated"`
	PreviousSRRI    RiskCategory `json:"previous_srri"`
	LatestSRRI      RiskCategory `json:"latest_srri"`
	WeekOfChange    string       `json:"week_of_change"`
	DateOfChange    time.Time    `json:"date_of_change"`
	Stable          bool         `json:"-"`
}

// ReconciliationRow is one reported mismatch: the monitored risk category
// disagrees with the one printed in the KIID.
type ReconciliationRow struct {
	FundName        string       `json:"fund_name"`
	ShareClassLabel string       `json:"share_class"`
	SecurityID      string       `json:"security_id"`
	KiidURL         string       `json:"kiid_url"`
	FactSheetURL    string       `json:"fact_sheet_url"`
	Identifier      string       `json:"identifier"`
	KiidSRRI        RiskCategory `json:"kiid_srri"`
	LatestSRRI      RiskCategory `json:"latest_srri"`
	WeekOfChange    string       `json:"week_of_change"`
	DateOfChange    time.Time    `json:"date_of_change"`
	FeePercent      float64      `json:"fee_percent"`
	FeeFound        bool         `json:"fee_found"`
	InceptionDate   time.Time    `json:"inception_date"`
}
