// Package pdftext turns raw PDF bytes into per-page plain text.
//
// Two implementations exist on purpose. KIID issuers do not share a
// layout: the layout extractor recovers row/table structure better, the
// stream extractor is more robust against certain content-stream
// encodings. The extraction layer treats them as interchangeable text
// providers with different recall and falls from one to the other.
package pdftext

// Extractor extracts the plain text of every page of a PDF document. A
// page with no recoverable text layer yields an empty string for that
// page, not an error; an error means the document itself is unreadable.
type Extractor interface {
	PageTexts(data []byte) ([]string, error)
}
