package pdftext

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/dslipak/pdf"
)

// streamExtractor reads each page's content stream as one run of text.
// It loses table structure but copes with encodings the row-based reader
// trips over.
type streamExtractor struct{}

func NewStreamExtractor() Extractor {
	return &streamExtractor{}
}

func (e *streamExtractor) PageTexts(data []byte) ([]string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}

	texts := make([]string, 0, reader.NumPage())
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			texts = append(texts, "")
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			texts = append(texts, "")
			continue
		}
		texts = append(texts, strings.TrimSpace(text))
	}
	return texts, nil
}
