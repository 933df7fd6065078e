package pdftext

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// layoutExtractor reads text row by row, preserving the horizontal
// grouping the document painted. This keeps the "Risk and Reward Profile"
// severity scale and the charges table in recognizable shape.
type layoutExtractor struct{}

func NewLayoutExtractor() Extractor {
	return &layoutExtractor{}
}

func (e *layoutExtractor) PageTexts(data []byte) ([]string, error) {
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
		rows, err := page.GetTextByRow()
		if err != nil {
			// Image-only or damaged page: contribute nothing, keep going.
			texts = append(texts, "")
			continue
		}
		var sb strings.Builder
		for _, row := range rows {
			for j, word := range row.Content {
				if j > 0 {
					sb.WriteString(" ")
				}
				sb.WriteString(word.S)
			}
			sb.WriteString("\n")
		}
		texts = append(texts, strings.TrimSpace(sb.String()))
	}
	return texts, nil
}
