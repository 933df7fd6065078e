// backend/src/parsers/manifest/parser.go
package manifest

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/username/srriwatch/backend/src/models"
	"github.com/username/srriwatch/backend/src/security/validation"
	"github.com/username/srriwatch/backend/src/utils"
)

// The manifest is the permalink catalog: one comma-delimited line per
// document, most of them for other funds, markets or languages. A line
// qualifies only when it names the right document type in English for a UK
// retail or professional audience; everything else is silently dropped.

const (
	kiidTypeToken       = "UCITS KIID"
	factSheetTypeToken  = "Fact Sheet"
	englishToken        = "English"
	ukRetailToken       = "UK Retail Investor"
	ukProfessionalToken = "UK Professional Investor"
)

var (
	kiidURLRe      = regexp.MustCompile(`https?://\S+?KIID\.pdf`)
	factSheetURLRe = regexp.MustCompile(`https?://\S+?FactSheet\.pdf`)

	// 12-char security code: two-letter country prefix, ten alphanumerics.
	securityIDRe       = regexp.MustCompile(`\b[A-Z]{2}[0-9A-Z]{10}\b`)
	securityIDPrefixRe = regexp.MustCompile(`^[A-Z]{2}[0-9A-Z]{10}`)
)

type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

// Parse scans the manifest, extracts the qualifying KIID and Fact-Sheet
// lines, left-joins Fact Sheets onto KIID records by security ID and keeps
// the first record per normalized identifier.
func (p *Parser) Parse(file io.Reader) ([]models.ShareClassRecord, error) {
	kiidRecords, factSheetURLs, err := p.scan(file)
	if err != nil {
		return nil, err
	}

	var (
		records []models.ShareClassRecord
		seen    = make(map[string]bool)
	)
	for _, rec := range kiidRecords {
		identifier := utils.NormalizeIdentifier(rec.ShareClassLabel, "")
		if identifier == "" {
			continue
		}
		if seen[identifier] {
			continue
		}
		seen[identifier] = true

		records = append(records, models.ShareClassRecord{
			FundName:        rec.FundName,
			ShareClassLabel: rec.ShareClassLabel,
			SecurityID:      rec.SecurityID,
			KiidURL:         rec.DocumentURL,
			FactSheetURL:    factSheetURLs[rec.SecurityID],
			Identifier:      identifier,
		})
	}
	return records, nil
}

// scan does the single pass over the manifest lines.
func (p *Parser) scan(file io.Reader) ([]models.DisclosureRecord, map[string]string, error) {
	var kiidRecords []models.DisclosureRecord
	factSheetURLs := make(map[string]string)

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		// Exports arrive with BOMs and stray control characters.
		line := strings.TrimSpace(validation.StripUnprintable(scanner.Text()))

		switch {
		case qualifies(line, kiidTypeToken, "KIID.pdf"):
			if rec, ok := parseKiidLine(line); ok {
				kiidRecords = append(kiidRecords, rec)
			}
		case qualifies(line, factSheetTypeToken, "FactSheet.pdf"):
			id := securityIDRe.FindString(line)
			if id == "" {
				continue
			}
			// First occurrence per security ID wins.
			if _, dup := factSheetURLs[id]; !dup {
				factSheetURLs[id] = factSheetURLRe.FindString(line)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("reading manifest: %w", err)
	}
	return kiidRecords, factSheetURLs, nil
}

// qualifies applies the locale/audience/document filters.
func qualifies(line, typeToken, fileName string) bool {
	return strings.Contains(line, typeToken) &&
		strings.Contains(line, fileName) &&
		strings.Contains(line, englishToken) &&
		(strings.Contains(line, ukRetailToken) || strings.Contains(line, ukProfessionalToken))
}

// parseKiidLine reads the positional fields out of a qualifying KIID line.
// The line is quoted as a whole, then comma-fragmented: fund name sits in
// the second field, the share-class label in the third. A label containing
// a comma pushes the security ID into the fifth field, in which case the
// third and fourth fields are both label.
func parseKiidLine(line string) (models.DisclosureRecord, bool) {
	securityID := securityIDRe.FindString(line)
	if securityID == "" {
		return models.DisclosureRecord{}, false
	}

	fields := strings.Split(strings.Trim(line, `"`), ",")
	if len(fields) < 4 {
		return models.DisclosureRecord{}, false
	}
	fundName := strings.TrimSpace(fields[1])
	third := strings.TrimSpace(fields[2])
	fourth := strings.TrimSpace(fields[3])

	label := third
	if !securityIDPrefixRe.MatchString(fourth) {
		label = third + " - " + fourth
	}

	return models.DisclosureRecord{
		FundName:        fundName,
		ShareClassLabel: label,
		SecurityID:      securityID,
		DocumentURL:     kiidURLRe.FindString(line),
	}, true
}
