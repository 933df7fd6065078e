package manifest

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/username/srriwatch/backend/src/models"
)

const sampleManifest = `"1001,Global Equity Fund,Class A Acc,IE00B1234567,UCITS KIID,English,UK Retail Investor,https://docs.example.com/id/aaa/KIID.pdf"
"1001,Global Equity Fund,Class A Acc,IE00B1234567,Fact Sheet,English,UK Retail Investor,https://docs.example.com/id/aaa/FactSheet.pdf"
"1002,Global Equity Fund,Class B GBP (Hedged),Accumulation,IE00B7654321,UCITS KIID,English,UK Professional Investor,https://docs.example.com/id/bbb/KIID.pdf"
"1003,Global Equity Fund,Klasse A Acc,IE00B9999990,UCITS KIID,German,DE Retail Investor,https://docs.example.com/id/ccc/KIID.pdf"
"1004,Global Equity Fund,Class C Inc,IE00B8888880,Fact Sheet,French,FR Retail Investor,https://docs.example.com/id/ddd/FactSheet.pdf"
`

func TestParse(t *testing.T) {
	p := NewParser()
	got, err := p.Parse(strings.NewReader(sampleManifest))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	want := []models.ShareClassRecord{
		{
			FundName:        "Global Equity Fund",
			ShareClassLabel: "Class A Acc",
			SecurityID:      "IE00B1234567",
			KiidURL:         "https://docs.example.com/id/aaa/KIID.pdf",
			FactSheetURL:    "https://docs.example.com/id/aaa/FactSheet.pdf",
			Identifier:      "aacc",
		},
		{
			FundName:        "Global Equity Fund",
			ShareClassLabel: "Class B GBP (Hedged) - Accumulation",
			SecurityID:      "IE00B7654321",
			KiidURL:         "https://docs.example.com/id/bbb/KIID.pdf",
			FactSheetURL:    "",
			Identifier:      "bgbphedgedaccmulationgbphedged",
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Parse mismatch (-want +got):\n%s", diff)
	}
}

// A line missing the language, audience or document-type marker yields no
// record at all.
func TestParseDropsNonQualifyingLines(t *testing.T) {
	lines := []string{
		`"1,Fund,Class A Acc,IE00B1111111,UCITS KIID,German,UK Retail Investor,https://x/KIID.pdf"`,
		`"1,Fund,Class A Acc,IE00B1111111,UCITS KIID,English,US Retail Investor,https://x/KIID.pdf"`,
		`"1,Fund,Class A Acc,IE00B1111111,Prospectus,English,UK Retail Investor,https://x/Prospectus.pdf"`,
		`"1,Fund"`,
	}
	p := NewParser()
	for _, line := range lines {
		got, err := p.Parse(strings.NewReader(line + "\n"))
		if err != nil {
			t.Fatalf("Parse: %v", err)
		}
		if len(got) != 0 {
			t.Errorf("line %q should yield no record, got %+v", line, got)
		}
	}
}

func TestParseRequiresSecurityID(t *testing.T) {
	line := `"1,Fund,Class A Acc,no id here,UCITS KIID,English,UK Retail Investor,https://x/KIID.pdf"`
	p := NewParser()
	got, err := p.Parse(strings.NewReader(line + "\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("line without a security ID should be dropped, got %+v", got)
	}
}

// Two KIID lines normalizing to the same identifier keep the first only.
func TestParseDeduplicatesByIdentifier(t *testing.T) {
	text := `"1,Fund,Class A Acc,IE00B1111111,UCITS KIID,English,UK Retail Investor,https://x/1/KIID.pdf"
"2,Fund,CLASS A ACC,IE00B2222222,UCITS KIID,English,UK Retail Investor,https://x/2/KIID.pdf"
`
	p := NewParser()
	got, err := p.Parse(strings.NewReader(text))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("want 1 record after identifier dedup, got %d", len(got))
	}
	if got[0].SecurityID != "IE00B1111111" {
		t.Errorf("first-seen record should survive, got %s", got[0].SecurityID)
	}
}

func TestParseToleratesBOM(t *testing.T) {
	text := "\uFEFF" + `"1,Fund,Class A Acc,IE00B1111111,UCITS KIID,English,UK Retail Investor,https://x/KIID.pdf"` + "\n"
	p := NewParser()
	got, err := p.Parse(strings.NewReader(text))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("want 1 record, got %d", len(got))
	}
}
