package processors

import (
	"fmt"

	"github.com/username/srriwatch/backend/src/models"
)

// reconciliationProcessor implements the ReconciliationProcessor interface.
type reconciliationProcessor struct{}

func NewReconciliationProcessor() ReconciliationProcessor {
	return &reconciliationProcessor{}
}

// Reconcile inner-joins the two sides on the normalized identifier and
// emits a row only where the monitored risk category and the one printed
// in the KIID disagree. Both sides are already in canonical integer form,
// so the comparison is exact equality. An absent extracted value against a
// present monitored one counts as a mismatch.
func (p *reconciliationProcessor) Reconcile(
	summaries []models.MonitoringSummary,
	classes []models.ShareClassRecord,
	facts []models.ExtractedFacts,
) ([]models.ReconciliationRow, error) {
	if len(classes) != len(facts) {
		return nil, fmt.Errorf("share classes and extracted facts are misaligned: %d vs %d", len(classes), len(facts))
	}

	byIdentifier := make(map[string]models.MonitoringSummary, len(summaries))
	for _, s := range summaries {
		if s.Identifier == "" {
			return nil, &models.SchemaError{Input: "monitoring summaries", Missing: []string{"Identifier"}}
		}
		byIdentifier[s.Identifier] = s
	}

	var rows []models.ReconciliationRow
	for i, class := range classes {
		if class.Identifier == "" {
			return nil, &models.SchemaError{Input: "share class records", Missing: []string{"Identifier"}}
		}
		summary, ok := byIdentifier[class.Identifier]
		if !ok {
			continue
		}
		fact := facts[i]
		if fact.RiskCategory == summary.LatestSRRI {
			continue
		}
		rows = append(rows, models.ReconciliationRow{
			FundName:        class.FundName,
			ShareClassLabel: class.ShareClassLabel,
			SecurityID:      class.SecurityID,
			KiidURL:         class.KiidURL,
			FactSheetURL:    class.FactSheetURL,
			Identifier:      class.Identifier,
			KiidSRRI:        fact.RiskCategory,
			LatestSRRI:      summary.LatestSRRI,
			WeekOfChange:    summary.WeekOfChange,
			DateOfChange:    summary.DateOfChange,
			FeePercent:      fact.FeePercent,
			FeeFound:        fact.FeeFound,
			InceptionDate:   fact.InceptionDate,
		})
	}
	return rows, nil
}
