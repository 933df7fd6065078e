package processors

import (
	"sort"

	"github.com/username/srriwatch/backend/src/models"
	"github.com/username/srriwatch/backend/src/utils"
)

// srriChangeProcessor implements the ChangeProcessor interface.
type srriChangeProcessor struct{}

func NewSRRIChangeProcessor() ChangeProcessor {
	return &srriChangeProcessor{}
}

// Process derives the change summary for every monitoring record, drops
// the stable rows, then resolves duplicate identifiers by keeping the most
// recently validated record.
func (p *srriChangeProcessor) Process(records []models.MonitoringRecord) []models.MonitoringSummary {
	var summaries []models.MonitoringSummary
	for _, rec := range records {
		s := summarize(rec)
		if s.Stable {
			continue
		}
		summaries = append(summaries, s)
	}

	// Most recently validated first; unparseable dates sink to the end.
	// The stable sort keeps file order inside equal dates so the dedup
	// below stays deterministic.
	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].LastValidated.After(summaries[j].LastValidated)
	})

	seen := make(map[string]bool)
	deduped := summaries[:0]
	for _, s := range summaries {
		if seen[s.Identifier] {
			continue
		}
		seen[s.Identifier] = true
		deduped = append(deduped, s)
	}
	return deduped
}

// summarize runs the change detection over one record's week series.
//
// The latest value is the last non-absent one in file order; the previous
// value is the nearest earlier value that differs from it (the latest
// itself when nothing differs). Scanning backward from the end, the first
// column whose value differs from the latest marks where the run of latest
// values begins: the change happened at the column after it, and that
// column's report date supplies the change date.
func summarize(rec models.MonitoringRecord) models.MonitoringSummary {
	s := models.MonitoringSummary{
		Fund:            rec.Fund,
		SubFund:         rec.SubFund,
		ShareClassLabel: rec.ShareClassLabel,
		Currency:        rec.Currency,
		Identifier:      rec.Identifier,
	}
	if t, ok := utils.ParseDayFirstDate(rec.LastValidated); ok {
		s.LastValidated = t
	}

	// Collect the non-absent values, remembering which observation each
	// came from.
	var (
		values []string
		obsIdx []int
	)
	for i, obs := range rec.Weeks {
		if obs.SRRI == "" {
			continue
		}
		values = append(values, obs.SRRI)
		obsIdx = append(obsIdx, i)
	}

	s.Stable = true
	for _, v := range values {
		if v != values[0] {
			s.Stable = false
			break
		}
	}
	if len(values) == 0 {
		// No observed values at all: vacuously stable, nothing to report.
		return s
	}

	latest := values[len(values)-1]
	s.LatestSRRI = models.ParseRiskCategory(latest)
	s.PreviousSRRI = s.LatestSRRI
	for i := len(values) - 2; i >= 0; i-- {
		if values[i] != latest {
			s.PreviousSRRI = models.ParseRiskCategory(values[i])
			break
		}
	}

	for i := len(values) - 2; i >= 0; i-- {
		if values[i] != latest {
			changed := rec.Weeks[obsIdx[i+1]]
			s.WeekOfChange = changed.Week
			if t, ok := utils.ParseDayFirstDate(changed.ReportDate); ok {
				s.DateOfChange = t
			}
			break
		}
	}
	return s
}
