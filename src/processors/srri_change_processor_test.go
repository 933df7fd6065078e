package processors

import (
	"testing"
	"time"

	"github.com/username/srriwatch/backend/src/models"
)

func weekSeries(values ...string) []models.WeekObservation {
	dates := []string{"05/01/2024", "12/01/2024", "19/01/2024", "26/01/2024"}
	weeks := make([]models.WeekObservation, len(values))
	for i, v := range values {
		weeks[i] = models.WeekObservation{
			Week:       "Week " + string(rune('1'+i)),
			SRRI:       v,
			ReportDate: dates[i%len(dates)],
		}
	}
	return weeks
}

func TestProcessDetectsChange(t *testing.T) {
	records := []models.MonitoringRecord{
		{
			Fund:            "Global Fund",
			ShareClassLabel: "Class A Acc",
			Currency:        "GBP",
			Identifier:      "aaccgbp",
			LastValidated:   "01/02/2024",
			Weeks:           weekSeries("3", "3", "3", "4"),
		},
	}

	got := NewSRRIChangeProcessor().Process(records)
	if len(got) != 1 {
		t.Fatalf("want 1 summary, got %d", len(got))
	}
	s := got[0]
	if s.LatestSRRI != 4 {
		t.Errorf("LatestSRRI = %d, want 4", s.LatestSRRI)
	}
	if s.PreviousSRRI != 3 {
		t.Errorf("PreviousSRRI = %d, want 3", s.PreviousSRRI)
	}
	if s.Stable {
		t.Error("row with a moved value must not be stable")
	}
	if s.WeekOfChange != "Week 4" {
		t.Errorf("WeekOfChange = %q, want \"Week 4\"", s.WeekOfChange)
	}
	wantDate := time.Date(2024, 1, 26, 0, 0, 0, 0, time.UTC)
	if !s.DateOfChange.Equal(wantDate) {
		t.Errorf("DateOfChange = %v, want %v", s.DateOfChange, wantDate)
	}
}

// A row whose value never moved is dropped entirely; so is a row with no
// observed values at all.
func TestProcessDropsStableRows(t *testing.T) {
	records := []models.MonitoringRecord{
		{Identifier: "stable", Weeks: weekSeries("3", "3", "3", "3")},
		{Identifier: "empty", Weeks: weekSeries("", "", "", "")},
		{Identifier: "moved", LastValidated: "01/02/2024", Weeks: weekSeries("3", "3", "4", "4")},
	}

	got := NewSRRIChangeProcessor().Process(records)
	if len(got) != 1 {
		t.Fatalf("want 1 summary, got %d", len(got))
	}
	if got[0].Identifier != "moved" {
		t.Errorf("surviving identifier = %q, want \"moved\"", got[0].Identifier)
	}
}

// Absent weeks are skipped, not treated as values: [3, _, 4, _] changes at
// the week of the 4.
func TestProcessSkipsAbsentWeeks(t *testing.T) {
	records := []models.MonitoringRecord{
		{Identifier: "gappy", LastValidated: "01/02/2024", Weeks: weekSeries("3", "", "4", "")},
	}

	got := NewSRRIChangeProcessor().Process(records)
	if len(got) != 1 {
		t.Fatalf("want 1 summary, got %d", len(got))
	}
	if got[0].LatestSRRI != 4 || got[0].PreviousSRRI != 3 {
		t.Errorf("latest/previous = %d/%d, want 4/3", got[0].LatestSRRI, got[0].PreviousSRRI)
	}
	if got[0].WeekOfChange != "Week 3" {
		t.Errorf("WeekOfChange = %q, want \"Week 3\"", got[0].WeekOfChange)
	}
}

// The previous value is the nearest earlier value that differs from the
// latest, not simply the second-to-last observation.
func TestProcessPreviousSkipsEqualRuns(t *testing.T) {
	records := []models.MonitoringRecord{
		{Identifier: "runs", LastValidated: "01/02/2024", Weeks: weekSeries("2", "5", "5", "5")},
	}

	got := NewSRRIChangeProcessor().Process(records)
	if len(got) != 1 {
		t.Fatalf("want 1 summary, got %d", len(got))
	}
	if got[0].PreviousSRRI != 2 {
		t.Errorf("PreviousSRRI = %d, want 2", got[0].PreviousSRRI)
	}
	if got[0].WeekOfChange != "Week 2" {
		t.Errorf("WeekOfChange = %q, want \"Week 2\"", got[0].WeekOfChange)
	}
}

// Duplicate identifiers resolve to the most recently validated record.
func TestProcessDeduplicatesByValidationDate(t *testing.T) {
	records := []models.MonitoringRecord{
		{Identifier: "dup", LastValidated: "01/01/2024", Weeks: weekSeries("3", "4")},
		{Identifier: "dup", LastValidated: "01/03/2024", Weeks: weekSeries("3", "5")},
	}

	got := NewSRRIChangeProcessor().Process(records)
	if len(got) != 1 {
		t.Fatalf("want 1 summary, got %d", len(got))
	}
	if got[0].LatestSRRI != 5 {
		t.Errorf("LatestSRRI = %d, want 5 (the March record)", got[0].LatestSRRI)
	}
	wantDate := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	if !got[0].LastValidated.Equal(wantDate) {
		t.Errorf("LastValidated = %v, want %v", got[0].LastValidated, wantDate)
	}
}
