package models

import "testing"

func TestReportAnalysis(t *testing.T) {
	r := &Report{ReportData: JSONMap{"analysis": "Good transparency overall"}}
	if got := r.Analysis(); got != "Good transparency overall" {
		t.Errorf("Analysis() = %q", got)
	}

	empty := &Report{}
	if got := empty.Analysis(); got != "" {
		t.Errorf("Analysis() on empty report = %q", got)
	}
}

func TestReportRecommendations(t *testing.T) {
	// Fresh in-memory reports carry []string; reports loaded back from the
	// database carry []interface{} after the jsonb round-trip.
	fresh := &Report{ReportData: JSONMap{"recommendations": []string{"a", "b"}}}
	if got := fresh.Recommendations(); len(got) != 2 || got[0] != "a" {
		t.Errorf("Recommendations() = %v", got)
	}

	loaded := &Report{ReportData: JSONMap{"recommendations": []interface{}{"a", "b"}}}
	if got := loaded.Recommendations(); len(got) != 2 || got[1] != "b" {
		t.Errorf("Recommendations() after round-trip = %v", got)
	}

	if got := (&Report{}).Recommendations(); got != nil {
		t.Errorf("Recommendations() on empty report = %v", got)
	}
}
