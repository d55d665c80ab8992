package models

import "time"

// Report is the immutable outcome of one scoring run. A new submission
// produces a new report; existing reports are never mutated.
type Report struct {
	ID                string     `db:"id" json:"id"`
	ProductID         string     `db:"product_id" json:"productId"`
	TransparencyScore int        `db:"transparency_score" json:"transparencyScore"`
	HealthScore       string     `db:"health_score" json:"healthScore"`
	Highlights        StringList `db:"highlights" json:"highlights,omitempty"`
	PDFURL            *string    `db:"pdf_url" json:"pdfUrl,omitempty"`
	ReportData        JSONMap    `db:"report_data" json:"reportData,omitempty"`
	GeneratedAt       time.Time  `db:"generated_at" json:"generatedAt"`
}

// Analysis returns the free-text analysis stored in the nested report data,
// or empty when absent.
func (r *Report) Analysis() string {
	if r.ReportData == nil {
		return ""
	}
	if s, ok := r.ReportData["analysis"].(string); ok {
		return s
	}
	return ""
}

// Recommendations returns the recommendation list stored in the nested report
// data. jsonb round-trips land as []interface{}, so both shapes are handled.
func (r *Report) Recommendations() []string {
	if r.ReportData == nil {
		return nil
	}
	switch v := r.ReportData["recommendations"].(type) {
	case []string:
		return v
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}
