package models

import "time"

// ProductStatus is the lifecycle state of a product submission.
type ProductStatus string

const (
	StatusDraft     ProductStatus = "draft"
	StatusSubmitted ProductStatus = "submitted"
	StatusCompleted ProductStatus = "completed"
)

// Product is one product submission moving through the intake workflow.
// Certifications is open-ended: any certification name may be flagged.
type Product struct {
	ID             string        `db:"id" json:"id"`
	UserID         *string       `db:"user_id" json:"userId,omitempty"`
	Name           string        `db:"name" json:"name"`
	Category       string        `db:"category" json:"category"`
	Audience       *string       `db:"audience" json:"audience,omitempty"`
	Description    *string       `db:"description" json:"description,omitempty"`
	Location       *string       `db:"location" json:"location,omitempty"`
	Certifications BoolMap       `db:"certifications" json:"certifications,omitempty"`
	BasicInfo      JSONMap       `db:"basic_info" json:"basicInfo,omitempty"`
	AIResponses    JSONMap       `db:"ai_responses" json:"aiResponses,omitempty"`
	Status         ProductStatus `db:"status" json:"status"`
	CreatedAt      time.Time     `db:"created_at" json:"createdAt"`
	UpdatedAt      time.Time     `db:"updated_at" json:"updatedAt"`
}
