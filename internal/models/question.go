package models

import "time"

// QuestionType tags how a question is answered.
type QuestionType string

const (
	QuestionText     QuestionType = "text"
	QuestionSelect   QuestionType = "select"
	QuestionRange    QuestionType = "range"
	QuestionCheckbox QuestionType = "checkbox"
)

// Question origins.
const (
	GeneratedByAI     = "ai"
	GeneratedBySystem = "system"
)

// Question is one follow-up question attached to a product. Options is set
// only for select questions. Response stays nil until the user answers.
type Question struct {
	ID           string       `db:"id" json:"id"`
	ProductID    string       `db:"product_id" json:"productId"`
	QuestionText string       `db:"question_text" json:"questionText"`
	QuestionType QuestionType `db:"question_type" json:"questionType"`
	Options      StringList   `db:"options" json:"options,omitempty"`
	Response     *string      `db:"response" json:"response,omitempty"`
	Step         int          `db:"step" json:"step"`
	GeneratedBy  string       `db:"generated_by" json:"generatedBy"`
	CreatedAt    time.Time    `db:"created_at" json:"createdAt"`
}

// ValidType reports whether t is one of the supported question types.
func ValidType(t QuestionType) bool {
	switch t {
	case QuestionText, QuestionSelect, QuestionRange, QuestionCheckbox:
		return true
	}
	return false
}
