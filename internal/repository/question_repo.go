package repository

import (
	"github.com/jmoiron/sqlx"

	"github.com/altibbe/transparency-api/internal/models"
)

// QuestionRepository handles data access for follow-up questions. Ownership
// is enforced through the parent product on every call.
type QuestionRepository struct {
	db *sqlx.DB
}

// NewQuestionRepository creates a new QuestionRepository.
func NewQuestionRepository(db *sqlx.DB) *QuestionRepository {
	return &QuestionRepository{db: db}
}

// ListByProduct returns all questions for a product ordered by step. Step
// numbers repeat across a step's batch, so creation order breaks ties.
func (r *QuestionRepository) ListByProduct(productID, userID string) ([]models.Question, error) {
	const q = `
        SELECT aq.* FROM ai_questions aq
        JOIN products p ON p.id = aq.product_id
        WHERE aq.product_id = $1 AND p.user_id = $2
        ORDER BY aq.step ASC, aq.created_at ASC`
	var questions []models.Question
	if err := r.db.Select(&questions, q, productID, userID); err != nil {
		return nil, err
	}
	return questions, nil
}

// GetByID returns a single question owned by the given user.
func (r *QuestionRepository) GetByID(id, userID string) (*models.Question, error) {
	const q = `
        SELECT aq.* FROM ai_questions aq
        JOIN products p ON p.id = aq.product_id
        WHERE aq.id = $1 AND p.user_id = $2
        LIMIT 1`
	var question models.Question
	if err := r.db.Get(&question, q, id, userID); err != nil {
		return nil, err
	}
	return &question, nil
}

// Create inserts a single question with response unset.
func (r *QuestionRepository) Create(q *models.Question) error {
	const query = `INSERT INTO ai_questions
                   (product_id, question_text, question_type, options, response, step, generated_by)
                   VALUES ($1, $2, $3, $4, $5, $6, $7)
                   RETURNING id, created_at`
	return r.db.QueryRowx(query,
		q.ProductID,
		q.QuestionText,
		q.QuestionType,
		q.Options,
		q.Response,
		q.Step,
		q.GeneratedBy,
	).Scan(&q.ID, &q.CreatedAt)
}

// CreateBatch inserts a batch of generated questions inside one transaction,
// so either the whole batch is persisted or none of it is.
func (r *QuestionRepository) CreateBatch(questions []*models.Question) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}

	const query = `INSERT INTO ai_questions
                   (product_id, question_text, question_type, options, response, step, generated_by)
                   VALUES ($1, $2, $3, $4, $5, $6, $7)
                   RETURNING id, created_at`
	for _, q := range questions {
		if err := tx.QueryRowx(query,
			q.ProductID,
			q.QuestionText,
			q.QuestionType,
			q.Options,
			q.Response,
			q.Step,
			q.GeneratedBy,
		).Scan(&q.ID, &q.CreatedAt); err != nil {
			_ = tx.Rollback()
			return err
		}
	}

	return tx.Commit()
}

// UpdateResponse records the user's answer on a question and returns the
// updated row.
func (r *QuestionRepository) UpdateResponse(id, userID, response string) (*models.Question, error) {
	const q = `
        UPDATE ai_questions SET response = $3
        WHERE id = $1
          AND product_id IN (SELECT id FROM products WHERE user_id = $2)
        RETURNING *`
	var question models.Question
	if err := r.db.Get(&question, q, id, userID, response); err != nil {
		return nil, err
	}
	return &question, nil
}
