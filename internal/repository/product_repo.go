package repository

import (
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/altibbe/transparency-api/internal/models"
)

// ProductRepository handles data access for product submissions. Every method
// takes the caller's user id so a real identity can replace the demo user
// without changing the contract.
type ProductRepository struct {
	db *sqlx.DB
}

// NewProductRepository creates a new ProductRepository.
func NewProductRepository(db *sqlx.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// GetByID returns a single product owned by the given user.
func (r *ProductRepository) GetByID(id, userID string) (*models.Product, error) {
	const q = `SELECT * FROM products WHERE id = $1 AND user_id = $2 LIMIT 1`
	var p models.Product
	if err := r.db.Get(&p, q, id, userID); err != nil {
		return nil, err
	}
	return &p, nil
}

// ListByUser returns all products owned by the given user, newest first.
func (r *ProductRepository) ListByUser(userID string) ([]models.Product, error) {
	const q = `SELECT * FROM products WHERE user_id = $1 ORDER BY created_at DESC`
	var products []models.Product
	if err := r.db.Select(&products, q, userID); err != nil {
		return nil, err
	}
	return products, nil
}

// Create inserts a new product. The server assigns the id and timestamps.
func (r *ProductRepository) Create(p *models.Product) error {
	const q = `INSERT INTO products
               (user_id, name, category, audience, description, location, certifications, basic_info, ai_responses, status)
               VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
               RETURNING id, created_at, updated_at`
	return r.db.QueryRowx(q,
		p.UserID,
		p.Name,
		p.Category,
		p.Audience,
		p.Description,
		p.Location,
		p.Certifications,
		p.BasicInfo,
		p.AIResponses,
		p.Status,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

// ProductUpdate carries the fields of a partial product update. Nil fields
// are left untouched.
type ProductUpdate struct {
	Name           *string               `json:"name"`
	Category       *string               `json:"category"`
	Audience       *string               `json:"audience"`
	Description    *string               `json:"description"`
	Location       *string               `json:"location"`
	Certifications models.BoolMap        `json:"certifications"`
	BasicInfo      models.JSONMap        `json:"basicInfo"`
	AIResponses    models.JSONMap        `json:"aiResponses"`
	Status         *models.ProductStatus `json:"status"`
}

// UpdatePartial merges the non-nil fields of the update into the product and
// refreshes updated_at. Returns the updated row.
func (r *ProductRepository) UpdatePartial(id, userID string, upd *ProductUpdate) (*models.Product, error) {
	sets := []string{"updated_at = NOW()"}
	args := []interface{}{}
	argIdx := 1

	addSet := func(column string, value interface{}) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, argIdx))
		args = append(args, value)
		argIdx++
	}

	if upd.Name != nil {
		addSet("name", *upd.Name)
	}
	if upd.Category != nil {
		addSet("category", *upd.Category)
	}
	if upd.Audience != nil {
		addSet("audience", *upd.Audience)
	}
	if upd.Description != nil {
		addSet("description", *upd.Description)
	}
	if upd.Location != nil {
		addSet("location", *upd.Location)
	}
	if upd.Certifications != nil {
		addSet("certifications", upd.Certifications)
	}
	if upd.BasicInfo != nil {
		addSet("basic_info", upd.BasicInfo)
	}
	if upd.AIResponses != nil {
		addSet("ai_responses", upd.AIResponses)
	}
	if upd.Status != nil {
		addSet("status", *upd.Status)
	}

	q := fmt.Sprintf(`UPDATE products SET %s WHERE id = $%d AND user_id = $%d RETURNING *`,
		strings.Join(sets, ", "), argIdx, argIdx+1)
	args = append(args, id, userID)

	var p models.Product
	if err := r.db.Get(&p, q, args...); err != nil {
		return nil, err
	}
	return &p, nil
}

// SetStatus updates only the lifecycle status of a product.
func (r *ProductRepository) SetStatus(id, userID string, status models.ProductStatus) error {
	const q = `UPDATE products SET status = $3, updated_at = NOW() WHERE id = $1 AND user_id = $2`
	_, err := r.db.Exec(q, id, userID, status)
	return err
}

// Delete removes a product; questions and reports cascade with it.
func (r *ProductRepository) Delete(id, userID string) error {
	const q = `DELETE FROM products WHERE id = $1 AND user_id = $2`
	_, err := r.db.Exec(q, id, userID)
	return err
}
