package repository

import (
	"github.com/jmoiron/sqlx"

	"github.com/altibbe/transparency-api/internal/models"
)

// ReportRepository handles data access for reports. Reports are immutable
// once created; only the archive URL may be filled in afterwards.
type ReportRepository struct {
	db *sqlx.DB
}

// NewReportRepository creates a new ReportRepository.
func NewReportRepository(db *sqlx.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// GetByID returns a single report owned by the given user.
func (r *ReportRepository) GetByID(id, userID string) (*models.Report, error) {
	const q = `
        SELECT rp.* FROM reports rp
        JOIN products p ON p.id = rp.product_id
        WHERE rp.id = $1 AND p.user_id = $2
        LIMIT 1`
	var report models.Report
	if err := r.db.Get(&report, q, id, userID); err != nil {
		return nil, err
	}
	return &report, nil
}

// ListByProduct returns all reports for a product, newest first.
func (r *ReportRepository) ListByProduct(productID, userID string) ([]models.Report, error) {
	const q = `
        SELECT rp.* FROM reports rp
        JOIN products p ON p.id = rp.product_id
        WHERE rp.product_id = $1 AND p.user_id = $2
        ORDER BY rp.generated_at DESC`
	var reports []models.Report
	if err := r.db.Select(&reports, q, productID, userID); err != nil {
		return nil, err
	}
	return reports, nil
}

// Create inserts a new report. The server assigns the id and generation time.
func (r *ReportRepository) Create(report *models.Report) error {
	const q = `INSERT INTO reports
               (product_id, transparency_score, health_score, highlights, pdf_url, report_data)
               VALUES ($1, $2, $3, $4, $5, $6)
               RETURNING id, generated_at`
	return r.db.QueryRowx(q,
		report.ProductID,
		report.TransparencyScore,
		report.HealthScore,
		report.Highlights,
		report.PDFURL,
		report.ReportData,
	).Scan(&report.ID, &report.GeneratedAt)
}

// SetPDFURL records the archive location of a rendered report document.
func (r *ReportRepository) SetPDFURL(id, url string) error {
	const q = `UPDATE reports SET pdf_url = $2 WHERE id = $1`
	_, err := r.db.Exec(q, id, url)
	return err
}
