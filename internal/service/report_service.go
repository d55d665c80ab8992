package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/altibbe/transparency-api/internal/cache"
	"github.com/altibbe/transparency-api/internal/models"
	"github.com/altibbe/transparency-api/internal/render"
	"github.com/altibbe/transparency-api/internal/repository"
	"github.com/altibbe/transparency-api/internal/utils"
)

// ReportService orchestrates scoring, report persistence and document
// rendering.
type ReportService struct {
	productRepo  *repository.ProductRepository
	questionRepo *repository.QuestionRepository
	reportRepo   *repository.ReportRepository
	scoring      *ScoringService
	docCache     *cache.DocumentCache
	archive      *ArchiveService
}

// NewReportService constructs a ReportService.
func NewReportService(
	productRepo *repository.ProductRepository,
	questionRepo *repository.QuestionRepository,
	reportRepo *repository.ReportRepository,
	scoring *ScoringService,
	docCache *cache.DocumentCache,
	archive *ArchiveService,
) *ReportService {
	return &ReportService{
		productRepo:  productRepo,
		questionRepo: questionRepo,
		reportRepo:   reportRepo,
		scoring:      scoring,
		docCache:     docCache,
		archive:      archive,
	}
}

// Generate scores the product's submission and persists a new report. On
// success the product's lifecycle status becomes "completed". Existing
// reports are never touched; each call creates a fresh one.
func (s *ReportService) Generate(ctx context.Context, productID, userID string) (*models.Report, error) {
	product, err := s.productRepo.GetByID(productID, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, utils.ErrProductNotFound
		}
		return nil, err
	}

	questions, err := s.questionRepo.ListByProduct(productID, userID)
	if err != nil {
		return nil, err
	}

	// Only answered questions are sent to the scorer; unanswered ones are
	// omitted entirely rather than passed as empty values.
	responses := make(map[string]string)
	for _, q := range questions {
		if q.Response != nil && *q.Response != "" {
			responses[q.QuestionText] = *q.Response
		}
	}

	productData := map[string]interface{}{
		"name":           product.Name,
		"category":       product.Category,
		"description":    product.Description,
		"certifications": product.Certifications,
	}
	for k, v := range product.BasicInfo {
		productData[k] = v
	}

	result, err := s.scoring.Score(ctx, productData, responses)
	if err != nil {
		return nil, err
	}

	report := &models.Report{
		ProductID:         productID,
		TransparencyScore: result.TransparencyScore,
		HealthScore:       result.HealthScore,
		Highlights:        models.StringList(result.Highlights),
		ReportData: models.JSONMap{
			"analysis":          result.Analysis,
			"questionResponses": responses,
			"recommendations":   result.Recommendations,
		},
	}
	if err := s.reportRepo.Create(report); err != nil {
		return nil, err
	}

	if err := s.productRepo.SetStatus(productID, userID, models.StatusCompleted); err != nil {
		return nil, err
	}

	// Archive the rendered document when storage is configured. Failure here
	// never fails report generation; pdf_url just stays null.
	if s.archive != nil && s.archive.Enabled() {
		if doc, err := render.Document(render.Data{
			Product:   *product,
			Report:    *report,
			Questions: questionPairs(questions),
		}); err == nil {
			if url, err := s.archive.StoreReport(ctx, report.ID, doc); err == nil {
				if err := s.reportRepo.SetPDFURL(report.ID, url); err == nil {
					report.PDFURL = &url
				}
			} else {
				log.Warn().Err(err).Str("report_id", report.ID).Msg("report archive skipped")
			}
		}
	}

	log.Info().
		Str("product_id", productID).
		Str("report_id", report.ID).
		Int("transparency_score", report.TransparencyScore).
		Str("health_score", report.HealthScore).
		Msg("report generated")

	return report, nil
}

// List returns all reports for a product, newest first.
func (s *ReportService) List(productID, userID string) ([]models.Report, error) {
	return s.reportRepo.ListByProduct(productID, userID)
}

// Document renders the downloadable document for a report, serving from the
// cache when possible. Returns the attachment filename alongside the bytes.
func (s *ReportService) Document(ctx context.Context, reportID, userID string) (string, []byte, error) {
	report, err := s.reportRepo.GetByID(reportID, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", nil, utils.ErrReportNotFound
		}
		return "", nil, err
	}

	product, err := s.productRepo.GetByID(report.ProductID, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", nil, utils.ErrProductNotFound
		}
		return "", nil, err
	}

	filename := fmt.Sprintf("%s-transparency-report.pdf", product.Name)

	if doc := s.docCache.Get(ctx, reportID); doc != nil {
		return filename, doc, nil
	}

	questions, err := s.questionRepo.ListByProduct(report.ProductID, userID)
	if err != nil {
		return "", nil, err
	}

	doc, err := render.Document(render.Data{
		Product:   *product,
		Report:    *report,
		Questions: questionPairs(questions),
	})
	if err != nil {
		return "", nil, err
	}

	s.docCache.Set(ctx, reportID, doc)
	return filename, doc, nil
}

// SampleDocument renders the fixed demonstration report with no persistence.
func (s *ReportService) SampleDocument() ([]byte, error) {
	return render.Document(render.SampleData())
}

func questionPairs(questions []models.Question) []render.QA {
	pairs := make([]render.QA, 0, len(questions))
	for _, q := range questions {
		response := ""
		if q.Response != nil {
			response = *q.Response
		}
		pairs = append(pairs, render.QA{QuestionText: q.QuestionText, Response: response})
	}
	return pairs
}
