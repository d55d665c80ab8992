package handler

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/altibbe/transparency-api/internal/service"
	"github.com/altibbe/transparency-api/internal/utils"
)

// ReportHandler handles report generation and downloads.
type ReportHandler struct {
	reportService *service.ReportService
}

// NewReportHandler constructs a ReportHandler.
func NewReportHandler(reportService *service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// GenerateReport scores the submission and creates a new report record. The
// product moves to "completed" on success.
func (h *ReportHandler) GenerateReport(c *gin.Context) {
	report, err := h.reportService.Generate(c.Request.Context(), c.Param("id"), callerID(c))
	if err != nil {
		if errors.Is(err, utils.ErrProductNotFound) {
			utils.Error(c, 404, "PRODUCT_NOT_FOUND", "Product not found")
			return
		}
		if errors.Is(err, utils.ErrScoringFailed) {
			utils.Error(c, 500, "SCORING_FAILED", err.Error())
			return
		}
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to generate report")
		return
	}

	utils.Success(c, 200, "Report generated successfully", report)
}

// ListReports returns all reports for a product, newest first.
func (h *ReportHandler) ListReports(c *gin.Context) {
	reports, err := h.reportService.List(c.Param("id"), callerID(c))
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to fetch reports")
		return
	}

	utils.Success(c, 200, "Reports retrieved successfully", reports)
}

// DownloadReport streams the rendered report document as an attachment.
func (h *ReportHandler) DownloadReport(c *gin.Context) {
	filename, doc, err := h.reportService.Document(c.Request.Context(), c.Param("id"), callerID(c))
	if err != nil {
		if errors.Is(err, utils.ErrReportNotFound) {
			utils.Error(c, 404, "REPORT_NOT_FOUND", "Report not found")
			return
		}
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to render report")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(200, "application/pdf", doc)
}

// SampleReport streams a fixed demonstration report. Nothing is persisted.
func (h *ReportHandler) SampleReport(c *gin.Context) {
	doc, err := h.reportService.SampleDocument()
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to render sample report")
		return
	}

	c.Header("Content-Disposition", `attachment; filename="sample-transparency-report.pdf"`)
	c.Data(200, "application/pdf", doc)
}
