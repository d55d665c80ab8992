package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/altibbe/transparency-api/internal/service"
	"github.com/altibbe/transparency-api/internal/utils"
)

// QuestionHandler handles question generation and answers.
type QuestionHandler struct {
	questionService *service.QuestionService
}

// NewQuestionHandler constructs a QuestionHandler.
func NewQuestionHandler(questionService *service.QuestionService) *QuestionHandler {
	return &QuestionHandler{questionService: questionService}
}

type generateQuestionsRequest struct {
	Step int `json:"step"`
}

// GenerateQuestions asks the AI for follow-up questions about a product and
// persists the batch. An upstream failure leaves no partial batch behind.
func (h *QuestionHandler) GenerateQuestions(c *gin.Context) {
	var req generateQuestionsRequest
	// step defaults to 1 when the body is empty or omits it
	_ = c.ShouldBindJSON(&req)
	if req.Step < 1 {
		req.Step = 1
	}

	questions, err := h.questionService.GenerateForProduct(c.Request.Context(), c.Param("id"), callerID(c), req.Step)
	if err != nil {
		if errors.Is(err, utils.ErrProductNotFound) {
			utils.Error(c, 404, "PRODUCT_NOT_FOUND", "Product not found")
			return
		}
		if errors.Is(err, utils.ErrGenerationFailed) {
			utils.Error(c, 500, "GENERATION_FAILED", err.Error())
			return
		}
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to generate questions")
		return
	}

	utils.Success(c, 200, "Questions generated successfully", questions)
}

// ListQuestions returns all questions for a product, ordered by step.
func (h *QuestionHandler) ListQuestions(c *gin.Context) {
	questions, err := h.questionService.ListForProduct(c.Param("id"), callerID(c))
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to fetch questions")
		return
	}

	utils.Success(c, 200, "Questions retrieved successfully", questions)
}

type responseRequest struct {
	Response *string `json:"response"`
}

// RecordResponse stores the user's answer to one question.
func (h *QuestionHandler) RecordResponse(c *gin.Context) {
	var req responseRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Response == nil {
		utils.Error(c, 400, "VALIDATION_ERROR", "Response is required")
		return
	}

	question, err := h.questionService.RecordResponse(c.Param("id"), callerID(c), *req.Response)
	if err != nil {
		if errors.Is(err, utils.ErrQuestionNotFound) {
			utils.Error(c, 404, "QUESTION_NOT_FOUND", "Question not found")
			return
		}
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to record response")
		return
	}

	utils.Success(c, 200, "Response recorded successfully", question)
}
