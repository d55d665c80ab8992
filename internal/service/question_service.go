package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/altibbe/transparency-api/internal/models"
	"github.com/altibbe/transparency-api/internal/utils"
	"github.com/altibbe/transparency-api/pkg/groq"
)

// ProductReader loads the product a generation run is about.
type ProductReader interface {
	GetByID(id, userID string) (*models.Product, error)
}

// QuestionStore persists generated questions and recorded answers.
type QuestionStore interface {
	ListByProduct(productID, userID string) ([]models.Question, error)
	CreateBatch(questions []*models.Question) error
	UpdateResponse(id, userID, response string) (*models.Question, error)
}

// QuestionService generates follow-up questions for a product submission and
// persists them.
type QuestionService struct {
	productRepo  ProductReader
	questionRepo QuestionStore
	groq         *groq.Client
}

// NewQuestionService constructs a QuestionService.
func NewQuestionService(productRepo ProductReader, questionRepo QuestionStore, groqClient *groq.Client) *QuestionService {
	return &QuestionService{
		productRepo:  productRepo,
		questionRepo: questionRepo,
		groq:         groqClient,
	}
}

// GenerateForProduct loads the product and its previously asked questions,
// then generates and persists a fresh batch for the given step.
func (s *QuestionService) GenerateForProduct(ctx context.Context, productID, userID string, step int) ([]models.Question, error) {
	product, err := s.productRepo.GetByID(productID, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, utils.ErrProductNotFound
		}
		return nil, err
	}

	existing, err := s.questionRepo.ListByProduct(productID, userID)
	if err != nil {
		return nil, err
	}
	previous := make([]string, 0, len(existing))
	for _, q := range existing {
		previous = append(previous, q.QuestionText)
	}

	return s.GenerateQuestions(ctx, product, previous, step)
}

// ListForProduct returns a product's questions ordered by step.
func (s *QuestionService) ListForProduct(productID, userID string) ([]models.Question, error) {
	return s.questionRepo.ListByProduct(productID, userID)
}

// RecordResponse stores the user's answer on a question.
func (s *QuestionService) RecordResponse(id, userID, response string) (*models.Question, error) {
	question, err := s.questionRepo.UpdateResponse(id, userID, response)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, utils.ErrQuestionNotFound
		}
		return nil, err
	}
	return question, nil
}

const questionSystemPrompt = "You are an expert in product transparency and consumer safety. " +
	"Generate intelligent, specific questions that help assess product transparency and safety. " +
	"Focus on actionable insights that benefit consumers making ethical and health-conscious decisions. " +
	"Respond with ONLY a valid JSON object, no explanations, no markdown."

// generatedQuestion is the shape of one question in the model's JSON output.
type generatedQuestion struct {
	QuestionText string   `json:"questionText"`
	QuestionType string   `json:"questionType"`
	Options      []string `json:"options"`
	Step         int      `json:"step"`
}

type questionsPayload struct {
	Questions []generatedQuestion `json:"questions"`
}

// GenerateQuestions asks the generative service for 3-5 follow-up questions
// for the product at the given step, then persists them as one batch with
// responses unset. Malformed model output fails the whole operation; nothing
// is persisted in that case.
func (s *QuestionService) GenerateQuestions(ctx context.Context, product *models.Product, previousQuestions []string, step int) ([]models.Question, error) {
	prompt := buildQuestionPrompt(product, previousQuestions, step)

	response, err := s.groq.ChatJSON(ctx, questionSystemPrompt, prompt, 0.7, 1500)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", utils.ErrGenerationFailed, err.Error())
	}

	var payload questionsPayload
	if err := json.Unmarshal([]byte(response), &payload); err != nil {
		log.Error().Str("response", response).Err(err).Msg("Failed to parse generated questions")
		return nil, fmt.Errorf("%w: %s", utils.ErrGenerationFailed, err.Error())
	}
	if len(payload.Questions) == 0 {
		return nil, fmt.Errorf("%w: model returned no questions", utils.ErrGenerationFailed)
	}

	questions := make([]*models.Question, 0, len(payload.Questions))
	for _, gq := range payload.Questions {
		qt := models.QuestionType(gq.QuestionType)
		if !models.ValidType(qt) {
			qt = models.QuestionText
		}

		var options models.StringList
		if qt == models.QuestionSelect {
			if len(gq.Options) == 0 {
				return nil, fmt.Errorf("%w: select question without options", utils.ErrGenerationFailed)
			}
			options = models.StringList(gq.Options)
		}

		questions = append(questions, &models.Question{
			ProductID:    product.ID,
			QuestionText: gq.QuestionText,
			QuestionType: qt,
			Options:      options,
			Step:         step,
			GeneratedBy:  models.GeneratedByAI,
		})
	}

	if err := s.questionRepo.CreateBatch(questions); err != nil {
		return nil, err
	}

	saved := make([]models.Question, 0, len(questions))
	for _, q := range questions {
		saved = append(saved, *q)
	}

	log.Info().
		Str("product_id", product.ID).
		Int("step", step).
		Int("count", len(saved)).
		Msg("follow-up questions generated")

	return saved, nil
}

// categoryGuidance maps a product category keyword to the assessment emphasis
// the prompt asks for.
var categoryGuidance = []struct {
	keyword  string
	guidance string
}{
	{"food", "ingredients, allergens, nutritional information, sourcing, processing methods"},
	{"cosmetic", "ingredients safety, testing methods, packaging, shelf life, target skin types"},
	{"supplement", "active ingredients, dosage, clinical studies, manufacturing standards, interactions"},
	{"household", "chemical composition, safety warnings, environmental impact, disposal"},
	{"textile", "material sourcing, manufacturing conditions, chemical treatments, durability"},
}

func guidanceFor(category string) string {
	lower := strings.ToLower(category)
	for _, g := range categoryGuidance {
		if strings.Contains(lower, g.keyword) {
			return g.guidance
		}
	}
	return "health, safety, transparency, and regulatory compliance relevant to this category"
}

func buildQuestionPrompt(product *models.Product, previousQuestions []string, step int) string {
	audience := "General"
	if product.Audience != nil && *product.Audience != "" {
		audience = *product.Audience
	}
	description := "Not provided"
	if product.Description != nil && *product.Description != "" {
		description = *product.Description
	}

	certs, _ := json.Marshal(product.Certifications)
	if product.Certifications == nil {
		certs = []byte("{}")
	}

	previous := "None"
	if len(previousQuestions) > 0 {
		previous = strings.Join(previousQuestions, ", ")
	}

	return fmt.Sprintf(`You are an expert in product transparency and consumer safety. Generate 3-5 intelligent follow-up questions for this product submission:

Product Information:
- Name: %s
- Category: %s
- Target Audience: %s
- Description: %s
- Certifications: %s

Previous Questions Asked: %s

Generate questions that:
1. Are specific to the product category and target audience
2. Focus on health, safety, and transparency concerns
3. Help consumers make informed decisions
4. Don't repeat previous questions
5. Are appropriate for step %d of the assessment
6. Address regulatory compliance relevant to the product category
7. Explore supply chain transparency and ethical sourcing
8. Investigate manufacturing processes and quality control
9. Examine environmental impact and sustainability practices

For this product category, focus on: %s

Question types:
- "text" for detailed explanations and open-ended responses
- "select" for categorical choices (provide 3-5 relevant options)
- "range" for percentage or numerical scales (0-100)
- "checkbox" for yes/no or multiple selection scenarios

Return JSON in this exact format:
{
  "questions": [
    {
      "questionText": "Question text here",
      "questionType": "text|select|range|checkbox",
      "options": ["option1", "option2"] or null,
      "step": %d
    }
  ]
}`,
		product.Name, product.Category, audience, description, string(certs),
		previous, step, guidanceFor(product.Category), step)
}
