package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/altibbe/transparency-api/internal/models"
	"github.com/altibbe/transparency-api/internal/utils"
	"github.com/altibbe/transparency-api/pkg/groq"
)

func questionServiceFor(srvURL string) *QuestionService {
	return NewQuestionService(nil, nil, groq.NewClient(groq.Config{
		APIKey:  "test-key",
		Model:   "test-model",
		BaseURL: srvURL,
	}))
}

func strPtr(s string) *string { return &s }

type fakeProductReader struct {
	product *models.Product
	err     error
}

func (f *fakeProductReader) GetByID(id, userID string) (*models.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.product, nil
}

type fakeQuestionStore struct {
	existing []models.Question
	batches  [][]*models.Question
}

func (f *fakeQuestionStore) ListByProduct(productID, userID string) ([]models.Question, error) {
	return f.existing, nil
}

func (f *fakeQuestionStore) CreateBatch(questions []*models.Question) error {
	for i, q := range questions {
		q.ID = fmt.Sprintf("q%d", i+1)
	}
	f.batches = append(f.batches, questions)
	return nil
}

func (f *fakeQuestionStore) UpdateResponse(id, userID, response string) (*models.Question, error) {
	return &models.Question{ID: id, Response: &response}, nil
}

func TestGenerateQuestionsPersistsBatch(t *testing.T) {
	srv := fakeGroqServer(`{"questions": [
		{"questionText": "What allergens are present?", "questionType": "text", "options": null, "step": 9},
		{"questionText": "Where is it made?", "questionType": "select", "options": ["USA", "EU", "Other"], "step": 9},
		{"questionText": "How transparent is your sourcing?", "questionType": "dropdown", "options": null, "step": 9}
	]}`)
	defer srv.Close()

	store := &fakeQuestionStore{}
	svc := NewQuestionService(nil, store, groq.NewClient(groq.Config{
		APIKey:  "test-key",
		Model:   "test-model",
		BaseURL: srv.URL,
	}))

	product := &models.Product{ID: "p1", Name: "Crunchy Oats", Category: "food"}
	questions, err := svc.GenerateQuestions(context.Background(), product, nil, 2)
	if err != nil {
		t.Fatalf("GenerateQuestions: %v", err)
	}

	if len(questions) != 3 {
		t.Fatalf("returned %d questions, want 3", len(questions))
	}
	if len(store.batches) != 1 || len(store.batches[0]) != 3 {
		t.Fatalf("persisted batches = %v, want one batch of 3", store.batches)
	}

	for i, q := range questions {
		if q.ProductID != "p1" {
			t.Errorf("question %d product = %q", i, q.ProductID)
		}
		// The requested step wins over whatever the model echoed back.
		if q.Step != 2 {
			t.Errorf("question %d step = %d, want 2", i, q.Step)
		}
		if q.GeneratedBy != models.GeneratedByAI {
			t.Errorf("question %d generatedBy = %q", i, q.GeneratedBy)
		}
		if q.Response != nil {
			t.Errorf("question %d response = %v, want unset", i, *q.Response)
		}
	}

	if questions[0].QuestionType != models.QuestionText || questions[0].Options != nil {
		t.Errorf("text question = %+v", questions[0])
	}
	if questions[1].QuestionType != models.QuestionSelect {
		t.Errorf("select question type = %q", questions[1].QuestionType)
	}
	if len(questions[1].Options) != 3 || questions[1].Options[0] != "USA" {
		t.Errorf("select options = %v", questions[1].Options)
	}
	// Unknown types fall back to free text.
	if questions[2].QuestionType != models.QuestionText {
		t.Errorf("unknown type mapped to %q, want text", questions[2].QuestionType)
	}
}

func TestGenerateForProductFeedsPreviousQuestions(t *testing.T) {
	srv := fakeGroqServer(`{"questions": [{"questionText": "New question?", "questionType": "text", "options": null, "step": 2}]}`)
	defer srv.Close()

	products := &fakeProductReader{product: &models.Product{ID: "p1", Name: "Crunchy Oats", Category: "food"}}
	store := &fakeQuestionStore{existing: []models.Question{
		{ID: "q1", ProductID: "p1", QuestionText: "What allergens are present?", Step: 1},
	}}
	svc := NewQuestionService(products, store, groq.NewClient(groq.Config{
		APIKey:  "test-key",
		Model:   "test-model",
		BaseURL: srv.URL,
	}))

	questions, err := svc.GenerateForProduct(context.Background(), "p1", "u1", 2)
	if err != nil {
		t.Fatalf("GenerateForProduct: %v", err)
	}
	if len(questions) != 1 || questions[0].Step != 2 {
		t.Fatalf("questions = %+v", questions)
	}
}

func TestGenerateForProductMissingProduct(t *testing.T) {
	products := &fakeProductReader{err: sql.ErrNoRows}
	svc := NewQuestionService(products, &fakeQuestionStore{}, nil)

	_, err := svc.GenerateForProduct(context.Background(), "missing", "u1", 1)
	if !errors.Is(err, utils.ErrProductNotFound) {
		t.Errorf("error = %v, want ErrProductNotFound", err)
	}
}

func TestGenerateQuestionsRejectsWrongShape(t *testing.T) {
	// A valid JSON object that lacks a questions array fails the whole
	// operation before anything is persisted.
	srv := fakeGroqServer(`{"result": "I generated some questions"}`)
	defer srv.Close()

	product := &models.Product{ID: "p1", Name: "Crunchy Oats", Category: "food"}
	_, err := questionServiceFor(srv.URL).GenerateQuestions(context.Background(), product, nil, 1)
	if err == nil {
		t.Fatal("expected error for payload without questions")
	}
	if !errors.Is(err, utils.ErrGenerationFailed) {
		t.Errorf("error %v does not wrap ErrGenerationFailed", err)
	}
}

func TestGenerateQuestionsRejectsSelectWithoutOptions(t *testing.T) {
	srv := fakeGroqServer(`{"questions": [{"questionText": "Pick one", "questionType": "select", "options": [], "step": 1}]}`)
	defer srv.Close()

	product := &models.Product{ID: "p1", Name: "Crunchy Oats", Category: "food"}
	_, err := questionServiceFor(srv.URL).GenerateQuestions(context.Background(), product, nil, 1)
	if err == nil {
		t.Fatal("expected error for select question without options")
	}
	if !errors.Is(err, utils.ErrGenerationFailed) {
		t.Errorf("error %v does not wrap ErrGenerationFailed", err)
	}
}

func TestGenerateQuestionsUpstreamFailure(t *testing.T) {
	srv := fakeGroqServer("no json in this answer")
	defer srv.Close()

	product := &models.Product{ID: "p1", Name: "Crunchy Oats", Category: "food"}
	_, err := questionServiceFor(srv.URL).GenerateQuestions(context.Background(), product, nil, 1)
	if err == nil {
		t.Fatal("expected error when the model returns no JSON")
	}
	if !errors.Is(err, utils.ErrGenerationFailed) {
		t.Errorf("error %v does not wrap ErrGenerationFailed", err)
	}
}

func TestGenerateQuestionsEmptyCompletionFails(t *testing.T) {
	// Unlike scoring, question generation has no usable defaults; an empty
	// completion still fails the whole operation.
	srv := fakeGroqServer("")
	defer srv.Close()

	product := &models.Product{ID: "p1", Name: "Crunchy Oats", Category: "food"}
	_, err := questionServiceFor(srv.URL).GenerateQuestions(context.Background(), product, nil, 1)
	if err == nil {
		t.Fatal("expected error for empty completion")
	}
	if !errors.Is(err, utils.ErrGenerationFailed) {
		t.Errorf("error %v does not wrap ErrGenerationFailed", err)
	}
}

func TestGuidanceFor(t *testing.T) {
	tests := []struct {
		category string
		want     string
	}{
		{"Organic Food", "allergens"},
		{"food", "nutritional information"},
		{"Cosmetics", "skin types"},
		{"Dietary Supplement", "clinical studies"},
		{"Household Cleaner", "disposal"},
		{"Textile Goods", "chemical treatments"},
		{"electronics", "regulatory compliance relevant to this category"},
	}

	for _, tt := range tests {
		t.Run(tt.category, func(t *testing.T) {
			got := guidanceFor(tt.category)
			if !strings.Contains(got, tt.want) {
				t.Errorf("guidanceFor(%q) = %q, want substring %q", tt.category, got, tt.want)
			}
		})
	}
}

func TestBuildQuestionPrompt(t *testing.T) {
	product := &models.Product{
		ID:             "p1",
		Name:           "Crunchy Oats",
		Category:       "food",
		Audience:       strPtr("Children"),
		Description:    strPtr("A wholesome snack"),
		Certifications: models.BoolMap{"organic": true},
	}

	prompt := buildQuestionPrompt(product, []string{"What allergens are present?"}, 3)

	for _, want := range []string{
		"Crunchy Oats",
		"Children",
		"A wholesome snack",
		`"organic":true`,
		"What allergens are present?",
		"step 3 of the assessment",
		`"step": 3`,
		"allergens, nutritional information",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestBuildQuestionPromptDefaults(t *testing.T) {
	product := &models.Product{ID: "p1", Name: "Mystery Item", Category: "gadget"}

	prompt := buildQuestionPrompt(product, nil, 1)

	for _, want := range []string{
		"Target Audience: General",
		"Description: Not provided",
		"Certifications: {}",
		"Previous Questions Asked: None",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}
