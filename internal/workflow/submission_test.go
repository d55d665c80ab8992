package workflow

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/altibbe/transparency-api/internal/models"
	"github.com/altibbe/transparency-api/internal/repository"
	"github.com/altibbe/transparency-api/internal/service"
)

type fakeProducts struct {
	creates int
	updates int
	err     error
}

func (f *fakeProducts) Create(userID string, req *service.CreateProductRequest) (*models.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.creates++
	return &models.Product{ID: "p1", Name: req.Name, Category: req.Category, Status: models.StatusDraft}, nil
}

func (f *fakeProducts) Update(id, userID string, upd *repository.ProductUpdate) (*models.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.updates++
	return &models.Product{ID: id, Name: "Crunchy Oats", Category: "food", Status: models.StatusDraft}, nil
}

type fakeQuestions struct {
	genErr   error
	genCalls []int
	recorded map[string]string
	block    chan struct{}
}

func (f *fakeQuestions) GenerateForProduct(ctx context.Context, productID, userID string, step int) ([]models.Question, error) {
	if f.block != nil {
		<-f.block
	}
	f.genCalls = append(f.genCalls, step)
	if f.genErr != nil {
		return nil, f.genErr
	}
	return []models.Question{
		{ID: "q1", ProductID: productID, QuestionText: "What allergens are present?", QuestionType: models.QuestionText, Step: step},
		{ID: "q2", ProductID: productID, QuestionText: "Where are ingredients sourced?", QuestionType: models.QuestionText, Step: step},
	}, nil
}

func (f *fakeQuestions) RecordResponse(id, userID, response string) (*models.Question, error) {
	if f.recorded == nil {
		f.recorded = make(map[string]string)
	}
	f.recorded[id] = response
	return &models.Question{ID: id, Response: &response}, nil
}

type fakeReports struct {
	err   error
	calls int
}

func (f *fakeReports) Generate(ctx context.Context, productID, userID string) (*models.Report, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &models.Report{ID: "r1", ProductID: productID, TransparencyScore: 85, HealthScore: "B+"}, nil
}

func newTestSubmission(products *fakeProducts, questions *fakeQuestions, reports *fakeReports) *Submission {
	return NewSubmission("u1", products, questions, reports)
}

func basicInfo() *service.CreateProductRequest {
	return &service.CreateProductRequest{Name: "Crunchy Oats", Category: "food"}
}

func TestSubmissionFullRun(t *testing.T) {
	products := &fakeProducts{}
	questions := &fakeQuestions{}
	reports := &fakeReports{}
	sub := newTestSubmission(products, questions, reports)

	ctx := context.Background()

	if got := sub.Step(); got != StepBasicInfo {
		t.Fatalf("initial step = %v", got)
	}

	if err := sub.SubmitBasicInfo(ctx, basicInfo()); err != nil {
		t.Fatalf("SubmitBasicInfo: %v", err)
	}
	if sub.Step() != StepDetails || sub.ProductID() != "p1" {
		t.Fatalf("after basic info: step %v, product %q", sub.Step(), sub.ProductID())
	}

	if err := sub.SubmitDetails(ctx, &repository.ProductUpdate{}); err != nil {
		t.Fatalf("SubmitDetails: %v", err)
	}
	if sub.Step() != StepAiQuestions {
		t.Fatalf("after details: step %v", sub.Step())
	}
	if len(sub.Questions()) != 2 {
		t.Fatalf("displayed questions = %d", len(sub.Questions()))
	}

	if err := sub.Answer("q1", "Contains oats and traces of nuts"); err != nil {
		t.Fatalf("Answer: %v", err)
	}
	if err := sub.ConfirmReview(); err != nil {
		t.Fatalf("ConfirmReview: %v", err)
	}
	if sub.Step() != StepReview {
		t.Fatalf("after review: step %v", sub.Step())
	}

	reportID, err := sub.Finalize(ctx)
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	if reportID != "r1" {
		t.Errorf("reportID = %q", reportID)
	}
	if sub.Step() != StepCompleted {
		t.Errorf("final step = %v", sub.Step())
	}
	if questions.recorded["q1"] != "Contains oats and traces of nuts" {
		t.Errorf("answer not persisted: %v", questions.recorded)
	}
	if _, ok := questions.recorded["q2"]; ok {
		t.Error("unanswered question was persisted")
	}
	if reports.calls != 1 {
		t.Errorf("report generated %d times", reports.calls)
	}
}

func TestSubmissionForwardGuards(t *testing.T) {
	sub := newTestSubmission(&fakeProducts{}, &fakeQuestions{}, &fakeReports{})
	ctx := context.Background()

	if err := sub.SubmitDetails(ctx, &repository.ProductUpdate{}); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("SubmitDetails before basic info: %v", err)
	}
	if err := sub.ConfirmReview(); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("ConfirmReview from basic info: %v", err)
	}
	if _, err := sub.Finalize(ctx); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Finalize from basic info: %v", err)
	}
	if err := sub.Previous(); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Previous from first step: %v", err)
	}
	if err := sub.Answer("q1", "x"); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Answer before questions: %v", err)
	}
}

func TestSubmissionBackwardKeepsAnswers(t *testing.T) {
	questions := &fakeQuestions{}
	sub := newTestSubmission(&fakeProducts{}, questions, &fakeReports{})
	ctx := context.Background()

	if err := sub.SubmitBasicInfo(ctx, basicInfo()); err != nil {
		t.Fatal(err)
	}
	if err := sub.SubmitDetails(ctx, &repository.ProductUpdate{}); err != nil {
		t.Fatal(err)
	}
	if err := sub.Answer("q1", "first answer"); err != nil {
		t.Fatal(err)
	}

	if err := sub.Previous(); err != nil {
		t.Fatalf("Previous: %v", err)
	}
	if sub.Step() != StepDetails {
		t.Fatalf("step after back = %v", sub.Step())
	}
	if sub.Answers()["q1"] != "first answer" {
		t.Error("backward navigation dropped the answer")
	}

	// Moving forward again regenerates with the next step number.
	if err := sub.SubmitDetails(ctx, &repository.ProductUpdate{}); err != nil {
		t.Fatal(err)
	}
	if len(questions.genCalls) != 2 || questions.genCalls[0] != 1 || questions.genCalls[1] != 2 {
		t.Errorf("generation steps = %v, want [1 2]", questions.genCalls)
	}
	if sub.Answers()["q1"] != "first answer" {
		t.Error("regeneration dropped the answer")
	}
}

func TestSubmissionBusyLatch(t *testing.T) {
	questions := &fakeQuestions{block: make(chan struct{})}
	sub := newTestSubmission(&fakeProducts{}, questions, &fakeReports{})
	ctx := context.Background()

	if err := sub.SubmitBasicInfo(ctx, basicInfo()); err != nil {
		t.Fatal(err)
	}

	done := make(chan error, 1)
	go func() {
		done <- sub.SubmitDetails(ctx, &repository.ProductUpdate{})
	}()

	// Wait for the transition to take the latch.
	deadline := time.After(2 * time.Second)
	for !sub.Busy() {
		select {
		case <-deadline:
			t.Fatal("transition never became busy")
		case <-time.After(time.Millisecond):
		}
	}

	if err := sub.Previous(); !errors.Is(err, ErrBusy) {
		t.Errorf("Previous while busy: %v", err)
	}
	if err := sub.SubmitDetails(ctx, &repository.ProductUpdate{}); !errors.Is(err, ErrBusy) {
		t.Errorf("second SubmitDetails while busy: %v", err)
	}

	close(questions.block)
	if err := <-done; err != nil {
		t.Fatalf("SubmitDetails: %v", err)
	}
	if sub.Busy() {
		t.Error("latch not released after completion")
	}
	if sub.Step() != StepAiQuestions {
		t.Errorf("step = %v", sub.Step())
	}
}

func TestSubmissionFailedGenerationAllowsRetry(t *testing.T) {
	questions := &fakeQuestions{genErr: errors.New("upstream unavailable")}
	sub := newTestSubmission(&fakeProducts{}, questions, &fakeReports{})
	ctx := context.Background()

	if err := sub.SubmitBasicInfo(ctx, basicInfo()); err != nil {
		t.Fatal(err)
	}
	if err := sub.SubmitDetails(ctx, &repository.ProductUpdate{}); err == nil {
		t.Fatal("expected generation failure")
	}
	if sub.Step() != StepDetails {
		t.Errorf("failed transition moved the step to %v", sub.Step())
	}
	if sub.Busy() {
		t.Error("latch held after failure")
	}

	questions.genErr = nil
	if err := sub.SubmitDetails(ctx, &repository.ProductUpdate{}); err != nil {
		t.Fatalf("retry: %v", err)
	}
	if sub.Step() != StepAiQuestions {
		t.Errorf("step after retry = %v", sub.Step())
	}
}

func TestSubmissionAnswerUnknownQuestion(t *testing.T) {
	sub := newTestSubmission(&fakeProducts{}, &fakeQuestions{}, &fakeReports{})
	ctx := context.Background()

	if err := sub.SubmitBasicInfo(ctx, basicInfo()); err != nil {
		t.Fatal(err)
	}
	if err := sub.SubmitDetails(ctx, &repository.ProductUpdate{}); err != nil {
		t.Fatal(err)
	}
	if err := sub.Answer("nope", "x"); !errors.Is(err, ErrUnknownQuestion) {
		t.Errorf("Answer for unknown id: %v", err)
	}
}

func TestSubmissionRevisitBasicInfoUpdates(t *testing.T) {
	products := &fakeProducts{}
	sub := newTestSubmission(products, &fakeQuestions{}, &fakeReports{})
	ctx := context.Background()

	if err := sub.SubmitBasicInfo(ctx, basicInfo()); err != nil {
		t.Fatal(err)
	}
	if err := sub.Previous(); err != nil {
		t.Fatal(err)
	}
	if err := sub.SubmitBasicInfo(ctx, basicInfo()); err != nil {
		t.Fatal(err)
	}

	if products.creates != 1 || products.updates != 1 {
		t.Errorf("creates = %d, updates = %d, want one of each", products.creates, products.updates)
	}
}
