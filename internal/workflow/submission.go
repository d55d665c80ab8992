// Package workflow drives one product submission through its ordered steps:
// basic info, details, AI questions, review. Step position and in-progress
// answers live only here until a forward transition completes; abandoning a
// submission loses uncommitted answers by design, leaving the product a
// draft.
package workflow

import (
	"context"
	"errors"
	"sync"

	"github.com/altibbe/transparency-api/internal/models"
	"github.com/altibbe/transparency-api/internal/repository"
	"github.com/altibbe/transparency-api/internal/service"
)

// Step is a position in the submission sequence.
type Step int

const (
	StepBasicInfo Step = iota + 1
	StepDetails
	StepAiQuestions
	StepReview
	StepCompleted
)

// String returns the display label of a step.
func (s Step) String() string {
	switch s {
	case StepBasicInfo:
		return "Basic Info"
	case StepDetails:
		return "Details"
	case StepAiQuestions:
		return "AI Questions"
	case StepReview:
		return "Review"
	case StepCompleted:
		return "Completed"
	}
	return "Unknown"
}

// Workflow errors.
var (
	ErrBusy              = errors.New("a remote call for this step is still outstanding")
	ErrInvalidTransition = errors.New("transition not allowed from the current step")
	ErrNoProduct         = errors.New("no product is bound to this submission")
	ErrUnknownQuestion   = errors.New("question is not part of the displayed set")
)

// ProductStore persists product drafts.
type ProductStore interface {
	Create(userID string, req *service.CreateProductRequest) (*models.Product, error)
	Update(id, userID string, upd *repository.ProductUpdate) (*models.Product, error)
}

// QuestionFlow generates follow-up questions and records answers.
type QuestionFlow interface {
	GenerateForProduct(ctx context.Context, productID, userID string, step int) ([]models.Question, error)
	RecordResponse(id, userID, response string) (*models.Question, error)
}

// ReportFlow produces the final report for a submission.
type ReportFlow interface {
	Generate(ctx context.Context, productID, userID string) (*models.Report, error)
}

// Submission is one in-flight workflow instance for a single user session.
// At most one remote call is in flight at a time; the busy latch blocks the
// owning transition until the call resolves, and a failed call re-enables it
// for a manual retry.
type Submission struct {
	mu sync.Mutex

	userID    string
	products  ProductStore
	questions QuestionFlow
	reports   ReportFlow

	step      Step
	round     int
	product   *models.Product
	displayed []models.Question
	answers   map[string]string
	busy      bool
}

// NewSubmission starts a fresh submission for the given user.
func NewSubmission(userID string, products ProductStore, questions QuestionFlow, reports ReportFlow) *Submission {
	return &Submission{
		userID:    userID,
		products:  products,
		questions: questions,
		reports:   reports,
		step:      StepBasicInfo,
		round:     1,
		answers:   make(map[string]string),
	}
}

// Step returns the current position.
func (s *Submission) Step() Step {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.step
}

// Busy reports whether a remote call for the current transition is
// outstanding.
func (s *Submission) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}

// ProductID returns the bound product identity, or empty before the first
// save.
func (s *Submission) ProductID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.product == nil {
		return ""
	}
	return s.product.ID
}

// Questions returns the currently displayed question set.
func (s *Submission) Questions() []models.Question {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Question, len(s.displayed))
	copy(out, s.displayed)
	return out
}

// Answers returns a copy of the collected answer map, keyed by question ID.
func (s *Submission) Answers() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]string, len(s.answers))
	for k, v := range s.answers {
		out[k] = v
	}
	return out
}

// begin acquires the busy latch for a remote transition.
func (s *Submission) begin(allowed func() bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		return ErrBusy
	}
	if !allowed() {
		return ErrInvalidTransition
	}
	s.busy = true
	return nil
}

// end releases the busy latch.
func (s *Submission) end() {
	s.mu.Lock()
	s.busy = false
	s.mu.Unlock()
}

// SubmitBasicInfo creates the product on first use and updates it on
// revisits, then moves to the details step. The first successful save binds
// the submission to the new product identity.
func (s *Submission) SubmitBasicInfo(ctx context.Context, req *service.CreateProductRequest) error {
	err := s.begin(func() bool { return s.step != StepCompleted })
	if err != nil {
		return err
	}
	defer s.end()

	s.mu.Lock()
	bound := s.product
	s.mu.Unlock()

	var product *models.Product
	if bound == nil {
		product, err = s.products.Create(s.userID, req)
	} else {
		upd := &repository.ProductUpdate{
			Name:           &req.Name,
			Category:       &req.Category,
			Audience:       req.Audience,
			Description:    req.Description,
			Location:       req.Location,
			Certifications: req.Certifications,
			BasicInfo:      req.BasicInfo,
		}
		product, err = s.products.Update(bound.ID, s.userID, upd)
	}
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.product = product
	s.step = StepDetails
	s.mu.Unlock()
	return nil
}

// SubmitDetails persists the detail fields and invokes the question
// generator; on success the returned questions become the displayed set and
// the submission moves to the AI questions step.
func (s *Submission) SubmitDetails(ctx context.Context, upd *repository.ProductUpdate) error {
	err := s.begin(func() bool {
		return s.product != nil && s.step >= StepDetails && s.step < StepCompleted
	})
	if err != nil {
		return err
	}
	defer s.end()

	s.mu.Lock()
	productID := s.product.ID
	round := s.round
	s.mu.Unlock()

	product, err := s.products.Update(productID, s.userID, upd)
	if err != nil {
		return err
	}

	questions, err := s.questions.GenerateForProduct(ctx, productID, s.userID, round)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.product = product
	s.displayed = questions
	s.round++
	s.step = StepAiQuestions
	s.mu.Unlock()
	return nil
}

// Answer collects one response locally. Nothing is persisted until the
// review step completes.
func (s *Submission) Answer(questionID, response string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.step != StepAiQuestions && s.step != StepReview {
		return ErrInvalidTransition
	}
	for _, q := range s.displayed {
		if q.ID == questionID {
			s.answers[questionID] = response
			return nil
		}
	}
	return ErrUnknownQuestion
}

// ConfirmReview moves to the review step. Pure navigation: no remote call,
// answers already collected are reused.
func (s *Submission) ConfirmReview() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.busy {
		return ErrBusy
	}
	if s.step != StepAiQuestions {
		return ErrInvalidTransition
	}
	s.step = StepReview
	return nil
}

// Previous steps back one position. Backward navigation never discards
// collected answers or persisted records.
func (s *Submission) Previous() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.busy {
		return ErrBusy
	}
	if s.step <= StepBasicInfo || s.step >= StepCompleted {
		return ErrInvalidTransition
	}
	s.step--
	return nil
}

// Finalize persists the collected answers, runs scoring and report creation,
// and completes the submission. Returns the new report's identity.
func (s *Submission) Finalize(ctx context.Context) (string, error) {
	err := s.begin(func() bool { return s.product != nil && s.step == StepReview })
	if err != nil {
		return "", err
	}
	defer s.end()

	s.mu.Lock()
	productID := s.product.ID
	answers := make(map[string]string, len(s.answers))
	for k, v := range s.answers {
		answers[k] = v
	}
	s.mu.Unlock()

	for questionID, response := range answers {
		if response == "" {
			continue
		}
		if _, err := s.questions.RecordResponse(questionID, s.userID, response); err != nil {
			return "", err
		}
	}

	report, err := s.reports.Generate(ctx, productID, s.userID)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	s.step = StepCompleted
	s.mu.Unlock()
	return report.ID, nil
}
