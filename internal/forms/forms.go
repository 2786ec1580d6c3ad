// Package forms manages preference forms shared with household members
// through a one-time token.
package forms

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/dukerupert/mealwise/internal/metrics"
	"github.com/dukerupert/mealwise/internal/model"
)

var (
	ErrNotFound     = errors.New("form not found")
	ErrInvalidToken = errors.New("invalid form token")
	ErrClosed       = errors.New("form is closed")
	ErrInvalid      = errors.New("invalid form")
)

type Repository interface {
	Create(ctx context.Context, f model.MealForm, tokenHash string) (*model.MealForm, error)
	GetByID(ctx context.Context, id int64) (*model.MealForm, error)
	GetWithTokenHash(ctx context.Context, id int64) (*model.MealForm, string, error)
	SaveResponse(ctx context.Context, formID, userID int64, responses map[string]any) (*model.MealFormResponse, error)
	ListResponses(ctx context.Context, formID int64) ([]model.MealFormResponse, error)
}

type Service struct {
	forms   Repository
	metrics *metrics.Metrics
	logger  *slog.Logger
	now     func() time.Time
}

func NewService(forms Repository, m *metrics.Metrics, logger *slog.Logger) *Service {
	return &Service{
		forms:   forms,
		metrics: m,
		logger:  logger.With("component", "forms"),
		now:     time.Now,
	}
}

// Create stores the form and moves its plan to collecting responses. The
// returned token is shown once; only its hash is kept.
func (s *Service) Create(ctx context.Context, f model.MealForm) (*model.MealForm, string, error) {
	if err := validateForm(f); err != nil {
		return nil, "", err
	}

	token := uuid.NewString()
	hash, err := bcrypt.GenerateFromPassword([]byte(token), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("hash token: %w", err)
	}

	f.Status = model.FormStatusActive
	created, err := s.forms.Create(ctx, f, string(hash))
	if err != nil {
		return nil, "", err
	}

	s.logger.Info("form created", "form_id", created.ID, "meal_plan_id", created.MealPlanID, "questions", len(created.Questions))
	return created, token, nil
}

// View returns the form when token matches.
func (s *Service) View(ctx context.Context, formID int64, token string) (*model.MealForm, error) {
	f, hash, err := s.forms.GetWithTokenHash(ctx, formID)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, ErrNotFound
	}
	if token == "" || bcrypt.CompareHashAndPassword([]byte(hash), []byte(token)) != nil {
		return nil, ErrInvalidToken
	}
	return f, nil
}

// Respond validates and records answers for userID. The caller must have
// checked that the user belongs to the form's household.
func (s *Service) Respond(ctx context.Context, f *model.MealForm, userID int64, answers map[string]any) (*model.MealFormResponse, error) {
	if !f.Open(s.now()) {
		return nil, ErrClosed
	}
	if err := validateAnswers(f.Questions, answers); err != nil {
		return nil, err
	}

	r, err := s.forms.SaveResponse(ctx, f.ID, userID, answers)
	if err != nil {
		return nil, err
	}
	s.metrics.FormResponse()
	return r, nil
}

func (s *Service) Get(ctx context.Context, formID int64) (*model.MealForm, error) {
	return s.forms.GetByID(ctx, formID)
}

func (s *Service) Responses(ctx context.Context, formID int64) ([]model.MealFormResponse, error) {
	return s.forms.ListResponses(ctx, formID)
}

var questionTypes = []string{model.QuestionMultipleChoice, model.QuestionSingleChoice, model.QuestionText, model.QuestionRating}

func validateForm(f model.MealForm) error {
	if strings.TrimSpace(f.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalid)
	}
	if len(f.Questions) == 0 {
		return fmt.Errorf("%w: at least one question is required", ErrInvalid)
	}
	seen := make(map[string]bool, len(f.Questions))
	for _, q := range f.Questions {
		if q.ID == "" || seen[q.ID] {
			return fmt.Errorf("%w: question ids must be unique and non-empty", ErrInvalid)
		}
		seen[q.ID] = true
		if !slices.Contains(questionTypes, q.Type) {
			return fmt.Errorf("%w: question %s has unknown type %q", ErrInvalid, q.ID, q.Type)
		}
		if isChoice(q.Type) && len(q.Options) == 0 {
			return fmt.Errorf("%w: question %s needs options", ErrInvalid, q.ID)
		}
	}
	return nil
}

func isChoice(t string) bool {
	return t == model.QuestionMultipleChoice || t == model.QuestionSingleChoice
}

func validateAnswers(questions []model.MealFormQuestion, answers map[string]any) error {
	byID := make(map[string]model.MealFormQuestion, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}
	for id := range answers {
		if _, ok := byID[id]; !ok {
			return fmt.Errorf("%w: unknown question %s", ErrInvalid, id)
		}
	}

	for _, q := range questions {
		a, ok := answers[q.ID]
		if !ok || a == nil {
			if q.Required {
				return fmt.Errorf("%w: question %s is required", ErrInvalid, q.ID)
			}
			continue
		}
		if err := checkAnswer(q, a); err != nil {
			return fmt.Errorf("%w: question %s: %v", ErrInvalid, q.ID, err)
		}
	}
	return nil
}

func checkAnswer(q model.MealFormQuestion, a any) error {
	switch q.Type {
	case model.QuestionText:
		if _, ok := a.(string); !ok {
			return errors.New("expected text")
		}
	case model.QuestionRating:
		n, ok := a.(float64)
		if !ok || n < 1 || n > 5 {
			return errors.New("expected a rating from 1 to 5")
		}
	case model.QuestionSingleChoice:
		s, ok := a.(string)
		if !ok || !slices.Contains(q.Options, s) {
			return errors.New("expected one of the options")
		}
	case model.QuestionMultipleChoice:
		list, ok := a.([]any)
		if !ok {
			return errors.New("expected a list of options")
		}
		for _, item := range list {
			s, ok := item.(string)
			if !ok || !slices.Contains(q.Options, s) {
				return fmt.Errorf("%v is not an option", item)
			}
		}
	}
	return nil
}
