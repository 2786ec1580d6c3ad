// Package mealgen asks a language model for meal ideas that fit a
// household's groups and stores the result.
package mealgen

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/dukerupert/mealwise/internal/llm"
	"github.com/dukerupert/mealwise/internal/metrics"
	"github.com/dukerupert/mealwise/internal/model"
)

const tracerName = "github.com/dukerupert/mealwise/internal/mealgen"

var (
	// ErrTimeout is returned when the model does not answer in time.
	ErrTimeout = errors.New("AI service timed out")
	// ErrFormNotFound is returned when form_id does not name a form of the
	// household.
	ErrFormNotFound = errors.New("form not found")
)

type GroupReader interface {
	ListByIDs(ctx context.Context, householdID int64, ids []int64) ([]model.HouseholdGroup, error)
}

type MealWriter interface {
	CreateBatch(ctx context.Context, meals []model.Meal) ([]model.Meal, error)
}

type FormReader interface {
	GetByID(ctx context.Context, id int64) (*model.MealForm, error)
	ListResponses(ctx context.Context, formID int64) ([]model.MealFormResponse, error)
}

// Result is the outcome of a successful generation.
type Result struct {
	Meals []model.Meal
	Usage llm.TokenUsage
}

// Generator runs the prompt, call, parse and store pipeline.
type Generator struct {
	gen     llm.TextGenerator
	groups  GroupReader
	meals   MealWriter
	forms   FormReader
	timeout time.Duration
	metrics *metrics.Metrics
	tracer  trace.Tracer
	logger  *slog.Logger
}

func NewGenerator(gen llm.TextGenerator, groups GroupReader, meals MealWriter, forms FormReader, timeout time.Duration, m *metrics.Metrics, logger *slog.Logger) *Generator {
	return &Generator{
		gen:     gen,
		groups:  groups,
		meals:   meals,
		forms:   forms,
		timeout: timeout,
		metrics: m,
		tracer:  otel.Tracer(tracerName),
		logger:  logger.With("component", "mealgen", "provider", gen.Name()),
	}
}

// Generate validates req, asks the model for meals and persists them in one
// batch. Upstream failures, malformed replies and timeouts are returned
// without retrying.
func (g *Generator) Generate(ctx context.Context, req Request) (*Result, error) {
	ctx, span := g.tracer.Start(ctx, "mealgen.Generate", trace.WithAttributes(
		attribute.Int64("household.id", req.HouseholdID),
		attribute.String("llm.provider", g.gen.Name()),
	))
	defer span.End()

	res, err := g.generate(ctx, req, span)
	status := "success"
	if err != nil {
		status = errorStatus(err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		g.logger.Warn("meal generation failed", "household_id", req.HouseholdID, "status", status, "error", err)
	}
	count := 0
	if res != nil {
		count = len(res.Meals)
	}
	g.metrics.MealGeneration(g.gen.Name(), status, count)
	return res, err
}

func (g *Generator) generate(ctx context.Context, req Request, span trace.Span) (*Result, error) {
	if err := req.Normalize(); err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("meal.count", req.MealCount))

	groups, err := g.groups.ListByIDs(ctx, req.HouseholdID, req.GroupIDs)
	if err != nil {
		return nil, fmt.Errorf("load groups: %w", err)
	}

	if req.FormID != nil {
		prefs, err := g.preferencesFromForm(ctx, req.HouseholdID, *req.FormID, req.Preferences)
		if err != nil {
			return nil, err
		}
		req.Preferences = prefs
	}

	prompt, err := buildPrompt(req, groups)
	if err != nil {
		return nil, fmt.Errorf("build prompt: %w", err)
	}

	resp, err := g.complete(ctx, prompt)
	if err != nil {
		return nil, err
	}

	generated, err := parseMeals(resp.Content)
	if err != nil {
		g.logger.Error("failed to parse model reply", "error", err, "content", truncate(resp.Content, 500))
		return nil, err
	}
	meals, err := toMeals(generated, req.HouseholdID, g.gen.Name())
	if err != nil {
		return nil, err
	}

	saved, err := g.meals.CreateBatch(ctx, meals)
	if err != nil {
		return nil, fmt.Errorf("save meals: %w", err)
	}

	g.logger.Info("meals generated",
		"household_id", req.HouseholdID,
		"count", len(saved),
		"prompt_tokens", resp.Usage.PromptTokens,
		"completion_tokens", resp.Usage.CompletionTokens,
	)
	return &Result{Meals: saved, Usage: resp.Usage}, nil
}

// complete calls the model under the configured timeout.
func (g *Generator) complete(ctx context.Context, prompt string) (llm.ContentResponse, error) {
	ctx, span := g.tracer.Start(ctx, "llm.GenerateContent")
	defer span.End()

	callCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	start := time.Now()
	resp, err := g.gen.GenerateContent(callCtx, prompt)
	elapsed := time.Since(start)

	if err != nil && ctx.Err() == nil && errors.Is(callCtx.Err(), context.DeadlineExceeded) {
		err = fmt.Errorf("%w after %s", ErrTimeout, g.timeout)
	}
	status := "success"
	if err != nil {
		status = errorStatus(err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.SetAttributes(
		attribute.Int("llm.prompt_tokens", resp.Usage.PromptTokens),
		attribute.Int("llm.completion_tokens", resp.Usage.CompletionTokens),
	)
	g.metrics.LLMRequest(g.gen.Name(), status, elapsed, resp.Usage.PromptTokens, resp.Usage.CompletionTokens)
	return resp, err
}

func (g *Generator) preferencesFromForm(ctx context.Context, householdID, formID int64, existing []string) ([]string, error) {
	if g.forms == nil {
		return existing, nil
	}
	form, err := g.forms.GetByID(ctx, formID)
	if err != nil {
		return nil, fmt.Errorf("load form: %w", err)
	}
	if form == nil || form.HouseholdID != householdID {
		return nil, ErrFormNotFound
	}
	responses, err := g.forms.ListResponses(ctx, formID)
	if err != nil {
		return nil, fmt.Errorf("load form responses: %w", err)
	}
	return formPreferences(existing, responses), nil
}

func errorStatus(err error) string {
	var upErr *llm.UpstreamError
	switch {
	case errors.Is(err, ErrInvalidRequest), errors.Is(err, ErrFormNotFound):
		return "invalid"
	case errors.Is(err, ErrTimeout):
		return "timeout"
	case errors.Is(err, ErrMalformedResponse):
		return "malformed"
	case errors.As(err, &upErr):
		return "upstream"
	}
	return "error"
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}
