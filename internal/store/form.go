package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dukerupert/mealwise/internal/model"
)

type FormStore struct {
	db *sql.DB
}

func NewFormStore(db *sql.DB) *FormStore {
	return &FormStore{db: db}
}

func scanForm(s scanner) (*model.MealForm, string, error) {
	var f model.MealForm
	var deadline sql.NullTime
	var questions, tokenHash string
	err := s.Scan(
		&f.ID, &f.MealPlanID, &f.HouseholdID, &f.Title, &f.Description, &deadline,
		&questions, &f.Status, &tokenHash, &f.CreatedAt, &f.UpdatedAt,
	)
	if err != nil {
		return nil, "", err
	}
	if deadline.Valid {
		f.Deadline = &deadline.Time
	}
	if err := decodeJSON(questions, &f.Questions); err != nil {
		return nil, "", fmt.Errorf("form %d questions: %w", f.ID, err)
	}
	return &f, tokenHash, nil
}

const formSelect = `SELECT f.id, f.meal_plan_id, p.household_id, f.title, f.description, f.deadline, f.questions, f.status, f.token_hash, f.created_at, f.updated_at
	FROM meal_forms f JOIN meal_plans p ON p.id = f.meal_plan_id`

// Create stores the form along with the bcrypt hash of its share token and
// moves its meal plan to collecting responses. Both writes commit together.
func (s *FormStore) Create(ctx context.Context, f model.MealForm, tokenHash string) (*model.MealForm, error) {
	questions, err := encodeJSON(nonNil(f.Questions))
	if err != nil {
		return nil, err
	}
	var deadline sql.NullTime
	if f.Deadline != nil {
		deadline = sql.NullTime{Time: f.Deadline.UTC(), Valid: true}
	}
	status := f.Status
	if status == "" {
		status = model.FormStatusActive
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`UPDATE meal_plans SET status = ?, updated_at = ? WHERE id = ?`,
		model.MealPlanStatusCollectingResponses, time.Now().UTC(), f.MealPlanID,
	)
	if err != nil {
		return nil, fmt.Errorf("update meal plan status: %w", err)
	}
	if n, err := result.RowsAffected(); err != nil {
		return nil, fmt.Errorf("rows affected: %w", err)
	} else if n == 0 {
		return nil, fmt.Errorf("meal plan %d not found", f.MealPlanID)
	}

	result, err = tx.ExecContext(ctx,
		`INSERT INTO meal_forms (meal_plan_id, title, description, deadline, questions, status, token_hash) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		f.MealPlanID, f.Title, f.Description, deadline, questions, status, tokenHash,
	)
	if err != nil {
		return nil, fmt.Errorf("insert form: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return s.GetByID(ctx, id)
}

func (s *FormStore) GetByID(ctx context.Context, id int64) (*model.MealForm, error) {
	f, _, err := s.GetWithTokenHash(ctx, id)
	return f, err
}

// GetWithTokenHash returns the form and its stored share-token hash.
func (s *FormStore) GetWithTokenHash(ctx context.Context, id int64) (*model.MealForm, string, error) {
	row := s.db.QueryRowContext(ctx, formSelect+` WHERE f.id = ?`, id)
	f, hash, err := scanForm(row)
	if err == sql.ErrNoRows {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("get form: %w", err)
	}
	return f, hash, nil
}

func (s *FormStore) Close(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE meal_forms SET status = ?, updated_at = ? WHERE id = ?`,
		model.FormStatusClosed, time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("close form: %w", err)
	}
	return nil
}

// SaveResponse records a member's answers. A second submission from the same
// user replaces the first.
func (s *FormStore) SaveResponse(ctx context.Context, formID, userID int64, responses map[string]any) (*model.MealFormResponse, error) {
	if responses == nil {
		responses = map[string]any{}
	}
	encoded, err := encodeJSON(responses)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO meal_form_responses (form_id, user_id, responses, submitted_at) VALUES (?, ?, ?, ?)
		ON CONFLICT (form_id, user_id) DO UPDATE SET responses = excluded.responses, submitted_at = excluded.submitted_at, updated_at = excluded.submitted_at`,
		formID, userID, encoded, now,
	)
	if err != nil {
		return nil, fmt.Errorf("save response: %w", err)
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT `+responseCols+` FROM meal_form_responses WHERE form_id = ? AND user_id = ?`,
		formID, userID,
	)
	return scanResponse(row)
}

func scanResponse(s scanner) (*model.MealFormResponse, error) {
	var r model.MealFormResponse
	var responses string
	err := s.Scan(&r.ID, &r.FormID, &r.UserID, &responses, &r.SubmittedAt, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := decodeJSON(responses, &r.Responses); err != nil {
		return nil, fmt.Errorf("response %d: %w", r.ID, err)
	}
	return &r, nil
}

const responseCols = `id, form_id, user_id, responses, submitted_at, created_at, updated_at`

func (s *FormStore) ListResponses(ctx context.Context, formID int64) ([]model.MealFormResponse, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+responseCols+` FROM meal_form_responses WHERE form_id = ? ORDER BY submitted_at ASC, id ASC`,
		formID,
	)
	if err != nil {
		return nil, fmt.Errorf("list responses: %w", err)
	}
	defer rows.Close()

	var responses []model.MealFormResponse
	for rows.Next() {
		r, err := scanResponse(rows)
		if err != nil {
			return nil, fmt.Errorf("scan response: %w", err)
		}
		responses = append(responses, *r)
	}
	return responses, rows.Err()
}
