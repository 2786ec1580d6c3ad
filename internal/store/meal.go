package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dukerupert/mealwise/internal/model"
)

type MealStore struct {
	db *sql.DB
}

func NewMealStore(db *sql.DB) *MealStore {
	return &MealStore{db: db}
}

func scanMeal(s scanner) (*model.Meal, error) {
	var m model.Meal
	var householdID sql.NullInt64
	var ingredients, instructions, tags string
	var aiGenerated int
	err := s.Scan(
		&m.ID, &householdID, &m.Title, &m.Description, &m.Category,
		&m.PrepTimeMinutes, &m.CookTimeMinutes, &m.ServingSizeBase,
		&ingredients, &instructions, &tags, &aiGenerated, &m.Source,
		&m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if householdID.Valid {
		m.HouseholdID = &householdID.Int64
	}
	m.AIGenerated = aiGenerated != 0
	if err := decodeMealColumns(&m, ingredients, instructions, tags); err != nil {
		return nil, err
	}
	return &m, nil
}

func decodeMealColumns(m *model.Meal, ingredients, instructions, tags string) error {
	if err := decodeJSON(ingredients, &m.Ingredients); err != nil {
		return fmt.Errorf("meal %d ingredients: %w", m.ID, err)
	}
	if err := decodeJSON(instructions, &m.Instructions); err != nil {
		return fmt.Errorf("meal %d instructions: %w", m.ID, err)
	}
	if err := decodeJSON(tags, &m.DietaryTags); err != nil {
		return fmt.Errorf("meal %d dietary tags: %w", m.ID, err)
	}
	return nil
}

const mealCols = `id, household_id, title, description, category, prep_time_minutes, cook_time_minutes, serving_size_base, ingredients, instructions, dietary_tags, ai_generated, source, created_at, updated_at`

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertMeal(ctx context.Context, ex execer, m model.Meal) (int64, error) {
	ingredients, err := encodeJSON(nonNil(m.Ingredients))
	if err != nil {
		return 0, err
	}
	instructions, err := encodeJSON(nonNil(m.Instructions))
	if err != nil {
		return 0, err
	}
	tags, err := encodeJSON(nonNil(m.DietaryTags))
	if err != nil {
		return 0, err
	}
	var householdID sql.NullInt64
	if m.HouseholdID != nil {
		householdID = sql.NullInt64{Int64: *m.HouseholdID, Valid: true}
	}
	source := m.Source
	if source == "" {
		source = "manual"
	}
	aiGenerated := 0
	if m.AIGenerated {
		aiGenerated = 1
	}

	result, err := ex.ExecContext(ctx,
		`INSERT INTO meals (household_id, title, description, category, prep_time_minutes, cook_time_minutes, serving_size_base, ingredients, instructions, dietary_tags, ai_generated, source)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		householdID, m.Title, m.Description, m.Category, m.PrepTimeMinutes, m.CookTimeMinutes,
		m.ServingSizeBase, ingredients, instructions, tags, aiGenerated, source,
	)
	if err != nil {
		return 0, fmt.Errorf("insert meal: %w", err)
	}
	return result.LastInsertId()
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func (s *MealStore) Create(ctx context.Context, m model.Meal) (*model.Meal, error) {
	id, err := insertMeal(ctx, s.db, m)
	if err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id)
}

// CreateBatch inserts all meals in one transaction. Either every meal is
// stored or none is.
func (s *MealStore) CreateBatch(ctx context.Context, meals []model.Meal) ([]model.Meal, error) {
	if len(meals) == 0 {
		return []model.Meal{}, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	saved := make([]model.Meal, 0, len(meals))
	for _, m := range meals {
		id, err := insertMeal(ctx, tx, m)
		if err != nil {
			return nil, err
		}
		row := tx.QueryRowContext(ctx, `SELECT `+mealCols+` FROM meals WHERE id = ?`, id)
		stored, err := scanMeal(row)
		if err != nil {
			return nil, fmt.Errorf("reload meal %d: %w", id, err)
		}
		saved = append(saved, *stored)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return saved, nil
}

func (s *MealStore) GetByID(ctx context.Context, id int64) (*model.Meal, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+mealCols+` FROM meals WHERE id = ?`, id)
	m, err := scanMeal(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get meal: %w", err)
	}
	return m, nil
}
