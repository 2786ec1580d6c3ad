package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dukerupert/mealwise/internal/model"
)

type MealPlanStore struct {
	db *sql.DB
}

func NewMealPlanStore(db *sql.DB) *MealPlanStore {
	return &MealPlanStore{db: db}
}

func scanMealPlan(s scanner) (*model.MealPlan, error) {
	var p model.MealPlan
	var createdBy sql.NullInt64
	err := s.Scan(&p.ID, &p.HouseholdID, &p.WeekStartDate, &p.Status, &createdBy, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if createdBy.Valid {
		p.CreatedBy = &createdBy.Int64
	}
	return &p, nil
}

const mealPlanCols = `id, household_id, week_start_date, status, created_by, created_at, updated_at`

func (s *MealPlanStore) Create(ctx context.Context, householdID int64, weekStartDate string, createdBy *int64) (*model.MealPlan, error) {
	var cBy sql.NullInt64
	if createdBy != nil {
		cBy = sql.NullInt64{Int64: *createdBy, Valid: true}
	}
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO meal_plans (household_id, week_start_date, created_by) VALUES (?, ?, ?)`,
		householdID, weekStartDate, cBy,
	)
	if err != nil {
		return nil, fmt.Errorf("insert meal plan: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(ctx, id)
}

func (s *MealPlanStore) GetByID(ctx context.Context, id int64) (*model.MealPlan, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+mealPlanCols+` FROM meal_plans WHERE id = ?`, id)
	p, err := scanMealPlan(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get meal plan: %w", err)
	}
	return p, nil
}

func (s *MealPlanStore) AddEntry(ctx context.Context, e model.MealPlanEntry) (*model.MealPlanEntry, error) {
	groups, err := encodeJSON(nonNil(e.AssignedGroups))
	if err != nil {
		return nil, err
	}
	var cook sql.NullInt64
	if e.AssignedCook != nil {
		cook = sql.NullInt64{Int64: *e.AssignedCook, Valid: true}
	}
	multiplier := e.ServingMultiplier
	if multiplier == 0 {
		multiplier = 1
	}

	result, err := s.db.ExecContext(ctx,
		`INSERT INTO meal_plan_entries (meal_plan_id, meal_id, date, meal_time, assigned_groups, assigned_cook, serving_multiplier, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.MealPlanID, e.MealID, e.Date, e.MealTime, groups, cook, multiplier, e.Notes,
	)
	if err != nil {
		return nil, fmt.Errorf("insert meal plan entry: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	e.ID = id
	e.ServingMultiplier = multiplier
	return &e, nil
}

// ListEntries returns the plan's entries in schedule order with their meals
// attached.
func (s *MealPlanStore) ListEntries(ctx context.Context, mealPlanID int64) ([]model.MealPlanEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT e.id, e.meal_plan_id, e.meal_id, e.date, e.meal_time, e.assigned_groups, e.assigned_cook, e.serving_multiplier, e.notes,
			m.id, m.household_id, m.title, m.description, m.category, m.prep_time_minutes, m.cook_time_minutes, m.serving_size_base,
			m.ingredients, m.instructions, m.dietary_tags, m.ai_generated, m.source, m.created_at, m.updated_at
		FROM meal_plan_entries e
		JOIN meals m ON m.id = e.meal_id
		WHERE e.meal_plan_id = ?
		ORDER BY e.date ASC,
			CASE e.meal_time WHEN 'breakfast' THEN 0 WHEN 'lunch' THEN 1 WHEN 'dinner' THEN 2 ELSE 3 END ASC,
			e.id ASC`,
		mealPlanID,
	)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	var entries []model.MealPlanEntry
	for rows.Next() {
		var e model.MealPlanEntry
		var m model.Meal
		var groups, ingredients, instructions, tags string
		var cook, householdID sql.NullInt64
		var aiGenerated int
		err := rows.Scan(
			&e.ID, &e.MealPlanID, &e.MealID, &e.Date, &e.MealTime, &groups, &cook, &e.ServingMultiplier, &e.Notes,
			&m.ID, &householdID, &m.Title, &m.Description, &m.Category, &m.PrepTimeMinutes, &m.CookTimeMinutes, &m.ServingSizeBase,
			&ingredients, &instructions, &tags, &aiGenerated, &m.Source, &m.CreatedAt, &m.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		if err := decodeJSON(groups, &e.AssignedGroups); err != nil {
			return nil, fmt.Errorf("entry %d assigned groups: %w", e.ID, err)
		}
		if cook.Valid {
			e.AssignedCook = &cook.Int64
		}
		if householdID.Valid {
			m.HouseholdID = &householdID.Int64
		}
		m.AIGenerated = aiGenerated != 0
		if err := decodeMealColumns(&m, ingredients, instructions, tags); err != nil {
			return nil, err
		}
		e.Meal = &m
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
