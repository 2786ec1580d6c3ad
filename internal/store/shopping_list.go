package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dukerupert/mealwise/internal/model"
)

type ShoppingListStore struct {
	db *sql.DB
}

func NewShoppingListStore(db *sql.DB) *ShoppingListStore {
	return &ShoppingListStore{db: db}
}

func scanShoppingList(s scanner) (*model.ShoppingList, error) {
	var l model.ShoppingList
	var items string
	err := s.Scan(
		&l.ID, &l.MealPlanID, &l.HouseholdID, &items, &l.Status,
		&l.TotalEstimatedCost, &l.ExportLocation, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := decodeJSON(items, &l.Items); err != nil {
		return nil, fmt.Errorf("shopping list %d items: %w", l.ID, err)
	}
	if l.Items == nil {
		l.Items = []model.ShoppingListItem{}
	}
	return &l, nil
}

const shoppingListCols = `id, meal_plan_id, household_id, items, status, total_estimated_cost, export_location, created_at, updated_at`

// Create inserts the list. If the meal plan already has a list it returns
// ErrShoppingListExists.
func (s *ShoppingListStore) Create(ctx context.Context, l model.ShoppingList) (*model.ShoppingList, error) {
	items, err := encodeJSON(nonNil(l.Items))
	if err != nil {
		return nil, err
	}
	status := l.Status
	if status == "" {
		status = model.ShoppingListStatusGenerated
	}

	result, err := s.db.ExecContext(ctx,
		`INSERT INTO shopping_lists (meal_plan_id, household_id, items, status, total_estimated_cost) VALUES (?, ?, ?, ?, ?)`,
		l.MealPlanID, l.HouseholdID, items, status, l.TotalEstimatedCost,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrShoppingListExists
		}
		return nil, fmt.Errorf("insert shopping list: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(ctx, id)
}

func (s *ShoppingListStore) GetByID(ctx context.Context, id int64) (*model.ShoppingList, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+shoppingListCols+` FROM shopping_lists WHERE id = ?`, id)
	l, err := scanShoppingList(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get shopping list: %w", err)
	}
	return l, nil
}

func (s *ShoppingListStore) GetByMealPlanID(ctx context.Context, mealPlanID int64) (*model.ShoppingList, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+shoppingListCols+` FROM shopping_lists WHERE meal_plan_id = ?`, mealPlanID)
	l, err := scanShoppingList(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get shopping list by meal plan: %w", err)
	}
	return l, nil
}

func (s *ShoppingListStore) UpdateStatus(ctx context.Context, id int64, status string) (*model.ShoppingList, error) {
	_, err := s.db.ExecContext(ctx,
		`UPDATE shopping_lists SET status = ?, updated_at = ? WHERE id = ?`,
		status, time.Now().UTC(), id,
	)
	if err != nil {
		return nil, fmt.Errorf("update shopping list status: %w", err)
	}
	return s.GetByID(ctx, id)
}

// MarkExported records where the list was exported and flips its status.
func (s *ShoppingListStore) MarkExported(ctx context.Context, id int64, location string) (*model.ShoppingList, error) {
	_, err := s.db.ExecContext(ctx,
		`UPDATE shopping_lists SET status = ?, export_location = ?, updated_at = ? WHERE id = ?`,
		model.ShoppingListStatusExported, location, time.Now().UTC(), id,
	)
	if err != nil {
		return nil, fmt.Errorf("mark shopping list exported: %w", err)
	}
	return s.GetByID(ctx, id)
}
