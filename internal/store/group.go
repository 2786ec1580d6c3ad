package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/dukerupert/mealwise/internal/model"
)

type GroupStore struct {
	db *sql.DB
}

func NewGroupStore(db *sql.DB) *GroupStore {
	return &GroupStore{db: db}
}

func scanGroup(s scanner) (*model.HouseholdGroup, error) {
	var g model.HouseholdGroup
	var restrictions string
	err := s.Scan(
		&g.ID, &g.HouseholdID, &g.Name, &g.Description,
		&g.AdultCount, &g.TeenCount, &g.ChildCount, &g.ToddlerCount,
		&restrictions, &g.CreatedAt, &g.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := decodeJSON(restrictions, &g.DietaryRestrictions); err != nil {
		return nil, fmt.Errorf("group %d restrictions: %w", g.ID, err)
	}
	if g.DietaryRestrictions == nil {
		g.DietaryRestrictions = []string{}
	}
	return &g, nil
}

const groupCols = `id, household_id, name, description, adult_count, teen_count, child_count, toddler_count, dietary_restrictions, created_at, updated_at`

func (s *GroupStore) Create(ctx context.Context, g model.HouseholdGroup) (*model.HouseholdGroup, error) {
	restrictions := g.DietaryRestrictions
	if restrictions == nil {
		restrictions = []string{}
	}
	encoded, err := encodeJSON(restrictions)
	if err != nil {
		return nil, err
	}

	result, err := s.db.ExecContext(ctx,
		`INSERT INTO household_groups (household_id, name, description, adult_count, teen_count, child_count, toddler_count, dietary_restrictions)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		g.HouseholdID, g.Name, g.Description, g.AdultCount, g.TeenCount, g.ChildCount, g.ToddlerCount, encoded,
	)
	if err != nil {
		return nil, fmt.Errorf("insert group: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(ctx, id)
}

func (s *GroupStore) GetByID(ctx context.Context, id int64) (*model.HouseholdGroup, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+groupCols+` FROM household_groups WHERE id = ?`, id)
	g, err := scanGroup(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get group: %w", err)
	}
	return g, nil
}

// ListByHousehold returns every group in the household.
func (s *GroupStore) ListByHousehold(ctx context.Context, householdID int64) ([]model.HouseholdGroup, error) {
	return s.query(ctx,
		`SELECT `+groupCols+` FROM household_groups WHERE household_id = ? ORDER BY id ASC`,
		householdID,
	)
}

// ListByIDs returns the household's groups whose id is in ids. Ids that do
// not exist or belong to another household are skipped.
func (s *GroupStore) ListByIDs(ctx context.Context, householdID int64, ids []int64) ([]model.HouseholdGroup, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(ids)), ", ")
	args := make([]any, 0, len(ids)+1)
	args = append(args, householdID)
	for _, id := range ids {
		args = append(args, id)
	}
	return s.query(ctx,
		`SELECT `+groupCols+` FROM household_groups WHERE household_id = ? AND id IN (`+placeholders+`) ORDER BY id ASC`,
		args...,
	)
}

func (s *GroupStore) query(ctx context.Context, q string, args ...any) ([]model.HouseholdGroup, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}
	defer rows.Close()

	var groups []model.HouseholdGroup
	for rows.Next() {
		g, err := scanGroup(rows)
		if err != nil {
			return nil, fmt.Errorf("scan group: %w", err)
		}
		groups = append(groups, *g)
	}
	return groups, rows.Err()
}
