package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dukerupert/mealwise/internal/model"
)

type HouseholdStore struct {
	db *sql.DB
}

func NewHouseholdStore(db *sql.DB) *HouseholdStore {
	return &HouseholdStore{db: db}
}

func scanHousehold(s scanner) (*model.Household, error) {
	var h model.Household
	var createdBy sql.NullInt64
	err := s.Scan(&h.ID, &h.Name, &createdBy, &h.SubscriptionTier, &h.CreatedAt, &h.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if createdBy.Valid {
		h.CreatedBy = &createdBy.Int64
	}
	return &h, nil
}

func scanHouseholdMember(s scanner) (*model.HouseholdMember, error) {
	var m model.HouseholdMember
	err := s.Scan(&m.ID, &m.HouseholdID, &m.UserID, &m.Role, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

const householdCols = `id, name, created_by, subscription_tier, created_at, updated_at`
const householdMemberCols = `id, household_id, user_id, role, created_at, updated_at`

// Create inserts a household. When createdBy is set, that user is added as
// the household's primary cook.
func (s *HouseholdStore) Create(ctx context.Context, name string, createdBy *int64) (*model.Household, error) {
	var cBy sql.NullInt64
	if createdBy != nil {
		cBy = sql.NullInt64{Int64: *createdBy, Valid: true}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `INSERT INTO households (name, created_by) VALUES (?, ?)`, name, cBy)
	if err != nil {
		return nil, fmt.Errorf("insert household: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	if createdBy != nil {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO household_members (household_id, user_id, role) VALUES (?, ?, 'primary_cook')`,
			id, *createdBy,
		)
		if err != nil {
			return nil, fmt.Errorf("add creator: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return s.GetByID(ctx, id)
}

func (s *HouseholdStore) GetByID(ctx context.Context, id int64) (*model.Household, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+householdCols+` FROM households WHERE id = ?`, id)
	h, err := scanHousehold(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get household: %w", err)
	}
	return h, nil
}

func (s *HouseholdStore) AddMember(ctx context.Context, householdID, userID int64, role string) (*model.HouseholdMember, error) {
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO household_members (household_id, user_id, role) VALUES (?, ?, ?)`,
		householdID, userID, role,
	)
	if err != nil {
		return nil, fmt.Errorf("add member: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	row := s.db.QueryRowContext(ctx, `SELECT `+householdMemberCols+` FROM household_members WHERE id = ?`, id)
	return scanHouseholdMember(row)
}

func (s *HouseholdStore) GetMember(ctx context.Context, householdID, userID int64) (*model.HouseholdMember, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+householdMemberCols+` FROM household_members WHERE household_id = ? AND user_id = ?`,
		householdID, userID,
	)
	m, err := scanHouseholdMember(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get member: %w", err)
	}
	return m, nil
}

func (s *HouseholdStore) ListForUser(ctx context.Context, userID int64) ([]model.Household, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT h.id, h.name, h.created_by, h.subscription_tier, h.created_at, h.updated_at
		FROM households h
		JOIN household_members hm ON hm.household_id = h.id
		WHERE hm.user_id = ?
		ORDER BY h.name ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list households for user: %w", err)
	}
	defer rows.Close()

	var households []model.Household
	for rows.Next() {
		h, err := scanHousehold(rows)
		if err != nil {
			return nil, fmt.Errorf("scan household: %w", err)
		}
		households = append(households, *h)
	}
	return households, rows.Err()
}
