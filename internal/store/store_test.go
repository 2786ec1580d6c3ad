package store

import (
	"context"
	"database/sql"
	"testing"

	"github.com/dukerupert/mealwise/internal/database"
	"github.com/dukerupert/mealwise/internal/model"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// seedHousehold creates a user and a household owned by that user.
func seedHousehold(t *testing.T, db *sql.DB) (*model.User, *model.Household) {
	t.Helper()
	ctx := context.Background()
	u, err := NewUserStore(db).Create(ctx, "alice@example.com", "Alice", "adult")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	h, err := NewHouseholdStore(db).Create(ctx, "The Smiths", &u.ID)
	if err != nil {
		t.Fatalf("create household: %v", err)
	}
	return u, h
}
