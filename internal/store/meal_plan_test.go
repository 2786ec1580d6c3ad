package store

import (
	"context"
	"testing"

	"github.com/dukerupert/mealwise/internal/model"
)

func TestMealPlanEntriesOrderedWithMeals(t *testing.T) {
	db := setupTestDB(t)
	u, h := seedHousehold(t, db)
	ctx := context.Background()
	ps := NewMealPlanStore(db)
	ms := NewMealStore(db)

	plan, err := ps.Create(ctx, h.ID, "2026-10-12", &u.ID)
	if err != nil {
		t.Fatalf("create plan: %v", err)
	}
	if plan.Status != model.MealPlanStatusDraft {
		t.Errorf("status = %q, want %q", plan.Status, model.MealPlanStatusDraft)
	}

	soup, _ := ms.Create(ctx, model.Meal{Title: "Soup", Ingredients: []model.Ingredient{{Name: "Carrot", Quantity: 2, Unit: "each", Category: model.CategoryProduce}}})
	oats, _ := ms.Create(ctx, model.Meal{Title: "Oats"})

	if _, err := ps.AddEntry(ctx, model.MealPlanEntry{MealPlanID: plan.ID, MealID: soup.ID, Date: "2026-10-13", MealTime: model.MealTimeDinner, AssignedGroups: []int64{1, 2}, ServingMultiplier: 1.5}); err != nil {
		t.Fatalf("add entry: %v", err)
	}
	if _, err := ps.AddEntry(ctx, model.MealPlanEntry{MealPlanID: plan.ID, MealID: oats.ID, Date: "2026-10-13", MealTime: model.MealTimeBreakfast}); err != nil {
		t.Fatalf("add entry: %v", err)
	}
	if _, err := ps.AddEntry(ctx, model.MealPlanEntry{MealPlanID: plan.ID, MealID: soup.ID, Date: "2026-10-12", MealTime: model.MealTimeLunch}); err != nil {
		t.Fatalf("add entry: %v", err)
	}

	entries, err := ps.ListEntries(ctx, plan.ID)
	if err != nil {
		t.Fatalf("list entries: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}

	wantOrder := []string{"2026-10-12/lunch", "2026-10-13/breakfast", "2026-10-13/dinner"}
	for i, e := range entries {
		if got := e.Date + "/" + e.MealTime; got != wantOrder[i] {
			t.Errorf("entry[%d] = %s, want %s", i, got, wantOrder[i])
		}
		if e.Meal == nil {
			t.Fatalf("entry[%d] has no meal", i)
		}
	}

	dinner := entries[2]
	if dinner.ServingMultiplier != 1.5 {
		t.Errorf("serving multiplier = %v, want 1.5", dinner.ServingMultiplier)
	}
	if len(dinner.AssignedGroups) != 2 {
		t.Errorf("assigned groups = %v, want 2 ids", dinner.AssignedGroups)
	}
	if len(dinner.Meal.Ingredients) != 1 || dinner.Meal.Ingredients[0].Name != "Carrot" {
		t.Errorf("ingredients = %+v", dinner.Meal.Ingredients)
	}
	if entries[1].ServingMultiplier != 1 {
		t.Errorf("default serving multiplier = %v, want 1", entries[1].ServingMultiplier)
	}
}

func TestMealPlanGetByIDNotFound(t *testing.T) {
	ps := NewMealPlanStore(setupTestDB(t))

	p, err := ps.GetByID(context.Background(), 404)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if p != nil {
		t.Error("expected nil for missing plan")
	}
}
