package store

import (
	"context"
	"errors"
	"testing"

	"github.com/dukerupert/mealwise/internal/model"
)

func setupShoppingList(t *testing.T) (*ShoppingListStore, *model.MealPlan) {
	t.Helper()
	db := setupTestDB(t)
	u, h := seedHousehold(t, db)
	plan, err := NewMealPlanStore(db).Create(context.Background(), h.ID, "2026-10-12", &u.ID)
	if err != nil {
		t.Fatalf("create plan: %v", err)
	}
	return NewShoppingListStore(db), plan
}

func TestShoppingListCreate(t *testing.T) {
	sls, plan := setupShoppingList(t)
	ctx := context.Background()

	l, err := sls.Create(ctx, model.ShoppingList{
		MealPlanID:  plan.ID,
		HouseholdID: plan.HouseholdID,
		Items: []model.ShoppingListItem{
			{IngredientID: "1_Egg", Name: "Egg", Quantity: 3, Unit: "each", Category: model.CategoryDairy, MealSources: []string{"Omelette", "Omelette"}},
		},
		TotalEstimatedCost: 5.25,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if l.Status != model.ShoppingListStatusGenerated {
		t.Errorf("status = %q, want %q", l.Status, model.ShoppingListStatusGenerated)
	}
	if l.TotalEstimatedCost != 5.25 {
		t.Errorf("cost = %v, want 5.25", l.TotalEstimatedCost)
	}
	if len(l.Items) != 1 || len(l.Items[0].MealSources) != 2 {
		t.Errorf("items = %+v", l.Items)
	}

	byPlan, err := sls.GetByMealPlanID(ctx, plan.ID)
	if err != nil {
		t.Fatalf("get by plan: %v", err)
	}
	if byPlan == nil || byPlan.ID != l.ID {
		t.Errorf("get by plan = %+v, want id %d", byPlan, l.ID)
	}
}

func TestShoppingListCreateDuplicate(t *testing.T) {
	sls, plan := setupShoppingList(t)
	ctx := context.Background()

	list := model.ShoppingList{MealPlanID: plan.ID, HouseholdID: plan.HouseholdID}
	if _, err := sls.Create(ctx, list); err != nil {
		t.Fatalf("first create: %v", err)
	}
	_, err := sls.Create(ctx, list)
	if !errors.Is(err, ErrShoppingListExists) {
		t.Fatalf("second create err = %v, want ErrShoppingListExists", err)
	}
}

func TestShoppingListStatusAndExport(t *testing.T) {
	sls, plan := setupShoppingList(t)
	ctx := context.Background()

	l, _ := sls.Create(ctx, model.ShoppingList{MealPlanID: plan.ID, HouseholdID: plan.HouseholdID})

	updated, err := sls.UpdateStatus(ctx, l.ID, model.ShoppingListStatusDraft)
	if err != nil {
		t.Fatalf("update status: %v", err)
	}
	if updated.Status != model.ShoppingListStatusDraft {
		t.Errorf("status = %q, want %q", updated.Status, model.ShoppingListStatusDraft)
	}

	exported, err := sls.MarkExported(ctx, l.ID, "s3://lists/plan-1.csv")
	if err != nil {
		t.Fatalf("mark exported: %v", err)
	}
	if exported.Status != model.ShoppingListStatusExported {
		t.Errorf("status = %q, want %q", exported.Status, model.ShoppingListStatusExported)
	}
	if exported.ExportLocation != "s3://lists/plan-1.csv" {
		t.Errorf("location = %q", exported.ExportLocation)
	}
}

func TestShoppingListGetByMealPlanIDMissing(t *testing.T) {
	sls, plan := setupShoppingList(t)

	l, err := sls.GetByMealPlanID(context.Background(), plan.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if l != nil {
		t.Error("expected nil before generation")
	}
}
