package shopping

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/dukerupert/mealwise/internal/model"
)

func entry(mealID int64, title string, ings ...model.Ingredient) model.MealPlanEntry {
	return model.MealPlanEntry{
		MealID: mealID,
		Meal:   &model.Meal{ID: mealID, Title: title, Ingredients: ings},
	}
}

func TestConsolidateSingleIngredient(t *testing.T) {
	items, err := Consolidate([]model.MealPlanEntry{
		entry(7, "Omelette", model.Ingredient{Name: "Egg", Quantity: 2, Unit: "each", Category: "dairy"}),
	}, nil)
	if err != nil {
		t.Fatalf("Consolidate: %v", err)
	}

	want := []model.ShoppingListItem{{
		IngredientID: "7_Egg",
		Name:         "Egg",
		Quantity:     2,
		Unit:         "each",
		Category:     model.CategoryDairy,
		MealSources:  []string{"Omelette"},
	}}
	if diff := cmp.Diff(want, items); diff != "" {
		t.Errorf("items mismatch (-want +got):\n%s", diff)
	}
}

func TestConsolidateMergesCaseInsensitively(t *testing.T) {
	items, err := Consolidate([]model.MealPlanEntry{
		entry(1, "Omelette", model.Ingredient{Name: "egg", Quantity: 1, Unit: "each", Category: "dairy"}),
		entry(2, "Frittata", model.Ingredient{Name: "Egg", Quantity: 2, Unit: "dozen", Category: "produce"}),
	}, nil)
	if err != nil {
		t.Fatalf("Consolidate: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}

	got := items[0]
	if got.Quantity != 3 {
		t.Errorf("quantity = %v, want 3", got.Quantity)
	}
	if got.Name != "egg" || got.Unit != "each" || got.Category != model.CategoryDairy {
		t.Errorf("first occurrence not kept: %+v", got)
	}
	if got.IngredientID != "1_egg" {
		t.Errorf("ingredient id = %q, want %q", got.IngredientID, "1_egg")
	}
	if diff := cmp.Diff([]string{"Omelette", "Frittata"}, got.MealSources); diff != "" {
		t.Errorf("meal sources mismatch (-want +got):\n%s", diff)
	}
}

func TestConsolidateKeepsDuplicateSources(t *testing.T) {
	soup := entry(3, "Soup", model.Ingredient{Name: "Carrot", Quantity: 2, Unit: "each", Category: "produce"})
	items, err := Consolidate([]model.MealPlanEntry{soup, soup}, nil)
	if err != nil {
		t.Fatalf("Consolidate: %v", err)
	}
	if items[0].Quantity != 4 {
		t.Errorf("quantity = %v, want 4", items[0].Quantity)
	}
	if len(items[0].MealSources) != 2 {
		t.Errorf("meal sources = %v, want two entries", items[0].MealSources)
	}
}

func TestConsolidateScaling(t *testing.T) {
	groups := []model.HouseholdGroup{{ID: 10, AdultCount: 6, ToddlerCount: 4}} // 8 people
	e := entry(1, "Chili", model.Ingredient{Name: "Beans", Quantity: 2, Unit: "can", Category: "pantry"})
	e.AssignedGroups = []int64{10}
	e.ServingMultiplier = 1.5

	items, err := Consolidate([]model.MealPlanEntry{e}, groups)
	if err != nil {
		t.Fatalf("Consolidate: %v", err)
	}
	if items[0].Quantity != 6 {
		t.Errorf("quantity = %v, want 6 (2 * 1.5 * 2)", items[0].Quantity)
	}
}

func TestConsolidateZeroMultiplierMeansOne(t *testing.T) {
	e := entry(1, "Toast", model.Ingredient{Name: "Bread", Quantity: 2, Unit: "slice"})
	e.ServingMultiplier = 0

	items, err := Consolidate([]model.MealPlanEntry{e}, nil)
	if err != nil {
		t.Fatalf("Consolidate: %v", err)
	}
	if items[0].Quantity != 2 {
		t.Errorf("quantity = %v, want 2", items[0].Quantity)
	}
}

func TestConsolidateSkipsEmptyEntries(t *testing.T) {
	items, err := Consolidate([]model.MealPlanEntry{
		{MealID: 1},
		entry(2, "Water"),
	}, nil)
	if err != nil {
		t.Fatalf("Consolidate: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("expected no items, got %+v", items)
	}
	if items == nil {
		t.Error("expected empty slice, got nil")
	}
}

func TestConsolidateNormalizesCategory(t *testing.T) {
	items, err := Consolidate([]model.MealPlanEntry{
		entry(1, "Stir fry",
			model.Ingredient{Name: "Tofu", Quantity: 1, Category: "Protein"},
			model.Ingredient{Name: "Rice", Quantity: 1},
			model.Ingredient{Name: "Peas", Quantity: 1, Category: " FROZEN "},
		),
	}, nil)
	if err != nil {
		t.Fatalf("Consolidate: %v", err)
	}

	want := []model.IngredientCategory{model.CategoryOther, model.CategoryOther, model.CategoryFrozen}
	for i, item := range items {
		if item.Category != want[i] {
			t.Errorf("%s category = %q, want %q", item.Name, item.Category, want[i])
		}
	}
}

func TestConsolidateStaples(t *testing.T) {
	items, err := Consolidate([]model.MealPlanEntry{
		entry(1, "Bake",
			model.Ingredient{Name: "Olive Oil", Quantity: 1},
			model.Ingredient{Name: "Sea Salt", Quantity: 1},
			model.Ingredient{Name: "Chicken", Quantity: 1},
			model.Ingredient{Name: "Brown SUGAR", Quantity: 1},
		),
	}, nil)
	if err != nil {
		t.Fatalf("Consolidate: %v", err)
	}

	want := map[string]bool{"Olive Oil": true, "Sea Salt": true, "Chicken": false, "Brown SUGAR": true}
	for _, item := range items {
		if item.IsStaple != want[item.Name] {
			t.Errorf("%s staple = %v, want %v", item.Name, item.IsStaple, want[item.Name])
		}
	}
}

func TestConsolidateValidation(t *testing.T) {
	negMultiplier := entry(1, "Soup", model.Ingredient{Name: "Leek", Quantity: 1})
	negMultiplier.ServingMultiplier = -1

	tests := []struct {
		name  string
		entry model.MealPlanEntry
		field string
	}{
		{"negative quantity", entry(1, "Soup", model.Ingredient{Name: "Leek", Quantity: -1}), "ingredients.quantity"},
		{"NaN quantity", entry(1, "Soup", model.Ingredient{Name: "Leek", Quantity: math.NaN()}), "ingredients.quantity"},
		{"infinite quantity", entry(1, "Soup", model.Ingredient{Name: "Leek", Quantity: math.Inf(1)}), "ingredients.quantity"},
		{"blank name", entry(1, "Soup", model.Ingredient{Name: "  ", Quantity: 1}), "ingredients.name"},
		{"negative multiplier", negMultiplier, "serving_multiplier"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Consolidate([]model.MealPlanEntry{tt.entry}, nil)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("err = %v, want *ValidationError", err)
			}
			if verr.Field != tt.field {
				t.Errorf("field = %q, want %q", verr.Field, tt.field)
			}
		})
	}
}

func TestConsolidatePreservesDistinctNames(t *testing.T) {
	e := entry(1, "Salad",
		model.Ingredient{Name: "Lettuce", Quantity: 1},
		model.Ingredient{Name: "Tomato", Quantity: 2},
		model.Ingredient{Name: "Cucumber", Quantity: 1},
	)
	items, err := Consolidate([]model.MealPlanEntry{e}, nil)
	if err != nil {
		t.Fatalf("Consolidate: %v", err)
	}

	names := make([]string, len(items))
	for i, item := range items {
		names[i] = item.Name
	}
	want := []string{"Lettuce", "Tomato", "Cucumber"}
	if diff := cmp.Diff(want, names, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("names mismatch (-want +got):\n%s", diff)
	}
}
