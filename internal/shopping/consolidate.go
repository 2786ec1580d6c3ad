package shopping

import (
	"fmt"
	"math"
	"strings"

	"github.com/dukerupert/mealwise/internal/model"
)

// ValidationError reports malformed input that prevents aggregation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

var staples = []string{"salt", "pepper", "oil", "butter", "flour", "sugar"}

// IsStaple reports whether name looks like a pantry staple most kitchens
// already stock.
func IsStaple(name string) bool {
	lower := strings.ToLower(name)
	for _, s := range staples {
		if strings.Contains(lower, s) {
			return true
		}
	}
	return false
}

// Consolidate merges the ingredients of every entry into one item per
// case-insensitive name. Quantities are scaled by the entry's serving
// multiplier and group multiplier before being summed. The unit of the first
// occurrence wins; units are never converted. Items are returned in first-seen
// order.
func Consolidate(entries []model.MealPlanEntry, groups []model.HouseholdGroup) ([]model.ShoppingListItem, error) {
	items := []model.ShoppingListItem{}
	index := make(map[string]int)

	for _, e := range entries {
		if e.Meal == nil || len(e.Meal.Ingredients) == 0 {
			continue
		}

		servings := e.ServingMultiplier
		if servings == 0 {
			servings = 1
		}
		if servings < 0 || math.IsNaN(servings) || math.IsInf(servings, 0) {
			return nil, &ValidationError{
				Field:   "serving_multiplier",
				Message: fmt.Sprintf("entry %d has invalid multiplier %v", e.ID, e.ServingMultiplier),
			}
		}
		factor := servings * GroupMultiplier(e.AssignedGroups, groups)

		for _, ing := range e.Meal.Ingredients {
			if strings.TrimSpace(ing.Name) == "" {
				return nil, &ValidationError{
					Field:   "ingredients.name",
					Message: fmt.Sprintf("meal %q has an ingredient without a name", e.Meal.Title),
				}
			}
			if ing.Quantity < 0 || math.IsNaN(ing.Quantity) || math.IsInf(ing.Quantity, 0) {
				return nil, &ValidationError{
					Field:   "ingredients.quantity",
					Message: fmt.Sprintf("ingredient %q in meal %q has invalid quantity %v", ing.Name, e.Meal.Title, ing.Quantity),
				}
			}

			key := strings.ToLower(ing.Name)
			qty := ing.Quantity * factor

			if i, ok := index[key]; ok {
				items[i].Quantity += qty
				items[i].MealSources = append(items[i].MealSources, e.Meal.Title)
				continue
			}

			index[key] = len(items)
			items = append(items, model.ShoppingListItem{
				IngredientID: fmt.Sprintf("%d_%s", e.Meal.ID, ing.Name),
				Name:         ing.Name,
				Quantity:     qty,
				Unit:         ing.Unit,
				Category:     model.ParseIngredientCategory(string(ing.Category)),
				IsStaple:     IsStaple(ing.Name),
				MealSources:  []string{e.Meal.Title},
			})
		}
	}
	return items, nil
}
