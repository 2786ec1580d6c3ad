package shopping

import (
	"slices"
	"strings"

	"github.com/dukerupert/mealwise/internal/model"
)

func categoryRank(c model.IngredientCategory) int {
	if i := slices.Index(model.IngredientCategories, c); i >= 0 {
		return i
	}
	return len(model.IngredientCategories)
}

// Sort orders items by store section, then by name ignoring case. Items in
// categories outside the known list go last. Sorting is stable and sorting an
// already sorted slice leaves it unchanged.
func Sort(items []model.ShoppingListItem) {
	slices.SortStableFunc(items, func(a, b model.ShoppingListItem) int {
		if d := categoryRank(a.Category) - categoryRank(b.Category); d != 0 {
			return d
		}
		if c := strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)); c != 0 {
			return c
		}
		return strings.Compare(a.Name, b.Name)
	})
}
