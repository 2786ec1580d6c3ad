// Package shopping turns a meal plan into a consolidated, sorted and costed
// shopping list.
package shopping

import "github.com/dukerupert/mealwise/internal/model"

// BaselineServings is the household size recipes are written for.
const BaselineServings = 4

// GroupMultiplier returns the factor by which ingredient quantities are
// scaled for the assigned groups. Ids that match no group are skipped. The
// result is never below 1, and an empty assignment yields exactly 1.
func GroupMultiplier(assigned []int64, groups []model.HouseholdGroup) float64 {
	if len(assigned) == 0 {
		return 1
	}

	byID := make(map[int64]model.HouseholdGroup, len(groups))
	for _, g := range groups {
		byID[g.ID] = g
	}

	var people float64
	for _, id := range assigned {
		if g, ok := byID[id]; ok {
			people += g.People()
		}
	}
	return max(people/BaselineServings, 1)
}
