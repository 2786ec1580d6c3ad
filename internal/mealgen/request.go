package mealgen

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/dukerupert/mealwise/internal/model"
)

const (
	defaultMealCount = 5
	maxMealCount     = 20
	defaultServings  = 4
)

// ErrInvalidRequest wraps every request validation failure.
var ErrInvalidRequest = errors.New("invalid request")

// Request is the input to a generation run.
type Request struct {
	HouseholdID        int64    `json:"household_id"`
	GroupIDs           []int64  `json:"group_ids"`
	MealCategories     []string `json:"meal_categories"`
	Preferences        []string `json:"preferences,omitempty"`
	ExcludeIngredients []string `json:"exclude_ingredients,omitempty"`
	MealCount          int      `json:"meal_count,omitempty"`
	FormID             *int64   `json:"form_id,omitempty"`
}

// Normalize applies defaults and rejects requests that cannot be served.
func (r *Request) Normalize() error {
	if r.HouseholdID <= 0 {
		return fmt.Errorf("%w: household_id is required", ErrInvalidRequest)
	}
	if len(r.MealCategories) == 0 {
		return fmt.Errorf("%w: meal_categories is required", ErrInvalidRequest)
	}
	for _, c := range r.MealCategories {
		if !model.IsMealCategory(c) {
			return fmt.Errorf("%w: unknown meal category %q", ErrInvalidRequest, c)
		}
	}
	if r.MealCount == 0 {
		r.MealCount = defaultMealCount
	}
	if r.MealCount < 1 || r.MealCount > maxMealCount {
		return fmt.Errorf("%w: meal_count must be between 1 and %d", ErrInvalidRequest, maxMealCount)
	}
	r.Preferences = trimAll(r.Preferences)
	r.ExcludeIngredients = trimAll(r.ExcludeIngredients)
	return nil
}

func trimAll(in []string) []string {
	var out []string
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// formPreferences flattens text and choice answers into preference strings.
// Ratings and other non-text answers are ignored. Values are deduplicated
// case-insensitively and ordered by response, then question id.
func formPreferences(existing []string, responses []model.MealFormResponse) []string {
	seen := make(map[string]bool, len(existing))
	out := make([]string, 0, len(existing))
	add := func(s string) {
		s = strings.TrimSpace(s)
		key := strings.ToLower(s)
		if s == "" || seen[key] {
			return
		}
		seen[key] = true
		out = append(out, s)
	}

	for _, p := range existing {
		add(p)
	}
	for _, r := range responses {
		for _, qid := range slices.Sorted(maps.Keys(r.Responses)) {
			switch v := r.Responses[qid].(type) {
			case string:
				add(v)
			case []any:
				for _, item := range v {
					if s, ok := item.(string); ok {
						add(s)
					}
				}
			}
		}
	}
	return out
}
