package mealgen

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/dukerupert/mealwise/internal/model"
)

// ErrMalformedResponse is returned when the model reply is not a meal list.
var ErrMalformedResponse = errors.New("invalid response format from AI service")

type generatedMeal struct {
	Title           string             `json:"title"`
	Description     string             `json:"description"`
	Category        string             `json:"category"`
	PrepTimeMinutes int                `json:"prep_time_minutes"`
	CookTimeMinutes int                `json:"cook_time_minutes"`
	ServingSizeBase int                `json:"serving_size_base"`
	Ingredients     []model.Ingredient `json:"ingredients"`
	Instructions    []string           `json:"instructions"`
	DietaryTags     []string           `json:"dietary_tags"`
}

// stripFence removes a surrounding markdown code fence, if any.
func stripFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	} else {
		s = ""
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// parseMeals decodes the model reply. Both a bare array and an object with a
// "meals" array are accepted.
func parseMeals(content string) ([]generatedMeal, error) {
	body := []byte(stripFence(content))

	var meals []generatedMeal
	switch {
	case bytes.HasPrefix(body, []byte("[")):
		if err := json.Unmarshal(body, &meals); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
		}
	case bytes.HasPrefix(body, []byte("{")):
		var wrapped struct {
			Meals *[]generatedMeal `json:"meals"`
		}
		if err := json.Unmarshal(body, &wrapped); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
		}
		if wrapped.Meals == nil {
			return nil, fmt.Errorf("%w: object has no meals array", ErrMalformedResponse)
		}
		meals = *wrapped.Meals
	default:
		return nil, fmt.Errorf("%w: expected a JSON array", ErrMalformedResponse)
	}

	if len(meals) == 0 {
		return nil, fmt.Errorf("%w: no meals returned", ErrMalformedResponse)
	}
	return meals, nil
}

// toMeals validates the decoded meals and converts them for storage.
func toMeals(generated []generatedMeal, householdID int64, source string) ([]model.Meal, error) {
	out := make([]model.Meal, 0, len(generated))
	for i, g := range generated {
		title := strings.TrimSpace(g.Title)
		if title == "" {
			return nil, fmt.Errorf("%w: meal %d has no title", ErrMalformedResponse, i)
		}

		ingredients := make([]model.Ingredient, 0, len(g.Ingredients))
		for _, ing := range g.Ingredients {
			name := strings.TrimSpace(ing.Name)
			if name == "" {
				return nil, fmt.Errorf("%w: meal %q has an ingredient without a name", ErrMalformedResponse, title)
			}
			if ing.Quantity < 0 {
				return nil, fmt.Errorf("%w: ingredient %q has negative quantity", ErrMalformedResponse, name)
			}
			ingredients = append(ingredients, model.Ingredient{
				Name:     name,
				Quantity: ing.Quantity,
				Unit:     strings.TrimSpace(ing.Unit),
				Category: model.ParseIngredientCategory(string(ing.Category)),
			})
		}

		category := g.Category
		if !model.IsMealCategory(category) {
			category = model.MealCategoryWholeHouse
		}
		serving := g.ServingSizeBase
		if serving <= 0 {
			serving = defaultServings
		}

		out = append(out, model.Meal{
			HouseholdID:     &householdID,
			Title:           title,
			Description:     g.Description,
			Category:        category,
			PrepTimeMinutes: max(g.PrepTimeMinutes, 0),
			CookTimeMinutes: max(g.CookTimeMinutes, 0),
			ServingSizeBase: serving,
			Ingredients:     ingredients,
			Instructions:    g.Instructions,
			DietaryTags:     g.DietaryTags,
			AIGenerated:     true,
			Source:          source,
		})
	}
	return out, nil
}
