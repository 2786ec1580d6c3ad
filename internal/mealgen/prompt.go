package mealgen

import (
	"bytes"
	_ "embed"
	"math"
	"strings"
	"text/template"

	"github.com/dukerupert/mealwise/internal/model"
)

//go:embed prompt.md
var promptText string

var promptTmpl = template.Must(template.New("meals").Funcs(template.FuncMap{
	"join": strings.Join,
}).Parse(promptText))

type promptData struct {
	MealCount            int
	Servings             int
	Categories           []string
	Restrictions         []string
	Exclude              []string
	Preferences          []string
	AllowedCategories    []string
	IngredientCategories []string
}

// Restrictions concatenates the dietary restrictions of every group. Values
// repeated across groups are kept.
func Restrictions(groups []model.HouseholdGroup) []string {
	out := []string{}
	for _, g := range groups {
		out = append(out, g.DietaryRestrictions...)
	}
	return out
}

// TotalServings sums the weighted head count of every group.
func TotalServings(groups []model.HouseholdGroup) float64 {
	var total float64
	for _, g := range groups {
		total += g.People()
	}
	return total
}

func buildPrompt(req Request, groups []model.HouseholdGroup) (string, error) {
	servings := int(math.Ceil(TotalServings(groups)))
	if servings == 0 {
		servings = defaultServings
	}

	ingCats := make([]string, len(model.IngredientCategories))
	for i, c := range model.IngredientCategories {
		ingCats[i] = string(c)
	}

	var buf bytes.Buffer
	err := promptTmpl.Execute(&buf, promptData{
		MealCount:            req.MealCount,
		Servings:             servings,
		Categories:           req.MealCategories,
		Restrictions:         Restrictions(groups),
		Exclude:              req.ExcludeIngredients,
		Preferences:          req.Preferences,
		AllowedCategories:    model.MealCategories,
		IngredientCategories: ingCats,
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
