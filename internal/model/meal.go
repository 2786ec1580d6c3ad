package model

import (
	"strings"
	"time"
)

type IngredientCategory string

const (
	CategoryProduce IngredientCategory = "produce"
	CategoryMeat    IngredientCategory = "meat"
	CategoryDairy   IngredientCategory = "dairy"
	CategoryPantry  IngredientCategory = "pantry"
	CategoryFrozen  IngredientCategory = "frozen"
	CategoryOther   IngredientCategory = "other"
)

// IngredientCategories lists the known categories in shopping order.
var IngredientCategories = []IngredientCategory{
	CategoryProduce,
	CategoryMeat,
	CategoryDairy,
	CategoryPantry,
	CategoryFrozen,
	CategoryOther,
}

// ParseIngredientCategory folds s onto a known category. Empty and
// unrecognized values become CategoryOther.
func ParseIngredientCategory(s string) IngredientCategory {
	c := IngredientCategory(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range IngredientCategories {
		if c == known {
			return c
		}
	}
	return CategoryOther
}

type Ingredient struct {
	Name     string             `json:"name"`
	Quantity float64            `json:"quantity"`
	Unit     string             `json:"unit"`
	Category IngredientCategory `json:"category"`
}

const (
	MealCategoryWholeHouse    = "whole_house"
	MealCategoryGroupSpecific = "group_specific"
	MealCategoryIndividual    = "individual"
	MealCategoryBreakfast     = "breakfast"
	MealCategoryBackup        = "backup"
)

var MealCategories = []string{
	MealCategoryWholeHouse,
	MealCategoryGroupSpecific,
	MealCategoryIndividual,
	MealCategoryBreakfast,
	MealCategoryBackup,
}

// IsMealCategory reports whether s is one of MealCategories.
func IsMealCategory(s string) bool {
	for _, c := range MealCategories {
		if c == s {
			return true
		}
	}
	return false
}

type Meal struct {
	ID              int64        `json:"id"`
	HouseholdID     *int64       `json:"household_id"`
	Title           string       `json:"title"`
	Description     string       `json:"description"`
	Category        string       `json:"category"`
	PrepTimeMinutes int          `json:"prep_time_minutes"`
	CookTimeMinutes int          `json:"cook_time_minutes"`
	ServingSizeBase int          `json:"serving_size_base"`
	Ingredients     []Ingredient `json:"ingredients"`
	Instructions    []string     `json:"instructions"`
	DietaryTags     []string     `json:"dietary_tags"`
	AIGenerated     bool         `json:"ai_generated"`
	Source          string       `json:"source"`
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`
}
