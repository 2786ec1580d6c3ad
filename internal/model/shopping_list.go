package model

import "time"

const (
	ShoppingListStatusDraft     = "draft"
	ShoppingListStatusGenerated = "generated"
	ShoppingListStatusExported  = "exported"
)

// IsShoppingListStatus reports whether s is a valid shopping list status.
func IsShoppingListStatus(s string) bool {
	switch s {
	case ShoppingListStatusDraft, ShoppingListStatusGenerated, ShoppingListStatusExported:
		return true
	}
	return false
}

type ShoppingListItem struct {
	IngredientID  string             `json:"ingredient_id"`
	Name          string             `json:"name"`
	Quantity      float64            `json:"quantity"`
	Unit          string             `json:"unit"`
	Category      IngredientCategory `json:"category"`
	EstimatedCost float64            `json:"estimated_cost"`
	IsStaple      bool               `json:"is_staple"`
	MealSources   []string           `json:"meal_sources"`
}

type ShoppingList struct {
	ID                 int64              `json:"id"`
	MealPlanID         int64              `json:"meal_plan_id"`
	HouseholdID        int64              `json:"household_id"`
	Items              []ShoppingListItem `json:"items"`
	Status             string             `json:"status"`
	TotalEstimatedCost float64            `json:"total_estimated_cost"`
	ExportLocation     string             `json:"export_location,omitempty"`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`
}
