package model

import "time"

const (
	MealPlanStatusDraft               = "draft"
	MealPlanStatusCollectingResponses = "collecting_responses"
	MealPlanStatusFinalized           = "finalized"
)

type MealPlan struct {
	ID            int64           `json:"id"`
	HouseholdID   int64           `json:"household_id"`
	WeekStartDate string          `json:"week_start_date"`
	Status        string          `json:"status"`
	CreatedBy     *int64          `json:"created_by"`
	Entries       []MealPlanEntry `json:"entries,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

const (
	MealTimeBreakfast = "breakfast"
	MealTimeLunch     = "lunch"
	MealTimeDinner    = "dinner"
	MealTimeSnack     = "snack"
)

// MealPlanEntry is a single scheduled occurrence of a meal.
// ServingMultiplier is a manual scale factor independent of the assigned
// groups; zero is treated as 1.
type MealPlanEntry struct {
	ID                int64   `json:"id"`
	MealPlanID        int64   `json:"meal_plan_id"`
	MealID            int64   `json:"meal_id"`
	Meal              *Meal   `json:"meal,omitempty"`
	Date              string  `json:"date"`
	MealTime          string  `json:"meal_time"`
	AssignedGroups    []int64 `json:"assigned_groups"`
	AssignedCook      *int64  `json:"assigned_cook"`
	ServingMultiplier float64 `json:"serving_multiplier"`
	Notes             string  `json:"notes"`
}
