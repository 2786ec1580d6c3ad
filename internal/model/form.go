package model

import "time"

const (
	FormStatusActive = "active"
	FormStatusClosed = "closed"
)

const (
	QuestionMultipleChoice = "multiple_choice"
	QuestionSingleChoice   = "single_choice"
	QuestionText           = "text"
	QuestionRating         = "rating"
)

// MealForm collects preferences from household members for a meal plan.
type MealForm struct {
	ID          int64              `json:"id"`
	MealPlanID  int64              `json:"meal_plan_id"`
	HouseholdID int64              `json:"household_id"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Deadline    *time.Time         `json:"deadline"`
	Questions   []MealFormQuestion `json:"questions"`
	Status      string             `json:"status"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

// Open reports whether the form still accepts responses at now.
func (f MealForm) Open(now time.Time) bool {
	if f.Status != FormStatusActive {
		return false
	}
	return f.Deadline == nil || now.Before(*f.Deadline)
}

type MealFormQuestion struct {
	ID           string   `json:"id"`
	Question     string   `json:"question"`
	Type         string   `json:"type"`
	Options      []string `json:"options,omitempty"`
	Required     bool     `json:"required"`
	TargetGroups []int64  `json:"target_groups,omitempty"`
}

type MealFormResponse struct {
	ID          int64          `json:"id"`
	FormID      int64          `json:"form_id"`
	UserID      int64          `json:"user_id"`
	Responses   map[string]any `json:"responses"`
	SubmittedAt time.Time      `json:"submitted_at"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}
