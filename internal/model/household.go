package model

import "time"

type Household struct {
	ID               int64     `json:"id"`
	Name             string    `json:"name"`
	CreatedBy        *int64    `json:"created_by"`
	SubscriptionTier string    `json:"subscription_tier"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

type HouseholdMember struct {
	ID          int64     `json:"id"`
	HouseholdID int64     `json:"household_id"`
	UserID      int64     `json:"user_id"`
	Role        string    `json:"role"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// HouseholdGroup is a subset of a household's members sharing dietary
// constraints. The demographic counts drive serving calculations.
type HouseholdGroup struct {
	ID                  int64     `json:"id"`
	HouseholdID         int64     `json:"household_id"`
	Name                string    `json:"name"`
	Description         string    `json:"description"`
	AdultCount          int       `json:"adult_count"`
	TeenCount           int       `json:"teen_count"`
	ChildCount          int       `json:"child_count"`
	ToddlerCount        int       `json:"toddler_count"`
	DietaryRestrictions []string  `json:"dietary_restrictions"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// People returns the weighted head count of the group. Toddlers count as half.
func (g HouseholdGroup) People() float64 {
	return float64(g.AdultCount+g.TeenCount+g.ChildCount) + 0.5*float64(g.ToddlerCount)
}
