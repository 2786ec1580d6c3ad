package shopping

import (
	"testing"

	"github.com/dukerupert/mealwise/internal/model"
)

func TestGroupMultiplier(t *testing.T) {
	groups := []model.HouseholdGroup{
		{ID: 1, AdultCount: 2},
		{ID: 2, AdultCount: 2, TeenCount: 1, ChildCount: 2, ToddlerCount: 1},
		{ID: 3, ToddlerCount: 2},
	}

	tests := []struct {
		name     string
		assigned []int64
		want     float64
	}{
		{"no assignment", nil, 1},
		{"empty assignment", []int64{}, 1},
		{"small group floors at one", []int64{1}, 1},
		{"large group", []int64{2}, 5.5 / 4},
		{"two groups", []int64{1, 2}, 7.5 / 4},
		{"unknown ids skipped", []int64{99, 2}, 5.5 / 4},
		{"only unknown ids", []int64{42}, 1},
		{"toddlers count half", []int64{3}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GroupMultiplier(tt.assigned, groups)
			if got != tt.want {
				t.Errorf("GroupMultiplier(%v) = %v, want %v", tt.assigned, got, tt.want)
			}
		})
	}
}

func TestGroupMultiplierNeverBelowOne(t *testing.T) {
	groups := []model.HouseholdGroup{{ID: 1}, {ID: 2, ChildCount: 1}, {ID: 3, AdultCount: 40}}
	for _, assigned := range [][]int64{{1}, {2}, {1, 2}, {3}, {1, 2, 3}} {
		if got := GroupMultiplier(assigned, groups); got < 1 {
			t.Errorf("GroupMultiplier(%v) = %v, want >= 1", assigned, got)
		}
	}
}
