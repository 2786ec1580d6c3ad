// Package seed loads households, groups, meals and meal plans from a YAML
// fixture. It is the way data enters the store outside of tests, since the
// API has no CRUD routes for these aggregates.
package seed

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"

	"gopkg.in/yaml.v3"

	"github.com/dukerupert/mealwise/internal/model"
	"github.com/dukerupert/mealwise/internal/store"
)

type Fixture struct {
	Users      []User      `yaml:"users"`
	Households []Household `yaml:"households"`
}

type User struct {
	Email       string `yaml:"email"`
	FullName    string `yaml:"full_name"`
	Demographic string `yaml:"demographic"`
}

type Household struct {
	Name    string   `yaml:"name"`
	Owner   string   `yaml:"owner"`
	Members []Member `yaml:"members"`
	Groups  []Group  `yaml:"groups"`
	Meals   []Meal   `yaml:"meals"`
	Plans   []Plan   `yaml:"plans"`
}

type Member struct {
	Email string `yaml:"email"`
	Role  string `yaml:"role"`
}

type Group struct {
	Name                string   `yaml:"name"`
	Description         string   `yaml:"description"`
	Adults              int      `yaml:"adults"`
	Teens               int      `yaml:"teens"`
	Children            int      `yaml:"children"`
	Toddlers            int      `yaml:"toddlers"`
	DietaryRestrictions []string `yaml:"dietary_restrictions"`
}

type Meal struct {
	Title           string       `yaml:"title"`
	Description     string       `yaml:"description"`
	Category        string       `yaml:"category"`
	PrepTimeMinutes int          `yaml:"prep_time_minutes"`
	CookTimeMinutes int          `yaml:"cook_time_minutes"`
	ServingSizeBase int          `yaml:"serving_size_base"`
	Ingredients     []Ingredient `yaml:"ingredients"`
	Instructions    []string     `yaml:"instructions"`
	DietaryTags     []string     `yaml:"dietary_tags"`
}

type Ingredient struct {
	Name     string  `yaml:"name"`
	Quantity float64 `yaml:"quantity"`
	Unit     string  `yaml:"unit"`
	Category string  `yaml:"category"`
}

type Plan struct {
	WeekStart string  `yaml:"week_start"`
	Entries   []Entry `yaml:"entries"`
}

// Entry refers to its meal by title and to groups by name.
type Entry struct {
	Meal              string   `yaml:"meal"`
	Date              string   `yaml:"date"`
	MealTime          string   `yaml:"meal_time"`
	Groups            []string `yaml:"groups"`
	ServingMultiplier float64  `yaml:"serving_multiplier"`
	Notes             string   `yaml:"notes"`
}

// Parse decodes a fixture, rejecting unknown fields.
func Parse(r io.Reader) (*Fixture, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var f Fixture
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decode fixture: %w", err)
	}
	return &f, nil
}

type Summary struct {
	Users      int
	Households int
	Groups     int
	Meals      int
	Plans      int
	Entries    int
}

type Loader struct {
	users      *store.UserStore
	households *store.HouseholdStore
	groups     *store.GroupStore
	meals      *store.MealStore
	plans      *store.MealPlanStore
	logger     *slog.Logger
}

func NewLoader(db *sql.DB, logger *slog.Logger) *Loader {
	return &Loader{
		users:      store.NewUserStore(db),
		households: store.NewHouseholdStore(db),
		groups:     store.NewGroupStore(db),
		meals:      store.NewMealStore(db),
		plans:      store.NewMealPlanStore(db),
		logger:     logger.With("component", "seed"),
	}
}

// Load inserts everything in f. Users that already exist (by email) are
// reused, so a fixture can be loaded into a database that has accounts.
func (l *Loader) Load(ctx context.Context, f *Fixture) (Summary, error) {
	var sum Summary
	userIDs := make(map[string]int64)

	for _, u := range f.Users {
		existing, err := l.users.GetByEmail(ctx, u.Email)
		if err != nil {
			return sum, err
		}
		if existing != nil {
			userIDs[u.Email] = existing.ID
			continue
		}
		demographic := u.Demographic
		if demographic == "" {
			demographic = "adult"
		}
		created, err := l.users.Create(ctx, u.Email, u.FullName, demographic)
		if err != nil {
			return sum, fmt.Errorf("user %s: %w", u.Email, err)
		}
		userIDs[u.Email] = created.ID
		sum.Users++
	}

	lookupUser := func(email string) (int64, error) {
		id, ok := userIDs[email]
		if !ok {
			return 0, fmt.Errorf("unknown user %q", email)
		}
		return id, nil
	}

	for _, h := range f.Households {
		if err := l.loadHousehold(ctx, h, lookupUser, &sum); err != nil {
			return sum, fmt.Errorf("household %s: %w", h.Name, err)
		}
	}

	l.logger.Info("fixture loaded",
		"users", sum.Users,
		"households", sum.Households,
		"groups", sum.Groups,
		"meals", sum.Meals,
		"plans", sum.Plans,
		"entries", sum.Entries,
	)
	return sum, nil
}

func (l *Loader) loadHousehold(ctx context.Context, h Household, lookupUser func(string) (int64, error), sum *Summary) error {
	var owner *int64
	if h.Owner != "" {
		id, err := lookupUser(h.Owner)
		if err != nil {
			return err
		}
		owner = &id
	}
	household, err := l.households.Create(ctx, h.Name, owner)
	if err != nil {
		return err
	}
	sum.Households++

	for _, m := range h.Members {
		id, err := lookupUser(m.Email)
		if err != nil {
			return err
		}
		role := m.Role
		if role == "" {
			role = "family_member"
		}
		if _, err := l.households.AddMember(ctx, household.ID, id, role); err != nil {
			return fmt.Errorf("member %s: %w", m.Email, err)
		}
	}

	groupIDs := make(map[string]int64, len(h.Groups))
	for _, g := range h.Groups {
		created, err := l.groups.Create(ctx, model.HouseholdGroup{
			HouseholdID:         household.ID,
			Name:                g.Name,
			Description:         g.Description,
			AdultCount:          g.Adults,
			TeenCount:           g.Teens,
			ChildCount:          g.Children,
			ToddlerCount:        g.Toddlers,
			DietaryRestrictions: g.DietaryRestrictions,
		})
		if err != nil {
			return fmt.Errorf("group %s: %w", g.Name, err)
		}
		groupIDs[g.Name] = created.ID
		sum.Groups++
	}

	mealIDs := make(map[string]int64, len(h.Meals))
	for _, m := range h.Meals {
		created, err := l.meals.Create(ctx, toMeal(household.ID, m))
		if err != nil {
			return fmt.Errorf("meal %s: %w", m.Title, err)
		}
		mealIDs[m.Title] = created.ID
		sum.Meals++
	}

	for _, p := range h.Plans {
		plan, err := l.plans.Create(ctx, household.ID, p.WeekStart, owner)
		if err != nil {
			return fmt.Errorf("plan %s: %w", p.WeekStart, err)
		}
		sum.Plans++

		for _, e := range p.Entries {
			mealID, ok := mealIDs[e.Meal]
			if !ok {
				return fmt.Errorf("plan %s: unknown meal %q", p.WeekStart, e.Meal)
			}
			groups := make([]int64, 0, len(e.Groups))
			for _, name := range e.Groups {
				id, ok := groupIDs[name]
				if !ok {
					return fmt.Errorf("plan %s: unknown group %q", p.WeekStart, name)
				}
				groups = append(groups, id)
			}
			mealTime := e.MealTime
			if mealTime == "" {
				mealTime = model.MealTimeDinner
			}
			_, err := l.plans.AddEntry(ctx, model.MealPlanEntry{
				MealPlanID:        plan.ID,
				MealID:            mealID,
				Date:              e.Date,
				MealTime:          mealTime,
				AssignedGroups:    groups,
				ServingMultiplier: e.ServingMultiplier,
				Notes:             e.Notes,
			})
			if err != nil {
				return fmt.Errorf("plan %s entry %s: %w", p.WeekStart, e.Meal, err)
			}
			sum.Entries++
		}
	}
	return nil
}

func toMeal(householdID int64, m Meal) model.Meal {
	ingredients := make([]model.Ingredient, len(m.Ingredients))
	for i, in := range m.Ingredients {
		ingredients[i] = model.Ingredient{
			Name:     in.Name,
			Quantity: in.Quantity,
			Unit:     in.Unit,
			Category: model.ParseIngredientCategory(in.Category),
		}
	}
	category := m.Category
	if category == "" {
		category = model.MealCategoryWholeHouse
	}
	return model.Meal{
		HouseholdID:     &householdID,
		Title:           m.Title,
		Description:     m.Description,
		Category:        category,
		PrepTimeMinutes: m.PrepTimeMinutes,
		CookTimeMinutes: m.CookTimeMinutes,
		ServingSizeBase: m.ServingSizeBase,
		Ingredients:     ingredients,
		Instructions:    m.Instructions,
		DietaryTags:     m.DietaryTags,
		Source:          "seed",
	}
}
