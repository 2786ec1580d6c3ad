package shopping

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/dukerupert/mealwise/internal/metrics"
	"github.com/dukerupert/mealwise/internal/model"
	"github.com/dukerupert/mealwise/internal/store"
)

// ErrMealPlanNotFound is returned when the meal plan does not exist or
// belongs to another household.
var ErrMealPlanNotFound = errors.New("meal plan not found")

const msgAlreadyExists = "Shopping list already exists"

type MealPlanReader interface {
	GetByID(ctx context.Context, id int64) (*model.MealPlan, error)
	ListEntries(ctx context.Context, mealPlanID int64) ([]model.MealPlanEntry, error)
}

type GroupReader interface {
	ListByHousehold(ctx context.Context, householdID int64) ([]model.HouseholdGroup, error)
}

type ListRepository interface {
	Create(ctx context.Context, l model.ShoppingList) (*model.ShoppingList, error)
	GetByMealPlanID(ctx context.Context, mealPlanID int64) (*model.ShoppingList, error)
}

// Result describes the outcome of a generation request.
type Result struct {
	List       *model.ShoppingList
	Created    bool
	ItemsCount int
	Categories map[string]int
	Message    string
}

// Aggregator builds and stores the shopping list for a meal plan.
type Aggregator struct {
	plans   MealPlanReader
	groups  GroupReader
	lists   ListRepository
	metrics *metrics.Metrics
	logger  *slog.Logger
}

func NewAggregator(plans MealPlanReader, groups GroupReader, lists ListRepository, m *metrics.Metrics, logger *slog.Logger) *Aggregator {
	return &Aggregator{
		plans:   plans,
		groups:  groups,
		lists:   lists,
		metrics: m,
		logger:  logger.With("component", "shopping"),
	}
}

// Generate returns the shopping list for the meal plan, creating it on the
// first call. At most one list is ever stored per meal plan; concurrent
// callers that lose the insert race receive the winner's list.
func (a *Aggregator) Generate(ctx context.Context, mealPlanID, householdID int64) (*Result, error) {
	plan, err := a.plans.GetByID(ctx, mealPlanID)
	if err != nil {
		return nil, fmt.Errorf("load meal plan: %w", err)
	}
	if plan == nil || plan.HouseholdID != householdID {
		return nil, ErrMealPlanNotFound
	}

	existing, err := a.lists.GetByMealPlanID(ctx, mealPlanID)
	if err != nil {
		return nil, fmt.Errorf("check existing list: %w", err)
	}
	if existing != nil {
		a.metrics.ShoppingListGenerated("existing")
		return existingResult(existing), nil
	}

	var (
		entries []model.MealPlanEntry
		groups  []model.HouseholdGroup
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		entries, err = a.plans.ListEntries(gctx, mealPlanID)
		if err != nil {
			return fmt.Errorf("load meal plan entries: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		groups, err = a.groups.ListByHousehold(gctx, householdID)
		if err != nil {
			return fmt.Errorf("load household groups: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	items, err := Consolidate(entries, groups)
	if err != nil {
		return nil, err
	}
	Sort(items)
	total := EstimateCost(items)

	list, err := a.lists.Create(ctx, model.ShoppingList{
		MealPlanID:         mealPlanID,
		HouseholdID:        householdID,
		Items:              items,
		Status:             model.ShoppingListStatusGenerated,
		TotalEstimatedCost: total,
	})
	if errors.Is(err, store.ErrShoppingListExists) {
		winner, err := a.lists.GetByMealPlanID(ctx, mealPlanID)
		if err != nil {
			return nil, fmt.Errorf("load existing list: %w", err)
		}
		if winner == nil {
			return nil, fmt.Errorf("shopping list for meal plan %d vanished after conflict", mealPlanID)
		}
		a.metrics.ShoppingListGenerated("existing")
		return existingResult(winner), nil
	}
	if err != nil {
		return nil, fmt.Errorf("save shopping list: %w", err)
	}

	a.metrics.ShoppingListGenerated("created")
	a.metrics.ShoppingListItems(len(items))
	a.logger.Info("shopping list generated",
		"meal_plan_id", mealPlanID,
		"household_id", householdID,
		"items", len(items),
		"total_estimated_cost", total,
	)

	return &Result{
		List:       list,
		Created:    true,
		ItemsCount: len(list.Items),
		Categories: CategoryBreakdown(list.Items),
	}, nil
}

func existingResult(l *model.ShoppingList) *Result {
	return &Result{
		List:       l,
		ItemsCount: len(l.Items),
		Categories: CategoryBreakdown(l.Items),
		Message:    msgAlreadyExists,
	}
}
