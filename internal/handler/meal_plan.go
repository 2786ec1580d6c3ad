package handler

import (
	"log/slog"
	"net/http"

	"github.com/dukerupert/mealwise/internal/auth"
	"github.com/dukerupert/mealwise/internal/model"
	"github.com/dukerupert/mealwise/internal/store"
)

type MealPlanHandler struct {
	plans   *store.MealPlanStore
	members MemberChecker
	logger  *slog.Logger
}

func NewMealPlanHandler(plans *store.MealPlanStore, members MemberChecker, logger *slog.Logger) *MealPlanHandler {
	return &MealPlanHandler{plans: plans, members: members, logger: logger}
}

func (h *MealPlanHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	plan, err := h.plans.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	if plan == nil {
		writeError(w, http.StatusNotFound, "meal plan not found")
		return
	}
	if !requireMember(w, r, h.members, h.logger, plan.HouseholdID, auth.UserID(r.Context())) {
		return
	}

	entries, err := h.plans.ListEntries(r.Context(), plan.ID)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	if entries == nil {
		entries = []model.MealPlanEntry{}
	}
	plan.Entries = entries
	writeJSON(w, http.StatusOK, plan)
}
