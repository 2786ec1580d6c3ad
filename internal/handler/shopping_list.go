package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/dukerupert/mealwise/internal/auth"
	"github.com/dukerupert/mealwise/internal/export"
	"github.com/dukerupert/mealwise/internal/model"
	"github.com/dukerupert/mealwise/internal/shopping"
	"github.com/dukerupert/mealwise/internal/store"
	"github.com/dukerupert/mealwise/internal/websocket"
)

type ShoppingListHandler struct {
	aggregator *shopping.Aggregator
	lists      *store.ShoppingListStore
	exporter   *export.Exporter
	members    MemberChecker
	hub        Broadcaster
	logger     *slog.Logger
}

func NewShoppingListHandler(agg *shopping.Aggregator, lists *store.ShoppingListStore, exporter *export.Exporter, members MemberChecker, hub Broadcaster, logger *slog.Logger) *ShoppingListHandler {
	return &ShoppingListHandler{
		aggregator: agg,
		lists:      lists,
		exporter:   exporter,
		members:    members,
		hub:        hub,
		logger:     logger,
	}
}

type generateListRequest struct {
	MealPlanID  int64 `json:"meal_plan_id"`
	HouseholdID int64 `json:"household_id"`
}

type generateListResponse struct {
	Success      bool                `json:"success"`
	ShoppingList *model.ShoppingList `json:"shopping_list"`
	ItemsCount   int                 `json:"items_count"`
	Categories   map[string]int      `json:"categories"`
	Message      string              `json:"message,omitempty"`
}

func (h *ShoppingListHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req generateListRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.MealPlanID <= 0 || req.HouseholdID <= 0 {
		writeError(w, http.StatusBadRequest, "meal_plan_id and household_id are required")
		return
	}
	if !requireMember(w, r, h.members, h.logger, req.HouseholdID, auth.UserID(r.Context())) {
		return
	}

	res, err := h.aggregator.Generate(r.Context(), req.MealPlanID, req.HouseholdID)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	if res.Created {
		broadcast(h.hub, req.HouseholdID, websocket.NewMessage("shopping_list", "generated", res.List.ID, map[string]any{
			"meal_plan_id": req.MealPlanID,
			"items_count":  res.ItemsCount,
		}))
	}

	writeJSON(w, http.StatusOK, generateListResponse{
		Success:      true,
		ShoppingList: res.List,
		ItemsCount:   res.ItemsCount,
		Categories:   res.Categories,
		Message:      res.Message,
	})
}

func (h *ShoppingListHandler) GetByMealPlan(w http.ResponseWriter, r *http.Request) {
	planID, err := parseIDParam(r, "meal_plan_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	list, err := h.lists.GetByMealPlanID(r.Context(), planID)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	if list == nil {
		writeError(w, http.StatusNotFound, "shopping list not found")
		return
	}
	if !requireMember(w, r, h.members, h.logger, list.HouseholdID, auth.UserID(r.Context())) {
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// load fetches the list named by the id path value and checks that the
// caller may see it. It writes the error response itself.
func (h *ShoppingListHandler) load(w http.ResponseWriter, r *http.Request) (*model.ShoppingList, bool) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return nil, false
	}
	list, err := h.lists.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return nil, false
	}
	if list == nil {
		writeError(w, http.StatusNotFound, "shopping list not found")
		return nil, false
	}
	if !requireMember(w, r, h.members, h.logger, list.HouseholdID, auth.UserID(r.Context())) {
		return nil, false
	}
	return list, true
}

func (h *ShoppingListHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	list, ok := h.load(w, r)
	if !ok {
		return
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if !model.IsShoppingListStatus(req.Status) {
		writeError(w, http.StatusBadRequest, "status must be draft, generated, or exported")
		return
	}

	updated, err := h.lists.UpdateStatus(r.Context(), list.ID, req.Status)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *ShoppingListHandler) Export(w http.ResponseWriter, r *http.Request) {
	list, ok := h.load(w, r)
	if !ok {
		return
	}

	exported, err := h.exporter.Export(r.Context(), list.ID, list.HouseholdID)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	broadcast(h.hub, list.HouseholdID, websocket.NewMessage("shopping_list", "exported", list.ID, map[string]any{
		"location": exported.ExportLocation,
	}))
	writeJSON(w, http.StatusOK, exported)
}
