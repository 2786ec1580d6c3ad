package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/dukerupert/mealwise/internal/auth"
	"github.com/dukerupert/mealwise/internal/mealgen"
	"github.com/dukerupert/mealwise/internal/model"
	"github.com/dukerupert/mealwise/internal/websocket"
)

// MealHandler serves AI meal generation. generator is nil when no model
// provider is configured.
type MealHandler struct {
	generator *mealgen.Generator
	members   MemberChecker
	hub       Broadcaster
	logger    *slog.Logger
}

func NewMealHandler(gen *mealgen.Generator, members MemberChecker, hub Broadcaster, logger *slog.Logger) *MealHandler {
	return &MealHandler{generator: gen, members: members, hub: hub, logger: logger}
}

type generateMealsResponse struct {
	Success        bool         `json:"success"`
	Meals          []model.Meal `json:"meals"`
	GeneratedCount int          `json:"generated_count"`
}

func (h *MealHandler) Generate(w http.ResponseWriter, r *http.Request) {
	if h.generator == nil {
		writeError(w, http.StatusServiceUnavailable, "AI service not configured")
		return
	}

	var req mealgen.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if err := req.Normalize(); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	if !requireMember(w, r, h.members, h.logger, req.HouseholdID, auth.UserID(r.Context())) {
		return
	}

	res, err := h.generator.Generate(r.Context(), req)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	ids := make([]int64, len(res.Meals))
	for i, m := range res.Meals {
		ids[i] = m.ID
	}
	broadcast(h.hub, req.HouseholdID, websocket.NewMessage("meal", "generated", 0, map[string]any{
		"meal_ids": ids,
	}))

	writeJSON(w, http.StatusOK, generateMealsResponse{
		Success:        true,
		Meals:          res.Meals,
		GeneratedCount: len(res.Meals),
	})
}
