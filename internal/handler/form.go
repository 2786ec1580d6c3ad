package handler

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/dukerupert/mealwise/internal/auth"
	"github.com/dukerupert/mealwise/internal/forms"
	"github.com/dukerupert/mealwise/internal/model"
	"github.com/dukerupert/mealwise/internal/store"
	"github.com/dukerupert/mealwise/internal/websocket"
)

type FormHandler struct {
	forms   *forms.Service
	plans   *store.MealPlanStore
	members MemberChecker
	hub     Broadcaster
	baseURL string
	logger  *slog.Logger
}

func NewFormHandler(svc *forms.Service, plans *store.MealPlanStore, members MemberChecker, hub Broadcaster, baseURL string, logger *slog.Logger) *FormHandler {
	return &FormHandler{
		forms:   svc,
		plans:   plans,
		members: members,
		hub:     hub,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
	}
}

type formRequest struct {
	Title       string                   `json:"title"`
	Description string                   `json:"description"`
	Deadline    *time.Time               `json:"deadline"`
	Questions   []model.MealFormQuestion `json:"questions"`
}

type createFormResponse struct {
	Form     *model.MealForm `json:"form"`
	Token    string          `json:"token"`
	ShareURL string          `json:"share_url"`
}

func (h *FormHandler) Create(w http.ResponseWriter, r *http.Request) {
	planID, err := parseIDParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	plan, err := h.plans.GetByID(r.Context(), planID)
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

	var req formRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	form, token, err := h.forms.Create(r.Context(), model.MealForm{
		MealPlanID:  plan.ID,
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Deadline:    req.Deadline,
		Questions:   req.Questions,
	})
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, createFormResponse{
		Form:     form,
		Token:    token,
		ShareURL: fmt.Sprintf("%s/forms/%d?token=%s", h.baseURL, form.ID, token),
	})
}

// View is public: the share token is the only credential.
func (h *FormHandler) View(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	form, err := h.forms.View(r.Context(), id, r.URL.Query().Get("token"))
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, form)
}

func (h *FormHandler) Respond(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	form, err := h.forms.View(r.Context(), id, r.URL.Query().Get("token"))
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	userID := auth.UserID(r.Context())
	if !requireMember(w, r, h.members, h.logger, form.HouseholdID, userID) {
		return
	}

	var req struct {
		Responses map[string]any `json:"responses"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	resp, err := h.forms.Respond(r.Context(), form, userID, req.Responses)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	broadcast(h.hub, form.HouseholdID, websocket.NewMessage("form_response", "created", resp.ID, map[string]any{
		"form_id": form.ID,
		"user_id": userID,
	}))
	writeJSON(w, http.StatusCreated, resp)
}

func (h *FormHandler) Responses(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	form, err := h.forms.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	if form == nil {
		writeError(w, http.StatusNotFound, "form not found")
		return
	}
	if !requireMember(w, r, h.members, h.logger, form.HouseholdID, auth.UserID(r.Context())) {
		return
	}

	responses, err := h.forms.Responses(r.Context(), form.ID)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	if responses == nil {
		responses = []model.MealFormResponse{}
	}
	writeJSON(w, http.StatusOK, responses)
}
