package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/dukerupert/mealwise/internal/export"
	"github.com/dukerupert/mealwise/internal/forms"
	"github.com/dukerupert/mealwise/internal/llm"
	"github.com/dukerupert/mealwise/internal/mealgen"
	"github.com/dukerupert/mealwise/internal/model"
	"github.com/dukerupert/mealwise/internal/shopping"
	"github.com/dukerupert/mealwise/internal/websocket"
)

// MemberChecker reports household membership. A nil member means the user
// does not belong to the household.
type MemberChecker interface {
	GetMember(ctx context.Context, householdID, userID int64) (*model.HouseholdMember, error)
}

// Broadcaster pushes change notifications to a household's clients.
type Broadcaster interface {
	Broadcast(householdID int64, msg websocket.Message)
}

func broadcast(b Broadcaster, householdID int64, msg websocket.Message) {
	if b != nil {
		b.Broadcast(householdID, msg)
	}
}

func parseIDParam(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("invalid " + name)
	}
	return id, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// requireMember writes a 404 and returns false unless userID belongs to the
// household. Non-members cannot distinguish a foreign household from a
// missing one.
func requireMember(w http.ResponseWriter, r *http.Request, members MemberChecker, logger *slog.Logger, householdID, userID int64) bool {
	m, err := members.GetMember(r.Context(), householdID, userID)
	if err != nil {
		logger.Error("check membership", "household_id", householdID, "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to check membership")
		return false
	}
	if m == nil {
		writeError(w, http.StatusNotFound, "household not found")
		return false
	}
	return true
}

// writeServiceError maps domain errors onto HTTP statuses. Anything
// unrecognized is a storage failure.
func writeServiceError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var validation *shopping.ValidationError
	var upstream *llm.UpstreamError

	switch {
	case errors.As(err, &validation),
		errors.Is(err, mealgen.ErrInvalidRequest),
		errors.Is(err, forms.ErrInvalid):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, shopping.ErrMealPlanNotFound),
		errors.Is(err, export.ErrListNotFound),
		errors.Is(err, mealgen.ErrFormNotFound),
		errors.Is(err, forms.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, forms.ErrInvalidToken):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, forms.ErrClosed):
		writeError(w, http.StatusConflict, err.Error())
	case errors.As(err, &upstream):
		logger.Warn("upstream failure", "provider", upstream.Provider, "status", upstream.StatusCode)
		writeError(w, http.StatusBadGateway, err.Error())
	case errors.Is(err, mealgen.ErrMalformedResponse):
		writeError(w, http.StatusBadGateway, mealgen.ErrMalformedResponse.Error())
	case errors.Is(err, mealgen.ErrTimeout):
		writeError(w, http.StatusGatewayTimeout, err.Error())
	default:
		logger.Error("request failed", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
