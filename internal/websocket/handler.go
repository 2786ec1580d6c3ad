package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	ws "github.com/coder/websocket"

	"github.com/dukerupert/mealwise/internal/auth"
	"github.com/dukerupert/mealwise/internal/model"
)

type MemberChecker interface {
	GetMember(ctx context.Context, householdID, userID int64) (*model.HouseholdMember, error)
}

// HandleWebSocket upgrades authenticated members of the household named by
// the household_id query parameter and runs them as Hub clients.
func HandleWebSocket(hub *Hub, members MemberChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := auth.UserID(r.Context())
		householdID, err := strconv.ParseInt(r.URL.Query().Get("household_id"), 10, 64)
		if err != nil || householdID <= 0 {
			writeError(w, http.StatusBadRequest, "household_id is required")
			return
		}

		member, err := members.GetMember(r.Context(), householdID, userID)
		if err != nil {
			hub.logger.Error("check membership", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to check membership")
			return
		}
		if member == nil {
			writeError(w, http.StatusNotFound, "household not found")
			return
		}

		conn, err := ws.Accept(w, r, nil)
		if err != nil {
			hub.logger.Warn("accept", "error", err)
			return
		}
		defer conn.CloseNow()

		hub.logger.Debug("client connected", "household_id", householdID, "user_id", userID)
		NewClient(hub, conn, householdID, userID).Run(r.Context())
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
