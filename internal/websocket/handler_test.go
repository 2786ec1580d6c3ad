package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	ws "github.com/coder/websocket"
	"go.uber.org/goleak"

	"github.com/dukerupert/mealwise/internal/auth"
	"github.com/dukerupert/mealwise/internal/model"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("net/http.(*persistConn).readLoop"),
		goleak.IgnoreTopFunction("net/http.(*persistConn).writeLoop"),
	)
}

type stubMembers map[int64]int64 // user id -> household id

func (s stubMembers) GetMember(ctx context.Context, householdID, userID int64) (*model.HouseholdMember, error) {
	if s[userID] != householdID {
		return nil, nil
	}
	return &model.HouseholdMember{HouseholdID: householdID, UserID: userID, Role: "family_member"}, nil
}

func withUser(userID int64, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(auth.WithAuth(r.Context(), auth.AuthContext{UserID: userID})))
	})
}

func TestHandleWebSocketDeliversHouseholdMessages(t *testing.T) {
	hub := NewHub(testLogger())
	srv := httptest.NewServer(withUser(5, HandleWebSocket(hub, stubMembers{5: 1})))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?household_id=1"
	conn, _, err := ws.Dial(ctx, url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.CloseNow()

	deadline := time.Now().Add(2 * time.Second)
	for hub.ClientCount(1) == 0 {
		if time.Now().After(deadline) {
			t.Fatal("client never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}

	hub.Broadcast(2, NewMessage("meal", "generated", 1, nil))
	hub.Broadcast(1, NewMessage("shopping_list", "exported", 9, nil))

	_, data, err := conn.Read(ctx)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var got Message
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Type != "shopping_list_exported" || got.ID != 9 {
		t.Errorf("got %+v, want shopping_list_exported id 9", got)
	}

	conn.Close(ws.StatusNormalClosure, "")
	for hub.ClientCount(1) != 0 {
		if time.Now().After(deadline) {
			t.Fatal("client never unregistered")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestHandleWebSocketRejectsNonMembers(t *testing.T) {
	hub := NewHub(testLogger())
	handler := withUser(5, HandleWebSocket(hub, stubMembers{5: 1}))

	tests := []struct {
		query  string
		status int
	}{
		{"", http.StatusBadRequest},
		{"?household_id=abc", http.StatusBadRequest},
		{"?household_id=2", http.StatusNotFound},
	}
	for _, tt := range tests {
		req := httptest.NewRequest("GET", "/ws"+tt.query, nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != tt.status {
			t.Errorf("%q: status = %d, want %d", tt.query, rec.Code, tt.status)
		}
	}
	if got := hub.ClientCount(2); got != 0 {
		t.Errorf("expected no clients, got %d", got)
	}
}
