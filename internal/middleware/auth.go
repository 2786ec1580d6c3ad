package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/dukerupert/mealwise/internal/auth"
)

// WebSocketPath is the only route that accepts the access_token query
// parameter in place of an Authorization header.
const WebSocketPath = "/ws"

// RequireAuth validates the bearer token and populates AuthContext. Browsers
// cannot set headers on websocket upgrades, so GET WebSocketPath also accepts
// the token in the access_token query parameter.
func RequireAuth(tokens *auth.TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				unauthorized(w)
				return
			}

			ac, err := tokens.Parse(token)
			if err != nil {
				unauthorized(w)
				return
			}

			ctx := auth.WithAuth(r.Context(), ac)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		scheme, token, ok := strings.Cut(h, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") {
			return ""
		}
		return strings.TrimSpace(token)
	}
	if r.Method == http.MethodGet && r.URL.Path == WebSocketPath {
		return r.URL.Query().Get("access_token")
	}
	return ""
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", `Bearer realm="mealwise"`)
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized"})
}
