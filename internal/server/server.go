package server

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dukerupert/mealwise/internal/auth"
	"github.com/dukerupert/mealwise/internal/config"
	"github.com/dukerupert/mealwise/internal/export"
	"github.com/dukerupert/mealwise/internal/forms"
	"github.com/dukerupert/mealwise/internal/handler"
	"github.com/dukerupert/mealwise/internal/llm"
	"github.com/dukerupert/mealwise/internal/mealgen"
	"github.com/dukerupert/mealwise/internal/metrics"
	"github.com/dukerupert/mealwise/internal/middleware"
	"github.com/dukerupert/mealwise/internal/shopping"
	"github.com/dukerupert/mealwise/internal/store"
	ws "github.com/dukerupert/mealwise/internal/websocket"
)

type Server struct {
	db             *sql.DB
	hub            *ws.Hub
	tokens         *auth.TokenManager
	shoppingListH  *handler.ShoppingListHandler
	mealH          *handler.MealHandler
	mealPlanH      *handler.MealPlanHandler
	formH          *handler.FormHandler
	householdStore *store.HouseholdStore
	rateLimiter    *middleware.RateLimiter
	mealgenLimit   int
	mealgenWindow  time.Duration
	metrics        *metrics.Metrics
	logger         *slog.Logger
}

// New wires stores, services and handlers. gen may be nil, in which case
// meal generation answers 503.
func New(cfg *config.Config, db *sql.DB, gen llm.TextGenerator, sink export.Sink, m *metrics.Metrics, logger *slog.Logger) *Server {
	hub := ws.NewHub(logger)

	householdStore := store.NewHouseholdStore(db)
	groupStore := store.NewGroupStore(db)
	mealStore := store.NewMealStore(db)
	mealPlanStore := store.NewMealPlanStore(db)
	listStore := store.NewShoppingListStore(db)
	formStore := store.NewFormStore(db)

	aggregator := shopping.NewAggregator(mealPlanStore, groupStore, listStore, m, logger)
	exporter := export.NewExporter(sink, listStore, m, logger)
	formSvc := forms.NewService(formStore, m, logger)

	var generator *mealgen.Generator
	if gen != nil {
		generator = mealgen.NewGenerator(gen, groupStore, mealStore, formStore, cfg.LLM.Timeout, m, logger)
	}

	return &Server{
		db:             db,
		hub:            hub,
		tokens:         auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL),
		shoppingListH:  handler.NewShoppingListHandler(aggregator, listStore, exporter, householdStore, hub, logger.With("component", "shopping_list")),
		mealH:          handler.NewMealHandler(generator, householdStore, hub, logger.With("component", "meal")),
		mealPlanH:      handler.NewMealPlanHandler(mealPlanStore, householdStore, logger.With("component", "meal_plan")),
		formH:          handler.NewFormHandler(formSvc, mealPlanStore, householdStore, hub, cfg.BaseURL, logger.With("component", "form")),
		householdStore: householdStore,
		rateLimiter:    middleware.NewRateLimiter(),
		mealgenLimit:   cfg.LLM.RateLimit,
		mealgenWindow:  cfg.LLM.RateWindow,
		metrics:        m,
		logger:         logger,
	}
}

// RateLimiter returns the rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

// Hub returns the websocket hub.
func (s *Server) Hub() *ws.Hub {
	return s.hub
}

func (s *Server) Router() http.Handler {
	outerMux := http.NewServeMux()

	// Public routes (no auth required)
	outerMux.HandleFunc("GET /health", s.healthHandler)
	outerMux.Handle("GET /metrics", promhttp.HandlerFor(s.metrics.Registry(), promhttp.HandlerOpts{}))
	outerMux.HandleFunc("GET /forms/{id}", s.formH.View)

	protectedMux := http.NewServeMux()
	s.registerProtectedRoutes(protectedMux)

	outerMux.Handle("/", middleware.RequireAuth(s.tokens)(protectedMux))

	return middleware.RequestLogger(s.logger.With("component", "http"), s.metrics)(outerMux)
}

func (s *Server) registerProtectedRoutes(mux *http.ServeMux) {
	// Shopping lists
	mux.HandleFunc("POST /api/shopping-lists/generate", s.shoppingListH.Generate)
	mux.HandleFunc("GET /api/shopping-lists/{meal_plan_id}", s.shoppingListH.GetByMealPlan)
	mux.HandleFunc("PUT /api/shopping-lists/{id}/status", s.shoppingListH.UpdateStatus)
	mux.HandleFunc("POST /api/shopping-lists/{id}/export", s.shoppingListH.Export)

	// Meals
	mealgenRL := middleware.RateLimit(s.rateLimiter, middleware.UserOrIPKey, s.mealgenLimit, s.mealgenWindow)
	mux.Handle("POST /api/meals/generate", mealgenRL(http.HandlerFunc(s.mealH.Generate)))
	mux.HandleFunc("GET /api/meal-plans/{id}", s.mealPlanH.Get)

	// Forms
	mux.HandleFunc("POST /api/meal-plans/{id}/forms", s.formH.Create)
	mux.HandleFunc("POST /forms/{id}/responses", s.formH.Respond)
	mux.HandleFunc("GET /api/forms/{id}/responses", s.formH.Responses)

	mux.HandleFunc("GET "+middleware.WebSocketPath, ws.HandleWebSocket(s.hub, s.householdStore))
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := s.db.PingContext(r.Context()); err != nil {
		s.logger.Error("health check", "error", err)
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"status":"unavailable"}`))
		return
	}
	w.Write([]byte(`{"status":"ok"}`))
}
