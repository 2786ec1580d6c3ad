// Package metrics exposes Prometheus collectors for shopping list
// aggregation, meal generation and exports.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the application collectors. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	registry *prometheus.Registry

	shoppingListsTotal *prometheus.CounterVec
	shoppingListItems  prometheus.Histogram
	mealGenerations    *prometheus.CounterVec
	mealsGenerated     *prometheus.CounterVec
	llmDuration        *prometheus.HistogramVec
	llmTokens          *prometheus.CounterVec
	exportsTotal       *prometheus.CounterVec
	formResponses      prometheus.Counter
	httpRequests       *prometheus.CounterVec
}

// New creates the collectors and registers them on registry.
func New(registry *prometheus.Registry) (*Metrics, error) {
	m := &Metrics{registry: registry}
	m.initMetrics()
	if err := registry.Register(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Metrics) initMetrics() {
	m.shoppingListsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mealwise_shopping_lists_total",
			Help: "Shopping list generation requests by result",
		},
		[]string{"result"}, // created, existing
	)
	m.shoppingListItems = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "mealwise_shopping_list_items",
			Help:    "Number of consolidated items in generated shopping lists",
			Buckets: prometheus.LinearBuckets(0, 10, 10),
		},
	)
	m.mealGenerations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mealwise_meal_generations_total",
			Help: "Meal generation requests by provider and outcome",
		},
		[]string{"provider", "status"},
	)
	m.mealsGenerated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mealwise_meals_generated_total",
			Help: "Meals persisted from AI generation",
		},
		[]string{"provider"},
	)
	m.llmDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mealwise_llm_request_duration_seconds",
			Help:    "Time spent waiting on the language model",
			Buckets: prometheus.ExponentialBuckets(0.25, 2, 9), // 250ms to ~64s
		},
		[]string{"provider", "status"},
	)
	m.llmTokens = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mealwise_llm_tokens_total",
			Help: "Tokens consumed by language model calls",
		},
		[]string{"provider", "kind"}, // kind: prompt, completion
	)
	m.exportsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mealwise_shopping_list_exports_total",
			Help: "Shopping list exports by sink and outcome",
		},
		[]string{"sink", "status"},
	)
	m.formResponses = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "mealwise_form_responses_total",
			Help: "Meal form responses submitted",
		},
	)
	m.httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mealwise_http_requests_total",
			Help: "HTTP requests by method and status code",
		},
		[]string{"method", "code"},
	)
}

// Describe implements prometheus.Collector.
func (m *Metrics) Describe(ch chan<- *prometheus.Desc) {
	m.shoppingListsTotal.Describe(ch)
	m.shoppingListItems.Describe(ch)
	m.mealGenerations.Describe(ch)
	m.mealsGenerated.Describe(ch)
	m.llmDuration.Describe(ch)
	m.llmTokens.Describe(ch)
	m.exportsTotal.Describe(ch)
	m.formResponses.Describe(ch)
	m.httpRequests.Describe(ch)
}

// Collect implements prometheus.Collector.
func (m *Metrics) Collect(ch chan<- prometheus.Metric) {
	m.shoppingListsTotal.Collect(ch)
	m.shoppingListItems.Collect(ch)
	m.mealGenerations.Collect(ch)
	m.mealsGenerated.Collect(ch)
	m.llmDuration.Collect(ch)
	m.llmTokens.Collect(ch)
	m.exportsTotal.Collect(ch)
	m.formResponses.Collect(ch)
	m.httpRequests.Collect(ch)
}

func (m *Metrics) ShoppingListGenerated(result string) {
	if m == nil {
		return
	}
	m.shoppingListsTotal.WithLabelValues(result).Inc()
}

func (m *Metrics) ShoppingListItems(n int) {
	if m == nil {
		return
	}
	m.shoppingListItems.Observe(float64(n))
}

func (m *Metrics) MealGeneration(provider, status string, meals int) {
	if m == nil {
		return
	}
	m.mealGenerations.WithLabelValues(provider, status).Inc()
	if meals > 0 {
		m.mealsGenerated.WithLabelValues(provider).Add(float64(meals))
	}
}

func (m *Metrics) LLMRequest(provider, status string, d time.Duration, promptTokens, completionTokens int) {
	if m == nil {
		return
	}
	m.llmDuration.WithLabelValues(provider, status).Observe(d.Seconds())
	if promptTokens > 0 {
		m.llmTokens.WithLabelValues(provider, "prompt").Add(float64(promptTokens))
	}
	if completionTokens > 0 {
		m.llmTokens.WithLabelValues(provider, "completion").Add(float64(completionTokens))
	}
}

func (m *Metrics) Export(sink, status string) {
	if m == nil {
		return
	}
	m.exportsTotal.WithLabelValues(sink, status).Inc()
}

func (m *Metrics) FormResponse() {
	if m == nil {
		return
	}
	m.formResponses.Inc()
}

func (m *Metrics) HTTPRequest(method string, code int) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, strconv.Itoa(code)).Inc()
}

// Registry returns the registry the collectors were registered on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
