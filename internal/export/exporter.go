package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dukerupert/mealwise/internal/metrics"
	"github.com/dukerupert/mealwise/internal/model"
)

// ErrListNotFound is returned when the list does not exist or belongs to
// another household.
var ErrListNotFound = errors.New("shopping list not found")

type ListRepository interface {
	GetByID(ctx context.Context, id int64) (*model.ShoppingList, error)
	MarkExported(ctx context.Context, id int64, location string) (*model.ShoppingList, error)
}

type Exporter struct {
	sink    Sink
	lists   ListRepository
	metrics *metrics.Metrics
	logger  *slog.Logger
	now     func() time.Time
}

func NewExporter(sink Sink, lists ListRepository, m *metrics.Metrics, logger *slog.Logger) *Exporter {
	return &Exporter{
		sink:    sink,
		lists:   lists,
		metrics: m,
		logger:  logger.With("component", "export", "sink", sink.Name()),
		now:     time.Now,
	}
}

// Export writes the list as CSV to the sink and marks it exported. Each call
// produces a new object.
func (e *Exporter) Export(ctx context.Context, listID, householdID int64) (*model.ShoppingList, error) {
	l, err := e.lists.GetByID(ctx, listID)
	if err != nil {
		return nil, fmt.Errorf("load shopping list: %w", err)
	}
	if l == nil || l.HouseholdID != householdID {
		return nil, ErrListNotFound
	}

	var buf bytes.Buffer
	if err := RenderCSV(&buf, l); err != nil {
		return nil, fmt.Errorf("render csv: %w", err)
	}

	key := fmt.Sprintf("household-%d/meal-plan-%d-%s.csv", householdID, l.MealPlanID, e.now().UTC().Format("20060102T150405Z"))
	location, err := e.sink.Put(ctx, key, buf.Bytes(), "text/csv")
	if err != nil {
		e.metrics.Export(e.sink.Name(), "error")
		return nil, err
	}

	updated, err := e.lists.MarkExported(ctx, l.ID, location)
	if err != nil {
		e.metrics.Export(e.sink.Name(), "error")
		return nil, fmt.Errorf("mark exported: %w", err)
	}

	e.metrics.Export(e.sink.Name(), "success")
	e.logger.Info("shopping list exported", "list_id", l.ID, "location", location, "bytes", buf.Len())
	return updated, nil
}
