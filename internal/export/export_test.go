package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukerupert/mealwise/internal/config"
	"github.com/dukerupert/mealwise/internal/model"
)

// mockS3Client implements s3Client for testing.
type mockS3Client struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
	putErr  error
	lastBkt string
}

func newMockS3() *mockS3Client {
	return &mockS3Client{objects: make(map[string][]byte), types: make(map[string]string)}
}

func (m *mockS3Client) PutObject(_ context.Context, input *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if m.putErr != nil {
		return nil, m.putErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	data, _ := io.ReadAll(input.Body)
	m.objects[*input.Key] = data
	m.types[*input.Key] = *input.ContentType
	m.lastBkt = *input.Bucket
	return &s3.PutObjectOutput{}, nil
}

type memLists struct {
	lists   map[int64]*model.ShoppingList
	markErr error
}

func (m *memLists) GetByID(_ context.Context, id int64) (*model.ShoppingList, error) {
	l, ok := m.lists[id]
	if !ok {
		return nil, nil
	}
	cp := *l
	return &cp, nil
}

func (m *memLists) MarkExported(_ context.Context, id int64, location string) (*model.ShoppingList, error) {
	if m.markErr != nil {
		return nil, m.markErr
	}
	l := m.lists[id]
	l.Status = model.ShoppingListStatusExported
	l.ExportLocation = location
	cp := *l
	return &cp, nil
}

func sampleList() *model.ShoppingList {
	return &model.ShoppingList{
		ID:          3,
		MealPlanID:  11,
		HouseholdID: 2,
		Status:      model.ShoppingListStatusGenerated,
		Items: []model.ShoppingListItem{
			{Name: "Spinach", Quantity: 2, Unit: "bag", Category: model.CategoryProduce, EstimatedCost: 2.5, MealSources: []string{"Frittata"}},
			{Name: "Egg, large", Quantity: 5, Unit: "each", Category: model.CategoryDairy, EstimatedCost: 8.75, MealSources: []string{"Omelette", "Frittata"}},
			{Name: "Salt", Quantity: 0.5, Unit: "tsp", Category: model.CategoryPantry, EstimatedCost: 0.5, IsStaple: true, MealSources: []string{"Omelette"}},
		},
		TotalEstimatedCost: 11.75,
	}
}

func newTestExporter(sink Sink, lists *memLists) *Exporter {
	e := NewExporter(sink, lists, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
	e.now = func() time.Time { return time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC) }
	return e
}

func TestRenderCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderCSV(&buf, sampleList()))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 5)

	assert.Equal(t, csvHeader, records[0])
	assert.Equal(t, []string{"produce", "Spinach", "2", "bag", "2.50", "false", "Frittata"}, records[1])
	assert.Equal(t, "Egg, large", records[2][1], "commas in names are quoted")
	assert.Equal(t, "Omelette; Frittata", records[2][6])
	assert.Equal(t, []string{"pantry", "Salt", "0.5", "tsp", "0.50", "true", "Omelette"}, records[3])
	assert.Equal(t, []string{"", "total", "", "", "11.75", "", ""}, records[4])
}

func TestExportToS3(t *testing.T) {
	client := newMockS3()
	lists := &memLists{lists: map[int64]*model.ShoppingList{3: sampleList()}}
	e := newTestExporter(NewS3Sink(client, "lists-bucket", "shopping-lists"), lists)

	got, err := e.Export(context.Background(), 3, 2)
	require.NoError(t, err)

	key := "shopping-lists/household-2/meal-plan-11-20261017T093000Z.csv"
	assert.Equal(t, "s3://lists-bucket/"+key, got.ExportLocation)
	assert.Equal(t, model.ShoppingListStatusExported, got.Status)
	assert.Equal(t, "lists-bucket", client.lastBkt)
	assert.Equal(t, "text/csv", client.types[key])
	assert.True(t, strings.HasPrefix(string(client.objects[key]), "category,name,quantity"))
}

func TestExportToFile(t *testing.T) {
	dir := t.TempDir()
	lists := &memLists{lists: map[int64]*model.ShoppingList{3: sampleList()}}
	e := newTestExporter(NewFileSink(dir), lists)

	got, err := e.Export(context.Background(), 3, 2)
	require.NoError(t, err)

	path := filepath.Join(dir, "household-2", "meal-plan-11-20261017T093000Z.csv")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Spinach")
	assert.True(t, strings.HasPrefix(got.ExportLocation, "file://"))
	assert.True(t, strings.HasSuffix(got.ExportLocation, "meal-plan-11-20261017T093000Z.csv"))

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err), "temp file should be renamed away")
}

func TestExportOtherHousehold(t *testing.T) {
	client := newMockS3()
	lists := &memLists{lists: map[int64]*model.ShoppingList{3: sampleList()}}
	e := newTestExporter(NewS3Sink(client, "b", ""), lists)

	_, err := e.Export(context.Background(), 3, 99)
	assert.ErrorIs(t, err, ErrListNotFound)
	_, err = e.Export(context.Background(), 404, 2)
	assert.ErrorIs(t, err, ErrListNotFound)
	assert.Empty(t, client.objects)
}

func TestExportSinkFailureLeavesStatus(t *testing.T) {
	client := newMockS3()
	client.putErr = errors.New("access denied")
	lists := &memLists{lists: map[int64]*model.ShoppingList{3: sampleList()}}
	e := newTestExporter(NewS3Sink(client, "b", ""), lists)

	_, err := e.Export(context.Background(), 3, 2)
	assert.ErrorContains(t, err, "access denied")
	assert.Equal(t, model.ShoppingListStatusGenerated, lists.lists[3].Status)
}

func TestNewSink(t *testing.T) {
	s, err := NewSink(config.ExportConfig{Sink: config.SinkFile, Dir: t.TempDir()})
	require.NoError(t, err)
	assert.Equal(t, "file", s.Name())

	s, err = NewSink(config.ExportConfig{Sink: config.SinkS3, S3Bucket: "b", S3Region: "us-east-1", S3AccessKey: "a", S3SecretKey: "s"})
	require.NoError(t, err)
	assert.Equal(t, "s3", s.Name())

	_, err = NewSink(config.ExportConfig{Sink: "ftp"})
	assert.Error(t, err)
}
