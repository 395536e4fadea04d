package meal

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dietcal/internal/objectstore"
	"dietcal/internal/platform/metrics"
	"dietcal/internal/vision"
	"dietcal/pkg/sentinel"
)

type stubAnalyzer struct {
	analysis *vision.Analysis
	err      error
}

func (s *stubAnalyzer) AnalyzeMeal(context.Context, []byte, string, string) (*vision.Analysis, error) {
	return s.analysis, s.err
}

func newTestService(t *testing.T) (*Service, *objectstore.Memory) {
	t.Helper()
	objects := objectstore.NewMemory()
	svc := NewService(
		NewMemoryStore(),
		NewMemoryLabelStore(),
		objects,
		&stubAnalyzer{analysis: &vision.Analysis{TotalCalories: 500}},
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		metrics.New(prometheus.NewRegistry()),
	)
	return svc, objects
}

func TestService_SaveAndList(t *testing.T) {
	ctx := context.Background()
	svc, objects := newTestService(t)

	data := Data{
		Description:   "Chicken and rice",
		TotalCalories: 650,
		Macros:        Macros{Protein: 42, Carbs: 70, Fat: 18},
		FoodItems:     []string{"chicken", "rice"},
		Labels:        []string{"lunch", "high-protein"},
	}

	saved, err := svc.Save(ctx, "u1", data, []byte{0xFF, 0xD8}, "plate.jpg", "image/jpeg")
	require.NoError(t, err)
	assert.NotEmpty(t, saved.ID)
	assert.Equal(t, "u1", saved.UserID)
	assert.Contains(t, saved.ImageURL, "meals/u1/")
	assert.Equal(t, 1, objects.Len())

	meals, err := svc.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, meals, 1)
	assert.Equal(t, saved.ID, meals[0].ID)

	// Labels were merged into the user's set.
	labels, err := svc.UserLabels(ctx, "u1")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"lunch", "high-protein"}, labels)
}

func TestService_SaveRequiresImage(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.Save(context.Background(), "u1", Data{}, nil, "x.jpg", "image/jpeg")
	assert.Error(t, err)
}

func TestService_ListIsolatesUsers(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	_, err := svc.Save(ctx, "u1", Data{Description: "a"}, []byte{1}, "a.jpg", "image/jpeg")
	require.NoError(t, err)
	_, err = svc.Save(ctx, "u2", Data{Description: "b"}, []byte{1}, "b.jpg", "image/jpeg")
	require.NoError(t, err)

	meals, err := svc.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, meals, 1)
	assert.Equal(t, "a", meals[0].Description)
}

func TestService_DeleteChecksOwnership(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	saved, err := svc.Save(ctx, "u1", Data{}, []byte{1}, "a.jpg", "image/jpeg")
	require.NoError(t, err)

	err = svc.Delete(ctx, saved.ID, "u2")
	assert.ErrorIs(t, err, ErrForbidden)

	// Record still present.
	meals, err := svc.List(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, meals, 1)
}

func TestService_DeleteRemovesRecordAndImage(t *testing.T) {
	ctx := context.Background()
	svc, objects := newTestService(t)

	saved, err := svc.Save(ctx, "u1", Data{}, []byte{1}, "a.jpg", "image/jpeg")
	require.NoError(t, err)
	require.Equal(t, 1, objects.Len())

	require.NoError(t, svc.Delete(ctx, saved.ID, "u1"))
	assert.Equal(t, 0, objects.Len())

	meals, err := svc.List(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, meals)
}

func TestService_DeleteMissing(t *testing.T) {
	svc, _ := newTestService(t)
	err := svc.Delete(context.Background(), "nope", "u1")
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}

func TestService_MergeLabelsDedupes(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	merged, err := svc.MergeLabels(ctx, "u1", []string{"lunch", " lunch ", "dinner"})
	require.NoError(t, err)
	assert.Equal(t, []string{"lunch", "dinner"}, merged)

	merged, err = svc.MergeLabels(ctx, "u1", []string{"dinner", "snack"})
	require.NoError(t, err)
	assert.Equal(t, []string{"lunch", "dinner", "snack"}, merged)
}

func TestService_AnalyzePassesThrough(t *testing.T) {
	svc, _ := newTestService(t)

	analysis, err := svc.Analyze(context.Background(), []byte{1}, "image/jpeg", "half portion")
	require.NoError(t, err)
	assert.Equal(t, 500, analysis.TotalCalories)

	_, err = svc.Analyze(context.Background(), nil, "image/jpeg", "")
	assert.Error(t, err)
}

func TestObjectPath(t *testing.T) {
	path, ok := objectPath("https://storage.example.com/bucket/meals/u1/1-a.jpg?sig=abc")
	require.True(t, ok)
	assert.Equal(t, "meals/u1/1-a.jpg", path)

	path, ok = objectPath("memory://images/meals/u1/1-a.jpg")
	require.True(t, ok)
	assert.Equal(t, "meals/u1/1-a.jpg", path)

	_, ok = objectPath("https://cdn.example.com/avatar.png")
	assert.False(t, ok)
}

func TestService_SaveSurfacesStoreFailure(t *testing.T) {
	svc, _ := newTestService(t)
	svc.store = failingStore{}

	_, err := svc.Save(context.Background(), "u1", Data{}, []byte{1}, "a.jpg", "image/jpeg")
	assert.ErrorContains(t, err, "save meal")
}

type failingStore struct{}

func (failingStore) Save(context.Context, Meal) error { return errors.New("document store down") }
func (failingStore) FindByID(context.Context, string) (Meal, error) {
	return Meal{}, errors.New("document store down")
}
func (failingStore) ListByUser(context.Context, string) ([]Meal, error) {
	return nil, errors.New("document store down")
}
func (failingStore) Delete(context.Context, string) error { return errors.New("document store down") }
