package meal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"dietcal/internal/objectstore"
	"dietcal/internal/platform/metrics"
	"dietcal/internal/vision"
	"dietcal/pkg/sentinel"
)

// ErrForbidden marks an ownership violation: the record exists but belongs
// to someone else.
var ErrForbidden = errors.New("meal does not belong to user")

// Service coordinates the meal pass-throughs: image upload, record
// persistence, label merging and analysis.
type Service struct {
	store    Store
	labels   LabelStore
	objects  objectstore.Store
	analyzer vision.Analyzer
	logger   *slog.Logger
	metrics  *metrics.Metrics
	now      func() time.Time
}

func NewService(store Store, labels LabelStore, objects objectstore.Store, analyzer vision.Analyzer, logger *slog.Logger, m *metrics.Metrics) *Service {
	return &Service{
		store:    store,
		labels:   labels,
		objects:  objects,
		analyzer: analyzer,
		logger:   logger.With("component", "meal.service"),
		metrics:  m,
		now:      time.Now,
	}
}

// Analyze passes the image through to the image-understanding API.
func (s *Service) Analyze(ctx context.Context, image []byte, mimeType, note string) (*vision.Analysis, error) {
	if len(image) == 0 {
		return nil, errors.New("no image provided")
	}
	return s.analyzer.AnalyzeMeal(ctx, image, mimeType, note)
}

// Save uploads the image, persists the record and merges any new labels
// into the user's label set.
func (s *Service) Save(ctx context.Context, userID string, data Data, image []byte, filename, contentType string) (*Meal, error) {
	if len(image) == 0 {
		return nil, errors.New("no image provided")
	}

	now := s.now()
	path := fmt.Sprintf("meals/%s/%d-%s", userID, now.UnixMilli(), filename)
	imageURL, err := s.objects.Put(ctx, path, contentType, image)
	if err != nil {
		return nil, fmt.Errorf("upload image: %w", err)
	}

	m := Meal{
		ID:            uuid.NewString(),
		UserID:        userID,
		ImageURL:      imageURL,
		Description:   data.Description,
		TotalCalories: data.TotalCalories,
		Macros:        data.Macros,
		FoodItems:     data.FoodItems,
		Labels:        data.Labels,
		CreatedAt:     now,
	}
	if err := s.store.Save(ctx, m); err != nil {
		return nil, fmt.Errorf("save meal: %w", err)
	}

	if len(data.Labels) > 0 {
		if _, err := s.labels.Merge(ctx, userID, data.Labels); err != nil {
			// Label bookkeeping is secondary to the record itself.
			s.logger.WarnContext(ctx, "label merge failed", "error", err)
		}
	}

	s.metrics.MealsSaved.Inc()
	return &m, nil
}

// List returns the user's meals, newest first.
func (s *Service) List(ctx context.Context, userID string) ([]Meal, error) {
	return s.store.ListByUser(ctx, userID)
}

// Delete removes a meal after an ownership check. The stored image is
// deleted best-effort: an object-store failure does not block record
// deletion.
func (s *Service) Delete(ctx context.Context, mealID, userID string) error {
	m, err := s.store.FindByID(ctx, mealID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return sentinel.ErrNotFound
	}
	if err != nil {
		return err
	}
	if m.UserID != userID {
		return ErrForbidden
	}

	if m.ImageURL != "" {
		if path, ok := objectPath(m.ImageURL); ok {
			if err := s.objects.Delete(ctx, path); err != nil {
				s.logger.WarnContext(ctx, "image delete failed", "path", path, "error", err)
			}
		}
	}

	if err := s.store.Delete(ctx, mealID); err != nil {
		return fmt.Errorf("delete meal: %w", err)
	}
	s.metrics.MealsDeleted.Inc()
	return nil
}

// UserLabels returns the user's label set, creating it on first read.
func (s *Service) UserLabels(ctx context.Context, userID string) ([]string, error) {
	return s.labels.Labels(ctx, userID)
}

// MergeLabels adds labels to the user's set, deduplicated.
func (s *Service) MergeLabels(ctx context.Context, userID string, labels []string) ([]string, error) {
	return s.labels.Merge(ctx, userID, labels)
}
