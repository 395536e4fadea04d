package meal

import (
	"context"
	"sort"
	"sync"

	"dietcal/pkg/sentinel"
	"dietcal/pkg/strutil"
)

// In-memory stores keep development and tests lightweight. They intentionally
// favor clarity over performance.
type MemoryStore struct {
	mu    sync.RWMutex
	meals map[string]Meal
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{meals: make(map[string]Meal)}
}

func (s *MemoryStore) Save(_ context.Context, m Meal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.meals[m.ID] = m
	return nil
}

func (s *MemoryStore) FindByID(_ context.Context, id string) (Meal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if m, ok := s.meals[id]; ok {
		return m, nil
	}
	return Meal{}, sentinel.ErrNotFound
}

func (s *MemoryStore) ListByUser(_ context.Context, userID string) ([]Meal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Meal
	for _, m := range s.meals {
		if m.UserID == userID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.meals, id)
	return nil
}

type MemoryLabelStore struct {
	mu     sync.RWMutex
	labels map[string][]string
}

func NewMemoryLabelStore() *MemoryLabelStore {
	return &MemoryLabelStore{labels: make(map[string][]string)}
}

func (s *MemoryLabelStore) Labels(_ context.Context, userID string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.labels[userID]; ok {
		return append([]string(nil), existing...), nil
	}
	s.labels[userID] = []string{}
	return []string{}, nil
}

func (s *MemoryLabelStore) Merge(_ context.Context, userID string, labels []string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	merged := strutil.DedupeAndTrim(append(append([]string(nil), s.labels[userID]...), labels...))
	s.labels[userID] = merged
	return append([]string(nil), merged...), nil
}
