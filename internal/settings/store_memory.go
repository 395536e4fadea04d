package settings

import (
	"context"
	"sync"
	"time"
)

type MemoryStore struct {
	mu       sync.Mutex
	settings map[string]Settings
	now      func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		settings: make(map[string]Settings),
		now:      time.Now,
	}
}

func (s *MemoryStore) Get(_ context.Context, userID string) (Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getOrCreate(userID), nil
}

func (s *MemoryStore) Apply(_ context.Context, userID string, u Update) (Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	current := s.getOrCreate(userID)
	if u.DailyCalorieGoal != nil {
		current.DailyCalorieGoal = *u.DailyCalorieGoal
	}
	current.UpdatedAt = s.now()
	s.settings[userID] = current
	return current, nil
}

func (s *MemoryStore) getOrCreate(userID string) Settings {
	if existing, ok := s.settings[userID]; ok {
		return existing
	}
	now := s.now()
	created := Settings{
		DailyCalorieGoal: DefaultDailyCalorieGoal,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	s.settings[userID] = created
	return created
}
