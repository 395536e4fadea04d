// Package settings holds per-user application settings. Reads are
// self-initializing: a user's first read creates their defaults.
package settings

import (
	"context"
	"time"
)

// DefaultDailyCalorieGoal seeds new users.
const DefaultDailyCalorieGoal = 2000

type Settings struct {
	DailyCalorieGoal int       `json:"dailyCalorieGoal"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// Update carries the mutable fields; nil means "leave unchanged".
type Update struct {
	DailyCalorieGoal *int `json:"dailyCalorieGoal,omitempty"`
}

type Store interface {
	// Get returns the user's settings, creating defaults on first read.
	Get(ctx context.Context, userID string) (Settings, error)

	// Apply merges the update into the user's settings and returns the
	// result.
	Apply(ctx context.Context, userID string, u Update) (Settings, error)
}
