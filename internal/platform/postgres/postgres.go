// Package postgres owns the connection pool and the schema bootstrap for
// deployments backed by a database.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// New opens a pgx pool against url and verifies connectivity.
func New(ctx context.Context, url string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("open pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return pool, nil
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS meals (
		id             TEXT PRIMARY KEY,
		user_id        TEXT NOT NULL,
		image_url      TEXT NOT NULL DEFAULT '',
		description    TEXT NOT NULL DEFAULT '',
		total_calories INTEGER NOT NULL DEFAULT 0,
		protein_g      DOUBLE PRECISION NOT NULL DEFAULT 0,
		carbs_g        DOUBLE PRECISION NOT NULL DEFAULT 0,
		fat_g          DOUBLE PRECISION NOT NULL DEFAULT 0,
		food_items     JSONB NOT NULL DEFAULT '[]',
		labels         TEXT[] NOT NULL DEFAULT '{}',
		created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS meals_user_created_idx ON meals (user_id, created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS user_labels (
		user_id    TEXT PRIMARY KEY,
		labels     TEXT[] NOT NULL DEFAULT '{}',
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS user_settings (
		user_id            TEXT PRIMARY KEY,
		daily_calorie_goal INTEGER NOT NULL,
		created_at         TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at         TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
}

// EnsureSchema creates the tables the stores expect. Statements are
// idempotent so startup can run this unconditionally.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
