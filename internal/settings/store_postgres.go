package settings

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Get(ctx context.Context, userID string) (Settings, error) {
	var out Settings
	err := s.pool.QueryRow(ctx, `
		SELECT daily_calorie_goal, created_at, updated_at
		FROM user_settings WHERE user_id = $1`, userID).
		Scan(&out.DailyCalorieGoal, &out.CreatedAt, &out.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return s.create(ctx, userID)
	}
	if err != nil {
		return Settings{}, fmt.Errorf("get settings: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) Apply(ctx context.Context, userID string, u Update) (Settings, error) {
	current, err := s.Get(ctx, userID)
	if err != nil {
		return Settings{}, err
	}
	if u.DailyCalorieGoal != nil {
		current.DailyCalorieGoal = *u.DailyCalorieGoal
	}

	var out Settings
	err = s.pool.QueryRow(ctx, `
		UPDATE user_settings
		SET daily_calorie_goal = $2, updated_at = now()
		WHERE user_id = $1
		RETURNING daily_calorie_goal, created_at, updated_at`,
		userID, current.DailyCalorieGoal).
		Scan(&out.DailyCalorieGoal, &out.CreatedAt, &out.UpdatedAt)
	if err != nil {
		return Settings{}, fmt.Errorf("apply settings: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) create(ctx context.Context, userID string) (Settings, error) {
	var out Settings
	err := s.pool.QueryRow(ctx, `
		INSERT INTO user_settings (user_id, daily_calorie_goal, created_at, updated_at)
		VALUES ($1, $2, now(), now())
		ON CONFLICT (user_id) DO UPDATE SET updated_at = user_settings.updated_at
		RETURNING daily_calorie_goal, created_at, updated_at`,
		userID, DefaultDailyCalorieGoal).
		Scan(&out.DailyCalorieGoal, &out.CreatedAt, &out.UpdatedAt)
	if err != nil {
		return Settings{}, fmt.Errorf("init settings: %w", err)
	}
	return out, nil
}
