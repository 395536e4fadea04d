package meal

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"dietcal/pkg/sentinel"
	"dietcal/pkg/strutil"
)

// PostgresStore is the production document-store adapter for meal records.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Save(ctx context.Context, m Meal) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO meals (id, user_id, image_url, description, total_calories,
			protein_g, carbs_g, fat_g, food_items, labels, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		m.ID, m.UserID, m.ImageURL, m.Description, m.TotalCalories,
		m.Macros.Protein, m.Macros.Carbs, m.Macros.Fat, m.FoodItems, m.Labels, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert meal: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id string) (Meal, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, user_id, image_url, description, total_calories,
			protein_g, carbs_g, fat_g, food_items, labels, created_at
		FROM meals WHERE id = $1`, id)

	m, err := scanMeal(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Meal{}, sentinel.ErrNotFound
	}
	if err != nil {
		return Meal{}, fmt.Errorf("find meal: %w", err)
	}
	return m, nil
}

func (s *PostgresStore) ListByUser(ctx context.Context, userID string) ([]Meal, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, user_id, image_url, description, total_calories,
			protein_g, carbs_g, fat_g, food_items, labels, created_at
		FROM meals WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list meals: %w", err)
	}
	defer rows.Close()

	var out []Meal
	for rows.Next() {
		m, err := scanMeal(rows)
		if err != nil {
			return nil, fmt.Errorf("scan meal: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM meals WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete meal: %w", err)
	}
	return nil
}

func scanMeal(row pgx.Row) (Meal, error) {
	var m Meal
	err := row.Scan(&m.ID, &m.UserID, &m.ImageURL, &m.Description, &m.TotalCalories,
		&m.Macros.Protein, &m.Macros.Carbs, &m.Macros.Fat, &m.FoodItems, &m.Labels, &m.CreatedAt)
	return m, err
}

// PostgresLabelStore persists per-user label sets.
type PostgresLabelStore struct {
	pool *pgxpool.Pool
}

func NewPostgresLabelStore(pool *pgxpool.Pool) *PostgresLabelStore {
	return &PostgresLabelStore{pool: pool}
}

func (s *PostgresLabelStore) Labels(ctx context.Context, userID string) ([]string, error) {
	var labels []string
	err := s.pool.QueryRow(ctx,
		`SELECT labels FROM user_labels WHERE user_id = $1`, userID).Scan(&labels)
	if errors.Is(err, pgx.ErrNoRows) {
		_, err = s.pool.Exec(ctx, `
			INSERT INTO user_labels (user_id, labels, updated_at) VALUES ($1, '{}', now())
			ON CONFLICT (user_id) DO NOTHING`, userID)
		if err != nil {
			return nil, fmt.Errorf("init user labels: %w", err)
		}
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user labels: %w", err)
	}
	return labels, nil
}

func (s *PostgresLabelStore) Merge(ctx context.Context, userID string, labels []string) ([]string, error) {
	existing, err := s.Labels(ctx, userID)
	if err != nil {
		return nil, err
	}
	merged := strutil.DedupeAndTrim(append(existing, labels...))
	_, err = s.pool.Exec(ctx, `
		INSERT INTO user_labels (user_id, labels, updated_at) VALUES ($1, $2, now())
		ON CONFLICT (user_id) DO UPDATE SET labels = $2, updated_at = now()`,
		userID, merged)
	if err != nil {
		return nil, fmt.Errorf("merge user labels: %w", err)
	}
	return merged, nil
}
