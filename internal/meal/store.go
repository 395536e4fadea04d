package meal

import "context"

// Store persists meal records in the document store.
type Store interface {
	Save(ctx context.Context, m Meal) error
	FindByID(ctx context.Context, id string) (Meal, error)
	ListByUser(ctx context.Context, userID string) ([]Meal, error)
	Delete(ctx context.Context, id string) error
}

// LabelStore persists the per-user label set. First read for a new user
// creates an empty set.
type LabelStore interface {
	Labels(ctx context.Context, userID string) ([]string, error)
	Merge(ctx context.Context, userID string, labels []string) ([]string, error)
}
