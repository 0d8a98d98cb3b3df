package tournament

import "context"

// Repository describes tournament persistence needs from use cases.
type Repository interface {
	// GetByID returns the tournament with its baskets.
	GetByID(ctx context.Context, id int64) (Tournament, bool, error)
	GetActive(ctx context.Context) (Tournament, bool, error)
	List(ctx context.Context) ([]Tournament, error)
	// Create inserts the tournament and its baskets.
	Create(ctx context.Context, t Tournament) (Tournament, error)
	Update(ctx context.Context, t Tournament) error
	DeactivateOthers(ctx context.Context, keepID int64) error
	UpdateBudget(ctx context.Context, id int64, budget int64) error
}
