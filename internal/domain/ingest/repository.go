package ingest

import "context"

// Repository describes collector persistence. Every write is idempotent on its natural key.
type Repository interface {
	UpsertRatings(ctx context.Context, ratings []Rating) (int, error)
	ListRatings(ctx context.Context, limit int) ([]Rating, error)
	// ExistingGameIDs returns the subset of ids already stored under any tournament.
	ExistingGameIDs(ctx context.Context, ids []int64) (map[int64]struct{}, error)
	// InsertGame stores the game and its stats unless the game id already exists.
	InsertGame(ctx context.Context, game Game) (bool, error)
	PointsByPlayerName(ctx context.Context, tournamentID int64) (map[string]float64, error)
}
