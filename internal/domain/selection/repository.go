package selection

import "context"

// Repository describes selection persistence needs from use cases.
type Repository interface {
	ListByUser(ctx context.Context, userID string, tournamentID int64) ([]PickWithPlayerAndBasket, error)
	ListByTournament(ctx context.Context, tournamentID int64) ([]PickWithPlayerAndBasket, error)
	// DeleteSelections removes the user's rows whose player is in playerIDs.
	DeleteSelections(ctx context.Context, userID string, playerIDs []int64) error
	InsertSelections(ctx context.Context, rows []Selection) error
}
