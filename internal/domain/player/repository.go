package player

import "context"

// Repository describes player persistence needs from use cases.
type Repository interface {
	// GetByIDs returns the players among ids that belong to a basket of the tournament.
	GetByIDs(ctx context.Context, tournamentID int64, ids []int64) ([]Player, error)
	ListByTournament(ctx context.Context, tournamentID int64) ([]Player, error)
	// ReplaceRoster deletes every player of the tournament and inserts players.
	ReplaceRoster(ctx context.Context, tournamentID int64, players []Player) ([]Player, error)
	Insert(ctx context.Context, p Player) (Player, error)
	Delete(ctx context.Context, tournamentID, playerID int64) (bool, error)
	// UpdatePoints sets points by player name within the tournament and returns rows touched.
	UpdatePoints(ctx context.Context, tournamentID int64, pointsByName map[string]int64) (int, error)
}
