package memory

import (
	"context"
	"fmt"

	"github.com/riskibarqy/fantasy-draft/internal/domain/draft"
	"github.com/riskibarqy/fantasy-draft/internal/domain/player"
	"github.com/riskibarqy/fantasy-draft/internal/domain/tournament"
	"github.com/riskibarqy/fantasy-draft/internal/domain/user"
)

const SeedAdminUserID = "00000000-0000-0000-0000-000000000001"

// Seed fills db with one active tournament whose roster is distributed over
// basketCount baskets and whose budget is derived from that roster.
func Seed(ctx context.Context, db *Database, basketCount int) (tournament.Tournament, error) {
	created, err := NewTournamentRepository(db).Create(ctx, tournament.Tournament{
		Name:        "Demo Cup",
		ExternalRef: "demo-cup",
		IsActive:    true,
		IsParsing:   true,
		Baskets:     tournament.NewBaskets(basketCount),
	})
	if err != nil {
		return tournament.Tournament{}, fmt.Errorf("seed tournament: %w", err)
	}

	candidates := make([]player.Candidate, 0, basketCount*3)
	for i := 1; i <= basketCount*3; i++ {
		candidates = append(candidates, player.Candidate{
			Name: fmt.Sprintf("Player %02d", i),
			Rank: i,
			Cost: int64(1000 - i*25),
		})
	}
	players, err := draft.RosterPlayers(created, candidates)
	if err != nil {
		return tournament.Tournament{}, fmt.Errorf("seed roster: %w", err)
	}
	if _, err := NewPlayerRepository(db).ReplaceRoster(ctx, created.ID, players); err != nil {
		return tournament.Tournament{}, fmt.Errorf("seed roster: %w", err)
	}
	if budget, ok := draft.Budget(players, len(created.PickingBaskets())); ok {
		if err := NewTournamentRepository(db).UpdateBudget(ctx, created.ID, budget); err != nil {
			return tournament.Tournament{}, fmt.Errorf("seed budget: %w", err)
		}
	}
	if err := NewProfileRepository(db).Upsert(ctx, user.Profile{ID: SeedAdminUserID, Username: "admin", IsAdmin: true}); err != nil {
		return tournament.Tournament{}, fmt.Errorf("seed admin profile: %w", err)
	}

	out, _, err := NewTournamentRepository(db).GetByID(ctx, created.ID)
	return out, err
}
