package postgres

import (
	"context"
	"fmt"

	"github.com/riskibarqy/fantasy-draft/internal/domain/draft"
	"github.com/riskibarqy/fantasy-draft/internal/domain/player"
	"github.com/riskibarqy/fantasy-draft/internal/domain/tournament"
)

// BootstrapSeed creates one active demo tournament with a distributed roster when
// the database has no tournaments yet.
func BootstrapSeed(ctx context.Context, tx *Transactor, basketCount int) error {
	existing, err := tx.Store().Tournaments().List(ctx)
	if err != nil {
		return fmt.Errorf("list tournaments for bootstrap seed: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}

	return tx.WithinTx(ctx, nil, func(ctx context.Context, store draft.Store) error {
		created, err := store.Tournaments().Create(ctx, tournament.Tournament{
			Name:        "Demo Cup",
			ExternalRef: "demo-cup",
			IsActive:    true,
			IsParsing:   true,
			Baskets:     tournament.NewBaskets(basketCount),
		})
		if err != nil {
			return fmt.Errorf("seed tournament: %w", err)
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
			return fmt.Errorf("seed roster: %w", err)
		}
		if _, err := store.Players().ReplaceRoster(ctx, created.ID, players); err != nil {
			return fmt.Errorf("seed roster: %w", err)
		}
		if budget, ok := draft.Budget(players, len(created.PickingBaskets())); ok {
			if err := store.Tournaments().UpdateBudget(ctx, created.ID, budget); err != nil {
				return fmt.Errorf("seed budget: %w", err)
			}
		}
		return nil
	})
}
