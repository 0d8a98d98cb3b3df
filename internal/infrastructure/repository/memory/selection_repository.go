package memory

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/riskibarqy/fantasy-draft/internal/domain/draft"
	"github.com/riskibarqy/fantasy-draft/internal/domain/selection"
)

type SelectionRepository struct {
	acc accessor
}

func NewSelectionRepository(db *Database) *SelectionRepository {
	return &SelectionRepository{acc: db}
}

func (r *SelectionRepository) ListByUser(_ context.Context, userID string, tournamentID int64) ([]selection.PickWithPlayerAndBasket, error) {
	var out []selection.PickWithPlayerAndBasket
	err := r.acc.read(func(s *state) error {
		out = s.picks(tournamentID, func(key selectionKey) bool { return key.userID == userID })
		return nil
	})
	return out, err
}

func (r *SelectionRepository) ListByTournament(_ context.Context, tournamentID int64) ([]selection.PickWithPlayerAndBasket, error) {
	var out []selection.PickWithPlayerAndBasket
	err := r.acc.read(func(s *state) error {
		out = s.picks(tournamentID, func(selectionKey) bool { return true })
		return nil
	})
	return out, err
}

func (r *SelectionRepository) DeleteSelections(_ context.Context, userID string, playerIDs []int64) error {
	if len(playerIDs) == 0 {
		return nil
	}
	return r.acc.write(func(s *state) error {
		for _, id := range playerIDs {
			delete(s.selections, selectionKey{userID: userID, playerID: id})
		}
		return nil
	})
}

func (r *SelectionRepository) InsertSelections(_ context.Context, rows []selection.Selection) error {
	if len(rows) == 0 {
		return nil
	}
	return r.acc.write(func(s *state) error {
		for _, row := range rows {
			if strings.TrimSpace(row.UserID) == "" {
				return fmt.Errorf("insert selection: user id is required")
			}
			if _, ok := s.players[row.PlayerID]; !ok {
				return draft.IntegrityError("player %d no longer exists", row.PlayerID)
			}
			key := selectionKey{userID: row.UserID, playerID: row.PlayerID}
			if _, ok := s.selections[key]; ok {
				return fmt.Errorf("insert selection: duplicate (user=%s, player=%d)", row.UserID, row.PlayerID)
			}
			s.nextSelectionSeq++
			s.selections[key] = s.nextSelectionSeq
		}
		return nil
	})
}

func (s *state) picks(tournamentID int64, match func(selectionKey) bool) []selection.PickWithPlayerAndBasket {
	out := make([]selection.PickWithPlayerAndBasket, 0)
	for key := range s.selections {
		if !match(key) {
			continue
		}
		p, ok := s.players[key.playerID]
		if !ok {
			continue
		}
		b, ok := s.baskets[p.BasketID]
		if !ok || b.TournamentID != tournamentID {
			continue
		}
		out = append(out, selection.PickWithPlayerAndBasket{
			UserID:          key.userID,
			TournamentID:    tournamentID,
			PlayerID:        p.ID,
			PlayerName:      p.Name,
			Cost:            p.Cost,
			Points:          p.Points,
			BasketID:        b.ID,
			BasketSortOrder: b.SortOrder,
		})
	}
	slices.SortFunc(out, func(a, b selection.PickWithPlayerAndBasket) int {
		if c := strings.Compare(a.UserID, b.UserID); c != 0 {
			return c
		}
		if a.BasketSortOrder != b.BasketSortOrder {
			return a.BasketSortOrder - b.BasketSortOrder
		}
		if a.PlayerID < b.PlayerID {
			return -1
		}
		if a.PlayerID > b.PlayerID {
			return 1
		}
		return 0
	})
	return out
}
