package memory

import (
	"context"
	"fmt"
	"slices"

	"github.com/riskibarqy/fantasy-draft/internal/domain/player"
)

type PlayerRepository struct {
	acc accessor
}

func NewPlayerRepository(db *Database) *PlayerRepository {
	return &PlayerRepository{acc: db}
}

func (r *PlayerRepository) GetByIDs(_ context.Context, tournamentID int64, ids []int64) ([]player.Player, error) {
	var out []player.Player
	err := r.acc.read(func(s *state) error {
		out = make([]player.Player, 0, len(ids))
		seen := make(map[int64]struct{}, len(ids))
		for _, id := range ids {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			p, ok := s.players[id]
			if !ok || !s.inTournament(p, tournamentID) {
				continue
			}
			out = append(out, p)
		}
		return nil
	})
	return out, err
}

func (r *PlayerRepository) ListByTournament(_ context.Context, tournamentID int64) ([]player.Player, error) {
	var out []player.Player
	err := r.acc.read(func(s *state) error {
		out = s.playersOf(tournamentID)
		return nil
	})
	return out, err
}

func (r *PlayerRepository) ReplaceRoster(_ context.Context, tournamentID int64, players []player.Player) ([]player.Player, error) {
	var out []player.Player
	err := r.acc.write(func(s *state) error {
		for _, p := range players {
			if !s.basketInTournament(p.BasketID, tournamentID) {
				return fmt.Errorf("replace roster: basket %d is not in tournament %d", p.BasketID, tournamentID)
			}
		}
		for _, p := range s.playersOf(tournamentID) {
			s.deletePlayer(p.ID)
		}

		out = make([]player.Player, 0, len(players))
		for _, p := range players {
			out = append(out, s.insertPlayer(p))
		}
		return nil
	})
	return out, err
}

func (r *PlayerRepository) Insert(_ context.Context, p player.Player) (player.Player, error) {
	var out player.Player
	err := r.acc.write(func(s *state) error {
		if _, ok := s.baskets[p.BasketID]; !ok {
			return fmt.Errorf("insert player: basket %d not found", p.BasketID)
		}
		out = s.insertPlayer(p)
		return nil
	})
	return out, err
}

func (r *PlayerRepository) Delete(_ context.Context, tournamentID, playerID int64) (bool, error) {
	var deleted bool
	err := r.acc.write(func(s *state) error {
		p, ok := s.players[playerID]
		if !ok || !s.inTournament(p, tournamentID) {
			return nil
		}
		s.deletePlayer(playerID)
		deleted = true
		return nil
	})
	return deleted, err
}

func (r *PlayerRepository) UpdatePoints(_ context.Context, tournamentID int64, pointsByName map[string]int64) (int, error) {
	var touched int
	err := r.acc.write(func(s *state) error {
		for _, p := range s.playersOf(tournamentID) {
			points, ok := pointsByName[p.Name]
			if !ok || p.Points == points {
				continue
			}
			p.Points = points
			s.players[p.ID] = p
			touched++
		}
		return nil
	})
	return touched, err
}

func (s *state) inTournament(p player.Player, tournamentID int64) bool {
	return s.basketInTournament(p.BasketID, tournamentID)
}

func (s *state) basketInTournament(basketID, tournamentID int64) bool {
	b, ok := s.baskets[basketID]
	return ok && b.TournamentID == tournamentID
}

func (s *state) playersOf(tournamentID int64) []player.Player {
	out := make([]player.Player, 0)
	for _, p := range s.players {
		if s.inTournament(p, tournamentID) {
			out = append(out, p)
		}
	}
	slices.SortFunc(out, func(a, b player.Player) int {
		sa, sb := s.baskets[a.BasketID].SortOrder, s.baskets[b.BasketID].SortOrder
		if sa != sb {
			return sa - sb
		}
		if a.Cost != b.Cost {
			if a.Cost > b.Cost {
				return -1
			}
			return 1
		}
		if a.ID < b.ID {
			return -1
		}
		if a.ID > b.ID {
			return 1
		}
		return 0
	})
	return out
}

func (s *state) insertPlayer(p player.Player) player.Player {
	s.nextPlayerID++
	p.ID = s.nextPlayerID
	s.players[p.ID] = p
	return p
}

// deletePlayer mirrors the selections foreign key cascade.
func (s *state) deletePlayer(id int64) {
	delete(s.players, id)
	for key := range s.selections {
		if key.playerID == id {
			delete(s.selections, key)
		}
	}
}
