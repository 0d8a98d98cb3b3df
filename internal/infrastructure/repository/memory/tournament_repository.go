package memory

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/riskibarqy/fantasy-draft/internal/domain/tournament"
)

type TournamentRepository struct {
	acc accessor
}

func NewTournamentRepository(db *Database) *TournamentRepository {
	return &TournamentRepository{acc: db}
}

func (r *TournamentRepository) GetByID(_ context.Context, id int64) (tournament.Tournament, bool, error) {
	var (
		out    tournament.Tournament
		exists bool
	)
	err := r.acc.read(func(s *state) error {
		out, exists = s.tournamentWithBaskets(id)
		return nil
	})
	return out, exists, err
}

func (r *TournamentRepository) GetActive(_ context.Context) (tournament.Tournament, bool, error) {
	var (
		out    tournament.Tournament
		exists bool
	)
	err := r.acc.read(func(s *state) error {
		for _, id := range s.sortedTournamentIDs() {
			if s.tournaments[id].IsActive {
				out, exists = s.tournamentWithBaskets(id)
				return nil
			}
		}
		return nil
	})
	return out, exists, err
}

func (r *TournamentRepository) List(_ context.Context) ([]tournament.Tournament, error) {
	var out []tournament.Tournament
	err := r.acc.read(func(s *state) error {
		ids := s.sortedTournamentIDs()
		out = make([]tournament.Tournament, 0, len(ids))
		for _, id := range ids {
			t, _ := s.tournamentWithBaskets(id)
			out = append(out, t)
		}
		return nil
	})
	return out, err
}

func (r *TournamentRepository) Create(_ context.Context, t tournament.Tournament) (tournament.Tournament, error) {
	var out tournament.Tournament
	err := r.acc.write(func(s *state) error {
		now := time.Now().UTC()
		s.nextTournamentID++
		t.ID = s.nextTournamentID
		t.CreatedAt = now
		t.UpdatedAt = now

		baskets := t.Baskets
		t.Baskets = nil
		s.tournaments[t.ID] = t
		for _, b := range baskets {
			s.nextBasketID++
			b.ID = s.nextBasketID
			b.TournamentID = t.ID
			s.baskets[b.ID] = b
		}

		out, _ = s.tournamentWithBaskets(t.ID)
		return nil
	})
	return out, err
}

func (r *TournamentRepository) Update(_ context.Context, t tournament.Tournament) error {
	return r.acc.write(func(s *state) error {
		current, ok := s.tournaments[t.ID]
		if !ok {
			return fmt.Errorf("update tournament %d: not found", t.ID)
		}
		current.Name = t.Name
		current.ExternalRef = t.ExternalRef
		current.IsActive = t.IsActive
		current.IsRegistrationClosed = t.IsRegistrationClosed
		current.IsParsing = t.IsParsing
		current.StartGameID = t.StartGameID
		current.UpdatedAt = time.Now().UTC()
		s.tournaments[t.ID] = current
		return nil
	})
}

func (r *TournamentRepository) DeactivateOthers(_ context.Context, keepID int64) error {
	return r.acc.write(func(s *state) error {
		for id, t := range s.tournaments {
			if id == keepID || !t.IsActive {
				continue
			}
			t.IsActive = false
			t.UpdatedAt = time.Now().UTC()
			s.tournaments[id] = t
		}
		return nil
	})
}

func (r *TournamentRepository) UpdateBudget(_ context.Context, id int64, budget int64) error {
	return r.acc.write(func(s *state) error {
		t, ok := s.tournaments[id]
		if !ok {
			return fmt.Errorf("update tournament %d budget: not found", id)
		}
		t.Budget = budget
		t.UpdatedAt = time.Now().UTC()
		s.tournaments[id] = t
		return nil
	})
}

func (s *state) tournamentWithBaskets(id int64) (tournament.Tournament, bool) {
	t, ok := s.tournaments[id]
	if !ok {
		return tournament.Tournament{}, false
	}
	t.Baskets = s.basketsOf(id)
	return t, true
}

func (s *state) basketsOf(tournamentID int64) []tournament.Basket {
	out := make([]tournament.Basket, 0, 4)
	for _, b := range s.baskets {
		if b.TournamentID == tournamentID {
			out = append(out, b)
		}
	}
	return tournament.Tournament{Baskets: out}.SortedBaskets()
}

func (s *state) sortedTournamentIDs() []int64 {
	ids := make([]int64, 0, len(s.tournaments))
	for id := range s.tournaments {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
