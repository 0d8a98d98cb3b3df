package memory

import (
	"context"
	"slices"

	"github.com/riskibarqy/fantasy-draft/internal/domain/ingest"
	"github.com/riskibarqy/fantasy-draft/internal/domain/user"
)

type IngestRepository struct {
	acc accessor
}

func NewIngestRepository(db *Database) *IngestRepository {
	return &IngestRepository{acc: db}
}

func (r *IngestRepository) UpsertRatings(_ context.Context, ratings []ingest.Rating) (int, error) {
	err := r.acc.write(func(s *state) error {
		for _, rating := range ratings {
			s.ratings[rating.Rank] = rating
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(ratings), nil
}

func (r *IngestRepository) ListRatings(_ context.Context, limit int) ([]ingest.Rating, error) {
	var out []ingest.Rating
	err := r.acc.read(func(s *state) error {
		out = make([]ingest.Rating, 0, len(s.ratings))
		for _, rating := range s.ratings {
			out = append(out, rating)
		}
		slices.SortFunc(out, func(a, b ingest.Rating) int { return a.Rank - b.Rank })
		if limit > 0 && len(out) > limit {
			out = out[:limit]
		}
		return nil
	})
	return out, err
}

func (r *IngestRepository) ExistingGameIDs(_ context.Context, ids []int64) (map[int64]struct{}, error) {
	out := make(map[int64]struct{})
	err := r.acc.read(func(s *state) error {
		for _, id := range ids {
			if _, ok := s.games[id]; ok {
				out[id] = struct{}{}
			}
		}
		return nil
	})
	return out, err
}

func (r *IngestRepository) InsertGame(_ context.Context, game ingest.Game) (bool, error) {
	var inserted bool
	err := r.acc.write(func(s *state) error {
		if _, ok := s.games[game.ID]; ok {
			return nil
		}
		game.Stats = slices.Clone(game.Stats)
		s.games[game.ID] = game
		inserted = true
		return nil
	})
	return inserted, err
}

func (r *IngestRepository) PointsByPlayerName(_ context.Context, tournamentID int64) (map[string]float64, error) {
	out := make(map[string]float64)
	err := r.acc.read(func(s *state) error {
		for _, g := range s.games {
			if g.TournamentID != tournamentID {
				continue
			}
			for _, stat := range g.Stats {
				out[stat.PlayerName] += stat.Points
			}
		}
		return nil
	})
	return out, err
}

type ProfileRepository struct {
	acc accessor
}

func NewProfileRepository(db *Database) *ProfileRepository {
	return &ProfileRepository{acc: db}
}

func (r *ProfileRepository) GetByID(_ context.Context, userID string) (user.Profile, bool, error) {
	var (
		out    user.Profile
		exists bool
	)
	err := r.acc.read(func(s *state) error {
		out, exists = s.profiles[userID]
		return nil
	})
	return out, exists, err
}

func (r *ProfileRepository) Upsert(_ context.Context, p user.Profile) error {
	return r.acc.write(func(s *state) error {
		s.profiles[p.ID] = p
		return nil
	})
}
