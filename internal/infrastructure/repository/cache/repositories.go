package cache

import (
	"context"

	"github.com/riskibarqy/fantasy-draft/internal/domain/draft"
	"github.com/riskibarqy/fantasy-draft/internal/domain/player"
	"github.com/riskibarqy/fantasy-draft/internal/domain/tournament"
	basecache "github.com/riskibarqy/fantasy-draft/internal/platform/cache"
)

// TournamentRepository caches the read side of tournaments. Writes pass through
// and drop the affected keys; draft events drop them too.
type TournamentRepository struct {
	next  tournament.Repository
	cache *basecache.Store
}

func NewTournamentRepository(next tournament.Repository, cache *basecache.Store) *TournamentRepository {
	return &TournamentRepository{next: next, cache: cache}
}

func (r *TournamentRepository) List(ctx context.Context) ([]tournament.Tournament, error) {
	v, err := r.cache.GetOrLoad(ctx, draft.TournamentListScope+"list", func(ctx context.Context) (any, error) {
		items, err := r.next.List(ctx)
		if err != nil {
			return nil, err
		}
		return append([]tournament.Tournament(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]tournament.Tournament)
	return append([]tournament.Tournament(nil), items...), nil
}

func (r *TournamentRepository) GetActive(ctx context.Context) (tournament.Tournament, bool, error) {
	v, err := r.cache.GetOrLoad(ctx, draft.TournamentListScope+"active", func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetActive(ctx)
		if err != nil {
			return nil, err
		}
		return cachedTournament{value: item, exists: exists}, nil
	})
	if err != nil {
		return tournament.Tournament{}, false, err
	}

	cached, _ := v.(cachedTournament)
	return cached.value, cached.exists, nil
}

func (r *TournamentRepository) GetByID(ctx context.Context, id int64) (tournament.Tournament, bool, error) {
	v, err := r.cache.GetOrLoad(ctx, draft.ViewScope(id)+"tournament", func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return cachedTournament{value: item, exists: exists}, nil
	})
	if err != nil {
		return tournament.Tournament{}, false, err
	}

	cached, _ := v.(cachedTournament)
	return cached.value, cached.exists, nil
}

func (r *TournamentRepository) Create(ctx context.Context, t tournament.Tournament) (tournament.Tournament, error) {
	created, err := r.next.Create(ctx, t)
	if err != nil {
		return tournament.Tournament{}, err
	}
	r.cache.DeletePrefix(ctx, draft.TournamentListScope)
	return created, nil
}

func (r *TournamentRepository) Update(ctx context.Context, t tournament.Tournament) error {
	if err := r.next.Update(ctx, t); err != nil {
		return err
	}
	r.invalidate(ctx, t.ID)
	return nil
}

func (r *TournamentRepository) DeactivateOthers(ctx context.Context, keepID int64) error {
	if err := r.next.DeactivateOthers(ctx, keepID); err != nil {
		return err
	}
	r.cache.DeletePrefix(ctx, draft.TournamentListScope)
	r.cache.DeletePrefix(ctx, draft.AllViewsScope)
	return nil
}

func (r *TournamentRepository) UpdateBudget(ctx context.Context, id int64, budget int64) error {
	if err := r.next.UpdateBudget(ctx, id, budget); err != nil {
		return err
	}
	r.invalidate(ctx, id)
	return nil
}

func (r *TournamentRepository) invalidate(ctx context.Context, id int64) {
	r.cache.DeletePrefix(ctx, draft.TournamentListScope)
	r.cache.DeletePrefix(ctx, draft.ViewScope(id))
}

type cachedTournament struct {
	value  tournament.Tournament
	exists bool
}

// PlayerRepository caches whole rosters. Id lookups always reach the next
// repository so validation never sees a stale price.
type PlayerRepository struct {
	next  player.Repository
	cache *basecache.Store
}

func NewPlayerRepository(next player.Repository, cache *basecache.Store) *PlayerRepository {
	return &PlayerRepository{next: next, cache: cache}
}

func (r *PlayerRepository) ListByTournament(ctx context.Context, tournamentID int64) ([]player.Player, error) {
	v, err := r.cache.GetOrLoad(ctx, draft.ViewScope(tournamentID)+"roster", func(ctx context.Context) (any, error) {
		items, err := r.next.ListByTournament(ctx, tournamentID)
		if err != nil {
			return nil, err
		}
		return append([]player.Player(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]player.Player)
	return append([]player.Player(nil), items...), nil
}

func (r *PlayerRepository) GetByIDs(ctx context.Context, tournamentID int64, ids []int64) ([]player.Player, error) {
	return r.next.GetByIDs(ctx, tournamentID, ids)
}

func (r *PlayerRepository) ReplaceRoster(ctx context.Context, tournamentID int64, players []player.Player) ([]player.Player, error) {
	out, err := r.next.ReplaceRoster(ctx, tournamentID, players)
	if err != nil {
		return nil, err
	}
	r.cache.DeletePrefix(ctx, draft.ViewScope(tournamentID))
	return out, nil
}

func (r *PlayerRepository) Insert(ctx context.Context, p player.Player) (player.Player, error) {
	out, err := r.next.Insert(ctx, p)
	if err != nil {
		return player.Player{}, err
	}
	r.cache.DeletePrefix(ctx, draft.AllViewsScope)
	return out, nil
}

func (r *PlayerRepository) Delete(ctx context.Context, tournamentID, playerID int64) (bool, error) {
	deleted, err := r.next.Delete(ctx, tournamentID, playerID)
	if err != nil {
		return false, err
	}
	r.cache.DeletePrefix(ctx, draft.ViewScope(tournamentID))
	return deleted, nil
}

func (r *PlayerRepository) UpdatePoints(ctx context.Context, tournamentID int64, pointsByName map[string]int64) (int, error) {
	touched, err := r.next.UpdatePoints(ctx, tournamentID, pointsByName)
	if err != nil {
		return touched, err
	}
	if touched > 0 {
		r.cache.DeletePrefix(ctx, draft.ViewScope(tournamentID))
	}
	return touched, nil
}
