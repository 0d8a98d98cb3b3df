package usecase

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/riskibarqy/fantasy-draft/internal/domain/draft"
	"github.com/riskibarqy/fantasy-draft/internal/domain/player"
	"github.com/riskibarqy/fantasy-draft/internal/domain/selection"
	"github.com/riskibarqy/fantasy-draft/internal/domain/tournament"
	basecache "github.com/riskibarqy/fantasy-draft/internal/platform/cache"
)

type LeaderboardSort string

const (
	SortByPoints LeaderboardSort = "points"
	SortByCost   LeaderboardSort = "cost"
)

type LeaderboardEntry struct {
	Rank        int
	UserID      string
	TotalPoints int64
	TotalCost   int64
	Picks       []selection.PickWithPlayerAndBasket
}

type PlayerPickStat struct {
	PlayerID   int64
	Name       string
	BasketID   int64
	Cost       int64
	Points     int64
	PickCount  int
	PointsCost float64
}

// ViewCachePrefix scopes every cached view of one tournament.
func ViewCachePrefix(tournamentID int64) string {
	return draft.ViewScope(tournamentID)
}

// LeaderboardService builds the read-side views derived from selections.
type LeaderboardService struct {
	tournaments tournament.Repository
	players     player.Repository
	selections  selection.Repository
	cache       *basecache.Store
}

func NewLeaderboardService(tournaments tournament.Repository, players player.Repository, selections selection.Repository, cache *basecache.Store) *LeaderboardService {
	return &LeaderboardService{
		tournaments: tournaments,
		players:     players,
		selections:  selections,
		cache:       cache,
	}
}

func (s *LeaderboardService) Leaderboard(ctx context.Context, tournamentID int64, sortBy LeaderboardSort) ([]LeaderboardEntry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeaderboardService.Leaderboard")
	defer span.End()

	sortBy = LeaderboardSort(strings.ToLower(strings.TrimSpace(string(sortBy))))
	switch sortBy {
	case "":
		sortBy = SortByPoints
	case SortByPoints, SortByCost:
	default:
		return nil, fmt.Errorf("%w: unknown sort %q", ErrInvalidInput, sortBy)
	}

	v, err := s.load(ctx, ViewCachePrefix(tournamentID)+"leaderboard:"+string(sortBy), func(ctx context.Context) (any, error) {
		if err := s.ensureTournament(ctx, tournamentID); err != nil {
			return nil, err
		}
		picks, err := s.selections.ListByTournament(ctx, tournamentID)
		if err != nil {
			return nil, fmt.Errorf("list selections: %w", err)
		}
		return buildLeaderboard(picks, sortBy), nil
	})
	if err != nil {
		return nil, err
	}
	entries, _ := v.([]LeaderboardEntry)
	return slices.Clone(entries), nil
}

func (s *LeaderboardService) PickStats(ctx context.Context, tournamentID int64) ([]PlayerPickStat, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeaderboardService.PickStats")
	defer span.End()

	v, err := s.load(ctx, ViewCachePrefix(tournamentID)+"stats", func(ctx context.Context) (any, error) {
		if err := s.ensureTournament(ctx, tournamentID); err != nil {
			return nil, err
		}
		roster, err := s.players.ListByTournament(ctx, tournamentID)
		if err != nil {
			return nil, fmt.Errorf("list roster: %w", err)
		}
		picks, err := s.selections.ListByTournament(ctx, tournamentID)
		if err != nil {
			return nil, fmt.Errorf("list selections: %w", err)
		}
		return buildPickStats(roster, picks), nil
	})
	if err != nil {
		return nil, err
	}
	stats, _ := v.([]PlayerPickStat)
	return slices.Clone(stats), nil
}

func (s *LeaderboardService) load(ctx context.Context, key string, loader func(context.Context) (any, error)) (any, error) {
	if s.cache == nil {
		return loader(ctx)
	}
	return s.cache.GetOrLoad(ctx, key, loader)
}

func (s *LeaderboardService) ensureTournament(ctx context.Context, tournamentID int64) error {
	_, exists, err := s.tournaments.GetByID(ctx, tournamentID)
	if err != nil {
		return fmt.Errorf("get tournament: %w", err)
	}
	if !exists {
		return draft.NotFound(draft.ErrTournamentNotFound, "tournament %d", tournamentID)
	}
	return nil
}

func buildLeaderboard(picks []selection.PickWithPlayerAndBasket, sortBy LeaderboardSort) []LeaderboardEntry {
	byUser := make(map[string]*LeaderboardEntry)
	order := make([]string, 0)
	for _, p := range picks {
		entry, ok := byUser[p.UserID]
		if !ok {
			entry = &LeaderboardEntry{UserID: p.UserID}
			byUser[p.UserID] = entry
			order = append(order, p.UserID)
		}
		entry.TotalPoints += p.Points
		entry.TotalCost += p.Cost
		entry.Picks = append(entry.Picks, p)
	}

	out := make([]LeaderboardEntry, 0, len(order))
	for _, id := range order {
		out = append(out, *byUser[id])
	}
	slices.SortStableFunc(out, func(a, b LeaderboardEntry) int {
		var c int
		if sortBy == SortByCost {
			c = cmp.Compare(b.TotalCost, a.TotalCost)
		} else {
			c = cmp.Compare(b.TotalPoints, a.TotalPoints)
		}
		if c != 0 {
			return c
		}
		return strings.Compare(a.UserID, b.UserID)
	})
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}

func buildPickStats(roster []player.Player, picks []selection.PickWithPlayerAndBasket) []PlayerPickStat {
	counts := make(map[int64]int, len(roster))
	for _, p := range picks {
		counts[p.PlayerID]++
	}

	out := make([]PlayerPickStat, 0, len(roster))
	for _, p := range roster {
		stat := PlayerPickStat{
			PlayerID:  p.ID,
			Name:      p.Name,
			BasketID:  p.BasketID,
			Cost:      p.Cost,
			Points:    p.Points,
			PickCount: counts[p.ID],
		}
		if p.Cost > 0 {
			stat.PointsCost = float64(p.Points) / float64(p.Cost)
		}
		out = append(out, stat)
	}
	slices.SortStableFunc(out, func(a, b PlayerPickStat) int {
		if c := cmp.Compare(b.PickCount, a.PickCount); c != 0 {
			return c
		}
		return strings.Compare(a.Name, b.Name)
	})
	return out
}
