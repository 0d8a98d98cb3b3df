package usecase

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/fantasy-draft/internal/domain/draft"
	"github.com/riskibarqy/fantasy-draft/internal/domain/ingest"
	"github.com/riskibarqy/fantasy-draft/internal/domain/player"
	"github.com/riskibarqy/fantasy-draft/internal/domain/tournament"
	"github.com/riskibarqy/fantasy-draft/internal/platform/logging"
	"github.com/sourcegraph/conc/pool"
	"go.opentelemetry.io/otel/attribute"
)

const (
	defaultGameBatchSize = 3
	defaultSyncWorkers   = 3
)

// GameSource is the external feed the collector reads from.
type GameSource interface {
	FetchRatings(ctx context.Context) ([]ingest.Rating, error)
	ListGameIDs(ctx context.Context, externalRef string) ([]int64, error)
	FetchGame(ctx context.Context, gameID int64) (ingest.Game, error)
}

type SyncConfig struct {
	GameBatchSize int
	Workers       int
}

type GamesReport struct {
	TournamentID  int64
	Listed        int
	Unseen        int
	Processed     int
	Inserted      int
	Failed        int
	PlayersScored int
}

// SyncService upserts collector output. Each run makes bounded progress and is
// safe to repeat.
type SyncService struct {
	tournaments tournament.Repository
	players     player.Repository
	ingest      ingest.Repository
	source      GameSource
	publisher   EventPublisher
	metrics     DraftMetrics
	cfg         SyncConfig
	logger      *logging.Logger
	now         func() time.Time
}

func NewSyncService(
	tournaments tournament.Repository,
	players player.Repository,
	ingestRepo ingest.Repository,
	source GameSource,
	publisher EventPublisher,
	metrics DraftMetrics,
	cfg SyncConfig,
	logger *logging.Logger,
) *SyncService {
	if publisher == nil {
		publisher = nopPublisher{}
	}
	if metrics == nil {
		metrics = nopMetrics{}
	}
	if cfg.GameBatchSize <= 0 {
		cfg.GameBatchSize = defaultGameBatchSize
	}
	if cfg.Workers <= 0 {
		cfg.Workers = defaultSyncWorkers
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &SyncService{
		tournaments: tournaments,
		players:     players,
		ingest:      ingestRepo,
		source:      source,
		publisher:   publisher,
		metrics:     metrics,
		cfg:         cfg,
		logger:      logger,
		now:         time.Now,
	}
}

func (s *SyncService) SyncRatings(ctx context.Context) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncService.SyncRatings")
	defer span.End()

	ratings, err := s.source.FetchRatings(ctx)
	if err != nil {
		recordSpanError(span, err)
		return 0, fmt.Errorf("%w: fetch ratings: %v", ErrDependencyUnavailable, err)
	}

	valid := make([]ingest.Rating, 0, len(ratings))
	seen := make(map[int]struct{}, len(ratings))
	for _, r := range ratings {
		r.PlayerName = strings.TrimSpace(r.PlayerName)
		if err := r.ValidateBasic(); err != nil {
			s.logger.WarnContext(ctx, "skip invalid rating", "rank", r.Rank, "error", err)
			s.metrics.SyncUnit("rating", "skipped")
			continue
		}
		if _, dup := seen[r.Rank]; dup {
			continue
		}
		seen[r.Rank] = struct{}{}
		valid = append(valid, r)
	}

	upserted, err := s.ingest.UpsertRatings(ctx, valid)
	if err != nil {
		recordSpanError(span, err)
		return 0, fmt.Errorf("upsert ratings: %w", err)
	}
	s.metrics.SyncUnit("rating", "success")
	s.logger.InfoContext(ctx, "ratings synced", "fetched", len(ratings), "upserted", upserted)
	return upserted, nil
}

// SyncGames ingests at most one batch of unseen games and then recomputes
// player points. A game counts as seen once any tournament stores it. A failing
// game is logged and skipped; the next run picks it up again.
func (s *SyncService) SyncGames(ctx context.Context, tournamentID int64) (GamesReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncService.SyncGames", attribute.Int64("tournament_id", tournamentID))
	defer span.End()

	report := GamesReport{TournamentID: tournamentID}
	t, exists, err := s.tournaments.GetByID(ctx, tournamentID)
	if err != nil {
		return report, fmt.Errorf("get tournament: %w", err)
	}
	if !exists {
		return report, draft.NotFound(draft.ErrTournamentNotFound, "tournament %d", tournamentID)
	}
	if strings.TrimSpace(t.ExternalRef) == "" {
		return report, fmt.Errorf("%w: tournament %d has no external ref", ErrInvalidInput, tournamentID)
	}

	listed, err := s.source.ListGameIDs(ctx, t.ExternalRef)
	if err != nil {
		recordSpanError(span, err)
		return report, fmt.Errorf("%w: list games: %v", ErrDependencyUnavailable, err)
	}
	candidates := make([]int64, 0, len(listed))
	for _, id := range slices.Compact(slices.Sorted(slices.Values(listed))) {
		if t.IncludesGame(id) {
			candidates = append(candidates, id)
		}
	}
	existing, err := s.ingest.ExistingGameIDs(ctx, candidates)
	if err != nil {
		return report, fmt.Errorf("load ingested games: %w", err)
	}

	unseen := make([]int64, 0, len(candidates))
	for _, id := range candidates {
		if _, ok := existing[id]; !ok {
			unseen = append(unseen, id)
		}
	}
	report.Listed = len(listed)
	report.Unseen = len(unseen)
	if len(unseen) > s.cfg.GameBatchSize {
		unseen = unseen[:s.cfg.GameBatchSize]
	}

	var inserted, failed atomic.Int32
	workers, err := ants.NewPool(min(s.cfg.Workers, max(len(unseen), 1)))
	if err != nil {
		return report, fmt.Errorf("create worker pool: %w", err)
	}
	defer workers.Release()

	var wg sync.WaitGroup
	for _, gameID := range unseen {
		wg.Add(1)
		if err := workers.Submit(func() {
			defer wg.Done()
			ok, err := s.ingestGame(ctx, t, gameID)
			switch {
			case err != nil:
				failed.Add(1)
				s.metrics.SyncUnit("game", "failed")
				s.logger.WarnContext(ctx, "skip game", "tournament_id", tournamentID, "game_id", gameID, "error", err)
			case ok:
				inserted.Add(1)
				s.metrics.SyncUnit("game", "success")
			default:
				s.metrics.SyncUnit("game", "skipped")
			}
		}); err != nil {
			wg.Done()
			return report, fmt.Errorf("submit game %d to worker pool: %w", gameID, err)
		}
	}
	wg.Wait()

	report.Processed = len(unseen)
	report.Inserted = int(inserted.Load())
	report.Failed = int(failed.Load())

	// Points are recomputed on every run so a refresh that failed after its
	// games were stored is repaired once those games are no longer unseen.
	scored, err := s.refreshPoints(ctx, tournamentID)
	if err != nil {
		recordSpanError(span, err)
		return report, err
	}
	report.PlayersScored = scored
	if report.Inserted > 0 || scored > 0 {
		publishAll(ctx, s.publisher, s.logger, draft.Event{
			Type:         draft.EventPointsUpdated,
			TournamentID: tournamentID,
			OccurredAt:   s.now().UTC(),
		})
	}

	s.logger.InfoContext(ctx, "games synced",
		"tournament_id", tournamentID,
		"listed", report.Listed,
		"unseen", report.Unseen,
		"processed", report.Processed,
		"inserted", report.Inserted,
		"failed", report.Failed,
		"players_scored", report.PlayersScored,
	)
	return report, nil
}

// SyncActiveGames runs SyncGames for every tournament with parsing enabled and a
// feed ref, whether or not it is the active one.
func (s *SyncService) SyncActiveGames(ctx context.Context) ([]GamesReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncService.SyncActiveGames")
	defer span.End()

	items, err := s.tournaments.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tournaments: %w", err)
	}

	var mu sync.Mutex
	reports := make([]GamesReport, 0, len(items))
	p := pool.New().WithErrors().WithContext(ctx).WithMaxGoroutines(s.cfg.Workers)
	for _, t := range items {
		if !t.IsParsing || strings.TrimSpace(t.ExternalRef) == "" {
			continue
		}
		p.Go(func(ctx context.Context) error {
			report, err := s.SyncGames(ctx, t.ID)
			if err != nil {
				return fmt.Errorf("tournament %d: %w", t.ID, err)
			}
			mu.Lock()
			reports = append(reports, report)
			mu.Unlock()
			return nil
		})
	}
	err = p.Wait()

	slices.SortFunc(reports, func(a, b GamesReport) int {
		if a.TournamentID < b.TournamentID {
			return -1
		}
		if a.TournamentID > b.TournamentID {
			return 1
		}
		return 0
	})
	return reports, err
}

func (s *SyncService) ingestGame(ctx context.Context, t tournament.Tournament, gameID int64) (bool, error) {
	game, err := s.source.FetchGame(ctx, gameID)
	if err != nil {
		return false, fmt.Errorf("fetch game: %w", err)
	}
	game.ID = gameID
	game.TournamentID = t.ID
	game.GameNumber = t.GameNumber(gameID, game.GameNumber)
	if err := game.ValidateBasic(); err != nil {
		return false, fmt.Errorf("parse game: %w", err)
	}
	inserted, err := s.ingest.InsertGame(ctx, game)
	if err != nil {
		return false, fmt.Errorf("insert game: %w", err)
	}
	return inserted, nil
}

func (s *SyncService) refreshPoints(ctx context.Context, tournamentID int64) (int, error) {
	totals, err := s.ingest.PointsByPlayerName(ctx, tournamentID)
	if err != nil {
		return 0, fmt.Errorf("sum player points: %w", err)
	}
	points := make(map[string]int64, len(totals))
	for name, total := range totals {
		points[name] = ingest.RoundPoints(total)
	}
	touched, err := s.players.UpdatePoints(ctx, tournamentID, points)
	if err != nil {
		return 0, fmt.Errorf("update player points: %w", err)
	}
	return touched, nil
}
