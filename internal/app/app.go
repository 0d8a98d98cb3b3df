package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/riskibarqy/fantasy-draft/internal/config"
	"github.com/riskibarqy/fantasy-draft/internal/domain/player"
	"github.com/riskibarqy/fantasy-draft/internal/domain/tournament"
	"github.com/riskibarqy/fantasy-draft/internal/infrastructure/auth/jwt"
	"github.com/riskibarqy/fantasy-draft/internal/infrastructure/eventbus"
	"github.com/riskibarqy/fantasy-draft/internal/infrastructure/feed"
	cachedrepo "github.com/riskibarqy/fantasy-draft/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/fantasy-draft/internal/infrastructure/rosterfile"
	"github.com/riskibarqy/fantasy-draft/internal/interfaces/events"
	"github.com/riskibarqy/fantasy-draft/internal/interfaces/httpapi"
	"github.com/riskibarqy/fantasy-draft/internal/observability"
	basecache "github.com/riskibarqy/fantasy-draft/internal/platform/cache"
	"github.com/riskibarqy/fantasy-draft/internal/platform/logging"
	"github.com/riskibarqy/fantasy-draft/internal/platform/resilience"
	"github.com/riskibarqy/fantasy-draft/internal/usecase"
)

// Runtime holds every wired service of one process.
type Runtime struct {
	Tournaments *usecase.TournamentService
	Selections  *usecase.SelectionService
	Rosters     *usecase.RosterService
	Budget      *usecase.BudgetEngine
	Leaderboard *usecase.LeaderboardService
	// Sync is nil when no feed base URL is configured.
	Sync *usecase.SyncService

	Verifier *jwt.Verifier
	Metrics  *observability.DraftMetrics

	storage *storage
	bus     *eventbus.Bus
	cancel  context.CancelFunc
	logger  *logging.Logger
}

func NewRuntime(ctx context.Context, cfg config.Config, logger *logging.Logger) (*Runtime, error) {
	if logger == nil {
		logger = logging.Default()
	}

	store, err := openStorage(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	if cfg.SeedDemo {
		if err := store.seed(ctx, cfg.DraftBasketCount); err != nil {
			_ = store.close()
			return nil, fmt.Errorf("seed demo tournament: %w", err)
		}
		logger.Info("demo tournament seeded", "storage", cfg.Storage, "baskets", cfg.DraftBasketCount)
	}

	verifier, err := jwt.NewVerifier(cfg.JWTSecret, cfg.JWTIssuer)
	if err != nil {
		_ = store.close()
		return nil, fmt.Errorf("build token verifier: %w", err)
	}

	subCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	bus := eventbus.New(eventbus.Config{OutputChannelBuffer: int64(cfg.EventBufferSize)}, logger)

	var (
		tournaments tournament.Repository = store.tournaments
		players     player.Repository     = store.players
		viewCache   *basecache.Store
	)
	if cfg.CacheEnabled {
		viewCache = basecache.NewStore(cfg.CacheTTL)
		tournaments = cachedrepo.NewTournamentRepository(store.tournaments, viewCache)
		players = cachedrepo.NewPlayerRepository(store.players, viewCache)

		invalidator := events.NewCacheInvalidator(viewCache, logger)
		if err := bus.Subscribe(subCtx, "cache-invalidator", invalidator.Handle); err != nil {
			cancel()
			_ = bus.Close()
			_ = store.close()
			return nil, fmt.Errorf("subscribe cache invalidator: %w", err)
		}
	}

	var (
		metrics      usecase.DraftMetrics
		draftMetrics *observability.DraftMetrics
	)
	if cfg.MetricsEnabled {
		draftMetrics = observability.NewDraftMetrics()
		metrics = draftMetrics
	}

	authz := usecase.NewProfileAuthorizer(store.profiles)
	validator := usecase.NewSelectionValidator(tournaments, players)
	selectionStore := usecase.NewSelectionStore(store.tx, validator, bus, logger)
	budget := usecase.NewBudgetEngine(store.tx, authz, bus, metrics, logger)

	rt := &Runtime{
		Tournaments: usecase.NewTournamentService(tournaments, players, store.tx, authz, bus, cfg.DraftBasketCount, logger),
		Selections:  usecase.NewSelectionService(authz, validator, selectionStore, store.selections, metrics, logger),
		Rosters:     usecase.NewRosterService(store.tx, authz, budget, store.ingest, bus, metrics, logger),
		Budget:      budget,
		Leaderboard: usecase.NewLeaderboardService(tournaments, players, store.selections, viewCache),
		Verifier:    verifier,
		Metrics:     draftMetrics,
		storage:     store,
		bus:         bus,
		cancel:      cancel,
		logger:      logger,
	}

	if cfg.FeedBaseURL != "" {
		client := feed.NewClient(feed.ClientConfig{
			BaseURL:    cfg.FeedBaseURL,
			Token:      cfg.FeedToken,
			Timeout:    cfg.FeedTimeout,
			MaxRetries: cfg.FeedMaxRetries,
			Logger:     logger,
			CircuitBreaker: resilience.CircuitBreakerConfig{
				Enabled:          cfg.FeedCircuitEnabled,
				FailureThreshold: cfg.FeedCircuitFailureCount,
				OpenTimeout:      cfg.FeedCircuitOpenTimeout,
				HalfOpenMaxReq:   cfg.FeedCircuitHalfOpenMaxReq,
			},
		})
		rt.Sync = usecase.NewSyncService(tournaments, players, store.ingest, client, bus, metrics, usecase.SyncConfig{
			GameBatchSize: cfg.SyncGameBatchSize,
			Workers:       cfg.SyncWorkers,
		}, logger)
	}

	return rt, nil
}

// Close stops event delivery and releases storage.
func (r *Runtime) Close() error {
	r.cancel()
	if err := r.bus.Close(); err != nil {
		r.logger.Warn("close event bus failed", "error", err)
	}
	return r.storage.close()
}

func NewHTTPServer(cfg config.Config, rt *Runtime, logger *logging.Logger) (*http.Server, error) {
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	handler := httpapi.NewHandler(httpapi.HandlerDeps{
		Tournaments: rt.Tournaments,
		Selections:  rt.Selections,
		Rosters:     rt.Rosters,
		Budget:      rt.Budget,
		Leaderboard: rt.Leaderboard,
		Sync:        rt.Sync,
		ParseRoster: rosterfile.ParseXLSX,
		Logger:      logger,
	})

	routerCfg := httpapi.RouterConfig{
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		InternalJobToken:   cfg.InternalJobToken,
	}
	if rt.Metrics != nil {
		routerCfg.Metrics = rt.Metrics.Handler()
	}

	return &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           httpapi.NewRouter(handler, rt.Verifier, logger, routerCfg),
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.WriteTimeout,
	}, nil
}
