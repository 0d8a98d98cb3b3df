package app

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/riskibarqy/fantasy-draft/internal/config"
	"github.com/riskibarqy/fantasy-draft/internal/domain/draft"
	"github.com/riskibarqy/fantasy-draft/internal/domain/ingest"
	"github.com/riskibarqy/fantasy-draft/internal/domain/player"
	"github.com/riskibarqy/fantasy-draft/internal/domain/selection"
	"github.com/riskibarqy/fantasy-draft/internal/domain/tournament"
	"github.com/riskibarqy/fantasy-draft/internal/domain/user"
	"github.com/riskibarqy/fantasy-draft/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/fantasy-draft/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/fantasy-draft/internal/platform/logging"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
)

type storage struct {
	tx          draft.Transactor
	tournaments tournament.Repository
	players     player.Repository
	selections  selection.Repository
	ingest      ingest.Repository
	profiles    user.ProfileRepository
	seed        func(ctx context.Context, basketCount int) error
	close       func() error
}

func openStorage(ctx context.Context, cfg config.Config, logger *logging.Logger) (*storage, error) {
	switch cfg.Storage {
	case config.StorageMemory:
		return openMemoryStorage(), nil
	case config.StoragePostgres:
		return openPostgresStorage(ctx, cfg, logger)
	default:
		return nil, fmt.Errorf("unsupported storage %q", cfg.Storage)
	}
}

func openMemoryStorage() *storage {
	db := memory.NewDatabase()
	return &storage{
		tx:          db,
		tournaments: memory.NewTournamentRepository(db),
		players:     memory.NewPlayerRepository(db),
		selections:  memory.NewSelectionRepository(db),
		ingest:      memory.NewIngestRepository(db),
		profiles:    memory.NewProfileRepository(db),
		seed: func(ctx context.Context, basketCount int) error {
			_, err := memory.Seed(ctx, db, basketCount)
			return err
		},
		close: func() error { return nil },
	}
}

func openPostgresStorage(ctx context.Context, cfg config.Config, logger *logging.Logger) (*storage, error) {
	dsn := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)
	db, err := otelsqlx.Open("postgres", dsn,
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithDBName(dbNameFromURL(dsn)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return newPostgresStorage(db, logger), nil
}

func newPostgresStorage(db *sqlx.DB, logger *logging.Logger) *storage {
	tx := postgres.NewTransactor(db, logger)
	return &storage{
		tx:          tx,
		tournaments: postgres.NewTournamentRepository(db),
		players:     postgres.NewPlayerRepository(db),
		selections:  postgres.NewSelectionRepository(db),
		ingest:      postgres.NewIngestRepository(db),
		profiles:    postgres.NewProfileRepository(db),
		seed: func(ctx context.Context, basketCount int) error {
			return postgres.BootstrapSeed(ctx, tx, basketCount)
		},
		close: db.Close,
	}
}
