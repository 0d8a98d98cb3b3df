package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/fantasy-draft/internal/domain/draft"
	"github.com/riskibarqy/fantasy-draft/internal/domain/player"
	"github.com/riskibarqy/fantasy-draft/internal/domain/selection"
	"github.com/riskibarqy/fantasy-draft/internal/domain/tournament"
	"github.com/riskibarqy/fantasy-draft/internal/platform/logging"
)

// dbtx is satisfied by *sqlx.DB, *sqlx.Tx and readDB.
type dbtx interface {
	sqlx.ExtContext
	GetContext(ctx context.Context, dest any, query string, args ...any) error
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
}

// readDB retries a read once when the connection fails transiently.
type readDB struct {
	*sqlx.DB
}

func (db readDB) GetContext(ctx context.Context, dest any, query string, args ...any) error {
	err := db.DB.GetContext(ctx, dest, query, args...)
	if isTransient(err) && ctx.Err() == nil {
		err = db.DB.GetContext(ctx, dest, query, args...)
	}
	return persistence(err)
}

func (db readDB) SelectContext(ctx context.Context, dest any, query string, args ...any) error {
	err := db.DB.SelectContext(ctx, dest, query, args...)
	if isTransient(err) && ctx.Err() == nil {
		err = db.DB.SelectContext(ctx, dest, query, args...)
	}
	return persistence(err)
}

// Transactor runs draft transactions with transaction-scoped advisory locks.
type Transactor struct {
	db     *sqlx.DB
	logger *logging.Logger
}

func NewTransactor(db *sqlx.DB, logger *logging.Logger) *Transactor {
	if logger == nil {
		logger = logging.Default()
	}
	return &Transactor{db: db, logger: logger}
}

// WithinTx retries the whole transaction once on a transient failure.
func (t *Transactor) WithinTx(ctx context.Context, locks []draft.Lock, fn func(ctx context.Context, store draft.Store) error) error {
	err := t.run(ctx, locks, fn)
	if isTransient(err) && ctx.Err() == nil {
		t.logger.WarnContext(ctx, "retrying transaction after transient failure", "error", err)
		err = t.run(ctx, locks, fn)
	}
	return persistence(err)
}

func (t *Transactor) run(ctx context.Context, locks []draft.Lock, fn func(ctx context.Context, store draft.Store) error) error {
	tx, err := t.db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, lock := range locks {
		query := `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`
		if lock.Shared {
			query = `SELECT pg_advisory_xact_lock_shared(hashtextextended($1, 0))`
		}
		if _, err := tx.ExecContext(ctx, query, lock.Key); err != nil {
			return fmt.Errorf("acquire lock %s: %w", lock.Key, err)
		}
	}

	if err := fn(ctx, newStore(tx)); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// Store returns repositories that run outside any transaction.
func (t *Transactor) Store() draft.Store {
	return newStore(readDB{DB: t.db})
}

type store struct {
	tournaments *TournamentRepository
	players     *PlayerRepository
	selections  *SelectionRepository
}

func newStore(db dbtx) store {
	return store{
		tournaments: &TournamentRepository{db: db},
		players:     &PlayerRepository{db: db},
		selections:  &SelectionRepository{db: db},
	}
}

func (s store) Tournaments() tournament.Repository { return s.tournaments }
func (s store) Players() player.Repository         { return s.players }
func (s store) Selections() selection.Repository   { return s.selections }
