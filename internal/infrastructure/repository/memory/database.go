package memory

import (
	"context"
	"maps"
	"sync"

	"github.com/riskibarqy/fantasy-draft/internal/domain/draft"
	"github.com/riskibarqy/fantasy-draft/internal/domain/ingest"
	"github.com/riskibarqy/fantasy-draft/internal/domain/player"
	"github.com/riskibarqy/fantasy-draft/internal/domain/selection"
	"github.com/riskibarqy/fantasy-draft/internal/domain/tournament"
	"github.com/riskibarqy/fantasy-draft/internal/domain/user"
)

type selectionKey struct {
	userID   string
	playerID int64
}

type state struct {
	nextTournamentID int64
	nextBasketID     int64
	nextPlayerID     int64
	nextSelectionSeq int64

	tournaments map[int64]tournament.Tournament
	baskets     map[int64]tournament.Basket
	players     map[int64]player.Player
	selections  map[selectionKey]int64
	profiles    map[string]user.Profile
	ratings     map[int]ingest.Rating
	games       map[int64]ingest.Game
}

func newState() *state {
	return &state{
		tournaments: make(map[int64]tournament.Tournament),
		baskets:     make(map[int64]tournament.Basket),
		players:     make(map[int64]player.Player),
		selections:  make(map[selectionKey]int64),
		profiles:    make(map[string]user.Profile),
		ratings:     make(map[int]ingest.Rating),
		games:       make(map[int64]ingest.Game),
	}
}

func (s *state) clone() *state {
	out := *s
	out.tournaments = maps.Clone(s.tournaments)
	out.baskets = maps.Clone(s.baskets)
	out.players = maps.Clone(s.players)
	out.selections = maps.Clone(s.selections)
	out.profiles = maps.Clone(s.profiles)
	out.ratings = maps.Clone(s.ratings)
	out.games = maps.Clone(s.games)
	return &out
}

type accessor interface {
	read(fn func(s *state) error) error
	write(fn func(s *state) error) error
}

// Database is an in-process store. Every write, and every transaction, works on a
// copy of the state that replaces the live one only on success.
type Database struct {
	mu    sync.RWMutex
	state *state
}

func NewDatabase() *Database {
	return &Database{state: newState()}
}

func (db *Database) read(fn func(s *state) error) error {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return fn(db.state)
}

func (db *Database) write(fn func(s *state) error) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	next := db.state.clone()
	if err := fn(next); err != nil {
		return err
	}
	db.state = next
	return nil
}

// WithinTx serializes all transactions, so the requested locks are implied.
func (db *Database) WithinTx(ctx context.Context, _ []draft.Lock, fn func(ctx context.Context, store draft.Store) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	db.mu.Lock()
	defer db.mu.Unlock()

	next := db.state.clone()
	tx := txAccessor{state: next}
	if err := fn(ctx, newStore(tx)); err != nil {
		return err
	}
	db.state = next
	return nil
}

// Store returns repositories that run outside any transaction.
func (db *Database) Store() draft.Store {
	return newStore(db)
}

type txAccessor struct {
	state *state
}

func (a txAccessor) read(fn func(s *state) error) error {
	return fn(a.state)
}

func (a txAccessor) write(fn func(s *state) error) error {
	return fn(a.state)
}

type store struct {
	tournaments *TournamentRepository
	players     *PlayerRepository
	selections  *SelectionRepository
}

func newStore(acc accessor) store {
	return store{
		tournaments: &TournamentRepository{acc: acc},
		players:     &PlayerRepository{acc: acc},
		selections:  &SelectionRepository{acc: acc},
	}
}

func (s store) Tournaments() tournament.Repository { return s.tournaments }
func (s store) Players() player.Repository         { return s.players }
func (s store) Selections() selection.Repository   { return s.selections }
