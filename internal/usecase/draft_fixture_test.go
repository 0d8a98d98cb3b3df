package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/riskibarqy/fantasy-draft/internal/domain/draft"
	"github.com/riskibarqy/fantasy-draft/internal/domain/player"
	"github.com/riskibarqy/fantasy-draft/internal/domain/selection"
	"github.com/riskibarqy/fantasy-draft/internal/domain/tournament"
	"github.com/riskibarqy/fantasy-draft/internal/domain/user"
	"github.com/riskibarqy/fantasy-draft/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/fantasy-draft/internal/platform/logging"
)

var (
	testOwner = user.Principal{UserID: "user-1"}
	testAdmin = user.Principal{UserID: memory.SeedAdminUserID}
)

// draftFixture is a seeded 4-basket tournament. Basket i holds three players
// sorted by cost descending; the seed budget is 3350.
type draftFixture struct {
	db         *memory.Database
	tournament tournament.Tournament
	baskets    [][]player.Player

	tournaments *memory.TournamentRepository
	players     *memory.PlayerRepository
	selections  *memory.SelectionRepository
	ingest      *memory.IngestRepository

	authz     *ProfileAuthorizer
	validator *SelectionValidator
	store     *SelectionStore
	service   *SelectionService
	budget    *BudgetEngine
	roster    *RosterService
}

func newDraftFixture(t *testing.T) *draftFixture {
	t.Helper()
	return newDraftFixtureWithTx(t, nil, nil)
}

// newDraftFixtureWithTx wires the services with an optional transactor wrapper
// and publisher.
func newDraftFixtureWithTx(t *testing.T, wrap func(draft.Transactor) draft.Transactor, publisher EventPublisher) *draftFixture {
	t.Helper()

	db := memory.NewDatabase()
	seeded, err := memory.Seed(t.Context(), db, 4)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	f := &draftFixture{
		db:          db,
		tournament:  seeded,
		tournaments: memory.NewTournamentRepository(db),
		players:     memory.NewPlayerRepository(db),
		selections:  memory.NewSelectionRepository(db),
		ingest:      memory.NewIngestRepository(db),
	}

	var tx draft.Transactor = db
	if wrap != nil {
		tx = wrap(db)
	}
	logger := logging.NewNop()

	f.authz = NewProfileAuthorizer(memory.NewProfileRepository(db))
	f.validator = NewSelectionValidator(f.tournaments, f.players)
	f.store = NewSelectionStore(tx, f.validator, publisher, logger)
	f.service = NewSelectionService(f.authz, f.validator, f.store, f.selections, nil, logger)
	f.budget = NewBudgetEngine(tx, f.authz, publisher, nil, logger)
	f.roster = NewRosterService(tx, f.authz, f.budget, f.ingest, publisher, nil, logger)
	f.reloadRoster(t)
	return f
}

func (f *draftFixture) reloadRoster(t *testing.T) {
	t.Helper()

	players, err := f.players.ListByTournament(t.Context(), f.tournament.ID)
	if err != nil {
		t.Fatalf("list roster: %v", err)
	}
	byBasket := make(map[int64][]player.Player)
	for _, p := range players {
		byBasket[p.BasketID] = append(byBasket[p.BasketID], p)
	}
	f.baskets = f.baskets[:0]
	for _, b := range f.tournament.SortedBaskets() {
		f.baskets = append(f.baskets, byBasket[b.ID])
	}
}

// pick returns the idx-th player (0 = most expensive) of each basket.
func (f *draftFixture) pick(idx ...int) []int64 {
	out := make([]int64, 0, len(idx))
	for basket, i := range idx {
		out = append(out, f.baskets[basket][i].ID)
	}
	return out
}

func (f *draftFixture) savedIDs(t *testing.T, userID string) []int64 {
	t.Helper()

	picks, err := f.selections.ListByUser(t.Context(), userID, f.tournament.ID)
	if err != nil {
		t.Fatalf("list picks: %v", err)
	}
	out := make([]int64, 0, len(picks))
	for _, p := range picks {
		out = append(out, p.PlayerID)
	}
	return out
}

var errInjectedInsert = errors.New("injected insert failure")

// failingInsertTx runs real transactions whose selection inserts always fail
// after the delete has already been applied.
type failingInsertTx struct {
	inner draft.Transactor
}

func (f failingInsertTx) WithinTx(ctx context.Context, locks []draft.Lock, fn func(ctx context.Context, store draft.Store) error) error {
	return f.inner.WithinTx(ctx, locks, func(ctx context.Context, store draft.Store) error {
		return fn(ctx, failingInsertStore{Store: store})
	})
}

type failingInsertStore struct {
	draft.Store
}

func (s failingInsertStore) Selections() selection.Repository {
	return failingInsertRepo{Repository: s.Store.Selections()}
}

type failingInsertRepo struct {
	selection.Repository
}

func (failingInsertRepo) InsertSelections(context.Context, []selection.Selection) error {
	return errInjectedInsert
}
