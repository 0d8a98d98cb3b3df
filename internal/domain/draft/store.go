package draft

import (
	"context"
	"strconv"

	"github.com/riskibarqy/fantasy-draft/internal/domain/player"
	"github.com/riskibarqy/fantasy-draft/internal/domain/selection"
	"github.com/riskibarqy/fantasy-draft/internal/domain/tournament"
)

// Store is the set of repositories bound to one transaction.
type Store interface {
	Tournaments() tournament.Repository
	Players() player.Repository
	Selections() selection.Repository
}

// Lock names a serialization key held until the transaction ends.
type Lock struct {
	Key    string
	Shared bool
}

// RosterLock guards a tournament's roster. Selection saves hold it shared.
func RosterLock(tournamentID int64, shared bool) Lock {
	return Lock{Key: "draft:roster:" + strconv.FormatInt(tournamentID, 10), Shared: shared}
}

// SelectionLock serializes saves of one user within one tournament.
func SelectionLock(userID string, tournamentID int64) Lock {
	return Lock{Key: "draft:selection:" + strconv.FormatInt(tournamentID, 10) + ":" + userID}
}

// Transactor runs fn atomically. Locks are acquired in the given order before fn runs.
// Any error from fn rolls back every write made through the store.
type Transactor interface {
	WithinTx(ctx context.Context, locks []Lock, fn func(ctx context.Context, store Store) error) error
}

const (
	// TournamentListScope prefixes cached views spanning all tournaments.
	TournamentListScope = "tournaments:"
	// AllViewsScope prefixes the per-tournament views of every tournament.
	AllViewsScope = "tournament:"
)

// ViewScope prefixes every cached view derived from one tournament.
func ViewScope(tournamentID int64) string {
	return AllViewsScope + strconv.FormatInt(tournamentID, 10) + ":"
}
