package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/fantasy-draft/internal/domain/draft"
	"github.com/riskibarqy/fantasy-draft/internal/domain/selection"
	"github.com/riskibarqy/fantasy-draft/internal/platform/logging"
	"go.opentelemetry.io/otel/attribute"
)

// SelectionStore replaces a user's picks for one tournament in a single transaction.
type SelectionStore struct {
	tx        draft.Transactor
	validator *SelectionValidator
	publisher EventPublisher
	logger    *logging.Logger
	now       func() time.Time
}

func NewSelectionStore(tx draft.Transactor, validator *SelectionValidator, publisher EventPublisher, logger *logging.Logger) *SelectionStore {
	if publisher == nil {
		publisher = nopPublisher{}
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &SelectionStore{
		tx:        tx,
		validator: validator,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// Replace re-validates set against the state visible inside the transaction, then
// deletes the user's in-scope picks and inserts the new ones. Nothing is written
// unless every step succeeds. The returned set is the one that was stored.
func (s *SelectionStore) Replace(ctx context.Context, userID string, tournamentID int64, set selection.ValidatedPickSet) (selection.ValidatedPickSet, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SelectionStore.Replace",
		attribute.Int64("tournament_id", tournamentID),
		attribute.String("user_id", userID),
	)
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return selection.ValidatedPickSet{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if set.TournamentID != tournamentID {
		return selection.ValidatedPickSet{}, fmt.Errorf("%w: pick set belongs to tournament %d, not %d", ErrInvalidInput, set.TournamentID, tournamentID)
	}

	var stored selection.ValidatedPickSet
	locks := []draft.Lock{
		draft.RosterLock(tournamentID, true),
		draft.SelectionLock(userID, tournamentID),
	}
	err := s.tx.WithinTx(ctx, locks, func(ctx context.Context, store draft.Store) error {
		fresh, err := s.validator.WithStore(store).Validate(ctx, tournamentID, userID, set.PlayerIDs())
		if err != nil {
			return err
		}

		roster, err := store.Players().ListByTournament(ctx, tournamentID)
		if err != nil {
			return fmt.Errorf("list in-scope players: %w", err)
		}
		inScope := make([]int64, 0, len(roster))
		for _, p := range roster {
			inScope = append(inScope, p.ID)
		}

		if err := store.Selections().DeleteSelections(ctx, userID, inScope); err != nil {
			return fmt.Errorf("delete selections: %w", err)
		}
		if err := store.Selections().InsertSelections(ctx, fresh.Rows(userID)); err != nil {
			return fmt.Errorf("insert selections: %w", err)
		}
		stored = fresh
		return nil
	})
	if err != nil {
		recordSpanError(span, err)
		return selection.ValidatedPickSet{}, err
	}

	publishAll(ctx, s.publisher, s.logger, draft.Event{
		Type:         draft.EventSelectionsReplaced,
		TournamentID: tournamentID,
		UserID:       userID,
		PlayerIDs:    stored.PlayerIDs(),
		OccurredAt:   s.now().UTC(),
	})
	return stored, nil
}
