package usecase

import (
	"context"
	"fmt"

	"github.com/riskibarqy/fantasy-draft/internal/domain/draft"
	"github.com/riskibarqy/fantasy-draft/internal/domain/player"
	"github.com/riskibarqy/fantasy-draft/internal/domain/selection"
	"github.com/riskibarqy/fantasy-draft/internal/domain/tournament"
	"go.opentelemetry.io/otel/attribute"
)

// SelectionValidator checks a submission against the authoritative roster.
// Client prices and basket ids are never consulted.
type SelectionValidator struct {
	tournaments tournament.Repository
	players     player.Repository
}

func NewSelectionValidator(tournaments tournament.Repository, players player.Repository) *SelectionValidator {
	return &SelectionValidator{tournaments: tournaments, players: players}
}

// WithStore returns a validator reading through the transaction-bound store.
func (v *SelectionValidator) WithStore(store draft.Store) *SelectionValidator {
	return &SelectionValidator{tournaments: store.Tournaments(), players: store.Players()}
}

func (v *SelectionValidator) Validate(ctx context.Context, tournamentID int64, userID string, playerIDs []int64) (selection.ValidatedPickSet, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SelectionValidator.Validate",
		attribute.Int64("tournament_id", tournamentID),
		attribute.String("user_id", userID),
		attribute.Int("submitted", len(playerIDs)),
	)
	defer span.End()

	t, exists, err := v.tournaments.GetByID(ctx, tournamentID)
	if err != nil {
		recordSpanError(span, err)
		return selection.ValidatedPickSet{}, fmt.Errorf("get tournament: %w", err)
	}
	if !exists {
		return selection.ValidatedPickSet{}, draft.NotFound(draft.ErrTournamentNotFound, "tournament %d", tournamentID)
	}
	if t.IsRegistrationClosed {
		return selection.ValidatedPickSet{}, draft.StateError(draft.ErrRegistrationClosed, "tournament %d registration is closed", tournamentID)
	}
	if !t.IsActive {
		return selection.ValidatedPickSet{}, draft.StateError(draft.ErrArchived, "tournament %d is not active", tournamentID)
	}

	players, err := v.players.GetByIDs(ctx, tournamentID, draft.DistinctIDs(playerIDs))
	if err != nil {
		recordSpanError(span, err)
		return selection.ValidatedPickSet{}, fmt.Errorf("get players: %w", err)
	}

	set, err := draft.CheckPicks(t, playerIDs, players)
	if err != nil {
		recordSpanError(span, err)
		return selection.ValidatedPickSet{}, err
	}
	return set, nil
}
