package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/riskibarqy/fantasy-draft/internal/domain/draft"
	"github.com/riskibarqy/fantasy-draft/internal/domain/user"
	"github.com/riskibarqy/fantasy-draft/internal/platform/logging"
	"go.opentelemetry.io/otel/attribute"
)

type BudgetResult struct {
	TournamentID int64
	Budget       int64
	Previous     int64
	// NoOp is set when the roster or basket list was empty and nothing was derived.
	NoOp    bool
	Changed bool
}

func (r BudgetResult) event(at time.Time) (draft.Event, bool) {
	if !r.Changed {
		return draft.Event{}, false
	}
	return draft.Event{
		Type:         draft.EventBudgetRecalculated,
		TournamentID: r.TournamentID,
		Budget:       r.Budget,
		OccurredAt:   at,
	}, true
}

// BudgetEngine derives a tournament's cap from its current roster.
type BudgetEngine struct {
	tx        draft.Transactor
	authz     Authorizer
	publisher EventPublisher
	metrics   DraftMetrics
	logger    *logging.Logger
	now       func() time.Time
}

func NewBudgetEngine(tx draft.Transactor, authz Authorizer, publisher EventPublisher, metrics DraftMetrics, logger *logging.Logger) *BudgetEngine {
	if publisher == nil {
		publisher = nopPublisher{}
	}
	if metrics == nil {
		metrics = nopMetrics{}
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &BudgetEngine{
		tx:        tx,
		authz:     authz,
		publisher: publisher,
		metrics:   metrics,
		logger:    logger,
		now:       time.Now,
	}
}

// Recalculate runs inside the caller's transaction so the new cap commits with
// the roster change that caused it.
func (e *BudgetEngine) Recalculate(ctx context.Context, store draft.Store, tournamentID int64) (BudgetResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BudgetEngine.Recalculate", attribute.Int64("tournament_id", tournamentID))
	defer span.End()

	t, exists, err := store.Tournaments().GetByID(ctx, tournamentID)
	if err != nil {
		return BudgetResult{}, fmt.Errorf("get tournament: %w", err)
	}
	if !exists {
		return BudgetResult{}, draft.NotFound(draft.ErrTournamentNotFound, "tournament %d", tournamentID)
	}

	players, err := store.Players().ListByTournament(ctx, tournamentID)
	if err != nil {
		return BudgetResult{}, fmt.Errorf("list roster: %w", err)
	}

	result := BudgetResult{TournamentID: tournamentID, Budget: t.Budget, Previous: t.Budget}
	budget, ok := draft.Budget(players, len(t.PickingBaskets()))
	if !ok {
		result.NoOp = true
		e.metrics.BudgetRecalculated(false)
		return result, nil
	}
	if budget != t.Budget {
		if err := store.Tournaments().UpdateBudget(ctx, tournamentID, budget); err != nil {
			return BudgetResult{}, fmt.Errorf("update budget: %w", err)
		}
		result.Budget = budget
		result.Changed = true
	}
	e.metrics.BudgetRecalculated(result.Changed)
	return result, nil
}

// RecalculateTournament is the standalone admin entry point.
func (e *BudgetEngine) RecalculateTournament(ctx context.Context, actor user.Principal, tournamentID int64) (BudgetResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BudgetEngine.RecalculateTournament")
	defer span.End()

	if err := e.authz.RequireAdmin(ctx, actor); err != nil {
		return BudgetResult{}, err
	}

	var result BudgetResult
	err := e.tx.WithinTx(ctx, []draft.Lock{draft.RosterLock(tournamentID, false)}, func(ctx context.Context, store draft.Store) error {
		var err error
		result, err = e.Recalculate(ctx, store, tournamentID)
		return err
	})
	if err != nil {
		recordSpanError(span, err)
		return BudgetResult{}, err
	}

	if event, ok := result.event(e.now().UTC()); ok {
		publishAll(ctx, e.publisher, e.logger, event)
	}
	e.logger.InfoContext(ctx, "budget recalculated",
		"tournament_id", tournamentID,
		"budget", result.Budget,
		"previous", result.Previous,
		"changed", result.Changed,
		"noop", result.NoOp,
	)
	return result, nil
}
