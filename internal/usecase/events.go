package usecase

import (
	"context"

	"github.com/riskibarqy/fantasy-draft/internal/domain/draft"
	"github.com/riskibarqy/fantasy-draft/internal/platform/logging"
)

// EventPublisher delivers committed draft changes to interested views.
type EventPublisher interface {
	Publish(ctx context.Context, event draft.Event) error
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, draft.Event) error { return nil }

// publishAll never fails the caller: the change is already committed.
func publishAll(ctx context.Context, publisher EventPublisher, logger *logging.Logger, events ...draft.Event) {
	for _, event := range events {
		if err := publisher.Publish(ctx, event); err != nil {
			logger.WarnContext(ctx, "publish draft event failed",
				"event_type", event.Type,
				"tournament_id", event.TournamentID,
				"error", err,
			)
		}
	}
}

// DraftMetrics records outcomes of draft operations.
type DraftMetrics interface {
	SelectionSaved(tournamentID int64)
	SelectionRejected(reason string)
	RosterReplaced(tournamentID int64, players int)
	BudgetRecalculated(changed bool)
	SyncUnit(kind, status string)
}

type nopMetrics struct{}

func (nopMetrics) SelectionSaved(int64)      {}
func (nopMetrics) SelectionRejected(string)  {}
func (nopMetrics) RosterReplaced(int64, int) {}
func (nopMetrics) BudgetRecalculated(bool)   {}
func (nopMetrics) SyncUnit(string, string)   {}

func rejectionReason(err error) string {
	if _, reason, ok := draft.ReasonOf(err); ok && reason != "" {
		return string(reason)
	}
	return "other"
}
