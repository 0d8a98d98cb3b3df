package events

import (
	"context"

	"github.com/riskibarqy/fantasy-draft/internal/domain/draft"
	"github.com/riskibarqy/fantasy-draft/internal/platform/cache"
	"github.com/riskibarqy/fantasy-draft/internal/platform/logging"
)

// CacheInvalidator drops cached views touched by a committed draft change.
type CacheInvalidator struct {
	cache  *cache.Store
	logger *logging.Logger
}

func NewCacheInvalidator(store *cache.Store, logger *logging.Logger) *CacheInvalidator {
	if logger == nil {
		logger = logging.Default()
	}
	return &CacheInvalidator{cache: store, logger: logger}
}

func (i *CacheInvalidator) Handle(ctx context.Context, event draft.Event) error {
	if event.TournamentID <= 0 {
		return nil
	}

	if event.Activated {
		// activating one tournament deactivates every other one
		i.cache.DeletePrefix(ctx, draft.AllViewsScope)
	} else {
		i.cache.DeletePrefix(ctx, draft.ViewScope(event.TournamentID))
	}
	switch event.Type {
	case draft.EventTournamentChanged, draft.EventBudgetRecalculated:
		// list views embed budget and activation state
		i.cache.DeletePrefix(ctx, draft.TournamentListScope)
	}

	i.logger.DebugContext(ctx, "draft views invalidated",
		"event_type", event.Type,
		"tournament_id", event.TournamentID,
		"activated", event.Activated,
	)
	return nil
}
