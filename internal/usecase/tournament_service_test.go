package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/riskibarqy/fantasy-draft/internal/domain/draft"
	cachedrepo "github.com/riskibarqy/fantasy-draft/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/fantasy-draft/internal/interfaces/events"
	"github.com/riskibarqy/fantasy-draft/internal/platform/cache"
	"github.com/riskibarqy/fantasy-draft/internal/platform/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTournamentService_CreateActivatesExclusively(t *testing.T) {
	t.Parallel()

	f := newDraftFixture(t)
	ctx := t.Context()
	svc := NewTournamentService(f.tournaments, f.players, f.db, f.authz, nil, 3, logging.NewNop())

	created, err := svc.Create(ctx, CreateTournamentInput{Actor: testAdmin, Name: "Spring Cup", IsActive: true})
	require.NoError(t, err)
	assert.Len(t, created.Baskets, 3)

	active, err := svc.GetActive(ctx)
	require.NoError(t, err)
	assert.Equal(t, created.ID, active.ID)

	old, _, err := f.tournaments.GetByID(ctx, f.tournament.ID)
	require.NoError(t, err)
	assert.False(t, old.IsActive)

	_, err = svc.Create(ctx, CreateTournamentInput{Actor: testOwner, Name: "Nope"})
	require.ErrorIs(t, err, ErrForbidden)
}

func TestTournamentService_UpdateAndRoster(t *testing.T) {
	t.Parallel()

	f := newDraftFixture(t)
	ctx := t.Context()
	svc := NewTournamentService(f.tournaments, f.players, f.db, f.authz, nil, 4, logging.NewNop())

	closed := true
	name := "Demo Cup Finals"
	updated, err := svc.Update(ctx, UpdateTournamentInput{
		Actor:                testAdmin,
		TournamentID:         f.tournament.ID,
		Name:                 &name,
		IsRegistrationClosed: &closed,
	})
	require.NoError(t, err)
	assert.Equal(t, name, updated.Name)
	assert.True(t, updated.IsRegistrationClosed)

	roster, err := svc.Roster(ctx, f.tournament.ID)
	require.NoError(t, err)
	require.Len(t, roster, 4)
	assert.Equal(t, 1, roster[0].Basket.SortOrder)
	assert.Len(t, roster[0].Players, 3)
}

// invalidatingPublisher hands events straight to the cache invalidator.
type invalidatingPublisher struct {
	invalidator *events.CacheInvalidator
}

func (p invalidatingPublisher) Publish(ctx context.Context, event draft.Event) error {
	return p.invalidator.Handle(ctx, event)
}

func TestTournamentService_ActivationRefreshesCachedTournaments(t *testing.T) {
	t.Parallel()

	f := newDraftFixture(t)
	ctx := t.Context()
	store := cache.NewStore(time.Hour)
	tournaments := cachedrepo.NewTournamentRepository(f.tournaments, store)
	publisher := invalidatingPublisher{invalidator: events.NewCacheInvalidator(store, logging.NewNop())}
	svc := NewTournamentService(tournaments, f.players, f.db, f.authz, publisher, 2, logging.NewNop())

	spring, err := svc.Create(ctx, CreateTournamentInput{Actor: testAdmin, Name: "Spring Cup"})
	require.NoError(t, err)

	cached, _, err := tournaments.GetByID(ctx, f.tournament.ID)
	require.NoError(t, err)
	require.True(t, cached.IsActive)

	active := true
	_, err = svc.Update(ctx, UpdateTournamentInput{Actor: testAdmin, TournamentID: spring.ID, IsActive: &active})
	require.NoError(t, err)

	demo, _, err := tournaments.GetByID(ctx, f.tournament.ID)
	require.NoError(t, err)
	assert.False(t, demo.IsActive)

	current, exists, err := tournaments.GetActive(ctx)
	require.NoError(t, err)
	require.True(t, exists)
	assert.Equal(t, spring.ID, current.ID)

	all, err := tournaments.List(ctx)
	require.NoError(t, err)
	activeCount := 0
	for _, item := range all {
		if item.IsActive {
			activeCount++
		}
	}
	assert.Equal(t, 1, activeCount)
}
