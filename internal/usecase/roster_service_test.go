package usecase

import (
	"context"
	"testing"

	"github.com/riskibarqy/fantasy-draft/internal/domain/draft"
	"github.com/riskibarqy/fantasy-draft/internal/domain/ingest"
	"github.com/riskibarqy/fantasy-draft/internal/domain/player"
	usecasemock "github.com/riskibarqy/fantasy-draft/internal/mocks/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func eventOfType(eventType draft.EventType) any {
	return mock.MatchedBy(func(e draft.Event) bool { return e.Type == eventType })
}

func TestRosterService_ReplaceRoster_RecomputesBudget(t *testing.T) {
	t.Parallel()

	publisher := usecasemock.NewEventPublisher(t)
	f := newDraftFixtureWithTx(t, nil, publisher)
	ctx := t.Context()

	publisher.On("Publish", mock.Anything, eventOfType(draft.EventRosterReplaced)).Return(nil).Once()
	publisher.On("Publish", mock.Anything, eventOfType(draft.EventBudgetRecalculated)).Return(nil).Once()

	candidates := make([]player.Candidate, 0, 8)
	for i := 1; i <= 8; i++ {
		candidates = append(candidates, player.Candidate{Name: " new " + string(rune('a'+i-1)), Cost: int64(i * 100)})
	}

	result, err := f.roster.ReplaceRoster(ctx, testAdmin, f.tournament.ID, candidates)
	require.NoError(t, err)

	assert.Len(t, result.Players, 8)
	assert.True(t, result.Budget.Changed)
	assert.Equal(t, int64(3350), result.Budget.Previous)
	assert.Equal(t, int64(1800), result.Budget.Budget)

	stored, exists, err := f.tournaments.GetByID(ctx, f.tournament.ID)
	require.NoError(t, err)
	require.True(t, exists)
	assert.Equal(t, int64(1800), stored.Budget)

	f.reloadRoster(t)
	for i, basket := range f.baskets {
		require.Len(t, basket, 2, "basket %d", i+1)
	}
	assert.Equal(t, int64(800), f.baskets[0][0].Cost)
	assert.Equal(t, "new h", f.baskets[0][0].Name)
	assert.Equal(t, int64(100), f.baskets[3][1].Cost)
}

func TestRosterService_ReplaceRoster_DropsPicksOfRemovedPlayers(t *testing.T) {
	t.Parallel()

	f := newDraftFixture(t)
	ctx := t.Context()

	_, err := f.service.Save(ctx, SaveSelectionsInput{Actor: testOwner, TournamentID: f.tournament.ID, PlayerIDs: f.pick(2, 2, 2, 2)})
	require.NoError(t, err)

	_, err = f.roster.ReplaceRoster(ctx, testAdmin, f.tournament.ID, []player.Candidate{
		{Name: "a", Cost: 10}, {Name: "b", Cost: 20}, {Name: "c", Cost: 30}, {Name: "d", Cost: 40},
	})
	require.NoError(t, err)
	assert.Empty(t, f.savedIDs(t, "user-1"))
}

func TestRosterService_ReplaceRoster_Guards(t *testing.T) {
	t.Parallel()

	f := newDraftFixture(t)
	ctx := t.Context()
	candidates := []player.Candidate{{Name: "a", Cost: 10}}

	_, err := f.roster.ReplaceRoster(ctx, testOwner, f.tournament.ID, candidates)
	require.ErrorIs(t, err, ErrForbidden)

	_, err = f.roster.ReplaceRoster(ctx, testAdmin, f.tournament.ID, []player.Candidate{{Name: " ", Cost: 10}})
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.roster.ReplaceRoster(ctx, testAdmin, 404, candidates)
	require.ErrorIs(t, err, draft.ErrTournamentNotFound)

	closed := f.tournament
	closed.IsRegistrationClosed = true
	require.NoError(t, f.tournaments.Update(ctx, closed))
	_, err = f.roster.ReplaceRoster(ctx, testAdmin, f.tournament.ID, candidates)
	require.ErrorIs(t, err, draft.ErrRegistrationClosed)

	stored, _, err := f.tournaments.GetByID(ctx, f.tournament.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3350), stored.Budget)
}

func TestRosterService_ImportRatings(t *testing.T) {
	t.Parallel()

	f := newDraftFixture(t)
	ctx := t.Context()

	ratings := make([]ingest.Rating, 0, 10)
	for rank := 1; rank <= 10; rank++ {
		ratings = append(ratings, ingest.Rating{Rank: rank, PlayerName: "rated " + string(rune('a'+rank-1)), Rating: int64(2000 - rank*10)})
	}
	_, err := f.ingest.UpsertRatings(ctx, ratings)
	require.NoError(t, err)

	result, err := f.roster.ImportRatings(ctx, testAdmin, f.tournament.ID, 8)
	require.NoError(t, err)
	require.Len(t, result.Players, 8)

	// Ratings 1990..1920 sum to 15640; 15640*4/8 = 7820.
	assert.Equal(t, int64(7820), result.Budget.Budget)

	_, err = f.roster.ImportRatings(ctx, testAdmin, f.tournament.ID, 0)
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestRosterService_AddAndRemovePlayer(t *testing.T) {
	t.Parallel()

	f := newDraftFixture(t)
	ctx := t.Context()
	basketID := f.baskets[3][0].BasketID

	added, budget, err := f.roster.AddPlayer(ctx, AddPlayerInput{
		Actor:        testAdmin,
		TournamentID: f.tournament.ID,
		BasketID:     basketID,
		Candidate:    player.Candidate{Name: "late entry", Cost: 350},
	})
	require.NoError(t, err)
	assert.Equal(t, basketID, added.BasketID)
	// (10050+350)*4/13 = 3200.
	assert.Equal(t, int64(3200), budget.Budget)

	budget, err = f.roster.RemovePlayer(ctx, testAdmin, f.tournament.ID, added.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3350), budget.Budget)

	_, err = f.roster.RemovePlayer(ctx, testAdmin, f.tournament.ID, added.ID)
	require.ErrorIs(t, err, draft.ErrPlayerNotFound)

	_, _, err = f.roster.AddPlayer(ctx, AddPlayerInput{
		Actor:        testAdmin,
		TournamentID: f.tournament.ID,
		BasketID:     999,
		Candidate:    player.Candidate{Name: "nowhere", Cost: 1},
	})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestBudgetEngine_RecalculateTournament(t *testing.T) {
	t.Parallel()

	f := newDraftFixture(t)
	ctx := t.Context()

	result, err := f.budget.RecalculateTournament(ctx, testAdmin, f.tournament.ID)
	require.NoError(t, err)
	assert.False(t, result.Changed)
	assert.Equal(t, int64(3350), result.Budget)

	require.NoError(t, f.tournaments.UpdateBudget(ctx, f.tournament.ID, 1))
	result, err = f.budget.RecalculateTournament(ctx, testAdmin, f.tournament.ID)
	require.NoError(t, err)
	assert.True(t, result.Changed)
	assert.Equal(t, int64(1), result.Previous)
	assert.Equal(t, int64(3350), result.Budget)

	_, err = f.budget.RecalculateTournament(ctx, testOwner, f.tournament.ID)
	require.ErrorIs(t, err, ErrForbidden)
}

func TestBudgetEngine_Recalculate_EmptyRosterIsNoOp(t *testing.T) {
	t.Parallel()

	f := newDraftFixture(t)
	ctx := t.Context()

	_, err := f.players.ReplaceRoster(ctx, f.tournament.ID, nil)
	require.NoError(t, err)

	var result BudgetResult
	err = f.db.WithinTx(ctx, nil, func(ctx context.Context, store draft.Store) error {
		var err error
		result, err = f.budget.Recalculate(ctx, store, f.tournament.ID)
		return err
	})
	require.NoError(t, err)
	assert.True(t, result.NoOp)
	assert.Equal(t, int64(3350), result.Budget)
}
