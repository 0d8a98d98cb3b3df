package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/riskibarqy/fantasy-draft/internal/domain/draft"
	"github.com/riskibarqy/fantasy-draft/internal/domain/ingest"
	"github.com/riskibarqy/fantasy-draft/internal/domain/player"
	"github.com/riskibarqy/fantasy-draft/internal/domain/tournament"
	usecasemock "github.com/riskibarqy/fantasy-draft/internal/mocks/usecase"
	"github.com/riskibarqy/fantasy-draft/internal/platform/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newSyncFixture(t *testing.T) (*draftFixture, *usecasemock.GameSource, *usecasemock.EventPublisher, *SyncService) {
	t.Helper()

	f := newDraftFixture(t)
	source := usecasemock.NewGameSource(t)
	publisher := usecasemock.NewEventPublisher(t)
	svc := NewSyncService(f.tournaments, f.players, f.ingest, source, publisher, nil, SyncConfig{GameBatchSize: 3, Workers: 2}, logging.NewNop())
	return f, source, publisher, svc
}

func statGame(id int64, stats ...ingest.PlayerStat) ingest.Game {
	return ingest.Game{ID: id, GameNumber: int(id), WinnerTeam: "radiant", Stats: stats}
}

func TestSyncService_SyncGames_BatchAndFailureIsolation(t *testing.T) {
	t.Parallel()

	f, source, publisher, svc := newSyncFixture(t)
	ctx := t.Context()

	source.On("ListGameIDs", mock.Anything, "demo-cup").Return([]int64{5, 1, 3, 2, 4}, nil)
	source.On("FetchGame", mock.Anything, int64(1)).Return(statGame(1, ingest.PlayerStat{PlayerName: "Player 01", Points: 10.4}), nil).Once()
	source.On("FetchGame", mock.Anything, int64(2)).Return(ingest.Game{}, errors.New("upstream 502")).Once()
	source.On("FetchGame", mock.Anything, int64(3)).Return(statGame(3,
		ingest.PlayerStat{PlayerName: "Player 01", Points: 5.2},
		ingest.PlayerStat{PlayerName: "Player 12", Points: 2.5},
	), nil).Once()
	publisher.On("Publish", mock.Anything, eventOfType(draft.EventPointsUpdated)).Return(nil).Once()

	report, err := svc.SyncGames(ctx, f.tournament.ID)
	require.NoError(t, err)

	assert.Equal(t, 5, report.Listed)
	assert.Equal(t, 5, report.Unseen)
	assert.Equal(t, 3, report.Processed)
	assert.Equal(t, 2, report.Inserted)
	assert.Equal(t, 1, report.Failed)

	existing, err := f.ingest.ExistingGameIDs(ctx, []int64{1, 2, 3, 4, 5})
	require.NoError(t, err)
	assert.Equal(t, map[int64]struct{}{1: {}, 3: {}}, existing)

	f.reloadRoster(t)
	assert.Equal(t, int64(16), f.baskets[0][0].Points)
	assert.Equal(t, int64(3), f.baskets[3][2].Points)
	assert.Equal(t, int64(0), f.baskets[1][0].Points)
}

func TestSyncService_SyncGames_NextRunPicksUpRemainder(t *testing.T) {
	t.Parallel()

	f, source, publisher, svc := newSyncFixture(t)
	ctx := t.Context()

	_, err := f.ingest.InsertGame(ctx, ingest.Game{ID: 1, TournamentID: f.tournament.ID})
	require.NoError(t, err)
	_, err = f.ingest.InsertGame(ctx, ingest.Game{ID: 3, TournamentID: f.tournament.ID})
	require.NoError(t, err)

	source.On("ListGameIDs", mock.Anything, "demo-cup").Return([]int64{1, 2, 3, 4, 5, 6}, nil)
	for _, id := range []int64{2, 4, 5} {
		source.On("FetchGame", mock.Anything, id).Return(statGame(id), nil).Once()
	}
	publisher.On("Publish", mock.Anything, eventOfType(draft.EventPointsUpdated)).Return(nil).Once()

	report, err := svc.SyncGames(ctx, f.tournament.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, report.Unseen)
	assert.Equal(t, 3, report.Inserted)
	source.AssertNotCalled(t, "FetchGame", mock.Anything, int64(6))
}

func TestSyncService_SyncGames_NothingNew(t *testing.T) {
	t.Parallel()

	f, source, _, svc := newSyncFixture(t)

	source.On("ListGameIDs", mock.Anything, "demo-cup").Return([]int64{}, nil)

	report, err := svc.SyncGames(t.Context(), f.tournament.ID)
	require.NoError(t, err)
	assert.Zero(t, report.Processed)
	source.AssertNotCalled(t, "FetchGame", mock.Anything, mock.Anything)
}

func TestSyncService_SyncGames_ListFailure(t *testing.T) {
	t.Parallel()

	f, source, _, svc := newSyncFixture(t)
	source.On("ListGameIDs", mock.Anything, "demo-cup").Return(nil, errors.New("timeout"))

	_, err := svc.SyncGames(t.Context(), f.tournament.ID)
	require.ErrorIs(t, err, ErrDependencyUnavailable)
}

func TestSyncService_SyncRatings_SkipsInvalidRows(t *testing.T) {
	t.Parallel()

	f, source, _, svc := newSyncFixture(t)
	ctx := t.Context()

	source.On("FetchRatings", mock.Anything).Return([]ingest.Rating{
		{Rank: 1, PlayerName: " alpha ", Rating: 3000},
		{Rank: 2, PlayerName: "", Rating: 2900},
		{Rank: 3, PlayerName: "gamma", Rating: 2800},
		{Rank: 3, PlayerName: "gamma again", Rating: 2700},
	}, nil).Once()

	upserted, err := svc.SyncRatings(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, upserted)

	stored, err := f.ingest.ListRatings(ctx, 0)
	require.NoError(t, err)
	require.Len(t, stored, 2)
	assert.Equal(t, "alpha", stored[0].PlayerName)
	assert.Equal(t, "gamma", stored[1].PlayerName)
}

func TestSyncService_SyncActiveGames_SelectsParsingTournaments(t *testing.T) {
	t.Parallel()

	f, source, _, svc := newSyncFixture(t)
	ctx := t.Context()

	archived, err := f.tournaments.Create(ctx, tournament.Tournament{
		Name:        "Archived Cup",
		ExternalRef: "archived-cup",
		IsParsing:   true,
		Baskets:     tournament.NewBaskets(2),
	})
	require.NoError(t, err)
	_, err = f.tournaments.Create(ctx, tournament.Tournament{
		Name:        "Paused Cup",
		ExternalRef: "paused-cup",
		IsActive:    false,
		Baskets:     tournament.NewBaskets(2),
	})
	require.NoError(t, err)

	source.On("ListGameIDs", mock.Anything, "demo-cup").Return([]int64{}, nil).Once()
	source.On("ListGameIDs", mock.Anything, "archived-cup").Return([]int64{}, nil).Once()

	reports, err := svc.SyncActiveGames(ctx)
	require.NoError(t, err)
	require.Len(t, reports, 2)
	assert.Equal(t, f.tournament.ID, reports[0].TournamentID)
	assert.Equal(t, archived.ID, reports[1].TournamentID)
	source.AssertNotCalled(t, "ListGameIDs", mock.Anything, "paused-cup")
}

func TestSyncService_SyncGames_GamesStoredUnderAnotherTournamentAreSeen(t *testing.T) {
	t.Parallel()

	f, source, publisher, svc := newSyncFixture(t)
	ctx := t.Context()

	rerun, err := f.tournaments.Create(ctx, tournament.Tournament{
		Name:        "Demo Cup Rerun",
		ExternalRef: "demo-cup",
		IsParsing:   true,
		Baskets:     tournament.NewBaskets(2),
	})
	require.NoError(t, err)
	for _, id := range []int64{1, 2, 3} {
		_, err := f.ingest.InsertGame(ctx, ingest.Game{ID: id, TournamentID: f.tournament.ID})
		require.NoError(t, err)
	}

	source.On("ListGameIDs", mock.Anything, "demo-cup").Return([]int64{1, 2, 3, 4, 5, 6}, nil).Twice()
	for _, id := range []int64{4, 5, 6} {
		source.On("FetchGame", mock.Anything, id).Return(statGame(id), nil).Once()
	}
	publisher.On("Publish", mock.Anything, eventOfType(draft.EventPointsUpdated)).Return(nil).Once()

	report, err := svc.SyncGames(ctx, rerun.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, report.Unseen)
	assert.Equal(t, 3, report.Inserted)

	report, err = svc.SyncGames(ctx, rerun.ID)
	require.NoError(t, err)
	assert.Zero(t, report.Unseen)
	assert.Zero(t, report.Processed)
	for _, id := range []int64{1, 2, 3} {
		source.AssertNotCalled(t, "FetchGame", mock.Anything, id)
	}
}

func TestSyncService_SyncGames_RepairsPointsAfterFailedRefresh(t *testing.T) {
	t.Parallel()

	f := newDraftFixture(t)
	ctx := t.Context()
	source := usecasemock.NewGameSource(t)
	publisher := usecasemock.NewEventPublisher(t)
	players := &flakyPointsRepository{Repository: f.players, failures: 1}
	svc := NewSyncService(f.tournaments, players, f.ingest, source, publisher, nil, SyncConfig{GameBatchSize: 3, Workers: 2}, logging.NewNop())

	source.On("ListGameIDs", mock.Anything, "demo-cup").Return([]int64{1}, nil)
	source.On("FetchGame", mock.Anything, int64(1)).Return(statGame(1, ingest.PlayerStat{PlayerName: "Player 01", Points: 10}), nil).Once()

	report, err := svc.SyncGames(ctx, f.tournament.ID)
	require.ErrorIs(t, err, errTransientPoints)
	assert.Equal(t, 1, report.Inserted)

	publisher.On("Publish", mock.Anything, eventOfType(draft.EventPointsUpdated)).Return(nil).Once()
	report, err = svc.SyncGames(ctx, f.tournament.ID)
	require.NoError(t, err)
	assert.Zero(t, report.Inserted)
	assert.Equal(t, 1, report.PlayersScored)

	f.reloadRoster(t)
	assert.Equal(t, int64(10), f.baskets[0][0].Points)

	report, err = svc.SyncGames(ctx, f.tournament.ID)
	require.NoError(t, err)
	assert.Zero(t, report.PlayersScored)
	assert.Equal(t, 3, players.calls)
}

func TestSyncService_SyncGames_StartGameBoundsAndNumbering(t *testing.T) {
	t.Parallel()

	f := newDraftFixture(t)
	ctx := t.Context()
	source := usecasemock.NewGameSource(t)
	publisher := usecasemock.NewEventPublisher(t)
	recorder := &recordingIngest{Repository: f.ingest}
	svc := NewSyncService(f.tournaments, f.players, recorder, source, publisher, nil, SyncConfig{GameBatchSize: 5, Workers: 1}, logging.NewNop())

	season := f.tournament
	season.StartGameID = 104
	require.NoError(t, f.tournaments.Update(ctx, season))

	source.On("ListGameIDs", mock.Anything, "demo-cup").Return([]int64{101, 102, 103, 104, 105, 106}, nil)
	for _, id := range []int64{104, 105, 106} {
		source.On("FetchGame", mock.Anything, id).Return(statGame(id), nil).Once()
	}
	publisher.On("Publish", mock.Anything, eventOfType(draft.EventPointsUpdated)).Return(nil).Once()

	report, err := svc.SyncGames(ctx, f.tournament.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, report.Unseen)
	assert.Equal(t, 3, report.Inserted)
	assert.Equal(t, map[int64]int{104: 1, 105: 2, 106: 3}, recorder.numbers())
	source.AssertNotCalled(t, "FetchGame", mock.Anything, int64(101))
}

var errTransientPoints = errors.New("transient")

// flakyPointsRepository fails the first failures point updates.
type flakyPointsRepository struct {
	player.Repository
	mu       sync.Mutex
	failures int
	calls    int
}

func (r *flakyPointsRepository) UpdatePoints(ctx context.Context, tournamentID int64, pointsByName map[string]int64) (int, error) {
	r.mu.Lock()
	r.calls++
	fail := r.calls <= r.failures
	r.mu.Unlock()
	if fail {
		return 0, errTransientPoints
	}
	return r.Repository.UpdatePoints(ctx, tournamentID, pointsByName)
}

type recordingIngest struct {
	ingest.Repository
	mu    sync.Mutex
	games []ingest.Game
}

func (r *recordingIngest) InsertGame(ctx context.Context, game ingest.Game) (bool, error) {
	r.mu.Lock()
	r.games = append(r.games, game)
	r.mu.Unlock()
	return r.Repository.InsertGame(ctx, game)
}

func (r *recordingIngest) numbers() map[int64]int {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[int64]int, len(r.games))
	for _, g := range r.games {
		out[g.ID] = g.GameNumber
	}
	return out
}
