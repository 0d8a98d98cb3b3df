package httpapi

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/fantasy-draft/internal/domain/player"
	"github.com/riskibarqy/fantasy-draft/internal/domain/tournament"
	"github.com/riskibarqy/fantasy-draft/internal/domain/user"
	"github.com/riskibarqy/fantasy-draft/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/fantasy-draft/internal/platform/logging"
	"github.com/riskibarqy/fantasy-draft/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubVerifier map[string]user.Principal

func (s stubVerifier) VerifyAccessToken(_ context.Context, token string) (user.Principal, error) {
	p, ok := s[token]
	if !ok {
		return user.Principal{}, fmt.Errorf("%w: unknown token", usecase.ErrUnauthorized)
	}
	return p, nil
}

type apiFixture struct {
	router     http.Handler
	tournament tournament.Tournament
	// cheapest holds the lowest-cost player of each basket in sort order.
	cheapest []int64
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()

	db := memory.NewDatabase()
	seeded, err := memory.Seed(t.Context(), db, 2)
	require.NoError(t, err)

	logger := logging.NewNop()
	tournaments := memory.NewTournamentRepository(db)
	players := memory.NewPlayerRepository(db)
	selections := memory.NewSelectionRepository(db)
	authz := usecase.NewProfileAuthorizer(memory.NewProfileRepository(db))
	validator := usecase.NewSelectionValidator(tournaments, players)
	store := usecase.NewSelectionStore(db, validator, nil, logger)
	budget := usecase.NewBudgetEngine(db, authz, nil, nil, logger)

	handler := NewHandler(HandlerDeps{
		Tournaments: usecase.NewTournamentService(tournaments, players, db, authz, nil, 2, logger),
		Selections:  usecase.NewSelectionService(authz, validator, store, selections, nil, logger),
		Rosters:     usecase.NewRosterService(db, authz, budget, memory.NewIngestRepository(db), nil, nil, logger),
		Budget:      budget,
		Leaderboard: usecase.NewLeaderboardService(tournaments, players, selections, nil),
		Logger:      logger,
	})
	verifier := stubVerifier{
		"user-token":  {UserID: "user-1"},
		"admin-token": {UserID: memory.SeedAdminUserID},
	}

	roster, err := players.ListByTournament(t.Context(), seeded.ID)
	require.NoError(t, err)
	cheapest := make(map[int64]player.Player)
	for _, p := range roster {
		if cur, ok := cheapest[p.BasketID]; !ok || p.Cost < cur.Cost {
			cheapest[p.BasketID] = p
		}
	}
	ids := make([]int64, 0, len(cheapest))
	for _, b := range seeded.SortedBaskets() {
		ids = append(ids, cheapest[b.ID].ID)
	}

	return &apiFixture{
		router:     NewRouter(handler, verifier, logger, RouterConfig{InternalJobToken: "job-token"}),
		tournament: seeded,
		cheapest:   ids,
	}
}

func (f *apiFixture) do(t *testing.T, method, path, token string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := sonic.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	var envelope map[string]any
	require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &envelope), rec.Body.String())
	return rec, envelope
}

func errorReason(t *testing.T, envelope map[string]any) string {
	t.Helper()

	errObj, ok := envelope["error"].(map[string]any)
	require.True(t, ok, "expected error object")
	items, ok := errObj["errors"].([]any)
	require.True(t, ok)
	require.Len(t, items, 1)
	return items[0].(map[string]any)["reason"].(string)
}

func TestHandler_ActiveTournament(t *testing.T) {
	f := newAPIFixture(t)

	rec, body := f.do(t, http.MethodGet, "/v1/tournaments/active", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	data := body["data"].(map[string]any)
	assert.Equal(t, float64(f.tournament.ID), data["id"])
	assert.Len(t, data["baskets"], 2)
}

func TestHandler_SaveSelectionsFlow(t *testing.T) {
	f := newAPIFixture(t)
	base := fmt.Sprintf("/v1/tournaments/%d", f.tournament.ID)

	rec, _ := f.do(t, http.MethodPut, base+"/selections", "", map[string]any{"player_ids": f.cheapest})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, body := f.do(t, http.MethodPut, base+"/selections", "user-token", map[string]any{"player_ids": f.cheapest[:1]})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "wrongCount", errorReason(t, body))

	rec, body = f.do(t, http.MethodPut, base+"/selections", "user-token", map[string]any{"player_ids": f.cheapest})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "user-1", body["data"].(map[string]any)["user_id"])

	rec, body = f.do(t, http.MethodGet, base+"/selections/me", "user-token", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, body["data"].(map[string]any)["picks"], 2)

	rec, body = f.do(t, http.MethodGet, base+"/leaderboard?sort=cost", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	entries := body["data"].([]any)
	require.Len(t, entries, 1)
	assert.Equal(t, "user-1", entries[0].(map[string]any)["user_id"])

	rec, _ = f.do(t, http.MethodGet, base+"/leaderboard?sort=name", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_OtherUsersSelectionsAreForbidden(t *testing.T) {
	f := newAPIFixture(t)
	path := fmt.Sprintf("/v1/tournaments/%d/users/user-2/selections", f.tournament.ID)

	rec, body := f.do(t, http.MethodGet, path, "user-token", nil)
	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "forbidden", errorReason(t, body))

	rec, _ = f.do(t, http.MethodGet, path, "admin-token", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandler_AdminRoutesRequireAdmin(t *testing.T) {
	f := newAPIFixture(t)
	path := fmt.Sprintf("/v1/admin/tournaments/%d/budget/recalculate", f.tournament.ID)

	rec, _ := f.do(t, http.MethodPost, path, "user-token", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, body := f.do(t, http.MethodPost, path, "admin-token", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	data := body["data"].(map[string]any)
	assert.Equal(t, float64(f.tournament.Budget), data["budget"])
	assert.Equal(t, false, data["changed"])
}

func TestHandler_ClosedRegistrationIsFailedPrecondition(t *testing.T) {
	f := newAPIFixture(t)

	rec, _ := f.do(t, http.MethodPatch, fmt.Sprintf("/v1/admin/tournaments/%d", f.tournament.ID), "admin-token",
		map[string]any{"is_registration_closed": true})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec, body := f.do(t, http.MethodPut, fmt.Sprintf("/v1/tournaments/%d/selections", f.tournament.ID), "user-token",
		map[string]any{"player_ids": f.cheapest})
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "registrationClosed", errorReason(t, body))
}

func TestHandler_UpdateTournamentParsingControls(t *testing.T) {
	f := newAPIFixture(t)
	path := fmt.Sprintf("/v1/admin/tournaments/%d", f.tournament.ID)

	rec, body := f.do(t, http.MethodPatch, path, "admin-token",
		map[string]any{"is_parsing": false, "start_game_id": 4200})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	data := body["data"].(map[string]any)
	assert.Equal(t, false, data["is_parsing"])
	assert.Equal(t, float64(4200), data["start_game_id"])
	assert.Equal(t, true, data["is_active"])

	rec, _ = f.do(t, http.MethodPatch, path, "admin-token", map[string]any{"start_game_id": -1})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_InternalSyncRequiresJobToken(t *testing.T) {
	f := newAPIFixture(t)

	rec, _ := f.do(t, http.MethodPost, "/v1/internal/sync/ratings", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/v1/internal/sync/ratings", nil)
	req.Header.Set("X-Internal-Job-Token", "job-token")
	out := httptest.NewRecorder()
	f.router.ServeHTTP(out, req)
	assert.Equal(t, http.StatusServiceUnavailable, out.Code)
}
