package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, metrics http.Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	if metrics != nil {
		mux.Handle("GET /metrics", metrics)
	}
}

func registerPublicRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/tournaments", handler.ListTournaments)
	mux.HandleFunc("GET /v1/tournaments/active", handler.GetActiveTournament)
	mux.HandleFunc("GET /v1/tournaments/{tournamentID}/players", handler.ListTournamentPlayers)
	mux.HandleFunc("GET /v1/tournaments/{tournamentID}/leaderboard", handler.GetLeaderboard)
	mux.HandleFunc("GET /v1/tournaments/{tournamentID}/stats", handler.GetPickStats)
}

func registerAuthorizedRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("GET /v1/tournaments/{tournamentID}/selections/me", RequireAuth(verifier, http.HandlerFunc(handler.GetMySelections)))
	mux.Handle("GET /v1/tournaments/{tournamentID}/users/{userID}/selections", RequireAuth(verifier, http.HandlerFunc(handler.GetUserSelections)))
	mux.Handle("PUT /v1/tournaments/{tournamentID}/selections", RequireAuth(verifier, http.HandlerFunc(handler.SaveSelections)))
	mux.Handle("PUT /v1/tournaments/{tournamentID}/baskets/{basketID}/selection", RequireAuth(verifier, http.HandlerFunc(handler.SaveBasketSelection)))
}

func registerAdminRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("POST /v1/admin/tournaments", RequireAuth(verifier, http.HandlerFunc(handler.CreateTournament)))
	mux.Handle("PATCH /v1/admin/tournaments/{tournamentID}", RequireAuth(verifier, http.HandlerFunc(handler.UpdateTournament)))
	mux.Handle("PUT /v1/admin/tournaments/{tournamentID}/roster", RequireAuth(verifier, http.HandlerFunc(handler.ReplaceRoster)))
	mux.Handle("POST /v1/admin/tournaments/{tournamentID}/roster/import-ratings", RequireAuth(verifier, http.HandlerFunc(handler.ImportRatings)))
	mux.Handle("POST /v1/admin/tournaments/{tournamentID}/players", RequireAuth(verifier, http.HandlerFunc(handler.AddPlayer)))
	mux.Handle("DELETE /v1/admin/tournaments/{tournamentID}/players/{playerID}", RequireAuth(verifier, http.HandlerFunc(handler.RemovePlayer)))
	mux.Handle("POST /v1/admin/tournaments/{tournamentID}/budget/recalculate", RequireAuth(verifier, http.HandlerFunc(handler.RecalculateBudget)))
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/sync/ratings", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunSyncRatings)))
	mux.Handle("POST /v1/internal/sync/games", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunSyncGames)))
}
