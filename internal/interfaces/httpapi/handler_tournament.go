package httpapi

import (
	"net/http"

	"github.com/riskibarqy/fantasy-draft/internal/usecase"
)

func (h *Handler) ListTournaments(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTournaments")
	defer span.End()

	items, err := h.tournaments.List(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list tournaments failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]tournamentDTO, 0, len(items))
	for _, t := range items {
		out = append(out, tournamentToDTO(t))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) GetActiveTournament(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetActiveTournament")
	defer span.End()

	t, err := h.tournaments.GetActive(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "get active tournament failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, tournamentToDTO(t))
}

func (h *Handler) ListTournamentPlayers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTournamentPlayers")
	defer span.End()

	tournamentID, err := pathID(r, "tournamentID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	roster, err := h.tournaments.Roster(ctx, tournamentID)
	if err != nil {
		h.logger.WarnContext(ctx, "list roster failed", "tournament_id", tournamentID, "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]basketRosterDTO, 0, len(roster))
	for _, item := range roster {
		out = append(out, basketRosterToDTO(item))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) CreateTournament(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateTournament")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req createTournamentRequest
	if err := h.decodeJSON(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	created, err := h.tournaments.Create(ctx, usecase.CreateTournamentInput{
		Actor:       principal,
		Name:        req.Name,
		ExternalRef: req.ExternalRef,
		BasketCount: req.BasketCount,
		IsActive:    req.IsActive,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "create tournament failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, tournamentToDTO(created))
}

func (h *Handler) UpdateTournament(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateTournament")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	tournamentID, err := pathID(r, "tournamentID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req updateTournamentRequest
	if err := h.decodeJSON(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	updated, err := h.tournaments.Update(ctx, usecase.UpdateTournamentInput{
		Actor:                principal,
		TournamentID:         tournamentID,
		Name:                 req.Name,
		ExternalRef:          req.ExternalRef,
		IsActive:             req.IsActive,
		IsRegistrationClosed: req.IsRegistrationClosed,
		IsParsing:            req.IsParsing,
		StartGameID:          req.StartGameID,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "update tournament failed", "tournament_id", tournamentID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, tournamentToDTO(updated))
}
