package httpapi

import (
	"net/http"
	"strings"

	"github.com/riskibarqy/fantasy-draft/internal/usecase"
)

func (h *Handler) GetMySelections(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMySelections")
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

	picks, err := h.selections.ListUserPicks(ctx, principal, principal.UserID, tournamentID)
	if err != nil {
		h.logger.WarnContext(ctx, "list my selections failed", "user_id", principal.UserID, "tournament_id", tournamentID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, picksToDTO(principal.UserID, tournamentID, picks))
}

func (h *Handler) GetUserSelections(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetUserSelections")
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
	userID := strings.TrimSpace(r.PathValue("userID"))

	picks, err := h.selections.ListUserPicks(ctx, principal, userID, tournamentID)
	if err != nil {
		h.logger.WarnContext(ctx, "list user selections failed", "user_id", userID, "tournament_id", tournamentID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, picksToDTO(userID, tournamentID, picks))
}

func (h *Handler) SaveSelections(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SaveSelections")
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

	var req saveSelectionsRequest
	if err := h.decodeJSON(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.selections.Save(ctx, usecase.SaveSelectionsInput{
		Actor:        principal,
		UserID:       req.UserID,
		TournamentID: tournamentID,
		PlayerIDs:    req.PlayerIDs,
	})
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, saveResultToDTO(result))
}

func (h *Handler) SaveBasketSelection(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SaveBasketSelection")
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
	basketID, err := pathID(r, "basketID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req saveBasketPickRequest
	if err := h.decodeJSON(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.selections.SaveBasketPick(ctx, usecase.SaveBasketPickInput{
		Actor:        principal,
		UserID:       req.UserID,
		TournamentID: tournamentID,
		BasketID:     basketID,
		PlayerID:     req.PlayerID,
	})
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, saveResultToDTO(result))
}
