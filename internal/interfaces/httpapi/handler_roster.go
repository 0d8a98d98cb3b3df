package httpapi

import (
	"fmt"
	"io"
	"mime"
	"net/http"

	"github.com/riskibarqy/fantasy-draft/internal/domain/player"
	"github.com/riskibarqy/fantasy-draft/internal/usecase"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func (h *Handler) ReplaceRoster(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ReplaceRoster")
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

	candidates, err := h.readCandidates(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.rosters.ReplaceRoster(ctx, principal, tournamentID, candidates)
	if err != nil {
		h.logger.WarnContext(ctx, "replace roster failed", "tournament_id", tournamentID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, rosterResultToDTO(result))
}

// readCandidates accepts either a JSON body or an uploaded spreadsheet.
func (h *Handler) readCandidates(r *http.Request) ([]player.Candidate, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == xlsxContentType {
		if h.parseRoster == nil {
			return nil, fmt.Errorf("%w: spreadsheet upload is not enabled", usecase.ErrInvalidInput)
		}
		candidates, err := h.parseRoster(io.LimitReader(r.Body, maxRequestBodyBytes))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err)
		}
		return candidates, nil
	}

	var req replaceRosterRequest
	if err := h.decodeJSON(r.Context(), r, &req); err != nil {
		return nil, err
	}
	return req.Candidates, nil
}

func (h *Handler) ImportRatings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ImportRatings")
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

	result, err := h.rosters.ImportRatings(ctx, principal, tournamentID, h.ratingsLimit)
	if err != nil {
		h.logger.WarnContext(ctx, "import ratings failed", "tournament_id", tournamentID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, rosterResultToDTO(result))
}

func (h *Handler) AddPlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AddPlayer")
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

	var req addPlayerRequest
	if err := h.decodeJSON(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	created, budget, err := h.rosters.AddPlayer(ctx, usecase.AddPlayerInput{
		Actor:        principal,
		TournamentID: tournamentID,
		BasketID:     req.BasketID,
		Candidate: player.Candidate{
			Name: req.Name,
			Cost: req.Cost,
			Rank: req.Rank,
		},
	})
	if err != nil {
		h.logger.WarnContext(ctx, "add player failed", "tournament_id", tournamentID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, addPlayerResponse{
		Player: playerToDTO(created),
		Budget: budgetToDTO(budget),
	})
}

func (h *Handler) RemovePlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RemovePlayer")
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
	playerID, err := pathID(r, "playerID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	budget, err := h.rosters.RemovePlayer(ctx, principal, tournamentID, playerID)
	if err != nil {
		h.logger.WarnContext(ctx, "remove player failed", "tournament_id", tournamentID, "player_id", playerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, budgetToDTO(budget))
}

func (h *Handler) RecalculateBudget(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RecalculateBudget")
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

	result, err := h.budget.RecalculateTournament(ctx, principal, tournamentID)
	if err != nil {
		h.logger.WarnContext(ctx, "recalculate budget failed", "tournament_id", tournamentID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, budgetToDTO(result))
}
