package httpapi

import (
	"net/http"

	"github.com/riskibarqy/fantasy-draft/internal/usecase"
)

func (h *Handler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetLeaderboard")
	defer span.End()

	tournamentID, err := pathID(r, "tournamentID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	entries, err := h.leaderboard.Leaderboard(ctx, tournamentID, usecase.LeaderboardSort(r.URL.Query().Get("sort")))
	if err != nil {
		h.logger.WarnContext(ctx, "leaderboard failed", "tournament_id", tournamentID, "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]leaderboardEntryDTO, 0, len(entries))
	for _, entry := range entries {
		out = append(out, leaderboardEntryToDTO(tournamentID, entry))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) GetPickStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPickStats")
	defer span.End()

	tournamentID, err := pathID(r, "tournamentID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	stats, err := h.leaderboard.PickStats(ctx, tournamentID)
	if err != nil {
		h.logger.WarnContext(ctx, "pick stats failed", "tournament_id", tournamentID, "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]pickStatDTO, 0, len(stats))
	for _, s := range stats {
		out = append(out, pickStatToDTO(s))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}
