package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/riskibarqy/fantasy-draft/internal/usecase"
)

func (h *Handler) RunSyncRatings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunSyncRatings")
	defer span.End()

	if h.sync == nil {
		writeError(ctx, w, fmt.Errorf("%w: feed sync is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	count, err := h.sync.SyncRatings(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "sync ratings failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, syncRatingsResponse{Upserted: count})
}

// RunSyncGames syncs one tournament when ?tournament_id is set and every active
// tournament otherwise.
func (h *Handler) RunSyncGames(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunSyncGames")
	defer span.End()

	if h.sync == nil {
		writeError(ctx, w, fmt.Errorf("%w: feed sync is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	var reports []usecase.GamesReport
	if raw := strings.TrimSpace(r.URL.Query().Get("tournament_id")); raw != "" {
		tournamentID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || tournamentID <= 0 {
			writeError(ctx, w, fmt.Errorf("%w: tournament_id must be a positive integer", usecase.ErrInvalidInput))
			return
		}
		report, err := h.sync.SyncGames(ctx, tournamentID)
		if err != nil {
			h.logger.ErrorContext(ctx, "sync games failed", "tournament_id", tournamentID, "error", err)
			writeError(ctx, w, err)
			return
		}
		reports = append(reports, report)
	} else {
		var err error
		reports, err = h.sync.SyncActiveGames(ctx)
		if err != nil {
			h.logger.ErrorContext(ctx, "sync active games failed", "error", err)
			writeError(ctx, w, err)
			return
		}
	}

	out := make([]gamesReportDTO, 0, len(reports))
	for _, report := range reports {
		out = append(out, gamesReportToDTO(report))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}
