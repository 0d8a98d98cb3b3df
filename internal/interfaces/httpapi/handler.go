package httpapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/fantasy-draft/internal/domain/player"
	"github.com/riskibarqy/fantasy-draft/internal/domain/user"
	"github.com/riskibarqy/fantasy-draft/internal/platform/logging"
	"github.com/riskibarqy/fantasy-draft/internal/usecase"
)

const maxRequestBodyBytes = 4 << 20

var strictJSON = sonic.Config{
	EscapeHTML:            true,
	ValidateString:        true,
	DisallowUnknownFields: true,
}.Froze()

// RosterFileParser turns an uploaded spreadsheet into roster candidates.
type RosterFileParser func(r io.Reader) ([]player.Candidate, error)

type HandlerDeps struct {
	Tournaments  *usecase.TournamentService
	Selections   *usecase.SelectionService
	Rosters      *usecase.RosterService
	Budget       *usecase.BudgetEngine
	Leaderboard  *usecase.LeaderboardService
	Sync         *usecase.SyncService
	ParseRoster  RosterFileParser
	RatingsLimit int
	Logger       *logging.Logger
}

type Handler struct {
	tournaments  *usecase.TournamentService
	selections   *usecase.SelectionService
	rosters      *usecase.RosterService
	budget       *usecase.BudgetEngine
	leaderboard  *usecase.LeaderboardService
	sync         *usecase.SyncService
	parseRoster  RosterFileParser
	ratingsLimit int
	logger       *logging.Logger
	validator    *validator.Validate
}

func NewHandler(deps HandlerDeps) *Handler {
	logger := deps.Logger
	if logger == nil {
		logger = logging.Default()
	}
	ratingsLimit := deps.RatingsLimit
	if ratingsLimit <= 0 {
		ratingsLimit = 40
	}

	return &Handler{
		tournaments:  deps.Tournaments,
		selections:   deps.Selections,
		rosters:      deps.Rosters,
		budget:       deps.Budget,
		leaderboard:  deps.Leaderboard,
		sync:         deps.Sync,
		parseRoster:  deps.ParseRoster,
		ratingsLimit: ratingsLimit,
		logger:       logger,
		validator:    validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) decodeJSON(ctx context.Context, r *http.Request, target any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.decodeJSON")
	defer span.End()

	raw, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBodyBytes))
	if err != nil {
		return fmt.Errorf("%w: read body: %v", usecase.ErrInvalidInput, err)
	}
	if len(strings.TrimSpace(string(raw))) == 0 {
		return fmt.Errorf("%w: request body is required", usecase.ErrInvalidInput)
	}
	if err := strictJSON.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}
	return h.validateRequest(ctx, target)
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

func requirePrincipal(ctx context.Context) (user.Principal, error) {
	principal, ok := principalFromContext(ctx)
	if !ok {
		return user.Principal{}, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized)
	}
	return principal, nil
}

func pathID(r *http.Request, name string) (int64, error) {
	raw := strings.TrimSpace(r.PathValue(name))
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer", usecase.ErrInvalidInput, name)
	}
	return id, nil
}
