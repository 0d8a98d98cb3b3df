package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/fantasy-draft/internal/domain/draft"
	"github.com/riskibarqy/fantasy-draft/internal/domain/ingest"
	"github.com/riskibarqy/fantasy-draft/internal/domain/player"
	"github.com/riskibarqy/fantasy-draft/internal/domain/tournament"
	"github.com/riskibarqy/fantasy-draft/internal/domain/user"
	"github.com/riskibarqy/fantasy-draft/internal/platform/logging"
	"go.opentelemetry.io/otel/attribute"
)

type RosterResult struct {
	TournamentID int64
	Players      []player.Player
	Budget       BudgetResult
}

type AddPlayerInput struct {
	Actor        user.Principal
	TournamentID int64
	BasketID     int64
	Candidate    player.Candidate
}

// RosterService applies admin roster edits. Every edit recomputes the budget in
// the same transaction.
type RosterService struct {
	tx        draft.Transactor
	authz     Authorizer
	budget    *BudgetEngine
	ratings   ingest.Repository
	publisher EventPublisher
	metrics   DraftMetrics
	validate  *validator.Validate
	logger    *logging.Logger
	now       func() time.Time
}

func NewRosterService(
	tx draft.Transactor,
	authz Authorizer,
	budget *BudgetEngine,
	ratings ingest.Repository,
	publisher EventPublisher,
	metrics DraftMetrics,
	logger *logging.Logger,
) *RosterService {
	if publisher == nil {
		publisher = nopPublisher{}
	}
	if metrics == nil {
		metrics = nopMetrics{}
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &RosterService{
		tx:        tx,
		authz:     authz,
		budget:    budget,
		ratings:   ratings,
		publisher: publisher,
		metrics:   metrics,
		validate:  validator.New(),
		logger:    logger,
		now:       time.Now,
	}
}

// ReplaceRoster distributes candidates over the tournament's baskets and swaps
// the whole roster.
func (s *RosterService) ReplaceRoster(ctx context.Context, actor user.Principal, tournamentID int64, candidates []player.Candidate) (RosterResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.ReplaceRoster",
		attribute.Int64("tournament_id", tournamentID),
		attribute.Int("candidates", len(candidates)),
	)
	defer span.End()

	if err := s.authz.RequireAdmin(ctx, actor); err != nil {
		return RosterResult{}, err
	}
	normalized, err := s.normalizeCandidates(ctx, candidates)
	if err != nil {
		return RosterResult{}, err
	}

	var result RosterResult
	err = s.tx.WithinTx(ctx, []draft.Lock{draft.RosterLock(tournamentID, false)}, func(ctx context.Context, store draft.Store) error {
		t, err := editableTournament(ctx, store, tournamentID)
		if err != nil {
			return err
		}
		players, err := draft.RosterPlayers(t, normalized)
		if err != nil {
			return err
		}
		saved, err := store.Players().ReplaceRoster(ctx, tournamentID, players)
		if err != nil {
			return fmt.Errorf("replace roster: %w", err)
		}
		budget, err := s.budget.Recalculate(ctx, store, tournamentID)
		if err != nil {
			return err
		}
		result = RosterResult{TournamentID: tournamentID, Players: saved, Budget: budget}
		return nil
	})
	if err != nil {
		recordSpanError(span, err)
		return RosterResult{}, err
	}

	s.metrics.RosterReplaced(tournamentID, len(result.Players))
	s.emit(ctx, draft.EventRosterReplaced, result.Budget)
	s.logger.InfoContext(ctx, "roster replaced",
		"tournament_id", tournamentID,
		"actor_id", actor.UserID,
		"players", len(result.Players),
		"budget", result.Budget.Budget,
	)
	return result, nil
}

// ImportRatings seeds the roster from the top limit external ratings.
func (s *RosterService) ImportRatings(ctx context.Context, actor user.Principal, tournamentID int64, limit int) (RosterResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.ImportRatings")
	defer span.End()

	if err := s.authz.RequireAdmin(ctx, actor); err != nil {
		return RosterResult{}, err
	}
	if limit <= 0 {
		return RosterResult{}, fmt.Errorf("%w: limit must be > 0", ErrInvalidInput)
	}

	ratings, err := s.ratings.ListRatings(ctx, limit)
	if err != nil {
		return RosterResult{}, fmt.Errorf("list ratings: %w", err)
	}
	candidates := make([]player.Candidate, 0, len(ratings))
	for _, r := range ratings {
		candidates = append(candidates, player.Candidate{Name: r.PlayerName, Cost: r.Rating, Rank: r.Rank})
	}
	return s.ReplaceRoster(ctx, actor, tournamentID, candidates)
}

func (s *RosterService) AddPlayer(ctx context.Context, input AddPlayerInput) (player.Player, BudgetResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.AddPlayer")
	defer span.End()

	if err := s.authz.RequireAdmin(ctx, input.Actor); err != nil {
		return player.Player{}, BudgetResult{}, err
	}
	normalized, err := s.normalizeCandidates(ctx, []player.Candidate{input.Candidate})
	if err != nil {
		return player.Player{}, BudgetResult{}, err
	}

	var (
		added  player.Player
		budget BudgetResult
	)
	err = s.tx.WithinTx(ctx, []draft.Lock{draft.RosterLock(input.TournamentID, false)}, func(ctx context.Context, store draft.Store) error {
		t, err := editableTournament(ctx, store, input.TournamentID)
		if err != nil {
			return err
		}
		if _, ok := t.Basket(input.BasketID); !ok {
			return fmt.Errorf("%w: basket %d is not in tournament %d", ErrInvalidInput, input.BasketID, input.TournamentID)
		}
		added, err = store.Players().Insert(ctx, normalized[0].ToPlayer(input.BasketID))
		if err != nil {
			return fmt.Errorf("insert player: %w", err)
		}
		budget, err = s.budget.Recalculate(ctx, store, input.TournamentID)
		return err
	})
	if err != nil {
		recordSpanError(span, err)
		return player.Player{}, BudgetResult{}, err
	}

	s.emit(ctx, draft.EventRosterReplaced, budget)
	s.logger.InfoContext(ctx, "player added",
		"tournament_id", input.TournamentID,
		"basket_id", input.BasketID,
		"player_id", added.ID,
		"budget", budget.Budget,
	)
	return added, budget, nil
}

func (s *RosterService) RemovePlayer(ctx context.Context, actor user.Principal, tournamentID, playerID int64) (BudgetResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.RemovePlayer")
	defer span.End()

	if err := s.authz.RequireAdmin(ctx, actor); err != nil {
		return BudgetResult{}, err
	}

	var budget BudgetResult
	err := s.tx.WithinTx(ctx, []draft.Lock{draft.RosterLock(tournamentID, false)}, func(ctx context.Context, store draft.Store) error {
		if _, err := editableTournament(ctx, store, tournamentID); err != nil {
			return err
		}
		deleted, err := store.Players().Delete(ctx, tournamentID, playerID)
		if err != nil {
			return fmt.Errorf("delete player: %w", err)
		}
		if !deleted {
			return draft.NotFound(draft.ErrPlayerNotFound, "player %d in tournament %d", playerID, tournamentID)
		}
		budget, err = s.budget.Recalculate(ctx, store, tournamentID)
		return err
	})
	if err != nil {
		recordSpanError(span, err)
		return BudgetResult{}, err
	}

	s.emit(ctx, draft.EventRosterReplaced, budget)
	s.logger.InfoContext(ctx, "player removed",
		"tournament_id", tournamentID,
		"player_id", playerID,
		"budget", budget.Budget,
	)
	return budget, nil
}

func (s *RosterService) normalizeCandidates(ctx context.Context, candidates []player.Candidate) ([]player.Candidate, error) {
	out := make([]player.Candidate, 0, len(candidates))
	for i, c := range candidates {
		c = c.Normalize()
		if err := s.validate.StructCtx(ctx, c); err != nil {
			return nil, fmt.Errorf("%w: candidate %d: %v", ErrInvalidInput, i, err)
		}
		out = append(out, c)
	}
	return out, nil
}

func (s *RosterService) emit(ctx context.Context, eventType draft.EventType, budget BudgetResult) {
	at := s.now().UTC()
	events := []draft.Event{{Type: eventType, TournamentID: budget.TournamentID, Budget: budget.Budget, OccurredAt: at}}
	if event, ok := budget.event(at); ok {
		events = append(events, event)
	}
	publishAll(ctx, s.publisher, s.logger, events...)
}

// editableTournament loads a tournament whose roster may still change.
func editableTournament(ctx context.Context, store draft.Store, tournamentID int64) (tournament.Tournament, error) {
	t, exists, err := store.Tournaments().GetByID(ctx, tournamentID)
	if err != nil {
		return tournament.Tournament{}, fmt.Errorf("get tournament: %w", err)
	}
	if !exists {
		return tournament.Tournament{}, draft.NotFound(draft.ErrTournamentNotFound, "tournament %d", tournamentID)
	}
	if t.IsRegistrationClosed {
		return tournament.Tournament{}, draft.StateError(draft.ErrRegistrationClosed, "tournament %d is locked for roster changes", tournamentID)
	}
	return t, nil
}
