package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/riskibarqy/fantasy-draft/internal/domain/draft"
	"github.com/riskibarqy/fantasy-draft/internal/domain/selection"
	"github.com/riskibarqy/fantasy-draft/internal/domain/user"
	"github.com/riskibarqy/fantasy-draft/internal/platform/logging"
)

type SaveSelectionsInput struct {
	Actor        user.Principal
	UserID       string
	TournamentID int64
	PlayerIDs    []int64
}

type SaveBasketPickInput struct {
	Actor        user.Principal
	UserID       string
	TournamentID int64
	BasketID     int64
	PlayerID     int64
}

type SaveSelectionsResult struct {
	UserID       string
	TournamentID int64
	Picks        []selection.ValidatedPick
	TotalCost    int64
}

type SelectionService struct {
	authz      Authorizer
	validator  *SelectionValidator
	store      *SelectionStore
	selections selection.Repository
	metrics    DraftMetrics
	logger     *logging.Logger
}

func NewSelectionService(
	authz Authorizer,
	validator *SelectionValidator,
	store *SelectionStore,
	selections selection.Repository,
	metrics DraftMetrics,
	logger *logging.Logger,
) *SelectionService {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &SelectionService{
		authz:      authz,
		validator:  validator,
		store:      store,
		selections: selections,
		metrics:    metrics,
		logger:     logger,
	}
}

// Save replaces every pick the user holds in the tournament.
func (s *SelectionService) Save(ctx context.Context, input SaveSelectionsInput) (SaveSelectionsResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SelectionService.Save")
	defer span.End()

	input.UserID = strings.TrimSpace(input.UserID)
	if input.UserID == "" {
		input.UserID = strings.TrimSpace(input.Actor.UserID)
	}
	if input.TournamentID <= 0 {
		return SaveSelectionsResult{}, fmt.Errorf("%w: tournament id is required", ErrInvalidInput)
	}
	if err := s.authz.CanManageSelections(ctx, input.Actor, input.UserID, input.TournamentID); err != nil {
		return SaveSelectionsResult{}, err
	}

	set, err := s.validator.Validate(ctx, input.TournamentID, input.UserID, input.PlayerIDs)
	if err != nil {
		s.reject(ctx, input, err)
		return SaveSelectionsResult{}, err
	}
	set, err = s.store.Replace(ctx, input.UserID, input.TournamentID, set)
	if err != nil {
		s.reject(ctx, input, err)
		return SaveSelectionsResult{}, err
	}

	s.metrics.SelectionSaved(input.TournamentID)
	s.logger.InfoContext(ctx, "selections replaced",
		"user_id", input.UserID,
		"actor_id", input.Actor.UserID,
		"tournament_id", input.TournamentID,
		"picks", len(set.Picks),
		"total_cost", set.TotalCost,
	)

	return SaveSelectionsResult{
		UserID:       input.UserID,
		TournamentID: input.TournamentID,
		Picks:        set.Picks,
		TotalCost:    set.TotalCost,
	}, nil
}

// SaveBasketPick swaps the user's pick in one basket and saves the whole set.
func (s *SelectionService) SaveBasketPick(ctx context.Context, input SaveBasketPickInput) (SaveSelectionsResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SelectionService.SaveBasketPick")
	defer span.End()

	input.UserID = strings.TrimSpace(input.UserID)
	if input.UserID == "" {
		input.UserID = strings.TrimSpace(input.Actor.UserID)
	}
	if input.BasketID <= 0 || input.PlayerID <= 0 {
		return SaveSelectionsResult{}, fmt.Errorf("%w: basket id and player id are required", ErrInvalidInput)
	}
	if err := s.authz.CanManageSelections(ctx, input.Actor, input.UserID, input.TournamentID); err != nil {
		return SaveSelectionsResult{}, err
	}

	current, err := s.selections.ListByUser(ctx, input.UserID, input.TournamentID)
	if err != nil {
		return SaveSelectionsResult{}, fmt.Errorf("list current picks: %w", err)
	}
	playerIDs := make([]int64, 0, len(current)+1)
	for _, pick := range current {
		if pick.BasketID == input.BasketID {
			continue
		}
		playerIDs = append(playerIDs, pick.PlayerID)
	}
	playerIDs = append(playerIDs, input.PlayerID)

	set, err := s.validator.Validate(ctx, input.TournamentID, input.UserID, playerIDs)
	if err == nil && !pickInBasket(set, input.PlayerID, input.BasketID) {
		err = draft.IntegrityError("player %d is not in basket %d", input.PlayerID, input.BasketID)
	}
	if err != nil {
		s.reject(ctx, SaveSelectionsInput{Actor: input.Actor, UserID: input.UserID, TournamentID: input.TournamentID}, err)
		return SaveSelectionsResult{}, err
	}

	return s.Save(ctx, SaveSelectionsInput{
		Actor:        input.Actor,
		UserID:       input.UserID,
		TournamentID: input.TournamentID,
		PlayerIDs:    playerIDs,
	})
}

func (s *SelectionService) ListUserPicks(ctx context.Context, actor user.Principal, userID string, tournamentID int64) ([]selection.PickWithPlayerAndBasket, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SelectionService.ListUserPicks")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		userID = strings.TrimSpace(actor.UserID)
	}
	if err := s.authz.CanManageSelections(ctx, actor, userID, tournamentID); err != nil {
		return nil, err
	}

	picks, err := s.selections.ListByUser(ctx, userID, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("list picks: %w", err)
	}
	return picks, nil
}

func (s *SelectionService) reject(ctx context.Context, input SaveSelectionsInput, err error) {
	reason := rejectionReason(err)
	s.metrics.SelectionRejected(reason)

	var de *draft.Error
	if errors.As(err, &de) && de.Kind == draft.KindPersistence {
		s.logger.ErrorContext(ctx, "save selections failed",
			"user_id", input.UserID,
			"tournament_id", input.TournamentID,
			"error", err,
		)
		return
	}
	s.logger.InfoContext(ctx, "selections rejected",
		"user_id", input.UserID,
		"tournament_id", input.TournamentID,
		"reason", reason,
		"error", err,
	)
}

func pickInBasket(set selection.ValidatedPickSet, playerID, basketID int64) bool {
	for _, p := range set.Picks {
		if p.PlayerID == playerID {
			return p.BasketID == basketID
		}
	}
	return false
}
