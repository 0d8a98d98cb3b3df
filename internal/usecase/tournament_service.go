package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/fantasy-draft/internal/domain/draft"
	"github.com/riskibarqy/fantasy-draft/internal/domain/player"
	"github.com/riskibarqy/fantasy-draft/internal/domain/tournament"
	"github.com/riskibarqy/fantasy-draft/internal/domain/user"
	"github.com/riskibarqy/fantasy-draft/internal/platform/logging"
)

type CreateTournamentInput struct {
	Actor       user.Principal
	Name        string
	ExternalRef string
	BasketCount int
	IsActive    bool
}

type UpdateTournamentInput struct {
	Actor                user.Principal
	TournamentID         int64
	Name                 *string
	ExternalRef          *string
	IsActive             *bool
	IsRegistrationClosed *bool
	IsParsing            *bool
	StartGameID          *int64
}

// BasketRoster is one basket with the players it owns.
type BasketRoster struct {
	Basket  tournament.Basket
	Players []player.Player
}

type TournamentService struct {
	tournaments        tournament.Repository
	players            player.Repository
	tx                 draft.Transactor
	authz              Authorizer
	publisher          EventPublisher
	defaultBasketCount int
	logger             *logging.Logger
	now                func() time.Time
}

func NewTournamentService(
	tournaments tournament.Repository,
	players player.Repository,
	tx draft.Transactor,
	authz Authorizer,
	publisher EventPublisher,
	defaultBasketCount int,
	logger *logging.Logger,
) *TournamentService {
	if publisher == nil {
		publisher = nopPublisher{}
	}
	if defaultBasketCount <= 0 {
		defaultBasketCount = 4
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &TournamentService{
		tournaments:        tournaments,
		players:            players,
		tx:                 tx,
		authz:              authz,
		publisher:          publisher,
		defaultBasketCount: defaultBasketCount,
		logger:             logger,
		now:                time.Now,
	}
}

func (s *TournamentService) List(ctx context.Context) ([]tournament.Tournament, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TournamentService.List")
	defer span.End()

	items, err := s.tournaments.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tournaments: %w", err)
	}
	return items, nil
}

func (s *TournamentService) GetActive(ctx context.Context) (tournament.Tournament, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TournamentService.GetActive")
	defer span.End()

	t, exists, err := s.tournaments.GetActive(ctx)
	if err != nil {
		return tournament.Tournament{}, fmt.Errorf("get active tournament: %w", err)
	}
	if !exists {
		return tournament.Tournament{}, fmt.Errorf("%w: no active tournament", ErrNotFound)
	}
	return t, nil
}

// Roster returns the tournament's players grouped by basket in basket order.
func (s *TournamentService) Roster(ctx context.Context, tournamentID int64) ([]BasketRoster, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TournamentService.Roster")
	defer span.End()

	t, exists, err := s.tournaments.GetByID(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("get tournament: %w", err)
	}
	if !exists {
		return nil, draft.NotFound(draft.ErrTournamentNotFound, "tournament %d", tournamentID)
	}
	players, err := s.players.ListByTournament(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("list roster: %w", err)
	}

	byBasket := make(map[int64][]player.Player, len(t.Baskets))
	for _, p := range players {
		byBasket[p.BasketID] = append(byBasket[p.BasketID], p)
	}
	out := make([]BasketRoster, 0, len(t.Baskets))
	for _, b := range t.SortedBaskets() {
		out = append(out, BasketRoster{Basket: b, Players: byBasket[b.ID]})
	}
	return out, nil
}

func (s *TournamentService) Create(ctx context.Context, input CreateTournamentInput) (tournament.Tournament, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TournamentService.Create")
	defer span.End()

	if err := s.authz.RequireAdmin(ctx, input.Actor); err != nil {
		return tournament.Tournament{}, err
	}
	count := input.BasketCount
	if count == 0 {
		count = s.defaultBasketCount
	}
	if count < 0 {
		return tournament.Tournament{}, fmt.Errorf("%w: basket count must be > 0", ErrInvalidInput)
	}

	candidate := tournament.Tournament{
		Name:        strings.TrimSpace(input.Name),
		ExternalRef: strings.TrimSpace(input.ExternalRef),
		IsActive:    input.IsActive,
		Baskets:     tournament.NewBaskets(count),
	}
	if err := candidate.ValidateBasic(); err != nil {
		return tournament.Tournament{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	var created tournament.Tournament
	err := s.tx.WithinTx(ctx, nil, func(ctx context.Context, store draft.Store) error {
		var err error
		created, err = store.Tournaments().Create(ctx, candidate)
		if err != nil {
			return fmt.Errorf("create tournament: %w", err)
		}
		if created.IsActive {
			return store.Tournaments().DeactivateOthers(ctx, created.ID)
		}
		return nil
	})
	if err != nil {
		recordSpanError(span, err)
		return tournament.Tournament{}, err
	}

	s.changed(ctx, created.ID, created.IsActive)
	s.logger.InfoContext(ctx, "tournament created", "tournament_id", created.ID, "baskets", len(created.Baskets))
	return created, nil
}

// Update patches the tournament. Activating it deactivates every other tournament.
func (s *TournamentService) Update(ctx context.Context, input UpdateTournamentInput) (tournament.Tournament, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TournamentService.Update")
	defer span.End()

	if err := s.authz.RequireAdmin(ctx, input.Actor); err != nil {
		return tournament.Tournament{}, err
	}

	var updated tournament.Tournament
	err := s.tx.WithinTx(ctx, []draft.Lock{draft.RosterLock(input.TournamentID, false)}, func(ctx context.Context, store draft.Store) error {
		t, exists, err := store.Tournaments().GetByID(ctx, input.TournamentID)
		if err != nil {
			return fmt.Errorf("get tournament: %w", err)
		}
		if !exists {
			return draft.NotFound(draft.ErrTournamentNotFound, "tournament %d", input.TournamentID)
		}

		if input.Name != nil {
			t.Name = strings.TrimSpace(*input.Name)
		}
		if input.ExternalRef != nil {
			t.ExternalRef = strings.TrimSpace(*input.ExternalRef)
		}
		if input.IsActive != nil {
			t.IsActive = *input.IsActive
		}
		if input.IsRegistrationClosed != nil {
			t.IsRegistrationClosed = *input.IsRegistrationClosed
		}
		if input.IsParsing != nil {
			t.IsParsing = *input.IsParsing
		}
		if input.StartGameID != nil {
			t.StartGameID = *input.StartGameID
		}
		if err := t.ValidateBasic(); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}

		if err := store.Tournaments().Update(ctx, t); err != nil {
			return fmt.Errorf("update tournament: %w", err)
		}
		if t.IsActive {
			if err := store.Tournaments().DeactivateOthers(ctx, t.ID); err != nil {
				return fmt.Errorf("deactivate other tournaments: %w", err)
			}
		}
		updated = t
		return nil
	})
	if err != nil {
		recordSpanError(span, err)
		return tournament.Tournament{}, err
	}

	s.changed(ctx, updated.ID, updated.IsActive)
	s.logger.InfoContext(ctx, "tournament updated",
		"tournament_id", updated.ID,
		"active", updated.IsActive,
		"registration_closed", updated.IsRegistrationClosed,
		"parsing", updated.IsParsing,
		"start_game_id", updated.StartGameID,
	)
	return updated, nil
}

// changed announces a committed tournament write. activated marks writes that
// also deactivated every other tournament.
func (s *TournamentService) changed(ctx context.Context, tournamentID int64, activated bool) {
	publishAll(ctx, s.publisher, s.logger, draft.Event{
		Type:         draft.EventTournamentChanged,
		TournamentID: tournamentID,
		Activated:    activated,
		OccurredAt:   s.now().UTC(),
	})
}
