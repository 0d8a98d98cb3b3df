package httpapi

import (
	"time"

	"github.com/riskibarqy/fantasy-draft/internal/domain/player"
	"github.com/riskibarqy/fantasy-draft/internal/domain/selection"
	"github.com/riskibarqy/fantasy-draft/internal/domain/tournament"
	"github.com/riskibarqy/fantasy-draft/internal/usecase"
)

type createTournamentRequest struct {
	Name        string `json:"name" validate:"required,max=120"`
	ExternalRef string `json:"external_ref" validate:"omitempty,max=120"`
	BasketCount int    `json:"basket_count" validate:"omitempty,gte=1,lte=26"`
	IsActive    bool   `json:"is_active"`
}

type updateTournamentRequest struct {
	Name                 *string `json:"name" validate:"omitempty,min=1,max=120"`
	ExternalRef          *string `json:"external_ref" validate:"omitempty,max=120"`
	IsActive             *bool   `json:"is_active"`
	IsRegistrationClosed *bool   `json:"is_registration_closed"`
	IsParsing            *bool   `json:"is_parsing"`
	StartGameID          *int64  `json:"start_game_id" validate:"omitempty,gte=0"`
}

type saveSelectionsRequest struct {
	UserID    string  `json:"user_id" validate:"omitempty,max=128"`
	PlayerIDs []int64 `json:"player_ids" validate:"required,dive,gt=0"`
}

type saveBasketPickRequest struct {
	UserID   string `json:"user_id" validate:"omitempty,max=128"`
	PlayerID int64  `json:"player_id" validate:"required,gt=0"`
}

type replaceRosterRequest struct {
	Candidates []player.Candidate `json:"candidates" validate:"required,dive"`
}

type addPlayerRequest struct {
	BasketID int64  `json:"basket_id" validate:"required,gt=0"`
	Name     string `json:"name" validate:"required,max=120"`
	Cost     int64  `json:"cost" validate:"gte=0"`
	Rank     int    `json:"rank" validate:"gte=0"`
}

type basketDTO struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	SortOrder    int    `json:"sort_order"`
	AllowedPicks int    `json:"allowed_picks"`
}

type tournamentDTO struct {
	ID                   int64       `json:"id"`
	Name                 string      `json:"name"`
	ExternalRef          string      `json:"external_ref,omitempty"`
	Budget               int64       `json:"budget"`
	IsActive             bool        `json:"is_active"`
	IsRegistrationClosed bool        `json:"is_registration_closed"`
	IsParsing            bool        `json:"is_parsing"`
	StartGameID          int64       `json:"start_game_id,omitempty"`
	Baskets              []basketDTO `json:"baskets"`
	CreatedAt            time.Time   `json:"created_at"`
	UpdatedAt            time.Time   `json:"updated_at"`
}

type playerDTO struct {
	ID       int64  `json:"id"`
	BasketID int64  `json:"basket_id"`
	Name     string `json:"name"`
	Rank     int    `json:"rank"`
	Cost     int64  `json:"cost"`
	Points   int64  `json:"points"`
}

type basketRosterDTO struct {
	Basket  basketDTO   `json:"basket"`
	Players []playerDTO `json:"players"`
}

type pickDTO struct {
	PlayerID        int64  `json:"player_id"`
	PlayerName      string `json:"player_name"`
	Cost            int64  `json:"cost"`
	Points          int64  `json:"points"`
	BasketID        int64  `json:"basket_id"`
	BasketSortOrder int    `json:"basket_sort_order"`
}

type userPicksDTO struct {
	UserID       string    `json:"user_id"`
	TournamentID int64     `json:"tournament_id"`
	Picks        []pickDTO `json:"picks"`
	TotalCost    int64     `json:"total_cost"`
	TotalPoints  int64     `json:"total_points"`
}

type savedPickDTO struct {
	PlayerID int64 `json:"player_id"`
	BasketID int64 `json:"basket_id"`
	Cost     int64 `json:"cost"`
}

type saveSelectionsResponse struct {
	UserID       string         `json:"user_id"`
	TournamentID int64          `json:"tournament_id"`
	Picks        []savedPickDTO `json:"picks"`
	TotalCost    int64          `json:"total_cost"`
}

type leaderboardEntryDTO struct {
	Rank        int          `json:"rank"`
	UserID      string       `json:"user_id"`
	TotalPoints int64        `json:"total_points"`
	TotalCost   int64        `json:"total_cost"`
	Picks       userPicksDTO `json:"selections"`
}

type pickStatDTO struct {
	PlayerID   int64   `json:"player_id"`
	Name       string  `json:"name"`
	BasketID   int64   `json:"basket_id"`
	Cost       int64   `json:"cost"`
	Points     int64   `json:"points"`
	PickCount  int     `json:"pick_count"`
	PointsCost float64 `json:"points_per_cost"`
}

type budgetDTO struct {
	TournamentID int64 `json:"tournament_id"`
	Budget       int64 `json:"budget"`
	Previous     int64 `json:"previous"`
	Changed      bool  `json:"changed"`
	NoOp         bool  `json:"no_op"`
}

type rosterResultDTO struct {
	TournamentID int64       `json:"tournament_id"`
	Players      []playerDTO `json:"players"`
	Budget       budgetDTO   `json:"budget"`
}

type addPlayerResponse struct {
	Player playerDTO `json:"player"`
	Budget budgetDTO `json:"budget"`
}

type syncRatingsResponse struct {
	Upserted int `json:"upserted"`
}

type gamesReportDTO struct {
	TournamentID  int64 `json:"tournament_id"`
	Listed        int   `json:"listed"`
	Unseen        int   `json:"unseen"`
	Processed     int   `json:"processed"`
	Inserted      int   `json:"inserted"`
	Failed        int   `json:"failed"`
	PlayersScored int   `json:"players_scored"`
}

func basketToDTO(b tournament.Basket) basketDTO {
	return basketDTO{
		ID:           b.ID,
		Name:         b.Name,
		SortOrder:    b.SortOrder,
		AllowedPicks: b.AllowedPicks,
	}
}

func tournamentToDTO(t tournament.Tournament) tournamentDTO {
	baskets := make([]basketDTO, 0, len(t.Baskets))
	for _, b := range t.Baskets {
		baskets = append(baskets, basketToDTO(b))
	}
	return tournamentDTO{
		ID:                   t.ID,
		Name:                 t.Name,
		ExternalRef:          t.ExternalRef,
		Budget:               t.Budget,
		IsActive:             t.IsActive,
		IsRegistrationClosed: t.IsRegistrationClosed,
		IsParsing:            t.IsParsing,
		StartGameID:          t.StartGameID,
		Baskets:              baskets,
		CreatedAt:            t.CreatedAt,
		UpdatedAt:            t.UpdatedAt,
	}
}

func playerToDTO(p player.Player) playerDTO {
	return playerDTO{
		ID:       p.ID,
		BasketID: p.BasketID,
		Name:     p.Name,
		Rank:     p.Rank,
		Cost:     p.Cost,
		Points:   p.Points,
	}
}

func playersToDTO(players []player.Player) []playerDTO {
	out := make([]playerDTO, 0, len(players))
	for _, p := range players {
		out = append(out, playerToDTO(p))
	}
	return out
}

func basketRosterToDTO(item usecase.BasketRoster) basketRosterDTO {
	return basketRosterDTO{
		Basket:  basketToDTO(item.Basket),
		Players: playersToDTO(item.Players),
	}
}

func picksToDTO(userID string, tournamentID int64, picks []selection.PickWithPlayerAndBasket) userPicksDTO {
	out := userPicksDTO{
		UserID:       userID,
		TournamentID: tournamentID,
		Picks:        make([]pickDTO, 0, len(picks)),
	}
	for _, p := range picks {
		out.Picks = append(out.Picks, pickDTO{
			PlayerID:        p.PlayerID,
			PlayerName:      p.PlayerName,
			Cost:            p.Cost,
			Points:          p.Points,
			BasketID:        p.BasketID,
			BasketSortOrder: p.BasketSortOrder,
		})
		out.TotalCost += p.Cost
		out.TotalPoints += p.Points
	}
	return out
}

func saveResultToDTO(result usecase.SaveSelectionsResult) saveSelectionsResponse {
	picks := make([]savedPickDTO, 0, len(result.Picks))
	for _, p := range result.Picks {
		picks = append(picks, savedPickDTO{PlayerID: p.PlayerID, BasketID: p.BasketID, Cost: p.Cost})
	}
	return saveSelectionsResponse{
		UserID:       result.UserID,
		TournamentID: result.TournamentID,
		Picks:        picks,
		TotalCost:    result.TotalCost,
	}
}

func leaderboardEntryToDTO(tournamentID int64, entry usecase.LeaderboardEntry) leaderboardEntryDTO {
	return leaderboardEntryDTO{
		Rank:        entry.Rank,
		UserID:      entry.UserID,
		TotalPoints: entry.TotalPoints,
		TotalCost:   entry.TotalCost,
		Picks:       picksToDTO(entry.UserID, tournamentID, entry.Picks),
	}
}

func pickStatToDTO(s usecase.PlayerPickStat) pickStatDTO {
	return pickStatDTO{
		PlayerID:   s.PlayerID,
		Name:       s.Name,
		BasketID:   s.BasketID,
		Cost:       s.Cost,
		Points:     s.Points,
		PickCount:  s.PickCount,
		PointsCost: s.PointsCost,
	}
}

func budgetToDTO(b usecase.BudgetResult) budgetDTO {
	return budgetDTO{
		TournamentID: b.TournamentID,
		Budget:       b.Budget,
		Previous:     b.Previous,
		Changed:      b.Changed,
		NoOp:         b.NoOp,
	}
}

func rosterResultToDTO(r usecase.RosterResult) rosterResultDTO {
	return rosterResultDTO{
		TournamentID: r.TournamentID,
		Players:      playersToDTO(r.Players),
		Budget:       budgetToDTO(r.Budget),
	}
}

func gamesReportToDTO(r usecase.GamesReport) gamesReportDTO {
	return gamesReportDTO{
		TournamentID:  r.TournamentID,
		Listed:        r.Listed,
		Unseen:        r.Unseen,
		Processed:     r.Processed,
		Inserted:      r.Inserted,
		Failed:        r.Failed,
		PlayersScored: r.PlayersScored,
	}
}
