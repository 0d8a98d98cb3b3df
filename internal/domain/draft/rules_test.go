package draft

import (
	"errors"
	"testing"

	"github.com/riskibarqy/fantasy-draft/internal/domain/player"
	"github.com/riskibarqy/fantasy-draft/internal/domain/selection"
	"github.com/riskibarqy/fantasy-draft/internal/domain/tournament"
)

func fourBasketTournament(budget int64) tournament.Tournament {
	return tournament.Tournament{
		ID:       1,
		Name:     "Spring Cup",
		Budget:   budget,
		IsActive: true,
		Baskets: []tournament.Basket{
			{ID: 11, TournamentID: 1, SortOrder: 1, AllowedPicks: 1},
			{ID: 12, TournamentID: 1, SortOrder: 2, AllowedPicks: 1},
			{ID: 13, TournamentID: 1, SortOrder: 3, AllowedPicks: 1},
			{ID: 14, TournamentID: 1, SortOrder: 4, AllowedPicks: 1},
		},
	}
}

func scenarioPlayers() []player.Player {
	return []player.Player{
		{ID: 1, BasketID: 11, Name: "p1", Cost: 30},
		{ID: 2, BasketID: 12, Name: "p2", Cost: 20},
		{ID: 3, BasketID: 13, Name: "p3", Cost: 25},
		{ID: 4, BasketID: 14, Name: "p4", Cost: 20},
		{ID: 5, BasketID: 11, Name: "p5", Cost: 60},
	}
}

func loaded(ids []int64) []player.Player {
	want := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	out := make([]player.Player, 0, len(ids))
	for _, p := range scenarioPlayers() {
		if _, ok := want[p.ID]; ok {
			out = append(out, p)
		}
	}
	return out
}

func TestCheckPicks(t *testing.T) {
	tests := []struct {
		name      string
		budget    int64
		submitted []int64
		players   func([]int64) []player.Player
		targetErr error
	}{
		{
			name:      "valid four baskets",
			budget:    100,
			submitted: []int64{1, 2, 3, 4},
		},
		{
			name:      "same player twice claims one basket twice",
			budget:    100,
			submitted: []int64{1, 1, 3, 4},
			targetErr: ErrBasketDuplicate,
		},
		{
			name:      "two players from one basket",
			budget:    500,
			submitted: []int64{1, 5, 3, 4},
			targetErr: ErrBasketDuplicate,
		},
		{
			name:      "too few picks",
			budget:    100,
			submitted: []int64{1, 2, 3},
			targetErr: ErrWrongCount,
		},
		{
			name:      "too many picks",
			budget:    500,
			submitted: []int64{1, 2, 3, 4, 5},
			targetErr: ErrWrongCount,
		},
		{
			name:      "over budget",
			budget:    90,
			submitted: []int64{1, 2, 3, 4},
			targetErr: ErrBudgetExceeded,
		},
		{
			name:      "unknown player",
			budget:    100,
			submitted: []int64{1, 2, 3, 99},
			targetErr: ErrPlayerMismatch,
		},
		{
			name:      "player from foreign basket",
			budget:    100,
			submitted: []int64{1, 2, 3, 4},
			players: func(ids []int64) []player.Player {
				out := loaded(ids)
				out[3].BasketID = 99
				return out
			},
			targetErr: ErrPlayerMismatch,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			players := loaded(tc.submitted)
			if tc.players != nil {
				players = tc.players(tc.submitted)
			}

			set, err := CheckPicks(fourBasketTournament(tc.budget), tc.submitted, players)
			if tc.targetErr == nil {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				if len(set.Picks) != len(tc.submitted) {
					t.Fatalf("unexpected pick count: %d", len(set.Picks))
				}
				return
			}
			if !errors.Is(err, tc.targetErr) {
				t.Fatalf("expected error %v, got %v", tc.targetErr, err)
			}
		})
	}
}

func TestCheckPicksScenarioTotal(t *testing.T) {
	ids := []int64{1, 2, 3, 4}
	set, err := CheckPicks(fourBasketTournament(100), ids, loaded(ids))
	if err != nil {
		t.Fatalf("check picks: %v", err)
	}
	if set.TotalCost != 95 {
		t.Fatalf("unexpected total cost: got=%d want=95", set.TotalCost)
	}
	want := []selection.ValidatedPick{
		{PlayerID: 1, BasketID: 11, Cost: 30},
		{PlayerID: 2, BasketID: 12, Cost: 20},
		{PlayerID: 3, BasketID: 13, Cost: 25},
		{PlayerID: 4, BasketID: 14, Cost: 20},
	}
	for i := range want {
		if set.Picks[i] != want[i] {
			t.Fatalf("unexpected pick %d: got=%+v want=%+v", i, set.Picks[i], want[i])
		}
	}
}

func TestCheckPicksBudgetOverage(t *testing.T) {
	ids := []int64{1, 2, 3, 4}
	_, err := CheckPicks(fourBasketTournament(80), ids, loaded(ids))

	var de *Error
	if !errors.As(err, &de) {
		t.Fatalf("expected draft error, got %v", err)
	}
	if de.Overage != 15 {
		t.Fatalf("unexpected overage: got=%d want=15", de.Overage)
	}
}

func TestCheckPicksHonorsAllowedPicks(t *testing.T) {
	tour := tournament.Tournament{
		ID:       2,
		Budget:   1000,
		IsActive: true,
		Baskets: []tournament.Basket{
			{ID: 21, SortOrder: 1, AllowedPicks: 2},
			{ID: 22, SortOrder: 2, AllowedPicks: 1},
		},
	}
	players := []player.Player{
		{ID: 1, BasketID: 21, Cost: 10},
		{ID: 2, BasketID: 21, Cost: 10},
		{ID: 3, BasketID: 22, Cost: 10},
	}

	if _, err := CheckPicks(tour, []int64{1, 2, 3}, players); err != nil {
		t.Fatalf("expected two picks in a two-pick basket to pass, got %v", err)
	}
	if _, err := CheckPicks(tour, []int64{1, 1, 3}, players[:1:1]); !errors.Is(err, ErrPlayerMismatch) {
		t.Fatalf("expected mismatch for missing player row, got %v", err)
	}
	if _, err := CheckPicks(tour, []int64{1, 1, 3}, []player.Player{players[0], players[2]}); !errors.Is(err, ErrBasketDuplicate) {
		t.Fatalf("expected repeated player to be rejected, got %v", err)
	}
}

func TestCheckPicksOrderPrefersCountOverBudget(t *testing.T) {
	ids := []int64{1, 2, 3}
	_, err := CheckPicks(fourBasketTournament(1), ids, loaded(ids))
	if !errors.Is(err, ErrWrongCount) {
		t.Fatalf("expected wrong count before budget, got %v", err)
	}
}
