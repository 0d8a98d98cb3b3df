package draft

import (
	"github.com/riskibarqy/fantasy-draft/internal/domain/player"
	"github.com/riskibarqy/fantasy-draft/internal/domain/selection"
	"github.com/riskibarqy/fantasy-draft/internal/domain/tournament"
)

// DistinctIDs returns ids without duplicates, keeping first occurrence order.
func DistinctIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// CheckPicks applies the draft rules to a submission whose players were already
// loaded from the tournament's roster. Checks run in order and stop at the first failure:
// player integrity, pick count, basket coverage, budget.
func CheckPicks(t tournament.Tournament, submitted []int64, players []player.Player) (selection.ValidatedPickSet, error) {
	distinct := DistinctIDs(submitted)
	byID := make(map[int64]player.Player, len(players))
	for _, p := range players {
		byID[p.ID] = p
	}
	if len(players) != len(distinct) {
		return selection.ValidatedPickSet{}, IntegrityError("submitted %d players, found %d in tournament %d", len(distinct), len(players), t.ID)
	}
	for _, id := range distinct {
		p, ok := byID[id]
		if !ok {
			return selection.ValidatedPickSet{}, IntegrityError("player %d is not in tournament %d", id, t.ID)
		}
		if _, ok := t.Basket(p.BasketID); !ok {
			return selection.ValidatedPickSet{}, IntegrityError("player %d basket %d is not in tournament %d", id, p.BasketID, t.ID)
		}
	}

	required := t.RequiredPicks()
	if len(submitted) != required {
		return selection.ValidatedPickSet{}, ValidationError(ErrWrongCount, "got %d picks, want %d", len(submitted), required)
	}

	perBasket := make(map[int64]int, len(t.Baskets))
	for _, id := range submitted {
		perBasket[byID[id].BasketID]++
	}
	for _, b := range t.SortedBaskets() {
		if perBasket[b.ID] > b.AllowedPicks {
			return selection.ValidatedPickSet{}, ValidationError(ErrBasketDuplicate, "basket %d has %d picks, allowed %d", b.SortOrder, perBasket[b.ID], b.AllowedPicks)
		}
	}
	if picking := len(t.PickingBaskets()); len(perBasket) != picking {
		return selection.ValidatedPickSet{}, ValidationError(ErrBasketDuplicate, "picks cover %d baskets, want %d", len(perBasket), picking)
	}
	if len(distinct) != len(submitted) {
		return selection.ValidatedPickSet{}, ValidationError(ErrBasketDuplicate, "player picked more than once")
	}

	set := selection.ValidatedPickSet{
		TournamentID: t.ID,
		Picks:        make([]selection.ValidatedPick, 0, len(distinct)),
	}
	for _, id := range distinct {
		p := byID[id]
		set.TotalCost += p.Cost
		set.Picks = append(set.Picks, selection.ValidatedPick{
			PlayerID: p.ID,
			BasketID: p.BasketID,
			Cost:     p.Cost,
		})
	}
	if set.TotalCost > t.Budget {
		return selection.ValidatedPickSet{}, BudgetExceeded(t.Budget, set.TotalCost)
	}

	return set, nil
}
