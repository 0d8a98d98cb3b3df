package draft

import (
	"math"

	"github.com/riskibarqy/fantasy-draft/internal/domain/player"
)

// Budget derives a tournament cap: the average player cost times the number of
// baskets requiring a pick, rounded half away from zero. ok is false when there
// is nothing to derive from.
func Budget(players []player.Player, basketCount int) (budget int64, ok bool) {
	if len(players) == 0 || basketCount <= 0 {
		return 0, false
	}
	var sum int64
	for _, p := range players {
		sum += p.Cost
	}
	return int64(math.Round(float64(sum*int64(basketCount)) / float64(len(players)))), true
}
