package draft

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/riskibarqy/fantasy-draft/internal/domain/player"
	"github.com/riskibarqy/fantasy-draft/internal/domain/tournament"
)

// Distribute sorts candidates by cost, highest first with input order breaking
// ties, and slices them into n consecutive chunks of ceil(len/n). Chunk i belongs
// to the basket at sort position i. Trailing chunks may be short or empty.
func Distribute(candidates []player.Candidate, n int) [][]player.Candidate {
	if n <= 0 {
		return nil
	}
	sorted := slices.Clone(candidates)
	slices.SortStableFunc(sorted, func(a, b player.Candidate) int {
		return cmp.Compare(b.Cost, a.Cost)
	})

	chunkSize := (len(sorted) + n - 1) / n
	if chunkSize == 0 {
		chunkSize = 1
	}

	out := make([][]player.Candidate, n)
	for i := range out {
		start := min(i*chunkSize, len(sorted))
		end := min(start+chunkSize, len(sorted))
		out[i] = sorted[start:end:end]
	}
	return out
}

// AssignBaskets maps distributed chunks onto baskets ordered by SortOrder.
func AssignBaskets(baskets []tournament.Basket, chunks [][]player.Candidate) (map[int64][]player.Candidate, error) {
	if len(chunks) > len(baskets) {
		return nil, fmt.Errorf("have %d chunks for %d baskets", len(chunks), len(baskets))
	}
	ordered := tournament.Tournament{Baskets: baskets}.SortedBaskets()
	out := make(map[int64][]player.Candidate, len(ordered))
	for i, chunk := range chunks {
		out[ordered[i].ID] = chunk
	}
	return out, nil
}

// RosterPlayers distributes candidates over the tournament's picking baskets and
// returns the players to persist, in basket order.
func RosterPlayers(t tournament.Tournament, candidates []player.Candidate) ([]player.Player, error) {
	baskets := t.PickingBaskets()
	if len(baskets) == 0 {
		return nil, ValidationError(ErrWrongCount, "tournament %d has no baskets accepting picks", t.ID)
	}
	chunks := Distribute(candidates, len(baskets))
	mapping, err := AssignBaskets(baskets, chunks)
	if err != nil {
		return nil, err
	}

	out := make([]player.Player, 0, len(candidates))
	for _, b := range baskets {
		for _, c := range mapping[b.ID] {
			out = append(out, c.ToPlayer(b.ID))
		}
	}
	return out, nil
}
