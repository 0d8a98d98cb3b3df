package draft

import (
	"slices"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/go-cmp/cmp"
	"github.com/riskibarqy/fantasy-draft/internal/domain/player"
	"github.com/riskibarqy/fantasy-draft/internal/domain/tournament"
)

func TestDistributeOnePerBasket(t *testing.T) {
	in := []player.Candidate{
		{Name: "A", Cost: 40},
		{Name: "B", Cost: 30},
		{Name: "C", Cost: 25},
		{Name: "D", Cost: 20},
	}
	want := [][]player.Candidate{
		{{Name: "A", Cost: 40}},
		{{Name: "B", Cost: 30}},
		{{Name: "C", Cost: 25}},
		{{Name: "D", Cost: 20}},
	}

	first := Distribute(in, 4)
	if diff := cmp.Diff(want, first); diff != "" {
		t.Fatalf("unexpected distribution (-want +got):\n%s", diff)
	}
	for i := 0; i < 5; i++ {
		if diff := cmp.Diff(first, Distribute(in, 4)); diff != "" {
			t.Fatalf("distribution not deterministic on run %d:\n%s", i, diff)
		}
	}
}

func TestDistributeStableTiesAndShortTail(t *testing.T) {
	in := []player.Candidate{
		{Name: "low", Cost: 5},
		{Name: "tie-1", Cost: 10},
		{Name: "top", Cost: 50},
		{Name: "tie-2", Cost: 10},
		{Name: "tie-3", Cost: 10},
	}
	got := Distribute(in, 2)
	want := [][]player.Candidate{
		{{Name: "top", Cost: 50}, {Name: "tie-1", Cost: 10}, {Name: "tie-2", Cost: 10}},
		{{Name: "tie-3", Cost: 10}, {Name: "low", Cost: 5}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected distribution (-want +got):\n%s", diff)
	}
	if in[0].Name != "low" {
		t.Fatalf("input slice was reordered")
	}
}

func TestDistributeEdgeCounts(t *testing.T) {
	if got := Distribute([]player.Candidate{{Name: "x"}}, 0); got != nil {
		t.Fatalf("expected nil for zero baskets, got %+v", got)
	}

	empty := Distribute(nil, 3)
	if len(empty) != 3 {
		t.Fatalf("expected three empty chunks, got %d", len(empty))
	}
	for _, chunk := range empty {
		if len(chunk) != 0 {
			t.Fatalf("expected empty chunk, got %+v", chunk)
		}
	}

	few := Distribute([]player.Candidate{{Name: "a", Cost: 2}, {Name: "b", Cost: 1}}, 4)
	sizes := []int{len(few[0]), len(few[1]), len(few[2]), len(few[3])}
	if !slices.Equal(sizes, []int{1, 1, 0, 0}) {
		t.Fatalf("unexpected chunk sizes: %v", sizes)
	}
}

func TestDistributeProperties(t *testing.T) {
	faker := gofakeit.New(42)
	for run := 0; run < 50; run++ {
		n := faker.IntRange(1, 6)
		total := faker.IntRange(0, 40)
		in := make([]player.Candidate, 0, total)
		for i := 0; i < total; i++ {
			in = append(in, player.Candidate{
				Name: faker.Name(),
				Cost: int64(faker.IntRange(0, 100)),
			})
		}

		chunks := Distribute(in, n)
		if len(chunks) != n {
			t.Fatalf("run %d: got %d chunks want %d", run, len(chunks), n)
		}

		chunkSize := (total + n - 1) / n
		seen := 0
		var prev *player.Candidate
		for i, chunk := range chunks {
			if len(chunk) > chunkSize && chunkSize > 0 {
				t.Fatalf("run %d: chunk %d has %d items, max %d", run, i, len(chunk), chunkSize)
			}
			for j := range chunk {
				if prev != nil && chunk[j].Cost > prev.Cost {
					t.Fatalf("run %d: cost order broken at chunk %d", run, i)
				}
				prev = &chunk[j]
				seen++
			}
		}
		if seen != total {
			t.Fatalf("run %d: distributed %d of %d candidates", run, seen, total)
		}
	}
}

func TestRosterPlayersAssignsBySortOrder(t *testing.T) {
	tour := tournament.Tournament{
		ID: 7,
		Baskets: []tournament.Basket{
			{ID: 72, SortOrder: 2, AllowedPicks: 1},
			{ID: 71, SortOrder: 1, AllowedPicks: 1},
		},
	}
	players, err := RosterPlayers(tour, []player.Candidate{
		{Name: "cheap", Cost: 1},
		{Name: "pricey", Cost: 9},
	})
	if err != nil {
		t.Fatalf("roster players: %v", err)
	}

	want := []player.Player{
		{BasketID: 71, Name: "pricey", Cost: 9},
		{BasketID: 72, Name: "cheap", Cost: 1},
	}
	if diff := cmp.Diff(want, players); diff != "" {
		t.Fatalf("unexpected players (-want +got):\n%s", diff)
	}

	if _, err := RosterPlayers(tournament.Tournament{ID: 8}, nil); err == nil {
		t.Fatalf("expected error for tournament without baskets")
	}
}
