package tournament

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// DefaultAllowedPicks is the number of picks a new basket accepts.
const DefaultAllowedPicks = 1

// Basket is one category pool of a tournament's roster.
type Basket struct {
	ID           int64
	TournamentID int64
	Name         string
	SortOrder    int
	AllowedPicks int
}

// Tournament holds the draft settings users pick against. IsParsing enables the
// game collector independently of IsActive; StartGameID is the first feed game
// that belongs to the tournament, 0 meaning no lower bound.
type Tournament struct {
	ID                   int64
	Name                 string
	ExternalRef          string
	Budget               int64
	IsActive             bool
	IsRegistrationClosed bool
	IsParsing            bool
	StartGameID          int64
	Baskets              []Basket
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

func (t Tournament) ValidateBasic() error {
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("tournament name is required")
	}
	if t.Budget < 0 {
		return fmt.Errorf("tournament budget must be >= 0")
	}
	if t.StartGameID < 0 {
		return fmt.Errorf("tournament start game id must be >= 0")
	}
	seen := make(map[int]struct{}, len(t.Baskets))
	for _, b := range t.Baskets {
		if b.AllowedPicks < 0 {
			return fmt.Errorf("basket %d allowed picks must be >= 0", b.SortOrder)
		}
		if _, ok := seen[b.SortOrder]; ok {
			return fmt.Errorf("duplicate basket sort order %d", b.SortOrder)
		}
		seen[b.SortOrder] = struct{}{}
	}
	return nil
}

// AcceptsPicks reports whether users may change their selections.
func (t Tournament) AcceptsPicks() bool {
	return t.IsActive && !t.IsRegistrationClosed
}

// IncludesGame reports whether a feed game id falls inside the tournament's range.
func (t Tournament) IncludesGame(gameID int64) bool {
	return t.StartGameID <= 0 || gameID >= t.StartGameID
}

// GameNumber numbers a game from the tournament's first game. Without a start
// game the feed's own number is kept.
func (t Tournament) GameNumber(gameID int64, feedNumber int) int {
	if t.StartGameID <= 0 {
		return feedNumber
	}
	return int(gameID-t.StartGameID) + 1
}

// RequiredPicks is the exact number of picks a complete submission holds.
func (t Tournament) RequiredPicks() int {
	total := 0
	for _, b := range t.Baskets {
		total += b.AllowedPicks
	}
	return total
}

// PickingBaskets returns the baskets that require at least one pick, ordered by SortOrder.
func (t Tournament) PickingBaskets() []Basket {
	out := make([]Basket, 0, len(t.Baskets))
	for _, b := range t.SortedBaskets() {
		if b.AllowedPicks > 0 {
			out = append(out, b)
		}
	}
	return out
}

func (t Tournament) SortedBaskets() []Basket {
	out := slices.Clone(t.Baskets)
	slices.SortStableFunc(out, func(a, b Basket) int {
		if a.SortOrder != b.SortOrder {
			return a.SortOrder - b.SortOrder
		}
		if a.ID < b.ID {
			return -1
		}
		if a.ID > b.ID {
			return 1
		}
		return 0
	})
	return out
}

func (t Tournament) Basket(id int64) (Basket, bool) {
	for _, b := range t.Baskets {
		if b.ID == id {
			return b, true
		}
	}
	return Basket{}, false
}

// NewBaskets builds count baskets with the default allowance, named by position.
func NewBaskets(count int) []Basket {
	if count <= 0 {
		return nil
	}
	out := make([]Basket, 0, count)
	for i := 1; i <= count; i++ {
		out = append(out, Basket{
			Name:         fmt.Sprintf("Basket %d", i),
			SortOrder:    i,
			AllowedPicks: DefaultAllowedPicks,
		})
	}
	return out
}
