package player

import (
	"fmt"
	"strings"
)

// Player is one roster entry, owned by exactly one basket.
type Player struct {
	ID       int64
	BasketID int64
	Name     string
	Rank     int
	Cost     int64
	Points   int64
}

// Candidate is an admin-supplied roster row before basket assignment.
type Candidate struct {
	Name string `json:"name" validate:"required,max=120"`
	Cost int64  `json:"cost" validate:"gte=0"`
	Rank int    `json:"rank,omitempty" validate:"gte=0"`
}

func (c Candidate) Normalize() Candidate {
	c.Name = strings.TrimSpace(c.Name)
	return c
}

func (c Candidate) ToPlayer(basketID int64) Player {
	return Player{
		BasketID: basketID,
		Name:     c.Name,
		Rank:     c.Rank,
		Cost:     c.Cost,
	}
}

func (p Player) ValidateBasic() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("player name is required")
	}
	if p.BasketID <= 0 {
		return fmt.Errorf("player basket is required")
	}
	if p.Cost < 0 {
		return fmt.Errorf("player cost must be >= 0")
	}
	return nil
}
