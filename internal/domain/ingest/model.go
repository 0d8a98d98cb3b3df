package ingest

import (
	"fmt"
	"math"
	"strings"
)

// Rating is one row of the external rating table, keyed by rank.
type Rating struct {
	Rank        int
	PlayerName  string
	Rating      int64
	GamesPlayed int
	Wins        int
	WinRate     float64
}

func (r Rating) ValidateBasic() error {
	if r.Rank <= 0 {
		return fmt.Errorf("rating rank must be > 0")
	}
	if strings.TrimSpace(r.PlayerName) == "" {
		return fmt.Errorf("rating player name is required")
	}
	return nil
}

// PlayerStat is one player's line in an ingested game.
type PlayerStat struct {
	PlayerName string
	Role       string
	Points     float64
	Fouls      int
}

// Game is an externally identified match result.
type Game struct {
	ID           int64
	TournamentID int64
	GameNumber   int
	WinnerTeam   string
	Stats        []PlayerStat
}

func (g Game) ValidateBasic() error {
	if g.ID <= 0 {
		return fmt.Errorf("game id must be > 0")
	}
	if g.TournamentID <= 0 {
		return fmt.Errorf("game tournament id must be > 0")
	}
	for i, s := range g.Stats {
		if strings.TrimSpace(s.PlayerName) == "" {
			return fmt.Errorf("game %d stat %d: player name is required", g.ID, i)
		}
	}
	return nil
}

// RoundPoints converts summed stat points to the integer player score.
func RoundPoints(v float64) int64 {
	return int64(math.Round(v))
}
