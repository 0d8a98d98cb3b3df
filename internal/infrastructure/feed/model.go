package feed

import "strings"

type ratingsEnvelope struct {
	Data []ratingItem `json:"data"`
}

type ratingItem struct {
	Rank    int     `json:"rank"`
	Name    string  `json:"name"`
	Rating  int64   `json:"rating"`
	Games   int     `json:"games"`
	Wins    int     `json:"wins"`
	WinRate float64 `json:"win_rate"`
}

type gameListEnvelope struct {
	Data []struct {
		ID int64 `json:"id"`
	} `json:"data"`
}

type gameEnvelope struct {
	Data gameItem `json:"data"`
}

type gameItem struct {
	ID      int64            `json:"id"`
	Number  int              `json:"number"`
	Winner  string           `json:"winner"`
	Players []gamePlayerItem `json:"players"`
}

type gamePlayerItem struct {
	Name   string  `json:"name"`
	Role   string  `json:"role"`
	Points float64 `json:"points"`
	Fouls  int     `json:"fouls"`
}

const (
	RoleCivilian = "civilian"
	RoleSheriff  = "sheriff"
	RoleMafia    = "mafia"
	RoleDon      = "don"

	WinnerRed     = "red"
	WinnerBlack   = "black"
	WinnerUnknown = "unknown"
)

// normalizeRole folds feed role labels onto the four seat roles; anything
// unrecognised is a civilian seat.
func normalizeRole(raw string) string {
	role := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case strings.Contains(role, "don"):
		return RoleDon
	case strings.Contains(role, "sheriff"):
		return RoleSheriff
	case strings.Contains(role, "mafia"):
		return RoleMafia
	default:
		return RoleCivilian
	}
}

func normalizeWinner(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "red", "civilians", "town":
		return WinnerRed
	case "black", "mafia":
		return WinnerBlack
	default:
		return WinnerUnknown
	}
}
