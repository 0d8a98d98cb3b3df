package selection

// Selection is the persisted (user, player) association.
type Selection struct {
	UserID   string
	PlayerID int64
}

// PickWithPlayerAndBasket is the row shape of a selection joined with its player and basket.
type PickWithPlayerAndBasket struct {
	UserID          string
	TournamentID    int64
	PlayerID        int64
	PlayerName      string
	Cost            int64
	Points          int64
	BasketID        int64
	BasketSortOrder int
}

// ValidatedPick is one accepted (player, basket) pair.
type ValidatedPick struct {
	PlayerID int64
	BasketID int64
	Cost     int64
}

// ValidatedPickSet is a deduplicated pick set that passed every draft rule.
type ValidatedPickSet struct {
	TournamentID int64
	Picks        []ValidatedPick
	TotalCost    int64
}

func (s ValidatedPickSet) PlayerIDs() []int64 {
	out := make([]int64, 0, len(s.Picks))
	for _, p := range s.Picks {
		out = append(out, p.PlayerID)
	}
	return out
}

func (s ValidatedPickSet) Rows(userID string) []Selection {
	out := make([]Selection, 0, len(s.Picks))
	for _, p := range s.Picks {
		out = append(out, Selection{UserID: userID, PlayerID: p.PlayerID})
	}
	return out
}
