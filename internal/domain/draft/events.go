package draft

import "time"

type EventType string

const (
	EventSelectionsReplaced EventType = "draft.selections_replaced"
	EventRosterReplaced     EventType = "draft.roster_replaced"
	EventBudgetRecalculated EventType = "draft.budget_recalculated"
	EventTournamentChanged  EventType = "draft.tournament_changed"
	EventPointsUpdated      EventType = "draft.points_updated"
)

// Event is emitted after a committed change so dependent views can be refreshed.
type Event struct {
	Type         EventType `json:"type"`
	TournamentID int64     `json:"tournament_id"`
	UserID       string    `json:"user_id,omitempty"`
	PlayerIDs    []int64   `json:"player_ids,omitempty"`
	Budget       int64     `json:"budget,omitempty"`
	Activated    bool      `json:"activated,omitempty"`
	OccurredAt   time.Time `json:"occurred_at"`
}
