package postgres

import "time"

type playerTableModel struct {
	ID        int64     `db:"id"`
	BasketID  int64     `db:"basket_id"`
	Name      string    `db:"name"`
	Rank      int       `db:"rank"`
	Cost      int64     `db:"cost"`
	Points    int64     `db:"points"`
	CreatedAt time.Time `db:"created_at"`
}

type playerInsertModel struct {
	BasketID int64  `db:"basket_id"`
	Name     string `db:"name"`
	Rank     int    `db:"rank"`
	Cost     int64  `db:"cost"`
	Points   int64  `db:"points"`
}

type pickTableModel struct {
	UserID          string `db:"user_id"`
	TournamentID    int64  `db:"tournament_id"`
	PlayerID        int64  `db:"player_id"`
	PlayerName      string `db:"player_name"`
	Cost            int64  `db:"cost"`
	Points          int64  `db:"points"`
	BasketID        int64  `db:"basket_id"`
	BasketSortOrder int    `db:"basket_sort_order"`
}
