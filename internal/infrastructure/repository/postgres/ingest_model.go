package postgres

type ratingTableModel struct {
	Rank        int     `db:"rank"`
	PlayerName  string  `db:"player_name"`
	Rating      int64   `db:"rating"`
	GamesPlayed int     `db:"games_played"`
	Wins        int     `db:"wins"`
	WinRate     float64 `db:"win_rate"`
}

type gameInsertModel struct {
	ID           int64  `db:"id"`
	TournamentID int64  `db:"tournament_id"`
	GameNumber   int    `db:"game_number"`
	WinnerTeam   string `db:"winner_team"`
}

type gameStatInsertModel struct {
	GameID     int64   `db:"game_id"`
	PlayerName string  `db:"player_name"`
	Role       string  `db:"role"`
	Points     float64 `db:"points"`
	Fouls      int     `db:"fouls"`
}

type playerPointsRow struct {
	PlayerName string  `db:"player_name"`
	Points     float64 `db:"points"`
}

type profileTableModel struct {
	ID       string `db:"id"`
	Username string `db:"username"`
	IsAdmin  bool   `db:"is_admin"`
}
