package postgres

import "time"

type tournamentTableModel struct {
	ID                   int64     `db:"id"`
	Name                 string    `db:"name"`
	ExternalRef          string    `db:"external_ref"`
	Budget               int64     `db:"budget"`
	IsActive             bool      `db:"is_active"`
	IsRegistrationClosed bool      `db:"is_registration_closed"`
	IsParsing            bool      `db:"is_parsing"`
	StartGameID          int64     `db:"start_game_id"`
	CreatedAt            time.Time `db:"created_at"`
	UpdatedAt            time.Time `db:"updated_at"`
}

type tournamentInsertModel struct {
	Name                 string `db:"name"`
	ExternalRef          string `db:"external_ref"`
	Budget               int64  `db:"budget"`
	IsActive             bool   `db:"is_active"`
	IsRegistrationClosed bool   `db:"is_registration_closed"`
	IsParsing            bool   `db:"is_parsing"`
	StartGameID          int64  `db:"start_game_id"`
}

type basketTableModel struct {
	ID           int64  `db:"id"`
	TournamentID int64  `db:"tournament_id"`
	Name         string `db:"name"`
	SortOrder    int    `db:"sort_order"`
	AllowedPicks int    `db:"allowed_picks"`
}

type basketInsertModel struct {
	TournamentID int64  `db:"tournament_id"`
	Name         string `db:"name"`
	SortOrder    int    `db:"sort_order"`
	AllowedPicks int    `db:"allowed_picks"`
}
