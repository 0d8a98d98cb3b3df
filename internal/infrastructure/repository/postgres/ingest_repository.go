package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/fantasy-draft/internal/domain/ingest"
	"github.com/riskibarqy/fantasy-draft/internal/domain/user"
	qb "github.com/riskibarqy/fantasy-draft/internal/platform/querybuilder"
)

// IngestRepository stores collector output. Every run uses its own transaction per unit.
type IngestRepository struct {
	db     *sqlx.DB
	reader readDB
}

func NewIngestRepository(db *sqlx.DB) *IngestRepository {
	return &IngestRepository{db: db, reader: readDB{DB: db}}
}

func (r *IngestRepository) UpsertRatings(ctx context.Context, ratings []ingest.Rating) (int, error) {
	if len(ratings) == 0 {
		return 0, nil
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx upsert ratings: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, rating := range ratings {
		query, args, err := qb.InsertModel("external_ratings", ratingTableModel{
			Rank:        rating.Rank,
			PlayerName:  rating.PlayerName,
			Rating:      rating.Rating,
			GamesPlayed: rating.GamesPlayed,
			Wins:        rating.Wins,
			WinRate:     rating.WinRate,
		}, `ON CONFLICT (rank)
DO UPDATE SET
    player_name = EXCLUDED.player_name,
    rating = EXCLUDED.rating,
    games_played = EXCLUDED.games_played,
    wins = EXCLUDED.wins,
    win_rate = EXCLUDED.win_rate,
    updated_at = NOW()`)
		if err != nil {
			return 0, fmt.Errorf("build upsert rating query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return 0, fmt.Errorf("upsert rating rank=%d: %w", rating.Rank, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit upsert ratings tx: %w", err)
	}
	return len(ratings), nil
}

func (r *IngestRepository) ListRatings(ctx context.Context, limit int) ([]ingest.Rating, error) {
	query, args, err := qb.Select("rank", "player_name", "rating", "games_played", "wins", "win_rate").
		From("external_ratings").
		OrderBy("rank").
		Limit(limit).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select ratings query: %w", err)
	}

	var rows []ratingTableModel
	if err := r.reader.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select ratings: %w", err)
	}
	out := make([]ingest.Rating, 0, len(rows))
	for _, row := range rows {
		out = append(out, ingest.Rating{
			Rank:        row.Rank,
			PlayerName:  row.PlayerName,
			Rating:      row.Rating,
			GamesPlayed: row.GamesPlayed,
			Wins:        row.Wins,
			WinRate:     row.WinRate,
		})
	}
	return out, nil
}

func (r *IngestRepository) ExistingGameIDs(ctx context.Context, ids []int64) (map[int64]struct{}, error) {
	if len(ids) == 0 {
		return map[int64]struct{}{}, nil
	}
	query, args, err := qb.Select("id").From("games").
		Where(qb.InIDs("id", ids)).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select game ids query: %w", err)
	}

	var found []int64
	if err := r.reader.SelectContext(ctx, &found, query, args...); err != nil {
		return nil, fmt.Errorf("select game ids: %w", err)
	}
	out := make(map[int64]struct{}, len(found))
	for _, id := range found {
		out[id] = struct{}{}
	}
	return out, nil
}

func (r *IngestRepository) InsertGame(ctx context.Context, game ingest.Game) (bool, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin tx insert game: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query, args, err := qb.InsertModel("games", gameInsertModel{
		ID:           game.ID,
		TournamentID: game.TournamentID,
		GameNumber:   game.GameNumber,
		WinnerTeam:   game.WinnerTeam,
	}, "ON CONFLICT (id) DO NOTHING")
	if err != nil {
		return false, fmt.Errorf("build insert game query: %w", err)
	}
	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("insert game %d: %w", game.ID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("insert game rows affected: %w", err)
	}
	if affected == 0 {
		return false, nil
	}

	for _, stat := range game.Stats {
		query, args, err := qb.InsertModel("game_player_stats", gameStatInsertModel{
			GameID:     game.ID,
			PlayerName: stat.PlayerName,
			Role:       stat.Role,
			Points:     stat.Points,
			Fouls:      stat.Fouls,
		}, "")
		if err != nil {
			return false, fmt.Errorf("build insert game stat query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return false, fmt.Errorf("insert game %d stat %q: %w", game.ID, stat.PlayerName, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit insert game tx: %w", err)
	}
	return true, nil
}

func (r *IngestRepository) PointsByPlayerName(ctx context.Context, tournamentID int64) (map[string]float64, error) {
	query, args, err := qb.Select("s.player_name", "SUM(s.points) AS points").
		From("game_player_stats s JOIN games g ON g.id = s.game_id").
		Where(qb.Eq("g.tournament_id", tournamentID)).
		GroupBy("s.player_name").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build sum player points query: %w", err)
	}

	var rows []playerPointsRow
	if err := r.reader.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("sum player points: %w", err)
	}
	out := make(map[string]float64, len(rows))
	for _, row := range rows {
		out[row.PlayerName] = row.Points
	}
	return out, nil
}

type ProfileRepository struct {
	db     *sqlx.DB
	reader readDB
}

func NewProfileRepository(db *sqlx.DB) *ProfileRepository {
	return &ProfileRepository{db: db, reader: readDB{DB: db}}
}

func (r *ProfileRepository) GetByID(ctx context.Context, userID string) (user.Profile, bool, error) {
	query, args, err := qb.Select("id", "username", "is_admin").From("profiles").
		Where(qb.Eq("id", userID)).
		Limit(1).
		ToSQL()
	if err != nil {
		return user.Profile{}, false, fmt.Errorf("build select profile query: %w", err)
	}

	var row profileTableModel
	if err := r.reader.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return user.Profile{}, false, nil
		}
		return user.Profile{}, false, fmt.Errorf("select profile: %w", err)
	}
	return user.Profile{ID: row.ID, Username: row.Username, IsAdmin: row.IsAdmin}, true, nil
}

func (r *ProfileRepository) Upsert(ctx context.Context, p user.Profile) error {
	query, args, err := qb.InsertModel("profiles", profileTableModel{
		ID:       p.ID,
		Username: p.Username,
		IsAdmin:  p.IsAdmin,
	}, `ON CONFLICT (id) DO UPDATE SET username = EXCLUDED.username, is_admin = EXCLUDED.is_admin`)
	if err != nil {
		return fmt.Errorf("build upsert profile query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}
	return nil
}
