package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/fantasy-draft/internal/domain/player"
	qb "github.com/riskibarqy/fantasy-draft/internal/platform/querybuilder"
)

type PlayerRepository struct {
	db dbtx
}

const playersInTournament = "players p JOIN baskets b ON b.id = p.basket_id"

var playerSelectColumns = []string{
	"p.id",
	"p.basket_id",
	"p.name",
	"p.rank",
	"p.cost",
	"p.points",
	"p.created_at",
}

func NewPlayerRepository(db *sqlx.DB) *PlayerRepository {
	return &PlayerRepository{db: readDB{DB: db}}
}

func (r *PlayerRepository) GetByIDs(ctx context.Context, tournamentID int64, ids []int64) ([]player.Player, error) {
	if len(ids) == 0 {
		return []player.Player{}, nil
	}

	query, args, err := qb.Select(playerSelectColumns...).From(playersInTournament).
		Where(
			qb.Eq("b.tournament_id", tournamentID),
			qb.InIDs("p.id", ids),
		).
		OrderBy("p.id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select players by ids query: %w", err)
	}

	var rows []playerTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select players by ids: %w", err)
	}
	return toPlayers(rows), nil
}

func (r *PlayerRepository) ListByTournament(ctx context.Context, tournamentID int64) ([]player.Player, error) {
	query, args, err := qb.Select(playerSelectColumns...).From(playersInTournament).
		Where(qb.Eq("b.tournament_id", tournamentID)).
		OrderBy("b.sort_order", "p.cost DESC", "p.id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select players by tournament query: %w", err)
	}

	var rows []playerTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select players by tournament: %w", err)
	}
	return toPlayers(rows), nil
}

// ReplaceRoster relies on ON DELETE CASCADE to drop selections of removed players.
func (r *PlayerRepository) ReplaceRoster(ctx context.Context, tournamentID int64, players []player.Player) ([]player.Player, error) {
	query, args, err := qb.DeleteFrom("players").
		Where(qb.Expr("basket_id IN (SELECT id FROM baskets WHERE tournament_id = ?)", tournamentID)).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build delete roster query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("delete roster: %w", err)
	}

	out := make([]player.Player, 0, len(players))
	for _, p := range players {
		inserted, err := r.Insert(ctx, p)
		if err != nil {
			return nil, err
		}
		out = append(out, inserted)
	}
	return out, nil
}

func (r *PlayerRepository) Insert(ctx context.Context, p player.Player) (player.Player, error) {
	query, args, err := qb.InsertModel("players", playerInsertModel{
		BasketID: p.BasketID,
		Name:     p.Name,
		Rank:     p.Rank,
		Cost:     p.Cost,
		Points:   p.Points,
	}, "RETURNING id, basket_id, name, rank, cost, points, created_at")
	if err != nil {
		return player.Player{}, fmt.Errorf("build insert player query: %w", err)
	}

	var row playerTableModel
	if err := sqlx.GetContext(ctx, r.db, &row, query, args...); err != nil {
		return player.Player{}, fmt.Errorf("insert player %q: %w", p.Name, err)
	}
	return toPlayer(row), nil
}

func (r *PlayerRepository) Delete(ctx context.Context, tournamentID, playerID int64) (bool, error) {
	query, args, err := qb.DeleteFrom("players").
		Where(
			qb.Eq("id", playerID),
			qb.Expr("basket_id IN (SELECT id FROM baskets WHERE tournament_id = ?)", tournamentID),
		).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build delete player query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("delete player: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete player rows affected: %w", err)
	}
	return affected > 0, nil
}

func (r *PlayerRepository) UpdatePoints(ctx context.Context, tournamentID int64, pointsByName map[string]int64) (int, error) {
	touched := 0
	for name, points := range pointsByName {
		query, args, err := qb.Update("players").
			Set("points", points).
			Where(
				qb.Eq("name", name),
				qb.Expr("points <> ?", points),
				qb.Expr("basket_id IN (SELECT id FROM baskets WHERE tournament_id = ?)", tournamentID),
			).
			ToSQL()
		if err != nil {
			return touched, fmt.Errorf("build update player points query: %w", err)
		}
		res, err := r.db.ExecContext(ctx, query, args...)
		if err != nil {
			return touched, fmt.Errorf("update points for %q: %w", name, err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return touched, fmt.Errorf("update points rows affected: %w", err)
		}
		touched += int(affected)
	}
	return touched, nil
}

func toPlayers(rows []playerTableModel) []player.Player {
	out := make([]player.Player, 0, len(rows))
	for _, row := range rows {
		out = append(out, toPlayer(row))
	}
	return out
}

func toPlayer(row playerTableModel) player.Player {
	return player.Player{
		ID:       row.ID,
		BasketID: row.BasketID,
		Name:     row.Name,
		Rank:     row.Rank,
		Cost:     row.Cost,
		Points:   row.Points,
	}
}
