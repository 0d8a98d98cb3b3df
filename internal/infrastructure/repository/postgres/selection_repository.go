package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/fantasy-draft/internal/domain/draft"
	"github.com/riskibarqy/fantasy-draft/internal/domain/selection"
	qb "github.com/riskibarqy/fantasy-draft/internal/platform/querybuilder"
)

type SelectionRepository struct {
	db dbtx
}

const picksJoin = "selections s JOIN players p ON p.id = s.player_id JOIN baskets b ON b.id = p.basket_id"

var pickSelectColumns = []string{
	"s.user_id",
	"b.tournament_id",
	"p.id AS player_id",
	"p.name AS player_name",
	"p.cost",
	"p.points",
	"b.id AS basket_id",
	"b.sort_order AS basket_sort_order",
}

func NewSelectionRepository(db *sqlx.DB) *SelectionRepository {
	return &SelectionRepository{db: readDB{DB: db}}
}

func (r *SelectionRepository) ListByUser(ctx context.Context, userID string, tournamentID int64) ([]selection.PickWithPlayerAndBasket, error) {
	return r.list(ctx, qb.Eq("b.tournament_id", tournamentID), qb.Eq("s.user_id", userID))
}

func (r *SelectionRepository) ListByTournament(ctx context.Context, tournamentID int64) ([]selection.PickWithPlayerAndBasket, error) {
	return r.list(ctx, qb.Eq("b.tournament_id", tournamentID))
}

func (r *SelectionRepository) list(ctx context.Context, where ...qb.Condition) ([]selection.PickWithPlayerAndBasket, error) {
	query, args, err := qb.Select(pickSelectColumns...).From(picksJoin).
		Where(where...).
		OrderBy("s.user_id", "b.sort_order", "p.id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select picks query: %w", err)
	}

	var rows []pickTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select picks: %w", err)
	}

	out := make([]selection.PickWithPlayerAndBasket, 0, len(rows))
	for _, row := range rows {
		out = append(out, selection.PickWithPlayerAndBasket{
			UserID:          row.UserID,
			TournamentID:    row.TournamentID,
			PlayerID:        row.PlayerID,
			PlayerName:      row.PlayerName,
			Cost:            row.Cost,
			Points:          row.Points,
			BasketID:        row.BasketID,
			BasketSortOrder: row.BasketSortOrder,
		})
	}
	return out, nil
}

func (r *SelectionRepository) DeleteSelections(ctx context.Context, userID string, playerIDs []int64) error {
	if len(playerIDs) == 0 {
		return nil
	}
	query, args, err := qb.DeleteFrom("selections").
		Where(qb.Eq("user_id", userID), qb.InIDs("player_id", playerIDs)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete selections query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete selections: %w", err)
	}
	return nil
}

func (r *SelectionRepository) InsertSelections(ctx context.Context, rows []selection.Selection) error {
	if len(rows) == 0 {
		return nil
	}
	insert := qb.InsertInto("selections").Columns("user_id", "player_id")
	for _, row := range rows {
		insert = insert.Values(row.UserID, row.PlayerID)
	}
	query, args, err := insert.ToSQL()
	if err != nil {
		return fmt.Errorf("build insert selections query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if pqCode(err) == pqForeignKeyViolation {
			return draft.IntegrityError("selection references a missing player: %v", err)
		}
		return fmt.Errorf("insert selections: %w", err)
	}
	return nil
}
