package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/fantasy-draft/internal/domain/tournament"
	qb "github.com/riskibarqy/fantasy-draft/internal/platform/querybuilder"
)

type TournamentRepository struct {
	db dbtx
}

var tournamentSelectColumns = []string{
	"id",
	"name",
	"external_ref",
	"budget",
	"is_active",
	"is_registration_closed",
	"is_parsing",
	"start_game_id",
	"created_at",
	"updated_at",
}

var basketSelectColumns = []string{
	"id",
	"tournament_id",
	"name",
	"sort_order",
	"allowed_picks",
}

func NewTournamentRepository(db *sqlx.DB) *TournamentRepository {
	return &TournamentRepository{db: readDB{DB: db}}
}

func (r *TournamentRepository) GetByID(ctx context.Context, id int64) (tournament.Tournament, bool, error) {
	query, args, err := qb.Select(tournamentSelectColumns...).From("tournaments").
		Where(qb.Eq("id", id)).
		Limit(1).
		ToSQL()
	if err != nil {
		return tournament.Tournament{}, false, fmt.Errorf("build select tournament by id query: %w", err)
	}

	var row tournamentTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return tournament.Tournament{}, false, nil
		}
		return tournament.Tournament{}, false, fmt.Errorf("select tournament by id: %w", err)
	}

	items, err := r.withBaskets(ctx, []tournamentTableModel{row})
	if err != nil {
		return tournament.Tournament{}, false, err
	}
	return items[0], true, nil
}

func (r *TournamentRepository) GetActive(ctx context.Context) (tournament.Tournament, bool, error) {
	query, args, err := qb.Select(tournamentSelectColumns...).From("tournaments").
		Where(qb.Eq("is_active", true)).
		OrderBy("id DESC").
		Limit(1).
		ToSQL()
	if err != nil {
		return tournament.Tournament{}, false, fmt.Errorf("build select active tournament query: %w", err)
	}

	var row tournamentTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return tournament.Tournament{}, false, nil
		}
		return tournament.Tournament{}, false, fmt.Errorf("select active tournament: %w", err)
	}

	items, err := r.withBaskets(ctx, []tournamentTableModel{row})
	if err != nil {
		return tournament.Tournament{}, false, err
	}
	return items[0], true, nil
}

func (r *TournamentRepository) List(ctx context.Context) ([]tournament.Tournament, error) {
	query, args, err := qb.Select(tournamentSelectColumns...).From("tournaments").
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select tournaments query: %w", err)
	}

	var rows []tournamentTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select tournaments: %w", err)
	}
	return r.withBaskets(ctx, rows)
}

func (r *TournamentRepository) Create(ctx context.Context, t tournament.Tournament) (tournament.Tournament, error) {
	query, args, err := qb.InsertModel("tournaments", tournamentInsertModel{
		Name:                 t.Name,
		ExternalRef:          t.ExternalRef,
		Budget:               t.Budget,
		IsActive:             t.IsActive,
		IsRegistrationClosed: t.IsRegistrationClosed,
		IsParsing:            t.IsParsing,
		StartGameID:          t.StartGameID,
	}, "RETURNING "+joinColumns(tournamentSelectColumns))
	if err != nil {
		return tournament.Tournament{}, fmt.Errorf("build insert tournament query: %w", err)
	}

	var row tournamentTableModel
	if err := sqlx.GetContext(ctx, r.db, &row, query, args...); err != nil {
		return tournament.Tournament{}, fmt.Errorf("insert tournament: %w", err)
	}

	out := toTournament(row)
	for _, b := range t.Baskets {
		query, args, err := qb.InsertModel("baskets", basketInsertModel{
			TournamentID: row.ID,
			Name:         b.Name,
			SortOrder:    b.SortOrder,
			AllowedPicks: b.AllowedPicks,
		}, "RETURNING "+joinColumns(basketSelectColumns))
		if err != nil {
			return tournament.Tournament{}, fmt.Errorf("build insert basket query: %w", err)
		}
		var basketRow basketTableModel
		if err := sqlx.GetContext(ctx, r.db, &basketRow, query, args...); err != nil {
			return tournament.Tournament{}, fmt.Errorf("insert basket %d: %w", b.SortOrder, err)
		}
		out.Baskets = append(out.Baskets, toBasket(basketRow))
	}
	return out, nil
}

func (r *TournamentRepository) Update(ctx context.Context, t tournament.Tournament) error {
	query, args, err := qb.Update("tournaments").
		Set("name", t.Name).
		Set("external_ref", t.ExternalRef).
		Set("is_active", t.IsActive).
		Set("is_registration_closed", t.IsRegistrationClosed).
		Set("is_parsing", t.IsParsing).
		Set("start_game_id", t.StartGameID).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("id", t.ID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update tournament query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update tournament: %w", err)
	}
	return nil
}

func (r *TournamentRepository) DeactivateOthers(ctx context.Context, keepID int64) error {
	query, args, err := qb.Update("tournaments").
		Set("is_active", false).
		SetExpr("updated_at", "NOW()").
		Where(
			qb.Expr("id <> ?", keepID),
			qb.Eq("is_active", true),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build deactivate tournaments query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("deactivate tournaments: %w", err)
	}
	return nil
}

func (r *TournamentRepository) UpdateBudget(ctx context.Context, id int64, budget int64) error {
	query, args, err := qb.Update("tournaments").
		Set("budget", budget).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("id", id)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update tournament budget query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update tournament budget: %w", err)
	}
	return nil
}

func (r *TournamentRepository) withBaskets(ctx context.Context, rows []tournamentTableModel) ([]tournament.Tournament, error) {
	if len(rows) == 0 {
		return []tournament.Tournament{}, nil
	}
	ids := make([]int64, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}

	query, args, err := qb.Select(basketSelectColumns...).From("baskets").
		Where(qb.InIDs("tournament_id", ids)).
		OrderBy("tournament_id", "sort_order").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select baskets query: %w", err)
	}

	var baskets []basketTableModel
	if err := r.db.SelectContext(ctx, &baskets, query, args...); err != nil {
		return nil, fmt.Errorf("select baskets: %w", err)
	}
	byTournament := make(map[int64][]tournament.Basket, len(rows))
	for _, b := range baskets {
		byTournament[b.TournamentID] = append(byTournament[b.TournamentID], toBasket(b))
	}

	out := make([]tournament.Tournament, 0, len(rows))
	for _, row := range rows {
		t := toTournament(row)
		t.Baskets = byTournament[row.ID]
		out = append(out, t)
	}
	return out, nil
}

func toTournament(row tournamentTableModel) tournament.Tournament {
	return tournament.Tournament{
		ID:                   row.ID,
		Name:                 row.Name,
		ExternalRef:          row.ExternalRef,
		Budget:               row.Budget,
		IsActive:             row.IsActive,
		IsRegistrationClosed: row.IsRegistrationClosed,
		IsParsing:            row.IsParsing,
		StartGameID:          row.StartGameID,
		CreatedAt:            row.CreatedAt,
		UpdatedAt:            row.UpdatedAt,
	}
}

func toBasket(row basketTableModel) tournament.Basket {
	return tournament.Basket{
		ID:           row.ID,
		TournamentID: row.TournamentID,
		Name:         row.Name,
		SortOrder:    row.SortOrder,
		AllowedPicks: row.AllowedPicks,
	}
}
