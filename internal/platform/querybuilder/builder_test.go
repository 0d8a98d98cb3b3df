package querybuilder

import "testing"

func TestSelectBuilder(t *testing.T) {
	query, args, err := Select("id", "name").
		From("players").
		Where(Eq("basket_id", int64(7)), Expr("cost >= ?", int64(0))).
		OrderBy("cost DESC", "id").
		Limit(10).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT id, name FROM players WHERE basket_id = $1 AND cost >= $2 ORDER BY cost DESC, id LIMIT 10"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != int64(7) {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestSelectBuilder_InIDsAndExpr(t *testing.T) {
	query, args, err := Select("p.id").
		From("players p JOIN baskets b ON b.id = p.basket_id").
		Where(Expr("b.tournament_id = ?", int64(3)), InIDs("p.id", []int64{10, 11})).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT p.id FROM players p JOIN baskets b ON b.id = p.basket_id WHERE b.tournament_id = $1 AND p.id IN ($2, $3)"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 3 || args[2] != int64(11) {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestSelectBuilder_EmptyInMatchesNothing(t *testing.T) {
	query, args, err := Select("id").From("players").Where(InIDs("id", nil)).ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}
	if query != "SELECT id FROM players WHERE 1=0" || len(args) != 0 {
		t.Fatalf("unexpected query %q args %+v", query, args)
	}
}

func TestInsertBuilder(t *testing.T) {
	query, args, err := InsertInto("selections").
		Columns("user_id", "player_id").
		Values("u1", int64(1)).
		Values("u1", int64(2)).
		Suffix("ON CONFLICT DO NOTHING").
		ToSQL()
	if err != nil {
		t.Fatalf("build insert query: %v", err)
	}

	wantQuery := "INSERT INTO selections (user_id, player_id) VALUES ($1, $2), ($3, $4) ON CONFLICT DO NOTHING"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 4 || args[0] != "u1" || args[3] != int64(2) {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestUpdateBuilder(t *testing.T) {
	query, args, err := Update("tournaments").
		Set("budget", int64(3350)).
		SetExpr("updated_at", "NOW()").
		Where(Eq("id", int64(1))).
		ToSQL()
	if err != nil {
		t.Fatalf("build update query: %v", err)
	}

	wantQuery := "UPDATE tournaments SET budget = $1, updated_at = NOW() WHERE id = $2"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != int64(3350) || args[1] != int64(1) {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestDeleteBuilder(t *testing.T) {
	query, args, err := DeleteFrom("selections").
		Where(Eq("user_id", "u1"), InIDs("player_id", []int64{4, 5})).
		ToSQL()
	if err != nil {
		t.Fatalf("build delete query: %v", err)
	}

	wantQuery := "DELETE FROM selections WHERE user_id = $1 AND player_id IN ($2, $3)"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 3 {
		t.Fatalf("unexpected args: %+v", args)
	}

	if _, _, err := DeleteFrom("selections").ToSQL(); err == nil {
		t.Fatalf("expected error for unfiltered delete")
	}
}

func TestInsertModel(t *testing.T) {
	type row struct {
		UserID   string `db:"user_id"`
		PlayerID int64  `db:"player_id"`
		Ignored  string `db:"-"`
	}

	query, args, err := InsertModel("selections", row{UserID: "u1", PlayerID: 9}, "")
	if err != nil {
		t.Fatalf("build insert model query: %v", err)
	}
	if query != "INSERT INTO selections (user_id, player_id) VALUES ($1, $2)" {
		t.Fatalf("unexpected query: %s", query)
	}
	if len(args) != 2 || args[1] != int64(9) {
		t.Fatalf("unexpected args: %+v", args)
	}
}
