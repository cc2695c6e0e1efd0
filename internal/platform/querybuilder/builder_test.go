package querybuilder

import "testing"

func TestSelectBuilder_WithJoin(t *testing.T) {
	query, args, err := Select("COUNT(DISTINCT game_team.game_public_id)").
		From("game_team").
		Join("INNER JOIN games ON games.public_id = game_team.game_public_id").
		Where(Eq("games.year", 2024), IsNull("game_team.data")).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT COUNT(DISTINCT game_team.game_public_id) FROM game_team " +
		"INNER JOIN games ON games.public_id = game_team.game_public_id " +
		"WHERE games.year = $1 AND game_team.data IS NULL"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 1 || args[0] != 2024 {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestSelectBuilder_ExprAndOrder(t *testing.T) {
	query, args, err := Select("*").
		From("teams").
		Where(Expr("year = ? AND gender = ?", 2024, "female"), IsNull("deleted_at")).
		OrderBy("points DESC", "name").
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT * FROM teams WHERE year = $1 AND gender = $2 AND deleted_at IS NULL ORDER BY points DESC, name"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != 2024 || args[1] != "female" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertBuilder_MultipleRows(t *testing.T) {
	query, args, err := InsertInto("game_team").
		Columns("game_public_id", "team_public_id").
		Values("g1", "t1").
		Values("g1", "t2").
		Suffix("ON CONFLICT DO NOTHING").
		ToSQL()
	if err != nil {
		t.Fatalf("build insert query: %v", err)
	}

	wantQuery := "INSERT INTO game_team (game_public_id, team_public_id) VALUES ($1, $2), ($3, $4) ON CONFLICT DO NOTHING"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 4 || args[3] != "t2" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertBuilder_RowWidthMismatch(t *testing.T) {
	_, _, err := InsertInto("teams").Columns("a", "b").Values(1).ToSQL()
	if err == nil {
		t.Fatalf("expected error for mismatched row width")
	}
}

func TestUpdateBuilder(t *testing.T) {
	query, args, err := Update("teams").
		Set("points", 97).
		SetExpr("updated_at", "NOW()").
		Where(Eq("public_id", "t1"), IsNull("deleted_at")).
		ToSQL()
	if err != nil {
		t.Fatalf("build update query: %v", err)
	}

	wantQuery := "UPDATE teams SET points = $1, updated_at = NOW() WHERE public_id = $2 AND deleted_at IS NULL"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != 97 || args[1] != "t1" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestUpdateBuilder_RequiresWhere(t *testing.T) {
	if _, _, err := Update("teams").Set("points", 0).ToSQL(); err == nil {
		t.Fatalf("expected error for update without where clause")
	}
}
