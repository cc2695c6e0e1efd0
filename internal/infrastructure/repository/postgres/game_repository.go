package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/vaerl/trophy-be/internal/domain/game"
	qb "github.com/vaerl/trophy-be/internal/platform/querybuilder"
)

type GameRepository struct {
	db sqlx.ExtContext
}

func NewGameRepository(db sqlx.ExtContext) *GameRepository {
	return &GameRepository{db: db}
}

func (r *GameRepository) ListByYear(ctx context.Context, year int) ([]game.Game, error) {
	query, args, err := qb.Select("*").From("games").
		Where(qb.Eq("year", year)).
		OrderBy("public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select games by year query: %w", err)
	}

	var rows []gameTableModel
	if err := sqlx.SelectContext(ctx, r.db, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select games by year: %w", err)
	}

	out := make([]game.Game, 0, len(rows))
	for _, row := range rows {
		out = append(out, gameFromRow(row))
	}
	return out, nil
}

func (r *GameRepository) GetByID(ctx context.Context, id string) (game.Game, bool, error) {
	query, args, err := qb.Select("*").From("games").
		Where(qb.Eq("public_id", id)).
		ToSQL()
	if err != nil {
		return game.Game{}, false, fmt.Errorf("build get game query: %w", err)
	}

	var row gameTableModel
	if err := sqlx.GetContext(ctx, r.db, &row, query, args...); err != nil {
		if isNotFound(err) {
			return game.Game{}, false, nil
		}
		return game.Game{}, false, fmt.Errorf("get game: %w", err)
	}
	return gameFromRow(row), true, nil
}

func (r *GameRepository) Create(ctx context.Context, item game.Game) error {
	if err := item.Validate(); err != nil {
		return fmt.Errorf("validate game: %w", err)
	}

	query, args, err := qb.InsertModel("games", gameInsertModel{
		PublicID: item.ID,
		TrophyID: item.TrophyID,
		Name:     item.Name,
		Kind:     string(item.Kind),
		Year:     item.Year,
	}, "")
	if err != nil {
		return fmt.Errorf("build create game query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("game %s already exists: %w", item.ID, err)
		}
		return fmt.Errorf("create game: %w", err)
	}
	return nil
}

func gameFromRow(row gameTableModel) game.Game {
	return game.Game{
		ID:       row.PublicID,
		TrophyID: row.TrophyID,
		Name:     row.Name,
		Kind:     game.Kind(row.Kind),
		Year:     row.Year,
	}
}
