package postgres

import (
	"context"
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"

	"github.com/vaerl/trophy-be/internal/domain/outcome"
	"github.com/vaerl/trophy-be/internal/domain/scoring"
	qb "github.com/vaerl/trophy-be/internal/platform/querybuilder"
)

const ensureOutcomesQuery = `INSERT INTO game_team (game_public_id, team_public_id)
SELECT games.public_id, teams.public_id
FROM games
CROSS JOIN teams
WHERE games.year = $1 AND teams.year = $1
ON CONFLICT (game_public_id, team_public_id) DO NOTHING`

type OutcomeRepository struct {
	db sqlx.ExtContext
}

func NewOutcomeRepository(db sqlx.ExtContext) *OutcomeRepository {
	return &OutcomeRepository{db: db}
}

func (r *OutcomeRepository) ListByGame(ctx context.Context, gameID string) ([]outcome.Outcome, error) {
	query, args, err := qb.Select("*").From("game_team").
		Where(qb.Eq("game_public_id", gameID)).
		OrderBy("team_public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select outcomes by game query: %w", err)
	}

	var rows []outcomeTableModel
	if err := sqlx.SelectContext(ctx, r.db, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select outcomes by game: %w", err)
	}

	out := make([]outcome.Outcome, 0, len(rows))
	for _, row := range rows {
		out = append(out, outcomeFromRow(row))
	}
	return out, nil
}

func (r *OutcomeRepository) Get(ctx context.Context, gameID, teamID string) (outcome.Outcome, bool, error) {
	query, args, err := qb.Select("*").From("game_team").
		Where(
			qb.Eq("game_public_id", gameID),
			qb.Eq("team_public_id", teamID),
		).
		ToSQL()
	if err != nil {
		return outcome.Outcome{}, false, fmt.Errorf("build get outcome query: %w", err)
	}

	var row outcomeTableModel
	if err := sqlx.GetContext(ctx, r.db, &row, query, args...); err != nil {
		if isNotFound(err) {
			return outcome.Outcome{}, false, nil
		}
		return outcome.Outcome{}, false, fmt.Errorf("get outcome: %w", err)
	}
	return outcomeFromRow(row), true, nil
}

func (r *OutcomeRepository) EnsureForYear(ctx context.Context, year int) (int, error) {
	result, err := r.db.ExecContext(ctx, ensureOutcomesQuery, year)
	if err != nil {
		return 0, fmt.Errorf("ensure outcomes for year: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected ensure outcomes: %w", err)
	}
	return int(affected), nil
}

func (r *OutcomeRepository) SetData(ctx context.Context, gameID, teamID string, data *string) error {
	query, args, err := qb.Update("game_team").
		Set("data", ptrToNullString(data)).
		SetExpr("updated_at", "NOW()").
		Where(
			qb.Eq("game_public_id", gameID),
			qb.Eq("team_public_id", teamID),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update outcome data query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update outcome data: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected update outcome data: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("update outcome data: outcome game=%s team=%s not found", gameID, teamID)
	}
	return nil
}

// SetPointValue only writes outcomes without a point value, so a concurrent
// evaluation from another process fails with scoring.ErrAlreadyEvaluated.
func (r *OutcomeRepository) SetPointValue(ctx context.Context, gameID, teamID string, pointValue int) error {
	query, args, err := qb.Update("game_team").
		Set("point_value", pointValue).
		SetExpr("updated_at", "NOW()").
		Where(
			qb.Eq("game_public_id", gameID),
			qb.Eq("team_public_id", teamID),
			qb.IsNull("point_value"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update outcome point value query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update outcome point value: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected update outcome point value: %w", err)
	}
	if affected > 0 {
		return nil
	}

	_, exists, err := r.Get(ctx, gameID, teamID)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("update outcome point value: outcome game=%s team=%s not found", gameID, teamID)
	}
	return errors.Wrapf(scoring.ErrAlreadyEvaluated, "outcome game=%s team=%s", gameID, teamID)
}

func (r *OutcomeRepository) CountByYear(ctx context.Context, year int) (outcome.Counts, error) {
	query, args, err := qb.Select(
		"COUNT(*) AS total",
		"COUNT(*) FILTER (WHERE game_team.data IS NULL) AS pending",
		"COUNT(*) FILTER (WHERE game_team.point_value IS NOT NULL) AS scored",
		"COUNT(DISTINCT game_team.game_public_id) FILTER (WHERE game_team.data IS NULL) AS pending_games",
		"COUNT(DISTINCT game_team.team_public_id) FILTER (WHERE game_team.data IS NULL) AS pending_teams",
	).
		From("game_team").
		Join("INNER JOIN games ON games.public_id = game_team.game_public_id").
		Where(qb.Eq("games.year", year)).
		ToSQL()
	if err != nil {
		return outcome.Counts{}, fmt.Errorf("build count outcomes by year query: %w", err)
	}

	var row outcomeCountsModel
	if err := sqlx.GetContext(ctx, r.db, &row, query, args...); err != nil {
		return outcome.Counts{}, fmt.Errorf("count outcomes by year: %w", err)
	}
	return outcome.Counts{
		Total:        row.Total,
		Pending:      row.Pending,
		Scored:       row.Scored,
		PendingGames: row.PendingGames,
		PendingTeams: row.PendingTeams,
	}, nil
}

func outcomeFromRow(row outcomeTableModel) outcome.Outcome {
	return outcome.Outcome{
		GameID:     row.GameID,
		TeamID:     row.TeamID,
		Data:       nullStringToPtr(row.Data),
		PointValue: nullInt32ToIntPtr(row.PointValue),
	}
}
