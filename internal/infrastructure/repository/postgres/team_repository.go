package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/vaerl/trophy-be/internal/domain/team"
	qb "github.com/vaerl/trophy-be/internal/platform/querybuilder"
)

type TeamRepository struct {
	db sqlx.ExtContext
}

func NewTeamRepository(db sqlx.ExtContext) *TeamRepository {
	return &TeamRepository{db: db}
}

func (r *TeamRepository) ListByYear(ctx context.Context, year int) ([]team.Team, error) {
	query, args, err := qb.Select("*").From("teams").
		Where(qb.Eq("year", year)).
		OrderBy("trophy_id", "name").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select teams by year query: %w", err)
	}

	var rows []teamTableModel
	if err := sqlx.SelectContext(ctx, r.db, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select teams by year: %w", err)
	}

	out := make([]team.Team, 0, len(rows))
	for _, row := range rows {
		out = append(out, teamFromRow(row))
	}
	return out, nil
}

func (r *TeamRepository) GetByID(ctx context.Context, id string) (team.Team, bool, error) {
	query, args, err := qb.Select("*").From("teams").
		Where(qb.Eq("public_id", id)).
		ToSQL()
	if err != nil {
		return team.Team{}, false, fmt.Errorf("build get team query: %w", err)
	}

	var row teamTableModel
	if err := sqlx.GetContext(ctx, r.db, &row, query, args...); err != nil {
		if isNotFound(err) {
			return team.Team{}, false, nil
		}
		return team.Team{}, false, fmt.Errorf("get team: %w", err)
	}
	return teamFromRow(row), true, nil
}

func (r *TeamRepository) Create(ctx context.Context, item team.Team) error {
	if err := item.Validate(); err != nil {
		return fmt.Errorf("validate team: %w", err)
	}

	query, args, err := qb.InsertModel("teams", teamInsertModel{
		PublicID: item.ID,
		TrophyID: item.TrophyID,
		Name:     item.Name,
		Gender:   string(item.Gender),
		Points:   item.Points,
		Year:     item.Year,
	}, "")
	if err != nil {
		return fmt.Errorf("build create team query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("team %s already exists: %w", item.ID, err)
		}
		return fmt.Errorf("create team: %w", err)
	}
	return nil
}

func (r *TeamRepository) UpdatePoints(ctx context.Context, id string, points int) error {
	query, args, err := qb.Update("teams").
		Set("points", points).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("public_id", id)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update team points query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update team points: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected update team points: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("update team points: team %s not found", id)
	}
	return nil
}

func teamFromRow(row teamTableModel) team.Team {
	return team.Team{
		ID:       row.PublicID,
		TrophyID: row.TrophyID,
		Name:     row.Name,
		Gender:   team.Gender(row.Gender),
		Points:   row.Points,
		Year:     row.Year,
	}
}
