package postgres

import (
	"database/sql"
	"time"
)

type outcomeTableModel struct {
	GameID     string         `db:"game_public_id"`
	TeamID     string         `db:"team_public_id"`
	Data       sql.NullString `db:"data"`
	PointValue sql.NullInt32  `db:"point_value"`
	CreatedAt  time.Time      `db:"created_at"`
	UpdatedAt  time.Time      `db:"updated_at"`
}

type outcomeCountsModel struct {
	Total        int `db:"total"`
	Pending      int `db:"pending"`
	Scored       int `db:"scored"`
	PendingGames int `db:"pending_games"`
	PendingTeams int `db:"pending_teams"`
}
