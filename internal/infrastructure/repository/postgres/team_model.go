package postgres

import "time"

type teamTableModel struct {
	ID        int64     `db:"id"`
	PublicID  string    `db:"public_id"`
	TrophyID  int       `db:"trophy_id"`
	Name      string    `db:"name"`
	Gender    string    `db:"gender"`
	Points    int       `db:"points"`
	Year      int       `db:"year"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

type teamInsertModel struct {
	PublicID string `db:"public_id"`
	TrophyID int    `db:"trophy_id"`
	Name     string `db:"name"`
	Gender   string `db:"gender"`
	Points   int    `db:"points"`
	Year     int    `db:"year"`
}
