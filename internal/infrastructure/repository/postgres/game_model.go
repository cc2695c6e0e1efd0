package postgres

import "time"

type gameTableModel struct {
	ID        int64     `db:"id"`
	PublicID  string    `db:"public_id"`
	TrophyID  int       `db:"trophy_id"`
	Name      string    `db:"name"`
	Kind      string    `db:"kind"`
	Year      int       `db:"year"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

type gameInsertModel struct {
	PublicID string `db:"public_id"`
	TrophyID int    `db:"trophy_id"`
	Name     string `db:"name"`
	Kind     string `db:"kind"`
	Year     int    `db:"year"`
}
