package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/vaerl/trophy-be/internal/domain/scoring"
)

// Store hands out repositories on the pool and runs units of work in one
// database transaction.
type Store struct {
	db *sqlx.DB
}

func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Teams() *TeamRepository {
	return NewTeamRepository(s.db)
}

func (s *Store) Games() *GameRepository {
	return NewGameRepository(s.db)
}

func (s *Store) Outcomes() *OutcomeRepository {
	return NewOutcomeRepository(s.db)
}

func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, repos scoring.Repositories) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	repos := scoring.Repositories{
		Teams:    NewTeamRepository(tx),
		Games:    NewGameRepository(tx),
		Outcomes: NewOutcomeRepository(tx),
	}
	if err := fn(ctx, repos); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
