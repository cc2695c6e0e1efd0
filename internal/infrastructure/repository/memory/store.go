package memory

import (
	"context"
	"maps"
	"sync"

	"github.com/vaerl/trophy-be/internal/domain/game"
	"github.com/vaerl/trophy-be/internal/domain/outcome"
	"github.com/vaerl/trophy-be/internal/domain/scoring"
	"github.com/vaerl/trophy-be/internal/domain/team"
)

type outcomeKey struct {
	gameID string
	teamID string
}

type dataset struct {
	teams    map[string]team.Team
	games    map[string]game.Game
	outcomes map[outcomeKey]outcome.Outcome
}

func newDataset() *dataset {
	return &dataset{
		teams:    make(map[string]team.Team),
		games:    make(map[string]game.Game),
		outcomes: make(map[outcomeKey]outcome.Outcome),
	}
}

// clone copies the maps. Outcome pointers are shared because writers always
// replace them instead of writing through them.
func (d *dataset) clone() *dataset {
	return &dataset{
		teams:    maps.Clone(d.teams),
		games:    maps.Clone(d.games),
		outcomes: maps.Clone(d.outcomes),
	}
}

// Store keeps teams, games and outcomes in process. Transactions run on a
// copy that replaces the live data only when the callback succeeds.
type Store struct {
	mu   sync.RWMutex
	data *dataset
}

func NewStore() *Store {
	return &Store{data: newDataset()}
}

func (s *Store) Teams() *TeamRepository {
	return &TeamRepository{store: s}
}

func (s *Store) Games() *GameRepository {
	return &GameRepository{store: s}
}

func (s *Store) Outcomes() *OutcomeRepository {
	return &OutcomeRepository{store: s}
}

func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, repos scoring.Repositories) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	tx := s.data.clone()
	repos := scoring.Repositories{
		Teams:    &TeamRepository{store: s, tx: tx},
		Games:    &GameRepository{store: s, tx: tx},
		Outcomes: &OutcomeRepository{store: s, tx: tx},
	}
	if err := fn(ctx, repos); err != nil {
		return err
	}

	s.data = tx
	return nil
}

// view runs fn on the transaction copy when bound to one, otherwise on the
// live data under a read lock.
func (s *Store) view(tx *dataset, fn func(d *dataset)) {
	if tx != nil {
		fn(tx)
		return
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.data)
}

func (s *Store) update(tx *dataset, fn func(d *dataset) error) error {
	if tx != nil {
		return fn(tx)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.data)
}
