package memory

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/vaerl/trophy-be/internal/domain/game"
)

type GameRepository struct {
	store *Store
	tx    *dataset
}

func (r *GameRepository) ListByYear(_ context.Context, year int) ([]game.Game, error) {
	var out []game.Game
	r.store.view(r.tx, func(d *dataset) {
		for _, item := range d.games {
			if item.Year == year {
				out = append(out, item)
			}
		}
	})

	slices.SortFunc(out, func(a, b game.Game) int {
		return strings.Compare(a.ID, b.ID)
	})
	return out, nil
}

func (r *GameRepository) GetByID(_ context.Context, id string) (game.Game, bool, error) {
	var (
		item   game.Game
		exists bool
	)
	r.store.view(r.tx, func(d *dataset) {
		item, exists = d.games[id]
	})
	return item, exists, nil
}

func (r *GameRepository) Create(_ context.Context, item game.Game) error {
	if err := item.Validate(); err != nil {
		return fmt.Errorf("validate game: %w", err)
	}
	return r.store.update(r.tx, func(d *dataset) error {
		if _, exists := d.games[item.ID]; exists {
			return fmt.Errorf("game %s already exists", item.ID)
		}
		d.games[item.ID] = item
		return nil
	})
}
