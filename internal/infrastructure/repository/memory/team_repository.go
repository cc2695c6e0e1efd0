package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/vaerl/trophy-be/internal/domain/team"
)

type TeamRepository struct {
	store *Store
	tx    *dataset
}

func (r *TeamRepository) ListByYear(_ context.Context, year int) ([]team.Team, error) {
	var out []team.Team
	r.store.view(r.tx, func(d *dataset) {
		for _, item := range d.teams {
			if item.Year == year {
				out = append(out, item)
			}
		}
	})

	slices.SortFunc(out, func(a, b team.Team) int {
		if c := cmp.Compare(a.TrophyID, b.TrophyID); c != 0 {
			return c
		}
		return strings.Compare(a.Name, b.Name)
	})
	return out, nil
}

func (r *TeamRepository) GetByID(_ context.Context, id string) (team.Team, bool, error) {
	var (
		item   team.Team
		exists bool
	)
	r.store.view(r.tx, func(d *dataset) {
		item, exists = d.teams[id]
	})
	return item, exists, nil
}

func (r *TeamRepository) Create(_ context.Context, item team.Team) error {
	if err := item.Validate(); err != nil {
		return fmt.Errorf("validate team: %w", err)
	}
	return r.store.update(r.tx, func(d *dataset) error {
		if _, exists := d.teams[item.ID]; exists {
			return fmt.Errorf("team %s already exists", item.ID)
		}
		d.teams[item.ID] = item
		return nil
	})
}

func (r *TeamRepository) UpdatePoints(_ context.Context, id string, points int) error {
	return r.store.update(r.tx, func(d *dataset) error {
		item, exists := d.teams[id]
		if !exists {
			return fmt.Errorf("team %s not found", id)
		}
		item.Points = points
		d.teams[id] = item
		return nil
	})
}
