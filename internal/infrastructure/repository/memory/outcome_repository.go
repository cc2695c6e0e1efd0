package memory

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/vaerl/trophy-be/internal/domain/outcome"
	"github.com/vaerl/trophy-be/internal/domain/scoring"
)

type OutcomeRepository struct {
	store *Store
	tx    *dataset
}

func (r *OutcomeRepository) ListByGame(_ context.Context, gameID string) ([]outcome.Outcome, error) {
	var out []outcome.Outcome
	r.store.view(r.tx, func(d *dataset) {
		for key, item := range d.outcomes {
			if key.gameID == gameID {
				out = append(out, copyOutcome(item))
			}
		}
	})

	slices.SortFunc(out, func(a, b outcome.Outcome) int {
		return strings.Compare(a.TeamID, b.TeamID)
	})
	return out, nil
}

func (r *OutcomeRepository) Get(_ context.Context, gameID, teamID string) (outcome.Outcome, bool, error) {
	var (
		item   outcome.Outcome
		exists bool
	)
	r.store.view(r.tx, func(d *dataset) {
		item, exists = d.outcomes[outcomeKey{gameID: gameID, teamID: teamID}]
	})
	return copyOutcome(item), exists, nil
}

func (r *OutcomeRepository) EnsureForYear(_ context.Context, year int) (int, error) {
	created := 0
	err := r.store.update(r.tx, func(d *dataset) error {
		for _, g := range d.games {
			if g.Year != year {
				continue
			}
			for _, tm := range d.teams {
				if tm.Year != year {
					continue
				}
				key := outcomeKey{gameID: g.ID, teamID: tm.ID}
				if _, exists := d.outcomes[key]; exists {
					continue
				}
				d.outcomes[key] = outcome.Outcome{GameID: g.ID, TeamID: tm.ID}
				created++
			}
		}
		return nil
	})
	return created, err
}

func (r *OutcomeRepository) SetData(_ context.Context, gameID, teamID string, data *string) error {
	return r.store.update(r.tx, func(d *dataset) error {
		key := outcomeKey{gameID: gameID, teamID: teamID}
		item, exists := d.outcomes[key]
		if !exists {
			return fmt.Errorf("outcome game=%s team=%s not found", gameID, teamID)
		}
		item.Data = nil
		if data != nil {
			v := *data
			item.Data = &v
		}
		d.outcomes[key] = item
		return nil
	})
}

// SetPointValue writes the point value once; a second write fails with
// scoring.ErrAlreadyEvaluated.
func (r *OutcomeRepository) SetPointValue(_ context.Context, gameID, teamID string, pointValue int) error {
	return r.store.update(r.tx, func(d *dataset) error {
		key := outcomeKey{gameID: gameID, teamID: teamID}
		item, exists := d.outcomes[key]
		if !exists {
			return fmt.Errorf("outcome game=%s team=%s not found", gameID, teamID)
		}
		if item.PointValue != nil {
			return errors.Wrapf(scoring.ErrAlreadyEvaluated, "outcome game=%s team=%s", gameID, teamID)
		}
		v := pointValue
		item.PointValue = &v
		d.outcomes[key] = item
		return nil
	})
}

func (r *OutcomeRepository) CountByYear(_ context.Context, year int) (outcome.Counts, error) {
	var counts outcome.Counts
	r.store.view(r.tx, func(d *dataset) {
		pendingGames := make(map[string]struct{})
		pendingTeams := make(map[string]struct{})
		for key, item := range d.outcomes {
			g, exists := d.games[key.gameID]
			if !exists || g.Year != year {
				continue
			}
			counts.Total++
			if item.Scored() {
				counts.Scored++
			}
			if item.Pending() {
				counts.Pending++
				pendingGames[key.gameID] = struct{}{}
				pendingTeams[key.teamID] = struct{}{}
			}
		}
		counts.PendingGames = len(pendingGames)
		counts.PendingTeams = len(pendingTeams)
	})
	return counts, nil
}

func copyOutcome(item outcome.Outcome) outcome.Outcome {
	if item.Data != nil {
		v := *item.Data
		item.Data = &v
	}
	if item.PointValue != nil {
		v := *item.PointValue
		item.PointValue = &v
	}
	return item
}
