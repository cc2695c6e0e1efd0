package scoring

import (
	"github.com/cockroachdb/errors"

	"github.com/vaerl/trophy-be/internal/domain/game"
	"github.com/vaerl/trophy-be/internal/domain/outcome"
	"github.com/vaerl/trophy-be/internal/domain/team"
)

// ParsedOutcome is the working unit of a ranking pass. Team is a copy whose
// Points is updated in place by Evaluate.
type ParsedOutcome struct {
	GameID     string
	Team       team.Team
	Value      Value
	PointValue *int
}

// ParseOutcomes turns the recorded outcomes of g into ranking input. Teams
// are looked up in teams by id and copied.
func ParseOutcomes(g game.Game, items []outcome.Outcome, teams map[string]team.Team) ([]ParsedOutcome, error) {
	out := make([]ParsedOutcome, 0, len(items))
	for _, item := range items {
		if item.GameID != g.ID {
			return nil, errors.AssertionFailedf("outcome of game %s passed for game %s", item.GameID, g.ID)
		}
		if item.Pending() {
			return nil, errors.Wrapf(ErrEarlyEvaluation, "game %s: team %s has no result", g.ID, item.TeamID)
		}
		tm, ok := teams[item.TeamID]
		if !ok {
			return nil, errors.Newf("game %s: team %s not found", g.ID, item.TeamID)
		}

		value, err := ParseValue(*item.Data, g.Kind)
		if err != nil {
			return nil, errors.Wrapf(err, "game %s, team %s", g.ID, item.TeamID)
		}

		out = append(out, ParsedOutcome{
			GameID: g.ID,
			Team:   tm,
			Value:  value,
		})
	}

	return out, nil
}
