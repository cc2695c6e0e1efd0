package scoring

import (
	"fmt"
	"slices"
)

// MaxPoints is the point value of the best result in a group.
const MaxPoints = 50

type rankFold struct {
	points int
	gap    int
}

func (f rankFold) advance(tiedWithNext bool) rankFold {
	if tiedWithNext {
		f.gap++
		return f
	}
	return rankFold{points: f.points - f.gap, gap: 1}
}

// Evaluate ranks one gender group of one game by competition ranking. It
// returns a ranked copy of items with PointValue set and the point value
// added to each Team.Points. Tied results share a point value; the next
// distinct result drops by the size of the tie. Values are not floored, so
// groups larger than MaxPoints reach zero and below.
//
// All values must be of the same kind.
func Evaluate(items []ParsedOutcome) []ParsedOutcome {
	if len(items) == 0 {
		return items
	}

	kind := items[0].Value.Kind()
	for _, item := range items[1:] {
		if item.Value.Kind() != kind {
			panic(fmt.Sprintf("scoring: evaluate mixes %q and %q values", kind, item.Value.Kind()))
		}
	}

	ranked := slices.Clone(items)
	slices.SortStableFunc(ranked, func(a, b ParsedOutcome) int {
		return a.Value.Compare(b.Value)
	})

	state := rankFold{points: MaxPoints, gap: 1}
	for i := range ranked {
		pointValue := state.points
		ranked[i].PointValue = &pointValue
		ranked[i].Team.Points += pointValue

		if i+1 < len(ranked) {
			state = state.advance(ranked[i].Value.Equal(ranked[i+1].Value))
		}
	}

	return ranked
}
