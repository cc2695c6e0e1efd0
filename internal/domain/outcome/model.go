package outcome

import "github.com/vaerl/trophy-be/internal/domain/game"

// Outcome joins one game and one team of the same year. Data holds the raw
// result text and stays nil while the result is pending; PointValue is set
// once the game has been scored.
type Outcome struct {
	GameID     string
	TeamID     string
	Data       *string
	PointValue *int
}

func (o Outcome) Pending() bool {
	return o.Data == nil
}

func (o Outcome) Scored() bool {
	return o.PointValue != nil
}

// DeriveGameState maps a game's outcomes to its lifecycle state. Any pending
// outcome keeps the game pending; a game is scored once every outcome carries
// a point value. A game without outcomes is complete.
func DeriveGameState(items []Outcome) game.State {
	scored := 0
	for _, item := range items {
		if item.Pending() {
			return game.StatePending
		}
		if item.Scored() {
			scored++
		}
	}
	if len(items) > 0 && scored == len(items) {
		return game.StateScored
	}
	return game.StateComplete
}

// Counts summarizes the outcomes of one tournament year.
type Counts struct {
	Total        int
	Pending      int
	Scored       int
	PendingGames int
	PendingTeams int
}

func (c Counts) Done() bool {
	return c.Pending == 0
}

func (c Counts) Evaluated() bool {
	return c.Scored > 0
}
