package game

import (
	"fmt"
	"strings"
)

// Kind fixes how a game's raw results are parsed and ranked.
type Kind string

const (
	KindPoints Kind = "points"
	KindTime   Kind = "time"
)

func ParseKind(raw string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case string(KindPoints), "punkte":
		return KindPoints, nil
	case string(KindTime), "zeit":
		return KindTime, nil
	default:
		return "", fmt.Errorf("unknown game kind %q", raw)
	}
}

func (k Kind) Valid() bool {
	return k == KindPoints || k == KindTime
}

// State is derived from a game's outcomes and never stored.
type State string

const (
	StatePending  State = "pending"
	StateComplete State = "complete"
	StateScored   State = "scored"
)

// Locked reports whether result entry is closed for the game.
func (s State) Locked() bool {
	return s == StateComplete || s == StateScored
}

type Game struct {
	ID       string
	TrophyID int
	Name     string
	Kind     Kind
	Year     int
}

func (g Game) Validate() error {
	if g.ID == "" {
		return fmt.Errorf("game id is required")
	}
	if strings.TrimSpace(g.Name) == "" {
		return fmt.Errorf("game name is required")
	}
	if !g.Kind.Valid() {
		return fmt.Errorf("game kind %q is invalid", g.Kind)
	}
	if g.Year <= 0 {
		return fmt.Errorf("game year must be positive")
	}

	return nil
}
