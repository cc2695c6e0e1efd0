package team

import (
	"fmt"
	"strings"
)

type Gender string

const (
	GenderFemale Gender = "female"
	GenderMale   Gender = "male"
)

// ParseGender accepts the canonical names plus the short forms used on
// registration sheets (f/w for female, m/g for male).
func ParseGender(raw string) (Gender, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "female", "f", "w":
		return GenderFemale, nil
	case "male", "m", "g":
		return GenderMale, nil
	default:
		return "", fmt.Errorf("unknown gender %q", raw)
	}
}

func (g Gender) Valid() bool {
	return g == GenderFemale || g == GenderMale
}

// Team is one registered team of a tournament year. Points is the running
// total assigned by scoring.
type Team struct {
	ID       string
	TrophyID int
	Name     string
	Gender   Gender
	Points   int
	Year     int
}

func (t Team) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("team id is required")
	}
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("team name is required")
	}
	if !t.Gender.Valid() {
		return fmt.Errorf("team gender %q is invalid", t.Gender)
	}
	if t.Year <= 0 {
		return fmt.Errorf("team year must be positive")
	}
	if t.TrophyID < 0 {
		return fmt.Errorf("team trophy id must not be negative")
	}

	return nil
}
