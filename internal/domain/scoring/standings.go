package scoring

import (
	"cmp"
	"slices"
	"strings"

	"github.com/vaerl/trophy-be/internal/domain/team"
)

type Standing struct {
	Place    int
	TeamID   string
	TrophyID int
	TeamName string
	Points   int
}

// Standings is the per-gender leaderboard of one tournament year.
type Standings struct {
	Year   int
	Female []Standing
	Male   []Standing
}

// BuildStandings ranks teams by total points, highest first. Equal totals
// share a place and the following place skips accordingly.
func BuildStandings(year int, teams []team.Team) Standings {
	var female, male []team.Team
	for _, tm := range teams {
		switch tm.Gender {
		case team.GenderFemale:
			female = append(female, tm)
		case team.GenderMale:
			male = append(male, tm)
		}
	}

	return Standings{
		Year:   year,
		Female: rankTeams(female),
		Male:   rankTeams(male),
	}
}

func rankTeams(teams []team.Team) []Standing {
	if len(teams) == 0 {
		return []Standing{}
	}

	slices.SortStableFunc(teams, func(a, b team.Team) int {
		if c := cmp.Compare(b.Points, a.Points); c != 0 {
			return c
		}
		return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	})

	out := make([]Standing, 0, len(teams))
	for i, tm := range teams {
		place := i + 1
		if i > 0 && tm.Points == teams[i-1].Points {
			place = out[i-1].Place
		}
		out = append(out, Standing{
			Place:    place,
			TeamID:   tm.ID,
			TrophyID: tm.TrophyID,
			TeamName: tm.Name,
			Points:   tm.Points,
		})
	}
	return out
}
