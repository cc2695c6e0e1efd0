package scoring

import (
	"fmt"

	"github.com/vaerl/trophy-be/internal/domain/team"
)

// PartitionByGender splits items into female and male groups, keeping the
// input order inside each group.
func PartitionByGender(items []ParsedOutcome) (female, male []ParsedOutcome) {
	for _, item := range items {
		switch item.Team.Gender {
		case team.GenderFemale:
			female = append(female, item)
		case team.GenderMale:
			male = append(male, item)
		default:
			panic(fmt.Sprintf("scoring: team %s has invalid gender %q", item.Team.ID, item.Team.Gender))
		}
	}
	return female, male
}
