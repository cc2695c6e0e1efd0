package outcome

import "context"

type Repository interface {
	ListByGame(ctx context.Context, gameID string) ([]Outcome, error)
	Get(ctx context.Context, gameID, teamID string) (Outcome, bool, error)
	// EnsureForYear creates the missing outcome for every team/game pair of
	// the year and returns how many were created.
	EnsureForYear(ctx context.Context, year int) (int, error)
	SetData(ctx context.Context, gameID, teamID string, data *string) error
	SetPointValue(ctx context.Context, gameID, teamID string, pointValue int) error
	CountByYear(ctx context.Context, year int) (Counts, error)
}
