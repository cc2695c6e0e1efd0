package team

import "context"

// Repository describes team persistence needs from use cases.
type Repository interface {
	ListByYear(ctx context.Context, year int) ([]Team, error)
	GetByID(ctx context.Context, id string) (Team, bool, error)
	Create(ctx context.Context, team Team) error
	UpdatePoints(ctx context.Context, id string, points int) error
}
