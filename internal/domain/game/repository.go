package game

import "context"

type Repository interface {
	ListByYear(ctx context.Context, year int) ([]Game, error)
	GetByID(ctx context.Context, id string) (Game, bool, error)
	Create(ctx context.Context, game Game) error
}
