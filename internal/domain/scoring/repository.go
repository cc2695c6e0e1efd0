package scoring

import (
	"context"

	"github.com/vaerl/trophy-be/internal/domain/game"
	"github.com/vaerl/trophy-be/internal/domain/outcome"
	"github.com/vaerl/trophy-be/internal/domain/team"
)

// Repositories groups the stores a unit of work writes through.
type Repositories struct {
	Teams    team.Repository
	Games    game.Repository
	Outcomes outcome.Repository
}

// Transactor runs fn against repositories bound to one transaction. Nothing
// fn wrote is kept unless it returns nil.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error
}
