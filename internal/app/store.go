package app

import (
	"context"
	"fmt"

	"github.com/vaerl/trophy-be/internal/config"
	"github.com/vaerl/trophy-be/internal/domain/scoring"
	"github.com/vaerl/trophy-be/internal/infrastructure/repository/memory"
	"github.com/vaerl/trophy-be/internal/infrastructure/repository/postgres"
	"github.com/vaerl/trophy-be/internal/platform/logging"
)

type openedStore struct {
	repos scoring.Repositories
	tx    scoring.Transactor
	close func(context.Context) error
}

func openStore(ctx context.Context, cfg config.Config, logger *logging.Logger) (openedStore, error) {
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		db, err := openDatabase(ctx, cfg)
		if err != nil {
			return openedStore{}, err
		}
		store := postgres.NewStore(db)
		return openedStore{
			repos: scoring.Repositories{
				Teams:    store.Teams(),
				Games:    store.Games(),
				Outcomes: store.Outcomes(),
			},
			tx: store,
			close: func(context.Context) error {
				return db.Close()
			},
		}, nil
	case config.DriverMemory, "":
		store, err := memory.LoadFile(cfg.StoreSnapshot)
		if err != nil {
			return openedStore{}, fmt.Errorf("load store snapshot: %w", err)
		}
		return openedStore{
			repos: scoring.Repositories{
				Teams:    store.Teams(),
				Games:    store.Games(),
				Outcomes: store.Outcomes(),
			},
			tx: store,
			close: func(ctx context.Context) error {
				if cfg.StoreSnapshot == "" {
					return nil
				}
				if err := store.SaveFile(cfg.StoreSnapshot); err != nil {
					return fmt.Errorf("save store snapshot: %w", err)
				}
				logger.DebugContext(ctx, "store snapshot saved", "path", cfg.StoreSnapshot)
				return nil
			},
		}, nil
	default:
		return openedStore{}, fmt.Errorf("unsupported store driver %q", cfg.StoreDriver)
	}
}
