package app

import (
	"context"
	"fmt"

	"go.uber.org/multierr"

	"github.com/vaerl/trophy-be/internal/config"
	"github.com/vaerl/trophy-be/internal/domain/team"
	cacherepo "github.com/vaerl/trophy-be/internal/infrastructure/repository/cache"
	"github.com/vaerl/trophy-be/internal/infrastructure/spreadsheet"
	"github.com/vaerl/trophy-be/internal/observability"
	basecache "github.com/vaerl/trophy-be/internal/platform/cache"
	idgen "github.com/vaerl/trophy-be/internal/platform/id"
	"github.com/vaerl/trophy-be/internal/platform/logging"
	"github.com/vaerl/trophy-be/internal/platform/resilience"
	"github.com/vaerl/trophy-be/internal/usecase"
)

// Container holds the services of one process run. Close must be called to
// flush traces and persist or release the store.
type Container struct {
	Config    config.Config
	Logger    *logging.Logger
	Trophy    *usecase.TrophyService
	Roster    *usecase.RosterService
	Standings *usecase.StandingsService

	closers []func(context.Context) error
}

func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*Container, error) {
	if logger == nil {
		logger = logging.Default()
	}

	c := &Container{Config: cfg, Logger: logger}

	shutdownTracing, err := observability.InitUptrace(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("init uptrace: %w", err)
	}
	c.closers = append(c.closers, shutdownTracing)

	st, err := openStore(ctx, cfg, logger)
	if err != nil {
		_ = c.Close(ctx)
		return nil, err
	}
	c.closers = append(c.closers, st.close)

	var (
		teamRepo    team.Repository = st.repos.Teams
		invalidator usecase.StandingsInvalidator
	)
	if cfg.CacheEnabled {
		cached := cacherepo.NewTeamRepository(st.repos.Teams, basecache.NewStore(cfg.CacheTTL))
		teamRepo = cached
		invalidator = cached
	}

	locks := &resilience.KeyedMutex[int]{}
	c.Trophy = usecase.NewTrophyService(
		teamRepo,
		st.repos.Games,
		st.repos.Outcomes,
		st.tx,
		invalidator,
		locks,
		cfg.EvalLoadWorkers,
		logger.Named("trophy"),
	)
	c.Roster = usecase.NewRosterService(
		st.repos.Games,
		st.tx,
		idgen.NewUUIDGenerator(),
		locks,
		invalidator,
		logger.Named("roster"),
	)
	c.Standings = usecase.NewStandingsService(
		teamRepo,
		spreadsheet.NewExporter(cfg.ExportDir, logger.Named("export")),
	)

	logger.Debug("app ready", "store_driver", cfg.StoreDriver, "cache_enabled", cfg.CacheEnabled)
	return c, nil
}

// Close releases resources in reverse order of acquisition.
func (c *Container) Close(ctx context.Context) error {
	var err error
	for i := len(c.closers) - 1; i >= 0; i-- {
		err = multierr.Append(err, c.closers[i](ctx))
	}
	c.closers = nil
	return err
}
