package command

import (
	"context"
	"time"

	"github.com/urfave/cli/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vaerl/trophy-be/internal/platform/logging"
	"github.com/vaerl/trophy-be/internal/usecase"
)

var commandTracer = otel.Tracer("trophy-be/internal/interfaces/command")

type Handler struct {
	trophy      *usecase.TrophyService
	roster      *usecase.RosterService
	standings   *usecase.StandingsService
	defaultYear int
	evalTimeout time.Duration
	logger      *logging.Logger
}

func NewHandler(
	trophy *usecase.TrophyService,
	roster *usecase.RosterService,
	standings *usecase.StandingsService,
	defaultYear int,
	evalTimeout time.Duration,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		trophy:      trophy,
		roster:      roster,
		standings:   standings,
		defaultYear: defaultYear,
		evalTimeout: evalTimeout,
		logger:      logger,
	}
}

// NewApp returns the trophy command tree bound to h.
func NewApp(h *Handler) *cli.App {
	return &cli.App{
		Name:  "trophy",
		Usage: "register teams and games, record results and score a tournament year",
		Commands: []*cli.Command{
			h.evaluateCommand(),
			h.statusCommand(),
			h.standingsCommand(),
			h.exportCommand(),
			h.importCommand(),
			h.registerTeamCommand(),
			h.registerGameCommand(),
			h.recordCommand(),
		},
	}
}

func yearFlag() cli.Flag {
	return &cli.IntFlag{
		Name:    "year",
		Aliases: []string{"y"},
		Usage:   "tournament year (defaults to DEFAULT_YEAR)",
	}
}

func (h *Handler) year(c *cli.Context) int {
	if c.IsSet("year") {
		return c.Int("year")
	}
	return h.defaultYear
}

// traced runs action under a root span so usecase spans attach to it.
func (h *Handler) traced(name string, action func(ctx context.Context, c *cli.Context) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		ctx := c.Context
		if ctx == nil {
			ctx = context.Background()
		}
		ctx, span := commandTracer.Start(ctx, "cli."+name, trace.WithAttributes(attribute.String("cli.command", name)))
		defer span.End()

		err := action(ctx, c)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			h.logger.ErrorContext(ctx, "command failed", "command", name, "error", err)
		}
		return err
	}
}
