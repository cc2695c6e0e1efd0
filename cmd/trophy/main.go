package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vaerl/trophy-be/internal/app"
	"github.com/vaerl/trophy-be/internal/config"
	"github.com/vaerl/trophy-be/internal/interfaces/command"
	"github.com/vaerl/trophy-be/internal/platform/logging"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		return command.ExitFailure
	}

	logger := logging.NewJSONTo(os.Stderr, cfg.LogLevel).With(
		"service", cfg.ServiceName,
		"env", cfg.AppEnv,
	)
	logging.SetDefault(logger)
	defer func() {
		_ = logger.Sync()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	container, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to build app", "error", err)
		return command.ExitFailure
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := container.Close(closeCtx); err != nil {
			logger.Error("failed to close app", "error", err)
		}
	}()

	handler := command.NewHandler(
		container.Trophy,
		container.Roster,
		container.Standings,
		cfg.DefaultYear,
		cfg.EvalTimeout,
		logger.Named("command"),
	)
	if err := command.NewApp(handler).RunContext(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return command.ExitCode(err)
	}
	return command.ExitOK
}
