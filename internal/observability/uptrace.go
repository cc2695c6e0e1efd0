package observability

import (
	"context"
	"strings"

	"github.com/uptrace/uptrace-go/uptrace"
	"go.opentelemetry.io/otel/attribute"

	"github.com/vaerl/trophy-be/internal/config"
	"github.com/vaerl/trophy-be/internal/platform/logging"
)

// InitUptrace exports trophy spans, and optionally mirrored logs, to Uptrace.
// The returned func flushes pending telemetry and must run before exit.
func InitUptrace(cfg config.Config, logger *logging.Logger) (func(context.Context) error, error) {
	if logger == nil {
		logger = logging.Default()
	}

	switch {
	case !cfg.UptraceEnabled:
		return telemetryOff(logger.Debug, "UPTRACE_ENABLED=false"), nil
	case strings.TrimSpace(cfg.UptraceDSN) == "":
		return telemetryOff(logger.Warn, "UPTRACE_DSN empty"), nil
	}

	uptrace.ConfigureOpentelemetry(
		uptrace.WithDSN(cfg.UptraceDSN),
		uptrace.WithServiceName(cfg.ServiceName),
		uptrace.WithServiceVersion(cfg.ServiceVersion),
		uptrace.WithDeploymentEnvironment(cfg.AppEnv),
		uptrace.WithResourceAttributes(resourceAttributes(cfg)...),
		uptrace.WithLoggingEnabled(cfg.UptraceLogsEnabled),
	)

	var mirror logging.MirrorFunc
	if cfg.UptraceLogsEnabled {
		mirror = newLogMirror(cfg.ServiceVersion)
	}
	logging.SetMirror(mirror)

	logger.Info("trophy telemetry exporting",
		"service", cfg.ServiceName,
		"store_driver", cfg.StoreDriver,
		"default_year", cfg.DefaultYear,
		"mirror_logs", cfg.UptraceLogsEnabled,
	)

	return func(ctx context.Context) error {
		logging.SetMirror(nil)
		return uptrace.Shutdown(ctx)
	}, nil
}

// resourceAttributes tags every span with the competition setup it ran under.
func resourceAttributes(cfg config.Config) []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.String("trophy.store.driver", cfg.StoreDriver),
		attribute.Int("trophy.default_year", cfg.DefaultYear),
	}
	if cfg.StoreDriver == config.DriverMemory && cfg.StoreSnapshot != "" {
		attrs = append(attrs, attribute.String("trophy.store.snapshot", cfg.StoreSnapshot))
	}
	return attrs
}

func telemetryOff(log func(string, ...any), reason string) func(context.Context) error {
	logging.SetMirror(nil)
	log("trophy telemetry off", "reason", reason)
	return func(context.Context) error { return nil }
}
