package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/vaerl/trophy-be/internal/platform/logging"
)

const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
)

// Config stores runtime configuration for the trophy tools.
type Config struct {
	AppEnv                  string
	ServiceName             string
	ServiceVersion          string
	LogLevel                logging.Level
	StoreDriver             string
	StoreSnapshot           string
	DBURL                   string
	DBDisablePreparedBinary bool
	DBMaxOpenConns          int
	EvalLoadWorkers         int
	EvalTimeout             time.Duration
	CacheEnabled            bool
	CacheTTL                time.Duration
	ExportDir               string
	UptraceEnabled          bool
	UptraceDSN              string
	UptraceLogsEnabled      bool
	DefaultYear             int
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	storeDriver, err := parseStoreDriver(getEnv("STORE_DRIVER", DriverMemory))
	if err != nil {
		return Config{}, err
	}
	dbURL := strings.TrimSpace(getEnv("DB_URL", ""))
	if storeDriver == DriverPostgres && dbURL == "" {
		return Config{}, fmt.Errorf("DB_URL is required when STORE_DRIVER=%s", DriverPostgres)
	}
	dbDisablePreparedBinary, err := strconv.ParseBool(getEnv("DB_DISABLE_PREPARED_BINARY_RESULT", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse DB_DISABLE_PREPARED_BINARY_RESULT: %w", err)
	}
	dbMaxOpenConns, err := getEnvAsInt("DB_MAX_OPEN_CONNS", 10)
	if err != nil {
		return Config{}, fmt.Errorf("parse DB_MAX_OPEN_CONNS: %w", err)
	}
	if dbMaxOpenConns < 1 {
		return Config{}, fmt.Errorf("DB_MAX_OPEN_CONNS must be >= 1")
	}

	evalLoadWorkers, err := getEnvAsInt("EVAL_LOAD_WORKERS", 4)
	if err != nil {
		return Config{}, fmt.Errorf("parse EVAL_LOAD_WORKERS: %w", err)
	}
	if evalLoadWorkers < 1 {
		return Config{}, fmt.Errorf("EVAL_LOAD_WORKERS must be >= 1")
	}
	evalTimeout, err := time.ParseDuration(getEnv("EVAL_TIMEOUT", "30s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse EVAL_TIMEOUT: %w", err)
	}
	if evalTimeout <= 0 {
		return Config{}, fmt.Errorf("EVAL_TIMEOUT must be > 0")
	}

	cacheEnabled, err := strconv.ParseBool(getEnv("CACHE_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_ENABLED: %w", err)
	}
	cacheTTL, err := time.ParseDuration(getEnv("CACHE_TTL", "60s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_TTL: %w", err)
	}
	if cacheTTL <= 0 {
		return Config{}, fmt.Errorf("CACHE_TTL must be > 0")
	}

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceDSN == "" {
		uptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}
	uptraceLogsEnabled, err := strconv.ParseBool(getEnv("UPTRACE_LOGS_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_LOGS_ENABLED: %w", err)
	}

	defaultYear, err := getEnvAsInt("DEFAULT_YEAR", time.Now().Year())
	if err != nil {
		return Config{}, fmt.Errorf("parse DEFAULT_YEAR: %w", err)
	}
	if defaultYear <= 0 {
		return Config{}, fmt.Errorf("DEFAULT_YEAR must be > 0")
	}

	cfg := Config{
		AppEnv:                  appEnv,
		ServiceName:             strings.TrimSpace(getEnv("APP_SERVICE_NAME", "trophy-be")),
		ServiceVersion:          strings.TrimSpace(getEnv("APP_SERVICE_VERSION", "dev")),
		LogLevel:                logging.ParseLevel(getEnv("APP_LOG_LEVEL", "info")),
		StoreDriver:             storeDriver,
		StoreSnapshot:           strings.TrimSpace(getEnv("STORE_SNAPSHOT", "trophy-data.json")),
		DBURL:                   dbURL,
		DBDisablePreparedBinary: dbDisablePreparedBinary,
		DBMaxOpenConns:          dbMaxOpenConns,
		EvalLoadWorkers:         evalLoadWorkers,
		EvalTimeout:             evalTimeout,
		CacheEnabled:            cacheEnabled,
		CacheTTL:                cacheTTL,
		ExportDir:               strings.TrimSpace(getEnv("EXPORT_DIR", ".")),
		UptraceEnabled:          uptraceEnabled,
		UptraceDSN:              uptraceDSN,
		UptraceLogsEnabled:      uptraceLogsEnabled,
		DefaultYear:             defaultYear,
	}
	if cfg.ServiceName == "" {
		return Config{}, fmt.Errorf("APP_SERVICE_NAME cannot be empty")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func parseUptraceDSNFromOTLPHeaders(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	for _, item := range strings.Split(raw, ",") {
		key, value, ok := strings.Cut(strings.TrimSpace(item), "=")
		if !ok {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(key), "uptrace-dsn") {
			return strings.Trim(strings.TrimSpace(value), "\"'")
		}
	}

	return ""
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}

func parseStoreDriver(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case DriverMemory, DriverPostgres:
		return value, nil
	default:
		return "", fmt.Errorf("invalid STORE_DRIVER %q: valid values are %s, %s", v, DriverMemory, DriverPostgres)
	}
}
