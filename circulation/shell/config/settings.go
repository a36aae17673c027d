package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variable names.
const (
	EnvDBDriver       = "LIBRARY_DB_DRIVER"
	EnvDBDSN          = "LIBRARY_DB_DSN"
	EnvDBReplicaDSN   = "LIBRARY_DB_REPLICA_DSN"
	EnvTablePrefix    = "LIBRARY_TABLE_PREFIX"
	EnvHTTPAddr       = "LIBRARY_HTTP_ADDR"
	EnvCORSOrigins    = "LIBRARY_CORS_ORIGINS"
	EnvRateLimitRPS   = "LIBRARY_RATE_LIMIT_RPS"
	EnvRateLimitBurst = "LIBRARY_RATE_LIMIT_BURST"
	EnvOTelEnabled    = "LIBRARY_OTEL_ENABLED"
	EnvOTelEndpoint   = "LIBRARY_OTEL_ENDPOINT"
	EnvLogLevel       = "LIBRARY_LOG_LEVEL"
)

// Database drivers.
const (
	DriverPGX    = "pgx"
	DriverSQL    = "sql"
	DriverSQLX   = "sqlx"
	DriverSQLite = "sqlite"
	DriverMemory = "memory"
)

const (
	defaultHTTPAddr       = ":8080"
	defaultRateLimitRPS   = 20.0
	defaultRateLimitBurst = 40
	defaultSQLitePath     = "library.db"
)

var (
	// ErrUnknownDriver is returned for a LIBRARY_DB_DRIVER value that is not supported.
	ErrUnknownDriver = errors.New("unknown database driver")

	// ErrInvalidSetting is returned when an environment variable cannot be parsed.
	ErrInvalidSetting = errors.New("invalid setting")
)

// Settings is the runtime configuration of the service.
type Settings struct {
	DBDriver       string
	DBDSN          string
	DBReplicaDSN   string
	TablePrefix    string
	HTTPAddr       string
	CORSOrigins    []string
	RateLimitRPS   float64
	RateLimitBurst int
	OTelEnabled    bool
	OTelEndpoint   string
	LogLevel       slog.Level
}

// LoadSettings reads Settings from the environment. Files in envFiles are loaded first;
// missing files are skipped and variables already set in the environment win.
func LoadSettings(envFiles ...string) (Settings, error) {
	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Settings{}, fmt.Errorf("loading %s: %w", file, err)
		}
	}

	s := Settings{
		DBDriver:     envOr(EnvDBDriver, DriverMemory),
		DBDSN:        os.Getenv(EnvDBDSN),
		DBReplicaDSN: os.Getenv(EnvDBReplicaDSN),
		TablePrefix:  os.Getenv(EnvTablePrefix),
		HTTPAddr:     envOr(EnvHTTPAddr, defaultHTTPAddr),
		CORSOrigins:  splitList(os.Getenv(EnvCORSOrigins)),
		OTelEndpoint: os.Getenv(EnvOTelEndpoint),
	}

	var err error

	if s.RateLimitRPS, err = parseEnv(EnvRateLimitRPS, defaultRateLimitRPS, parseFloat); err != nil {
		return Settings{}, err
	}

	if s.RateLimitBurst, err = parseEnv(EnvRateLimitBurst, defaultRateLimitBurst, strconv.Atoi); err != nil {
		return Settings{}, err
	}

	if s.OTelEnabled, err = parseEnv(EnvOTelEnabled, false, strconv.ParseBool); err != nil {
		return Settings{}, err
	}

	if s.LogLevel, err = parseEnv(EnvLogLevel, slog.LevelInfo, parseLevel); err != nil {
		return Settings{}, err
	}

	if err := s.Validate(); err != nil {
		return Settings{}, err
	}

	return s, nil
}

// Validate checks the driver and fills in the DSN default for the driver.
func (s *Settings) Validate() error {
	switch s.DBDriver {
	case DriverPGX, DriverSQL, DriverSQLX:
		if s.DBDSN == "" {
			s.DBDSN = PostgresDefaultDSN()
		}
	case DriverSQLite:
		if s.DBDSN == "" {
			s.DBDSN = defaultSQLitePath
		}
	case DriverMemory:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownDriver, s.DBDriver)
	}

	if s.RateLimitRPS < 0 || s.RateLimitBurst < 0 {
		return fmt.Errorf("%w: rate limits must not be negative", ErrInvalidSetting)
	}

	return nil
}

func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}

	return fallback
}

func parseEnv[T any](key string, fallback T, parse func(string) (T, error)) (T, error) {
	raw, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(raw) == "" {
		return fallback, nil
	}

	v, err := parse(strings.TrimSpace(raw))
	if err != nil {
		return fallback, fmt.Errorf("%w: %s=%q: %w", ErrInvalidSetting, key, raw, err)
	}

	return v, nil
}

func parseFloat(s string) (float64, error) {
	return strconv.ParseFloat(s, 64)
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	err := level.UnmarshalText([]byte(s))

	return level, err
}

func splitList(s string) []string {
	var out []string

	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}

	return out
}
