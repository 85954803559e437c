// Package config loads runtime settings from the environment, after reading
// an optional .env file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

type Config struct {
	StoreDriver    string
	DatabaseURL    string
	SQLitePath     string
	ServerPort     string
	AllowedOrigins string
	LogLevel       string
	LogFormat      string
	TxTimeout      time.Duration
	ApplySchema    bool
}

func Default() Config {
	return Config{
		StoreDriver: DriverPostgres,
		SQLitePath:  "recipe-costing.db",
		ServerPort:  "8080",
		LogLevel:    "info",
		LogFormat:   "json",
		TxTimeout:   5 * time.Second,
	}
}

// Load reads .env if present (a missing file is not an error) and then the
// environment. Existing environment variables win over .env entries.
func Load() (Config, error) {
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from getenv, starting from Default.
func FromEnv(getenv func(string) string) (Config, error) {
	cfg := Default()
	get := func(key, def string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return def
	}

	cfg.StoreDriver = strings.ToLower(get("STORE_DRIVER", cfg.StoreDriver))
	cfg.DatabaseURL = get("DATABASE_URL", "")
	cfg.SQLitePath = get("SQLITE_PATH", cfg.SQLitePath)
	cfg.ServerPort = get("SERVER_PORT", cfg.ServerPort)
	cfg.AllowedOrigins = get("ALLOWED_ORIGINS", "")
	cfg.LogLevel = strings.ToLower(get("LOG_LEVEL", cfg.LogLevel))
	cfg.LogFormat = strings.ToLower(get("LOG_FORMAT", cfg.LogFormat))

	if v := get("TX_TIMEOUT", ""); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return cfg, fmt.Errorf("invalid TX_TIMEOUT %q: want a positive duration such as 5s", v)
		}
		cfg.TxTimeout = d
	}
	if v := get("APPLY_SCHEMA", ""); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return cfg, fmt.Errorf("invalid APPLY_SCHEMA %q: %w", v, err)
		}
		cfg.ApplySchema = b
	}

	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	switch c.StoreDriver {
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL environment variable not set (required for STORE_DRIVER=postgres)")
		}
	case DriverSQLite, DriverMemory:
	default:
		return fmt.Errorf("invalid STORE_DRIVER %q: want postgres, sqlite or memory", c.StoreDriver)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid LOG_LEVEL %q", c.LogLevel)
	}
	switch c.LogFormat {
	case "json", "text":
	default:
		return fmt.Errorf("invalid LOG_FORMAT %q: want json or text", c.LogFormat)
	}
	if _, err := strconv.Atoi(c.ServerPort); err != nil {
		return fmt.Errorf("invalid SERVER_PORT %q", c.ServerPort)
	}
	return nil
}
