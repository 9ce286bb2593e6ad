package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Store drivers accepted by STORE_DRIVER.
const (
	DriverMemory   = "memory"
	DriverFile     = "file"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverBadger   = "badger"
)

type Config struct {
	Port          string `env:"PORT" envDefault:"8080"`
	AllowedOrigin string `env:"ALLOWED_ORIGIN" envDefault:"*"`
	Debug         bool   `env:"DEBUG" envDefault:"false"`
	// Largest accepted request body; chat messages beyond it are rejected
	// before they reach the interpreter.
	MaxBodyBytes int64 `env:"MAX_BODY_BYTES" envDefault:"1048576"`

	StoreDriver string `env:"STORE_DRIVER" envDefault:"sqlite"`
	// Database
	DatabaseURL string `env:"DB_URL"`
	SQLitePath  string `env:"SQLITE_PATH" envDefault:"data/todos.db"`
	// File and embedded KV stores
	TodoFile  string `env:"TODO_FILE" envDefault:"data/todos.json"`
	BadgerDir string `env:"BADGER_DIR" envDefault:"data/badger"`

	// Optional YAML file overriding the built-in chat replies
	RepliesFile string `env:"REPLIES_FILE"`
}

// Load reads .env (if present) and the process environment.
func Load() (Config, error) {
	_ = godotenv.Load()
	return Parse(nil)
}

// Parse builds a Config from the process environment, with overrides taking
// precedence. Overrides exist mostly for tests and CLI flags.
func Parse(overrides map[string]string) (Config, error) {
	var cfg Config
	opts := env.Options{Environment: mergedEnv(overrides)}
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.StoreDriver = strings.ToLower(strings.TrimSpace(cfg.StoreDriver))
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.StoreDriver {
	case DriverMemory, DriverFile, DriverSQLite, DriverBadger:
	case DriverPostgres:
		if strings.TrimSpace(c.DatabaseURL) == "" {
			return fmt.Errorf("DB_URL is required when STORE_DRIVER=%s", DriverPostgres)
		}
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}
	if c.MaxBodyBytes <= 0 {
		return fmt.Errorf("MAX_BODY_BYTES must be positive")
	}
	return nil
}

func (c Config) Addr() string {
	return ":" + c.Port
}

func mergedEnv(overrides map[string]string) map[string]string {
	out := env.ToMap(os.Environ())
	for k, v := range overrides {
		out[k] = v
	}
	return out
}
