package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	TelegramToken   string        `env:"TELEGRAM_TOKEN,required,notEmpty"`
	DatabaseURL     string        `env:"DATABASE_URL,required,notEmpty"`
	DatabaseDriver  string        `env:"DATABASE_DRIVER" envDefault:"postgres"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat       string        `env:"LOG_FORMAT" envDefault:"text"`
	PrometheusPort  string        `env:"PROMETHEUS_PORT" envDefault:"9090"`
	WebhookURL      string        `env:"WEBHOOK_URL"`
	Port            string        `env:"PORT" envDefault:"8080"`
	CatalogPath     string        `env:"CATALOG_PATH"`
	JanitorInterval time.Duration `env:"JANITOR_INTERVAL" envDefault:"1h"`
}

// Load loads configuration from environment variables. Values from a .env
// file in the working directory are applied first when the file exists and
// never override variables that are already set.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	switch cfg.DatabaseDriver {
	case "postgres", "sqlite":
	default:
		return nil, fmt.Errorf("DATABASE_DRIVER must be postgres or sqlite, got %q", cfg.DatabaseDriver)
	}

	if cfg.JanitorInterval <= 0 {
		return nil, fmt.Errorf("JANITOR_INTERVAL must be positive")
	}

	return cfg, nil
}

// WebhookEnabled reports whether updates arrive through the webhook instead of long polling
func (c *Config) WebhookEnabled() bool {
	return c.WebhookURL != ""
}
