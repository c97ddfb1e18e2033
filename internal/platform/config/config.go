// Package config loads the command's settings from the environment.
//
// A .env file is read first when present (godotenv), then variables are mapped onto Config
// with go-simpler/env struct tags.
package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/joho/godotenv"
	"go-simpler.org/env"
)

type Config struct {
	Subdomain string `env:"VSWARE_SUBDOMAIN"`
	Username  string `env:"VSWARE_USERNAME"`
	Password  string `env:"VSWARE_PASSWORD"`
	LearnerID string `env:"VSWARE_LEARNER_ID"`

	HTTPTimeout time.Duration `env:"HTTP_TIMEOUT" default:"30s"`
	LogLevel    string        `env:"LOG_LEVEL" default:"info"`
	LogFormat   string        `env:"LOG_FORMAT" default:"text"`
	// MetricsFile, when set, receives the client metrics in Prometheus text format on exit.
	MetricsFile string `env:"METRICS_TEXTFILE"`
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file found, using environment variables")
	}

	var cfg Config
	if err := env.Load(&cfg, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func validate(cfg *Config) error {
	required := []struct {
		name  string
		value string
	}{
		{"VSWARE_SUBDOMAIN", cfg.Subdomain},
		{"VSWARE_USERNAME", cfg.Username},
		{"VSWARE_PASSWORD", cfg.Password},
	}
	for _, r := range required {
		if r.value == "" {
			return fmt.Errorf("%s is required", r.name)
		}
	}

	if cfg.HTTPTimeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive, got %s", cfg.HTTPTimeout)
	}

	switch cfg.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("LOG_FORMAT must be text or json, got %q", cfg.LogFormat)
	}

	return nil
}
