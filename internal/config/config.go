// Package config reads server settings from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config is the full server configuration.
type Config struct {
	// Port the HTTP server listens on.
	Port int
	// Env is "dev" or "prod"; dev lowers log levels and relaxes origins.
	Env string
	// AllowedOrigins for websocket upgrades. Empty allows all.
	AllowedOrigins []string

	// HeartsEndingScore overrides the default ending score for new Hearts
	// tables that do not set one (0 = engine default).
	HeartsEndingScore int

	// HistoryDriver is "off", "sqlite" or "postgres".
	HistoryDriver      string
	HistorySQLitePath  string
	HistoryPostgresDSN string
}

// FromEnv loads configuration with development defaults.
func FromEnv() (*Config, error) {
	cfg := &Config{
		Port:              3000,
		Env:               envOr("TRICKTABLE_ENV", "dev"),
		HistoryDriver:     envOr("HISTORY_DRIVER", "off"),
		HistorySQLitePath: os.Getenv("HISTORY_SQLITE_PATH"),
	}

	if v := os.Getenv("PORT"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil || p <= 0 || p > 65535 {
			return nil, fmt.Errorf("invalid PORT %q", v)
		}
		cfg.Port = p
	}

	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		for _, origin := range strings.Split(v, ",") {
			origin = strings.TrimSpace(origin)
			if origin != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, origin)
			}
		}
	}

	if v := os.Getenv("HEARTS_ENDING_SCORE"); v != "" {
		score, err := strconv.Atoi(v)
		if err != nil || score <= 0 {
			return nil, fmt.Errorf("invalid HEARTS_ENDING_SCORE %q", v)
		}
		cfg.HeartsEndingScore = score
	}

	cfg.HistoryPostgresDSN = os.Getenv("HISTORY_POSTGRES_DSN")

	switch cfg.HistoryDriver {
	case "off", "sqlite", "postgres":
	default:
		return nil, fmt.Errorf("invalid HISTORY_DRIVER %q", cfg.HistoryDriver)
	}
	return cfg, nil
}

// Dev reports whether the server runs with development defaults.
func (c *Config) Dev() bool { return c.Env != "prod" }

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
