// Package history persists finished matches. The backend is selected by
// environment so deployments without a database run with recording off.
package history

import (
	"context"
	"time"

	"tricktable/engine"

	"github.com/decred/slog"
)

// Match is one finished game as recorded by the store.
type Match struct {
	TableID      string
	GameType     engine.GameType
	StartedAt    time.Time
	EndedAt      time.Time
	Winners      []int
	FinalScores  []int
	RoundsPlayed int
}

// Service records finished matches.
type Service interface {
	RecordMatch(ctx context.Context, m Match) error
	Close() error
}

// nopService is the default when no backend is configured.
type nopService struct{}

func (nopService) RecordMatch(context.Context, Match) error { return nil }
func (nopService) Close() error                             { return nil }

// Disabled returns a service that drops every record.
func Disabled() Service { return nopService{} }

// Config selects and parameterizes the backend.
type Config struct {
	// Driver is "off", "sqlite" or "postgres".
	Driver string
	// SQLitePath is the database file for the sqlite driver.
	SQLitePath string
	// PostgresDSN is the connection string for the postgres driver.
	PostgresDSN string
}

// NewService builds the configured backend.
func NewService(cfg Config, log slog.Logger) (Service, error) {
	switch cfg.Driver {
	case "", "off":
		log.Infof("history: recording disabled")
		return Disabled(), nil
	case "sqlite":
		return newSQLService("sqlite", cfg.SQLitePath, log)
	case "postgres":
		return newSQLService("postgres", cfg.PostgresDSN, log)
	default:
		return nil, errUnknownDriver(cfg.Driver)
	}
}
