package history

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/decred/slog"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

func errUnknownDriver(driver string) error {
	return fmt.Errorf("history: unknown driver %q", driver)
}

const schema = `
CREATE TABLE IF NOT EXISTS matches (
	id            INTEGER PRIMARY KEY,
	table_id      TEXT NOT NULL,
	game_type     TEXT NOT NULL,
	started_at    TIMESTAMP NOT NULL,
	ended_at      TIMESTAMP NOT NULL,
	winners       TEXT NOT NULL,
	final_scores  TEXT NOT NULL,
	rounds_played INTEGER NOT NULL
);
`

// postgres needs a serial key; everything else in the schema is portable.
const schemaPostgres = `
CREATE TABLE IF NOT EXISTS matches (
	id            BIGSERIAL PRIMARY KEY,
	table_id      TEXT NOT NULL,
	game_type     TEXT NOT NULL,
	started_at    TIMESTAMP NOT NULL,
	ended_at      TIMESTAMP NOT NULL,
	winners       TEXT NOT NULL,
	final_scores  TEXT NOT NULL,
	rounds_played INTEGER NOT NULL
);
`

type sqlService struct {
	db       *sql.DB
	log      slog.Logger
	postgres bool
}

func newSQLService(driver, dsn string, log slog.Logger) (Service, error) {
	if dsn == "" {
		return nil, fmt.Errorf("history: %s driver requires a connection string", driver)
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("history: open %s: %w", driver, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("history: ping %s: %w", driver, err)
	}

	s := &sqlService{db: db, log: log, postgres: driver == "postgres"}
	ddl := schema
	if s.postgres {
		ddl = schemaPostgres
	}
	if _, err := db.Exec(ddl); err != nil {
		db.Close()
		return nil, fmt.Errorf("history: create schema: %w", err)
	}
	log.Infof("history: recording to %s", driver)
	return s, nil
}

func (s *sqlService) RecordMatch(ctx context.Context, m Match) error {
	query := `INSERT INTO matches
		(table_id, game_type, started_at, ended_at, winners, final_scores, rounds_played)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	if s.postgres {
		query = `INSERT INTO matches
			(table_id, game_type, started_at, ended_at, winners, final_scores, rounds_played)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`
	}
	_, err := s.db.ExecContext(ctx, query,
		m.TableID, string(m.GameType), m.StartedAt, m.EndedAt,
		joinInts(m.Winners), joinInts(m.FinalScores), m.RoundsPlayed)
	if err != nil {
		return fmt.Errorf("history: record match: %w", err)
	}
	return nil
}

func (s *sqlService) Close() error { return s.db.Close() }

func joinInts(xs []int) string {
	parts := make([]string, len(xs))
	for i, x := range xs {
		parts[i] = strconv.Itoa(x)
	}
	return strings.Join(parts, ",")
}
