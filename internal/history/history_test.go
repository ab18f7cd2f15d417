package history

import (
	"context"
	"io"
	"path/filepath"
	"testing"
	"time"

	"tricktable/engine"

	"github.com/decred/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() slog.Logger {
	return slog.NewBackend(io.Discard).Logger("TEST")
}

func TestDisabledServiceDropsRecords(t *testing.T) {
	svc, err := NewService(Config{Driver: "off"}, testLogger())
	require.NoError(t, err)
	assert.NoError(t, svc.RecordMatch(context.Background(), Match{TableID: "cezve"}))
	assert.NoError(t, svc.Close())
}

func TestUnknownDriverFails(t *testing.T) {
	_, err := NewService(Config{Driver: "mongodb"}, testLogger())
	assert.Error(t, err)
}

func TestSQLiteRequiresPath(t *testing.T) {
	_, err := NewService(Config{Driver: "sqlite"}, testLogger())
	assert.Error(t, err)
}

func TestSQLiteRecordMatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "matches.db")
	svc, err := NewService(Config{Driver: "sqlite", SQLitePath: path}, testLogger())
	require.NoError(t, err)
	defer svc.Close()

	now := time.Now()
	err = svc.RecordMatch(context.Background(), Match{
		TableID:      "cezve",
		GameType:     engine.GameSpades,
		StartedAt:    now.Add(-20 * time.Minute),
		EndedAt:      now,
		Winners:      []int{0},
		FinalScores:  []int{320, 180},
		RoundsPlayed: 9,
	})
	require.NoError(t, err)

	sqlSvc := svc.(*sqlService)
	var count int
	require.NoError(t, sqlSvc.db.QueryRow("SELECT COUNT(*) FROM matches").Scan(&count))
	assert.Equal(t, 1, count)

	var winners, scores string
	require.NoError(t, sqlSvc.db.QueryRow(
		"SELECT winners, final_scores FROM matches WHERE table_id = ?", "cezve",
	).Scan(&winners, &scores))
	assert.Equal(t, "0", winners)
	assert.Equal(t, "320,180", scores)
}

func TestJoinInts(t *testing.T) {
	assert.Equal(t, "", joinInts(nil))
	assert.Equal(t, "5", joinInts([]int{5}))
	assert.Equal(t, "-30,120,0", joinInts([]int{-30, 120, 0}))
}
