package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.Port)
	assert.Equal(t, "dev", cfg.Env)
	assert.True(t, cfg.Dev())
	assert.Empty(t, cfg.AllowedOrigins)
	assert.Equal(t, "off", cfg.HistoryDriver)
	assert.Zero(t, cfg.HeartsEndingScore)
}

func TestPortAndEnv(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("TRICKTABLE_ENV", "prod")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
	assert.False(t, cfg.Dev())
}

func TestInvalidPort(t *testing.T) {
	for _, bad := range []string{"abc", "-1", "0", "70000"} {
		t.Setenv("PORT", bad)
		_, err := FromEnv()
		assert.Error(t, err, "PORT=%s", bad)
	}
}

func TestAllowedOriginsSplit(t *testing.T) {
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example ,")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
}

func TestHeartsEndingScore(t *testing.T) {
	t.Setenv("HEARTS_ENDING_SCORE", "100")
	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, 100, cfg.HeartsEndingScore)

	t.Setenv("HEARTS_ENDING_SCORE", "zero")
	_, err = FromEnv()
	assert.Error(t, err)
}

func TestHistoryDriverValidation(t *testing.T) {
	t.Setenv("HISTORY_DRIVER", "sqlite")
	t.Setenv("HISTORY_SQLITE_PATH", "/tmp/matches.db")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.HistoryDriver)
	assert.Equal(t, "/tmp/matches.db", cfg.HistorySQLitePath)

	t.Setenv("HISTORY_DRIVER", "mongodb")
	_, err = FromEnv()
	assert.Error(t, err)
}
