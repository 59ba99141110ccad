package config

import (
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("CADENCE_DB", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "default", cfg.UserID)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.LogUseCases)
	assert.Equal(t, 5, cfg.SuggestionLimit)
	assert.Equal(t, 5, cfg.RedistributeMax)
	assert.Equal(t, 40, cfg.Quality.DayShareMaxPct)
	assert.Equal(t, 2, cfg.Quality.MaxBackToBackFixed)
	assert.Equal(t, 90, cfg.Quality.MaxFocusMinutes)
	assert.Equal(t, filepath.Join(".cadence", "cadence.db"), filepath.Join(filepath.Base(filepath.Dir(cfg.DBPath)), filepath.Base(cfg.DBPath)))
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("CADENCE_DB", "/tmp/plan.db")
	t.Setenv("CADENCE_USER", "parent-1")
	t.Setenv("CADENCE_LOG_LEVEL", "debug")
	t.Setenv("CADENCE_LOG_USE_CASES", "true")
	t.Setenv("CADENCE_SUGGESTION_LIMIT", "3")
	t.Setenv("CADENCE_QUALITY_MAX_FOCUS_MINUTES", "45")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/plan.db", cfg.DBPath)
	assert.Equal(t, "parent-1", cfg.UserID)
	assert.True(t, cfg.LogUseCases)
	assert.Equal(t, 3, cfg.SuggestionLimit)

	q := cfg.SchedulerQuality()
	assert.Equal(t, 45, q.MaxFocusMinutes)
	assert.Equal(t, 40, q.DayShareMaxPct)

	level, err := ParseLevel(cfg.LogLevel)
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}

func TestLoad_ParseError(t *testing.T) {
	t.Setenv("CADENCE_DB", "/tmp/plan.db")
	t.Setenv("CADENCE_SUGGESTION_LIMIT", "lots")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse env:")
}

func TestLoad_RejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"zero suggestion limit", "CADENCE_SUGGESTION_LIMIT", "0"},
		{"negative redistribute max", "CADENCE_REDISTRIBUTE_MAX", "-1"},
		{"share over 100", "CADENCE_QUALITY_DAY_SHARE_MAX_PCT", "150"},
		{"unknown level", "CADENCE_LOG_LEVEL", "loud"},
		{"blank user", "CADENCE_USER", "  "},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("CADENCE_DB", "/tmp/plan.db")
			t.Setenv(tc.key, tc.val)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
