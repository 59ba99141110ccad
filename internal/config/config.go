package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/alexanderramin/cadence/internal/scheduler"
	"github.com/caarlos0/env/v11"
)

// Config holds everything the cadence binary reads from the environment.
type Config struct {
	// DBPath defaults to ~/.cadence/cadence.db when unset.
	DBPath      string `env:"CADENCE_DB"`
	UserID      string `env:"CADENCE_USER" envDefault:"default"`
	LogLevel    string `env:"CADENCE_LOG_LEVEL" envDefault:"info"`
	LogUseCases bool   `env:"CADENCE_LOG_USE_CASES" envDefault:"false"`

	SuggestionLimit int `env:"CADENCE_SUGGESTION_LIMIT" envDefault:"5"`
	RedistributeMax int `env:"CADENCE_REDISTRIBUTE_MAX" envDefault:"5"`

	Quality QualityConfig
}

type QualityConfig struct {
	DayShareMaxPct     int `env:"CADENCE_QUALITY_DAY_SHARE_MAX_PCT" envDefault:"40"`
	MaxBackToBackFixed int `env:"CADENCE_QUALITY_MAX_BACK_TO_BACK_FIXED" envDefault:"2"`
	MaxFocusMinutes    int `env:"CADENCE_QUALITY_MAX_FOCUS_MINUTES" envDefault:"90"`
}

// Load parses the environment and fills in derived defaults.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.DBPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Config{}, fmt.Errorf("finding home directory: %w", err)
		}
		cfg.DBPath = filepath.Join(home, ".cadence", "cadence.db")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.UserID) == "" {
		return fmt.Errorf("CADENCE_USER must not be empty")
	}
	if c.SuggestionLimit <= 0 {
		return fmt.Errorf("CADENCE_SUGGESTION_LIMIT must be positive, got %d", c.SuggestionLimit)
	}
	if c.RedistributeMax <= 0 {
		return fmt.Errorf("CADENCE_REDISTRIBUTE_MAX must be positive, got %d", c.RedistributeMax)
	}
	q := c.Quality
	if q.DayShareMaxPct <= 0 || q.DayShareMaxPct > 100 {
		return fmt.Errorf("CADENCE_QUALITY_DAY_SHARE_MAX_PCT must be in 1-100, got %d", q.DayShareMaxPct)
	}
	if q.MaxBackToBackFixed <= 0 || q.MaxFocusMinutes <= 0 {
		return fmt.Errorf("quality thresholds must be positive")
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// SchedulerQuality converts the env thresholds into the heuristics config.
func (c Config) SchedulerQuality() scheduler.QualityConfig {
	return scheduler.QualityConfig{
		DayShareMaxPct:     c.Quality.DayShareMaxPct,
		MaxBackToBackFixed: c.Quality.MaxBackToBackFixed,
		MaxFocusMinutes:    c.Quality.MaxFocusMinutes,
	}
}

// ParseLevel maps CADENCE_LOG_LEVEL onto a slog level.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("CADENCE_LOG_LEVEL: %w", err)
	}
	return level, nil
}

// NewLogger builds the process logger writing text records to w.
func (c Config) NewLogger(w io.Writer) *slog.Logger {
	level, err := ParseLevel(c.LogLevel)
	if err != nil {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
