// Package config loads and persists the pushtimer configuration file.
//
// The configuration is a single JSON object stored in the user's config
// directory. Missing keys fall back to defaults, and the file is created with
// the defaults on first run so users have something to edit.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/pushtimer/pushtimer/internal/models"
)

// DefaultFileName is the configuration file name inside the config directory.
const DefaultFileName = "config.json"

// Default values for every configuration key.
const (
	DefaultTimerMinutes   = 35
	DefaultGraceSeconds   = 10
	DefaultTimeoutSeconds = 120
	DefaultSnoozeMinutes  = 5
	DefaultDailyGoal      = 100
	DefaultAggregateMode  = string(models.AggregateModeAdd)
	DefaultTheme          = "dark"
	DefaultRecapSchedule  = "0 21 * * *"
)

// Config is the typed view over the persisted configuration record.
type Config struct {
	TimerMinutes   int    `mapstructure:"timer_minutes"`
	GraceSeconds   int    `mapstructure:"grace_seconds"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
	SnoozeMinutes  int    `mapstructure:"snooze_minutes"`
	DailyGoal      int    `mapstructure:"daily_goal"`
	AggregateMode  string `mapstructure:"aggregate_mode"`
	Autostart      bool   `mapstructure:"autostart"`
	StartMinimized bool   `mapstructure:"start_minimized"`
	Theme          string `mapstructure:"theme"`
	SoundEnabled   bool   `mapstructure:"sound_enabled"`
	RecapSchedule  string `mapstructure:"recap_schedule"`
}

// Load reads the configuration file at path, creating it with defaults if it
// does not exist.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")

	v.SetDefault("timer_minutes", DefaultTimerMinutes)
	v.SetDefault("grace_seconds", DefaultGraceSeconds)
	v.SetDefault("timeout_seconds", DefaultTimeoutSeconds)
	v.SetDefault("snooze_minutes", DefaultSnoozeMinutes)
	v.SetDefault("daily_goal", DefaultDailyGoal)
	v.SetDefault("aggregate_mode", DefaultAggregateMode)
	v.SetDefault("autostart", true)
	v.SetDefault("start_minimized", true)
	v.SetDefault("theme", DefaultTheme)
	v.SetDefault("sound_enabled", true)
	v.SetDefault("recap_schedule", DefaultRecapSchedule)

	if err := v.ReadInConfig(); err != nil {
		if _, statErr := os.Stat(path); os.IsNotExist(statErr) {
			slog.Info("Config file not found, writing defaults", "path", path)
			if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
				return nil, fmt.Errorf("failed to create config directory: %w", err)
			}
			if err := v.WriteConfigAs(path); err != nil {
				return nil, fmt.Errorf("failed to write default config: %w", err)
			}
		} else {
			slog.Error("Failed to read config file", "error", err, "path", path)
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		slog.Error("Failed to unmarshal config", "error", err, "path", path)
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if !models.IsValidAggregateMode(models.AggregateMode(cfg.AggregateMode)) {
		slog.Warn("Invalid aggregate_mode in config, falling back to add", "aggregate_mode", cfg.AggregateMode)
		cfg.AggregateMode = DefaultAggregateMode
	}

	slog.Debug("Config loaded", "path", path,
		"timer_minutes", cfg.TimerMinutes, "daily_goal", cfg.DailyGoal, "aggregate_mode", cfg.AggregateMode)
	return &cfg, nil
}

// Interval returns the reminder period.
func (c *Config) Interval() time.Duration {
	return time.Duration(c.TimerMinutes) * time.Minute
}

// GracePeriod returns the window during which dismissing a reminder is a no-op.
func (c *Config) GracePeriod() time.Duration {
	return time.Duration(c.GraceSeconds) * time.Second
}

// DecisionTimeout returns the auto-dismiss window for a fired reminder.
func (c *Config) DecisionTimeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// SnoozeDelay returns the one-shot wake delay after a snooze.
func (c *Config) SnoozeDelay() time.Duration {
	return time.Duration(c.SnoozeMinutes) * time.Minute
}

// Mode returns the configured aggregate mode.
func (c *Config) Mode() models.AggregateMode {
	return models.AggregateMode(c.AggregateMode)
}
