package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pushtimer/pushtimer/internal/models"
)

func TestLoadCreatesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.TimerMinutes != DefaultTimerMinutes {
		t.Errorf("expected timer_minutes %d, got %d", DefaultTimerMinutes, cfg.TimerMinutes)
	}
	if cfg.DailyGoal != DefaultDailyGoal {
		t.Errorf("expected daily_goal %d, got %d", DefaultDailyGoal, cfg.DailyGoal)
	}
	if cfg.AggregateMode != DefaultAggregateMode {
		t.Errorf("expected aggregate_mode %s, got %s", DefaultAggregateMode, cfg.AggregateMode)
	}
	if !cfg.Autostart || !cfg.StartMinimized || !cfg.SoundEnabled {
		t.Errorf("expected boolean defaults true, got %+v", cfg)
	}
	if cfg.Theme != DefaultTheme {
		t.Errorf("expected theme %s, got %s", DefaultTheme, cfg.Theme)
	}
	if cfg.RecapSchedule != DefaultRecapSchedule {
		t.Errorf("expected recap_schedule %s, got %s", DefaultRecapSchedule, cfg.RecapSchedule)
	}

	// First run persists the defaults so there is a file to edit.
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected config file to be created: %v", err)
	}
}

func TestLoadExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	content := `{"timer_minutes": 45, "aggregate_mode": "replace", "daily_goal": 200}`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.TimerMinutes != 45 {
		t.Errorf("expected timer_minutes 45, got %d", cfg.TimerMinutes)
	}
	if cfg.Mode() != models.AggregateModeReplace {
		t.Errorf("expected mode replace, got %s", cfg.Mode())
	}
	if cfg.DailyGoal != 200 {
		t.Errorf("expected daily_goal 200, got %d", cfg.DailyGoal)
	}
	// Missing keys still fall back to defaults.
	if cfg.GraceSeconds != DefaultGraceSeconds {
		t.Errorf("expected grace_seconds %d, got %d", DefaultGraceSeconds, cfg.GraceSeconds)
	}
}

func TestLoadInvalidAggregateModeFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"aggregate_mode": "subtract"}`), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Mode() != models.AggregateModeAdd {
		t.Errorf("expected fallback mode add, got %s", cfg.Mode())
	}
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{not json`), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Error("expected error for malformed config file")
	}
}

func TestDurationAccessors(t *testing.T) {
	cfg := &Config{TimerMinutes: 35, GraceSeconds: 10, TimeoutSeconds: 120, SnoozeMinutes: 5}

	if cfg.Interval() != 35*time.Minute {
		t.Errorf("expected interval 35m, got %v", cfg.Interval())
	}
	if cfg.GracePeriod() != 10*time.Second {
		t.Errorf("expected grace period 10s, got %v", cfg.GracePeriod())
	}
	if cfg.DecisionTimeout() != 120*time.Second {
		t.Errorf("expected decision timeout 120s, got %v", cfg.DecisionTimeout())
	}
	if cfg.SnoozeDelay() != 5*time.Minute {
		t.Errorf("expected snooze delay 5m, got %v", cfg.SnoozeDelay())
	}
}
