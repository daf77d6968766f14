// Package ledger implements the durable pushup ledger and its derived statistics.
//
// The ledger validates counts before they reach storage, applies the configured
// aggregate mode for same-day re-logging, and computes totals, streaks, and
// rolling averages from the daily totals the store returns.
package ledger

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/pushtimer/pushtimer/internal/models"
	"github.com/pushtimer/pushtimer/internal/store"
)

// Ledger wraps a Store with validation and aggregate queries.
type Ledger struct {
	st   store.Store
	now  func() time.Time
	mu   sync.RWMutex
	mode models.AggregateMode
}

// Option configures ledger creation.
type Option func(*Ledger)

// WithClock overrides the time source. Used by tests to pin "today".
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

// New creates a Ledger over the given store with the given aggregate mode.
func New(st store.Store, mode models.AggregateMode, opts ...Option) (*Ledger, error) {
	if !models.IsValidAggregateMode(mode) {
		return nil, models.ErrInvalidAggregateMode
	}
	l := &Ledger{st: st, mode: mode, now: time.Now}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// AggregateMode returns the currently configured aggregate mode.
func (l *Ledger) AggregateMode() models.AggregateMode {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.mode
}

// SetAggregateMode switches between add and replace for same-day re-logging.
func (l *Ledger) SetAggregateMode(mode models.AggregateMode) error {
	if !models.IsValidAggregateMode(mode) {
		return models.ErrInvalidAggregateMode
	}
	l.mu.Lock()
	l.mode = mode
	l.mu.Unlock()
	slog.Info("Ledger aggregate mode changed", "mode", mode)
	return nil
}

// Today returns the current local calendar day.
func (l *Ledger) Today() string {
	return l.now().Format(models.DateFormat)
}

// Append inserts a new record for date. Zero counts are valid and are recorded
// distinctly from the absence of an entry.
func (l *Ledger) Append(date string, count int) (int64, error) {
	date, err := models.ParseDate(date)
	if err != nil {
		return 0, err
	}
	if err := models.ValidateCount(count, models.MaxPushupCount); err != nil {
		return 0, err
	}
	id, err := l.st.AddRecord(date, count, l.now())
	if err != nil {
		return 0, fmt.Errorf("ledger append: %w", err)
	}
	slog.Debug("Ledger.Append: record stored", "id", id, "date", date, "count", count)
	return id, nil
}

// OverwriteDay collapses date to a single record holding count. Record identity
// does not survive an overwrite.
func (l *Ledger) OverwriteDay(date string, count int) error {
	date, err := models.ParseDate(date)
	if err != nil {
		return err
	}
	if err := models.ValidateCount(count, models.MaxPushupCount); err != nil {
		return err
	}
	if err := l.st.OverwriteDay(date, count, l.now()); err != nil {
		return fmt.Errorf("ledger overwrite: %w", err)
	}
	slog.Debug("Ledger.OverwriteDay: day replaced", "date", date, "count", count)
	return nil
}

// Log records count for today, honoring the configured aggregate mode.
func (l *Ledger) Log(count int) error {
	today := l.Today()
	if l.AggregateMode() == models.AggregateModeReplace {
		return l.OverwriteDay(today, count)
	}
	_, err := l.Append(today, count)
	return err
}

// TodayTotal returns the sum of counts for the current local date.
func (l *Ledger) TodayTotal() (int, error) {
	total, err := l.st.DayTotal(l.Today())
	if err != nil {
		return 0, fmt.Errorf("ledger today total: %w", err)
	}
	return total, nil
}

// AllDailyTotals returns one entry per distinct date with at least one record,
// ascending by date. Days with no records are absent, not zero.
func (l *Ledger) AllDailyTotals() ([]models.DailyTotal, error) {
	totals, err := l.st.DailyTotals()
	if err != nil {
		return nil, fmt.Errorf("ledger daily totals: %w", err)
	}
	return totals, nil
}

// RecentToday returns up to limit of today's records, newest first.
func (l *Ledger) RecentToday(limit int) ([]models.PushupRecord, error) {
	records, err := l.st.RecentRecords(l.Today(), limit)
	if err != nil {
		return nil, fmt.Errorf("ledger recent records: %w", err)
	}
	return records, nil
}
