// Package store provides storage backends for the pushup ledger.
//
// It includes an SQLite-backed store (default) and a PostgreSQL-backed store,
// selected by DSN. Both expose the same Store interface over a single pushups
// table keyed by surrogate id with a secondary index on date.
package store

import (
	"strings"
	"time"

	"github.com/pushtimer/pushtimer/internal/models"
)

// Store is the persistence interface consumed by the ledger.
//
// database/sql hands each call its own pooled connection, so concurrent
// writers (scheduler thread, HTTP sync handler) never share a handle.
type Store interface {
	// AddRecord inserts a new record and returns its assigned id.
	AddRecord(date string, count int, ts time.Time) (int64, error)
	// DeleteDay removes all records for the given date.
	DeleteDay(date string) error
	// OverwriteDay atomically replaces all records for date with a single record.
	OverwriteDay(date string, count int, ts time.Time) error
	// DayTotal returns the summed count for date, 0 when no records exist.
	DayTotal(date string) (int, error)
	// DailyTotals returns one entry per distinct date with records, ascending by date.
	DailyTotals() ([]models.DailyTotal, error)
	// RecentRecords returns up to limit records for date, newest first.
	RecentRecords(date string, limit int) ([]models.PushupRecord, error)
	// Close releases the underlying database handle.
	Close() error
}

// Opts holds configuration options for store backends.
type Opts struct {
	DSN string
}

// Option configures store creation.
type Option func(*Opts)

// WithSQLiteDSN sets a SQLite file path as the store DSN.
func WithSQLiteDSN(dsn string) Option {
	return func(o *Opts) { o.DSN = dsn }
}

// WithPostgresDSN sets a PostgreSQL connection string as the store DSN.
func WithPostgresDSN(dsn string) Option {
	return func(o *Opts) { o.DSN = dsn }
}

// DetectDSNType classifies a DSN as "postgres" or "sqlite".
// PostgreSQL DSNs use URL or key=value forms; anything else is treated as a
// SQLite file path.
func DetectDSNType(dsn string) string {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") || strings.Contains(dsn, "host=") {
		return "postgres"
	}
	return "sqlite"
}
