// Package store provides storage backends for the pushup ledger.
//
// This file implements the PostgreSQL-backed store.
package store

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "embed"

	_ "github.com/lib/pq"

	"github.com/pushtimer/pushtimer/internal/models"
)

// Database connection pool configuration constants
const (
	// DefaultMaxOpenConns is the default maximum number of open connections to the database
	DefaultMaxOpenConns = 25
	// DefaultMaxIdleConns is the default maximum number of idle connections in the pool
	DefaultMaxIdleConns = 25
	// DefaultConnMaxLifetime is the default maximum amount of time a connection may be reused
	DefaultConnMaxLifetime = 5 * time.Minute
)

//go:embed migrations_postgres.sql
var postgresMigrations string

type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a new Postgres store based on provided options.
func NewPostgresStore(opts ...Option) (*PostgresStore, error) {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	slog.Debug("PostgresStore.NewPostgresStore: creating Postgres store", "DSN_set", cfg.DSN != "")

	dsn := cfg.DSN
	if dsn == "" {
		slog.Error("PostgresStore DSN not set")
		return nil, fmt.Errorf("database DSN not set")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		slog.Error("Failed to open Postgres connection", "error", err)
		return nil, err
	}

	db.SetMaxOpenConns(DefaultMaxOpenConns)
	db.SetMaxIdleConns(DefaultMaxIdleConns)
	db.SetConnMaxLifetime(DefaultConnMaxLifetime)

	if err := db.Ping(); err != nil {
		slog.Error("Postgres ping failed", "error", err)
		return nil, err
	}

	// Run migrations to ensure the pushups table exists
	if _, err := db.Exec(postgresMigrations); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	slog.Debug("Postgres migrations applied successfully")

	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) AddRecord(date string, count int, ts time.Time) (int64, error) {
	var id int64
	err := s.db.QueryRow(
		`INSERT INTO pushups (date, count, timestamp) VALUES ($1, $2, $3) RETURNING id`,
		date, count, ts).Scan(&id)
	if err != nil {
		slog.Error("PostgresStore AddRecord failed", "error", err, "date", date)
		return 0, fmt.Errorf("failed to insert record for %s: %w", date, err)
	}
	slog.Debug("PostgresStore AddRecord succeeded", "id", id, "date", date, "count", count)
	return id, nil
}

func (s *PostgresStore) DeleteDay(date string) error {
	_, err := s.db.Exec(`DELETE FROM pushups WHERE date = $1`, date)
	if err != nil {
		slog.Error("PostgresStore DeleteDay failed", "error", err, "date", date)
		return fmt.Errorf("failed to delete records for %s: %w", date, err)
	}
	return nil
}

// OverwriteDay replaces all records for date with a single record inside one transaction.
func (s *PostgresStore) OverwriteDay(date string, count int, ts time.Time) error {
	tx, err := s.db.Begin()
	if err != nil {
		slog.Error("PostgresStore OverwriteDay begin failed", "error", err, "date", date)
		return fmt.Errorf("failed to begin overwrite for %s: %w", date, err)
	}
	if _, err := tx.Exec(`DELETE FROM pushups WHERE date = $1`, date); err != nil {
		tx.Rollback()
		slog.Error("PostgresStore OverwriteDay delete failed", "error", err, "date", date)
		return fmt.Errorf("failed to clear records for %s: %w", date, err)
	}
	if _, err := tx.Exec(`INSERT INTO pushups (date, count, timestamp) VALUES ($1, $2, $3)`,
		date, count, ts); err != nil {
		tx.Rollback()
		slog.Error("PostgresStore OverwriteDay insert failed", "error", err, "date", date)
		return fmt.Errorf("failed to insert record for %s: %w", date, err)
	}
	if err := tx.Commit(); err != nil {
		slog.Error("PostgresStore OverwriteDay commit failed", "error", err, "date", date)
		return fmt.Errorf("failed to commit overwrite for %s: %w", date, err)
	}
	return nil
}

func (s *PostgresStore) DayTotal(date string) (int, error) {
	var total sql.NullInt64
	err := s.db.QueryRow(`SELECT SUM(count) FROM pushups WHERE date = $1`, date).Scan(&total)
	if err != nil {
		slog.Error("PostgresStore DayTotal failed", "error", err, "date", date)
		return 0, fmt.Errorf("failed to query day total for %s: %w", date, err)
	}
	return int(total.Int64), nil
}

func (s *PostgresStore) DailyTotals() ([]models.DailyTotal, error) {
	rows, err := s.db.Query(`SELECT date, SUM(count) FROM pushups GROUP BY date ORDER BY date`)
	if err != nil {
		slog.Error("PostgresStore DailyTotals query failed", "error", err)
		return nil, fmt.Errorf("failed to query daily totals: %w", err)
	}
	defer rows.Close()

	var totals []models.DailyTotal
	for rows.Next() {
		var t models.DailyTotal
		if err := rows.Scan(&t.Date, &t.Count); err != nil {
			slog.Error("PostgresStore DailyTotals scan failed", "error", err)
			return nil, fmt.Errorf("failed to scan daily total row: %w", err)
		}
		totals = append(totals, t)
	}
	if err := rows.Err(); err != nil {
		slog.Error("PostgresStore DailyTotals rows iteration failed", "error", err)
		return nil, fmt.Errorf("failed to iterate daily total rows: %w", err)
	}
	return totals, nil
}

func (s *PostgresStore) RecentRecords(date string, limit int) ([]models.PushupRecord, error) {
	rows, err := s.db.Query(
		`SELECT id, date, count, timestamp FROM pushups WHERE date = $1 ORDER BY timestamp DESC LIMIT $2`,
		date, limit)
	if err != nil {
		slog.Error("PostgresStore RecentRecords query failed", "error", err, "date", date)
		return nil, fmt.Errorf("failed to query recent records: %w", err)
	}
	defer rows.Close()

	var records []models.PushupRecord
	for rows.Next() {
		var r models.PushupRecord
		if err := rows.Scan(&r.ID, &r.Date, &r.Count, &r.Timestamp); err != nil {
			slog.Error("PostgresStore RecentRecords scan failed", "error", err)
			return nil, fmt.Errorf("failed to scan record row: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		slog.Error("PostgresStore RecentRecords rows iteration failed", "error", err)
		return nil, fmt.Errorf("failed to iterate record rows: %w", err)
	}
	return records, nil
}

// Close closes the Postgres database connection.
func (s *PostgresStore) Close() error {
	slog.Debug("Closing Postgres database connection")
	return s.db.Close()
}
