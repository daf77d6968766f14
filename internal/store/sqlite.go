// Package store provides storage backends for the pushup ledger.
//
// This file implements the SQLite-backed store.
package store

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "embed"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pushtimer/pushtimer/internal/models"
)

// DefaultDirPermissions defines the default permissions for database directories.
const DefaultDirPermissions = 0755

//go:embed migrations_sqlite.sql
var sqliteMigrations string

type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite store with the given DSN.
// The DSN should be a file path to the SQLite database file.
// If the directory doesn't exist, it will be created.
func NewSQLiteStore(opts ...Option) (*SQLiteStore, error) {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	slog.Debug("NewSQLiteStore invoked", "DSN_set", cfg.DSN != "")

	dsn := cfg.DSN
	if dsn == "" {
		slog.Error("SQLiteStore DSN not set")
		return nil, fmt.Errorf("database DSN not set")
	}

	dir := filepath.Dir(dsn)
	if err := os.MkdirAll(dir, DefaultDirPermissions); err != nil {
		slog.Error("Failed to create database directory", "error", err, "dir", dir)
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		slog.Error("Failed to open SQLite connection", "error", err)
		return nil, err
	}

	// SQLite allows a single writer; funneling every operation through one
	// pooled connection serializes concurrent writers (scheduler + sync HTTP)
	// without application-level locking.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		slog.Error("SQLite ping failed", "error", err)
		return nil, err
	}

	// Run migrations to ensure the pushups table exists
	if _, err := db.Exec(sqliteMigrations); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	slog.Debug("SQLite migrations applied successfully")

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) AddRecord(date string, count int, ts time.Time) (int64, error) {
	res, err := s.db.Exec(`INSERT INTO pushups (date, count, timestamp) VALUES (?, ?, ?)`,
		date, count, ts.Format(time.RFC3339Nano))
	if err != nil {
		slog.Error("SQLiteStore AddRecord failed", "error", err, "date", date)
		return 0, fmt.Errorf("failed to insert record for %s: %w", date, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		slog.Error("SQLiteStore AddRecord last insert id failed", "error", err)
		return 0, fmt.Errorf("failed to read inserted record id: %w", err)
	}
	slog.Debug("SQLiteStore AddRecord succeeded", "id", id, "date", date, "count", count)
	return id, nil
}

func (s *SQLiteStore) DeleteDay(date string) error {
	_, err := s.db.Exec(`DELETE FROM pushups WHERE date = ?`, date)
	if err != nil {
		slog.Error("SQLiteStore DeleteDay failed", "error", err, "date", date)
		return fmt.Errorf("failed to delete records for %s: %w", date, err)
	}
	slog.Debug("SQLiteStore DeleteDay succeeded", "date", date)
	return nil
}

// OverwriteDay replaces all records for date with a single record inside one
// transaction, so a concurrent reader never observes the day half-replaced.
func (s *SQLiteStore) OverwriteDay(date string, count int, ts time.Time) error {
	tx, err := s.db.Begin()
	if err != nil {
		slog.Error("SQLiteStore OverwriteDay begin failed", "error", err, "date", date)
		return fmt.Errorf("failed to begin overwrite for %s: %w", date, err)
	}
	if _, err := tx.Exec(`DELETE FROM pushups WHERE date = ?`, date); err != nil {
		tx.Rollback()
		slog.Error("SQLiteStore OverwriteDay delete failed", "error", err, "date", date)
		return fmt.Errorf("failed to clear records for %s: %w", date, err)
	}
	if _, err := tx.Exec(`INSERT INTO pushups (date, count, timestamp) VALUES (?, ?, ?)`,
		date, count, ts.Format(time.RFC3339Nano)); err != nil {
		tx.Rollback()
		slog.Error("SQLiteStore OverwriteDay insert failed", "error", err, "date", date)
		return fmt.Errorf("failed to insert record for %s: %w", date, err)
	}
	if err := tx.Commit(); err != nil {
		slog.Error("SQLiteStore OverwriteDay commit failed", "error", err, "date", date)
		return fmt.Errorf("failed to commit overwrite for %s: %w", date, err)
	}
	slog.Debug("SQLiteStore OverwriteDay succeeded", "date", date, "count", count)
	return nil
}

func (s *SQLiteStore) DayTotal(date string) (int, error) {
	var total sql.NullInt64
	err := s.db.QueryRow(`SELECT SUM(count) FROM pushups WHERE date = ?`, date).Scan(&total)
	if err != nil {
		slog.Error("SQLiteStore DayTotal failed", "error", err, "date", date)
		return 0, fmt.Errorf("failed to query day total for %s: %w", date, err)
	}
	return int(total.Int64), nil
}

func (s *SQLiteStore) DailyTotals() ([]models.DailyTotal, error) {
	rows, err := s.db.Query(`SELECT date, SUM(count) FROM pushups GROUP BY date ORDER BY date`)
	if err != nil {
		slog.Error("SQLiteStore DailyTotals query failed", "error", err)
		return nil, fmt.Errorf("failed to query daily totals: %w", err)
	}
	defer rows.Close()

	var totals []models.DailyTotal
	for rows.Next() {
		var t models.DailyTotal
		if err := rows.Scan(&t.Date, &t.Count); err != nil {
			slog.Error("SQLiteStore DailyTotals scan failed", "error", err)
			return nil, fmt.Errorf("failed to scan daily total row: %w", err)
		}
		totals = append(totals, t)
	}
	if err := rows.Err(); err != nil {
		slog.Error("SQLiteStore DailyTotals rows iteration failed", "error", err)
		return nil, fmt.Errorf("failed to iterate daily total rows: %w", err)
	}
	slog.Debug("SQLiteStore DailyTotals succeeded", "days", len(totals))
	return totals, nil
}

func (s *SQLiteStore) RecentRecords(date string, limit int) ([]models.PushupRecord, error) {
	rows, err := s.db.Query(
		`SELECT id, date, count, timestamp FROM pushups WHERE date = ? ORDER BY timestamp DESC LIMIT ?`,
		date, limit)
	if err != nil {
		slog.Error("SQLiteStore RecentRecords query failed", "error", err, "date", date)
		return nil, fmt.Errorf("failed to query recent records: %w", err)
	}
	defer rows.Close()

	var records []models.PushupRecord
	for rows.Next() {
		var r models.PushupRecord
		var ts string
		if err := rows.Scan(&r.ID, &r.Date, &r.Count, &ts); err != nil {
			slog.Error("SQLiteStore RecentRecords scan failed", "error", err)
			return nil, fmt.Errorf("failed to scan record row: %w", err)
		}
		r.Timestamp, err = time.Parse(time.RFC3339Nano, ts)
		if err != nil {
			slog.Error("SQLiteStore RecentRecords timestamp parse failed", "error", err, "timestamp", ts)
			return nil, fmt.Errorf("failed to parse record timestamp: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		slog.Error("SQLiteStore RecentRecords rows iteration failed", "error", err)
		return nil, fmt.Errorf("failed to iterate record rows: %w", err)
	}
	return records, nil
}

// Close closes the SQLite database connection.
func (s *SQLiteStore) Close() error {
	slog.Debug("Closing SQLite database connection")
	err := s.db.Close()
	if err != nil {
		slog.Error("Failed to close SQLite database", "error", err)
	}
	return err
}
