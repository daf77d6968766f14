// Package models defines the core data structures for pushtimer.
//
// It includes the pushup ledger records, scheduler state types, and the
// shared API response envelope used across modules.
package models

import (
	"errors"
	"time"
)

// DateFormat is the canonical calendar-day format used as the aggregation key.
const DateFormat = "2006-01-02"

// Validation constants for input validation
const (
	// MaxPushupCount is the largest count accepted for a single record (manual edits included).
	MaxPushupCount = 9999
	// MaxSyncLogCount is the largest count accepted through the phone sync endpoint.
	MaxSyncLogCount = 999
)

// Error variables for better error handling and testability
var (
	ErrNegativeCount        = errors.New("count cannot be negative")
	ErrCountTooLarge        = errors.New("count exceeds maximum")
	ErrInvalidDate          = errors.New("date must be formatted as YYYY-MM-DD")
	ErrInvalidAggregateMode = errors.New("invalid aggregate mode")
)

// AggregateMode governs how a same-day re-log is applied to the day total.
type AggregateMode string

const (
	// AggregateModeAdd appends a new record; the day total is the sum of all records.
	AggregateModeAdd AggregateMode = "add"
	// AggregateModeReplace collapses the day to a single record with the new count.
	AggregateModeReplace AggregateMode = "replace"
)

// IsValidAggregateMode checks if the given aggregate mode is supported.
func IsValidAggregateMode(m AggregateMode) bool {
	switch m {
	case AggregateModeAdd, AggregateModeReplace:
		return true
	default:
		return false
	}
}

// PushupRecord is a single logging event. Multiple records may share a date in
// add mode; an overwrite collapses a date back to one record.
type PushupRecord struct {
	ID        int64     `json:"id"`
	Date      string    `json:"date"`
	Count     int       `json:"count"`
	Timestamp time.Time `json:"timestamp"`
}

// DailyTotal is the summed count for one calendar day that has at least one record.
type DailyTotal struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// Stats summarizes the whole ledger.
//
// Average divides by the number of days that have data; WeeklyAverage always
// divides the last 7 calendar days by 7, counting missing days as zero.
type Stats struct {
	Total         int     `json:"total"`
	BestDay       int     `json:"best_day"`
	Average       float64 `json:"avg"`
	WeeklyAverage float64 `json:"weekly_avg"`
}

// ValidateCount checks a pushup count against the ledger bounds.
func ValidateCount(count, max int) error {
	if count < 0 {
		return ErrNegativeCount
	}
	if count > max {
		return ErrCountTooLarge
	}
	return nil
}

// ParseDate validates a calendar-day string and normalizes it to DateFormat.
func ParseDate(s string) (string, error) {
	t, err := time.Parse(DateFormat, s)
	if err != nil {
		return "", ErrInvalidDate
	}
	return t.Format(DateFormat), nil
}
