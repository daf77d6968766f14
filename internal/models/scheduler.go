// Package models defines scheduler state and outcome types for pushtimer.
package models

import "time"

// SchedulerState identifies the reminder state machine's current state.
type SchedulerState string

const (
	// StateIdle means the interval timer is running and no reminder is pending.
	StateIdle SchedulerState = "idle"
	// StateAwaitingDecision means a reminder fired and is waiting for user input.
	StateAwaitingDecision SchedulerState = "awaiting_decision"
	// StateSnoozed means a one-shot wake is scheduled after a short delay.
	StateSnoozed SchedulerState = "snoozed"
	// StatePaused means the interval clock is stopped; countdown progress is discarded.
	StatePaused SchedulerState = "paused"
)

// OutcomeKind tags a ReminderOutcome variant.
type OutcomeKind string

const (
	// OutcomeLog records the user-entered count.
	OutcomeLog OutcomeKind = "log"
	// OutcomeSkip records a zero-count entry.
	OutcomeSkip OutcomeKind = "skip"
	// OutcomeSnooze defers the reminder without touching the ledger.
	OutcomeSnooze OutcomeKind = "snooze"
	// OutcomeCancel dismisses the reminder inside the grace window; no write, cadence unchanged.
	OutcomeCancel OutcomeKind = "cancel"
)

// ReminderOutcome is the user's decision for a fired reminder. Count is only
// meaningful for OutcomeLog.
type ReminderOutcome struct {
	Kind  OutcomeKind `json:"kind"`
	Count int         `json:"count,omitempty"`
}

// LogOutcome builds a log-N outcome.
func LogOutcome(count int) ReminderOutcome {
	return ReminderOutcome{Kind: OutcomeLog, Count: count}
}

// SchedulerStatus is a point-in-time snapshot of the reminder state machine.
type SchedulerStatus struct {
	State        SchedulerState `json:"state"`
	Interval     string         `json:"interval"`
	NextFireTime time.Time      `json:"next_fire_time,omitempty"`
	Pending      bool           `json:"pending_decision"`
}
