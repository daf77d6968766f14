// Package scheduler timer plumbing for one-shot scheduled actions.
package scheduler

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// SimpleTimer schedules one-shot functions using Go's standard time package.
// Timers are tracked by id so pending ones can be cancelled individually.
type SimpleTimer struct {
	timers map[string]*time.Timer
	mu     sync.Mutex
}

// NewSimpleTimer creates a new SimpleTimer.
func NewSimpleTimer() *SimpleTimer {
	return &SimpleTimer{timers: make(map[string]*time.Timer)}
}

// ScheduleAfter schedules fn to run after delay and returns the timer id.
func (t *SimpleTimer) ScheduleAfter(delay time.Duration, fn func()) string {
	id := uuid.New().String()
	timer := time.AfterFunc(delay, func() {
		t.mu.Lock()
		delete(t.timers, id)
		t.mu.Unlock()
		fn()
	})
	t.mu.Lock()
	t.timers[id] = timer
	t.mu.Unlock()
	slog.Debug("SimpleTimer ScheduleAfter", "id", id, "delay", delay)
	return id
}

// Cancel stops a scheduled timer by id. Cancelling an unknown or already-fired
// timer is a no-op.
func (t *SimpleTimer) Cancel(id string) {
	if id == "" {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if timer, ok := t.timers[id]; ok {
		timer.Stop()
		delete(t.timers, id)
		slog.Debug("SimpleTimer Cancel succeeded", "id", id)
	}
}

// Stop cancels all scheduled timers.
func (t *SimpleTimer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for id, timer := range t.timers {
		timer.Stop()
		delete(t.timers, id)
	}
	slog.Debug("SimpleTimer stopped all timers")
}

// Active returns the number of pending timers.
func (t *SimpleTimer) Active() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.timers)
}
