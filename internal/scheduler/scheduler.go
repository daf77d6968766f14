// Package scheduler implements the reminder state machine for pushtimer.
//
// The scheduler fires on a fixed interval, hands the decision to a Notifier
// (the presentation layer), and commits the outcome to the ledger. At most one
// reminder is pending at a time; the interval timer is never re-armed while a
// decision is outstanding.
package scheduler

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/pushtimer/pushtimer/internal/ledger"
	"github.com/pushtimer/pushtimer/internal/models"
)

// Error variables for scheduler state violations.
var (
	ErrNoPendingReminder = errors.New("no reminder awaiting a decision")
	ErrGraceExpired      = errors.New("grace period has expired")
	ErrNotPaused         = errors.New("scheduler is not paused")
	ErrAlreadyPending    = errors.New("a reminder is already awaiting a decision")
)

// Notifier is the presentation collaborator. ReminderDue is invoked when a
// reminder fires; the presentation layer replies through Decide, Skip, Snooze,
// or CancelGrace. LogFailed surfaces ledger write errors for user-visible
// reporting; the cadence has already been rescheduled when it is called.
type Notifier interface {
	ReminderDue()
	RecapDue(total, goal int)
	LogFailed(err error)
}

// Options configures the reminder cadence and decision windows.
type Options struct {
	Interval        time.Duration
	GracePeriod     time.Duration
	DecisionTimeout time.Duration
	SnoozeDelay     time.Duration
	RecapSchedule   string // cron expression; empty disables the daily recap
	DailyGoal       int
}

// ReminderScheduler drives the Idle / AwaitingDecision / Snoozed / Paused
// state machine and persists reminder outcomes to the ledger.
type ReminderScheduler struct {
	ledger   *ledger.Ledger
	notifier Notifier
	opts     Options
	timer    *SimpleTimer
	cron     *cron.Cron

	mu            sync.Mutex
	state         models.SchedulerState
	nextFire      time.Time
	graceDeadline time.Time
	intervalID    string
	timeoutID     string
	snoozeID      string
}

// New creates a ReminderScheduler. Start must be called before reminders fire.
func New(l *ledger.Ledger, notifier Notifier, opts Options) *ReminderScheduler {
	return &ReminderScheduler{
		ledger:   l,
		notifier: notifier,
		opts:     opts,
		timer:    NewSimpleTimer(),
		state:    models.StatePaused,
	}
}

// Start arms the interval timer and starts the daily recap job.
func (s *ReminderScheduler) Start() error {
	s.mu.Lock()
	s.state = models.StateIdle
	s.armIntervalLocked(s.opts.Interval)
	s.mu.Unlock()

	if s.opts.RecapSchedule != "" {
		parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
		c := cron.New(cron.WithParser(parser), cron.WithChain(cron.Recover(cron.DefaultLogger)))
		if _, err := c.AddFunc(s.opts.RecapSchedule, s.recap); err != nil {
			slog.Error("ReminderScheduler.Start: invalid recap schedule", "error", err, "schedule", s.opts.RecapSchedule)
			return err
		}
		c.Start()
		s.cron = c
	}
	slog.Info("ReminderScheduler started", "interval", s.opts.Interval, "recap_schedule", s.opts.RecapSchedule)
	return nil
}

// Stop cancels all timers and stops the recap job.
func (s *ReminderScheduler) Stop() {
	s.mu.Lock()
	s.state = models.StatePaused
	s.nextFire = time.Time{}
	s.mu.Unlock()
	s.timer.Stop()
	if s.cron != nil {
		s.cron.Stop()
	}
	slog.Info("ReminderScheduler stopped")
}

// armIntervalLocked schedules the next reminder fire. Caller holds s.mu.
func (s *ReminderScheduler) armIntervalLocked(delay time.Duration) {
	s.nextFire = time.Now().Add(delay)
	s.intervalID = s.timer.ScheduleAfter(delay, s.fire)
}

// fire moves Idle to AwaitingDecision and notifies the presentation layer.
// The interval timer stays disarmed until the state leaves AwaitingDecision;
// nextFire keeps the tentative cadence so a grace cancel can continue it.
func (s *ReminderScheduler) fire() {
	s.mu.Lock()
	if s.state != models.StateIdle {
		// A second reminder must not fire while one is pending.
		s.mu.Unlock()
		slog.Warn("ReminderScheduler.fire: skipped, not idle", "state", s.state)
		return
	}
	now := time.Now()
	s.state = models.StateAwaitingDecision
	s.intervalID = ""
	s.nextFire = now.Add(s.opts.Interval)
	s.graceDeadline = now.Add(s.opts.GracePeriod)
	s.timeoutID = s.timer.ScheduleAfter(s.opts.DecisionTimeout, s.timeout)
	s.mu.Unlock()

	slog.Info("ReminderScheduler: reminder due")
	s.notifier.ReminderDue()
}

// TriggerNow fires a reminder immediately if the scheduler is idle.
func (s *ReminderScheduler) TriggerNow() error {
	s.mu.Lock()
	if s.state != models.StateIdle {
		state := s.state
		s.mu.Unlock()
		slog.Warn("ReminderScheduler.TriggerNow: not idle", "state", state)
		return ErrAlreadyPending
	}
	s.timer.Cancel(s.intervalID)
	s.intervalID = ""
	s.mu.Unlock()
	s.fire()
	return nil
}

// Decide commits the user-entered count and reschedules a full interval.
func (s *ReminderScheduler) Decide(count int) error {
	return s.resolve(models.LogOutcome(count))
}

// Skip records a zero-count entry and reschedules a full interval.
func (s *ReminderScheduler) Skip() error {
	return s.resolve(models.ReminderOutcome{Kind: models.OutcomeSkip})
}

// Snooze defers the pending reminder without a ledger write.
func (s *ReminderScheduler) Snooze() error {
	return s.resolve(models.ReminderOutcome{Kind: models.OutcomeSnooze})
}

// CancelGrace dismisses the pending reminder inside the grace window. No
// ledger write happens and the reminder cadence continues uninterrupted.
func (s *ReminderScheduler) CancelGrace() error {
	return s.resolve(models.ReminderOutcome{Kind: models.OutcomeCancel})
}

// timeout handles a reminder that expired with no response; it is a skip.
func (s *ReminderScheduler) timeout() {
	slog.Info("ReminderScheduler: reminder timed out, recording skip")
	if err := s.Skip(); err != nil && !errors.Is(err, ErrNoPendingReminder) {
		slog.Error("ReminderScheduler.timeout: skip failed", "error", err)
	}
}

// resolve applies a decision to the pending reminder. A ledger write failure
// does not stall the cadence: the scheduler still returns to Idle and
// reschedules, and the error goes to both the caller and the notifier.
func (s *ReminderScheduler) resolve(outcome models.ReminderOutcome) error {
	s.mu.Lock()
	if s.state != models.StateAwaitingDecision {
		s.mu.Unlock()
		return ErrNoPendingReminder
	}
	if outcome.Kind == models.OutcomeCancel && time.Now().After(s.graceDeadline) {
		s.mu.Unlock()
		return ErrGraceExpired
	}

	s.timer.Cancel(s.timeoutID)
	s.timeoutID = ""

	var writeErr error
	switch outcome.Kind {
	case models.OutcomeLog, models.OutcomeSkip:
		count := 0
		if outcome.Kind == models.OutcomeLog {
			count = outcome.Count
		}
		writeErr = s.ledger.Log(count)
		s.state = models.StateIdle
		s.armIntervalLocked(s.opts.Interval)
	case models.OutcomeSnooze:
		s.state = models.StateSnoozed
		s.nextFire = time.Time{}
		s.snoozeID = s.timer.ScheduleAfter(s.opts.SnoozeDelay, s.wake)
	case models.OutcomeCancel:
		// Cadence continues as if the reminder never appeared.
		s.state = models.StateIdle
		remaining := time.Until(s.nextFire)
		if remaining < 0 {
			remaining = 0
		}
		s.intervalID = s.timer.ScheduleAfter(remaining, s.fire)
	}
	s.mu.Unlock()

	slog.Debug("ReminderScheduler: decision applied", "outcome", outcome.Kind, "count", outcome.Count)
	if writeErr != nil {
		slog.Error("ReminderScheduler: ledger write failed, cadence continues", "error", writeErr)
		s.notifier.LogFailed(writeErr)
		return writeErr
	}
	return nil
}

// wake ends a snooze: back to Idle with normal interval scheduling.
func (s *ReminderScheduler) wake() {
	s.mu.Lock()
	if s.state != models.StateSnoozed {
		s.mu.Unlock()
		return
	}
	s.state = models.StateIdle
	s.snoozeID = ""
	s.armIntervalLocked(s.opts.Interval)
	s.mu.Unlock()
	slog.Debug("ReminderScheduler: snooze elapsed, interval rescheduled")
}

// Pause stops the interval clock from any state. Countdown progress is
// discarded; a pending reminder's timeout is cancelled without side effects.
func (s *ReminderScheduler) Pause() {
	s.mu.Lock()
	s.timer.Cancel(s.intervalID)
	s.timer.Cancel(s.timeoutID)
	s.timer.Cancel(s.snoozeID)
	s.intervalID, s.timeoutID, s.snoozeID = "", "", ""
	s.state = models.StatePaused
	s.nextFire = time.Time{}
	s.mu.Unlock()
	slog.Info("ReminderScheduler paused")
}

// Resume restarts the interval from zero.
func (s *ReminderScheduler) Resume() error {
	s.mu.Lock()
	if s.state != models.StatePaused {
		s.mu.Unlock()
		return ErrNotPaused
	}
	s.state = models.StateIdle
	s.armIntervalLocked(s.opts.Interval)
	s.mu.Unlock()
	slog.Info("ReminderScheduler resumed")
	return nil
}

// Status returns a snapshot of the state machine.
func (s *ReminderScheduler) Status() models.SchedulerStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return models.SchedulerStatus{
		State:        s.state,
		Interval:     s.opts.Interval.String(),
		NextFireTime: s.nextFire,
		Pending:      s.state == models.StateAwaitingDecision,
	}
}

// recap emits the end-of-day summary through the notifier.
func (s *ReminderScheduler) recap() {
	total, err := s.ledger.TodayTotal()
	if err != nil {
		slog.Error("ReminderScheduler.recap: failed to read today total", "error", err)
		return
	}
	slog.Info("ReminderScheduler: daily recap", "total", total, "goal", s.opts.DailyGoal)
	s.notifier.RecapDue(total, s.opts.DailyGoal)
}
