package main

import (
	"log/slog"

	"github.com/pushtimer/pushtimer/internal/ledger"
)

// consoleNotifier is the headless stand-in for the desktop presentation layer.
// It reports reminder and recap events through the log; an unanswered reminder
// falls through to the scheduler's auto-dismiss timeout and is recorded as a
// skip, exactly as a closed dialog would be.
type consoleNotifier struct {
	ledger *ledger.Ledger
	goal   int
}

func newConsoleNotifier(l *ledger.Ledger, goal int) *consoleNotifier {
	return &consoleNotifier{ledger: l, goal: goal}
}

func (n *consoleNotifier) ReminderDue() {
	total, err := n.ledger.TodayTotal()
	if err != nil {
		slog.Warn("consoleNotifier: failed to read today total", "error", err)
	}
	slog.Info("Pushup time! Log your count via the sync page or POST /log",
		"today_total", total, "daily_goal", n.goal)
}

func (n *consoleNotifier) RecapDue(total, goal int) {
	slog.Info("Daily recap", "today_total", total, "daily_goal", goal, "goal_met", goal > 0 && total >= goal)
}

func (n *consoleNotifier) LogFailed(err error) {
	slog.Error("Failed to record pushups; the reminder cadence continues", "error", err)
}
