package ledger_test

import (
	"bytes"
	"testing"

	"github.com/pushtimer/pushtimer/internal/models"
	"github.com/pushtimer/pushtimer/internal/testutil"
)

func TestStreakCountsBackFromToday(t *testing.T) {
	l, _ := testutil.NewTestLedger(t, models.AggregateModeAdd)

	// today=2024-06-15; three consecutive logged days ending today
	for _, date := range []string{"2024-06-13", "2024-06-14", "2024-06-15"} {
		if _, err := l.Append(date, 10); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	streak, err := l.Streak()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if streak != 3 {
		t.Errorf("expected streak 3, got %d", streak)
	}
}

func TestStreakUnloggedTodayDoesNotBreak(t *testing.T) {
	l, _ := testutil.NewTestLedger(t, models.AggregateModeAdd)

	// Yesterday and the day before qualify; today has no entry yet. An older
	// zero-total day bounds the run.
	if _, err := l.Append("2024-06-14", 5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := l.Append("2024-06-13", 3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := l.Append("2024-06-12", 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	streak, err := l.Streak()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if streak != 2 {
		t.Errorf("expected streak 2, got %d", streak)
	}
}

func TestStreakZeroTodayDoesNotBreak(t *testing.T) {
	l, _ := testutil.NewTestLedger(t, models.AggregateModeAdd)

	// A zero-count entry for today is treated like an unlogged today.
	if _, err := l.Append("2024-06-15", 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := l.Append("2024-06-14", 5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	streak, err := l.Streak()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if streak != 1 {
		t.Errorf("expected streak 1, got %d", streak)
	}
}

func TestStreakBrokenYesterday(t *testing.T) {
	l, _ := testutil.NewTestLedger(t, models.AggregateModeAdd)

	// Older history alone never counts when yesterday is missing.
	if _, err := l.Append("2024-06-12", 50); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := l.Append("2024-06-13", 50); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	streak, err := l.Streak()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if streak != 0 {
		t.Errorf("expected streak 0, got %d", streak)
	}
}

func TestStreakEmptyLedger(t *testing.T) {
	l, _ := testutil.NewTestLedger(t, models.AggregateModeAdd)

	streak, err := l.Streak()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if streak != 0 {
		t.Errorf("expected streak 0 for empty ledger, got %d", streak)
	}
}

func TestStatsEmptyLedger(t *testing.T) {
	l, _ := testutil.NewTestLedger(t, models.AggregateModeAdd)

	stats, err := l.Stats()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats != (models.Stats{}) {
		t.Errorf("expected zero stats, got %+v", stats)
	}
}

func TestStatsDenominators(t *testing.T) {
	l, _ := testutil.NewTestLedger(t, models.AggregateModeAdd)

	// Two days with data inside the last week, one older day outside it.
	if _, err := l.Append("2024-06-15", 30); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := l.Append("2024-06-14", 20); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := l.Append("2024-06-01", 10); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stats, err := l.Stats()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.Total != 60 {
		t.Errorf("expected total 60, got %d", stats.Total)
	}
	if stats.BestDay != 30 {
		t.Errorf("expected best day 30, got %d", stats.BestDay)
	}
	// Average divides by days with data (3), weekly by a fixed 7.
	if stats.Average != 20.0 {
		t.Errorf("expected average 20.0, got %v", stats.Average)
	}
	if stats.WeeklyAverage != 7.1 {
		t.Errorf("expected weekly average 7.1, got %v", stats.WeeklyAverage)
	}
}

func TestStatsBestDayUsesDayTotals(t *testing.T) {
	l, _ := testutil.NewTestLedger(t, models.AggregateModeAdd)

	// Two records on one day beat a single larger record on another.
	if _, err := l.Append("2024-06-14", 25); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := l.Append("2024-06-14", 25); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := l.Append("2024-06-15", 40); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stats, err := l.Stats()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.BestDay != 50 {
		t.Errorf("expected best day 50, got %d", stats.BestDay)
	}
}

func TestExportCSV(t *testing.T) {
	l, _ := testutil.NewTestLedger(t, models.AggregateModeAdd)

	if _, err := l.Append("2024-06-15", 30); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := l.Append("2024-06-13", 10); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := l.Append("2024-06-13", 5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var buf bytes.Buffer
	if err := l.ExportCSV(&buf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "Date,Count\n2024-06-13,15\n2024-06-15,30\n"
	if buf.String() != want {
		t.Errorf("expected CSV:\n%s\ngot:\n%s", want, buf.String())
	}
}

func TestExportCSVEmptyLedger(t *testing.T) {
	l, _ := testutil.NewTestLedger(t, models.AggregateModeAdd)

	var buf bytes.Buffer
	if err := l.ExportCSV(&buf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf.String() != "Date,Count\n" {
		t.Errorf("expected header-only CSV, got %q", buf.String())
	}
}

func TestGoalProgress(t *testing.T) {
	l, _ := testutil.NewTestLedger(t, models.AggregateModeAdd)

	if err := l.Log(50); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	p, err := l.GoalProgress(100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p != 0.5 {
		t.Errorf("expected progress 0.5, got %v", p)
	}

	// Progress clamps at 1 and a non-positive goal reports 0.
	if err := l.Log(100); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p, err = l.GoalProgress(100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p != 1.0 {
		t.Errorf("expected clamped progress 1.0, got %v", p)
	}
	p, err = l.GoalProgress(0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p != 0 {
		t.Errorf("expected progress 0 for zero goal, got %v", p)
	}
}
