// Package ledger derived-statistics queries: streaks, aggregates, CSV export.
package ledger

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/pushtimer/pushtimer/internal/models"
)

// Streak returns the number of consecutive days with a total above zero,
// counted backward from the most recent qualifying day.
//
// Today is exempt if not yet logged: an unlogged (or zero-count) today does not
// break the streak, but if yesterday does not qualify either the streak is 0
// regardless of older history.
func (l *Ledger) Streak() (int, error) {
	totals, err := l.AllDailyTotals()
	if err != nil {
		return 0, err
	}
	byDate := make(map[string]int, len(totals))
	for _, t := range totals {
		byDate[t.Date] = t.Count
	}

	today := l.now()
	streak := 0
	day := today
	if byDate[today.Format(models.DateFormat)] > 0 {
		streak++
	}
	day = day.AddDate(0, 0, -1)

	for byDate[day.Format(models.DateFormat)] > 0 {
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak, nil
}

// Stats computes aggregate statistics over the whole ledger.
//
// Average divides by the number of days that have data; WeeklyAverage sums the
// last 7 calendar days (missing days count as zero) and always divides by 7.
func (l *Ledger) Stats() (models.Stats, error) {
	totals, err := l.AllDailyTotals()
	if err != nil {
		return models.Stats{}, err
	}
	if len(totals) == 0 {
		return models.Stats{}, nil
	}

	var stats models.Stats
	byDate := make(map[string]int, len(totals))
	for _, t := range totals {
		stats.Total += t.Count
		if t.Count > stats.BestDay {
			stats.BestDay = t.Count
		}
		byDate[t.Date] = t.Count
	}
	stats.Average = roundTenth(float64(stats.Total) / float64(len(totals)))

	today := l.now()
	lastWeek := 0
	for i := 0; i < 7; i++ {
		d := today.AddDate(0, 0, -i).Format(models.DateFormat)
		lastWeek += byDate[d]
	}
	stats.WeeklyAverage = roundTenth(float64(lastWeek) / 7)

	return stats, nil
}

// ExportCSV writes all daily totals as Date,Count rows, ascending by date.
func (l *Ledger) ExportCSV(w io.Writer) error {
	totals, err := l.AllDailyTotals()
	if err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Date", "Count"}); err != nil {
		return fmt.Errorf("ledger export csv: %w", err)
	}
	for _, t := range totals {
		if err := cw.Write([]string{t.Date, strconv.Itoa(t.Count)}); err != nil {
			return fmt.Errorf("ledger export csv: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("ledger export csv: %w", err)
	}
	return nil
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}

// goalProgress reports today's total against the configured daily goal.
// Kept here so the recap job and the stats endpoint share one definition.
func goalProgress(total, goal int) float64 {
	if goal <= 0 {
		return 0
	}
	p := float64(total) / float64(goal)
	if p > 1 {
		p = 1
	}
	return p
}

// GoalProgress returns today's completion ratio toward goal, clamped to 1.
func (l *Ledger) GoalProgress(goal int) (float64, error) {
	total, err := l.TodayTotal()
	if err != nil {
		return 0, err
	}
	return goalProgress(total, goal), nil
}
