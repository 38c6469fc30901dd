package core

import (
	"time"

	"github.com/davri/kardo/internal/model"
)

// NextOccurrence resolves when a recurring task regenerates after the given
// reference date. It returns nil when the rule never fires: no recurrence,
// a weekly rule with an empty weekday set, or a custom rule without a
// positive interval.
func NextOccurrence(rec model.Recurrence, pattern *model.RecurrencePattern, after time.Time) *time.Time {
	switch rec {
	case model.RecurrenceDaily:
		next := after.AddDate(0, 0, 1)
		return &next

	case model.RecurrenceWeekly:
		if pattern == nil || len(pattern.Weekdays) == 0 {
			return nil
		}
		allowed := make(map[int]bool, len(pattern.Weekdays))
		for _, d := range pattern.Weekdays {
			if d >= 0 && d <= 6 {
				allowed[d] = true
			}
		}
		if len(allowed) == 0 {
			return nil
		}
		// Scan at most one full week ahead
		for i := 1; i <= 7; i++ {
			candidate := after.AddDate(0, 0, i)
			if allowed[int(candidate.Weekday())] {
				return &candidate
			}
		}
		return nil

	case model.RecurrenceMonthly:
		next := clampedAddMonth(after)
		return &next

	case model.RecurrenceCustom:
		if pattern == nil || pattern.IntervalDays <= 0 {
			return nil
		}
		next := after.AddDate(0, 0, pattern.IntervalDays)
		return &next
	}

	return nil
}

// clampedAddMonth moves a date one month forward, clamping the day to the
// target month's length so Jan 31 lands on Feb 28/29 rather than Mar 2.
func clampedAddMonth(t time.Time) time.Time {
	year, month, day := t.Date()
	firstOfNext := time.Date(year, month+1, 1, t.Hour(), t.Minute(), t.Second(), 0, t.Location())
	lastDay := firstOfNext.AddDate(0, 1, -1).Day()
	if day > lastDay {
		day = lastDay
	}
	return time.Date(firstOfNext.Year(), firstOfNext.Month(), day,
		t.Hour(), t.Minute(), t.Second(), 0, t.Location())
}
