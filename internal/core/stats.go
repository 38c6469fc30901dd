package core

import (
	"time"

	"github.com/davri/kardo/internal/model"
)

// CurrentStreak counts consecutive days with at least one completed task,
// walking backward from today. A day without completions so far today does
// not break a streak that ran through yesterday.
func CurrentStreak(tasks []model.Task, now time.Time) int {
	days := make(map[string]bool)
	for _, t := range tasks {
		if t.CompletedAt != nil {
			days[t.CompletedAt.Format("2006-01-02")] = true
		}
	}
	if len(days) == 0 {
		return 0
	}

	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if !days[day.Format("2006-01-02")] {
		day = day.AddDate(0, 0, -1)
	}

	streak := 0
	for days[day.Format("2006-01-02")] {
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak
}
