package model

// PointsPerLevel is the number of points between consecutive levels
const PointsPerLevel = 50

// UserStats is the gamification ledger derived from completed-task history.
// Level is always a pure function of TotalPoints and is recomputed on every
// accrual, never edited directly.
type UserStats struct {
	TotalPoints    int `json:"total_points"`
	Level          int `json:"level"`
	CompletedTasks int `json:"completed_tasks"`
	CurrentStreak  int `json:"current_streak"`
}

// LevelForPoints computes the level reached at a point total
func LevelForPoints(total int) int {
	return total/PointsPerLevel + 1
}
