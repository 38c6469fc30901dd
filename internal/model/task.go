package model

import (
	"time"
)

// Status represents the current state of a task
type Status string

const (
	StatusTodo  Status = "todo"
	StatusDoing Status = "doing"
	StatusDone  Status = "done"
	// StatusArchived is terminal and only reachable through the archiver,
	// never through normal status editing.
	StatusArchived Status = "archived"
)

// Priority represents task priority level. The empty value means
// "no priority".
type Priority string

const (
	PriorityNone     Priority = ""
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// Recurrence describes whether and how a task regenerates after completion
type Recurrence string

const (
	RecurrenceNone    Recurrence = "none"
	RecurrenceDaily   Recurrence = "daily"
	RecurrenceWeekly  Recurrence = "weekly"
	RecurrenceMonthly Recurrence = "monthly"
	RecurrenceCustom  Recurrence = "custom"
)

// RecurrencePattern carries the rule details for weekly and custom
// recurrences. Weekdays uses 0=Sunday..6=Saturday.
type RecurrencePattern struct {
	Weekdays     []int `json:"weekdays,omitempty"`
	IntervalDays int   `json:"interval_days,omitempty"`
}

// Task represents a single card on a board
type Task struct {
	ID          string             `json:"id"`
	Title       string             `json:"title"`
	Description string             `json:"description,omitempty"`
	Status      Status             `json:"status"`
	Priority    Priority           `json:"priority,omitempty"`
	Points      int                `json:"points"`
	DueDate     time.Time          `json:"due_date"`
	DueTime     string             `json:"due_time,omitempty"` // HH:MM
	Recurrence  Recurrence         `json:"recurrence"`
	Pattern     *RecurrencePattern `json:"recurrence_pattern,omitempty"`
	Tags        []string           `json:"tags,omitempty"`
	Labels      []string           `json:"labels,omitempty"`
	BoardID     string             `json:"board_id"`
	CreatedAt   time.Time          `json:"created_at"`
	CompletedAt *time.Time         `json:"completed_at,omitempty"`
}

// PointsForPriority returns the points a task earns on completion,
// assigned once at creation from its priority.
func PointsForPriority(p Priority) int {
	switch p {
	case PriorityCritical:
		return 20
	case PriorityHigh:
		return 15
	case PriorityMedium:
		return 10
	default:
		return 5
	}
}

// IsRecurring reports whether the task has any recurrence rule
func (t *Task) IsRecurring() bool {
	return t.Recurrence != "" && t.Recurrence != RecurrenceNone
}

// IsOverdue returns true if the task is past its due date and not finished
func (t *Task) IsOverdue(now time.Time) bool {
	if t.Status == StatusDone || t.Status == StatusArchived {
		return false
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return t.DueDate.Before(today)
}

// IsDueToday returns true if the task is due on the current calendar day
func (t *Task) IsDueToday(now time.Time) bool {
	return t.DueDate.Year() == now.Year() &&
		t.DueDate.YearDay() == now.YearDay()
}

// HasTag reports whether the task carries the given tag
func (t *Task) HasTag(tag string) bool {
	for _, existing := range t.Tags {
		if existing == tag {
			return true
		}
	}
	return false
}

// HasLabel reports whether the task carries the given palette label
func (t *Task) HasLabel(label string) bool {
	for _, existing := range t.Labels {
		if existing == label {
			return true
		}
	}
	return false
}

// PriorityWeight returns a numeric weight for sorting by priority
func (t *Task) PriorityWeight() int {
	switch t.Priority {
	case PriorityCritical:
		return 4
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

// StatusWeight returns a numeric weight for sorting by status
func (t *Task) StatusWeight() int {
	switch t.Status {
	case StatusTodo:
		return 1
	case StatusDoing:
		return 2
	case StatusDone:
		return 3
	default:
		return 4
	}
}
