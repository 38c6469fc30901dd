package model

import (
	"time"
)

// TaskPatch is a partial update for a task. Nil fields are left untouched.
// An explicit patch struct replaces free-form merge maps so unknown fields
// are rejected at compile time.
type TaskPatch struct {
	Title       *string            `json:"title,omitempty"`
	Description *string            `json:"description,omitempty"`
	Status      *Status            `json:"status,omitempty"`
	Priority    *Priority          `json:"priority,omitempty"`
	Points      *int               `json:"points,omitempty"`
	DueDate     *time.Time         `json:"due_date,omitempty"`
	DueTime     *string            `json:"due_time,omitempty"` // HH:MM
	Recurrence  *Recurrence        `json:"recurrence,omitempty"`
	Pattern     *RecurrencePattern `json:"recurrence_pattern,omitempty"`
	Tags        *[]string          `json:"tags,omitempty"`
	Labels      *[]string          `json:"labels,omitempty"`
	BoardID     *string            `json:"board_id,omitempty"`
}

// BoardPatch is a partial update for a board
type BoardPatch struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Color       *string `json:"color,omitempty"`
}

// TemplatePatch is a partial update for a custom template
type TemplatePatch struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Category    *string `json:"category,omitempty"`
	Color       *string `json:"color,omitempty"`
}
