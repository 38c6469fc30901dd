package model

import (
	"time"
)

// Board is a named, colored container partitioning tasks into an
// independent workspace.
type Board struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Color       string    `json:"color,omitempty"`
	IsDefault   bool      `json:"is_default"`
	Columns     []Column  `json:"columns,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Column is a display lane within a board mapped onto one status value.
// Columns are not 1:1 with statuses: a board may carry more than three
// columns and several columns may declare the same status.
type Column struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Status Status `json:"status"`
}

// DefaultColumns returns the three lanes a fresh board starts with
func DefaultColumns(newID func() string) []Column {
	return []Column{
		{ID: newID(), Title: "To Do", Status: StatusTodo},
		{ID: newID(), Title: "In Progress", Status: StatusDoing},
		{ID: newID(), Title: "Done", Status: StatusDone},
	}
}
