package model

import (
	"time"
)

// BoardTemplate is a reusable blueprint of columns and seed tasks used to
// fast-create a new board. Default templates ship with the system and
// cannot be deleted.
type BoardTemplate struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	Category    string           `json:"category,omitempty"`
	Color       string           `json:"color,omitempty"`
	IsDefault   bool             `json:"is_default"`
	Columns     []ColumnTemplate `json:"columns"`
	UsageCount  int              `json:"usage_count"`
	AuthorID    string           `json:"author_id,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
}

// ColumnTemplate describes one lane of a template along with its seed tasks
type ColumnTemplate struct {
	Title  string         `json:"title"`
	Status Status         `json:"status"`
	Tasks  []TaskTemplate `json:"tasks,omitempty"`
}

// TaskTemplate is a task-shaped record without identity or timestamps;
// those are assigned at materialization time.
type TaskTemplate struct {
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Priority    Priority `json:"priority,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Labels      []string `json:"labels,omitempty"`
}

// TemplateExport is the transport form of a template with identity fields
// stripped so it can be re-imported as a fresh custom template.
type TemplateExport struct {
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	Category    string           `json:"category,omitempty"`
	Color       string           `json:"color,omitempty"`
	Columns     []ColumnTemplate `json:"columns"`
}
