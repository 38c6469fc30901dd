package core

import (
	"sort"
	"strings"
	"time"

	"github.com/davri/kardo/internal/model"
)

// Filter selects which tasks survive into a view. Every set predicate is
// ANDed; the zero value or "all" skips the predicate.
type Filter struct {
	Search   string
	Status   string
	Priority string
	Tag      string
	Label    string
	Due      string // today | tomorrow | week | overdue
}

// SortField names the comparison key of a Sort
type SortField string

const (
	SortByTitle    SortField = "title"
	SortByPriority SortField = "priority"
	SortByDueDate  SortField = "dueDate"
	SortByPoints   SortField = "points"
	SortByStatus   SortField = "status"
	SortByCreated  SortField = "createdAt"
)

// Sort declares the ordering of a view. The zero value means the default
// order: createdAt descending, newest first.
type Sort struct {
	Field      SortField
	Descending bool
}

// DefaultSort is the ordering used when a caller declares none
func DefaultSort() Sort {
	return Sort{Field: SortByCreated, Descending: true}
}

// ApplyView filters and orders tasks for display. It is a pure function:
// the input slice is never mutated, ordering is stable for equal keys, and
// due-date buckets are evaluated against the supplied clock.
func ApplyView(tasks []model.Task, filter Filter, sortSpec Sort, now time.Time) []model.Task {
	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if matches(t, filter, now) {
			out = append(out, t)
		}
	}

	if sortSpec.Field == "" {
		sortSpec = DefaultSort()
	}
	sort.SliceStable(out, func(i, j int) bool {
		less := compare(out[i], out[j], sortSpec.Field)
		if sortSpec.Descending {
			return less > 0
		}
		return less < 0
	})

	return out
}

func matches(t model.Task, f Filter, now time.Time) bool {
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		title := strings.ToLower(t.Title)
		desc := strings.ToLower(t.Description)
		if !strings.Contains(title, needle) && !strings.Contains(desc, needle) {
			return false
		}
	}
	if f.Status != "" && f.Status != "all" && string(t.Status) != f.Status {
		return false
	}
	if f.Priority != "" && f.Priority != "all" && string(t.Priority) != f.Priority {
		return false
	}
	if f.Tag != "" && f.Tag != "all" && !t.HasTag(f.Tag) {
		return false
	}
	if f.Label != "" && f.Label != "all" && !t.HasLabel(f.Label) {
		return false
	}
	if f.Due != "" && f.Due != "all" && !matchesDueBucket(t, f.Due, now) {
		return false
	}
	return true
}

func matchesDueBucket(t model.Task, bucket string, now time.Time) bool {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	due := time.Date(t.DueDate.Year(), t.DueDate.Month(), t.DueDate.Day(), 0, 0, 0, 0, now.Location())

	switch bucket {
	case "today":
		return due.Equal(today)
	case "tomorrow":
		return due.Equal(today.AddDate(0, 0, 1))
	case "week":
		return !due.Before(today) && !due.After(today.AddDate(0, 0, 7))
	case "overdue":
		return due.Before(today) && t.Status != model.StatusDone
	}
	return true
}

// compare returns <0, 0 or >0 like strings.Compare, per field semantics
func compare(a, b model.Task, field SortField) int {
	switch field {
	case SortByTitle:
		return strings.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title))
	case SortByPriority:
		return a.PriorityWeight() - b.PriorityWeight()
	case SortByStatus:
		return a.StatusWeight() - b.StatusWeight()
	case SortByPoints:
		return a.Points - b.Points
	case SortByDueDate:
		return compareTime(a.DueDate, b.DueDate)
	default:
		return compareTime(a.CreatedAt, b.CreatedAt)
	}
}

func compareTime(a, b time.Time) int {
	switch {
	case a.Before(b):
		return -1
	case a.After(b):
		return 1
	default:
		return 0
	}
}
