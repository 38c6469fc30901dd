package core

import (
	"testing"
	"time"

	"github.com/davri/kardo/internal/model"
)

var viewNow = time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)

func sampleTasks() []model.Task {
	mk := func(id, title string, status model.Status, priority model.Priority, due time.Time, created time.Time) model.Task {
		return model.Task{
			ID:        id,
			Title:     title,
			Status:    status,
			Priority:  priority,
			Points:    model.PointsForPriority(priority),
			DueDate:   due,
			CreatedAt: created,
		}
	}
	return []model.Task{
		mk("1", "Pay rent", model.StatusTodo, model.PriorityCritical, date(2026, 3, 10), date(2026, 3, 1)),
		mk("2", "Water plants", model.StatusDoing, model.PriorityLow, date(2026, 3, 9), date(2026, 3, 2)),
		mk("3", "Ship release", model.StatusDone, model.PriorityHigh, date(2026, 3, 9), date(2026, 3, 3)),
		mk("4", "Plan trip", model.StatusTodo, model.PriorityNone, date(2026, 3, 11), date(2026, 3, 4)),
		mk("5", "Review PR", model.StatusTodo, model.PriorityMedium, date(2026, 3, 15), date(2026, 3, 5)),
	}
}

func ids(tasks []model.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

func assertIDs(t *testing.T, got []model.Task, want ...string) {
	t.Helper()
	gotIDs := ids(got)
	if len(gotIDs) != len(want) {
		t.Fatalf("ids = %v, want %v", gotIDs, want)
	}
	for i := range want {
		if gotIDs[i] != want[i] {
			t.Fatalf("ids = %v, want %v", gotIDs, want)
		}
	}
}

func TestDefaultSortNewestFirst(t *testing.T) {
	got := ApplyView(sampleTasks(), Filter{}, Sort{}, viewNow)
	assertIDs(t, got, "5", "4", "3", "2", "1")
}

func TestSearchFilterCaseInsensitive(t *testing.T) {
	got := ApplyView(sampleTasks(), Filter{Search: "PLANT"}, DefaultSort(), viewNow)
	assertIDs(t, got, "2")

	// Description matches too
	tasks := sampleTasks()
	tasks[0].Description = "the planting season starts"
	got = ApplyView(tasks, Filter{Search: "plant"}, DefaultSort(), viewNow)
	assertIDs(t, got, "2", "1")
}

func TestStatusAndPriorityFilters(t *testing.T) {
	got := ApplyView(sampleTasks(), Filter{Status: "todo"}, DefaultSort(), viewNow)
	assertIDs(t, got, "5", "4", "1")

	got = ApplyView(sampleTasks(), Filter{Priority: "high"}, DefaultSort(), viewNow)
	assertIDs(t, got, "3")

	// "all" skips the predicate
	got = ApplyView(sampleTasks(), Filter{Status: "all", Priority: "all"}, DefaultSort(), viewNow)
	if len(got) != 5 {
		t.Errorf(`"all" filtered tasks out: %v`, ids(got))
	}
}

func TestTagAndLabelFilters(t *testing.T) {
	tasks := sampleTasks()
	tasks[1].Tags = []string{"home"}
	tasks[2].Labels = []string{"red"}

	got := ApplyView(tasks, Filter{Tag: "home"}, DefaultSort(), viewNow)
	assertIDs(t, got, "2")

	got = ApplyView(tasks, Filter{Label: "red"}, DefaultSort(), viewNow)
	assertIDs(t, got, "3")
}

func TestDueBuckets(t *testing.T) {
	got := ApplyView(sampleTasks(), Filter{Due: "today"}, DefaultSort(), viewNow)
	assertIDs(t, got, "1")

	got = ApplyView(sampleTasks(), Filter{Due: "tomorrow"}, DefaultSort(), viewNow)
	assertIDs(t, got, "4")

	got = ApplyView(sampleTasks(), Filter{Due: "week"}, DefaultSort(), viewNow)
	assertIDs(t, got, "5", "4", "1")
}

func TestOverdueExcludesDone(t *testing.T) {
	// Task 2 (doing, due yesterday) is overdue; task 3 (done, same due
	// date) is not.
	got := ApplyView(sampleTasks(), Filter{Due: "overdue"}, DefaultSort(), viewNow)
	assertIDs(t, got, "2")
}

func TestSortSemantics(t *testing.T) {
	got := ApplyView(sampleTasks(), Filter{}, Sort{Field: SortByPriority, Descending: true}, viewNow)
	assertIDs(t, got, "1", "3", "5", "2", "4")

	got = ApplyView(sampleTasks(), Filter{}, Sort{Field: SortByTitle}, viewNow)
	assertIDs(t, got, "1", "4", "5", "3", "2")

	got = ApplyView(sampleTasks(), Filter{}, Sort{Field: SortByStatus}, viewNow)
	if got[len(got)-1].ID != "3" {
		t.Errorf("done task should sort last by status, got %v", ids(got))
	}

	got = ApplyView(sampleTasks(), Filter{}, Sort{Field: SortByDueDate}, viewNow)
	if got[0].DueDate.After(got[len(got)-1].DueDate) {
		t.Errorf("dueDate ascending violated: %v", ids(got))
	}

	got = ApplyView(sampleTasks(), Filter{}, Sort{Field: SortByPoints, Descending: true}, viewNow)
	if got[0].ID != "1" {
		t.Errorf("highest points first, got %v", ids(got))
	}
}

func TestSortStableForEqualKeys(t *testing.T) {
	tasks := sampleTasks()
	// Tasks 2 and 3 share a due date; stability keeps input order
	got := ApplyView(tasks, Filter{}, Sort{Field: SortByDueDate}, viewNow)
	pos2, pos3 := -1, -1
	for i, task := range got {
		switch task.ID {
		case "2":
			pos2 = i
		case "3":
			pos3 = i
		}
	}
	if pos2 > pos3 {
		t.Error("equal-key order not stable")
	}
}

func TestFilterIdempotence(t *testing.T) {
	filter := Filter{Status: "todo", Due: "week"}
	sortSpec := Sort{Field: SortByPriority, Descending: true}

	once := ApplyView(sampleTasks(), filter, sortSpec, viewNow)
	twice := ApplyView(once, filter, sortSpec, viewNow)

	assertIDs(t, twice, ids(once)...)
}

func TestApplyViewDoesNotMutateInput(t *testing.T) {
	tasks := sampleTasks()
	snapshot := ids(tasks)

	ApplyView(tasks, Filter{Status: "todo"}, Sort{Field: SortByTitle}, viewNow)

	for i, id := range ids(tasks) {
		if id != snapshot[i] {
			t.Fatal("input collection was reordered")
		}
	}
}
