package core

import (
	"testing"
	"time"

	"github.com/davri/kardo/internal/model"
)

type archiveFixture struct {
	tasks    *TaskStore
	boards   *BoardStore
	archiver *Archiver
	clock    *fakeClock
	boardID  string
}

func newArchiveFixture() *archiveFixture {
	ledger := newMemLedger()
	clock := &fakeClock{current: time.Date(2026, 3, 10, 18, 0, 30, 0, time.UTC)}

	tasks := NewTaskStore(ledger, nil)
	tasks.now = clock.now
	boards := NewBoardStore(ledger, nil)
	archiver := NewArchiver(tasks, boards, ledger, nil)
	archiver.now = clock.now

	return &archiveFixture{
		tasks:    tasks,
		boards:   boards,
		archiver: archiver,
		clock:    clock,
		boardID:  boards.CurrentBoard().ID,
	}
}

func (f *archiveFixture) addDoneTask(title string) model.Task {
	task := f.tasks.AddTask(TaskInput{Title: title, BoardID: f.boardID})
	f.tasks.UpdateTask(task.ID, model.TaskPatch{Status: statusPtr(model.StatusDone)})
	return *f.tasks.GetTask(task.ID)
}

func (f *archiveFixture) enableAutoArchive(at string) {
	done := "col-done"
	f.archiver.UpdateSettings(model.ArchiveSettings{
		DoneColumnID:      &done,
		ArchiveTime:       at,
		AutoArchiveEnable: true,
	})
}

func TestArchiveTasks(t *testing.T) {
	f := newArchiveFixture()
	done := f.addDoneTask("ship it")
	open := f.tasks.AddTask(TaskInput{Title: "still open", BoardID: f.boardID})

	n := f.archiver.ArchiveTasks([]string{done.ID})
	if n != 1 {
		t.Fatalf("archived = %d, want 1", n)
	}

	archived := f.archiver.ArchivedTasks()
	if len(archived) != 1 || archived[0].ID != done.ID {
		t.Fatalf("archive ledger = %+v", archived)
	}
	if archived[0].ArchivedAt.IsZero() {
		t.Error("archivedAt not stamped")
	}

	// The task leaves board views but is not deleted
	for _, task := range f.tasks.GetTasksByBoard(f.boardID) {
		if task.ID == done.ID {
			t.Error("archived task still visible on the board")
		}
	}
	if got := f.tasks.GetTask(done.ID); got == nil || got.Status != model.StatusArchived {
		t.Errorf("task record = %+v, want archived status", got)
	}
	if got := f.tasks.GetTask(open.ID); got.Status != model.StatusTodo {
		t.Error("unrelated task was touched")
	}
}

func TestArchiveUnknownIDs(t *testing.T) {
	f := newArchiveFixture()

	if n := f.archiver.ArchiveTasks([]string{"missing", "also-missing"}); n != 0 {
		t.Errorf("archived = %d, want 0", n)
	}
	if len(f.archiver.ArchivedTasks()) != 0 {
		t.Error("archive ledger grew from unknown ids")
	}
}

func TestRestoreArchivedTask(t *testing.T) {
	f := newArchiveFixture()
	done := f.addDoneTask("ship it")
	f.archiver.ArchiveTasks([]string{done.ID})

	f.archiver.RestoreArchivedTask(done.ID)

	if len(f.archiver.ArchivedTasks()) != 0 {
		t.Error("archive ledger still holds the restored task")
	}
	got := f.tasks.GetTask(done.ID)
	if got == nil || got.Status != model.StatusDone {
		t.Errorf("restored task = %+v, want done status", got)
	}
}

func TestRestoreUnknownArchivedTask(t *testing.T) {
	f := newArchiveFixture()
	done := f.addDoneTask("ship it")
	f.archiver.ArchiveTasks([]string{done.ID})

	f.archiver.RestoreArchivedTask("missing")

	if len(f.archiver.ArchivedTasks()) != 1 {
		t.Error("archive ledger changed on an unknown id")
	}
}

func TestPerformAutoArchiveGuards(t *testing.T) {
	f := newArchiveFixture()
	f.addDoneTask("ship it")

	// Disabled: nothing happens
	if n := f.archiver.PerformAutoArchive(); n != 0 {
		t.Errorf("archived while disabled = %d", n)
	}

	// Enabled without a done column: still nothing
	f.archiver.UpdateSettings(model.ArchiveSettings{ArchiveTime: "18:00", AutoArchiveEnable: true})
	if n := f.archiver.PerformAutoArchive(); n != 0 {
		t.Errorf("archived without a done column = %d", n)
	}

	f.enableAutoArchive("18:00")
	if n := f.archiver.PerformAutoArchive(); n != 1 {
		t.Errorf("archived = %d, want 1", n)
	}
}

func TestPerformAutoArchiveOnlyDoneTasks(t *testing.T) {
	f := newArchiveFixture()
	f.addDoneTask("ship it")
	f.tasks.AddTask(TaskInput{Title: "todo", BoardID: f.boardID})
	doing := f.tasks.AddTask(TaskInput{Title: "doing", BoardID: f.boardID})
	f.tasks.UpdateTask(doing.ID, model.TaskPatch{Status: statusPtr(model.StatusDoing)})
	f.enableAutoArchive("18:00")

	if n := f.archiver.PerformAutoArchive(); n != 1 {
		t.Errorf("archived = %d, want only the done task", n)
	}
}

func TestCheckAutoArchiveTimeWindow(t *testing.T) {
	f := newArchiveFixture()
	f.addDoneTask("ship it")
	f.enableAutoArchive("18:00")

	day := date(2026, 3, 10)
	cases := []struct {
		at   time.Duration
		want int
	}{
		{17*time.Hour + 59*time.Minute + 59*time.Second, 0},
		{18 * time.Hour, 1},
		{18*time.Hour + 59*time.Second, 0}, // already archived above
		{18*time.Hour + time.Minute, 0},
		{19 * time.Hour, 0},
	}
	for _, tc := range cases {
		got := f.archiver.CheckAutoArchiveTime(day.Add(tc.at))
		if got != tc.want {
			t.Errorf("at %v: archived = %d, want %d", tc.at, got, tc.want)
		}
	}
}

func TestCheckAutoArchiveTimeNotIdempotent(t *testing.T) {
	// Two calls inside the same window both fire; the second finds a
	// fresh done task and archives it too.
	f := newArchiveFixture()
	f.addDoneTask("first")
	f.enableAutoArchive("18:00")

	at := date(2026, 3, 10).Add(18*time.Hour + 10*time.Second)
	if n := f.archiver.CheckAutoArchiveTime(at); n != 1 {
		t.Fatalf("first call archived %d, want 1", n)
	}

	f.addDoneTask("second")
	if n := f.archiver.CheckAutoArchiveTime(at.Add(20 * time.Second)); n != 1 {
		t.Errorf("second call archived %d, want 1", n)
	}
}

func TestCheckAutoArchiveTimeBadClockValue(t *testing.T) {
	f := newArchiveFixture()
	f.addDoneTask("ship it")
	f.enableAutoArchive("6pm")

	if n := f.archiver.CheckAutoArchiveTime(date(2026, 3, 10).Add(18 * time.Hour)); n != 0 {
		t.Errorf("unparseable archive time fired: %d", n)
	}
}

func TestArchiveSettingsRoundTrip(t *testing.T) {
	ledger := newMemLedger()
	tasks := NewTaskStore(ledger, nil)
	boards := NewBoardStore(ledger, nil)

	first := NewArchiver(tasks, boards, ledger, nil)
	done := "col-done"
	first.UpdateSettings(model.ArchiveSettings{
		DoneColumnID:      &done,
		ArchiveTime:       "21:30",
		AutoArchiveEnable: true,
	})

	second := NewArchiver(tasks, boards, ledger, nil)
	got := second.Settings()
	if got.ArchiveTime != "21:30" || !got.AutoArchiveEnable {
		t.Errorf("settings = %+v, did not survive rehydration", got)
	}
	if got.DoneColumnID == nil || *got.DoneColumnID != done {
		t.Error("done column lost on rehydration")
	}
}

func TestArchivedTasksSurviveRehydration(t *testing.T) {
	ledger := newMemLedger()
	f := &archiveFixture{}
	f.tasks = NewTaskStore(ledger, nil)
	f.boards = NewBoardStore(ledger, nil)
	f.archiver = NewArchiver(f.tasks, f.boards, ledger, nil)
	f.boardID = f.boards.CurrentBoard().ID

	done := f.addDoneTask("ship it")
	f.archiver.ArchiveTasks([]string{done.ID})

	again := NewArchiver(NewTaskStore(ledger, nil), f.boards, ledger, nil)
	archived := again.ArchivedTasks()
	if len(archived) != 1 || archived[0].ID != done.ID {
		t.Errorf("archive ledger after rehydration = %+v", archived)
	}
}
