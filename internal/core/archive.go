package core

import (
	"log/slog"
	"sync"
	"time"

	"github.com/davri/kardo/internal/db"
	"github.com/davri/kardo/internal/model"
)

// Archiver moves completed tasks out of active board views into a retained
// ledger, either on demand or on a scheduled time-of-day trigger. It does
// not schedule itself; an external timer is expected to call
// CheckAutoArchiveTime about once a minute.
type Archiver struct {
	mu       sync.Mutex
	settings model.ArchiveSettings
	archived []model.ArchivedTask
	tasks    *TaskStore
	boards   *BoardStore
	ledger   Ledger
	logger   *slog.Logger
	now      func() time.Time
}

// NewArchiver hydrates the archive ledger and settings
func NewArchiver(tasks *TaskStore, boards *BoardStore, ledger Ledger, logger *slog.Logger) *Archiver {
	a := &Archiver{
		settings: model.ArchiveSettings{ArchiveTime: "18:00"},
		tasks:    tasks,
		boards:   boards,
		ledger:   ledger,
		logger:   logger,
		now:      time.Now,
	}

	if ledger != nil {
		if _, err := ledger.Get(db.KeyArchiveSettings, &a.settings); err != nil && logger != nil {
			logger.Warn("archive settings load failed", slog.String("error", err.Error()))
		}
		if _, err := ledger.Get(db.KeyArchivedTasks, &a.archived); err != nil && logger != nil {
			logger.Warn("archived-tasks snapshot load failed", slog.String("error", err.Error()))
		}
	}
	return a
}

// Settings returns the current archive settings
func (a *Archiver) Settings() model.ArchiveSettings {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.settings
}

// UpdateSettings replaces the archive settings
func (a *Archiver) UpdateSettings(s model.ArchiveSettings) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.settings = s
	persist(a.ledger, a.logger, db.KeyArchiveSettings, a.settings)
}

// ArchiveTasks stamps each task with archivedAt, appends it to the archive
// ledger, and flips its status to the terminal archived value in the task
// store so it leaves normal board views without being deleted.
func (a *Archiver) ArchiveTasks(ids []string) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.archiveLocked(ids)
}

func (a *Archiver) archiveLocked(ids []string) int {
	now := a.now()
	archived := 0
	var flipped []string
	for _, id := range ids {
		task := a.tasks.GetTask(id)
		if task == nil {
			continue
		}
		a.archived = append(a.archived, model.ArchivedTask{
			Task:       *task,
			ArchivedAt: now,
		})
		flipped = append(flipped, id)
		archived++
	}
	if archived == 0 {
		return 0
	}
	a.tasks.markArchived(flipped)
	persist(a.ledger, a.logger, db.KeyArchivedTasks, a.archived)
	return archived
}

// PerformAutoArchive archives every done task on a live board. It is a
// no-op unless auto-archive is enabled and a done column is configured.
func (a *Archiver) PerformAutoArchive() int {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.settings.AutoArchiveEnable || a.settings.DoneColumnID == nil {
		return 0
	}
	return a.archiveLocked(a.tasks.doneTaskIDs(a.boards.boardIDs()))
}

// CheckAutoArchiveTime fires PerformAutoArchive when the wall clock is
// within one minute of the configured archive time. The trigger is coarse
// and not idempotent: a second call inside the same minute window archives
// again, so the caller must invoke it at most once per window.
func (a *Archiver) CheckAutoArchiveTime(now time.Time) int {
	a.mu.Lock()
	settings := a.settings
	a.mu.Unlock()

	if !settings.AutoArchiveEnable || settings.DoneColumnID == nil {
		return 0
	}

	target, err := time.Parse("15:04", settings.ArchiveTime)
	if err != nil {
		if a.logger != nil {
			a.logger.Warn("invalid archive time", slog.String("value", settings.ArchiveTime))
		}
		return 0
	}

	scheduled := time.Date(now.Year(), now.Month(), now.Day(),
		target.Hour(), target.Minute(), 0, 0, now.Location())
	delta := now.Sub(scheduled)
	if delta < 0 || delta >= time.Minute {
		return 0
	}

	return a.PerformAutoArchive()
}

// ArchivedTasks returns a copy of the archive ledger
func (a *Archiver) ArchivedTasks() []model.ArchivedTask {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make([]model.ArchivedTask, len(a.archived))
	copy(out, a.archived)
	return out
}

// RestoreArchivedTask moves a task back out of the archive into done
// status and drops its archivedAt stamp.
func (a *Archiver) RestoreArchivedTask(id string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	for i := range a.archived {
		if a.archived[i].ID == id {
			a.archived = append(a.archived[:i], a.archived[i+1:]...)
			a.tasks.restoreFromArchive(id)
			persist(a.ledger, a.logger, db.KeyArchivedTasks, a.archived)
			return
		}
	}
}
