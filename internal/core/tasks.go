package core

import (
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/davri/kardo/internal/db"
	"github.com/davri/kardo/internal/model"
	"github.com/google/uuid"
)

// Position says where a dragged task lands relative to its target
type Position string

const (
	PositionBefore Position = "before"
	PositionAfter  Position = "after"
)

// TaskInput carries the fields a caller supplies when creating a task.
// The store checks shape only; content validation (non-empty title) is the
// boundary's job.
type TaskInput struct {
	Title       string
	Description string
	Status      model.Status
	Priority    model.Priority
	DueDate     time.Time
	DueTime     string
	Recurrence  model.Recurrence
	Pattern     *model.RecurrencePattern
	Tags        []string
	Labels      []string
	BoardID     string
}

// TaskStore owns the authoritative task collection across all boards and
// keeps the gamification ledger as a side effect of status transitions.
// All public operations are serialized behind a mutex because the scoring
// side effect is not safe to race.
type TaskStore struct {
	mu     sync.Mutex
	tasks  []model.Task
	stats  model.UserStats
	ledger Ledger
	logger *slog.Logger
	now    func() time.Time
}

// NewTaskStore hydrates a task store from the ledger
func NewTaskStore(ledger Ledger, logger *slog.Logger) *TaskStore {
	s := &TaskStore{
		ledger: ledger,
		logger: logger,
		now:    time.Now,
	}
	s.stats.Level = model.LevelForPoints(0)

	if ledger != nil {
		if _, err := ledger.Get(db.KeyTasks, &s.tasks); err != nil && logger != nil {
			logger.Warn("task snapshot load failed", slog.String("error", err.Error()))
		}
		if _, err := ledger.Get(db.KeyUserStats, &s.stats); err != nil && logger != nil {
			logger.Warn("stats snapshot load failed", slog.String("error", err.Error()))
		}
	}
	return s
}

// AddTask assigns identity and creation time and stores the task
func (s *TaskStore) AddTask(input TaskInput) model.Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	task := s.buildTask(input, s.now())
	s.tasks = append(s.tasks, task)
	s.persistTasks()
	return task
}

func (s *TaskStore) buildTask(input TaskInput, createdAt time.Time) model.Task {
	status := input.Status
	if status == "" {
		status = model.StatusTodo
	}
	recurrence := input.Recurrence
	if recurrence == "" {
		recurrence = model.RecurrenceNone
	}

	return model.Task{
		ID:          uuid.New().String(),
		Title:       input.Title,
		Description: input.Description,
		Status:      status,
		Priority:    input.Priority,
		Points:      model.PointsForPriority(input.Priority),
		DueDate:     input.DueDate,
		DueTime:     input.DueTime,
		Recurrence:  recurrence,
		Pattern:     input.Pattern,
		Tags:        dedupe(input.Tags),
		Labels:      dedupe(input.Labels),
		BoardID:     input.BoardID,
		CreatedAt:   createdAt,
	}
}

// UpdateTask merges a patch into the task. Moving a task into done from a
// non-done status stamps completedAt and accrues points, exactly once per
// completion event; points are never revoked when the task later leaves
// done. Unknown ids are a no-op. A patch cannot set the archived status;
// that transition belongs to the archiver.
func (s *TaskStore) UpdateTask(id string, patch model.TaskPatch) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return
	}
	task := &s.tasks[idx]
	wasDone := task.Status == model.StatusDone

	applyTaskPatch(task, patch)

	if !wasDone && task.Status == model.StatusDone {
		now := s.now()
		task.CompletedAt = &now
		s.accrue(task.Points)
		if task.IsRecurring() {
			s.regenerate(*task, now)
		}
	}

	s.persistTasks()
}

func applyTaskPatch(task *model.Task, patch model.TaskPatch) {
	if patch.Title != nil {
		task.Title = *patch.Title
	}
	if patch.Description != nil {
		task.Description = *patch.Description
	}
	if patch.Status != nil && *patch.Status != model.StatusArchived {
		task.Status = *patch.Status
	}
	if patch.Priority != nil {
		task.Priority = *patch.Priority
	}
	if patch.Points != nil && *patch.Points >= 0 {
		task.Points = *patch.Points
	}
	if patch.DueDate != nil {
		task.DueDate = *patch.DueDate
	}
	if patch.DueTime != nil {
		task.DueTime = *patch.DueTime
	}
	if patch.Recurrence != nil {
		task.Recurrence = *patch.Recurrence
	}
	if patch.Pattern != nil {
		task.Pattern = patch.Pattern
	}
	if patch.Tags != nil {
		task.Tags = dedupe(*patch.Tags)
	}
	if patch.Labels != nil {
		task.Labels = dedupe(*patch.Labels)
	}
	if patch.BoardID != nil {
		task.BoardID = *patch.BoardID
	}
}

// accrue records one completion event. Level stays a pure function of the
// point total.
func (s *TaskStore) accrue(points int) {
	s.stats.TotalPoints += points
	s.stats.CompletedTasks++
	s.stats.Level = model.LevelForPoints(s.stats.TotalPoints)
	persist(s.ledger, s.logger, db.KeyUserStats, s.stats)
}

// regenerate appends a fresh todo copy of a completed recurring task with
// the next due date the rule produces.
func (s *TaskStore) regenerate(done model.Task, now time.Time) {
	next := NextOccurrence(done.Recurrence, done.Pattern, done.DueDate)
	if next == nil {
		return
	}

	fresh := s.buildTask(TaskInput{
		Title:       done.Title,
		Description: done.Description,
		Status:      model.StatusTodo,
		Priority:    done.Priority,
		DueDate:     *next,
		DueTime:     done.DueTime,
		Recurrence:  done.Recurrence,
		Pattern:     done.Pattern,
		Tags:        done.Tags,
		Labels:      done.Labels,
		BoardID:     done.BoardID,
	}, now)
	s.tasks = append(s.tasks, fresh)
}

// DeleteTask removes the task unconditionally. Stats are untouched: points
// already awarded are retained.
func (s *TaskStore) DeleteTask(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return
	}
	s.tasks = append(s.tasks[:idx], s.tasks[idx+1:]...)
	s.persistTasks()
}

// GetTask returns a copy of the task, or nil if unknown
func (s *TaskStore) GetTask(id string) *model.Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return nil
	}
	task := s.tasks[idx]
	return &task
}

// GetTasksByBoard returns the board's tasks in store order, excluding
// archived ones.
func (s *TaskStore) GetTasksByBoard(boardID string) []model.Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []model.Task
	for _, t := range s.tasks {
		if t.BoardID == boardID && t.Status != model.StatusArchived {
			out = append(out, t)
		}
	}
	return out
}

// Tasks returns all non-archived tasks across boards
func (s *TaskStore) Tasks() []model.Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []model.Task
	for _, t := range s.tasks {
		if t.Status != model.StatusArchived {
			out = append(out, t)
		}
	}
	return out
}

// ReorderTasks moves the dragged task before or after the target within
// their shared column. Both tasks must sit on the same board and status;
// otherwise the call is a no-op with no side effects. Order is re-encoded
// by rewriting createdAt across the status group at one-second spacing, so
// createdAt stays the sole ordering key.
func (s *TaskStore) ReorderTasks(draggedID, targetID string, pos Position) {
	s.mu.Lock()
	defer s.mu.Unlock()

	di := s.indexOf(draggedID)
	ti := s.indexOf(targetID)
	if di < 0 || ti < 0 || di == ti {
		return
	}
	dragged := s.tasks[di]
	target := s.tasks[ti]
	if dragged.Status != target.Status || dragged.BoardID != target.BoardID {
		return
	}
	if pos != PositionBefore && pos != PositionAfter {
		return
	}

	// Collect the column group in its current order
	var group []model.Task
	for _, t := range s.tasks {
		if t.Status == dragged.Status && t.BoardID == dragged.BoardID {
			group = append(group, t)
		}
	}
	sortByCreatedAsc(group)

	// Remove the dragged task, then splice it next to the target
	var rest []model.Task
	for _, t := range group {
		if t.ID != draggedID {
			rest = append(rest, t)
		}
	}
	insert := -1
	for i, t := range rest {
		if t.ID == targetID {
			insert = i
			break
		}
	}
	if insert < 0 {
		return
	}
	if pos == PositionAfter {
		insert++
	}
	reordered := make([]model.Task, 0, len(group))
	reordered = append(reordered, rest[:insert]...)
	reordered = append(reordered, dragged)
	reordered = append(reordered, rest[insert:]...)

	// Rewrite timestamps to reflect the new order
	base := s.now()
	stamped := make(map[string]time.Time, len(reordered))
	for i, t := range reordered {
		stamped[t.ID] = base.Add(time.Duration(i) * time.Second)
	}
	for i := range s.tasks {
		if at, ok := stamped[s.tasks[i].ID]; ok {
			s.tasks[i].CreatedAt = at
		}
	}

	s.persistTasks()
}

// Stats returns the gamification ledger with the streak recomputed from
// the completion history.
func (s *TaskStore) Stats() model.UserStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := s.stats
	stats.CurrentStreak = CurrentStreak(s.tasks, s.now())
	return stats
}

// markArchived flips tasks into the terminal archived status. Only the
// archiver calls this; normal status editing cannot reach archived.
func (s *TaskStore) markArchived(ids []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range ids {
		if idx := s.indexOf(id); idx >= 0 {
			s.tasks[idx].Status = model.StatusArchived
		}
	}
	s.persistTasks()
}

// restoreFromArchive returns an archived task to done
func (s *TaskStore) restoreFromArchive(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 || s.tasks[idx].Status != model.StatusArchived {
		return
	}
	s.tasks[idx].Status = model.StatusDone
	s.persistTasks()
}

// doneTaskIDs returns ids of all done tasks belonging to the given boards
func (s *TaskStore) doneTaskIDs(boardIDs map[string]bool) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var ids []string
	for _, t := range s.tasks {
		if t.Status == model.StatusDone && boardIDs[t.BoardID] {
			ids = append(ids, t.ID)
		}
	}
	return ids
}

func (s *TaskStore) indexOf(id string) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *TaskStore) persistTasks() {
	persist(s.ledger, s.logger, db.KeyTasks, s.tasks)
}

func sortByCreatedAsc(tasks []model.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].CreatedAt.Before(tasks[j].CreatedAt)
	})
}

// dedupe drops duplicate entries while keeping first-seen order
func dedupe(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
