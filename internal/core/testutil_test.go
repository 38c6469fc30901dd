package core

import (
	"encoding/json"
	"time"

	"github.com/davri/kardo/internal/model"
)

// memLedger is an in-memory Ledger for tests, round-tripping through JSON
// the same way the sqlite snapshot store does.
type memLedger struct {
	data map[string][]byte
}

func newMemLedger() *memLedger {
	return &memLedger{data: make(map[string][]byte)}
}

func (m *memLedger) Put(key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	m.data[key] = b
	return nil
}

func (m *memLedger) Get(key string, out any) (bool, error) {
	b, ok := m.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, out)
}

// fakeClock hands out a controllable now
type fakeClock struct {
	current time.Time
}

func (c *fakeClock) now() time.Time {
	return c.current
}

func (c *fakeClock) advance(d time.Duration) {
	c.current = c.current.Add(d)
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func taskInput(title string, status model.Status, priority model.Priority, due time.Time) TaskInput {
	return TaskInput{
		Title:    title,
		Status:   status,
		Priority: priority,
		DueDate:  due,
		BoardID:  "board-1",
	}
}

func statusPtr(s model.Status) *model.Status       { return &s }
func priorityPtr(p model.Priority) *model.Priority { return &p }
func strPtr(s string) *string                      { return &s }
