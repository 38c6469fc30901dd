package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/davri/kardo/internal/app"
	"github.com/davri/kardo/internal/core"
	"github.com/davri/kardo/internal/model"
)

// stubLedger keeps snapshots in memory so handler tests run without sqlite
type stubLedger struct {
	data map[string][]byte
}

func (l *stubLedger) Put(key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	l.data[key] = raw
	return nil
}

func (l *stubLedger) Get(key string, out any) (bool, error) {
	raw, ok := l.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, out)
}

func newTestServer(t *testing.T) *Server {
	t.Helper()

	ledger := &stubLedger{data: make(map[string][]byte)}
	tasks := core.NewTaskStore(ledger, nil)
	boards := core.NewBoardStore(ledger, nil)

	application := &app.App{
		Tasks:     tasks,
		Boards:    boards,
		Templates: core.NewTemplateStore(boards, ledger, nil),
		Archiver:  core.NewArchiver(tasks, boards, ledger, nil),
	}
	return New(application, nil)
}

func doJSON(t *testing.T, srv *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Engine().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return out
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/api/healthz", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestTaskLifecycleOverHTTP(t *testing.T) {
	srv := newTestServer(t)
	boardID := srv.app.Boards.CurrentBoard().ID

	rec := doJSON(t, srv, http.MethodPost, "/api/boards/"+boardID+"/tasks", map[string]any{
		"title":    "Write report",
		"priority": "high",
		"due_date": "2026-09-01",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", rec.Code, rec.Body.String())
	}
	created := decode[struct {
		Task model.Task `json:"task"`
	}](t, rec)
	if created.Task.Points != 15 {
		t.Errorf("points = %d, want 15 for high priority", created.Task.Points)
	}

	// Completing over HTTP accrues points
	rec = doJSON(t, srv, http.MethodPut, "/api/tasks/"+created.Task.ID, map[string]any{
		"status": "done",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("update status = %d, body %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, srv, http.MethodGet, "/api/stats", nil)
	stats := decode[struct {
		Stats model.UserStats `json:"stats"`
	}](t, rec)
	if stats.Stats.TotalPoints != 15 || stats.Stats.CompletedTasks != 1 {
		t.Errorf("stats = %+v after completion", stats.Stats)
	}

	rec = doJSON(t, srv, http.MethodDelete, "/api/tasks/"+created.Task.ID, nil)
	if rec.Code != http.StatusOK {
		t.Errorf("delete status = %d", rec.Code)
	}
}

func TestCreateTaskValidation(t *testing.T) {
	srv := newTestServer(t)
	boardID := srv.app.Boards.CurrentBoard().ID

	cases := []map[string]any{
		{"due_date": "2026-09-01"},                                          // missing title
		{"title": "x"},                                                      // missing due date
		{"title": "x", "due_date": "not-a-date"},                            // bad date
		{"title": "x", "due_date": "2026-09-01", "labels": []string{"puce"}}, // unknown color
	}
	for i, body := range cases {
		rec := doJSON(t, srv, http.MethodPost, "/api/boards/"+boardID+"/tasks", body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("case %d: status = %d, want 400", i, rec.Code)
		}
	}
}

func TestCreateTaskOnUnknownBoard(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/boards/missing/tasks", map[string]any{
		"title":    "x",
		"due_date": "2026-09-01",
	})
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestListTasksFiltered(t *testing.T) {
	srv := newTestServer(t)
	boardID := srv.app.Boards.CurrentBoard().ID

	for _, title := range []string{"alpha", "beta"} {
		doJSON(t, srv, http.MethodPost, "/api/boards/"+boardID+"/tasks", map[string]any{
			"title":    title,
			"due_date": "2026-09-01",
		})
	}

	rec := doJSON(t, srv, http.MethodGet, "/api/boards/"+boardID+"/tasks?search=alpha", nil)
	listed := decode[struct {
		Tasks []model.Task `json:"tasks"`
	}](t, rec)
	if len(listed.Tasks) != 1 || listed.Tasks[0].Title != "alpha" {
		t.Errorf("filtered tasks = %+v", listed.Tasks)
	}
}

func TestBoardEndpoints(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/boards", map[string]any{"name": "Work"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create board status = %d", rec.Code)
	}
	board := decode[struct {
		Board model.Board `json:"board"`
	}](t, rec)

	// Creating does not select
	rec = doJSON(t, srv, http.MethodGet, "/api/boards/current", nil)
	current := decode[struct {
		Board model.Board `json:"board"`
	}](t, rec)
	if current.Board.ID == board.Board.ID {
		t.Error("new board was auto-selected")
	}

	rec = doJSON(t, srv, http.MethodPost, "/api/boards/"+board.Board.ID+"/select", nil)
	current = decode[struct {
		Board model.Board `json:"board"`
	}](t, rec)
	if current.Board.ID != board.Board.ID {
		t.Error("select did not move the current pointer")
	}

	rec = doJSON(t, srv, http.MethodPost, "/api/boards", map[string]any{"name": ""})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("empty name status = %d, want 400", rec.Code)
	}
}

func TestUseUnknownTemplate(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/templates/missing/use", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestArchiveSettingsEndpoints(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPut, "/api/archive/settings", map[string]any{
		"done_column_id":       "col-done",
		"archive_time":         "20:00",
		"auto_archive_enabled": true,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("put settings status = %d, body %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, srv, http.MethodGet, "/api/archive/settings", nil)
	got := decode[struct {
		Settings model.ArchiveSettings `json:"settings"`
	}](t, rec)
	if got.Settings.ArchiveTime != "20:00" || !got.Settings.AutoArchiveEnable {
		t.Errorf("settings = %+v", got.Settings)
	}
}

func TestArchiveAndRestoreOverHTTP(t *testing.T) {
	srv := newTestServer(t)
	boardID := srv.app.Boards.CurrentBoard().ID

	rec := doJSON(t, srv, http.MethodPost, "/api/boards/"+boardID+"/tasks", map[string]any{
		"title":    "finished work",
		"due_date": "2026-09-01",
		"status":   "done",
	})
	task := decode[struct {
		Task model.Task `json:"task"`
	}](t, rec)

	rec = doJSON(t, srv, http.MethodPost, "/api/archive", map[string]any{
		"ids": []string{task.Task.ID},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("archive status = %d, body %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, srv, http.MethodGet, "/api/archive", nil)
	archived := decode[struct {
		Archived []model.ArchivedTask `json:"archived"`
	}](t, rec)
	if len(archived.Archived) != 1 {
		t.Fatalf("archived = %+v", archived.Archived)
	}

	rec = doJSON(t, srv, http.MethodPost, fmt.Sprintf("/api/archive/%s/restore", task.Task.ID), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("restore status = %d", rec.Code)
	}
	if got := srv.app.Tasks.GetTask(task.Task.ID); got == nil || got.Status != model.StatusDone {
		t.Errorf("restored task = %+v", got)
	}
}
