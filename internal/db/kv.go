package db

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// Fixed logical keys the stores persist their collections under.
const (
	KeyTasks             = "tasks"
	KeyUserStats         = "user-stats"
	KeyBoards            = "boards"
	KeyCurrentBoard      = "current-board"
	KeyTemplates         = "templates"
	KeyFavoriteBoards    = "favorite-boards"
	KeyFavoriteTemplates = "favorite-templates"
	KeyArchiveSettings   = "archive-settings"
	KeyArchivedTasks     = "archived-tasks"
)

// Put serializes v to JSON and writes the whole snapshot under key,
// replacing any previous value. Stores write back full collections, never
// deltas.
func (db *DB) Put(key string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal snapshot %q: %w", key, err)
	}

	_, err = db.Exec(`
		INSERT INTO snapshots (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, string(payload), time.Now())
	if err != nil {
		return fmt.Errorf("write snapshot %q: %w", key, err)
	}
	return nil
}

// Get loads the snapshot stored under key into out. It returns false with a
// nil error when no snapshot exists yet.
func (db *DB) Get(key string, out any) (bool, error) {
	var payload string
	err := db.QueryRow(`SELECT value FROM snapshots WHERE key = ?`, key).Scan(&payload)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read snapshot %q: %w", key, err)
	}

	if err := json.Unmarshal([]byte(payload), out); err != nil {
		return false, fmt.Errorf("decode snapshot %q: %w", key, err)
	}
	return true, nil
}

// Delete removes a snapshot; missing keys are not an error
func (db *DB) Delete(key string) error {
	_, err := db.Exec(`DELETE FROM snapshots WHERE key = ?`, key)
	return err
}
