package app

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/davri/kardo/internal/config"
	"github.com/davri/kardo/internal/core"
	"github.com/davri/kardo/internal/db"
	"github.com/davri/kardo/internal/model"
	"github.com/davri/kardo/internal/notify"
	"github.com/gofrs/flock"
)

// App wires the stores together and owns shared resources. Stores are
// constructed once here and passed by reference; there are no ambient
// singletons.
type App struct {
	DB        *db.DB
	Tasks     *core.TaskStore
	Boards    *core.BoardStore
	Templates *core.TemplateStore
	Archiver  *core.Archiver
	Notifier  *notify.Notifier
	User      *model.User
	Logger    *slog.Logger
	DataDir   string
	lockFile  *flock.Flock
}

// New creates a new application instance
func New(cfg config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}

	dbPath := cfg.DBPath
	if dbPath == "" {
		dbPath = db.DefaultDBPath()
	}
	dataDir := filepath.Dir(dbPath)

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	a := &App{
		Notifier: notify.NewNotifier(cfg.NotifyEnabled),
		Logger:   logger,
		DataDir:  dataDir,
	}
	if cfg.UserName != "" || cfg.UserEmail != "" {
		a.User = &model.User{Name: cfg.UserName, Email: cfg.UserEmail}
	}

	// Single instance only; the stores assume exclusive ownership of the
	// snapshot ledger.
	if err := a.acquireLock(); err != nil {
		return nil, err
	}

	database, err := db.Open(dbPath)
	if err != nil {
		a.releaseLock()
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	a.DB = database

	a.Tasks = core.NewTaskStore(database, logger)
	a.Boards = core.NewBoardStore(database, logger)
	a.Templates = core.NewTemplateStore(a.Boards, database, logger)
	a.Archiver = core.NewArchiver(a.Tasks, a.Boards, database, logger)

	return a, nil
}

// acquireLock acquires an exclusive file lock to prevent multiple instances
func (a *App) acquireLock() error {
	lockPath := filepath.Join(a.DataDir, "kardo.lock")
	a.lockFile = flock.New(lockPath)

	locked, err := a.lockFile.TryLock()
	if err != nil {
		return fmt.Errorf("failed to acquire lock: %w", err)
	}

	if !locked {
		return fmt.Errorf("another instance of kardo is already running")
	}

	return nil
}

// releaseLock releases the file lock
func (a *App) releaseLock() {
	if a.lockFile != nil {
		a.lockFile.Unlock()
	}
}

// Close cleans up application resources
func (a *App) Close() error {
	var errs []error

	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		}
	}

	a.releaseLock()

	if len(errs) > 0 {
		return errs[0]
	}
	return nil
}
