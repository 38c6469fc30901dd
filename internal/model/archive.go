package model

import (
	"time"
)

// ArchivedTask is a task that was moved out of active board views into the
// retained archive ledger.
type ArchivedTask struct {
	Task
	ArchivedAt time.Time `json:"archived_at"`
}

// ArchiveSettings controls manual and scheduled archiving
type ArchiveSettings struct {
	DoneColumnID      *string `json:"done_column_id,omitempty"`
	ArchiveTime       string  `json:"archive_time"` // HH:MM
	AutoArchiveEnable bool    `json:"auto_archive_enabled"`
}
