package core

import (
	"log/slog"
)

// Ledger is the persistence side-channel the stores write their snapshots
// to. Writes are best effort: in-memory state stays authoritative for the
// session and a failed write never fails the operation that caused it.
type Ledger interface {
	Put(key string, v any) error
	Get(key string, out any) (bool, error)
}

// persist writes a snapshot and logs instead of propagating failures
func persist(ledger Ledger, logger *slog.Logger, key string, v any) {
	if ledger == nil {
		return
	}
	if err := ledger.Put(key, v); err != nil && logger != nil {
		logger.Warn("snapshot write failed",
			slog.String("key", key),
			slog.String("error", err.Error()))
	}
}
