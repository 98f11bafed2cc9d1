// Package sessiondb indexes saved sessions: which snapshot file is the
// latest for each session, and per-outcome interaction counters. It is a
// read-model index only; snapshots on disk remain the source of truth.
package sessiondb

import "strings"

// SessionMeta is one saved-session row.
type SessionMeta struct {
	SessionID    string
	PlayerName   string
	SavedUnix    int64
	SnapshotPath string
	Overrides    int
	Held         int
	PosI         int
	PosJ         int
}

// Store abstracts the index backend.
type Store interface {
	UpsertSession(meta SessionMeta) error
	LatestSnapshot(sessionID string) (SnapshotRef, error)
	RecordClick(sessionID, outcome string) error
	ClickCounts(sessionID string) (map[string]int, error)
	Close() error
}

// SnapshotRef points at the latest snapshot file for a session.
type SnapshotRef struct {
	Path      string
	SavedUnix int64
}

// Open selects a backend by DSN: postgres:// URLs use PostgreSQL, anything
// else is treated as a SQLite file path.
func Open(dsn string) (Store, error) {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return OpenPostgres(dsn)
	}
	return OpenSQLite(dsn)
}
