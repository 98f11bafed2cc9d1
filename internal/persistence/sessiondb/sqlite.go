package sessiondb

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

type SQLiteStore struct {
	db *sql.DB
}

func OpenSQLite(path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSQLiteSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

func initPragmas(db *sql.DB) error {
	// WAL suits the append-style click counters; NORMAL durability is fine
	// for a secondary index.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA temp_store=MEMORY;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSQLiteSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			session_id    TEXT PRIMARY KEY,
			player_name   TEXT NOT NULL,
			saved_unix    INTEGER NOT NULL,
			snapshot_path TEXT NOT NULL,
			overrides     INTEGER NOT NULL,
			held          INTEGER NOT NULL,
			pos_i         INTEGER NOT NULL,
			pos_j         INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS clicks (
			session_id TEXT NOT NULL,
			outcome    TEXT NOT NULL,
			n          INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (session_id, outcome)
		);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteStore) UpsertSession(meta SessionMeta) error {
	_, err := s.db.Exec(`INSERT INTO sessions
		(session_id, player_name, saved_unix, snapshot_path, overrides, held, pos_i, pos_j)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(session_id) DO UPDATE SET
			player_name=excluded.player_name,
			saved_unix=excluded.saved_unix,
			snapshot_path=excluded.snapshot_path,
			overrides=excluded.overrides,
			held=excluded.held,
			pos_i=excluded.pos_i,
			pos_j=excluded.pos_j`,
		meta.SessionID, meta.PlayerName, meta.SavedUnix, meta.SnapshotPath,
		meta.Overrides, meta.Held, meta.PosI, meta.PosJ)
	return err
}

func (s *SQLiteStore) LatestSnapshot(sessionID string) (SnapshotRef, error) {
	var ref SnapshotRef
	err := s.db.QueryRow(
		`SELECT snapshot_path, saved_unix FROM sessions WHERE session_id = ?`,
		sessionID).Scan(&ref.Path, &ref.SavedUnix)
	if errors.Is(err, sql.ErrNoRows) {
		return SnapshotRef{}, nil
	}
	return ref, err
}

func (s *SQLiteStore) RecordClick(sessionID, outcome string) error {
	_, err := s.db.Exec(`INSERT INTO clicks (session_id, outcome, n) VALUES (?, ?, 1)
		ON CONFLICT(session_id, outcome) DO UPDATE SET n = n + 1`,
		sessionID, outcome)
	return err
}

func (s *SQLiteStore) ClickCounts(sessionID string) (map[string]int, error) {
	rows, err := s.db.Query(`SELECT outcome, n FROM clicks WHERE session_id = ?`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[string]int{}
	for rows.Next() {
		var outcome string
		var n int
		if err := rows.Scan(&outcome, &n); err != nil {
			return nil, err
		}
		out[outcome] = n
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Close() error { return s.db.Close() }
