package sessiondb

import (
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/lib/pq"
)

type PostgresStore struct {
	db *sql.DB
}

func OpenPostgres(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if err := initPostgresSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &PostgresStore{db: db}, nil
}

func initPostgresSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			session_id    TEXT PRIMARY KEY,
			player_name   TEXT NOT NULL,
			saved_unix    BIGINT NOT NULL,
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

func (s *PostgresStore) UpsertSession(meta SessionMeta) error {
	_, err := s.db.Exec(`INSERT INTO sessions
		(session_id, player_name, saved_unix, snapshot_path, overrides, held, pos_i, pos_j)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (session_id) DO UPDATE SET
			player_name=EXCLUDED.player_name,
			saved_unix=EXCLUDED.saved_unix,
			snapshot_path=EXCLUDED.snapshot_path,
			overrides=EXCLUDED.overrides,
			held=EXCLUDED.held,
			pos_i=EXCLUDED.pos_i,
			pos_j=EXCLUDED.pos_j`,
		meta.SessionID, meta.PlayerName, meta.SavedUnix, meta.SnapshotPath,
		meta.Overrides, meta.Held, meta.PosI, meta.PosJ)
	return err
}

func (s *PostgresStore) LatestSnapshot(sessionID string) (SnapshotRef, error) {
	var ref SnapshotRef
	err := s.db.QueryRow(
		`SELECT snapshot_path, saved_unix FROM sessions WHERE session_id = $1`,
		sessionID).Scan(&ref.Path, &ref.SavedUnix)
	if errors.Is(err, sql.ErrNoRows) {
		return SnapshotRef{}, nil
	}
	return ref, err
}

func (s *PostgresStore) RecordClick(sessionID, outcome string) error {
	_, err := s.db.Exec(`INSERT INTO clicks (session_id, outcome, n) VALUES ($1, $2, 1)
		ON CONFLICT (session_id, outcome) DO UPDATE SET n = clicks.n + 1`,
		sessionID, outcome)
	return err
}

func (s *PostgresStore) ClickCounts(sessionID string) (map[string]int, error) {
	rows, err := s.db.Query(`SELECT outcome, n FROM clicks WHERE session_id = $1`, sessionID)
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

func (s *PostgresStore) Close() error { return s.db.Close() }
