package sqlite

import (
	"context"
	"database/sql"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cognicore/lens/pkg/lens/snapshot"
)

// sqliteStore implements snapshot.Store using SQLite.
type sqliteStore struct {
	db *sql.DB
}

// Open opens a SQLite snapshot cache with WAL mode enabled, creating the
// schema on first use.
func Open(ctx context.Context, path string) (snapshot.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteStore{db: db}, nil
}

// Close closes the database connection.
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS run_snapshots (
	run_id TEXT NOT NULL,
	resource TEXT NOT NULL,
	payload BLOB NOT NULL,
	fetched_at TEXT NOT NULL,
	PRIMARY KEY(run_id, resource)
);
`
	_, err := db.ExecContext(ctx, schema)
	return err
}

// Put upserts the payload for (runID, resource).
func (s *sqliteStore) Put(ctx context.Context, runID string, res snapshot.Resource, payload []byte) error {
	_, err := s.db.ExecContext(ctx, `
INSERT INTO run_snapshots (run_id, resource, payload, fetched_at)
VALUES (?, ?, ?, ?)
ON CONFLICT(run_id, resource) DO UPDATE SET payload=excluded.payload, fetched_at=excluded.fetched_at`,
		runID, string(res), payload, time.Now().UTC().Format(time.RFC3339))
	return err
}

// Get returns the payload for (runID, resource), if cached.
func (s *sqliteStore) Get(ctx context.Context, runID string, res snapshot.Resource) ([]byte, bool, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM run_snapshots WHERE run_id = ? AND resource = ?`,
		runID, string(res)).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return payload, true, nil
}
