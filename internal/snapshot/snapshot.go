// Package snapshot persists per-file analysis snapshots so delta
// analysis can compare a change against the last accepted state.
package snapshot

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/semgate/semgate/internal/types"
)

// ErrNotFound reports a snapshot lookup with no matching row.
var ErrNotFound = errors.New("snapshot not found")

// Snapshot is one stored analysis state for a file.
type Snapshot struct {
	ID        string          `json:"id"`
	FilePath  string          `json:"file_path"`
	GateType  types.GateType  `json:"gate_type"`
	Facts     types.FileFacts `json:"facts"`
	CreatedAt time.Time       `json:"created_at"`
}

const schema = `
CREATE TABLE IF NOT EXISTS snapshots (
	id         TEXT PRIMARY KEY,
	file_path  TEXT NOT NULL,
	gate_type  TEXT NOT NULL,
	facts      TEXT NOT NULL,
	created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_snapshots_file ON snapshots(file_path, created_at);
`

// Store is a SQLite-backed snapshot store.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the snapshot database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save stores a snapshot and returns its generated ID.
func (s *Store) Save(ctx context.Context, facts types.FileFacts, gateType types.GateType) (string, error) {
	id := uuid.NewString()
	payload, err := json.Marshal(facts)
	if err != nil {
		return "", fmt.Errorf("failed to marshal facts: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO snapshots (id, file_path, gate_type, facts, created_at) VALUES (?, ?, ?, ?, ?)`,
		id, facts.FilePath, string(gateType), string(payload), time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert snapshot: %w", err)
	}
	return id, nil
}

// Get returns a snapshot by ID.
func (s *Store) Get(ctx context.Context, id string) (Snapshot, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, file_path, gate_type, facts, created_at FROM snapshots WHERE id = ?`, id)
	return scanSnapshot(row)
}

// Latest returns the most recent snapshot for a file.
func (s *Store) Latest(ctx context.Context, filePath string) (Snapshot, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, file_path, gate_type, facts, created_at FROM snapshots
		 WHERE file_path = ? ORDER BY created_at DESC LIMIT 1`, filePath)
	return scanSnapshot(row)
}

// History returns a file's snapshots, newest first, capped at limit
// (0 means no cap).
func (s *Store) History(ctx context.Context, filePath string, limit int) ([]Snapshot, error) {
	query := `SELECT id, file_path, gate_type, facts, created_at FROM snapshots
	          WHERE file_path = ? ORDER BY created_at DESC`
	args := []any{filePath}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}
	defer rows.Close()

	var out []Snapshot
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, snap)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSnapshot(row scanner) (Snapshot, error) {
	var snap Snapshot
	var gateType, payload, createdAt string

	err := row.Scan(&snap.ID, &snap.FilePath, &gateType, &payload, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Snapshot{}, ErrNotFound
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to scan snapshot: %w", err)
	}

	snap.GateType = types.GateType(gateType)
	if err := json.Unmarshal([]byte(payload), &snap.Facts); err != nil {
		return Snapshot{}, fmt.Errorf("failed to unmarshal facts: %w", err)
	}
	if ts, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
		snap.CreatedAt = ts
	}
	return snap, nil
}
