package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/venjye/LocalCVTools/internal/infrastructure/metrics"
	"github.com/venjye/LocalCVTools/pkg/serialization"
	"github.com/venjye/LocalCVTools/pkg/snapshot"
)

// SQLiteStore persists snapshots in a local SQLite database, the zero-setup
// option for desktop sessions.
type SQLiteStore struct {
	db         *sql.DB
	serializer *serialization.Serializer
	tableName  string
}

// OpenSQLiteStore opens (or creates) the database file and ensures the
// snapshot table exists. Use ":memory:" for an ephemeral store.
func OpenSQLiteStore(path string, s *serialization.Serializer) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite store: %w", err)
	}
	st := NewSQLiteStore(db, s)
	if err := st.InitSchema(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return st, nil
}

// NewSQLiteStore wraps an existing database handle.
func NewSQLiteStore(db *sql.DB, s *serialization.Serializer) *SQLiteStore {
	if s == nil {
		s = serialization.DefaultSerializer()
	}
	return &SQLiteStore{db: db, serializer: s, tableName: "pipeline_snapshots"}
}

// InitSchema creates the snapshot table if it does not exist.
func (s *SQLiteStore) InitSchema(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			graph_id   TEXT PRIMARY KEY,
			name       TEXT NOT NULL DEFAULT '',
			payload    BLOB NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)
	`, s.tableName)
	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("init snapshot schema: %w", err)
	}
	return nil
}

// Close closes the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Save(ctx context.Context, snap *snapshot.Snapshot) error {
	if snap == nil {
		return ErrNilSnapshot
	}
	raw, err := s.serializer.Serialize(snap)
	if err != nil {
		return fmt.Errorf("serialize snapshot %s: %w", snap.GraphID, err)
	}
	query := fmt.Sprintf(`
		INSERT INTO %s (graph_id, name, payload, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (graph_id) DO UPDATE SET
			name = excluded.name,
			payload = excluded.payload,
			updated_at = excluded.updated_at
	`, s.tableName)
	if _, err := s.db.ExecContext(ctx, query, snap.GraphID, snap.Name, raw, time.Now()); err != nil {
		return fmt.Errorf("save snapshot %s: %w", snap.GraphID, err)
	}
	metrics.SnapshotOp("sqlite")
	return nil
}

func (s *SQLiteStore) Load(ctx context.Context, graphID string) (*snapshot.Snapshot, error) {
	query := fmt.Sprintf(`SELECT payload FROM %s WHERE graph_id = ?`, s.tableName)
	var raw []byte
	err := s.db.QueryRowContext(ctx, query, graphID).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %q", ErrSnapshotNotFound, graphID)
		}
		return nil, fmt.Errorf("load snapshot %s: %w", graphID, err)
	}
	var snap snapshot.Snapshot
	if err := s.serializer.Deserialize(raw, &snap); err != nil {
		return nil, fmt.Errorf("deserialize snapshot %s: %w", graphID, err)
	}
	metrics.SnapshotOp("sqlite")
	return &snap, nil
}

func (s *SQLiteStore) List(ctx context.Context) ([]string, error) {
	query := fmt.Sprintf(`SELECT graph_id FROM %s ORDER BY graph_id`, s.tableName)
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("list snapshots: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *SQLiteStore) Delete(ctx context.Context, graphID string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE graph_id = ?`, s.tableName)
	res, err := s.db.ExecContext(ctx, query, graphID)
	if err != nil {
		return fmt.Errorf("delete snapshot %s: %w", graphID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete snapshot %s: %w", graphID, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %q", ErrSnapshotNotFound, graphID)
	}
	return nil
}
