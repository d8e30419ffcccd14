package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/venjye/LocalCVTools/internal/infrastructure/metrics"
	"github.com/venjye/LocalCVTools/pkg/serialization"
	"github.com/venjye/LocalCVTools/pkg/snapshot"
)

// PostgresStore persists snapshots in a PostgreSQL table, one row per
// graph, with the serialized payload in a bytea column.
type PostgresStore struct {
	pool       *pgxpool.Pool
	serializer *serialization.Serializer
	tableName  string
}

// NewPostgresStore creates a PostgreSQL snapshot store.
func NewPostgresStore(pool *pgxpool.Pool, s *serialization.Serializer) *PostgresStore {
	if s == nil {
		s = serialization.DefaultSerializer()
	}
	return &PostgresStore{pool: pool, serializer: s, tableName: "pipeline_snapshots"}
}

// InitSchema creates the snapshot table if it does not exist.
func (p *PostgresStore) InitSchema(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			graph_id   TEXT PRIMARY KEY,
			name       TEXT NOT NULL DEFAULT '',
			payload    BYTEA NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)
	`, p.tableName)
	if _, err := p.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("init snapshot schema: %w", err)
	}
	return nil
}

func (p *PostgresStore) Save(ctx context.Context, snap *snapshot.Snapshot) error {
	if snap == nil {
		return ErrNilSnapshot
	}
	raw, err := p.serializer.Serialize(snap)
	if err != nil {
		return fmt.Errorf("serialize snapshot %s: %w", snap.GraphID, err)
	}
	query := fmt.Sprintf(`
		INSERT INTO %s (graph_id, name, payload, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (graph_id) DO UPDATE SET
			name = EXCLUDED.name,
			payload = EXCLUDED.payload,
			updated_at = EXCLUDED.updated_at
	`, p.tableName)
	if _, err := p.pool.Exec(ctx, query, snap.GraphID, snap.Name, raw, time.Now()); err != nil {
		return fmt.Errorf("save snapshot %s: %w", snap.GraphID, err)
	}
	metrics.SnapshotOp("postgres")
	return nil
}

func (p *PostgresStore) Load(ctx context.Context, graphID string) (*snapshot.Snapshot, error) {
	query := fmt.Sprintf(`SELECT payload FROM %s WHERE graph_id = $1`, p.tableName)
	var raw []byte
	err := p.pool.QueryRow(ctx, query, graphID).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %q", ErrSnapshotNotFound, graphID)
		}
		return nil, fmt.Errorf("load snapshot %s: %w", graphID, err)
	}
	var snap snapshot.Snapshot
	if err := p.serializer.Deserialize(raw, &snap); err != nil {
		return nil, fmt.Errorf("deserialize snapshot %s: %w", graphID, err)
	}
	metrics.SnapshotOp("postgres")
	return &snap, nil
}

func (p *PostgresStore) List(ctx context.Context) ([]string, error) {
	query := fmt.Sprintf(`SELECT graph_id FROM %s ORDER BY graph_id`, p.tableName)
	rows, err := p.pool.Query(ctx, query)
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

func (p *PostgresStore) Delete(ctx context.Context, graphID string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE graph_id = $1`, p.tableName)
	tag, err := p.pool.Exec(ctx, query, graphID)
	if err != nil {
		return fmt.Errorf("delete snapshot %s: %w", graphID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %q", ErrSnapshotNotFound, graphID)
	}
	return nil
}
