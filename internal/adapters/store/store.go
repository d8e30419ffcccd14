// Package store provides snapshot persistence adapters. Each store
// serializes snapshots through pkg/serialization and implements the same
// Store interface, so callers can swap memory, file, or database backends.
package store

import (
	"context"
	"errors"

	"github.com/venjye/LocalCVTools/pkg/snapshot"
)

// Store persists graph snapshots keyed by graph ID.
// PRINCIPLES:
// - ISP: Small interface, one concern
// - DIP: Callers depend on this abstraction, not a backend
type Store interface {
	// Save persists a snapshot, replacing any existing one for the graph.
	Save(ctx context.Context, snap *snapshot.Snapshot) error

	// Load retrieves the snapshot for a graph ID.
	Load(ctx context.Context, graphID string) (*snapshot.Snapshot, error)

	// List returns stored graph IDs in ascending order.
	List(ctx context.Context) ([]string, error)

	// Delete removes the snapshot for a graph ID.
	Delete(ctx context.Context, graphID string) error
}

// Store errors
var (
	ErrNilSnapshot      = errors.New("snapshot cannot be nil")
	ErrSnapshotNotFound = errors.New("snapshot not found")
)
