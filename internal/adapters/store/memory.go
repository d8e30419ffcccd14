package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/venjye/LocalCVTools/internal/infrastructure/metrics"
	"github.com/venjye/LocalCVTools/pkg/serialization"
	"github.com/venjye/LocalCVTools/pkg/snapshot"
)

// MemoryStore keeps serialized snapshots in a map. Snapshots round-trip
// through the serializer even in memory so a caller holding the original
// cannot alias stored state.
type MemoryStore struct {
	mu         sync.RWMutex
	data       map[string][]byte
	serializer *serialization.Serializer
}

// NewMemoryStore creates an in-memory snapshot store. A nil serializer
// falls back to the default msgpack+zstd pipeline.
func NewMemoryStore(s *serialization.Serializer) *MemoryStore {
	if s == nil {
		s = serialization.DefaultSerializer()
	}
	return &MemoryStore{data: make(map[string][]byte), serializer: s}
}

func (m *MemoryStore) Save(ctx context.Context, snap *snapshot.Snapshot) error {
	if snap == nil {
		return ErrNilSnapshot
	}
	raw, err := m.serializer.Serialize(snap)
	if err != nil {
		return fmt.Errorf("serialize snapshot %s: %w", snap.GraphID, err)
	}
	m.mu.Lock()
	m.data[snap.GraphID] = raw
	m.mu.Unlock()
	metrics.SnapshotOp("memory")
	return nil
}

func (m *MemoryStore) Load(ctx context.Context, graphID string) (*snapshot.Snapshot, error) {
	m.mu.RLock()
	raw, ok := m.data[graphID]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrSnapshotNotFound, graphID)
	}
	var snap snapshot.Snapshot
	if err := m.serializer.Deserialize(raw, &snap); err != nil {
		return nil, fmt.Errorf("deserialize snapshot %s: %w", graphID, err)
	}
	metrics.SnapshotOp("memory")
	return &snap, nil
}

func (m *MemoryStore) List(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.data))
	for id := range m.data {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (m *MemoryStore) Delete(ctx context.Context, graphID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.data[graphID]; !ok {
		return fmt.Errorf("%w: %q", ErrSnapshotNotFound, graphID)
	}
	delete(m.data, graphID)
	return nil
}
