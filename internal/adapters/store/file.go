package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/venjye/LocalCVTools/internal/infrastructure/metrics"
	"github.com/venjye/LocalCVTools/pkg/serialization"
	"github.com/venjye/LocalCVTools/pkg/snapshot"
)

const fileExt = ".lcvs"

// FileStore writes one serialized snapshot file per graph under a
// directory. Writes go through a temp file and rename so a crashed save
// never leaves a truncated snapshot behind.
type FileStore struct {
	dir        string
	serializer *serialization.Serializer
}

// NewFileStore creates the directory if needed.
func NewFileStore(dir string, s *serialization.Serializer) (*FileStore, error) {
	if s == nil {
		s = serialization.DefaultSerializer()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create snapshot dir: %w", err)
	}
	return &FileStore{dir: dir, serializer: s}, nil
}

func (f *FileStore) path(graphID string) string {
	return filepath.Join(f.dir, graphID+fileExt)
}

func (f *FileStore) Save(ctx context.Context, snap *snapshot.Snapshot) error {
	if snap == nil {
		return ErrNilSnapshot
	}
	raw, err := f.serializer.Serialize(snap)
	if err != nil {
		return fmt.Errorf("serialize snapshot %s: %w", snap.GraphID, err)
	}
	tmp, err := os.CreateTemp(f.dir, snap.GraphID+".tmp-*")
	if err != nil {
		return fmt.Errorf("write snapshot %s: %w", snap.GraphID, err)
	}
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write snapshot %s: %w", snap.GraphID, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write snapshot %s: %w", snap.GraphID, err)
	}
	if err := os.Rename(tmp.Name(), f.path(snap.GraphID)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write snapshot %s: %w", snap.GraphID, err)
	}
	metrics.SnapshotOp("file")
	return nil
}

func (f *FileStore) Load(ctx context.Context, graphID string) (*snapshot.Snapshot, error) {
	raw, err := os.ReadFile(f.path(graphID))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %q", ErrSnapshotNotFound, graphID)
		}
		return nil, fmt.Errorf("read snapshot %s: %w", graphID, err)
	}
	var snap snapshot.Snapshot
	if err := f.serializer.Deserialize(raw, &snap); err != nil {
		return nil, fmt.Errorf("deserialize snapshot %s: %w", graphID, err)
	}
	metrics.SnapshotOp("file")
	return &snap, nil
}

func (f *FileStore) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(f.dir)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	var ids []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), fileExt) {
			continue
		}
		ids = append(ids, strings.TrimSuffix(e.Name(), fileExt))
	}
	sort.Strings(ids)
	return ids, nil
}

func (f *FileStore) Delete(ctx context.Context, graphID string) error {
	if err := os.Remove(f.path(graphID)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %q", ErrSnapshotNotFound, graphID)
		}
		return fmt.Errorf("delete snapshot %s: %w", graphID, err)
	}
	return nil
}
