package localcv

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/venjye/LocalCVTools/internal/adapters/store"
	"github.com/venjye/LocalCVTools/internal/app/dto"
	"github.com/venjye/LocalCVTools/internal/core/operator"
	"github.com/venjye/LocalCVTools/internal/core/pipeline"
	"github.com/venjye/LocalCVTools/pkg/snapshot"
)

// Re-export core types for convenience.
type (
	Descriptor        = operator.Descriptor
	ParameterSpec     = operator.ParameterSpec
	PortSpec          = operator.PortSpec
	Registry          = operator.Registry
	Graph             = pipeline.Graph
	Connection        = pipeline.Connection
	ExecutionRequest  = dto.ExecutionRequest
	ExecutionResponse = dto.ExecutionResponse
	NodeResult        = dto.NodeResult
	Snapshot          = snapshot.Snapshot
	SnapshotStore     = store.Store
)

// Runtime owns the operator registry, the live sessions, and an optional
// snapshot store. The presentation layer talks only to Runtime and Session;
// graphs are never mutated directly.
type Runtime struct {
	registry *operator.Registry
	store    store.Store
	logger   *slog.Logger

	mu       sync.Mutex
	sessions map[string]*Session
}

// Option customizes runtime construction.
type Option func(*Runtime)

// WithStore attaches a snapshot store for Save/Load.
func WithStore(s store.Store) Option {
	return func(rt *Runtime) { rt.store = s }
}

// WithLogger sets the structured logger shared by sessions.
func WithLogger(l *slog.Logger) Option {
	return func(rt *Runtime) { rt.logger = l }
}

// NewRuntime constructs a runtime with an empty operator registry. Register
// descriptors (e.g. prebuilt.RegisterAll) before building graphs.
func NewRuntime(opts ...Option) *Runtime {
	rt := &Runtime{
		registry: operator.NewRegistry(),
		logger:   slog.Default(),
		sessions: make(map[string]*Session),
	}
	for _, opt := range opts {
		opt(rt)
	}
	return rt
}

// Registry exposes the operator registry for bootstrap-time registration.
func (rt *Runtime) Registry() *operator.Registry {
	return rt.registry
}

// RegisterOperator registers a single descriptor.
func (rt *Runtime) RegisterOperator(d *operator.Descriptor) error {
	return rt.registry.Register(d)
}

// NewSession creates an empty graph with its own private execution cache.
func (rt *Runtime) NewSession(name string) (*Session, error) {
	g, err := pipeline.NewGraph(uuid.NewString(), name, rt.registry)
	if err != nil {
		return nil, err
	}
	s := newSession(rt, g)
	rt.mu.Lock()
	rt.sessions[g.ID] = s
	rt.mu.Unlock()
	return s, nil
}

// Session returns a live session by graph ID.
func (rt *Runtime) Session(graphID string) (*Session, bool) {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	s, ok := rt.sessions[graphID]
	return s, ok
}

// CloseSession tears a session down, dropping its cache.
func (rt *Runtime) CloseSession(graphID string) {
	rt.mu.Lock()
	s, ok := rt.sessions[graphID]
	delete(rt.sessions, graphID)
	rt.mu.Unlock()
	if ok {
		s.cache.Clear()
	}
}

// LoadSession restores a graph from the snapshot store, replaying it
// through the normal mutation API so structural rules apply.
func (rt *Runtime) LoadSession(ctx context.Context, graphID string) (*Session, error) {
	if rt.store == nil {
		return nil, ErrNoStore
	}
	snap, err := rt.store.Load(ctx, graphID)
	if err != nil {
		return nil, err
	}
	g, _, err := snapshot.Restore(snap, rt.registry)
	if err != nil {
		return nil, fmt.Errorf("restore graph %s: %w", graphID, err)
	}
	s := newSession(rt, g)
	rt.mu.Lock()
	rt.sessions[g.ID] = s
	rt.mu.Unlock()
	return s, nil
}

// ReloadOperators swaps the registry contents and rebinds every live
// session, invalidating caches for nodes whose descriptor shape changed.
func (rt *Runtime) ReloadOperators(descriptors []*operator.Descriptor) error {
	if err := rt.registry.Reload(descriptors); err != nil {
		return err
	}
	rt.mu.Lock()
	defer rt.mu.Unlock()
	for id, s := range rt.sessions {
		if err := s.graph.Rebind(rt.registry); err != nil {
			return fmt.Errorf("rebind graph %s: %w", id, err)
		}
	}
	return nil
}
