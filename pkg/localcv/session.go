package localcv

import (
	"context"
	"errors"
	"sync"

	"github.com/venjye/LocalCVTools/internal/app/dto"
	"github.com/venjye/LocalCVTools/internal/app/usecases"
	"github.com/venjye/LocalCVTools/internal/core/cache"
	"github.com/venjye/LocalCVTools/internal/core/pipeline"
	"github.com/venjye/LocalCVTools/internal/infrastructure/metrics"
	"github.com/venjye/LocalCVTools/pkg/snapshot"
)

// Facade errors
var (
	ErrNoStore           = errors.New("no snapshot store configured")
	ErrExecutionInFlight = errors.New("an execution pass is already running")
)

// Session binds one graph to its private execution cache and executor. The
// engine is single-pass cooperative: mutations and executions are
// serialized against each other here, so presentation-layer callers get
// the snapshot-before-execute discipline for free.
type Session struct {
	rt       *Runtime
	graph    *pipeline.Graph
	cache    *cache.Cache
	executor *usecases.Executor

	mu      sync.Mutex
	running bool
	last    *dto.ExecutionResponse
}

func newSession(rt *Runtime, g *pipeline.Graph) *Session {
	c := cache.New()
	g.OnStale(func(nodeID string) {
		c.Invalidate(nodeID)
		metrics.IncInvalidations()
	})
	return &Session{
		rt:       rt,
		graph:    g,
		cache:    c,
		executor: usecases.NewExecutor(c, usecases.WithLogger(rt.logger)),
	}
}

// GraphID returns the session's graph ID.
func (s *Session) GraphID() string { return s.graph.ID }

// Graph exposes a read view of the graph for rendering. Mutations must go
// through the Session methods.
func (s *Session) Graph() *pipeline.Graph { return s.graph }

// AddNode instantiates an operator kind and returns the new node ID.
func (s *Session) AddNode(kindID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return "", ErrExecutionInFlight
	}
	return s.graph.AddNode(kindID)
}

// RemoveNode removes a node and its incident connections.
func (s *Session) RemoveNode(nodeID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return ErrExecutionInFlight
	}
	s.graph.RemoveNode(nodeID)
	return nil
}

// Connect links a source output port to a target input port.
func (s *Session) Connect(sourceID, sourcePort, targetID, targetPort string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return ErrExecutionInFlight
	}
	return s.graph.Connect(sourceID, sourcePort, targetID, targetPort)
}

// Disconnect removes an existing connection.
func (s *Session) Disconnect(sourceID, sourcePort, targetID, targetPort string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return ErrExecutionInFlight
	}
	return s.graph.Disconnect(sourceID, sourcePort, targetID, targetPort)
}

// SetParameter assigns a node parameter.
func (s *Session) SetParameter(nodeID, name string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return ErrExecutionInFlight
	}
	return s.graph.SetParameter(nodeID, name, value)
}

// Execute runs one pass over the graph. Only one pass may run at a time;
// mutations are rejected while it is in flight.
func (s *Session) Execute(ctx context.Context, req *dto.ExecutionRequest) (*dto.ExecutionResponse, error) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil, ErrExecutionInFlight
	}
	s.running = true
	s.mu.Unlock()

	resp, err := s.executor.Execute(ctx, s.graph, req)

	s.mu.Lock()
	s.running = false
	s.last = resp
	s.mu.Unlock()
	return resp, err
}

// LastResult returns the response of the most recent pass, letting callers
// show any node's intermediate output on demand.
func (s *Session) LastResult() (*dto.ExecutionResponse, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.last == nil {
		return nil, false
	}
	return s.last, true
}

// NodeResult returns the recorded result for one node from the most recent
// pass.
func (s *Session) NodeResult(nodeID string) (*dto.NodeResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.last == nil {
		return nil, false
	}
	n, ok := s.last.Nodes[nodeID]
	return n, ok
}

// Snapshot captures the graph's current structure and parameters.
func (s *Session) Snapshot() *snapshot.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return snapshot.Take(s.graph)
}

// Save persists the session's snapshot through the runtime store.
func (s *Session) Save(ctx context.Context) error {
	if s.rt.store == nil {
		return ErrNoStore
	}
	return s.rt.store.Save(ctx, s.Snapshot())
}
