package usecases

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/venjye/LocalCVTools/internal/app/dto"
	"github.com/venjye/LocalCVTools/internal/core/cache"
	"github.com/venjye/LocalCVTools/internal/core/pipeline"
	"github.com/venjye/LocalCVTools/internal/core/schedule"
	"github.com/venjye/LocalCVTools/internal/infrastructure/metrics"
)

// Executor drives one execution pass: it walks the scheduler's order,
// resolves each node's inputs from upstream outputs, consults the result
// cache via fingerprints, and invokes processing on misses.
//
// One pass runs to completion or failure before another may start against
// the same graph; the graph must not be mutated while a pass is in flight.
// PRINCIPLES:
// - SRP: Execution orchestration only; structure lives in pipeline,
//   ordering in schedule, memoization in cache
type Executor struct {
	scheduler Scheduler
	cache     ResultCache
	logger    *slog.Logger
}

// NewExecutor creates an executor over a result cache. A nil cache disables
// memoization (every node recomputes); a nil logger falls back to the
// default slog logger.
func NewExecutor(c ResultCache, opts ...ExecutorOption) *Executor {
	e := &Executor{
		scheduler: SchedulerFunc(schedule.Order),
		cache:     c,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ExecutorOption customizes executor construction.
type ExecutorOption func(*Executor)

// WithScheduler overrides the default Kahn scheduler.
func WithScheduler(s Scheduler) ExecutorOption {
	return func(e *Executor) { e.scheduler = s }
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) ExecutorOption {
	return func(e *Executor) { e.logger = l }
}

// Execute runs a full pass over the graph and returns every node's outputs.
// On failure the response still carries per-node states: completed nodes
// stay Done, the failing node is Failed, everything after it stays Pending.
func (e *Executor) Execute(ctx context.Context, g *pipeline.Graph, req *dto.ExecutionRequest) (*dto.ExecutionResponse, error) {
	if g == nil {
		return nil, dto.ErrNilGraph
	}
	if req == nil {
		req = &dto.ExecutionRequest{}
	}

	resp := &dto.ExecutionResponse{
		ExecutionID: uuid.NewString(),
		GraphID:     g.ID,
		Status:      dto.ExecutionStatusRunning,
		Nodes:       make(map[string]*dto.NodeResult, g.NodeCount()),
		StartTime:   time.Now(),
	}
	metrics.IncExecutions()

	err := e.run(ctx, g, req, resp)

	resp.EndTime = time.Now()
	resp.Duration = resp.EndTime.Sub(resp.StartTime)
	if err != nil {
		resp.Status = dto.ExecutionStatusFailed
		resp.Error = err.Error()
		metrics.IncFailedExecutions()
		e.logger.Warn("execution failed",
			"execution_id", resp.ExecutionID,
			"graph_id", resp.GraphID,
			"error", err)
		return resp, err
	}
	resp.Status = dto.ExecutionStatusCompleted
	return resp, nil
}

func (e *Executor) run(ctx context.Context, g *pipeline.Graph, req *dto.ExecutionRequest, resp *dto.ExecutionResponse) error {
	order, err := e.scheduler.Order(g)
	if err != nil {
		return err
	}
	resp.Order = order

	for _, id := range order {
		n, err := g.Node(id)
		if err != nil {
			return err
		}
		resp.Nodes[id] = &dto.NodeResult{NodeID: id, KindID: n.KindID, State: dto.NodeStatePending}
	}

	if req.ForceRefresh && e.cache != nil {
		e.cache.Clear()
	}

	fingerprints := make(map[string]cache.Fingerprint, len(order))
	debug := req.Config.DebugMode

	for _, id := range order {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("%w: %w", dto.ErrExecutionAborted, err)
		}

		n, _ := g.Node(id)
		rec := resp.Nodes[id]

		inputs, upstream := e.gatherInputs(g, resp, id, fingerprints)
		fp, err := cache.Compute(n, upstream)
		if err != nil {
			rec.State = dto.NodeStateFailed
			rec.Error = err.Error()
			return err
		}
		fingerprints[id] = fp

		if e.cache != nil {
			if outputs, hit := e.cache.Lookup(id, fp); hit {
				rec.State = dto.NodeStateDone
				rec.CacheHit = true
				rec.Outputs = outputs
				resp.CacheHits++
				metrics.IncCacheHits()
				if debug {
					e.logger.Debug("cache hit", "node", id, "kind", n.KindID)
				}
				continue
			}
		}
		resp.CacheMisses++
		metrics.IncCacheMisses()

		rec.State = dto.NodeStateRunning
		rec.StartTime = time.Now()
		outputs, err := n.Process(ctx, inputs)
		rec.EndTime = time.Now()
		rec.Duration = rec.EndTime.Sub(rec.StartTime)
		metrics.IncNodeExecs()
		if err != nil {
			rec.State = dto.NodeStateFailed
			rec.Error = err.Error()
			return fmt.Errorf("%w: %w", dto.ErrExecutionFailed, err)
		}

		rec.State = dto.NodeStateDone
		rec.Outputs = outputs
		if e.cache != nil {
			e.cache.Store(id, fp, outputs)
		}
		if debug {
			e.logger.Debug("node executed",
				"node", id,
				"kind", n.KindID,
				"duration", rec.Duration)
		}
	}
	return nil
}

// gatherInputs reads, for each declared input port, the output produced by
// the connected source port earlier in the order, along with an upstream
// reference naming that port and carrying the source's fingerprint.
// Unconnected ports are simply absent; Process rejects them.
func (e *Executor) gatherInputs(g *pipeline.Graph, resp *dto.ExecutionResponse, nodeID string, fps map[string]cache.Fingerprint) (map[string]any, map[string]cache.Upstream) {
	n, _ := g.Node(nodeID)
	inputs := make(map[string]any, len(n.Descriptor.Inputs))
	upstream := make(map[string]cache.Upstream, len(n.Descriptor.Inputs))
	for i := range n.Descriptor.Inputs {
		port := n.Descriptor.Inputs[i].Name
		conn, ok := g.EdgeInto(nodeID, port)
		if !ok {
			continue
		}
		upstream[port] = cache.Upstream{
			SourcePort:  conn.SourcePort,
			Fingerprint: fps[conn.SourceID],
		}
		if srcOuts, ok := resp.Outputs(conn.SourceID); ok {
			if v, ok := srcOuts[conn.SourcePort]; ok {
				inputs[port] = v
			}
		}
	}
	return inputs, upstream
}
