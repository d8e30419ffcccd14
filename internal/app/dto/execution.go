package dto

import (
	"time"
)

// ExecutionRequest configures one execution pass over a graph.
type ExecutionRequest struct {
	ForceRefresh bool            `json:"force_refresh"` // drop all cached results first
	Config       ExecutionConfig `json:"config"`
}

// ExecutionConfig contains configuration for graph execution.
type ExecutionConfig struct {
	DebugMode bool `json:"debug_mode"` // per-node debug logging
}

// ExecutionStatus represents the status of an execution pass.
type ExecutionStatus string

const (
	ExecutionStatusRunning   ExecutionStatus = "running"
	ExecutionStatusCompleted ExecutionStatus = "completed"
	ExecutionStatusFailed    ExecutionStatus = "failed"
)

// NodeState tracks one node through a single execution pass. Failed is
// terminal for the pass; nodes after the failure stay Pending so "not
// attempted" is distinguishable from "attempted and errored".
type NodeState string

const (
	NodeStatePending NodeState = "pending"
	NodeStateRunning NodeState = "running"
	NodeStateDone    NodeState = "done"
	NodeStateFailed  NodeState = "failed"
)

// NodeResult records the outcome for one node in one pass.
type NodeResult struct {
	NodeID    string         `json:"node_id"`
	KindID    string         `json:"kind_id"`
	State     NodeState      `json:"state"`
	CacheHit  bool           `json:"cache_hit"`
	Outputs   map[string]any `json:"outputs,omitempty"`
	StartTime time.Time      `json:"start_time,omitempty"`
	EndTime   time.Time      `json:"end_time,omitempty"`
	Duration  time.Duration  `json:"duration,omitempty"`
	Error     string         `json:"error,omitempty"`
}

// ExecutionResponse carries every node's outputs, not just terminal ones,
// so callers can show intermediate results without a second pass.
type ExecutionResponse struct {
	ExecutionID string                 `json:"execution_id"`
	GraphID     string                 `json:"graph_id"`
	Status      ExecutionStatus        `json:"status"`
	Order       []string               `json:"order"`
	Nodes       map[string]*NodeResult `json:"nodes"`
	CacheHits   int                    `json:"cache_hits"`
	CacheMisses int                    `json:"cache_misses"`
	StartTime   time.Time              `json:"start_time"`
	EndTime     time.Time              `json:"end_time"`
	Duration    time.Duration          `json:"duration"`
	Error       string                 `json:"error,omitempty"`
}

// Outputs returns the port outputs recorded for a node, if the node
// completed during the pass.
func (r *ExecutionResponse) Outputs(nodeID string) (map[string]any, bool) {
	n, ok := r.Nodes[nodeID]
	if !ok || n.State != NodeStateDone {
		return nil, false
	}
	return n.Outputs, true
}

// Output returns a single port value for a completed node.
func (r *ExecutionResponse) Output(nodeID, port string) (any, bool) {
	outs, ok := r.Outputs(nodeID)
	if !ok {
		return nil, false
	}
	v, ok := outs[port]
	return v, ok
}
