// Package pipeline provides the core pipeline graph entity
// following Clean Architecture principles with zero external dependencies.
package pipeline

import (
	"fmt"
	"sort"
	"time"

	"github.com/venjye/LocalCVTools/internal/core/operator"
)

// Graph owns the set of operator instances (nodes) and directed connections
// (edges) between named ports. Every mutation is all-or-nothing: the edge
// set, viewed as a directed graph over node IDs, stays acyclic, and an input
// port holds at most one inbound connection.
// PRINCIPLES:
// - SRP: Responsible for graph structure, not execution
// - Single source of truth: callers mutate only through this API
type Graph struct {
	ID        string
	Name      string
	registry  *operator.Registry
	nodes     map[string]*operator.Instance
	edges     []*Connection
	seq       int
	stale     func(nodeID string)
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewGraph creates an empty graph bound to an operator registry.
func NewGraph(id, name string, reg *operator.Registry) (*Graph, error) {
	if reg == nil {
		return nil, ErrNilRegistry
	}
	now := time.Now()
	return &Graph{
		ID:        id,
		Name:      name,
		registry:  reg,
		nodes:     make(map[string]*operator.Instance),
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// OnStale registers the hook invoked with a node ID whenever that node's
// cached result becomes stale. The execution cache subscribes here; a nil
// hook is allowed.
func (g *Graph) OnStale(fn func(nodeID string)) {
	g.stale = fn
}

// AddNode instantiates a registered operator kind and returns the fresh
// node ID. IDs are monotonic within a graph, so ascending ID order matches
// insertion order.
func (g *Graph) AddNode(kindID string) (string, error) {
	g.seq++
	id := fmt.Sprintf("n%06d", g.seq)
	inst, err := g.registry.Instantiate(kindID, id)
	if err != nil {
		g.seq--
		return "", err
	}
	g.nodes[id] = inst
	g.touch()
	return id, nil
}

// RemoveNode removes a node and every connection incident to it. Removing
// an absent ID is a no-op, which keeps undo/redo in callers simple.
func (g *Graph) RemoveNode(nodeID string) {
	if _, ok := g.nodes[nodeID]; !ok {
		return
	}
	var kept []*Connection
	var orphanedTargets []string
	for _, e := range g.edges {
		if e.SourceID == nodeID {
			orphanedTargets = append(orphanedTargets, e.TargetID)
			continue
		}
		if e.TargetID == nodeID {
			continue
		}
		kept = append(kept, e)
	}
	g.edges = kept
	delete(g.nodes, nodeID)
	g.markStale(nodeID)
	for _, t := range orphanedTargets {
		g.markStale(t)
	}
	g.touch()
}

// Connect adds an edge from a source output port to a target input port.
// The cycle check probes reachability from target to source before
// insertion, so a failed call leaves the edge set unchanged.
func (g *Graph) Connect(sourceID, sourcePort, targetID, targetPort string) error {
	src, ok := g.nodes[sourceID]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownNode, sourceID)
	}
	dst, ok := g.nodes[targetID]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownNode, targetID)
	}
	if sourceID == targetID {
		return fmt.Errorf("%w: node %q", ErrSelfLoop, sourceID)
	}
	if err := checkPort(src, sourcePort, operator.PortOutput); err != nil {
		return err
	}
	if err := checkPort(dst, targetPort, operator.PortInput); err != nil {
		return err
	}
	for _, e := range g.edges {
		if e.TargetID == targetID && e.TargetPort == targetPort {
			return fmt.Errorf("%w: %s[%s]", ErrTargetPortOccupied, targetID, targetPort)
		}
	}
	if g.reachable(targetID, sourceID) {
		return fmt.Errorf("%w: %s[%s] -> %s[%s]", ErrCycleDetected, sourceID, sourcePort, targetID, targetPort)
	}
	g.edges = append(g.edges, &Connection{
		SourceID: sourceID, SourcePort: sourcePort,
		TargetID: targetID, TargetPort: targetPort,
	})
	g.markStale(targetID)
	g.touch()
	return nil
}

// Disconnect removes an existing edge.
func (g *Graph) Disconnect(sourceID, sourcePort, targetID, targetPort string) error {
	want := &Connection{SourceID: sourceID, SourcePort: sourcePort, TargetID: targetID, TargetPort: targetPort}
	for i, e := range g.edges {
		if e.equal(want) {
			g.edges = append(g.edges[:i], g.edges[i+1:]...)
			g.markStale(targetID)
			g.touch()
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrConnectionNotFound, want)
}

// SetParameter assigns a parameter on a node and marks the node and its
// downstream closure stale.
func (g *Graph) SetParameter(nodeID, name string, value any) error {
	n, ok := g.nodes[nodeID]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownNode, nodeID)
	}
	if err := n.SetParameter(name, value); err != nil {
		return err
	}
	g.markStale(nodeID)
	g.touch()
	return nil
}

// Node returns the instance for an ID.
func (g *Graph) Node(nodeID string) (*operator.Instance, error) {
	n, ok := g.nodes[nodeID]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownNode, nodeID)
	}
	return n, nil
}

// NodeIDs returns all node IDs in ascending order.
func (g *Graph) NodeIDs() []string {
	ids := make([]string, 0, len(g.nodes))
	for id := range g.nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Edges returns a copy of the edge list.
func (g *Graph) Edges() []*Connection {
	out := make([]*Connection, len(g.edges))
	copy(out, g.edges)
	return out
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// EdgeInto returns the single connection feeding a target input port, if any.
func (g *Graph) EdgeInto(targetID, targetPort string) (*Connection, bool) {
	for _, e := range g.edges {
		if e.TargetID == targetID && e.TargetPort == targetPort {
			return e, true
		}
	}
	return nil, false
}

// Downstream returns every node reachable forward from nodeID, in ascending
// ID order. The start node is not included.
func (g *Graph) Downstream(nodeID string) []string {
	seen := map[string]struct{}{nodeID: {}}
	queue := []string{nodeID}
	var out []string
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, e := range g.edges {
			if e.SourceID != cur {
				continue
			}
			if _, ok := seen[e.TargetID]; ok {
				continue
			}
			seen[e.TargetID] = struct{}{}
			out = append(out, e.TargetID)
			queue = append(queue, e.TargetID)
		}
	}
	sort.Strings(out)
	return out
}

// Rebind revalidates every node against a reloaded registry, swapping in
// the new descriptors. Validation runs before any mutation: an unknown kind
// or an edge whose port disappeared leaves the graph untouched. Nodes whose
// descriptor shape changed are marked stale, and parameter values that no
// longer satisfy the new specs fall back to their defaults.
func (g *Graph) Rebind(reg *operator.Registry) error {
	if reg == nil {
		return ErrNilRegistry
	}
	next := make(map[string]*operator.Descriptor, len(g.nodes))
	for id, n := range g.nodes {
		d, err := reg.Lookup(n.KindID)
		if err != nil {
			return fmt.Errorf("node %s: %w", id, err)
		}
		next[id] = d
	}
	for _, e := range g.edges {
		if !next[e.SourceID].OutputPort(e.SourcePort) || !next[e.TargetID].InputPort(e.TargetPort) {
			return fmt.Errorf("%w: %s no longer valid after reload", ErrUnknownPort, e)
		}
	}
	for id, n := range g.nodes {
		d := next[id]
		changed := n.Descriptor.Shape() != d.Shape()
		n.Descriptor = d
		params := make(map[string]any, len(d.Parameters))
		for i := range d.Parameters {
			spec := &d.Parameters[i]
			params[spec.Name] = spec.Default
			if prev, ok := n.Params[spec.Name]; ok {
				if v, err := spec.CheckValue(prev); err == nil {
					params[spec.Name] = v
				}
			}
		}
		n.Params = params
		if changed {
			g.markStale(id)
		}
	}
	g.registry = reg
	g.touch()
	return nil
}

// Clear removes all nodes and edges.
func (g *Graph) Clear() {
	for id := range g.nodes {
		g.markStale(id)
	}
	g.nodes = make(map[string]*operator.Instance)
	g.edges = nil
	g.touch()
}

// reachable reports whether to is reachable from from following edges
// forward. O(V+E) per probe, fine at interactive scale.
func (g *Graph) reachable(from, to string) bool {
	if from == to {
		return true
	}
	seen := map[string]struct{}{from: {}}
	queue := []string{from}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, e := range g.edges {
			if e.SourceID != cur {
				continue
			}
			if e.TargetID == to {
				return true
			}
			if _, ok := seen[e.TargetID]; !ok {
				seen[e.TargetID] = struct{}{}
				queue = append(queue, e.TargetID)
			}
		}
	}
	return false
}

// markStale notifies the stale hook for a node and its downstream closure.
// Downstream fingerprints encoded the old upstream fingerprint, so they are
// stale too; the cache also treats fingerprint mismatches as misses, which
// makes this cascade an optimization rather than a correctness requirement.
func (g *Graph) markStale(nodeID string) {
	if g.stale == nil {
		return
	}
	g.stale(nodeID)
	for _, id := range g.Downstream(nodeID) {
		g.stale(id)
	}
}

func (g *Graph) touch() {
	g.UpdatedAt = time.Now()
}

func checkPort(n *operator.Instance, port string, dir operator.PortDirection) error {
	if dir == operator.PortOutput {
		if n.Descriptor.OutputPort(port) {
			return nil
		}
		if n.Descriptor.InputPort(port) {
			return fmt.Errorf("%w: %q on node %s is an input port", ErrPortDirectionMismatch, port, n.ID)
		}
	} else {
		if n.Descriptor.InputPort(port) {
			return nil
		}
		if n.Descriptor.OutputPort(port) {
			return fmt.Errorf("%w: %q on node %s is an output port", ErrPortDirectionMismatch, port, n.ID)
		}
	}
	return fmt.Errorf("%w: %q on node %s (kind %s)", ErrUnknownPort, port, n.ID, n.KindID)
}
