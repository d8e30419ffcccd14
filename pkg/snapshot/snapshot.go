// Package snapshot provides a plain, serializable record of a pipeline
// graph for persistence. Restoring replays the normal mutation API so the
// same validation and cycle-detection rules apply to restored graphs as to
// freshly built ones.
package snapshot

import (
	"fmt"
	"sort"

	"github.com/venjye/LocalCVTools/internal/core/operator"
	"github.com/venjye/LocalCVTools/internal/core/pipeline"
	"github.com/venjye/LocalCVTools/pkg/validation"
)

// Snapshot is the wire form of one graph.
type Snapshot struct {
	GraphID string `json:"graph_id" msgpack:"graph_id" validate:"required"`
	Name    string `json:"name" msgpack:"name"`
	Nodes   []Node `json:"nodes" msgpack:"nodes" validate:"dive"`
	Edges   []Edge `json:"edges" msgpack:"edges" validate:"dive"`
}

// Node records one operator instance.
type Node struct {
	ID     string         `json:"id" msgpack:"id" validate:"required,node_id"`
	KindID string         `json:"kind_id" msgpack:"kind_id" validate:"required,kind_id"`
	Params map[string]any `json:"params" msgpack:"params"`
}

// Edge records one connection.
type Edge struct {
	SourceID   string `json:"source_id" msgpack:"source_id" validate:"required,node_id"`
	SourcePort string `json:"source_port" msgpack:"source_port" validate:"required,port_name"`
	TargetID   string `json:"target_id" msgpack:"target_id" validate:"required,node_id"`
	TargetPort string `json:"target_port" msgpack:"target_port" validate:"required,port_name"`
}

// Take captures the current graph structure and parameter values. Nodes are
// recorded in ascending ID order so a restore reproduces scheduling order.
func Take(g *pipeline.Graph) *Snapshot {
	snap := &Snapshot{GraphID: g.ID, Name: g.Name}
	for _, id := range g.NodeIDs() {
		n, err := g.Node(id)
		if err != nil {
			continue
		}
		params := make(map[string]any, len(n.Params))
		for k, v := range n.Params {
			// parameters without a default start out nil; an unset value
			// has no wire form, so it is not recorded
			if v == nil {
				continue
			}
			params[k] = v
		}
		snap.Nodes = append(snap.Nodes, Node{ID: id, KindID: n.KindID, Params: params})
	}
	for _, e := range g.Edges() {
		snap.Edges = append(snap.Edges, Edge{
			SourceID: e.SourceID, SourcePort: e.SourcePort,
			TargetID: e.TargetID, TargetPort: e.TargetPort,
		})
	}
	return snap
}

// Restore rebuilds a graph by replaying add-node, set-parameter, and
// connect calls against a registry. Node IDs are reassigned (AddNode owns
// ID generation); the returned mapping translates snapshot IDs to the new
// ones. Any replay failure aborts the restore.
func Restore(snap *Snapshot, reg *operator.Registry) (*pipeline.Graph, map[string]string, error) {
	if err := validation.Struct(snap); err != nil {
		return nil, nil, fmt.Errorf("invalid snapshot: %w", err)
	}
	g, err := pipeline.NewGraph(snap.GraphID, snap.Name, reg)
	if err != nil {
		return nil, nil, err
	}

	nodes := make([]Node, len(snap.Nodes))
	copy(nodes, snap.Nodes)
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID < nodes[j].ID })

	idMap := make(map[string]string, len(nodes))
	for _, sn := range nodes {
		id, err := g.AddNode(sn.KindID)
		if err != nil {
			return nil, nil, fmt.Errorf("restore node %s: %w", sn.ID, err)
		}
		idMap[sn.ID] = id
		for _, name := range sortedKeys(sn.Params) {
			// a null in the params map means the parameter was never set;
			// replaying it would fail the kind check
			if sn.Params[name] == nil {
				continue
			}
			if err := g.SetParameter(id, name, sn.Params[name]); err != nil {
				return nil, nil, fmt.Errorf("restore node %s: %w", sn.ID, err)
			}
		}
	}
	for _, se := range snap.Edges {
		src, ok := idMap[se.SourceID]
		if !ok {
			return nil, nil, fmt.Errorf("%w: %q in edge list", pipeline.ErrUnknownNode, se.SourceID)
		}
		dst, ok := idMap[se.TargetID]
		if !ok {
			return nil, nil, fmt.Errorf("%w: %q in edge list", pipeline.ErrUnknownNode, se.TargetID)
		}
		if err := g.Connect(src, se.SourcePort, dst, se.TargetPort); err != nil {
			return nil, nil, fmt.Errorf("restore edge %s[%s] -> %s[%s]: %w",
				se.SourceID, se.SourcePort, se.TargetID, se.TargetPort, err)
		}
	}
	return g, idMap, nil
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
