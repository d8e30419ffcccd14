// Package schedule computes deterministic execution orders for pipeline
// graphs following Clean Architecture principles with zero external
// dependencies.
package schedule

import (
	"fmt"
	"sort"

	"github.com/venjye/LocalCVTools/internal/core/pipeline"
)

// Order returns a topological order over the graph's node IDs using Kahn's
// algorithm. Among simultaneously eligible nodes the smallest ID runs
// first, so an identical graph always yields an identical order. An empty
// graph yields an empty order.
//
// Connect already rejects cycle-closing edges, but graphs restored from
// external snapshots may bypass those guards, so acyclicity is re-checked
// here: leftover nodes after the sort mean a cycle.
func Order(g *pipeline.Graph) ([]string, error) {
	ids := g.NodeIDs()
	inDegree := make(map[string]int, len(ids))
	for _, id := range ids {
		inDegree[id] = 0
	}
	adj := make(map[string][]string, len(ids))
	for _, e := range g.Edges() {
		adj[e.SourceID] = append(adj[e.SourceID], e.TargetID)
		inDegree[e.TargetID]++
	}

	// ids is already ascending, so the initial ready set is sorted.
	var ready []string
	for _, id := range ids {
		if inDegree[id] == 0 {
			ready = append(ready, id)
		}
	}

	order := make([]string, 0, len(ids))
	for len(ready) > 0 {
		cur := ready[0]
		ready = ready[1:]
		order = append(order, cur)

		released := false
		for _, t := range adj[cur] {
			inDegree[t]--
			if inDegree[t] == 0 {
				ready = append(ready, t)
				released = true
			}
		}
		if released {
			sort.Strings(ready)
		}
	}

	if len(order) != len(ids) {
		return nil, fmt.Errorf("%w: %d of %d nodes unreachable by topological sort",
			pipeline.ErrCycleDetected, len(ids)-len(order), len(ids))
	}
	return order, nil
}
