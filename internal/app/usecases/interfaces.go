package usecases

import (
	"github.com/venjye/LocalCVTools/internal/core/cache"
	"github.com/venjye/LocalCVTools/internal/core/pipeline"
)

// Scheduler computes a valid execution order for a graph.
// PRINCIPLES:
// - DIP: The executor depends on this abstraction, not on the Kahn
//   implementation directly
type Scheduler interface {
	Order(g *pipeline.Graph) ([]string, error)
}

// SchedulerFunc adapts a plain function to the Scheduler interface.
type SchedulerFunc func(g *pipeline.Graph) ([]string, error)

// Order calls fn(g).
func (fn SchedulerFunc) Order(g *pipeline.Graph) ([]string, error) { return fn(g) }

// ResultCache is the memoization surface the executor consults per node.
type ResultCache interface {
	Lookup(nodeID string, fp cache.Fingerprint) (map[string]any, bool)
	Store(nodeID string, fp cache.Fingerprint, outputs map[string]any)
	Invalidate(nodeID string)
	Clear()
}
