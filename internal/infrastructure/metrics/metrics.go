package metrics

import (
	"expvar"
)

// Execution metrics.
var (
	executionsTotal  = new(expvar.Int)
	executionsFailed = new(expvar.Int)
	nodeExecsTotal   = new(expvar.Int)
)

// Cache metrics.
var (
	cacheHitsTotal     = new(expvar.Int)
	cacheMissesTotal   = new(expvar.Int)
	invalidationsTotal = new(expvar.Int)
	snapshotOpsByStore = expvar.NewMap("localcv_snapshot_ops_total")
)

func init() {
	expvar.Publish("localcv_executions_total", executionsTotal)
	expvar.Publish("localcv_executions_failed_total", executionsFailed)
	expvar.Publish("localcv_node_executions_total", nodeExecsTotal)
	expvar.Publish("localcv_cache_hits_total", cacheHitsTotal)
	expvar.Publish("localcv_cache_misses_total", cacheMissesTotal)
	expvar.Publish("localcv_cache_invalidations_total", invalidationsTotal)
}

// Execution helpers
func IncExecutions()       { executionsTotal.Add(1) }
func IncFailedExecutions() { executionsFailed.Add(1) }
func IncNodeExecs()        { nodeExecsTotal.Add(1) }

// Cache helpers
func IncCacheHits()     { cacheHitsTotal.Add(1) }
func IncCacheMisses()   { cacheMissesTotal.Add(1) }
func IncInvalidations() { invalidationsTotal.Add(1) }

// SnapshotOp counts snapshot store operations keyed by store kind.
func SnapshotOp(store string) { snapshotOpsByStore.Add(store, 1) }
