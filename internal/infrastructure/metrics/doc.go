// Package metrics exposes expvar-published counters used by the LocalCVTools
// runtime (executions, cache, snapshot stores). It intentionally avoids
// external dependencies and shows up under /debug/vars when a caller mounts
// the default mux.
package metrics
