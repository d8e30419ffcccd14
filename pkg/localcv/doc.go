// Package localcv is the public facade over the pipeline engine: operator
// registry, graph sessions with private execution caches, and snapshot
// persistence. Presentation layers talk to Runtime and Session and never
// mutate graphs directly.
package localcv
