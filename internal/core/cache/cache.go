// Package cache provides the execution cache entity
package cache

import (
	"sync"
)

// Entry memoizes one node's outputs under the fingerprint they were
// produced with. Overwritten on successful execution, dropped on
// invalidation.
type Entry struct {
	Fingerprint Fingerprint
	Outputs     map[string]any
}

// Cache memoizes node outputs per node ID. Private to one graph instance;
// concurrent graphs must each own an independent cache. Unbounded for a
// single session; eviction is deferred to callers that need it.
// PRINCIPLES:
// - SRP: Only responsible for memoization, not fingerprint semantics
// - Thread-safe
type Cache struct {
	mu      sync.RWMutex
	entries map[string]*Entry
}

// New creates an empty cache.
func New() *Cache {
	return &Cache{entries: make(map[string]*Entry)}
}

// Lookup returns the cached outputs for a node if the stored fingerprint
// matches. A mismatch is a miss: the entry was produced against stale
// upstream state.
func (c *Cache) Lookup(nodeID string, fp Fingerprint) (map[string]any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[nodeID]
	if !ok || e.Fingerprint != fp {
		return nil, false
	}
	return e.Outputs, true
}

// Store records a node's outputs under a fresh fingerprint, replacing any
// previous entry.
func (c *Cache) Store(nodeID string, fp Fingerprint, outputs map[string]any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[nodeID] = &Entry{Fingerprint: fp, Outputs: outputs}
}

// Invalidate drops the entry for a node. Graph mutations call this for the
// affected node and its downstream closure.
func (c *Cache) Invalidate(nodeID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, nodeID)
}

// Clear drops every entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*Entry)
}

// Len returns the number of cached nodes.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
