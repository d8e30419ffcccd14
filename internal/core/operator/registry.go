// Package operator provides the operator kind registry
package operator

import (
	"fmt"
	"sort"
	"sync"
)

// Registry maps kind IDs to immutable descriptors. The bootstrap layer
// populates it before any graph is constructed; the core never discovers
// operators on its own.
// PRINCIPLES:
// - SRP: Only responsible for kind registration and lookup
// - Thread-safe
type Registry struct {
	mu    sync.RWMutex
	kinds map[string]*Descriptor
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{kinds: make(map[string]*Descriptor)}
}

// Register adds a descriptor under its kind ID.
func (r *Registry) Register(d *Descriptor) error {
	if d == nil {
		return ErrNilDescriptor
	}
	if err := d.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.kinds[d.KindID]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateKind, d.KindID)
	}
	r.kinds[d.KindID] = d
	return nil
}

// Lookup returns the descriptor registered under kindID.
func (r *Registry) Lookup(kindID string) (*Descriptor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.kinds[kindID]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kindID)
	}
	return d, nil
}

// Instantiate creates a fresh instance of a registered kind with default
// parameter values. The caller owns id uniqueness.
func (r *Registry) Instantiate(kindID, id string) (*Instance, error) {
	d, err := r.Lookup(kindID)
	if err != nil {
		return nil, err
	}
	return NewInstance(id, d), nil
}

// Kinds returns all registered kind IDs in ascending order.
func (r *Registry) Kinds() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.kinds))
	for k := range r.kinds {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Reload replaces the registered descriptor set wholesale, validating every
// descriptor first. Used when the bootstrap layer rescans its operator
// catalog; existing graphs must be rebound afterwards.
func (r *Registry) Reload(descriptors []*Descriptor) error {
	next := make(map[string]*Descriptor, len(descriptors))
	for _, d := range descriptors {
		if d == nil {
			return ErrNilDescriptor
		}
		if err := d.Validate(); err != nil {
			return err
		}
		if _, dup := next[d.KindID]; dup {
			return fmt.Errorf("%w: %q", ErrDuplicateKind, d.KindID)
		}
		next[d.KindID] = d
	}
	r.mu.Lock()
	r.kinds = next
	r.mu.Unlock()
	return nil
}
