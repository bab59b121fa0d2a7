// File: debug/debug.go
// Package debug implements runtime introspection probes.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// A Registry collects named probe functions and dumps their results in
// one snapshot map, suitable for logging or export over an operator
// channel. MarshalState renders any snapshot as JSON.

package debug

import (
	"sync"

	"github.com/sugawarayuuta/sonnet"

	"github.com/momentics/sdrflow/api"
)

// Ensure compile-time interface compliance.
var _ api.Debug = (*Registry)(nil)

// Registry is a concurrent probe collection.
type Registry struct {
	mu     sync.RWMutex
	probes map[string]func() any
}

// NewRegistry returns an empty probe registry.
func NewRegistry() *Registry {
	return &Registry{probes: make(map[string]func() any)}
}

// RegisterProbe installs fn under name, replacing any previous probe of
// that name.
func (r *Registry) RegisterProbe(name string, fn func() any) {
	r.mu.Lock()
	r.probes[name] = fn
	r.mu.Unlock()
}

// DumpState invokes every probe and collects the results.
func (r *Registry) DumpState() map[string]any {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]any, len(r.probes))
	for name, fn := range r.probes {
		out[name] = fn()
	}
	return out
}

// DumpJSON renders the full probe state as JSON.
func (r *Registry) DumpJSON() ([]byte, error) {
	return MarshalState(r.DumpState())
}

// MarshalState encodes a snapshot as JSON.
func MarshalState(state any) ([]byte, error) {
	return sonnet.Marshal(state)
}
