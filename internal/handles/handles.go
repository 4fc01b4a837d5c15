// Package handles provides the bookkeeping behind gcguard protectors: a
// counted table that holds strong references to protected objects, and a
// registry of opaque handles for Go objects that foreign code refers to.
//
// Foreign code cannot hold Go pointers. Instead, an object is registered and
// the caller gets back a uintptr handle that can be stored in C memory. The
// object stays reachable until the handle is unregistered.
package handles

import (
	"sync"
)

// Registry issues uintptr handles for Go objects. Handle 0 is never issued,
// so foreign code can use it as "no object".
//
// Thread-safe.
type Registry struct {
	mu     sync.RWMutex
	byID   map[uintptr]any
	nextID uintptr
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{byID: make(map[uintptr]any), nextID: 1}
}

// Register stores v and returns its handle.
func (r *Registry) Register(v any) uintptr {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := r.nextID
	r.nextID++
	r.byID[id] = v
	return id
}

// Lookup returns the object registered under id, or nil.
func (r *Registry) Lookup(id uintptr) any {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.byID[id]
}

// Unregister drops the object registered under id. Unknown ids are ignored.
func (r *Registry) Unregister(id uintptr) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byID, id)
}

// Count returns the number of registered handles.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}
