package handles

import (
	"errors"
	"sync"

	"github.com/obinnaokechukwu/gcguard/internal/identity"
)

// ErrNotProtected is returned by Decrement when the key has no recorded
// protections.
var ErrNotProtected = errors.New("handles: key is not protected")

type entry struct {
	obj   any // strong reference; keeps obj reachable while counted
	count int
}

// Table maps identity keys to positive protection counts, holding a strong
// reference to each counted object. A key is present exactly when its count
// is above zero.
//
// Thread-safe.
type Table struct {
	mu      sync.RWMutex
	entries map[identity.Key]*entry
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{entries: make(map[identity.Key]*entry)}
}

// Increment records one more protection of obj under key and returns the new
// count. The first increment stores obj.
func (t *Table) Increment(key identity.Key, obj any) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	e, ok := t.entries[key]
	if !ok {
		e = &entry{obj: obj}
		t.entries[key] = e
	}
	e.count++
	return e.count
}

// Decrement removes one protection recorded under key and returns the new
// count. When the count reaches zero the key is removed and the stored object
// is released. Returns ErrNotProtected, leaving the table untouched, if the
// key is absent.
func (t *Table) Decrement(key identity.Key) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	e, ok := t.entries[key]
	if !ok {
		return 0, ErrNotProtected
	}
	e.count--
	if e.count == 0 {
		e.obj = nil
		delete(t.entries, key)
	}
	return e.count, nil
}

// Count returns the protections recorded under key, or 0 if none.
func (t *Table) Count(key identity.Key) int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if e, ok := t.entries[key]; ok {
		return e.count
	}
	return 0
}

// Len returns the number of distinct keys.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries)
}

// Sum returns the total of all counts.
func (t *Table) Sum() int64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	var n int64
	for _, e := range t.entries {
		n += int64(e.count)
	}
	return n
}
