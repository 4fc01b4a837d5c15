package gcguard

import (
	"sync/atomic"

	"github.com/obinnaokechukwu/gcguard/internal/handles"
	"github.com/obinnaokechukwu/gcguard/internal/identity"
)

// FastProtector is the production protector. It counts only the aggregate
// number of protections and performs no validation, so it cannot tell whether
// a given object is protected and cannot catch misuse. The strong references
// themselves live in a pin table keyed by object identity; it is never
// consulted to check a call and is not exposed.
//
// Calling Unprotect on an object more times than it was protected is a
// precondition violation. The result is unspecified: the aggregate count is
// decremented regardless and may go negative, which in turn blocks SetDefault.
type FastProtector struct {
	active atomic.Int64
	pins   *handles.Table
}

// NewFast creates a FastProtector.
func NewFast() *FastProtector {
	return &FastProtector{pins: handles.NewTable()}
}

// Name returns "FastProtector".
func (p *FastProtector) Name() string { return "FastProtector" }

// Protect pins obj and returns it.
func (p *FastProtector) Protect(obj any) any {
	if isSentinel(obj) {
		return obj
	}
	p.pins.Increment(identity.Of(obj), obj)
	p.active.Add(1)
	return obj
}

// Unprotect drops one pin of obj and returns it. The error is always nil.
func (p *FastProtector) Unprotect(obj any) (any, error) {
	if isSentinel(obj) {
		return obj, nil
	}
	// Unbalanced calls are the caller's bug; nothing is reported.
	_, _ = p.pins.Decrement(identity.Of(obj))
	p.active.Add(-1)
	return obj, nil
}

// ActiveProtections returns the aggregate protection count.
func (p *FastProtector) ActiveProtections() int64 {
	return p.active.Load()
}
