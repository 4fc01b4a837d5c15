// Package gcguard protects Go objects from garbage collection while nothing
// visibly references them.
//
// Some objects must stay alive even though no Go variable points at them:
// observer conditions that only react to events, handlers wired into a signal,
// or values handed to C code as opaque handles. A Protector records such an
// object and holds a strong reference to it until the matching Unprotect.
//
// Several implementations trade speed for debuggability:
//   - FastProtector keeps only an aggregate count and never validates. It is
//     the default.
//   - AccountingProtector keeps exact per-object counts. With RaisingPolicy it
//     reports unbalanced Unprotect calls as errors; with LoggingPolicy it logs
//     them with a stack trace and carries on.
//
// Libraries that do not hold a Protector of their own use the process-wide
// default, see Default and SetDefault. To track down a protection bug, install
// a logging or raising protector near program start, before anything has been
// protected, or set GCGUARD_PROTECTOR and call ConfigureDefault.
package gcguard

import (
	"fmt"

	"github.com/obinnaokechukwu/gcguard/internal/identity"
)

// Protector keeps objects reachable between Protect and Unprotect.
//
// Protecting the same object several times is legal; it stays protected until
// it has been unprotected the same number of times. A nil object (untyped nil
// or a nil pointer, map, slice, chan or func) is always passed through without
// any effect. Both methods return the object they were given.
//
// Objects are tracked by reference identity; values without one (ints,
// strings, comparable structs) are tracked by value. Passing a value that has
// neither, such as a struct holding a slice, or a struct holding a NaN, panics.
type Protector interface {
	// Protect records one protection of obj.
	Protect(obj any) any

	// Unprotect removes one protection of obj. Whether unbalanced calls are
	// detected, and how, depends on the implementation.
	Unprotect(obj any) (any, error)

	// ActiveProtections returns the number of outstanding protections across
	// all objects.
	ActiveProtections() int64
}

// Counter is implemented by protectors that track protections per object.
type Counter interface {
	// ProtectionCount returns how many times obj is currently protected.
	ProtectionCount(obj any) int

	// ProtectedObjects returns the number of distinct protected objects.
	ProtectedObjects() int
}

// NewStandard returns the protector installed as the default at startup.
func NewStandard() Protector {
	return NewFast()
}

// Protect protects v with the default protector and returns it.
func Protect[T any](v T) T {
	Default().Protect(v)
	return v
}

// Unprotect unprotects v with the default protector and returns it.
func Unprotect[T any](v T) (T, error) {
	_, err := Default().Unprotect(v)
	return v, err
}

// ProtectorName returns a short name for p, used in logs and metrics.
func ProtectorName(p Protector) string {
	if n, ok := p.(interface{ Name() string }); ok {
		return n.Name()
	}
	return fmt.Sprintf("%T", p)
}

func isSentinel(obj any) bool {
	return identity.IsNil(obj)
}
