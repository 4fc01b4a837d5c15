package gcguard

import (
	"fmt"
	"reflect"
	"sync"
)

var (
	defaultMu sync.Mutex
	current   Protector = NewStandard()
)

// Default returns the process-wide default protector. It starts out as the
// standard protector (a FastProtector).
func Default() Protector {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	return current
}

// SetDefault installs p as the process-wide default protector.
//
// Replacing the default is only allowed while the current one has no active
// protections, which in practice means near program start. Objects protected
// by the old instance could never be unprotected once it is gone, so
// SetDefault returns ErrProtectorBusy instead. Installing the instance that
// is already the default always succeeds. A nil p yields ErrInvalidProtector.
func SetDefault(p Protector) error {
	if p == nil {
		return fmt.Errorf("%w: nil", ErrInvalidProtector)
	}
	if rv := reflect.ValueOf(p); rv.Kind() == reflect.Pointer && rv.IsNil() {
		return fmt.Errorf("%w: nil %T", ErrInvalidProtector, p)
	}

	defaultMu.Lock()
	defer defaultMu.Unlock()

	if sameProtector(p, current) {
		return nil
	}
	if n := current.ActiveProtections(); n != 0 {
		return fmt.Errorf("%w: %s has %d", ErrProtectorBusy, ProtectorName(current), n)
	}
	current = p
	return nil
}

func sameProtector(a, b Protector) bool {
	if reflect.TypeOf(a) != reflect.TypeOf(b) || !reflect.TypeOf(a).Comparable() {
		return false
	}
	return a == b
}
