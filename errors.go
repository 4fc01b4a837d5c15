package gcguard

import (
	"errors"
	"fmt"
)

// Common errors
var (
	// ErrNotProtected indicates Unprotect was called on an object with no
	// recorded protections.
	ErrNotProtected = errors.New("gcguard: object is not protected")

	// ErrInvalidProtector indicates an attempt to install a nil protector as
	// the default.
	ErrInvalidProtector = errors.New("gcguard: invalid protector")

	// ErrProtectorBusy indicates an attempt to replace a default protector
	// that still has active protections.
	ErrProtectorBusy = errors.New("gcguard: current protector has active protections")

	// ErrUnknownProtectorKind indicates a configuration named a protector kind
	// that does not exist.
	ErrUnknownProtectorKind = errors.New("gcguard: unknown protector kind")
)

// NotProtectedError is the error an accounting protector reports when an
// object is unprotected more times than it was protected.
type NotProtectedError struct {
	Protector  string // name of the protector that detected the condition
	ObjectType string
}

func (e *NotProtectedError) Error() string {
	return fmt.Sprintf("gcguard: object of type %s is not protected by this %s", e.ObjectType, e.Protector)
}

// Is reports whether target is ErrNotProtected.
func (e *NotProtectedError) Is(target error) bool {
	return target == ErrNotProtected
}
