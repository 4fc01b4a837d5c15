package gcguard

import (
	"errors"
	"fmt"
	"sync"

	"github.com/obinnaokechukwu/gcguard/internal/handles"
	"github.com/obinnaokechukwu/gcguard/internal/identity"
)

// AccountingProtector tracks the exact protection count of every object, so
// it can answer per-object queries and detect unbalanced Unprotect calls.
// What happens on detection is up to its FailurePolicy.
//
// It is slower than FastProtector and meant for debugging.
type AccountingProtector struct {
	policy FailurePolicy
	table  *handles.Table

	mu       sync.Mutex
	active   int64
	failures int64
}

// NewAccounting creates an AccountingProtector that reports failures through
// policy. A nil policy means RaisingPolicy.
func NewAccounting(policy FailurePolicy) *AccountingProtector {
	if policy == nil {
		policy = RaisingPolicy{}
	}
	return &AccountingProtector{
		policy: policy,
		table:  handles.NewTable(),
	}
}

// NewRaising creates an AccountingProtector whose Unprotect returns a
// *NotProtectedError for objects that are not protected.
func NewRaising() *AccountingProtector {
	return NewAccounting(RaisingPolicy{})
}

// Name returns the name of the failure policy's protector flavor.
func (p *AccountingProtector) Name() string {
	return p.policy.Name()
}

// Protect records one protection of obj and returns it.
func (p *AccountingProtector) Protect(obj any) any {
	if isSentinel(obj) {
		return obj
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.table.Increment(identity.Of(obj), obj)
	p.active++
	return obj
}

// Unprotect removes one protection of obj and returns it. If obj is not
// protected, nothing changes and the failure policy decides the error.
func (p *AccountingProtector) Unprotect(obj any) (any, error) {
	if isSentinel(obj) {
		return obj, nil
	}
	p.mu.Lock()
	_, err := p.table.Decrement(identity.Of(obj))
	if err == nil {
		p.active--
		p.mu.Unlock()
		return obj, nil
	}
	p.failures++
	p.mu.Unlock()

	// The policy runs unlocked; a logging handler may call back into p.
	if errors.Is(err, handles.ErrNotProtected) {
		npe := &NotProtectedError{
			Protector:  p.policy.Name(),
			ObjectType: fmt.Sprintf("%T", obj),
		}
		return obj, p.policy.NotProtected(obj, npe)
	}
	return obj, err
}

// ProtectionCount returns how many times obj is currently protected.
func (p *AccountingProtector) ProtectionCount(obj any) int {
	if isSentinel(obj) {
		return 0
	}
	return p.table.Count(identity.Of(obj))
}

// ProtectedObjects returns the number of distinct protected objects.
func (p *AccountingProtector) ProtectedObjects() int {
	return p.table.Len()
}

// ActiveProtections returns the total number of outstanding protections.
func (p *AccountingProtector) ActiveProtections() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.active
}

// UnprotectFailures returns how many Unprotect calls found their object
// unprotected.
func (p *AccountingProtector) UnprotectFailures() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.failures
}
