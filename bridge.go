//go:build !ios && !android && (amd64 || arm64)

package gcguard

import (
	"errors"
	"fmt"
	"sync"

	"github.com/ebitengine/purego"
	"github.com/obinnaokechukwu/gcguard/internal/handles"
	"github.com/obinnaokechukwu/gcguard/internal/platform"
)

// ErrCallbacksUnsupported indicates purego cannot create C callbacks on this
// platform.
var ErrCallbacksUnsupported = errors.New("gcguard: foreign callbacks not supported")

// Status codes returned by the foreign unprotect callback.
const (
	ForeignOK            int32 = 0
	ForeignNotProtected  int32 = -1
	ForeignUnknownHandle int32 = -2
)

// ForeignCallbacks holds C function pointers that let foreign code protect
// and unprotect exported objects through the default protector.
//
// C signatures:
//
//	uintptr_t protect(uintptr_t handle);   // returns handle, 0 if unknown
//	int32_t   unprotect(uintptr_t handle); // ForeignOK, ForeignNotProtected or ForeignUnknownHandle
//	int64_t   active_protections(void);
//
// Handle 0 is the "no object" value and is accepted by both calls as a no-op.
type ForeignCallbacks struct {
	Protect           uintptr
	Unprotect         uintptr
	ActiveProtections uintptr
}

var exported = handles.NewRegistry()

// Callbacks are created once and reused; purego has a hard limit on how many
// may ever exist.
var (
	foreignOnce sync.Once
	foreignCBs  ForeignCallbacks
)

// Export registers obj and returns a handle that foreign code may store in
// place of a pointer. obj stays reachable until Unexport. A nil obj yields
// handle 0.
func Export(obj any) uintptr {
	if isSentinel(obj) {
		return 0
	}
	return exported.Register(obj)
}

// Exported returns the object behind handle h, or nil.
func Exported(h uintptr) any {
	if h == 0 {
		return nil
	}
	return exported.Lookup(h)
}

// Unexport releases handle h. Protections taken through the handle are not
// affected.
func Unexport(h uintptr) {
	exported.Unregister(h)
}

// Callbacks returns the foreign entry points.
func Callbacks() (ForeignCallbacks, error) {
	if !platform.SupportsCallbacks {
		return ForeignCallbacks{}, fmt.Errorf("%w on %s", ErrCallbacksUnsupported, platform.Describe())
	}
	foreignOnce.Do(func() {
		foreignCBs = ForeignCallbacks{
			Protect: purego.NewCallback(func(_ purego.CDecl, h uintptr) uintptr {
				return protectHandle(h)
			}),
			Unprotect: purego.NewCallback(func(_ purego.CDecl, h uintptr) int32 {
				return unprotectHandle(h)
			}),
			ActiveProtections: purego.NewCallback(func(_ purego.CDecl) int64 {
				return Default().ActiveProtections()
			}),
		}
	})
	return foreignCBs, nil
}

func protectHandle(h uintptr) uintptr {
	if h == 0 {
		return 0
	}
	obj := exported.Lookup(h)
	if obj == nil {
		return 0
	}
	Default().Protect(obj)
	return h
}

func unprotectHandle(h uintptr) int32 {
	if h == 0 {
		return ForeignOK
	}
	obj := exported.Lookup(h)
	if obj == nil {
		return ForeignUnknownHandle
	}
	if _, err := Default().Unprotect(obj); err != nil {
		return ForeignNotProtected
	}
	return ForeignOK
}
