// Package identity derives lookup keys for Go values based on reference
// identity rather than value equality.
//
// Keys for reference-like values (pointers, maps, channels, slices, funcs)
// hold only an address and do not keep the referenced object alive; callers
// that need it to survive must hold it separately. Keys for plain comparable
// values hold a copy of the value itself.
package identity

import (
	"fmt"
	"math"
	"reflect"
	"unsafe"
)

// Key identifies a value. Two keys are equal when they were derived from the
// same referenced object, or from equal values of a type that has no
// reference identity.
type Key struct {
	typ  reflect.Type
	addr uintptr
	val  any
}

// Type returns the dynamic type the key was derived from.
func (k Key) Type() reflect.Type {
	return k.typ
}

// String formats the key for diagnostics.
func (k Key) String() string {
	if k.typ == nil {
		return "<nil>"
	}
	if k.val != nil {
		return fmt.Sprintf("%s(%v)", k.typ, k.val)
	}
	return fmt.Sprintf("%s@%#x", k.typ, k.addr)
}

// IsNil reports whether v is the nil sentinel: a nil interface, or a nil
// value of a pointer-like kind.
func IsNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Chan, reflect.Func,
		reflect.Slice, reflect.UnsafePointer:
		return rv.IsNil()
	}
	return false
}

// Of returns the key for v. It panics if v has neither reference identity nor
// a comparable value.
//
// Func values are keyed by their closure object, so each closure created from
// a function literal has its own key; literals that capture nothing share one
// static closure. Slices are keyed by their backing array, and pointers to
// distinct zero-size values may share an address.
//
// NaN floats and complex numbers are keyed by their bit pattern. Other values
// that do not equal themselves, such as structs holding a NaN, panic like
// non-comparable ones.
func Of(v any) Key {
	if v == nil {
		return Key{}
	}
	rv := reflect.ValueOf(v)
	typ := rv.Type()
	switch rv.Kind() {
	case reflect.Func:
		return Key{typ: typ, addr: uintptr(dataWord(v))}
	case reflect.Pointer, reflect.Map, reflect.Chan,
		reflect.Slice, reflect.UnsafePointer:
		return Key{typ: typ, addr: rv.Pointer()}
	}
	if !rv.Comparable() {
		panic(fmt.Sprintf("gcguard: value of type %s has no stable identity", typ))
	}
	if v == v { // false only for values holding a NaN
		return Key{typ: typ, val: v}
	}
	switch rv.Kind() {
	case reflect.Float32, reflect.Float64:
		return Key{typ: typ, val: nanBits{re: math.Float64bits(rv.Float())}}
	case reflect.Complex64, reflect.Complex128:
		c := rv.Complex()
		return Key{typ: typ, val: nanBits{re: math.Float64bits(real(c)), im: math.Float64bits(imag(c))}}
	}
	panic(fmt.Sprintf("gcguard: value of type %s is not equal to itself", typ))
}

type nanBits struct{ re, im uint64 }

// dataWord returns the data word of an interface value. For a func it points
// at the closure object.
func dataWord(v any) unsafe.Pointer {
	return (*[2]unsafe.Pointer)(unsafe.Pointer(&v))[1]
}
