//go:build !ios && !android && (amd64 || arm64)

// Package platform reports which foreign-call features gcguard can offer on
// the current operating system and architecture.
package platform

import (
	"runtime"
	"unsafe"
)

// Is64Bit indicates whether the platform is 64-bit.
// Foreign handles are passed as uintptr, which purego only supports on 64-bit.
const Is64Bit = unsafe.Sizeof(uintptr(0)) == 8

// SupportsCallbacks indicates whether purego can turn Go functions into C
// function pointers here.
const SupportsCallbacks = Is64Bit &&
	(runtime.GOOS == "darwin" || runtime.GOOS == "linux" ||
		runtime.GOOS == "freebsd" || runtime.GOOS == "windows")

// Describe returns "GOOS/GOARCH", for error messages.
func Describe() string {
	return runtime.GOOS + "/" + runtime.GOARCH
}
