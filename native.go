// native.go: the boundary between Library and the operating system loader
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package dynlib

// NativeLoader is the set of native dynamic-loading primitives a Library
// drives. A zero handle or a non-nil error from Open means the library could
// not be loaded; every non-zero handle returned by Open must be passed to
// Close exactly once.
//
// SystemLoader returns the implementation for the platform the binary was
// built for: dlopen/dlsym/dlclose on POSIX systems and
// LoadLibrary/GetProcAddress/FreeLibrary on Windows. Tests substitute their
// own implementation to observe or script native calls.
type NativeLoader interface {
	// Open maps the shared library at path into the process.
	Open(path string) (uintptr, error)

	// Symbol resolves an exported symbol in the library identified by handle.
	Symbol(handle uintptr, name string) (uintptr, error)

	// Close releases a handle obtained from Open.
	Close(handle uintptr) error

	// Call invokes the C function at fn with integer-class arguments and
	// returns its integer-class result. It is used for entry points whose
	// signature is fixed by convention.
	Call(fn uintptr, args ...uintptr) uintptr
}

// SystemLoader returns the native loader for the current platform.
func SystemLoader() NativeLoader {
	return systemLoader{}
}
