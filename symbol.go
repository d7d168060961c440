// symbol.go: typed access to resolved symbols
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package dynlib

import "unsafe"

// Func resolves the exported function name in l and returns it as a Go
// function of type T, which must be a func type whose parameters and results
// follow the C calling convention of the target (integers, floats, pointers,
// uintptr, bool, string). The second result is false when l is empty or the
// symbol is absent.
//
// T is not checked against the real signature of the symbol. Calling a
// function resolved with the wrong T is undefined behavior.
func Func[T any](l *Library, name string) (T, bool) {
	var fn T
	addr := l.Symbol(name)
	if addr == 0 {
		return fn, false
	}
	bindFunc(&fn, addr)
	return fn, true
}

// Var resolves the exported data symbol name in l and returns a pointer to
// it, or nil when l is empty or the symbol is absent. The pointer is only
// valid until l is closed or reloaded. T is not checked against the real type
// of the symbol.
func Var[T any](l *Library, name string) *T {
	addr := l.Symbol(name)
	if addr == 0 {
		return nil
	}
	return (*T)(unsafe.Pointer(addr)) //nolint:govet // address owned by the loaded image
}
