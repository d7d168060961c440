// bind.go: purego function binding
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

//go:build darwin || freebsd || linux || netbsd || windows

package dynlib

import "github.com/ebitengine/purego"

// bindFunc makes *fptr call the C function at addr. It panics if fptr does
// not point to a func type purego can marshal.
func bindFunc(fptr any, addr uintptr) {
	purego.RegisterFunc(fptr, addr)
}
