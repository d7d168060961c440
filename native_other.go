// native_other.go: placeholder loader for targets without dynamic loading
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

//go:build !darwin && !freebsd && !linux && !netbsd && !windows

package dynlib

import "runtime"

const nativeFamily = FamilyUnknown

// systemLoader fails every load, so libraries built here always stay empty.
type systemLoader struct{}

func (systemLoader) Open(string) (uintptr, error) {
	return 0, NewUnsupportedPlatformError(runtime.GOOS)
}

func (systemLoader) Symbol(uintptr, string) (uintptr, error) {
	return 0, NewUnsupportedPlatformError(runtime.GOOS)
}

func (systemLoader) Close(uintptr) error {
	return NewUnsupportedPlatformError(runtime.GOOS)
}

func (systemLoader) Call(uintptr, ...uintptr) uintptr {
	return 0
}
