// native_unix.go: dlopen based loader for POSIX systems
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

//go:build darwin || freebsd || linux || netbsd

package dynlib

import (
	"github.com/ebitengine/purego"
)

const nativeFamily = FamilyPOSIX

// systemLoader binds symbols eagerly and keeps them private to the library,
// matching dlopen(path, RTLD_NOW) with the default local visibility.
type systemLoader struct{}

func (systemLoader) Open(path string) (uintptr, error) {
	return purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_LOCAL)
}

func (systemLoader) Symbol(handle uintptr, name string) (uintptr, error) {
	return purego.Dlsym(handle, name)
}

func (systemLoader) Close(handle uintptr) error {
	if handle == 0 {
		return nil
	}
	return purego.Dlclose(handle)
}

func (systemLoader) Call(fn uintptr, args ...uintptr) uintptr {
	r1, _, _ := purego.SyscallN(fn, args...)
	return r1
}
