// native_windows.go: LoadLibrary based loader for Windows
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

//go:build windows

package dynlib

import (
	"github.com/ebitengine/purego"
	"golang.org/x/sys/windows"
)

const nativeFamily = FamilyWindows

type systemLoader struct{}

func (systemLoader) Open(path string) (uintptr, error) {
	h, err := windows.LoadLibrary(path)
	if err != nil {
		return 0, err
	}
	return uintptr(h), nil
}

func (systemLoader) Symbol(handle uintptr, name string) (uintptr, error) {
	return windows.GetProcAddress(windows.Handle(handle), name)
}

func (systemLoader) Close(handle uintptr) error {
	if handle == 0 {
		return nil
	}
	return windows.FreeLibrary(windows.Handle(handle))
}

func (systemLoader) Call(fn uintptr, args ...uintptr) uintptr {
	r1, _, _ := purego.SyscallN(fn, args...)
	return r1
}
