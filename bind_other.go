// bind_other.go: function binding on targets without a native loader
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

//go:build !darwin && !freebsd && !linux && !netbsd && !windows

package dynlib

import "runtime"

func bindFunc(any, uintptr) {
	panic(NewUnsupportedPlatformError(runtime.GOOS))
}
