// Package dynlib loads shared libraries at run time and resolves their
// exported symbols through one interface on every supported platform:
// dlopen/dlsym/dlclose on Linux, macOS, Android and the BSDs, and
// LoadLibrary/GetProcAddress/FreeLibrary on Windows. No cgo is required.
//
// The core type is Library, which owns at most one loaded library and
// releases it exactly once:
//
//	lib := dynlib.NewLibrary("/opt/game/addons/libyapb.so")
//	defer lib.Close()
//	if !lib.IsLoaded() {
//		return lib.Err()
//	}
//
//	add, ok := dynlib.Func[func(int32, int32) int32](lib, "add")
//	if !ok {
//		return errAddMissing
//	}
//	fmt.Println(add(2, 3))
//
// Failures are reported by value: Load returns false, Symbol returns 0, Func
// returns false and Var returns nil. Resolved symbols are not type checked;
// supplying the wrong function or data type is undefined behavior.
//
// Around the core the package offers:
//   - Platform: build-time identification of OS, architecture, compiler and
//     shared library naming conventions
//   - Module: libraries following the init/fini entry-point convention of
//     host plugins
//   - Host: a configuration-driven, goroutine-safe set of modules with
//     integrity checks and reload of changed libraries
//   - ConfigWatcher: hot reload of the host configuration powered by Argus
//
// Copyright (c) 2025 AGILira - A. Giordano
// SPDX-License-Identifier: MPL-2.0
package dynlib
