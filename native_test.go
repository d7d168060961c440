// native_test.go: Library against the real system loader
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package dynlib

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// systemLibc returns the path of the C library on hosts where the tests can
// rely on one, skipping the test elsewhere.
func systemLibc(t *testing.T) string {
	t.Helper()
	switch runtime.GOOS {
	case "linux":
		return "libc.so.6"
	case "darwin":
		return "/usr/lib/libSystem.B.dylib"
	default:
		t.Skipf("no known C library on %s", runtime.GOOS)
		return ""
	}
}

func TestSystemLoader_ResolvesLibcFunction(t *testing.T) {
	path := systemLibc(t)

	lib := NewLibrary(path)
	defer lib.Close()
	if !lib.IsLoaded() {
		t.Skipf("C library not loadable here: %v", lib.Err())
	}

	assert.NotZero(t, lib.Symbol("abs"))

	abs, ok := Func[func(int32) int32](lib, "abs")
	require.True(t, ok)
	assert.Equal(t, int32(5), abs(-5))
	assert.Equal(t, int32(7), abs(7))

	assert.Zero(t, lib.Symbol("dynlib_no_such_symbol"))
	_, ok = Func[func() int32](lib, "dynlib_no_such_symbol")
	assert.False(t, ok)
}

func TestSystemLoader_CallReturnsIntegerResult(t *testing.T) {
	path := systemLibc(t)

	lib := NewLibrary(path)
	defer lib.Close()
	if !lib.IsLoaded() {
		t.Skipf("C library not loadable here: %v", lib.Err())
	}

	fn := lib.Symbol("labs")
	require.NotZero(t, fn)
	assert.Equal(t, uintptr(9), SystemLoader().Call(fn, 9))
}

func TestSystemLoader_MissingLibraryFails(t *testing.T) {
	systemLibc(t)

	lib := NewLibrary("/nonexistent/dir/libdynlib_missing.so")
	assert.False(t, lib.IsLoaded())
	requireErrorCode(t, lib.Err(), ErrCodeLibraryLoadFailed)
	assert.Zero(t, lib.Symbol("abs"))
	require.NoError(t, lib.Close())
}

func TestSystemLoader_CloseZeroHandle(t *testing.T) {
	systemLibc(t)
	assert.NoError(t, SystemLoader().Close(0))
}

func TestCurrentPlatform_MatchesSystemLoader(t *testing.T) {
	p := CurrentPlatform()
	switch runtime.GOOS {
	case "linux", "darwin", "freebsd", "netbsd":
		assert.Equal(t, FamilyPOSIX, p.Family)
		assert.True(t, p.Supported())
	case "windows":
		assert.Equal(t, FamilyWindows, p.Family)
		assert.True(t, p.Supported())
	}
}
