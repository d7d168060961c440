// testing_helpers_test.go: scripted native loader and shared test utilities
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package dynlib

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	goerrors "github.com/agilira/go-errors"
	"github.com/stretchr/testify/require"
)

// fakeLoader is a NativeLoader serving libraries from an in-memory table.
// It counts every native call so tests can check how often Library reaches
// the loader.
type fakeLoader struct {
	mu sync.Mutex

	libraries   map[string]map[string]uintptr
	callResults map[uintptr]uintptr
	nextHandle  uintptr
	nextAddr    uintptr

	handles map[uintptr]string
	closed  map[uintptr]int

	opens    int
	symbols  int
	closes   int
	calls    []fakeCall
	closeErr error
}

type fakeCall struct {
	fn   uintptr
	args []uintptr
}

func newFakeLoader() *fakeLoader {
	return &fakeLoader{
		libraries:   make(map[string]map[string]uintptr),
		callResults: make(map[uintptr]uintptr),
		nextHandle:  0x100,
		nextAddr:    0x10000,
		handles:     make(map[uintptr]string),
		closed:      make(map[uintptr]int),
	}
}

// addLibrary registers a loadable path exporting the given symbols.
func (f *fakeLoader) addLibrary(path string, symbols ...string) *fakeLoader {
	f.mu.Lock()
	defer f.mu.Unlock()
	exports := make(map[string]uintptr, len(symbols))
	for _, sym := range symbols {
		f.nextAddr += 0x10
		exports[sym] = f.nextAddr
	}
	f.libraries[path] = exports
	return f
}

// setSymbol makes path export name at addr.
func (f *fakeLoader) setSymbol(path, name string, addr uintptr) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.libraries[path][name] = addr
}

func (f *fakeLoader) symbolAddr(path, name string) uintptr {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.libraries[path][name]
}

func (f *fakeLoader) setCallResult(path, name string, result uintptr) {
	addr := f.symbolAddr(path, name)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.callResults[addr] = result
}

func (f *fakeLoader) Open(path string) (uintptr, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.opens++
	if _, ok := f.libraries[path]; !ok {
		return 0, fmt.Errorf("%s: cannot open shared object file: No such file or directory", path)
	}
	f.nextHandle++
	f.handles[f.nextHandle] = path
	return f.nextHandle, nil
}

func (f *fakeLoader) Symbol(handle uintptr, name string) (uintptr, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.symbols++
	path, ok := f.handles[handle]
	if !ok {
		return 0, fmt.Errorf("invalid handle %#x", handle)
	}
	addr, ok := f.libraries[path][name]
	if !ok {
		return 0, fmt.Errorf("%s: undefined symbol: %s", path, name)
	}
	return addr, nil
}

func (f *fakeLoader) Close(handle uintptr) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closes++
	f.closed[handle]++
	delete(f.handles, handle)
	return f.closeErr
}

func (f *fakeLoader) Call(fn uintptr, args ...uintptr) uintptr {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, fakeCall{fn: fn, args: append([]uintptr(nil), args...)})
	return f.callResults[fn]
}

// openHandles returns the number of handles opened and not yet closed.
func (f *fakeLoader) openHandles() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.handles)
}

// counts returns the number of Open, Symbol and Close calls.
func (f *fakeLoader) counts() (opens, symbols, closes int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.opens, f.symbols, f.closes
}

// callsTo returns the recorded calls of the function at fn.
func (f *fakeLoader) callsTo(fn uintptr) []fakeCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []fakeCall
	for _, c := range f.calls {
		if c.fn == fn {
			out = append(out, c)
		}
	}
	return out
}

// requireErrorCode asserts that err carries the given go-errors code.
func requireErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var libErr *goerrors.Error
	require.True(t, errors.As(err, &libErr), "expected a structured error, got %T: %v", err, err)
	require.Equal(t, goerrors.ErrorCode(code), libErr.ErrorCode())
}

// writeFile creates name under dir with content and returns its path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}
