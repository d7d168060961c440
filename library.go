// library.go: ownership wrapper around a single natively loaded shared library
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package dynlib

// noCopy may be embedded into structs which must not be copied after first use.
// go vet's copylocks check reports copies of values containing it.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// Library owns at most one shared library loaded through a NativeLoader.
//
// A Library is either empty or loaded. Every native handle it obtains is
// released exactly once: by Close, or by a subsequent Load that replaces it.
// Failures are never reported as panics or returned errors from Load and
// Symbol; callers test IsLoaded and the zero results of symbol lookups, and
// may inspect Err for the reason of the last failed load.
//
// A Library must not be copied. It is not safe for concurrent use; callers
// sharing one between goroutines must serialize access themselves (see Host).
//
// Typical usage pairs acquisition with a deferred release:
//
//	lib := dynlib.NewLibrary("libfoo.so")
//	defer lib.Close()
//	if !lib.IsLoaded() {
//	    return lib.Err()
//	}
//	add, ok := dynlib.Func[func(int32, int32) int32](lib, "add")
type Library struct {
	noCopy noCopy

	loader NativeLoader
	handle uintptr
	path   string
	err    error
}

// NewLibrary returns a Library backed by the system loader. An empty path
// yields an empty library; otherwise the path is loaded immediately and the
// outcome is observable through IsLoaded.
func NewLibrary(path string) *Library {
	return NewLibraryWithLoader(nil, path)
}

// NewLibraryWithLoader is like NewLibrary but uses the given loader. A nil
// loader selects SystemLoader.
func NewLibraryWithLoader(loader NativeLoader, path string) *Library {
	if loader == nil {
		loader = SystemLoader()
	}
	l := &Library{loader: loader}
	if path != "" {
		l.Load(path)
	}
	return l
}

// Load maps the library at path into the process and reports whether the
// library is now loaded. A library already owned by l is released before the
// new one is opened, so reloading a path that changed on disk maps the new
// image. On failure l is left empty and Err describes the cause.
func (l *Library) Load(path string) bool {
	_ = l.release()

	h, err := l.loader.Open(path)
	if err != nil || h == 0 {
		l.err = NewLibraryLoadError(path, err)
		return false
	}
	l.handle = h
	l.path = path
	l.err = nil
	return true
}

// IsLoaded reports whether l currently owns a loaded library.
func (l *Library) IsLoaded() bool {
	return l.handle != 0
}

// Path returns the path l was loaded from, or "" when empty.
func (l *Library) Path() string {
	return l.path
}

// Err returns the reason the last Load failed. It is nil while l is loaded
// and before any load has been attempted.
func (l *Library) Err() error {
	return l.err
}

// Symbol returns the address of the exported symbol name, or 0 when l is
// empty or the library does not export it. An empty library never reaches
// the native resolver.
func (l *Library) Symbol(name string) uintptr {
	if !l.IsLoaded() {
		return 0
	}
	addr, err := l.loader.Symbol(l.handle, name)
	if err != nil {
		return 0
	}
	return addr
}

// Close releases the owned library, if any, and leaves l empty. It is safe
// to call more than once; only the first call after a successful Load reaches
// the native loader. The library is empty after Close even when the native
// release reports an error.
func (l *Library) Close() error {
	return l.release()
}

func (l *Library) release() error {
	if !l.IsLoaded() {
		return nil
	}
	h, path := l.handle, l.path
	l.handle = 0
	l.path = ""
	if err := l.loader.Close(h); err != nil {
		return NewLibraryCloseError(path, err)
	}
	return nil
}

// WithLibrary loads path, runs fn with the loaded library and releases it
// when fn returns or panics. If the library cannot be loaded fn is not
// called and the load error is returned.
func WithLibrary(loader NativeLoader, path string, fn func(*Library) error) (err error) {
	lib := NewLibraryWithLoader(loader, path)
	if !lib.IsLoaded() {
		return lib.Err()
	}
	defer func() {
		if closeErr := lib.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()
	return fn(lib)
}
