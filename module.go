// module.go: plugin modules following the init/fini entry-point convention
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package dynlib

// DefaultInitSymbol is the initialization function plugin modules export
// for their host.
const DefaultInitSymbol = "GiveFnptrsToDll"

// EntryPoint names the functions a module exports for its host.
//
// Init is called once right after the library is loaded, with the arguments
// passed to OpenModule. Fini, when the module exports it, is called once right
// before the library is released. Both take and return integer-class values
// only. An empty Init skips initialization.
type EntryPoint struct {
	Init string `json:"init" yaml:"init"`
	Fini string `json:"fini" yaml:"fini"`

	// CheckResult treats a non-zero Init result as a failed initialization.
	// Leave it unset for modules whose Init returns void.
	CheckResult bool `json:"check_result" yaml:"check_result"`
}

// DefaultEntryPoint returns the conventional entry point: DefaultInitSymbol
// without a finalizer.
func DefaultEntryPoint() EntryPoint {
	return EntryPoint{Init: DefaultInitSymbol}
}

// Module is a loaded library whose entry point has been run. Closing the
// module runs its finalizer and then releases the library.
//
// Like Library, a Module is not safe for concurrent use.
type Module struct {
	path   string
	lib    *Library
	loader NativeLoader
	entry  EntryPoint
	logger Logger
}

// OpenModule loads path, resolves and calls the entry point's Init function
// with args and returns the initialized module. If the library cannot be
// loaded, does not export Init, or Init reports failure, the library is
// released again and an error is returned. A nil loader selects SystemLoader.
func OpenModule(loader NativeLoader, path string, entry EntryPoint, logger any, args ...uintptr) (*Module, error) {
	if loader == nil {
		loader = SystemLoader()
	}
	log := NewLogger(logger).With("path", path)

	lib := NewLibraryWithLoader(loader, path)
	if !lib.IsLoaded() {
		log.Warn("Library load failed", "error", lib.Err())
		return nil, lib.Err()
	}

	if entry.Init != "" {
		fn := lib.Symbol(entry.Init)
		if fn == 0 {
			_ = lib.Close()
			log.Warn("Module entry point missing", "symbol", entry.Init)
			return nil, NewSymbolNotFoundError(path, entry.Init)
		}
		if r := loader.Call(fn, args...); entry.CheckResult && r != 0 {
			_ = lib.Close()
			log.Warn("Module entry point failed", "symbol", entry.Init, "result", r)
			return nil, NewEntryPointError(path, entry.Init, r)
		}
	}

	log.Debug("Module initialized", "init", entry.Init)
	return &Module{path: path, lib: lib, loader: loader, entry: entry, logger: log}, nil
}

// Library returns the library owned by m. It must not be closed or reloaded
// directly; use m.Close.
func (m *Module) Library() *Library {
	return m.lib
}

// Path returns the path the module was loaded from, or "" once closed.
func (m *Module) Path() string {
	return m.lib.Path()
}

// IsLoaded reports whether m has not been closed.
func (m *Module) IsLoaded() bool {
	return m.lib.IsLoaded()
}

// Symbol resolves a symbol the caller requires, reporting a structured error
// instead of a zero address when it is missing.
func (m *Module) Symbol(name string) (uintptr, error) {
	if !m.lib.IsLoaded() {
		return 0, NewLibraryNotLoadedError(m.path)
	}
	addr := m.lib.Symbol(name)
	if addr == 0 {
		return 0, NewSymbolNotFoundError(m.lib.Path(), name)
	}
	return addr, nil
}

// Close calls the module finalizer, if exported, and releases the library.
// Subsequent calls do nothing.
func (m *Module) Close() error {
	if !m.lib.IsLoaded() {
		return nil
	}
	if m.entry.Fini != "" {
		if fn := m.lib.Symbol(m.entry.Fini); fn != 0 {
			m.loader.Call(fn)
		}
	}
	if err := m.lib.Close(); err != nil {
		m.logger.Warn("Library close failed", "error", err)
		return err
	}
	m.logger.Debug("Module closed")
	return nil
}
