// host.go: a named, configuration-driven set of loaded modules
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package dynlib

import (
	"errors"
	"os"
	"reflect"
	"sync"
	"sync/atomic"
	"time"

	"github.com/agilira/go-timecache"
)

// Host owns the modules described by a HostConfig and serializes every
// access to them, so a Host can be shared between goroutines even though
// Library and Module cannot.
//
// Example usage:
//
//	host := dynlib.NewHost(nil, logger)
//	defer host.Close()
//
//	if err := host.Apply(cfg); err != nil {
//	    return err
//	}
//	err := host.Do("bot", func(m *dynlib.Module) error {
//	    think, ok := dynlib.Func[func(int32) int32](m.Library(), "BotThink")
//	    if !ok {
//	        return errBotThinkMissing
//	    }
//	    think(frame)
//	    return nil
//	})
type Host struct {
	mu       sync.Mutex
	loader   NativeLoader
	platform Platform
	logger   Logger

	modules map[string]*hostedModule
	order   []string
	closed  bool

	metrics HostMetrics
}

type hostedModule struct {
	config   LibraryConfig
	path     string
	modTime  time.Time
	module   *Module
	loadedAt time.Time
	reloads  int64
	lastErr  error
}

// ModuleStatus is a point-in-time view of one configured library.
type ModuleStatus struct {
	Name      string    `json:"name"`
	Path      string    `json:"path"`
	Loaded    bool      `json:"loaded"`
	LoadedAt  time.Time `json:"loaded_at,omitempty"`
	Reloads   int64     `json:"reloads"`
	LastError string    `json:"last_error,omitempty"`
}

// HostMetrics tracks operational counters of a Host.
type HostMetrics struct {
	LibrariesLoaded   atomic.Int64
	LibrariesUnloaded atomic.Int64
	LoadFailures      atomic.Int64
	Reloads           atomic.Int64
}

// HostMetricsSnapshot is a copy of HostMetrics.
type HostMetricsSnapshot struct {
	LibrariesLoaded   int64 `json:"libraries_loaded"`
	LibrariesUnloaded int64 `json:"libraries_unloaded"`
	LoadFailures      int64 `json:"load_failures"`
	Reloads           int64 `json:"reloads"`
}

// NewHost creates an empty host. A nil loader selects SystemLoader; logger
// follows NewLogger.
func NewHost(loader NativeLoader, logger any) *Host {
	if loader == nil {
		loader = SystemLoader()
	}
	return &Host{
		loader:   loader,
		platform: CurrentPlatform(),
		logger:   NewLogger(logger),
		modules:  make(map[string]*hostedModule),
	}
}

// Apply brings the host in line with cfg. Libraries no longer configured, or
// disabled, are unloaded in reverse load order. New libraries are loaded.
// Libraries whose configuration, resolved path or file modification time
// changed are unloaded and loaded again. Untouched libraries stay loaded.
//
// Failures of optional libraries are logged and visible through Status;
// failures of required libraries are returned, joined, after every library
// has been processed.
func (h *Host) Apply(cfg HostConfig) error {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return NewHostClosedError()
	}

	wanted := make(map[string]struct{}, len(cfg.Libraries))
	for _, lc := range cfg.Libraries {
		if !lc.Disabled {
			wanted[lc.Name] = struct{}{}
		}
	}
	for i := len(h.order) - 1; i >= 0; i-- {
		name := h.order[i]
		if _, ok := wanted[name]; !ok {
			if err := h.unloadLocked(name); err != nil {
				h.logger.Warn("Library unload failed", "library", name, "error", err)
			}
		}
	}

	var errs []error
	for _, lc := range cfg.Libraries {
		if lc.Disabled {
			continue
		}
		path := lc.ResolvePath(h.platform, cfg.SearchPaths)

		var reloads int64
		if hm, ok := h.modules[lc.Name]; ok {
			if !hm.changed(lc, path) {
				continue
			}
			reloads = hm.reloads
			if hm.module != nil {
				reloads++
				h.metrics.Reloads.Add(1)
				h.logger.Info("Reloading library", "library", lc.Name, "path", path)
			}
			if err := h.unloadLocked(lc.Name); err != nil {
				h.logger.Warn("Library unload failed", "library", lc.Name, "error", err)
			}
		}

		if err := h.loadLocked(lc, path, reloads); err != nil {
			if lc.Required {
				errs = append(errs, NewHostLoadError(lc.Name, err))
			} else {
				h.logger.Warn("Optional library not loaded", "library", lc.Name, "path", path, "error", err)
			}
		}
	}
	return errors.Join(errs...)
}

func (hm *hostedModule) changed(lc LibraryConfig, path string) bool {
	if hm.module == nil || hm.path != path || !reflect.DeepEqual(hm.config, lc) {
		return true
	}
	if fi, err := os.Stat(path); err == nil && !fi.ModTime().Equal(hm.modTime) {
		return true
	}
	return false
}

func (h *Host) loadLocked(lc LibraryConfig, path string, reloads int64) error {
	hm := &hostedModule{config: lc, path: path, reloads: reloads}
	h.modules[lc.Name] = hm
	h.order = append(h.order, lc.Name)

	fail := func(err error) error {
		hm.lastErr = err
		h.metrics.LoadFailures.Add(1)
		return err
	}

	if lc.SHA256 != "" {
		if err := VerifySHA256(path, lc.SHA256); err != nil {
			return fail(err)
		}
	}
	if fi, err := os.Stat(path); err == nil {
		hm.modTime = fi.ModTime()
	}

	m, err := OpenModule(h.loader, path, lc.EntryPoint(), h.logger.With("library", lc.Name))
	if err != nil {
		return fail(err)
	}
	for _, sym := range lc.Exports {
		if _, err := m.Symbol(sym); err != nil {
			_ = m.Close()
			return fail(err)
		}
	}

	hm.module = m
	hm.loadedAt = timecache.CachedTime()
	h.metrics.LibrariesLoaded.Add(1)
	h.logger.Info("Library loaded", "library", lc.Name, "path", path)
	return nil
}

func (h *Host) unloadLocked(name string) error {
	hm, ok := h.modules[name]
	if !ok {
		return NewModuleNotFoundError(name)
	}
	delete(h.modules, name)
	for i, n := range h.order {
		if n == name {
			h.order = append(h.order[:i], h.order[i+1:]...)
			break
		}
	}
	if hm.module == nil {
		return nil
	}
	h.metrics.LibrariesUnloaded.Add(1)
	if err := hm.module.Close(); err != nil {
		return err
	}
	h.logger.Info("Library unloaded", "library", name)
	return nil
}

// Do runs fn with the named module while holding the host lock. fn must not
// call back into the host.
func (h *Host) Do(name string, fn func(*Module) error) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return NewHostClosedError()
	}
	hm, ok := h.modules[name]
	if !ok || hm.module == nil {
		return NewModuleNotFoundError(name)
	}
	return fn(hm.module)
}

// Unload releases the named library and forgets it until the next Apply
// that configures it.
func (h *Host) Unload(name string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.unloadLocked(name)
}

// Names returns the names of the loaded libraries in load order.
func (h *Host) Names() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	names := make([]string, 0, len(h.order))
	for _, name := range h.order {
		if h.modules[name].module != nil {
			names = append(names, name)
		}
	}
	return names
}

// Status reports the state of a configured library, including libraries
// whose last load attempt failed.
func (h *Host) Status(name string) (ModuleStatus, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	hm, ok := h.modules[name]
	if !ok {
		return ModuleStatus{}, false
	}
	st := ModuleStatus{
		Name:     name,
		Path:     hm.path,
		Loaded:   hm.module != nil,
		LoadedAt: hm.loadedAt,
		Reloads:  hm.reloads,
	}
	if hm.lastErr != nil {
		st.LastError = hm.lastErr.Error()
	}
	return st, true
}

// Metrics returns a snapshot of the host counters.
func (h *Host) Metrics() HostMetricsSnapshot {
	return HostMetricsSnapshot{
		LibrariesLoaded:   h.metrics.LibrariesLoaded.Load(),
		LibrariesUnloaded: h.metrics.LibrariesUnloaded.Load(),
		LoadFailures:      h.metrics.LoadFailures.Load(),
		Reloads:           h.metrics.Reloads.Load(),
	}
}

// Close unloads every library in reverse load order. The host cannot be used
// afterwards; further calls to Close do nothing.
func (h *Host) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil
	}
	h.closed = true

	var errs []error
	for i := len(h.order) - 1; i >= 0; i-- {
		name := h.order[i]
		if err := h.unloadLocked(name); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
