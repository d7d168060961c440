// config_watcher.go: hot reload of the host configuration with Argus
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package dynlib

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/agilira/argus"
)

// ConfigWatcherOptions configures a ConfigWatcher.
type ConfigWatcherOptions struct {
	// PollInterval for file watching (Argus handles the optimization)
	PollInterval time.Duration `json:"poll_interval" yaml:"poll_interval"`

	// CacheTTL for Argus stat caching, should be <= PollInterval
	CacheTTL time.Duration `json:"cache_ttl" yaml:"cache_ttl"`

	// RollbackOnFailure re-applies the last good configuration when a new one
	// fails to apply
	RollbackOnFailure bool `json:"rollback_on_failure" yaml:"rollback_on_failure"`

	// AuditConfig for the Argus audit trail of configuration changes
	AuditConfig argus.AuditConfig `json:"audit_config" yaml:"audit_config"`
}

// DefaultConfigWatcherOptions returns the defaults used by NewConfigWatcher
// callers that have no specific requirements.
func DefaultConfigWatcherOptions() ConfigWatcherOptions {
	return ConfigWatcherOptions{
		PollInterval:      5 * time.Second,
		CacheTTL:          2 * time.Second,
		RollbackOnFailure: true,
		AuditConfig: argus.AuditConfig{
			Enabled:       true,
			OutputFile:    "go-dynlib-config-audit.jsonl",
			MinLevel:      argus.AuditInfo,
			BufferSize:    1000,
			FlushInterval: 5 * time.Second,
		},
	}
}

// ConfigWatcher keeps a Host in line with a configuration file, applying the
// file again every time it changes.
//
// Usage example:
//
//	watcher, err := dynlib.NewConfigWatcher(host, "libraries.yaml", dynlib.DefaultConfigWatcherOptions(), logger)
//	if err != nil {
//	    return err
//	}
//	if err := watcher.Start(ctx); err != nil {
//	    return err
//	}
//	defer watcher.Stop()
type ConfigWatcher struct {
	host        *Host
	watcher     *argus.Watcher
	auditLogger *argus.AuditLogger
	configPath  string
	logger      Logger
	options     ConfigWatcherOptions

	currentConfig atomic.Pointer[HostConfig]

	enabled  atomic.Bool
	stopped  atomic.Bool
	stopOnce sync.Once
	mu       sync.Mutex
}

// NewConfigWatcher creates a watcher for the configuration file at
// configPath. Nothing is loaded or watched until Start.
func NewConfigWatcher(host *Host, configPath string, options ConfigWatcherOptions, logger any) (*ConfigWatcher, error) {
	internalLogger := NewLogger(logger)

	watcher := argus.New(argus.Config{
		PollInterval:         options.PollInterval,
		CacheTTL:             options.CacheTTL,
		MaxWatchedFiles:      5,
		Audit:                options.AuditConfig,
		OptimizationStrategy: argus.OptimizationSingleEvent,
		ErrorHandler: func(err error, filepath string) {
			internalLogger.Error("Argus file watching error", "error", err, "file", filepath)
		},
	})

	var auditLogger *argus.AuditLogger
	if options.AuditConfig.Enabled {
		var err error
		auditLogger, err = argus.NewAuditLogger(options.AuditConfig)
		if err != nil {
			return nil, NewConfigWatcherError("failed to create audit logger", err)
		}
	}

	return &ConfigWatcher{
		host:        host,
		watcher:     watcher,
		auditLogger: auditLogger,
		configPath:  configPath,
		logger:      internalLogger,
		options:     options,
	}, nil
}

// Start loads and applies the configuration file once, then watches it for
// changes. A watcher that has been stopped cannot be started again.
func (cw *ConfigWatcher) Start(ctx context.Context) error {
	if cw.stopped.Load() {
		return NewConfigWatcherError("config watcher has been permanently stopped and cannot be restarted", nil)
	}
	if err := ctx.Err(); err != nil {
		return NewConfigWatcherError("context done before start", err)
	}

	cw.mu.Lock()
	defer cw.mu.Unlock()

	if !cw.enabled.CompareAndSwap(false, true) {
		return NewConfigWatcherError("config watcher is already running", nil)
	}

	initial, err := LoadHostConfigFromFile(cw.configPath)
	if err != nil {
		cw.enabled.Store(false)
		return err
	}
	if err := cw.host.Apply(initial); err != nil {
		cw.enabled.Store(false)
		return err
	}
	cw.currentConfig.Store(&initial)

	if err := cw.watcher.Watch(cw.configPath, cw.handleConfigChange); err != nil {
		cw.enabled.Store(false)
		return NewConfigWatcherError("failed to watch config file", err)
	}
	if err := cw.watcher.Start(); err != nil {
		cw.enabled.Store(false)
		return NewConfigWatcherError("failed to start Argus watcher", err)
	}

	cw.auditEvent("host_config_watch_started", map[string]interface{}{
		"path":      cw.configPath,
		"libraries": len(initial.Libraries),
	})
	cw.logger.Info("Host configuration watcher started",
		"config_path", cw.configPath,
		"poll_interval", cw.options.PollInterval)
	return nil
}

// Stop stops watching. It does not unload any library; close the Host for
// that. Stop may be called concurrently; only the first call has an effect.
func (cw *ConfigWatcher) Stop() error {
	if cw.stopped.Load() {
		return NewConfigWatcherError("config watcher is already stopped", nil)
	}

	var stopErr error
	cw.stopOnce.Do(func() {
		cw.mu.Lock()
		defer cw.mu.Unlock()

		cw.stopped.Store(true)
		if !cw.enabled.CompareAndSwap(true, false) {
			stopErr = NewConfigWatcherError("config watcher is not running", nil)
			return
		}
		if err := cw.watcher.Stop(); err != nil {
			stopErr = NewConfigWatcherError("failed to stop Argus watcher", err)
		}
		if cw.auditLogger != nil {
			cw.auditEvent("host_config_watch_stopped", map[string]interface{}{"path": cw.configPath})
			if err := cw.auditLogger.Close(); err != nil {
				cw.logger.Warn("Failed to close audit logger", "error", err)
			}
		}
		cw.logger.Info("Host configuration watcher stopped")
	})
	return stopErr
}

// IsRunning reports whether the watcher has been started and not stopped.
func (cw *ConfigWatcher) IsRunning() bool {
	return cw.enabled.Load()
}

// CurrentConfig returns the last configuration applied successfully, or nil
// before Start.
func (cw *ConfigWatcher) CurrentConfig() *HostConfig {
	return cw.currentConfig.Load()
}

// handleConfigChange is the Argus callback for changes of the config file.
func (cw *ConfigWatcher) handleConfigChange(event argus.ChangeEvent) {
	cw.logger.Info("Host configuration change detected",
		"path", event.Path,
		"mod_time", event.ModTime,
		"is_create", event.IsCreate,
		"is_delete", event.IsDelete,
		"is_modify", event.IsModify)

	if event.IsDelete {
		cw.logger.Warn("Host configuration file was deleted, keeping current libraries", "path", event.Path)
		cw.auditEvent("host_config_file_deleted", map[string]interface{}{"path": event.Path})
		return
	}

	next, err := LoadHostConfigFromFile(event.Path)
	if err != nil {
		cw.logger.Error("Failed to load new host configuration", "error", err, "path", event.Path)
		cw.auditEvent("host_config_load_failed", map[string]interface{}{
			"path":  event.Path,
			"error": err.Error(),
		})
		return
	}

	if err := cw.host.Apply(next); err != nil {
		cw.logger.Error("Failed to apply host configuration", "error", err)
		cw.auditEvent("host_config_apply_failed", map[string]interface{}{
			"path":  event.Path,
			"error": err.Error(),
		})
		if cw.options.RollbackOnFailure {
			if previous := cw.currentConfig.Load(); previous != nil {
				if rbErr := cw.host.Apply(*previous); rbErr != nil {
					cw.logger.Error("Host configuration rollback failed", "error", rbErr)
				} else {
					cw.logger.Info("Host configuration rolled back")
				}
			}
		}
		return
	}

	cw.currentConfig.Store(&next)
	cw.auditEvent("host_config_applied", map[string]interface{}{
		"path":      event.Path,
		"libraries": len(next.Libraries),
	})
	cw.logger.Info("Host configuration reload completed", "libraries", len(next.Libraries))
}

func (cw *ConfigWatcher) auditEvent(eventType string, context map[string]interface{}) {
	if cw.auditLogger == nil {
		return
	}
	cw.auditLogger.LogSecurityEvent(eventType, "Host configuration change", context)
}
