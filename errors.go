// errors.go: structured error definitions for the go-dynlib package
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package dynlib

import (
	"github.com/agilira/go-errors"
)

// Error codes for the go-dynlib package
const (
	// Configuration errors (1700-1799)
	ErrCodeConfigNotFound        = "CONFIG_1701"
	ErrCodeConfigParseError      = "CONFIG_1702"
	ErrCodeConfigValidationError = "CONFIG_1703"
	ErrCodeConfigWatcherError    = "CONFIG_1704"
	ErrCodeConfigPathError       = "CONFIG_1705"
	ErrCodeConfigFileError       = "CONFIG_1706"
	ErrCodeDuplicateLibraryName  = "CONFIG_1707"

	// Native library errors (3000-3099)
	ErrCodeLibraryLoadFailed   = "LIBRARY_3001"
	ErrCodeSymbolNotFound      = "LIBRARY_3002"
	ErrCodeLibraryNotLoaded    = "LIBRARY_3003"
	ErrCodeLibraryCloseFailed  = "LIBRARY_3004"
	ErrCodeUnsupportedPlatform = "LIBRARY_3005"
	ErrCodeEntryPointFailed    = "LIBRARY_3006"
	ErrCodeIntegrityMismatch   = "LIBRARY_3007"

	// Host errors (4000-4099)
	ErrCodeModuleNotFound = "HOST_4001"
	ErrCodeHostClosed     = "HOST_4002"
	ErrCodeHostLoadFailed = "HOST_4003"
)

// wrapOrNew wraps cause when there is one and creates a fresh error otherwise.
func wrapOrNew(cause error, code errors.ErrorCode, message string) *errors.Error {
	if cause != nil {
		return errors.Wrap(cause, code, message)
	}
	return errors.New(code, message)
}

// Native library error constructors

func NewLibraryLoadError(path string, cause error) *errors.Error {
	return wrapOrNew(cause, ErrCodeLibraryLoadFailed, "Library load failed").
		WithUserMessage("The shared library could not be loaded").
		WithContext("library_path", path).
		WithSeverity("error")
}

func NewSymbolNotFoundError(library, symbol string) *errors.Error {
	return errors.New(ErrCodeSymbolNotFound, "Symbol not found").
		WithUserMessage("The shared library does not export the requested symbol").
		WithContext("library", library).
		WithContext("symbol", symbol).
		WithSeverity("error")
}

func NewLibraryNotLoadedError(library string) *errors.Error {
	return errors.New(ErrCodeLibraryNotLoaded, "Library not loaded").
		WithUserMessage("The operation requires a loaded shared library").
		WithContext("library", library).
		WithSeverity("error")
}

func NewLibraryCloseError(path string, cause error) *errors.Error {
	return wrapOrNew(cause, ErrCodeLibraryCloseFailed, "Library close failed").
		WithUserMessage("The shared library could not be released").
		WithContext("library_path", path).
		WithSeverity("warning")
}

func NewUnsupportedPlatformError(goos string) *errors.Error {
	return errors.New(ErrCodeUnsupportedPlatform, "Unsupported platform").
		WithUserMessage("Dynamic library loading is not available on this platform").
		WithContext("os", goos).
		WithSeverity("error")
}

func NewEntryPointError(library, symbol string, result uintptr) *errors.Error {
	return errors.New(ErrCodeEntryPointFailed, "Entry point failed").
		WithUserMessage("The library initialization function reported a failure").
		WithContext("library", library).
		WithContext("symbol", symbol).
		WithContext("result", result).
		WithSeverity("error")
}

func NewIntegrityError(library, expected, actual string) *errors.Error {
	return errors.New(ErrCodeIntegrityMismatch, "Library integrity mismatch").
		WithUserMessage("The shared library does not match its expected SHA-256 digest").
		WithContext("library", library).
		WithContext("expected", expected).
		WithContext("actual", actual).
		WithSeverity("error")
}

// Configuration error constructors

func NewConfigNotFoundError(path string) *errors.Error {
	return errors.New(ErrCodeConfigNotFound, "Configuration file not found").
		WithUserMessage("The configuration file could not be found").
		WithContext("config_path", path).
		WithSeverity("error")
}

func NewConfigParseError(path string, cause error) *errors.Error {
	return wrapOrNew(cause, ErrCodeConfigParseError, "Configuration parse error").
		WithUserMessage("Failed to parse configuration file").
		WithContext("config_path", path).
		WithSeverity("error")
}

func NewConfigValidationError(message string, cause error) *errors.Error {
	return wrapOrNew(cause, ErrCodeConfigValidationError, "Configuration validation error: "+message).
		WithUserMessage("Configuration validation failed").
		WithSeverity("error")
}

func NewConfigWatcherError(message string, cause error) *errors.Error {
	return wrapOrNew(cause, ErrCodeConfigWatcherError, "Configuration watcher error: "+message).
		WithUserMessage("Configuration monitoring failed").
		WithSeverity("error")
}

func NewConfigPathError(path string, message string) *errors.Error {
	return errors.New(ErrCodeConfigPathError, "Configuration path error: "+message).
		WithUserMessage("Invalid configuration file path").
		WithContext("config_path", path).
		WithSeverity("error")
}

func NewConfigFileError(path string, message string, cause error) *errors.Error {
	return wrapOrNew(cause, ErrCodeConfigFileError, "Configuration file error: "+message).
		WithUserMessage("Configuration file access failed").
		WithContext("config_path", path).
		WithSeverity("error")
}

func NewDuplicateLibraryNameError(name string) *errors.Error {
	return errors.New(ErrCodeDuplicateLibraryName, "Duplicate library name").
		WithUserMessage("Library names must be unique within the configuration").
		WithContext("library", name).
		WithSeverity("error")
}

// Host error constructors

func NewModuleNotFoundError(name string) *errors.Error {
	return errors.New(ErrCodeModuleNotFound, "Module not found").
		WithUserMessage("No loaded module has the requested name").
		WithContext("library", name).
		WithSeverity("error")
}

func NewHostClosedError() *errors.Error {
	return errors.New(ErrCodeHostClosed, "Host closed").
		WithUserMessage("The library host has been closed").
		WithSeverity("warning")
}

func NewHostLoadError(name string, cause error) *errors.Error {
	return wrapOrNew(cause, ErrCodeHostLoadFailed, "Host failed to load library").
		WithUserMessage("A required library could not be loaded").
		WithContext("library", name).
		WithSeverity("error")
}
