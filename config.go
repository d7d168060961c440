// config.go: host configuration describing which libraries to load
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package dynlib

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// HostConfig is the configuration of a Host.
//
// Example YAML:
//
//	search_paths:
//	  - /opt/game/addons
//	libraries:
//	  - name: bot
//	    path: yapb
//	    required: true
//	    init: GiveFnptrsToDll
//	    exports: [GetEntityAPI2]
//	  - name: metamod
//	    path: /opt/game/metamod/metamod.so
//	    sha256: 9f86d081884c7d659a2feaa0c55ad015a3bf4f1b2b0b822cd15d6c15b0f00a08
type HostConfig struct {
	// SearchPaths are the directories bare library names are looked up in,
	// in order, before falling back to the native loader's own search.
	SearchPaths []string `json:"search_paths,omitempty" yaml:"search_paths,omitempty"`

	// Libraries lists the libraries the host owns.
	Libraries []LibraryConfig `json:"libraries" yaml:"libraries"`
}

// LibraryConfig describes one library owned by a Host.
type LibraryConfig struct {
	// Name identifies the library inside the host.
	Name string `json:"name" yaml:"name"`

	// Path is either a file path (anything containing a path separator) or
	// a bare name decorated with the platform prefix and suffix. Defaults to
	// Name.
	Path string `json:"path,omitempty" yaml:"path,omitempty"`

	// Disabled libraries are ignored, and unloaded if currently loaded.
	Disabled bool `json:"disabled,omitempty" yaml:"disabled,omitempty"`

	// Required libraries make Host.Apply fail when they cannot be loaded.
	Required bool `json:"required,omitempty" yaml:"required,omitempty"`

	// Init and Fini name the module entry point; both are optional.
	Init        string `json:"init,omitempty" yaml:"init,omitempty"`
	Fini        string `json:"fini,omitempty" yaml:"fini,omitempty"`
	CheckResult bool   `json:"check_result,omitempty" yaml:"check_result,omitempty"`

	// Exports must all resolve once the library is loaded.
	Exports []string `json:"exports,omitempty" yaml:"exports,omitempty"`

	// SHA256 is the expected hex digest of the library file.
	SHA256 string `json:"sha256,omitempty" yaml:"sha256,omitempty"`
}

// EntryPoint returns the entry point described by lc.
func (lc LibraryConfig) EntryPoint() EntryPoint {
	return EntryPoint{Init: lc.Init, Fini: lc.Fini, CheckResult: lc.CheckResult}
}

// ApplyDefaults fills in defaulted fields.
func (c *HostConfig) ApplyDefaults() {
	for i := range c.Libraries {
		lc := &c.Libraries[i]
		if lc.Path == "" {
			lc.Path = lc.Name
		}
		lc.SHA256 = strings.ToLower(lc.SHA256)
	}
}

// Validate checks the configuration for structural errors.
func (c HostConfig) Validate() error {
	seen := make(map[string]struct{}, len(c.Libraries))
	for i, lc := range c.Libraries {
		if strings.TrimSpace(lc.Name) == "" {
			return NewConfigValidationError(fmt.Sprintf("library %d has no name", i), nil)
		}
		if _, dup := seen[lc.Name]; dup {
			return NewDuplicateLibraryNameError(lc.Name)
		}
		seen[lc.Name] = struct{}{}

		if strings.ContainsRune(lc.Path, 0) || strings.ContainsRune(lc.Name, 0) {
			return NewConfigValidationError(fmt.Sprintf("library %q contains a null byte", lc.Name), nil)
		}
		if lc.SHA256 != "" {
			if b, err := hex.DecodeString(lc.SHA256); err != nil || len(b) != 32 {
				return NewConfigValidationError(fmt.Sprintf("library %q has an invalid sha256 digest", lc.Name), err)
			}
		}
		for _, sym := range lc.Exports {
			if sym == "" {
				return NewConfigValidationError(fmt.Sprintf("library %q lists an empty export", lc.Name), nil)
			}
		}
	}
	for _, dir := range c.SearchPaths {
		if dir == "" {
			return NewConfigValidationError("empty search path", nil)
		}
	}
	return nil
}

// ResolvePath returns the path the library described by lc is opened from on
// platform p. Paths containing a separator are returned unchanged. Bare
// names are decorated with p.LibraryFileName and looked up in searchPaths;
// when no search path holds the file the decorated name is returned so the
// native loader applies its own search rules.
func (lc LibraryConfig) ResolvePath(p Platform, searchPaths []string) string {
	path := lc.Path
	if path == "" {
		path = lc.Name
	}
	if strings.ContainsAny(path, `/\`) {
		return path
	}
	name := p.LibraryFileName(path)
	for _, dir := range searchPaths {
		candidate := filepath.Join(dir, name)
		if fi, err := os.Stat(candidate); err == nil && fi.Mode().IsRegular() {
			return candidate
		}
	}
	return name
}
