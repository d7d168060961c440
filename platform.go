// platform.go: build-time platform and compiler identification
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package dynlib

import (
	"path/filepath"
	"runtime"
	"strings"
)

// Family identifies which native loading API a platform exposes.
type Family string

const (
	// FamilyPOSIX covers systems loading libraries with dlopen
	FamilyPOSIX Family = "posix"
	// FamilyWindows covers systems loading libraries with LoadLibrary
	FamilyWindows Family = "windows"
	// FamilyUnknown is used where no dynamic loader is available
	FamilyUnknown Family = "unknown"
)

// Platform describes the target the binary was built for. All fields are
// fixed at build time.
type Platform struct {
	OS       string `json:"os" yaml:"os"`
	Arch     string `json:"arch" yaml:"arch"`
	Compiler string `json:"compiler" yaml:"compiler"`
	Family   Family `json:"family" yaml:"family"`
	Android  bool   `json:"android" yaml:"android"`
}

// CurrentPlatform returns the platform of the running binary.
func CurrentPlatform() Platform {
	return Platform{
		OS:       runtime.GOOS,
		Arch:     runtime.GOARCH,
		Compiler: runtime.Compiler,
		Family:   nativeFamily,
		Android:  runtime.GOOS == "android",
	}
}

// Supported reports whether libraries can be loaded on p.
func (p Platform) Supported() bool {
	return p.Family == FamilyPOSIX || p.Family == FamilyWindows
}

// LibraryPrefix returns the conventional file name prefix of shared libraries.
func (p Platform) LibraryPrefix() string {
	if p.Family == FamilyPOSIX {
		return "lib"
	}
	return ""
}

// LibrarySuffix returns the conventional file extension of shared libraries.
func (p Platform) LibrarySuffix() string {
	switch {
	case p.Family == FamilyWindows:
		return ".dll"
	case p.OS == "darwin" || p.OS == "ios":
		return ".dylib"
	case p.Family == FamilyPOSIX:
		return ".so"
	default:
		return ""
	}
}

// LibraryFileName decorates a bare library name with the platform prefix and
// suffix: "foo" becomes "libfoo.so", "libfoo.dylib" or "foo.dll". The prefix
// and suffix are each added only when missing, so versioned names such as
// "libc.so.6" are kept unchanged.
func (p Platform) LibraryFileName(base string) string {
	if base == "" {
		return ""
	}
	name := base
	if prefix := p.LibraryPrefix(); prefix != "" && !strings.HasPrefix(name, prefix) {
		name = prefix + name
	}
	if suffix := p.LibrarySuffix(); suffix != "" && !strings.EqualFold(filepath.Ext(name), suffix) && !strings.Contains(name, suffix+".") {
		name += suffix
	}
	return name
}

// String returns os/arch (compiler).
func (p Platform) String() string {
	return p.OS + "/" + p.Arch + " (" + p.Compiler + ")"
}
