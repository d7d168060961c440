// platform_test.go: platform identification and library naming
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package dynlib

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

var (
	linuxPlatform   = Platform{OS: "linux", Arch: "amd64", Compiler: "gc", Family: FamilyPOSIX}
	darwinPlatform  = Platform{OS: "darwin", Arch: "arm64", Compiler: "gc", Family: FamilyPOSIX}
	windowsPlatform = Platform{OS: "windows", Arch: "amd64", Compiler: "gc", Family: FamilyWindows}
	androidPlatform = Platform{OS: "android", Arch: "arm64", Compiler: "gc", Family: FamilyPOSIX, Android: true}
	plan9Platform   = Platform{OS: "plan9", Arch: "386", Compiler: "gc", Family: FamilyUnknown}
)

func TestCurrentPlatform_BuildTimeValues(t *testing.T) {
	p := CurrentPlatform()
	assert.Equal(t, runtime.GOOS, p.OS)
	assert.Equal(t, runtime.GOARCH, p.Arch)
	assert.Equal(t, runtime.Compiler, p.Compiler)
	assert.Equal(t, runtime.GOOS == "android", p.Android)
	assert.Equal(t, p, CurrentPlatform(), "platform must not change at run time")
}

func TestPlatform_Supported(t *testing.T) {
	assert.True(t, linuxPlatform.Supported())
	assert.True(t, windowsPlatform.Supported())
	assert.True(t, androidPlatform.Supported())
	assert.False(t, plan9Platform.Supported())
}

func TestPlatform_LibraryFileName(t *testing.T) {
	tests := []struct {
		name     string
		platform Platform
		base     string
		want     string
	}{
		{"linux bare", linuxPlatform, "foo", "libfoo.so"},
		{"linux prefixed", linuxPlatform, "libfoo", "libfoo.so"},
		{"linux complete", linuxPlatform, "libfoo.so", "libfoo.so"},
		{"linux versioned", linuxPlatform, "libc.so.6", "libc.so.6"},
		{"android bare", androidPlatform, "yapb", "libyapb.so"},
		{"darwin bare", darwinPlatform, "foo", "libfoo.dylib"},
		{"windows bare", windowsPlatform, "foo", "foo.dll"},
		{"windows upper case", windowsPlatform, "FOO.DLL", "FOO.DLL"},
		{"unknown platform", plan9Platform, "foo", "foo"},
		{"empty", linuxPlatform, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.platform.LibraryFileName(tt.base))
		})
	}
}

func TestPlatform_PrefixAndSuffix(t *testing.T) {
	assert.Equal(t, "lib", linuxPlatform.LibraryPrefix())
	assert.Equal(t, "", windowsPlatform.LibraryPrefix())
	assert.Equal(t, ".so", linuxPlatform.LibrarySuffix())
	assert.Equal(t, ".dylib", darwinPlatform.LibrarySuffix())
	assert.Equal(t, ".dll", windowsPlatform.LibrarySuffix())
	assert.Equal(t, "", plan9Platform.LibrarySuffix())
}

func TestPlatform_String(t *testing.T) {
	assert.Equal(t, "linux/amd64 (gc)", linuxPlatform.String())
}
