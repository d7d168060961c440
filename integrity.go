// integrity.go: SHA-256 verification of library files before loading
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package dynlib

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// FileSHA256 returns the hex encoded SHA-256 digest of the file at path.
func FileSHA256(path string) (string, error) {
	file, err := os.Open(filepath.Clean(path)) // #nosec G304 - path comes from host configuration
	if err != nil {
		return "", NewLibraryLoadError(path, err)
	}
	defer func() { _ = file.Close() }()

	hasher := sha256.New()
	if _, err := io.Copy(hasher, file); err != nil {
		return "", NewLibraryLoadError(path, err)
	}
	return hex.EncodeToString(hasher.Sum(nil)), nil
}

// VerifySHA256 checks that the file at path has the expected hex digest.
// The comparison ignores case.
func VerifySHA256(path, expected string) error {
	actual, err := FileSHA256(path)
	if err != nil {
		return err
	}
	if !strings.EqualFold(actual, expected) {
		return NewIntegrityError(path, strings.ToLower(expected), actual)
	}
	return nil
}
