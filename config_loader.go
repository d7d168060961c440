// config_loader.go: multi-format host configuration loading
//
// JSON, TOML, HCL, INI and Properties files are parsed with Argus and bound
// to HostConfig through JSON; YAML files are decoded with gopkg.in/yaml.v3
// so nested lists keep their full structure.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package dynlib

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/agilira/argus"
	"gopkg.in/yaml.v3"
)

// maxConfigFileSize bounds the size of configuration files read from disk.
const maxConfigFileSize = 1 << 20

// LoadHostConfigFromFile reads, parses, defaults and validates the host
// configuration stored at path. The format is detected from the extension.
//
// Example usage:
//
//	cfg, err := dynlib.LoadHostConfigFromFile("libraries.yaml")
//	if err != nil {
//	    log.Fatalf("Failed to load config: %v", err)
//	}
func LoadHostConfigFromFile(path string) (HostConfig, error) {
	var config HostConfig

	securePath, err := validateConfigPath(path)
	if err != nil {
		return config, err
	}

	data, err := readConfigFile(securePath)
	if err != nil {
		return config, err
	}

	format := argus.DetectFormat(securePath)
	if err := parseHostConfig(data, format, &config); err != nil {
		return config, NewConfigParseError(securePath, err)
	}

	config.ApplyDefaults()
	if err := config.Validate(); err != nil {
		return config, err
	}
	return config, nil
}

// validateConfigPath rejects empty paths, null bytes and ".." traversal and
// returns the absolute form of path.
func validateConfigPath(path string) (string, error) {
	if path == "" {
		return "", NewConfigPathError(path, "empty file path provided")
	}
	if strings.Contains(path, "\x00") {
		return "", NewConfigPathError(path, "null byte detected in path")
	}
	for _, part := range strings.FieldsFunc(path, func(r rune) bool { return r == '/' || r == '\\' }) {
		if part == ".." {
			return "", NewConfigPathError(path, "path traversal detected: contains '..' component")
		}
	}

	absPath, err := filepath.Abs(filepath.Clean(path))
	if err != nil {
		return "", NewConfigPathError(path, fmt.Sprintf("failed to resolve absolute path: %v", err))
	}
	return absPath, nil
}

func readConfigFile(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, NewConfigNotFoundError(path)
		}
		return nil, NewConfigFileError(path, "cannot stat file", err)
	}
	if !info.Mode().IsRegular() {
		return nil, NewConfigFileError(path, "not a regular file", nil)
	}
	if info.Size() > maxConfigFileSize {
		return nil, NewConfigFileError(path, fmt.Sprintf("file too large: %d bytes", info.Size()), nil)
	}

	data, err := os.ReadFile(path) // #nosec G304 - path validated above
	if err != nil {
		return nil, NewConfigFileError(path, "cannot read file", err)
	}
	return data, nil
}

// parseHostConfig decodes data of the given format into config.
func parseHostConfig(data []byte, format argus.ConfigFormat, config *HostConfig) error {
	switch format {
	case argus.FormatYAML:
		if err := yaml.Unmarshal(data, config); err != nil {
			return fmt.Errorf("failed to parse YAML config: %w", err)
		}
		return nil
	default:
		configMap, err := argus.ParseConfig(data, format)
		if err != nil {
			return err
		}
		return bindHostConfig(configMap, config)
	}
}

// bindHostConfig converts a generic configuration map into a HostConfig by
// round-tripping through JSON.
func bindHostConfig(configMap map[string]interface{}, config *HostConfig) error {
	if configMap == nil {
		return fmt.Errorf("configuration map is nil")
	}
	jsonBytes, err := json.Marshal(configMap)
	if err != nil {
		return fmt.Errorf("failed to marshal config map to JSON: %w", err)
	}
	if err := json.Unmarshal(jsonBytes, config); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return nil
}
