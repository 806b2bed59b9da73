// Copyright 2026 ShipKit HQ
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config provides configuration management for shipkit with support
// for multiple configuration sources and a well-defined precedence order.
//
// Configuration sources (in precedence order, highest to lowest):
//  1. Command-line flags
//  2. Environment variables
//  3. Configuration file
//  4. Built-in defaults
//
// The package supports YAML configuration files and provides automatic
// discovery of configuration in standard locations.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	shiperrors "github.com/shipkithq/shipkit/internal/errors"
	"github.com/shipkithq/shipkit/internal/semver"
)

// LoadConfig loads configuration from multiple sources and applies them in
// the correct precedence order. If configPath is provided, it loads from
// that specific file. Otherwise, it searches standard locations:
//   - .shipkit.yaml (current directory)
//   - .shipkit.yml (current directory)
//   - ~/.shipkit/config.yaml
//   - ~/.shipkit/config.yml
//
// Environment variables are applied after loading the config file, allowing
// runtime overrides. Path expansion (~ and environment variables) is
// performed on the state directory.
//
// Returns an error if the specified config file cannot be loaded, but will
// succeed with defaults if no config file is found in standard locations.
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		if err := loadConfigFile(configPath, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	} else {
		defaultPaths := []string{
			".shipkit.yaml",
			".shipkit.yml",
			filepath.Join(os.Getenv("HOME"), ".shipkit", "config.yaml"),
			filepath.Join(os.Getenv("HOME"), ".shipkit", "config.yml"),
		}

		for _, path := range defaultPaths {
			if _, err := os.Stat(path); err == nil {
				if err := loadConfigFile(path, cfg); err != nil {
					return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
				}
				break
			}
		}
	}

	applyEnvOverrides(cfg)

	cfg.Defaults.StateDir = expandPath(cfg.Defaults.StateDir)

	return cfg, nil
}

// loadConfigFile reads and parses a YAML config file
func loadConfigFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %v: %w", path, err, shiperrors.ErrConfig)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(cfg *Config) {
	if endpoint := os.Getenv("SHIPKIT_INDEX_ENDPOINT"); endpoint != "" {
		cfg.Index.UploadEndpoint = endpoint
	}
	if endpoint := os.Getenv("SHIPKIT_FORGE_ENDPOINT"); endpoint != "" {
		cfg.Forge.GraphQLEndpoint = endpoint
	}
	if remote := os.Getenv("SHIPKIT_REMOTE"); remote != "" {
		cfg.Git.Remote = remote
	}
	if bump := os.Getenv("SHIPKIT_BUMP"); bump != "" {
		cfg.Defaults.Bump = bump
	}
	if stateDir := os.Getenv("SHIPKIT_STATE_DIR"); stateDir != "" {
		cfg.Defaults.StateDir = stateDir
	}
}

// expandPath expands ~ and environment variables in paths
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home := os.Getenv("HOME")
		if home == "" {
			home = os.Getenv("USERPROFILE") // Windows
		}
		path = filepath.Join(home, path[2:])
	}
	return os.ExpandEnv(path)
}

// TagName returns the tag identifying a released version, combining the
// configured prefix with the version string.
func (c *Config) TagName(v semver.Version) string {
	return c.Git.TagPrefix + v.String()
}

// Validate checks if the configuration contains valid values. This should
// be called after loading configuration to catch invalid settings early,
// before any guard or mutation runs.
func (c *Config) Validate() error {
	if c.Project.VersionFile == "" {
		return fmt.Errorf("project.version_file cannot be empty: %w", shiperrors.ErrConfig)
	}
	if c.Project.VersionPattern != "" && !strings.Contains(c.Project.VersionPattern, "{version}") {
		return fmt.Errorf("project.version_pattern %q has no {version} placeholder: %w",
			c.Project.VersionPattern, shiperrors.ErrConfig)
	}
	if c.Git.Remote == "" {
		return fmt.Errorf("git.remote cannot be empty: %w", shiperrors.ErrConfig)
	}
	if _, err := semver.ParsePolicy(c.Defaults.Bump); err != nil {
		return fmt.Errorf("defaults.bump: %v: %w", err, shiperrors.ErrConfig)
	}
	if c.Forge.Enabled {
		if c.Forge.Owner == "" || c.Forge.Repo == "" {
			return fmt.Errorf("forge guard enabled but forge.owner/forge.repo not set: %w", shiperrors.ErrConfig)
		}
		if c.Forge.GraphQLEndpoint == "" {
			return fmt.Errorf("forge guard enabled but forge.graphql_endpoint empty: %w", shiperrors.ErrConfig)
		}
	}
	return nil
}
