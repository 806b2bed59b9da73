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

// Package config types define the configuration structures used throughout
// shipkit. These types represent settings that can be loaded from YAML
// configuration files, environment variables, or command-line flags.
package config

// Config represents the complete configuration for shipkit. It consolidates
// settings from various sources and provides a unified interface for
// accessing configuration values throughout the application.
type Config struct {
	Project  ProjectConfig  `yaml:"project"`
	Git      GitConfig      `yaml:"git"`
	Index    IndexConfig    `yaml:"index"`
	Forge    ForgeConfig    `yaml:"forge"`
	Defaults DefaultsConfig `yaml:"defaults"`
}

// ProjectConfig identifies the project being released and where its
// canonical version lives. VersionPattern may be empty, in which case the
// version file is expected to contain nothing but the version string.
// Manifests lists additional files carrying a duplicate version field that
// must be kept in sync with the canonical source.
type ProjectConfig struct {
	Name           string   `yaml:"name"`
	VersionFile    string   `yaml:"version_file"`
	VersionPattern string   `yaml:"version_pattern"`
	Manifests      []string `yaml:"manifests"`
}

// GitConfig contains source-control settings: which remote receives tag and
// branch pushes, and the prefix prepended to the version when naming tags.
type GitConfig struct {
	Remote    string `yaml:"remote"`
	TagPrefix string `yaml:"tag_prefix"`
}

// IndexConfig describes the package index that hosts published artifacts.
// BuildCommand is run from the repository root and must leave the
// distributable files in ArtifactDir. The upload token is read from the
// environment variable named by TokenEnv, never from the config file itself.
type IndexConfig struct {
	UploadEndpoint string   `yaml:"upload_endpoint"`
	TokenEnv       string   `yaml:"token_env"`
	BuildCommand   []string `yaml:"build_command"`
	ArtifactDir    string   `yaml:"artifact_dir"`
}

// ForgeConfig enables the optional remote tag-existence guard against the
// forge hosting the repository. When enabled, the workflow refuses to
// release a version whose tag or release already exists remotely, even if
// the local repository has no such tag.
type ForgeConfig struct {
	Enabled         bool   `yaml:"enabled"`
	GraphQLEndpoint string `yaml:"graphql_endpoint"`
	TokenEnv        string `yaml:"token_env"`
	Owner           string `yaml:"owner"`
	Repo            string `yaml:"repo"`
}

// DefaultsConfig contains default settings that apply to every release
// unless overridden by command-line flags.
type DefaultsConfig struct {
	Bump     string `yaml:"bump"`
	StateDir string `yaml:"state_dir"`
}

// DefaultConfig returns a Config with sensible defaults suitable for most
// projects: a bare VERSION file, the origin remote, v-prefixed tags, and a
// patch bump per release.
func DefaultConfig() *Config {
	return &Config{
		Project: ProjectConfig{
			VersionFile: "VERSION",
		},
		Git: GitConfig{
			Remote:    "origin",
			TagPrefix: "v",
		},
		Index: IndexConfig{
			TokenEnv:    "SHIPKIT_INDEX_TOKEN",
			ArtifactDir: "dist",
		},
		Forge: ForgeConfig{
			GraphQLEndpoint: "https://api.github.com/graphql",
			TokenEnv:        "GITHUB_TOKEN",
		},
		Defaults: DefaultsConfig{
			Bump:     "patch",
			StateDir: "~/.shipkit/state",
		},
	}
}
