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

// Package versionfile reads and rewrites the canonical version source file.
//
// The version identifier lives in exactly one authoritative file. The file is
// either a bare version file (the whole file is the version string) or a
// source file matched by a pattern containing the {version} placeholder, for
// example:
//
//	__version__ = "{version}"
//	version = '{version}'
//
// Rewrites are plain old-string to new-string substitutions so the
// surrounding file content is never disturbed. Additional manifest files can
// carry a duplicate version field; SyncManifests keeps them in step with the
// canonical source.
package versionfile

import (
	"fmt"
	"os"
	"strings"

	shiperrors "github.com/shipkithq/shipkit/internal/errors"
	"github.com/shipkithq/shipkit/internal/semver"
)

// Placeholder marks the version position inside a source pattern.
const Placeholder = "{version}"

// Source identifies the canonical version file and how to find the version
// inside it. An empty Pattern means the whole file is the version string.
type Source struct {
	Path    string
	Pattern string
}

// Read parses the current version out of the source file. It returns
// ErrVersionSource (wrapped) when the file is missing or the version cannot
// be located or parsed.
func (s Source) Read() (semver.Version, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return semver.Version{}, fmt.Errorf("read %s: %v: %w", s.Path, err, shiperrors.ErrVersionSource)
	}

	raw, err := s.extract(string(data))
	if err != nil {
		return semver.Version{}, err
	}

	v, err := semver.Parse(raw)
	if err != nil {
		return semver.Version{}, fmt.Errorf("%s: %v: %w", s.Path, err, shiperrors.ErrVersionSource)
	}
	return v, nil
}

// Rewrite substitutes the old version for the next one in place. The file
// mode is preserved. Rewrite refuses to touch a file that no longer carries
// the old version, which would mean the canonical source changed under us.
func (s Source) Rewrite(old, next semver.Version) error {
	info, err := os.Stat(s.Path)
	if err != nil {
		return fmt.Errorf("stat %s: %v: %w", s.Path, err, shiperrors.ErrVersionSource)
	}
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return fmt.Errorf("read %s: %v: %w", s.Path, err, shiperrors.ErrVersionSource)
	}

	var updated string
	if s.Pattern == "" {
		current := strings.TrimSpace(string(data))
		if current != old.String() {
			return fmt.Errorf("%s reads %q, expected %q: %w", s.Path, current, old, shiperrors.ErrVersionSource)
		}
		updated = next.String() + "\n"
	} else {
		oldAssign := strings.Replace(s.Pattern, Placeholder, old.String(), 1)
		nextAssign := strings.Replace(s.Pattern, Placeholder, next.String(), 1)
		if !strings.Contains(string(data), oldAssign) {
			return fmt.Errorf("%s does not contain %q: %w", s.Path, oldAssign, shiperrors.ErrVersionSource)
		}
		updated = strings.Replace(string(data), oldAssign, nextAssign, 1)
	}

	if err := os.WriteFile(s.Path, []byte(updated), info.Mode()); err != nil {
		return fmt.Errorf("write %s: %v: %w", s.Path, err, shiperrors.ErrVersionSource)
	}
	return nil
}

// extract locates the raw version string inside the file content.
func (s Source) extract(content string) (string, error) {
	if s.Pattern == "" {
		raw := strings.TrimSpace(content)
		if raw == "" {
			return "", fmt.Errorf("%s is empty: %w", s.Path, shiperrors.ErrVersionSource)
		}
		return raw, nil
	}

	idx := strings.Index(s.Pattern, Placeholder)
	if idx < 0 {
		return "", fmt.Errorf("pattern %q has no %s placeholder: %w", s.Pattern, Placeholder, shiperrors.ErrConfig)
	}
	prefix := s.Pattern[:idx]
	suffix := s.Pattern[idx+len(Placeholder):]

	start := strings.Index(content, prefix)
	if start < 0 {
		return "", fmt.Errorf("%s does not match pattern %q: %w", s.Path, s.Pattern, shiperrors.ErrVersionSource)
	}
	rest := content[start+len(prefix):]

	var raw string
	if suffix == "" {
		if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
			rest = rest[:nl]
		}
		raw = strings.TrimSpace(rest)
	} else {
		end := strings.Index(rest, suffix)
		if end < 0 {
			return "", fmt.Errorf("%s does not match pattern %q: %w", s.Path, s.Pattern, shiperrors.ErrVersionSource)
		}
		raw = rest[:end]
	}

	if raw == "" {
		return "", fmt.Errorf("%s has an empty version: %w", s.Path, shiperrors.ErrVersionSource)
	}
	return raw, nil
}

// SyncManifests substitutes the old version for the next one in each
// secondary manifest. A manifest that does not carry the old version string
// is out of sync with the canonical source, which is a configuration error:
// the duplicate field must track the authoritative one.
//
// Only the first occurrence in each manifest is rewritten. The manifest's
// own version field must therefore appear before any other use of the same
// string, so a dependency that happens to be pinned at the project's
// version is never touched.
func SyncManifests(paths []string, old, next semver.Version) error {
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return fmt.Errorf("stat manifest %s: %v: %w", path, err, shiperrors.ErrConfig)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read manifest %s: %v: %w", path, err, shiperrors.ErrConfig)
		}
		if !strings.Contains(string(data), old.String()) {
			return fmt.Errorf("manifest %s does not contain version %s: %w", path, old, shiperrors.ErrConfig)
		}
		updated := strings.Replace(string(data), old.String(), next.String(), 1)
		if err := os.WriteFile(path, []byte(updated), info.Mode()); err != nil {
			return fmt.Errorf("write manifest %s: %v: %w", path, err, shiperrors.ErrConfig)
		}
	}
	return nil
}
