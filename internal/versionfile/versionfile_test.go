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

package versionfile

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	shiperrors "github.com/shipkithq/shipkit/internal/errors"
	"github.com/shipkithq/shipkit/internal/semver"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestReadBareVersionFile(t *testing.T) {
	path := writeTemp(t, "VERSION", "0.4.0\n")

	v, err := Source{Path: path}.Read()
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if v.String() != "0.4.0" {
		t.Errorf("Read = %q, want 0.4.0", v)
	}
}

func TestReadWithPattern(t *testing.T) {
	tests := []struct {
		name    string
		content string
		pattern string
		want    string
		wantErr bool
	}{
		{
			name:    "python dunder assignment",
			content: "\"\"\" Version module. \"\"\"\n__version__ = \"1.2.3\"\n",
			pattern:  `__version__ = "{version}"`,
			want:    "1.2.3",
		},
		{
			name:    "setup.py single quotes",
			content: "setup(\n\tname = \"flickr_api\",\n\tversion = '0.3.1',\n)\n",
			pattern:  `version = '{version}'`,
			want:    "0.3.1",
		},
		{
			name:    "open ended pattern reads to end of line",
			content: "version: 2.0.0\nname: demo\n",
			pattern:  "version: {version}",
			want:    "2.0.0",
		},
		{
			name:    "pattern not present",
			content: "nothing here\n",
			pattern:  `__version__ = "{version}"`,
			wantErr: true,
		},
		{
			name:    "unparseable version",
			content: "__version__ = \"one.two\"\n",
			pattern:  `__version__ = "{version}"`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeTemp(t, "src.py", tt.content)
			v, err := Source{Path: path, Pattern: tt.pattern}.Read()
			if tt.wantErr {
				if err == nil {
					t.Fatal("Read succeeded, want error")
				}
				if !errors.Is(err, shiperrors.ErrVersionSource) {
					t.Errorf("error %v is not ErrVersionSource", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Read failed: %v", err)
			}
			if v.String() != tt.want {
				t.Errorf("Read = %q, want %q", v, tt.want)
			}
		})
	}
}

func TestReadMissingFile(t *testing.T) {
	_, err := Source{Path: filepath.Join(t.TempDir(), "absent")}.Read()
	if !errors.Is(err, shiperrors.ErrVersionSource) {
		t.Errorf("error %v is not ErrVersionSource", err)
	}
}

func TestRewriteBareFile(t *testing.T) {
	path := writeTemp(t, "VERSION", "0.4.0\n")
	src := Source{Path: path}

	old := semver.Version{Minor: 4}
	next := semver.Version{Minor: 4, Patch: 1}
	if err := src.Rewrite(old, next); err != nil {
		t.Fatalf("Rewrite failed: %v", err)
	}

	got, err := src.Read()
	if err != nil {
		t.Fatalf("Read after Rewrite failed: %v", err)
	}
	if got.String() != "0.4.1" {
		t.Errorf("version after rewrite = %q, want 0.4.1", got)
	}
}

func TestRewritePreservesSurroundingContent(t *testing.T) {
	content := "# release metadata\n__version__ = \"1.2.9\"\nauthor = \"someone\"\n"
	path := writeTemp(t, "_version.py", content)
	src := Source{Path: path, Pattern: `__version__ = "{version}"`}

	old := semver.Version{Major: 1, Minor: 2, Patch: 9}
	if err := src.Rewrite(old, old.Bump(semver.PolicyPatch)); err != nil {
		t.Fatalf("Rewrite failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	want := "# release metadata\n__version__ = \"1.2.10\"\nauthor = \"someone\"\n"
	if string(data) != want {
		t.Errorf("rewritten file = %q, want %q", data, want)
	}
}

func TestRewriteRefusesStaleOldVersion(t *testing.T) {
	path := writeTemp(t, "VERSION", "0.5.0\n")
	err := Source{Path: path}.Rewrite(semver.Version{Minor: 4}, semver.Version{Minor: 4, Patch: 1})
	if !errors.Is(err, shiperrors.ErrVersionSource) {
		t.Errorf("error %v is not ErrVersionSource", err)
	}
}

func TestSyncManifests(t *testing.T) {
	manifest := writeTemp(t, "setup.py", "setup(\n\tversion = '0.4.0',\n)\n")

	old := semver.Version{Minor: 4}
	next := semver.Version{Minor: 4, Patch: 1}
	if err := SyncManifests([]string{manifest}, old, next); err != nil {
		t.Fatalf("SyncManifests failed: %v", err)
	}

	data, err := os.ReadFile(manifest)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != "setup(\n\tversion = '0.4.1',\n)\n" {
		t.Errorf("manifest = %q", data)
	}
}

func TestSyncManifestsLeavesLaterOccurrencesAlone(t *testing.T) {
	// A dependency pinned at the project's own version must not be rewritten
	// along with the version field.
	manifest := writeTemp(t, "setup.py",
		"version = '0.4.0'\ninstall_requires = ['othertool==0.4.0']\n")

	old := semver.Version{Minor: 4}
	next := semver.Version{Minor: 4, Patch: 1}
	if err := SyncManifests([]string{manifest}, old, next); err != nil {
		t.Fatalf("SyncManifests failed: %v", err)
	}

	data, err := os.ReadFile(manifest)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	want := "version = '0.4.1'\ninstall_requires = ['othertool==0.4.0']\n"
	if string(data) != want {
		t.Errorf("manifest = %q, want %q", data, want)
	}
}

func TestSyncManifestsOutOfSync(t *testing.T) {
	manifest := writeTemp(t, "setup.py", "version = '9.9.9'\n")
	err := SyncManifests([]string{manifest}, semver.Version{Minor: 4}, semver.Version{Minor: 5})
	if !errors.Is(err, shiperrors.ErrConfig) {
		t.Errorf("error %v is not ErrConfig", err)
	}
}
