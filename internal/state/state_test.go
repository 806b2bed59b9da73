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

package state

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestStateFilePath(t *testing.T) {
	tests := []struct {
		name    string
		project string
		want    string
	}{
		{"plain name", "flickr-api", "flickr-api.state"},
		{"slash sanitized", "org/project", "org-project.state"},
		{"empty falls back", "", "default.state"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := StateFilePath("/tmp/state", tt.project)
			if filepath.Base(got) != tt.want {
				t.Errorf("StateFilePath(%q) = %q, want base %q", tt.project, got, tt.want)
			}
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	stateFile := filepath.Join(t.TempDir(), "flickr-api.state")

	pending := &ReleaseState{
		Project:        "flickr-api",
		ReleaseVersion: "0.4.0",
		NextVersion:    "0.4.1",
		Tag:            "v0.4.0",
		Commit:         "0123456789abcdef0123456789abcdef01234567",
		Phase:          PhaseTagged,
		StartedAt:      time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC),
		TaggedAt:       time.Date(2026, 8, 25, 10, 0, 5, 0, time.UTC),
	}

	if err := Save(pending, stateFile); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(stateFile)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded == nil {
		t.Fatal("Load returned nil for existing state")
	}

	if loaded.ReleaseVersion != pending.ReleaseVersion {
		t.Errorf("ReleaseVersion = %q, want %q", loaded.ReleaseVersion, pending.ReleaseVersion)
	}
	if loaded.Tag != pending.Tag {
		t.Errorf("Tag = %q, want %q", loaded.Tag, pending.Tag)
	}
	if loaded.Phase != PhaseTagged {
		t.Errorf("Phase = %q, want %q", loaded.Phase, PhaseTagged)
	}
	if loaded.Version != CurrentVersion {
		t.Errorf("Version = %d, want %d", loaded.Version, CurrentVersion)
	}
	if !loaded.TaggedAt.Equal(pending.TaggedAt) {
		t.Errorf("TaggedAt = %v, want %v", loaded.TaggedAt, pending.TaggedAt)
	}
}

func TestLoadMissingFileMeansNoPendingRelease(t *testing.T) {
	st, err := Load(filepath.Join(t.TempDir(), "absent.state"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if st != nil {
		t.Errorf("Load = %+v, want nil", st)
	}
}

func TestLoadDetectsCorruption(t *testing.T) {
	stateFile := filepath.Join(t.TempDir(), "corrupt.state")

	pending := &ReleaseState{
		Project:        "demo",
		ReleaseVersion: "1.0.0",
		Tag:            "v1.0.0",
		Phase:          PhaseTagged,
	}
	if err := Save(pending, stateFile); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// Flip the recorded tag without updating the checksum.
	data, err := os.ReadFile(stateFile)
	if err != nil {
		t.Fatalf("read state: %v", err)
	}
	tampered := strings.Replace(string(data), "v1.0.0", "v2.0.0", 1)
	if err := os.WriteFile(stateFile, []byte(tampered), 0o600); err != nil {
		t.Fatalf("write tampered state: %v", err)
	}

	if _, err := Load(stateFile); err == nil || !strings.Contains(err.Error(), "checksum") {
		t.Errorf("Load of tampered state = %v, want checksum error", err)
	}
}

func TestLoadRejectsInvalidJSON(t *testing.T) {
	stateFile := filepath.Join(t.TempDir(), "bad.state")
	if err := os.WriteFile(stateFile, []byte("{not json"), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	if _, err := Load(stateFile); err == nil {
		t.Error("Load of invalid JSON succeeded")
	}
}

func TestLoadRejectsFutureSchema(t *testing.T) {
	stateFile := filepath.Join(t.TempDir(), "future.state")

	st := map[string]interface{}{"version": CurrentVersion + 1, "tag": "v1.0.0"}
	data, err := json.Marshal(st)
	if err != nil {
		t.Fatalf("marshal fixture: %v", err)
	}
	if err := os.WriteFile(stateFile, data, 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	if _, err := Load(stateFile); err == nil || !strings.Contains(err.Error(), "incompatible") {
		t.Errorf("Load of future schema = %v, want incompatibility error", err)
	}
}

func TestDelete(t *testing.T) {
	stateFile := filepath.Join(t.TempDir(), "gone.state")
	if err := Save(&ReleaseState{Project: "demo", Phase: PhaseTagged}, stateFile); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := Delete(stateFile); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := os.Stat(stateFile); !os.IsNotExist(err) {
		t.Error("state file still present after Delete")
	}
	// Deleting again is fine.
	if err := Delete(stateFile); err != nil {
		t.Errorf("second Delete failed: %v", err)
	}
}
