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

package report

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestTrackerRecordsPhasesInOrder(t *testing.T) {
	tracker := New()
	tracker.CompletePhase("version-read")
	tracker.CompletePhase("guards-passed")
	tracker.CompletePhase("tagged")

	r := tracker.Finalize("released")

	if len(r.Phases) != 3 {
		t.Fatalf("Phases = %d, want 3", len(r.Phases))
	}
	wantOrder := []string{"version-read", "guards-passed", "tagged"}
	for i, want := range wantOrder {
		if r.Phases[i].Name != want {
			t.Errorf("Phases[%d] = %q, want %q", i, r.Phases[i].Name, want)
		}
	}
	if r.Outcome != "released" {
		t.Errorf("Outcome = %q", r.Outcome)
	}
	if r.CompletedAt.Before(r.StartedAt) {
		t.Error("CompletedAt before StartedAt")
	}
	if r.Duration == "" {
		t.Error("Duration empty")
	}
}

func TestWriteFile(t *testing.T) {
	tracker := New()
	tracker.CompletePhase("tagged")
	r := tracker.Finalize("released")
	r.Project = "flickr-api"
	r.ReleaseVersion = "0.4.0"
	r.NextVersion = "0.4.1"
	r.Tag = "v0.4.0"

	path := filepath.Join(t.TempDir(), "release.json")
	if err := WriteFile(path, r); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}

	var decoded ReleaseReport
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("report is not valid JSON: %v", err)
	}
	if decoded.Tag != "v0.4.0" || decoded.ReleaseVersion != "0.4.0" {
		t.Errorf("decoded report = %+v", decoded)
	}
}

func TestNDJSONWriter(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)

	records := []map[string]string{
		{"version": "0.3.0", "outcome": "released"},
		{"version": "0.4.0", "outcome": "failed"},
	}
	for _, r := range records {
		if err := w.Write(r); err != nil {
			t.Fatalf("Write failed: %v", err)
		}
	}
	if w.Count() != 2 {
		t.Errorf("Count = %d, want 2", w.Count())
	}

	scanner := bufio.NewScanner(&buf)
	lines := 0
	for scanner.Scan() {
		var decoded map[string]string
		if err := json.Unmarshal(scanner.Bytes(), &decoded); err != nil {
			t.Errorf("line %d is not valid JSON: %v", lines, err)
		}
		lines++
	}
	if lines != 2 {
		t.Errorf("output has %d lines, want 2", lines)
	}
}

func TestFileWriterClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export.ndjson")
	w, err := NewFileWriter(path)
	if err != nil {
		t.Fatalf("NewFileWriter failed: %v", err)
	}
	if err := w.Write(map[string]int{"n": 1}); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	if len(data) == 0 {
		t.Error("export file empty")
	}
}
