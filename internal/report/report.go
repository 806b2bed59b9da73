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

// Package report produces machine-readable records of release runs. A
// release report captures what was released, from which commit, which
// phases completed and when, so external tooling can audit the workflow
// without scraping terminal output.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/shipkithq/shipkit/pkg/version"
)

// ReleaseReport is the complete record of a single workflow run.
type ReleaseReport struct {
	ShipkitVersion string        `json:"shipkit_version"`
	Project        string        `json:"project"`
	ReleaseVersion string        `json:"release_version"`
	NextVersion    string        `json:"next_version"`
	Tag            string        `json:"tag"`
	Commit         string        `json:"commit"`
	DryRun         bool          `json:"dry_run"`
	Outcome        string        `json:"outcome"`
	Error          string        `json:"error,omitempty"`
	Artifacts      []string      `json:"artifacts,omitempty"`
	Phases         []PhaseResult `json:"phases"`
	StartedAt      time.Time     `json:"started_at"`
	CompletedAt    time.Time     `json:"completed_at"`
	Duration       string        `json:"duration"`
}

// PhaseResult records when one workflow phase completed.
type PhaseResult struct {
	Name        string    `json:"name"`
	CompletedAt time.Time `json:"completed_at"`
}

// Tracker collects phase completions during a workflow run and produces
// the final report. Create one at the start of each run.
type Tracker struct {
	startTime time.Time
	phases    []PhaseResult
}

// New creates a tracker and starts the clock.
func New() *Tracker {
	return &Tracker{startTime: time.Now()}
}

// CompletePhase records that a phase finished now.
func (t *Tracker) CompletePhase(name string) {
	t.phases = append(t.phases, PhaseResult{Name: name, CompletedAt: time.Now()})
}

// Finalize assembles the report. The caller fills in the identity fields on
// the returned value; Finalize owns the timing and phase data.
func (t *Tracker) Finalize(outcome string) *ReleaseReport {
	completed := time.Now()
	return &ReleaseReport{
		ShipkitVersion: version.Version,
		Outcome:        outcome,
		Phases:         t.phases,
		StartedAt:      t.startTime,
		CompletedAt:    completed,
		Duration:       completed.Sub(t.startTime).Round(time.Millisecond).String(),
	}
}

// WriteFile writes the report as indented JSON to the given path.
func WriteFile(path string, r *ReleaseReport) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write report file: %w", err)
	}
	return nil
}
