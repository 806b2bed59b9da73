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

import "time"

// CurrentVersion is the current state schema version.
// Increment this when making breaking changes to the ReleaseState structure.
const CurrentVersion = 1

// Release phases recorded in the state file. Only phases after the tag push
// are ever persisted; guard failures leave no state behind.
const (
	PhaseTagged    = "tagged"
	PhasePublished = "published"
)

// ReleaseState records an in-flight release between the tag push and the
// version bump. It carries everything needed to report the intermediate
// state to the operator and to resume the remaining steps.
type ReleaseState struct {
	// Version indicates the schema version of this state file.
	Version int `json:"version"`

	// Checksum is the SHA256 hash of the state content (excluding this field).
	// Used to detect corruption or tampering.
	Checksum string `json:"checksum"`

	// Project is the configured project name.
	Project string `json:"project"`

	// ReleaseVersion is the version being released (the pre-bump version).
	ReleaseVersion string `json:"release_version"`

	// NextVersion is the computed post-release version.
	NextVersion string `json:"next_version"`

	// Tag is the release tag that was created and pushed.
	Tag string `json:"tag"`

	// Commit is the hash the tag points at.
	Commit string `json:"commit"`

	// Phase is the furthest phase the release completed: "tagged" once the
	// tag push succeeded, "published" once the artifact upload succeeded.
	Phase string `json:"phase"`

	// StartedAt records when the release began.
	StartedAt time.Time `json:"started_at"`

	// TaggedAt records when the tag push completed.
	TaggedAt time.Time `json:"tagged_at"`
}
