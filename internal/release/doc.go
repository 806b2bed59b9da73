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

// Package release implements the sequential release workflow.
//
// A run moves through a fixed phase sequence:
//
//	Idle -> VersionRead -> GuardsPassed -> Tagged -> Published -> VersionBumped -> Idle
//
// Every step is fail-fast: the first error aborts the remaining sequence
// and is surfaced to the operator. Guard failures happen before any
// mutation, so an aborted run leaves the repository exactly as it found it.
// The one intermediate state that can survive a failure is
// tagged-but-not-bumped: the tag push succeeded but the publish or bump did
// not. That state is recorded durably (see the state package) and resolved
// by the operator, either manually or with `release --resume`.
//
// The ordering between the tag push and the artifact publish is
// deliberate: the tag goes first. A publish failure then leaves a durable
// tag naming exactly what was supposed to ship, and the version file is
// untouched until the publish has succeeded, so the repository version
// never disagrees with what was actually tagged.
package release
