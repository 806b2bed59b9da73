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

// Package state provides atomic persistence for in-flight release state.
//
// A release that has pushed its tag but not yet published and bumped is in
// the tagged-but-not-bumped intermediate state. That state is durable: the
// workflow records it the moment the tag push succeeds, so a later publish
// failure leaves enough on disk for `shipkit status` to explain what
// happened and for `shipkit release --resume` to finish the job.
//
// State files use a write-to-temp-and-rename pattern for atomicity, carry a
// SHA256 checksum for corruption detection, and a schema version for
// forward compatibility. They live under the configured state directory,
// one file per project.
package state
