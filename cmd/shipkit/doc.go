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

// Package main implements the shipkit command-line interface. Shipkit
// automates the release workflow for projects whose canonical version lives
// in a file under source control: it verifies the release preconditions,
// tags and pushes, builds and publishes the artifact to a package index,
// then bumps the version file and pushes the bump commit.
//
// The CLI supports:
//   - Running the full release workflow (shipkit release)
//   - Verifying preconditions without mutating anything (shipkit check)
//   - Inspecting an interrupted release (shipkit status)
//   - Browsing the local release ledger (shipkit history)
//
// Usage:
//
//	shipkit release [flags]
//
// Example:
//
//	export SHIPKIT_INDEX_TOKEN=your_token
//	shipkit release --bump minor
//
// Exit codes:
//   - 0: Success
//   - 1: General error
//   - 2: Precondition failure (tag exists, dirty tree, release in progress)
//   - 3: Network or remote failure (push, upload, forge, authentication)
//   - 4: Configuration or version-source error
package main
