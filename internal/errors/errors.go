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

// Package errors defines sentinel errors for consistent error handling across
// the application. These errors map to specific exit codes in the CLI for
// proper scripting support.
package errors

import "errors"

// Sentinel errors for consistent error handling and exit code mapping
var (
	// ErrTagExists indicates a tag for the current version already exists
	// locally. Releasing the same version twice is never allowed.
	// Maps to exit code 2.
	ErrTagExists = errors.New("release tag already exists")

	// ErrRemoteTagExists indicates the forge already has a tag or release
	// for the current version, even though the local repository does not.
	// Maps to exit code 2.
	ErrRemoteTagExists = errors.New("release tag already exists on remote")

	// ErrDirtyWorktree indicates the working tree has modified or untracked
	// files. The artifact must be built from a clean, tagged commit.
	// Maps to exit code 2.
	ErrDirtyWorktree = errors.New("working tree has uncommitted changes")

	// ErrReleaseInProgress indicates another release holds the lock, or a
	// previous release left pending state that must be resumed or cleared.
	// Maps to exit code 2.
	ErrReleaseInProgress = errors.New("another release is in progress")

	// ErrHeadMoved indicates HEAD no longer points at the commit a pending
	// release tagged, so the artifact can no longer be rebuilt from the
	// tagged commit. Maps to exit code 2.
	ErrHeadMoved = errors.New("HEAD does not match the release commit")

	// ErrNetworkFailure indicates a network connection problem.
	// Maps to exit code 3.
	ErrNetworkFailure = errors.New("network connection failed")

	// ErrPushFailed indicates a git push (tag or branch) was rejected or
	// could not reach the remote. Maps to exit code 3.
	ErrPushFailed = errors.New("push to remote failed")

	// ErrUploadFailed indicates the artifact upload to the package index
	// failed. The repository may be in the tagged-but-not-bumped state.
	// Maps to exit code 3.
	ErrUploadFailed = errors.New("artifact upload failed")

	// ErrAuthFailed indicates the package index or forge rejected the
	// configured credentials. Maps to exit code 3.
	ErrAuthFailed = errors.New("authentication failed")

	// ErrVersionSource indicates the canonical version source is missing,
	// unreadable, or does not contain a parseable version string.
	// Maps to exit code 4.
	ErrVersionSource = errors.New("version source missing or malformed")

	// ErrConfig indicates the configuration file is invalid.
	// Maps to exit code 4.
	ErrConfig = errors.New("invalid configuration")
)
