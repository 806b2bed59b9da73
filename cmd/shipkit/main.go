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

package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	shiperrors "github.com/shipkithq/shipkit/internal/errors"
	"github.com/shipkithq/shipkit/pkg/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "shipkit",
		Short: "Release automation for version-file-driven projects",
		Long: `Shipkit runs the release workflow for projects whose canonical version
lives in a file under source control. One command verifies the release
preconditions, tags and pushes, publishes the artifact to the package
index, and bumps the version file for the next development cycle.`,
		Version:       version.Version,
		SilenceUsage:  true, // Don't show usage on error
		SilenceErrors: true, // We'll handle error printing ourselves
	}

	rootCmd.AddCommand(newReleaseCommand())
	rootCmd.AddCommand(newCheckCommand())
	rootCmd.AddCommand(newStatusCommand())
	rootCmd.AddCommand(newHistoryCommand())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(mapErrorToExitCode(err))
	}
}

// mapErrorToExitCode maps internal errors to appropriate exit codes.
func mapErrorToExitCode(err error) int {
	if err == nil {
		return 0
	}

	if errors.Is(err, shiperrors.ErrTagExists) ||
		errors.Is(err, shiperrors.ErrRemoteTagExists) ||
		errors.Is(err, shiperrors.ErrDirtyWorktree) ||
		errors.Is(err, shiperrors.ErrReleaseInProgress) ||
		errors.Is(err, shiperrors.ErrHeadMoved) {
		return 2 // Precondition failures
	}

	if errors.Is(err, shiperrors.ErrNetworkFailure) ||
		errors.Is(err, shiperrors.ErrPushFailed) ||
		errors.Is(err, shiperrors.ErrUploadFailed) ||
		errors.Is(err, shiperrors.ErrAuthFailed) {
		return 3 // Network and remote failures
	}

	if errors.Is(err, shiperrors.ErrVersionSource) ||
		errors.Is(err, shiperrors.ErrConfig) {
		return 4 // Configuration errors
	}

	return 1 // General error
}
