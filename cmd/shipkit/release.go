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
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shipkithq/shipkit/internal/config"
	shiperrors "github.com/shipkithq/shipkit/internal/errors"
	"github.com/shipkithq/shipkit/internal/forge"
	"github.com/shipkithq/shipkit/internal/gitcmd"
	"github.com/shipkithq/shipkit/internal/history"
	"github.com/shipkithq/shipkit/internal/index"
	"github.com/shipkithq/shipkit/internal/release"
	"github.com/shipkithq/shipkit/internal/report"
	"github.com/shipkithq/shipkit/internal/semver"
	"github.com/shipkithq/shipkit/internal/state"
)

// releaseCmd represents the release command
func newReleaseCommand() *cobra.Command {
	var (
		configPath string
		bumpFlag   string
		dryRun     bool
		resume     bool
		reportPath string
	)

	cmd := &cobra.Command{
		Use:   "release",
		Short: "Run the release workflow: guard, tag, publish, bump",
		Long: `Run the full release workflow for the project in the current directory.

The workflow reads the canonical version from the configured version file,
verifies that the release tag does not exist and the working tree is clean,
creates and pushes the tag, builds and uploads the artifact to the package
index, then bumps the version file and pushes the bump commit.

The upload token is read from the environment variable named by
index.token_env in the configuration (default SHIPKIT_INDEX_TOKEN).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRelease(cmd, configPath, bumpFlag, dryRun, resume, reportPath)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Config file path (default: .shipkit.yaml)")
	cmd.Flags().StringVar(&bumpFlag, "bump", "", "Version bump policy: patch, minor, or major (overrides config)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report what would happen without mutating anything")
	cmd.Flags().BoolVar(&resume, "resume", false, "Finish a release that tagged but did not complete")
	cmd.Flags().StringVar(&reportPath, "report", "", "Write a JSON release report to this path")

	return cmd
}

// runRelease wires the workflow collaborators from configuration and
// executes it.
func runRelease(cmd *cobra.Command, configPath, bumpFlag string, dryRun, resume bool, reportPath string) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	policy := cfg.Defaults.Bump
	if bumpFlag != "" {
		policy = bumpFlag
	}
	parsedPolicy, err := semver.ParsePolicy(policy)
	if err != nil {
		return fmt.Errorf("--bump: %v: %w", err, shiperrors.ErrConfig)
	}

	if !dryRun && cfg.Index.UploadEndpoint == "" {
		return fmt.Errorf("index.upload_endpoint not configured: %w", shiperrors.ErrConfig)
	}

	w, ledger, err := buildWorkflow(cfg, parsedPolicy, dryRun)
	if err != nil {
		return err
	}
	if ledger != nil {
		defer func() { _ = ledger.Close() }()
	}

	var rep *report.ReleaseReport
	var runErr error
	if resume {
		rep, runErr = w.Resume(cmd.Context())
	} else {
		rep, runErr = w.Run(cmd.Context())
	}

	if reportPath != "" && rep != nil {
		if err := report.WriteFile(reportPath, rep); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to write report: %v\n", err)
		}
	}

	return runErr
}

// buildWorkflow assembles the workflow collaborators. The ledger is
// returned separately so the caller can close it.
func buildWorkflow(cfg *config.Config, policy semver.Policy, dryRun bool) (*release.Workflow, *history.Ledger, error) {
	repo := gitcmd.New(".")

	var forgeClient forge.Client
	if cfg.Forge.Enabled {
		token := os.Getenv(cfg.Forge.TokenEnv)
		if token == "" {
			return nil, nil, fmt.Errorf("forge guard enabled but %s is not set: %w",
				cfg.Forge.TokenEnv, shiperrors.ErrConfig)
		}
		forgeClient = forge.NewRetryClient(
			forge.NewGraphQLClient(token, cfg.Forge.GraphQLEndpoint, cfg.Forge.Owner, cfg.Forge.Repo), nil)
	}

	stateFile := state.StateFilePath(cfg.Defaults.StateDir, cfg.Project.Name)
	lockFile := strings.TrimSuffix(stateFile, ".state") + ".lock"

	var ledger *history.Ledger
	ledger, err := history.Open(filepath.Join(cfg.Defaults.StateDir, "history.db"))
	if err != nil {
		// The ledger is an audit convenience; a broken ledger must not block
		// a release.
		fmt.Fprintf(os.Stderr, "warning: release ledger unavailable: %v\n", err)
		ledger = nil
	}

	w := &release.Workflow{
		Config:    cfg,
		Repo:      repo,
		Forge:     forgeClient,
		Builder:   index.NewBuilder(".", cfg.Index.BuildCommand, cfg.Index.ArtifactDir),
		Uploader:  index.NewClient(cfg.Index.UploadEndpoint, os.Getenv(cfg.Index.TokenEnv)),
		StateFile: stateFile,
		LockFile:  lockFile,
		Policy:    policy,
		DryRun:    dryRun,
	}
	if ledger != nil {
		w.Ledger = ledger
	}
	return w, ledger, nil
}
