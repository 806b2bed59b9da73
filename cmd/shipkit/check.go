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

	"github.com/spf13/cobra"

	"github.com/shipkithq/shipkit/internal/config"
	shiperrors "github.com/shipkithq/shipkit/internal/errors"
	"github.com/shipkithq/shipkit/internal/forge"
	"github.com/shipkithq/shipkit/internal/gitcmd"
	"github.com/shipkithq/shipkit/internal/release"
	"github.com/shipkithq/shipkit/internal/state"
)

// checkCmd represents the check command
func newCheckCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Verify the release preconditions without mutating anything",
		Long: `Verify that a release could start right now: the version file parses,
the release tag does not exist (locally and, when the forge guard is
enabled, remotely), the working tree is clean, and no earlier release is
pending. Nothing is tagged, pushed, or uploaded.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, configPath)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Config file path (default: .shipkit.yaml)")

	return cmd
}

func runCheck(cmd *cobra.Command, configPath string) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	var forgeClient forge.Client
	if cfg.Forge.Enabled {
		token := os.Getenv(cfg.Forge.TokenEnv)
		if token == "" {
			return fmt.Errorf("forge guard enabled but %s is not set: %w",
				cfg.Forge.TokenEnv, shiperrors.ErrConfig)
		}
		forgeClient = forge.NewRetryClient(
			forge.NewGraphQLClient(token, cfg.Forge.GraphQLEndpoint, cfg.Forge.Owner, cfg.Forge.Repo), nil)
	}

	w := &release.Workflow{
		Config:    cfg,
		Repo:      gitcmd.New("."),
		Forge:     forgeClient,
		StateFile: state.StateFilePath(cfg.Defaults.StateDir, cfg.Project.Name),
	}

	current, err := w.CheckGuards(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Printf("OK: ready to release %s as %s\n", current, cfg.TagName(current))
	return nil
}
