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
	"time"

	"github.com/spf13/cobra"

	"github.com/shipkithq/shipkit/internal/config"
	"github.com/shipkithq/shipkit/internal/state"
)

// statusCmd represents the status command
func newStatusCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show whether a release is pending and how far it got",
		Long: `Show the state of an interrupted release. A release that tagged but
failed before the version bump leaves durable state behind; this command
reports which phase it reached so the operator can decide between
'shipkit release --resume' and manual cleanup.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(configPath)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Config file path (default: .shipkit.yaml)")

	return cmd
}

func runStatus(configPath string) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return err
	}

	stateFile := state.StateFilePath(cfg.Defaults.StateDir, cfg.Project.Name)
	pending, err := state.Load(stateFile)
	if err != nil {
		return err
	}

	if pending == nil {
		fmt.Println("No release in progress.")
		return nil
	}

	fmt.Printf("Release in progress for %s:\n", pending.Project)
	fmt.Printf("  Version:  %s (next: %s)\n", pending.ReleaseVersion, pending.NextVersion)
	fmt.Printf("  Tag:      %s\n", pending.Tag)
	if pending.Commit != "" {
		fmt.Printf("  Commit:   %.10s\n", pending.Commit)
	}
	fmt.Printf("  Phase:    %s\n", pending.Phase)
	if !pending.TaggedAt.IsZero() {
		fmt.Printf("  Tagged:   %s\n", pending.TaggedAt.Format(time.RFC3339))
	}

	switch pending.Phase {
	case state.PhaseTagged:
		fmt.Println("\nThe tag was pushed but the artifact was not published.")
		fmt.Println("Run `shipkit release --resume` to publish and finish the release.")
	case state.PhasePublished:
		fmt.Println("\nThe artifact was published but the version was not bumped.")
		fmt.Println("Run `shipkit release --resume` to bump the version and finish the release.")
	}

	return nil
}
