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
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/shipkithq/shipkit/internal/config"
	"github.com/shipkithq/shipkit/internal/history"
	"github.com/shipkithq/shipkit/internal/report"
)

// historyCmd represents the history command
func newHistoryCommand() *cobra.Command {
	var (
		configPath string
		limit      int
		outputFile string
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show past release attempts from the local ledger",
		Long: `Show the project's release history: every attempt that reached the
mutation phases, released or failed, newest first. With --output the
history is exported as NDJSON instead of printed as a table.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(configPath, limit, outputFile)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Config file path (default: .shipkit.yaml)")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum entries to show (0 for all)")
	cmd.Flags().StringVar(&outputFile, "output", "", "Export history as NDJSON to this file")

	return cmd
}

func runHistory(configPath string, limit int, outputFile string) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return err
	}

	ledger, err := history.Open(filepath.Join(cfg.Defaults.StateDir, "history.db"))
	if err != nil {
		return err
	}
	defer func() { _ = ledger.Close() }()

	entries, err := ledger.List(cfg.Project.Name, limit)
	if err != nil {
		return err
	}

	if outputFile != "" {
		return exportHistory(entries, outputFile)
	}

	if len(entries) == 0 {
		fmt.Printf("No recorded releases for %s.\n", cfg.Project.Name)
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "VERSION\tTAG\tOUTCOME\tFINISHED\tERROR")
	for _, e := range entries {
		errMsg := e.Error
		if len(errMsg) > 60 {
			errMsg = errMsg[:57] + "..."
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			e.Version, e.Tag, e.Outcome, e.FinishedAt.Local().Format(time.RFC3339), errMsg)
	}
	return w.Flush()
}

// exportHistory writes the entries as NDJSON, one release attempt per line.
func exportHistory(entries []history.Entry, path string) error {
	writer, err := report.NewFileWriter(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer writer.Close()

	for _, e := range entries {
		record := struct {
			Project    string    `json:"project"`
			Version    string    `json:"version"`
			Tag        string    `json:"tag"`
			Commit     string    `json:"commit,omitempty"`
			Outcome    string    `json:"outcome"`
			Error      string    `json:"error,omitempty"`
			Artifacts  int       `json:"artifacts"`
			StartedAt  time.Time `json:"started_at"`
			FinishedAt time.Time `json:"finished_at"`
		}{
			Project:    e.Project,
			Version:    e.Version,
			Tag:        e.Tag,
			Commit:     e.Commit,
			Outcome:    e.Outcome,
			Error:      e.Error,
			Artifacts:  e.Artifacts,
			StartedAt:  e.StartedAt,
			FinishedAt: e.FinishedAt,
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write history record: %w", err)
		}
	}
	return nil
}
