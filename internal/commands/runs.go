package commands

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/stmtflow/internal/id"
	"github.com/cleared-dev/stmtflow/internal/runlog"
)

func newRunsCommand(opts *globalOptions) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Show the import log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := filepath.Abs(opts.repo)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}
			entries, err := runlog.Read(dir)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "No imports yet.")
				return nil
			}
			if limit > 0 && len(entries) > limit {
				entries = entries[len(entries)-limit:]
			}
			for _, e := range entries {
				dry := ""
				if e.DryRun {
					dry = " (dry run)"
				}
				fmt.Fprintf(out, "%s  %s  %-16s %-8s %-24s created=%d skipped=%d errors=%d%s\n",
					e.Timestamp.Local().Format(time.DateTime), id.Short(e.RunID), e.Account, e.Bank, e.Source,
					e.Created, e.Skipped, e.Errors, dry)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "show the last N runs (0 for all)")

	return cmd
}
