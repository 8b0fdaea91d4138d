package commands

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/stmtflow/internal/export"
)

func newExportCommand(opts *globalOptions) *cobra.Command {
	var account, format, outPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export an account's transactions as CSV or XLSX",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format = strings.ToLower(format)
			if !slices.Contains(export.Formats, format) {
				return fmt.Errorf("unknown format %q (want %s)", format, strings.Join(export.Formats, " or "))
			}
			if format == "xlsx" && outPath == "" {
				return fmt.Errorf("--out is required for xlsx")
			}

			ws, ctx, err := openWorkspace(cmd, opts)
			if err != nil {
				return err
			}
			defer ws.Close()

			acct, err := ws.store.Account(ctx, account)
			if err != nil {
				return err
			}
			txns, err := ws.store.Transactions(ctx, acct.ID)
			if err != nil {
				return err
			}

			var w io.Writer = cmd.OutOrStdout()
			if outPath != "" {
				f, err := os.Create(outPath)
				if err != nil {
					return fmt.Errorf("creating %s: %w", outPath, err)
				}
				defer f.Close()
				w = f
			}

			if format == "xlsx" {
				err = export.WriteXLSX(w, txns)
			} else {
				err = export.WriteCSV(w, txns)
			}
			if err != nil {
				return fmt.Errorf("exporting %s: %w", acct.Name, err)
			}
			if outPath != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Exported %d transactions to %s\n", len(txns), outPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&account, "account", "", "account name or ID (required)")
	cmd.Flags().StringVar(&format, "format", "csv", "csv or xlsx")
	cmd.Flags().StringVar(&outPath, "out", "", "output file (default stdout, csv only)")
	_ = cmd.MarkFlagRequired("account")

	return cmd
}
