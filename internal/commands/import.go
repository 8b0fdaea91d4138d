package commands

import (
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/stmtflow/internal/id"
	"github.com/cleared-dev/stmtflow/internal/importer"
	"github.com/cleared-dev/stmtflow/internal/model"
	"github.com/cleared-dev/stmtflow/internal/runlog"
)

type importOptions struct {
	file    string
	dir     bool
	bank    string
	account string
	dryRun  bool
}

func newImportCommand(opts *globalOptions) *cobra.Command {
	var o importOptions

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import a statement (.txt, .csv, .xlsx) into an account",
		Long: `Import a statement into an account.

--file imports one file. --dir imports every file in the workspace's
import/ directory and moves each imported file to import/processed/.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd, opts, o)
		},
	}

	cmd.Flags().StringVar(&o.file, "file", "", "statement file to import")
	cmd.Flags().BoolVar(&o.dir, "dir", false, "import every file in import/")
	cmd.Flags().StringVar(&o.bank, "bank", "", "bank name or auto (default from config)")
	cmd.Flags().StringVar(&o.account, "account", "", "account name or ID (required)")
	cmd.Flags().BoolVar(&o.dryRun, "dry-run", false, "parse and classify without writing")
	_ = cmd.MarkFlagRequired("account")
	cmd.MarkFlagsMutuallyExclusive("file", "dir")
	cmd.MarkFlagsOneRequired("file", "dir")

	return cmd
}

func runImport(cmd *cobra.Command, opts *globalOptions, o importOptions) error {
	ws, ctx, err := openWorkspace(cmd, opts)
	if err != nil {
		return err
	}
	defer ws.Close()

	acct, err := ws.store.Account(ctx, o.account)
	if err != nil {
		return err
	}

	bankName := o.bank
	if bankName == "" {
		bankName = ws.cfg.Import.DefaultBank
	}
	req := importer.Request{AccountID: acct.ID, Bank: bankName, DryRun: o.dryRun}
	im := ws.importer()
	out := cmd.OutOrStdout()

	var results []*model.ImportResult
	var runErr error
	if o.dir {
		dirResults, err := im.ImportDir(ctx, ws.dir, req, ws.cfg.Import.WorkerCount())
		if err != nil {
			return err
		}
		if len(dirResults) == 0 {
			fmt.Fprintln(out, "No files to import.")
			return nil
		}
		failed := 0
		for _, r := range dirResults {
			if r.Result != nil {
				printResult(out, acct.Name, r.Result)
				results = append(results, r.Result)
			}
			if r.Err != nil {
				fmt.Fprintf(out, "%s: %v\n", r.File.Name, r.Err)
				failed++
			}
		}
		if failed > 0 {
			runErr = fmt.Errorf("%d of %d files failed", failed, len(dirResults))
		}
	} else {
		res, err := im.ImportFile(ctx, req, o.file)
		if res != nil {
			printResult(out, acct.Name, res)
			results = append(results, res)
		}
		runErr = err
	}

	// Write import log.
	if err := runlog.Append(ws.dir, logEntries(acct.Name, results)); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: failed to write import log: %v\n", err)
	}

	if !o.dryRun {
		if updated, err := ws.store.Account(ctx, acct.ID); err == nil {
			fmt.Fprintf(out, "Balance: %s %s\n", updated.Balance.StringFixed(2), updated.Currency)
		}
	}
	return runErr
}

func printResult(w io.Writer, account string, res *model.ImportResult) {
	verb := "Imported"
	if res.DryRun {
		verb = "Dry run:"
	}
	fmt.Fprintf(w, "%s %s into %s (bank: %s, run: %s)\n", verb, filepath.Base(res.Source), account, res.Bank, id.Short(res.RunID))
	if !res.StatementDate.IsZero() {
		fmt.Fprintf(w, "  statement date: %s\n", res.StatementDate.Format(time.DateOnly))
	}
	created := res.Created
	if res.DryRun {
		created = len(res.Transactions)
	}
	fmt.Fprintf(w, "  created: %d, skipped duplicates: %d, errors: %d\n", created, res.SkippedDuplicates, res.Failed())
	if res.DryRun {
		for _, t := range res.Transactions {
			fmt.Fprintf(w, "  %s  %-7s %12s  %s\n", t.Date.Format(time.DateOnly), t.Type, t.Amount.StringFixed(2), t.Description)
		}
	}
	for _, e := range res.Errors {
		fmt.Fprintf(w, "  %v\n", e)
	}
}

func logEntries(account string, results []*model.ImportResult) []runlog.Entry {
	entries := make([]runlog.Entry, 0, len(results))
	for _, r := range results {
		entries = append(entries, runlog.Entry{
			Timestamp: time.Now().UTC(),
			RunID:     r.RunID,
			Account:   account,
			Source:    r.Source,
			Bank:      r.Bank,
			Created:   r.Created,
			Skipped:   r.SkippedDuplicates,
			Errors:    r.Failed(),
			DryRun:    r.DryRun,
		})
	}
	return entries
}
