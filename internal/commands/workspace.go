package commands

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/stmtflow/internal/bank"
	"github.com/cleared-dev/stmtflow/internal/classify"
	"github.com/cleared-dev/stmtflow/internal/config"
	"github.com/cleared-dev/stmtflow/internal/importer"
	"github.com/cleared-dev/stmtflow/internal/ledger"
	"github.com/cleared-dev/stmtflow/internal/logger"
)

// workspace is an opened stmtflow directory: its config and ledger.
type workspace struct {
	dir   string
	cfg   *config.Config
	store *ledger.Store
}

// openWorkspace loads the config under --repo, sets the log level from it
// unless --log-level was given, and opens the ledger. The returned context
// carries the logger.
func openWorkspace(cmd *cobra.Command, opts *globalOptions) (*workspace, context.Context, error) {
	dir, err := filepath.Abs(opts.repo)
	if err != nil {
		return nil, nil, fmt.Errorf("resolving path: %w", err)
	}

	cfg, err := config.LoadWorkspace(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("loading workspace (run 'stmtflow init' first?): %w", err)
	}

	ctx := cmd.Context()
	if opts.logLevel == "" && cfg.Logging.Level != "" {
		ctx = logger.WithContext(ctx, logger.NewConsole(cmd.ErrOrStderr(), cfg.Logging.Level))
	}

	store, err := ledger.Open(ctx, cfg.LedgerPath(dir))
	if err != nil {
		return nil, nil, err
	}
	if cfg.Import.DedupePrefix > 0 {
		store.KeyLength = cfg.Import.DedupePrefix
	}

	return &workspace{dir: dir, cfg: cfg, store: store}, ctx, nil
}

func (w *workspace) Close() error {
	return w.store.Close()
}

// importer builds an importer configured from the workspace.
func (w *workspace) importer() *importer.Importer {
	im := importer.New(w.store, classify.New(w.cfg.Classifier.Rules()), bank.DefaultRegistry())
	if w.cfg.Import.DescriptionLimit > 0 {
		im.DescriptionLimit = w.cfg.Import.DescriptionLimit
	}
	im.Guard.PrefixLength = w.store.KeyLength
	return im
}
