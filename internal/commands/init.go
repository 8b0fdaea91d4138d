package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/stmtflow/internal/config"
	"github.com/cleared-dev/stmtflow/internal/ledger"
	"github.com/cleared-dev/stmtflow/internal/logger"
	"github.com/cleared-dev/stmtflow/internal/model"
)

func newInitCommand(opts *globalOptions) *cobra.Command {
	var name string
	var accountSpecs []string

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new stmtflow workspace",
		Long: `Initialize a new stmtflow workspace.

Each --account is NAME[:BANK[:OPENING_BALANCE]], for example
--account "Federal Savings:federal:1340.01".`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := opts.repo
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			accts, err := parseAccountSpecs(accountSpecs)
			if err != nil {
				return err
			}
			return runInit(cmd, absDir, name, accts)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "workspace name (required)")
	_ = cmd.MarkFlagRequired("name")
	cmd.Flags().StringArrayVar(&accountSpecs, "account", nil, "account to create, NAME[:BANK[:OPENING_BALANCE]] (repeatable)")

	return cmd
}

func parseAccountSpecs(specs []string) ([]config.AccountConfig, error) {
	var out []config.AccountConfig
	for _, s := range specs {
		parts := strings.SplitN(s, ":", 3)
		a := config.AccountConfig{Name: strings.TrimSpace(parts[0]), Type: string(model.AccountTypeSavings)}
		if a.Name == "" {
			return nil, fmt.Errorf("account %q: name is required", s)
		}
		if len(parts) > 1 {
			a.Bank = strings.TrimSpace(parts[1])
		}
		if len(parts) > 2 {
			if _, err := decimal.NewFromString(parts[2]); err != nil {
				return nil, fmt.Errorf("account %q: opening balance: %w", s, err)
			}
			a.OpeningBalance = parts[2]
		}
		out = append(out, a)
	}
	return out, nil
}

func runInit(cmd *cobra.Command, dir, name string, accts []config.AccountConfig) error {
	cfgPath := filepath.Join(dir, config.FileName)
	if _, err := os.Stat(cfgPath); err == nil {
		return fmt.Errorf("%s already exists", cfgPath)
	}

	// Create directory structure.
	dirs := []string{
		"logs",
		"import",
		filepath.Join("import", "processed"),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	// Write stmtflow.yaml.
	cfg := config.Default(name)
	cfg.Accounts = accts
	if err := config.Save(cfgPath, cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	// Write .gitignore.
	gitignore := ".env\nledger.db\nledger.db-*\nimport/processed/\n"
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(gitignore), 0o644); err != nil {
		return fmt.Errorf("writing .gitignore: %w", err)
	}

	// Write import/.gitkeep.
	if err := os.WriteFile(filepath.Join(dir, "import", ".gitkeep"), []byte{}, 0o644); err != nil {
		return fmt.Errorf("writing .gitkeep: %w", err)
	}

	// Create the ledger and seed accounts.
	ctx := cmd.Context()
	store, err := ledger.Open(ctx, cfg.LedgerPath(dir))
	if err != nil {
		return err
	}
	defer store.Close()

	log := logger.FromContext(ctx)
	for _, ac := range cfg.Accounts {
		a, err := accountFromConfig(ac)
		if err != nil {
			return err
		}
		created, err := store.CreateAccount(ctx, a)
		if errors.Is(err, ledger.ErrAccountExists) {
			log.Debug().Str("account", ac.Name).Msg("account already exists")
			continue
		}
		if err != nil {
			return fmt.Errorf("creating account %s: %w", ac.Name, err)
		}
		log.Debug().Str("account", created.Name).Str("id", created.ID).Msg("account created")
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Initialized stmtflow workspace at %s (%d accounts)\n", dir, len(cfg.Accounts))
	return nil
}

func accountFromConfig(ac config.AccountConfig) (model.Account, error) {
	typ, ok := model.ParseAccountType(ac.Type)
	if !ok {
		return model.Account{}, fmt.Errorf("account %s: unknown type %q", ac.Name, ac.Type)
	}
	a := model.Account{Name: ac.Name, Type: typ, Bank: ac.Bank, Number: ac.Number}
	if ac.OpeningBalance != "" {
		bal, err := decimal.NewFromString(ac.OpeningBalance)
		if err != nil {
			return model.Account{}, fmt.Errorf("account %s: opening balance: %w", ac.Name, err)
		}
		a.OpeningBalance = bal
	}
	return a, nil
}
