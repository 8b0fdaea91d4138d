package commands

import (
	"github.com/spf13/cobra"

	"github.com/cleared-dev/stmtflow/internal/buildinfo"
	"github.com/cleared-dev/stmtflow/internal/logger"
)

// globalOptions are the persistent flags shared by every subcommand.
type globalOptions struct {
	repo     string
	logLevel string
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:     "stmtflow",
		Short:   "Bank statement import into a local ledger",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := opts.logLevel
			if level == "" {
				level = "info"
			}
			log := logger.NewConsole(cmd.ErrOrStderr(), level)
			cmd.SetContext(logger.WithContext(cmd.Context(), log))
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.repo, "repo", ".", "workspace directory")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level (trace, debug, info, warn, error); overrides config")

	rootCmd.AddCommand(newInitCommand(opts))
	rootCmd.AddCommand(newImportCommand(opts))
	rootCmd.AddCommand(newDetectCommand())
	rootCmd.AddCommand(newAccountsCommand(opts))
	rootCmd.AddCommand(newExportCommand(opts))
	rootCmd.AddCommand(newRunsCommand(opts))

	return rootCmd
}
