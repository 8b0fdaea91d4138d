package commands

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/stmtflow/internal/model"
)

func newAccountsCommand(opts *globalOptions) *cobra.Command {
	accountsCmd := &cobra.Command{
		Use:   "accounts",
		Short: "Manage ledger accounts",
	}
	accountsCmd.AddCommand(newAccountsAddCommand(opts))
	accountsCmd.AddCommand(newAccountsListCommand(opts))
	return accountsCmd
}

func newAccountsAddCommand(opts *globalOptions) *cobra.Command {
	var a struct {
		typ, bank, number, currency, opening string
	}

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			typ, ok := model.ParseAccountType(a.typ)
			if !ok {
				return fmt.Errorf("unknown account type %q (want one of %v)", a.typ, model.AccountTypes)
			}
			opening, err := decimal.NewFromString(a.opening)
			if err != nil {
				return fmt.Errorf("opening balance: %w", err)
			}

			ws, ctx, err := openWorkspace(cmd, opts)
			if err != nil {
				return err
			}
			defer ws.Close()

			acct, err := ws.store.CreateAccount(ctx, model.Account{
				Name:           args[0],
				Type:           typ,
				Bank:           a.bank,
				Number:         a.number,
				Currency:       a.currency,
				OpeningBalance: opening,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added account %s (%s)\n", acct.Name, acct.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&a.typ, "type", string(model.AccountTypeSavings), "account type")
	cmd.Flags().StringVar(&a.bank, "bank", "", "issuing bank")
	cmd.Flags().StringVar(&a.number, "number", "", "account number")
	cmd.Flags().StringVar(&a.currency, "currency", "INR", "currency code")
	cmd.Flags().StringVar(&a.opening, "opening-balance", "0", "opening balance")

	return cmd
}

func newAccountsListCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List accounts and balances",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, ctx, err := openWorkspace(cmd, opts)
			if err != nil {
				return err
			}
			defer ws.Close()

			accts, err := ws.store.Accounts(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(accts) == 0 {
				fmt.Fprintln(out, "No accounts.")
				return nil
			}
			fmt.Fprintf(out, "%-24s %-9s %-8s %14s\n", "NAME", "TYPE", "BANK", "BALANCE")
			for _, a := range accts {
				fmt.Fprintf(out, "%-24s %-9s %-8s %14s\n", a.Name, a.Type, a.Bank, a.Balance.StringFixed(2)+" "+a.Currency)
			}
			return nil
		},
	}
}
