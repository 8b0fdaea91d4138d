package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/stmtflow/internal/bank"
	"github.com/cleared-dev/stmtflow/internal/statement"
)

func newDetectCommand() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "detect",
		Short: "Detect the issuing bank and statement date of a statement text file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDetect(cmd, file)
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "statement text file (required)")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func runDetect(cmd *cobra.Command, file string) error {
	data, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("reading statement: %w", err)
	}
	text := string(data)
	reg := bank.DefaultRegistry()
	d := reg.DetectScores(text)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Bank: %s (%s)\n", d.Profile.Display, d.Profile.Name)
	fmt.Fprintf(out, "Score: %d\n", d.Score)
	for _, p := range reg.Profiles() {
		fmt.Fprintf(out, "  %-8s %d\n", p.Name, d.Scores[p.Name])
	}
	if date, ok := statement.ResolveDate(text); ok {
		fmt.Fprintf(out, "Statement date: %s\n", date.Format(time.DateOnly))
	} else {
		fmt.Fprintln(out, "Statement date: not found")
	}
	return nil
}
