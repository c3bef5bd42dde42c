package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ledgerdesk-dev/ledgerdesk/internal/buildinfo"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "ledgerdesk",
		Short:   "Back-office ledger with bank statement reconciliation",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newAddCommand())
	rootCmd.AddCommand(newSettleCommand())
	rootCmd.AddCommand(newReconcileCommand())

	return rootCmd
}
