package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ledgerdesk-dev/ledgerdesk/internal/auditlog"
	"github.com/ledgerdesk-dev/ledgerdesk/internal/model"
	"github.com/ledgerdesk-dev/ledgerdesk/internal/statement"
	"github.com/ledgerdesk-dev/ledgerdesk/internal/store"
)

func newReconcileCommand() *cobra.Command {
	var (
		dataDir     string
		accountID   string
		format      string
		autoConfirm bool
	)

	cmd := &cobra.Command{
		Use:   "reconcile <statement.csv>",
		Short: "Match a bank statement against open transactions",
		Long: `Parses a bank statement and scores each line against the open (pending or
overdue) transactions of an account. Lines at or above the confidence
threshold are proposed as matches; --confirm commits them, settling the
matched transactions with the statement reference.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			absDir, err := filepath.Abs(dataDir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}
			return runReconcile(absDir, args[0], accountID, format, autoConfirm)
		},
	}

	cmd.Flags().StringVar(&dataDir, "data-dir", ".", "ledger data directory")
	cmd.Flags().StringVar(&accountID, "account", "", "account to reconcile (required)")
	cmd.Flags().StringVar(&format, "format", "generic", "statement format")
	cmd.Flags().BoolVar(&autoConfirm, "confirm", false, "confirm every proposed match")
	_ = cmd.MarkFlagRequired("account")

	return cmd
}

func runReconcile(dataDir, statementPath, accountID, format string, autoConfirm bool) error {
	rt, err := NewRuntime(dataDir)
	if err != nil {
		return err
	}

	parser := statement.DefaultRegistry(rt.Log).Get(format)
	if parser == nil {
		return fmt.Errorf("unknown statement format %q", format)
	}

	f, err := os.Open(statementPath)
	if err != nil {
		return fmt.Errorf("opening statement: %w", err)
	}
	defer f.Close()

	lines, err := parser.Parse(f)
	if err != nil {
		return err
	}

	open, err := rt.Store.Transactions(store.TransactionFilter{
		AccountID: accountID,
		Statuses:  store.OpenStatuses,
	})
	if err != nil {
		return err
	}

	candidates := rt.Matcher.Match(lines, open)

	confirmed := 0
	for _, c := range candidates {
		switch c.Status {
		case model.MatchMatched:
			fmt.Printf("matched    %.2f  %s  %s -> %s\n",
				c.Confidence, c.Line.Date.Format(flagDateFormat), c.Line.Description, c.Transaction.ID)
			if autoConfirm {
				txn, err := rt.Confirm.Confirm(c)
				if err != nil {
					return err
				}
				if err := rt.Audit(auditlog.ActionConfirm, txn.ID, txn.BankReference, c.Line.Description); err != nil {
					return fmt.Errorf("writing audit log: %w", err)
				}
				confirmed++
			}
		case model.MatchConflict:
			fmt.Printf("conflict   %.2f  %s  %s -> %s (also claimed by another line)\n",
				c.Confidence, c.Line.Date.Format(flagDateFormat), c.Line.Description, c.Transaction.ID)
		default:
			fmt.Printf("unmatched        %s  %s\n", c.Line.Date.Format(flagDateFormat), c.Line.Description)
		}
	}

	if confirmed > 0 {
		if err := rt.Save(fmt.Sprintf("reconcile %d match(es)", confirmed)); err != nil {
			return err
		}
	}

	fmt.Printf("%d line(s), %d confirmed\n", len(candidates), confirmed)
	return nil
}
