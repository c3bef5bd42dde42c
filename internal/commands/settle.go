package commands

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ledgerdesk-dev/ledgerdesk/internal/auditlog"
	"github.com/ledgerdesk-dev/ledgerdesk/internal/ledger"
	"github.com/ledgerdesk-dev/ledgerdesk/internal/model"
)

func newSettleCommand() *cobra.Command {
	var (
		dataDir    string
		status     string
		category   string
		costCenter string
		notes      string
		dateStr    string
	)

	cmd := &cobra.Command{
		Use:   "settle <transaction-id>...",
		Short: "Apply a status or field change to a batch of transactions",
		Long: `Applies one update to up to 100 transactions. Settling (--status paid or
received) moves each account balance and is processed per record: failures
are reported per id, the rest of the batch still goes through.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			absDir, err := filepath.Abs(dataDir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			params := ledger.BulkUpdateParams{IDs: args}

			if status != "" {
				st := model.TransactionStatus(status)
				params.Status = &st
			}
			if cmd.Flags().Changed("category") {
				params.Category = &category
			}
			if cmd.Flags().Changed("cost-center") {
				params.CostCenter = &costCenter
			}
			if cmd.Flags().Changed("notes") {
				params.Notes = &notes
			}
			if dateStr != "" {
				d, err := time.Parse(flagDateFormat, dateStr)
				if err != nil {
					return fmt.Errorf("parsing --date %q: %w", dateStr, err)
				}
				params.PaymentDate = &d
			}

			return runSettle(absDir, params)
		},
	}

	cmd.Flags().StringVar(&dataDir, "data-dir", ".", "ledger data directory")
	cmd.Flags().StringVar(&status, "status", "paid", "target status (paid|received|pending|overdue|cancelled)")
	cmd.Flags().StringVar(&category, "category", "", "new category")
	cmd.Flags().StringVar(&costCenter, "cost-center", "", "new cost center")
	cmd.Flags().StringVar(&notes, "notes", "", "new notes")
	cmd.Flags().StringVar(&dateStr, "date", "", "payment date (YYYY-MM-DD, default today)")

	return cmd
}

func runSettle(dataDir string, params ledger.BulkUpdateParams) error {
	rt, err := NewRuntime(dataDir)
	if err != nil {
		return err
	}

	result, err := rt.Ledger.BulkUpdate(params)
	if err != nil {
		return err
	}

	if err := rt.Save(fmt.Sprintf("settle %d record(s)", result.UpdatedCount)); err != nil {
		return err
	}

	action := auditlog.ActionSettle
	if params.Status != nil && *params.Status == model.StatusPending {
		action = auditlog.ActionRevert
	}
	for _, txnID := range params.IDs {
		if contains(result.FailedIDs, txnID) {
			continue
		}
		if err := rt.Audit(action, txnID, "", ""); err != nil {
			return fmt.Errorf("writing audit log: %w", err)
		}
	}

	fmt.Printf("Updated %d of %d\n", result.UpdatedCount, len(params.IDs))
	if !result.Success {
		fmt.Printf("Failed: %s\n", strings.Join(result.FailedIDs, ", "))
		for _, msg := range result.Errors {
			fmt.Printf("  %s\n", msg)
		}
	}
	return nil
}

func contains(ids []string, id string) bool {
	for _, existing := range ids {
		if existing == id {
			return true
		}
	}
	return false
}
