package commands

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/ledgerdesk-dev/ledgerdesk/internal/auditlog"
	"github.com/ledgerdesk-dev/ledgerdesk/internal/ledger"
	"github.com/ledgerdesk-dev/ledgerdesk/internal/model"
)

const flagDateFormat = "2006-01-02"

func newAddCommand() *cobra.Command {
	var (
		dataDir      string
		amountStr    string
		txnType      string
		category     string
		accountID    string
		dateStr      string
		dueStr       string
		clientID     string
		supplierID   string
		costCenter   string
		refCode      string
		method       string
		notes        string
		installments int
		recurFreq    string
		recurCount   int
		isPaid       bool
	)

	cmd := &cobra.Command{
		Use:   "add <description>",
		Short: "Create a transaction, installment split, or recurring series",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			absDir, err := filepath.Abs(dataDir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			amount, err := decimal.NewFromString(amountStr)
			if err != nil {
				return fmt.Errorf("parsing --amount %q: %w", amountStr, err)
			}

			date := time.Now().Truncate(24 * time.Hour)
			if dateStr != "" {
				date, err = time.Parse(flagDateFormat, dateStr)
				if err != nil {
					return fmt.Errorf("parsing --date %q: %w", dateStr, err)
				}
			}

			var due *time.Time
			if dueStr != "" {
				d, err := time.Parse(flagDateFormat, dueStr)
				if err != nil {
					return fmt.Errorf("parsing --due %q: %w", dueStr, err)
				}
				due = &d
			}

			var recurrence *ledger.RecurrenceSpec
			if recurFreq != "" {
				recurrence = &ledger.RecurrenceSpec{
					Frequency: ledger.RecurrenceFrequency(recurFreq),
					Count:     recurCount,
				}
			}

			params := ledger.CreateParams{
				Description:     args[0],
				Amount:          amount,
				Type:            model.TransactionType(txnType),
				Category:        category,
				AccountID:       accountID,
				TransactionDate: date,
				DueDate:         due,
				ClientID:        clientID,
				SupplierID:      supplierID,
				CostCenter:      costCenter,
				ReferenceCode:   refCode,
				PaymentMethod:   method,
				Notes:           notes,
				Installments:    installments,
				Recurrence:      recurrence,
				IsPaid:          isPaid,
			}

			return runAdd(absDir, params)
		},
	}

	cmd.Flags().StringVar(&dataDir, "data-dir", ".", "ledger data directory")
	cmd.Flags().StringVar(&amountStr, "amount", "", "amount (required)")
	cmd.Flags().StringVar(&txnType, "type", "expense", "revenue or expense")
	cmd.Flags().StringVar(&category, "category", "", "category (required)")
	cmd.Flags().StringVar(&accountID, "account", "", "account id (required)")
	cmd.Flags().StringVar(&dateStr, "date", "", "transaction date (YYYY-MM-DD, default today)")
	cmd.Flags().StringVar(&dueStr, "due", "", "due date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&clientID, "client", "", "client id")
	cmd.Flags().StringVar(&supplierID, "supplier", "", "supplier id")
	cmd.Flags().StringVar(&costCenter, "cost-center", "", "cost center")
	cmd.Flags().StringVar(&refCode, "reference", "", "reference code")
	cmd.Flags().StringVar(&method, "method", "", "payment method (required with --paid)")
	cmd.Flags().StringVar(&notes, "notes", "", "free-form notes")
	cmd.Flags().IntVar(&installments, "installments", 1, "split into N installments (1-12)")
	cmd.Flags().StringVar(&recurFreq, "recur", "", "recurrence frequency (monthly|quarterly|semiannual|annual)")
	cmd.Flags().IntVar(&recurCount, "recur-count", 0, "number of recurring siblings")
	cmd.Flags().BoolVar(&isPaid, "paid", false, "create already settled, applying the balance delta")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("category")
	_ = cmd.MarkFlagRequired("account")

	return cmd
}

func runAdd(dataDir string, params ledger.CreateParams) error {
	rt, err := NewRuntime(dataDir)
	if err != nil {
		return err
	}

	result, err := rt.Ledger.Create(params)
	if err != nil {
		return err
	}

	if err := rt.Save(fmt.Sprintf("add %d record(s)", len(result.Transactions))); err != nil {
		return err
	}

	for _, t := range result.Transactions {
		if err := rt.Audit(auditlog.ActionCreate, t.ID, t.ReferenceCode, t.Description); err != nil {
			return fmt.Errorf("writing audit log: %w", err)
		}
		fmt.Printf("%s  %s  %s  %s\n", t.ID, t.TransactionDate.Format(flagDateFormat), t.FormattedAmount(), t.Description)
	}
	fmt.Printf("Account %s balance: %s %s\n", result.Account.ID, result.Account.FormattedBalance(), rt.Config.Business.Currency)
	return nil
}
