package ledger

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/ledgerdesk-dev/ledgerdesk/internal/id"
	"github.com/ledgerdesk-dev/ledgerdesk/internal/model"
	"github.com/ledgerdesk-dev/ledgerdesk/internal/store"
)

// RecurrenceFrequency is the calendar cadence of a recurring series.
type RecurrenceFrequency string

const (
	FreqMonthly    RecurrenceFrequency = "monthly"
	FreqQuarterly  RecurrenceFrequency = "quarterly"
	FreqSemiannual RecurrenceFrequency = "semiannual"
	FreqAnnual     RecurrenceFrequency = "annual"
)

func (f RecurrenceFrequency) months() int {
	switch f {
	case FreqMonthly:
		return 1
	case FreqQuarterly:
		return 3
	case FreqSemiannual:
		return 6
	case FreqAnnual:
		return 12
	default:
		return 0
	}
}

// RecurrenceSpec generates Count sibling transactions stepped by Frequency.
type RecurrenceSpec struct {
	Frequency RecurrenceFrequency
	Count     int
}

// CreateParams is a single transaction request, possibly expanding into
// installments or a recurring series.
type CreateParams struct {
	Description     string
	Amount          decimal.Decimal
	Type            model.TransactionType
	Category        string
	AccountID       string
	TransactionDate time.Time
	DueDate         *time.Time
	ClientID        string
	SupplierID      string
	CostCenter      string
	ReferenceCode   string
	PaymentMethod   string
	Notes           string
	Installments    int // 0 or 1 = no split
	Recurrence      *RecurrenceSpec
	IsPaid          bool
}

// CreateResult is what a successful creation returns: every persisted
// record plus the account as it stands afterwards.
type CreateResult struct {
	Transactions []model.Transaction
	Account      model.Account
}

// Service creates ledger records and applies bulk status transitions.
type Service struct {
	store      store.Store
	categories *CategoryRegistry
	limits     Limits
	log        zerolog.Logger
}

// NewService creates a ledger Service. Zero-valued limits fall back to the
// package defaults.
func NewService(st store.Store, categories *CategoryRegistry, limits Limits, log zerolog.Logger) *Service {
	if limits.MaxBatchSize <= 0 {
		limits.MaxBatchSize = MaxBatchSize
	}
	if limits.MaxInstallments <= 0 {
		limits.MaxInstallments = MaxInstallments
	}
	return &Service{store: st, categories: categories, limits: limits, log: log}
}

// Create validates the request, expands it into one or more ledger records,
// persists them, and applies the balance delta when the request is already
// paid. Unpaid creations never touch the account balance.
func (s *Service) Create(p CreateParams) (CreateResult, error) {
	if verrs := validateCreate(p, s.categories, s.limits); len(verrs) > 0 {
		return CreateResult{}, verrs
	}

	acct, err := s.store.Account(p.AccountID)
	if err != nil {
		return CreateResult{}, err
	}
	if !acct.IsActive {
		return CreateResult{}, ValidationErrors{{Field: "accountId", Message: fmt.Sprintf("account %s is inactive", p.AccountID)}}
	}

	txns := expand(p)

	// The funds check covers the full delta of everything about to be
	// persisted, so a paid recurring series cannot overdraw on later
	// siblings.
	delta := decimal.Zero
	for _, t := range txns {
		delta = delta.Add(t.Amount)
	}
	if p.IsPaid && p.Type == model.TypeExpense && delta.GreaterThan(acct.Balance) {
		return CreateResult{}, &model.InsufficientFundsError{
			AccountID: acct.ID,
			Balance:   acct.Balance,
			Requested: delta,
		}
	}

	if err := s.store.CreateTransactions(txns); err != nil {
		return CreateResult{}, fmt.Errorf("persisting transactions: %w", err)
	}

	if p.IsPaid {
		if p.Type == model.TypeRevenue {
			acct = acct.Credit(delta)
		} else {
			acct, err = acct.Debit(delta)
			if err != nil {
				return CreateResult{}, err
			}
		}
		if err := s.store.UpdateAccount(acct); err != nil {
			return CreateResult{}, fmt.Errorf("updating account balance: %w", err)
		}
	}

	s.log.Info().
		Str("account", acct.ID).
		Int("records", len(txns)).
		Str("amount", p.Amount.StringFixed(2)).
		Bool("paid", p.IsPaid).
		Msg("transactions created")

	return CreateResult{Transactions: txns, Account: acct}, nil
}

// expand turns one validated request into its ledger records: a recurring
// series, an installment split, or a single record.
func expand(p CreateParams) []model.Transaction {
	switch {
	case p.Recurrence != nil:
		return expandRecurrence(p)
	case p.Installments > 1:
		return splitInstallments(p)
	default:
		return []model.Transaction{newTransaction(p, p.Description, p.Amount, p.TransactionDate, p.DueDate)}
	}
}

// expandRecurrence generates Count siblings stepped forward by the
// frequency unit, each carrying the full amount and an ordinal suffix.
func expandRecurrence(p CreateParams) []model.Transaction {
	step := p.Recurrence.Frequency.months()
	out := make([]model.Transaction, 0, p.Recurrence.Count)
	for i := 0; i < p.Recurrence.Count; i++ {
		date := p.TransactionDate.AddDate(0, step*i, 0)
		var due *time.Time
		if p.DueDate != nil {
			d := p.DueDate.AddDate(0, step*i, 0)
			due = &d
		}
		desc := fmt.Sprintf("%s (%d/%d)", p.Description, i+1, p.Recurrence.Count)
		out = append(out, newTransaction(p, desc, p.Amount, date, due))
	}
	return out
}

// splitInstallments divides the amount evenly across the installments,
// assigning any remainder cents to the first so the split sums exactly to
// the original amount. Each installment is an independently payable record
// due one month after the previous.
func splitInstallments(p CreateParams) []model.Transaction {
	n := p.Installments
	count := decimal.NewFromInt(int64(n))
	base := p.Amount.Div(count).RoundDown(2)
	first := p.Amount.Sub(base.Mul(count.Sub(decimal.NewFromInt(1))))

	baseDue := p.TransactionDate
	if p.DueDate != nil {
		baseDue = *p.DueDate
	}

	out := make([]model.Transaction, 0, n)
	for i := 0; i < n; i++ {
		amount := base
		if i == 0 {
			amount = first
		}
		due := baseDue.AddDate(0, i, 0)
		desc := fmt.Sprintf("%s (%d/%d)", p.Description, i+1, n)
		out = append(out, newTransaction(p, desc, amount, p.TransactionDate, &due))
	}
	return out
}

func newTransaction(p CreateParams, desc string, amount decimal.Decimal, date time.Time, due *time.Time) model.Transaction {
	status := model.StatusPending
	var paymentDate *time.Time
	if p.IsPaid {
		paid := date
		paymentDate = &paid
	}

	t := model.Transaction{
		ID:               id.NewTransactionID(),
		Description:      desc,
		Amount:           amount,
		Type:             p.Type,
		Category:         p.Category,
		Status:           status,
		AccountID:        p.AccountID,
		TransactionDate:  date,
		DueDate:          due,
		PaymentDate:      paymentDate,
		ClientID:         p.ClientID,
		SupplierID:       p.SupplierID,
		CostCenter:       p.CostCenter,
		ReferenceCode:    p.ReferenceCode,
		PaymentMethod:    p.PaymentMethod,
		InstallmentCount: 1,
		Notes:            p.Notes,
	}
	if p.IsPaid {
		t.Status = t.SettledStatus()
	}
	return t
}
