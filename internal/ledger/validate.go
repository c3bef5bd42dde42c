package ledger

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ledgerdesk-dev/ledgerdesk/internal/model"
)

// FieldError describes a single field-level violation.
type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors aggregates every violation found in one request. The
// validators collect all problems before returning rather than stopping at
// the first, so a caller can report the full list in one round trip.
type ValidationErrors []FieldError

func (e ValidationErrors) Error() string {
	msgs := make([]string, len(e))
	for i, fe := range e {
		msgs[i] = fe.Error()
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

const (
	maxDescriptionLen = 255

	// MaxInstallments is the default cap on how many sub-records one amount
	// may be split into.
	MaxInstallments = 12

	// MaxBatchSize is the default cap on the ids accepted by one bulk
	// transition call.
	MaxBatchSize = 100
)

// Limits caps the request sizes a Service accepts. The ledgerdesk.yaml
// limits section feeds these.
type Limits struct {
	MaxBatchSize    int
	MaxInstallments int
}

// DefaultLimits returns the caps a fresh config starts with.
func DefaultLimits() Limits {
	return Limits{MaxBatchSize: MaxBatchSize, MaxInstallments: MaxInstallments}
}

// maxAmount is the largest accepted transaction amount.
var maxAmount = decimal.RequireFromString("999999999.99")

func validateCreate(p CreateParams, categories *CategoryRegistry, limits Limits) ValidationErrors {
	var errs ValidationErrors

	desc := strings.TrimSpace(p.Description)
	if desc == "" {
		errs = append(errs, FieldError{Field: "description", Message: "must not be empty"})
	} else if len(desc) > maxDescriptionLen {
		errs = append(errs, FieldError{Field: "description", Message: fmt.Sprintf("must be at most %d characters", maxDescriptionLen)})
	}

	if !p.Amount.IsPositive() {
		errs = append(errs, FieldError{Field: "amount", Message: "must be greater than zero"})
	} else if p.Amount.GreaterThan(maxAmount) {
		errs = append(errs, FieldError{Field: "amount", Message: "exceeds maximum of " + maxAmount.StringFixed(2)})
	}

	if p.Type != model.TypeRevenue && p.Type != model.TypeExpense {
		errs = append(errs, FieldError{Field: "type", Message: fmt.Sprintf("must be %s or %s", model.TypeRevenue, model.TypeExpense)})
	}

	if strings.TrimSpace(p.Category) == "" {
		errs = append(errs, FieldError{Field: "category", Message: "must not be empty"})
	} else if (p.Type == model.TypeRevenue || p.Type == model.TypeExpense) &&
		!categories.ValidFor(p.Category, p.Type) {
		errs = append(errs, FieldError{Field: "category", Message: fmt.Sprintf("%q is not a %s category", p.Category, p.Type)})
	}

	if strings.TrimSpace(p.AccountID) == "" {
		errs = append(errs, FieldError{Field: "accountId", Message: "must not be empty"})
	}

	if p.TransactionDate.IsZero() {
		errs = append(errs, FieldError{Field: "transactionDate", Message: "must be set"})
	}

	if p.DueDate != nil && !p.TransactionDate.IsZero() && p.DueDate.Before(p.TransactionDate) {
		errs = append(errs, FieldError{Field: "dueDate", Message: "must not precede transaction date"})
	}

	if p.Installments < 0 || p.Installments > limits.MaxInstallments {
		errs = append(errs, FieldError{Field: "installments", Message: fmt.Sprintf("must be between 1 and %d", limits.MaxInstallments)})
	}

	if p.Recurrence != nil {
		if p.Recurrence.Frequency.months() == 0 {
			errs = append(errs, FieldError{Field: "recurrence.frequency", Message: fmt.Sprintf("unknown frequency %q", p.Recurrence.Frequency)})
		}
		if p.Recurrence.Count < 1 {
			errs = append(errs, FieldError{Field: "recurrence.count", Message: "must be at least 1"})
		}
	}

	if p.IsPaid && strings.TrimSpace(p.PaymentMethod) == "" {
		errs = append(errs, FieldError{Field: "paymentMethod", Message: "required when creating a paid transaction"})
	}

	return errs
}
