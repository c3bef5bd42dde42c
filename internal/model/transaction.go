package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType distinguishes money coming in from money going out.
type TransactionType string

const (
	TypeRevenue TransactionType = "revenue"
	TypeExpense TransactionType = "expense"
)

// TransactionStatus represents the lifecycle state of a ledger record.
type TransactionStatus string

const (
	StatusPending   TransactionStatus = "pending"
	StatusReceived  TransactionStatus = "received"
	StatusPaid      TransactionStatus = "paid"
	StatusOverdue   TransactionStatus = "overdue"
	StatusCancelled TransactionStatus = "cancelled"
)

// Transaction is one revenue or expense entry tied to an account.
//
// Transitions never mutate in place: every method returns a fresh copy so a
// reference held by one caller cannot be changed out from under another.
type Transaction struct {
	ID               string
	Description      string
	Amount           decimal.Decimal // always > 0; Type carries the direction
	Type             TransactionType
	Category         string
	Status           TransactionStatus
	AccountID        string
	TransactionDate  time.Time
	DueDate          *time.Time
	PaymentDate      *time.Time
	ClientID         string
	SupplierID       string
	CostCenter       string
	ReferenceCode    string
	PaymentMethod    string
	InstallmentCount int
	Notes            string
	Attachments      []string
	BankReference    string // set only by reconciliation
}

// SettledStatus returns the terminal settled state for the transaction's
// type: received for revenue, paid for expense.
func (t Transaction) SettledStatus() TransactionStatus {
	if t.Type == TypeRevenue {
		return StatusReceived
	}
	return StatusPaid
}

// IsSettled reports whether the transaction has been received or paid.
func (t Transaction) IsSettled() bool {
	return t.Status == StatusReceived || t.Status == StatusPaid
}

// IsOverdue reports whether an unsettled transaction's due date has passed.
func (t Transaction) IsOverdue(now time.Time) bool {
	if t.DueDate == nil || t.IsSettled() || t.Status == StatusCancelled {
		return false
	}
	return t.DueDate.Before(now.Truncate(24 * time.Hour))
}

// FormattedAmount renders the amount with two decimal places.
func (t Transaction) FormattedAmount() string {
	return t.Amount.StringFixed(2)
}

// MarkAsPaid settles the transaction, setting status to received (revenue)
// or paid (expense) and recording the payment date.
func (t Transaction) MarkAsPaid(paidAt time.Time) (Transaction, error) {
	if t.Status == StatusCancelled {
		return Transaction{}, &InvalidStateError{Op: "mark as paid", Status: t.Status}
	}
	out := t.clone()
	out.Status = t.SettledStatus()
	out.PaymentDate = &paidAt
	return out, nil
}

// MarkAsOverdue flags a transaction whose due date has expired.
func (t Transaction) MarkAsOverdue() (Transaction, error) {
	if t.Status == StatusCancelled {
		return Transaction{}, &InvalidStateError{Op: "mark as overdue", Status: t.Status}
	}
	out := t.clone()
	out.Status = StatusOverdue
	return out, nil
}

// MarkAsPending reverts a settled transaction back to pending, clearing the
// payment date. This is the single allowed backward transition.
func (t Transaction) MarkAsPending() (Transaction, error) {
	if t.Status == StatusCancelled {
		return Transaction{}, &InvalidStateError{Op: "mark as pending", Status: t.Status}
	}
	out := t.clone()
	out.Status = StatusPending
	out.PaymentDate = nil
	return out, nil
}

// Cancel voids the transaction. A cancelled record accepts no further
// transitions.
func (t Transaction) Cancel() (Transaction, error) {
	if t.Status == StatusCancelled {
		return Transaction{}, &InvalidStateError{Op: "cancel", Status: t.Status}
	}
	out := t.clone()
	out.Status = StatusCancelled
	return out, nil
}

// UpdateNotes replaces the free-form notes.
func (t Transaction) UpdateNotes(notes string) (Transaction, error) {
	if t.Status == StatusCancelled {
		return Transaction{}, &InvalidStateError{Op: "update notes", Status: t.Status}
	}
	out := t.clone()
	out.Notes = notes
	return out, nil
}

// AddAttachment appends an opaque attachment reference.
func (t Transaction) AddAttachment(ref string) (Transaction, error) {
	if t.Status == StatusCancelled {
		return Transaction{}, &InvalidStateError{Op: "add attachment", Status: t.Status}
	}
	out := t.clone()
	out.Attachments = append(out.Attachments, ref)
	return out, nil
}

// Reconcile settles the transaction against a bank statement line, recording
// the statement date as the payment date and the statement reference.
func (t Transaction) Reconcile(bankRef string, statementDate time.Time) (Transaction, error) {
	out, err := t.MarkAsPaid(statementDate)
	if err != nil {
		return Transaction{}, err
	}
	out.BankReference = bankRef
	return out, nil
}

// clone copies the transaction, including its attachment slice, so that
// transitions on the copy cannot alias the original.
func (t Transaction) clone() Transaction {
	out := t
	if t.Attachments != nil {
		out.Attachments = make([]string, len(t.Attachments))
		copy(out.Attachments, t.Attachments)
	}
	return out
}
