package store

import (
	"errors"
	"time"

	"github.com/ledgerdesk-dev/ledgerdesk/internal/model"
)

// ErrNotFound is the "no such record" signal returned by lookups.
var ErrNotFound = errors.New("record not found")

// TransactionFilter narrows a transaction listing. Zero-valued fields are
// ignored.
type TransactionFilter struct {
	AccountID string
	Type      model.TransactionType
	Statuses  []model.TransactionStatus
	From      time.Time
	To        time.Time
}

// Matches reports whether a transaction passes the filter.
func (f TransactionFilter) Matches(t model.Transaction) bool {
	if f.AccountID != "" && t.AccountID != f.AccountID {
		return false
	}
	if f.Type != "" && t.Type != f.Type {
		return false
	}
	if len(f.Statuses) > 0 {
		ok := false
		for _, s := range f.Statuses {
			if t.Status == s {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	if !f.From.IsZero() && t.TransactionDate.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && t.TransactionDate.After(f.To) {
		return false
	}
	return true
}

// OpenStatuses are the non-final states a statement line can match against.
var OpenStatuses = []model.TransactionStatus{model.StatusPending, model.StatusOverdue}

// Store is the persistence collaborator for the ledger core. Lookups return
// ErrNotFound when a record is absent; no multi-statement transactional
// guarantee is assumed beyond UpdateTransactionWithAccount, which applies a
// transaction update and its paired account balance change as one unit.
type Store interface {
	Transaction(id string) (model.Transaction, error)
	Transactions(f TransactionFilter) ([]model.Transaction, error)
	CreateTransactions(txns []model.Transaction) error
	UpdateTransaction(txn model.Transaction) error
	DeleteTransaction(id string) error

	Account(id string) (model.Account, error)
	ActiveAccounts() ([]model.Account, error)
	CreateAccount(a model.Account) error
	UpdateAccount(a model.Account) error

	UpdateTransactionWithAccount(txn model.Transaction, acct model.Account) error
}
