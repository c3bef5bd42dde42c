package model

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// InvalidStateError reports an illegal status transition, such as settling
// a cancelled transaction.
type InvalidStateError struct {
	Op     string
	Status TransactionStatus
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("cannot %s a %s transaction", e.Op, e.Status)
}

// InsufficientFundsError reports a debit that would overdraw an account.
type InsufficientFundsError struct {
	AccountID string
	Balance   decimal.Decimal
	Requested decimal.Decimal
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds in account %s: balance %s, requested %s",
		e.AccountID, e.Balance.StringFixed(2), e.Requested.StringFixed(2))
}
