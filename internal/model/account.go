package model

import "github.com/shopspring/decimal"

// AccountType classifies balance-holding accounts.
type AccountType string

const (
	AccountTypeChecking   AccountType = "checking"
	AccountTypeSavings    AccountType = "savings"
	AccountTypeCash       AccountType = "cash"
	AccountTypeInvestment AccountType = "investment"
	AccountTypeCreditCard AccountType = "credit_card"
)

// Account holds a running balance debited and credited by settled
// transactions. Like Transaction, it is a value type: Credit and Debit
// return a new Account.
type Account struct {
	ID       string
	Name     string
	Type     AccountType
	Balance  decimal.Decimal
	IsActive bool
}

// Credit adds amount to the balance. It always succeeds.
func (a Account) Credit(amount decimal.Decimal) Account {
	out := a
	out.Balance = a.Balance.Add(amount)
	return out
}

// Debit subtracts amount from the balance, rejecting any debit that would
// drive the balance below zero.
func (a Account) Debit(amount decimal.Decimal) (Account, error) {
	if amount.GreaterThan(a.Balance) {
		return Account{}, &InsufficientFundsError{
			AccountID: a.ID,
			Balance:   a.Balance,
			Requested: amount,
		}
	}
	out := a
	out.Balance = a.Balance.Sub(amount)
	return out, nil
}

// MustDebit subtracts amount without the funds check, allowing the balance
// to go negative. The core services never call this; it exists for callers
// that explicitly opt into overdraft.
func (a Account) MustDebit(amount decimal.Decimal) Account {
	out := a
	out.Balance = a.Balance.Sub(amount)
	return out
}

// FormattedBalance renders the balance with two decimal places.
func (a Account) FormattedBalance() string {
	return a.Balance.StringFixed(2)
}
