package id

import "github.com/google/uuid"

// NewTransactionID returns an opaque ledger record id like
// "txn_1b9d6bcd-bbfd-4b2d-9b5d-ab8dfbbd4bed".
func NewTransactionID() string {
	return "txn_" + uuid.NewString()
}

// NewAccountID returns an opaque account id.
func NewAccountID() string {
	return "acc_" + uuid.NewString()
}

// IsTransactionID reports whether s looks like an id minted by
// NewTransactionID.
func IsTransactionID(s string) bool {
	if len(s) < 5 || s[:4] != "txn_" {
		return false
	}
	_, err := uuid.Parse(s[4:])
	return err == nil
}
