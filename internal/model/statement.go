package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// StatementDirection is the sign of a statement line: money into the
// account (credit) or out of it (debit).
type StatementDirection string

const (
	DirectionCredit StatementDirection = "credit"
	DirectionDebit  StatementDirection = "debit"
)

// StatementLine is one record from an externally supplied bank statement.
type StatementLine struct {
	Date           time.Time
	Description    string
	Amount         decimal.Decimal // signed as exported by the bank
	Direction      StatementDirection
	RunningBalance decimal.Decimal
	Reference      string
}

// AbsAmount returns the unsigned amount, comparable to Transaction.Amount.
func (l StatementLine) AbsAmount() decimal.Decimal {
	return l.Amount.Abs()
}

// MatchStatus classifies a proposed statement/ledger pairing.
type MatchStatus string

const (
	MatchMatched   MatchStatus = "matched"
	MatchUnmatched MatchStatus = "unmatched"
	MatchConflict  MatchStatus = "conflict"
)

// MatchCandidate pairs one statement line with at most one open ledger
// transaction, scored in [0,1]. Candidates are ephemeral: they exist only
// between a matching run and the human accept/reject decision.
type MatchCandidate struct {
	Line        StatementLine
	Transaction *Transaction
	Confidence  float64
	Status      MatchStatus
}
