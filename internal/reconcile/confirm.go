package reconcile

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/ledgerdesk-dev/ledgerdesk/internal/model"
	"github.com/ledgerdesk-dev/ledgerdesk/internal/store"
)

// ErrNoTransaction is returned when a candidate without a proposed
// transaction is confirmed.
var ErrNoTransaction = errors.New("candidate has no proposed transaction")

// ErrAlreadyConfirmed is returned when a candidate's transaction already
// carries a bank reference. Confirm is valid once per candidate.
var ErrAlreadyConfirmed = errors.New("transaction already reconciled")

// Service commits or rejects proposed matches.
type Service struct {
	store store.Store
	log   zerolog.Logger
}

// NewService creates a reconciliation confirmation Service.
func NewService(st store.Store, log zerolog.Logger) *Service {
	return &Service{store: st, log: log}
}

// Confirm commits a proposed match: the transaction is settled with the
// statement line's date as its payment date and the statement reference
// stored as its bank reference.
//
// Confirm does not move the account balance. Settlement is the step that
// applies balance deltas (creation with isPaid, or the bulk transition
// service); reconciliation only records that the bank saw the movement, so
// applying the delta again here would double-count it.
func (s *Service) Confirm(c model.MatchCandidate) (model.Transaction, error) {
	if c.Transaction == nil {
		return model.Transaction{}, ErrNoTransaction
	}

	// Re-fetch: the candidate may be stale by the time a human confirms it.
	txn, err := s.store.Transaction(c.Transaction.ID)
	if err != nil {
		return model.Transaction{}, err
	}
	if txn.BankReference != "" {
		return model.Transaction{}, fmt.Errorf("transaction %s: %w", txn.ID, ErrAlreadyConfirmed)
	}

	updated, err := txn.Reconcile(c.Line.Reference, c.Line.Date)
	if err != nil {
		return model.Transaction{}, err
	}

	if err := s.store.UpdateTransaction(updated); err != nil {
		return model.Transaction{}, fmt.Errorf("persisting reconciled transaction: %w", err)
	}

	s.log.Info().
		Str("transaction", updated.ID).
		Str("bank_reference", updated.BankReference).
		Float64("confidence", c.Confidence).
		Msg("match confirmed")

	return updated, nil
}

// Reject clears the candidate's transaction link and forces it back to
// unmatched. The statement line stays available for a manual pairing.
func (s *Service) Reject(c model.MatchCandidate) model.MatchCandidate {
	if c.Transaction != nil {
		s.log.Info().
			Str("transaction", c.Transaction.ID).
			Float64("confidence", c.Confidence).
			Msg("match rejected")
	}
	c.Transaction = nil
	c.Confidence = 0
	c.Status = model.MatchUnmatched
	return c
}
