package ledger

import (
	"fmt"
	"time"

	"github.com/ledgerdesk-dev/ledgerdesk/internal/model"
)

// BulkUpdateParams applies one change to a batch of transactions. Nil
// pointer fields are left untouched.
type BulkUpdateParams struct {
	IDs         []string
	Status      *model.TransactionStatus
	Category    *string
	CostCenter  *string
	Notes       *string
	PaymentDate *time.Time // settlement date; defaults to today
}

// BulkResult reports a batch outcome. Partial success is a first-class
// result, not an error: FailedIDs lists the records that could not be
// updated while UpdatedCount covers the ones that were.
type BulkResult struct {
	UpdatedCount int
	FailedIDs    []string
	Errors       []string
	Success      bool
}

// BulkUpdate applies a status and/or field change to up to MaxBatchSize
// transactions. Settling to received/paid is processed per record so one
// failure (missing record, missing account, insufficient funds) never
// aborts the rest of the batch. Plain field updates have no balance impact.
func (s *Service) BulkUpdate(p BulkUpdateParams) (BulkResult, error) {
	if len(p.IDs) == 0 {
		return BulkResult{}, fmt.Errorf("no transaction ids given")
	}
	if len(p.IDs) > s.limits.MaxBatchSize {
		return BulkResult{}, fmt.Errorf("batch of %d exceeds maximum of %d", len(p.IDs), s.limits.MaxBatchSize)
	}

	settling := p.Status != nil &&
		(*p.Status == model.StatusReceived || *p.Status == model.StatusPaid)
	reverting := p.Status != nil && *p.Status == model.StatusPending

	var result BulkResult
	for _, txnID := range p.IDs {
		var err error
		switch {
		case settling:
			err = s.settleOne(txnID, p)
		case reverting:
			err = s.revertOne(txnID, p)
		default:
			err = s.updateOne(txnID, p)
		}
		if err == errAlreadySettled {
			// Already in the requested state; neither a success nor a failure.
			continue
		}
		if err != nil {
			s.log.Warn().Str("transaction", txnID).Err(err).Msg("bulk update failed for record")
			result.FailedIDs = append(result.FailedIDs, txnID)
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", txnID, err))
			continue
		}
		result.UpdatedCount++
	}

	result.Success = len(result.FailedIDs) == 0
	return result, nil
}

// errAlreadySettled marks a record skipped because it is already settled.
var errAlreadySettled = fmt.Errorf("already settled")

// settleOne settles a single record: fetch, skip if settled, apply the
// balance movement, then write transaction and account together.
func (s *Service) settleOne(txnID string, p BulkUpdateParams) error {
	txn, err := s.store.Transaction(txnID)
	if err != nil {
		return err
	}
	if txn.IsSettled() {
		return errAlreadySettled
	}

	acct, err := s.store.Account(txn.AccountID)
	if err != nil {
		return err
	}

	if txn.Type == model.TypeRevenue {
		acct = acct.Credit(txn.Amount)
	} else {
		acct, err = acct.Debit(txn.Amount)
		if err != nil {
			return err
		}
	}

	paidAt := time.Now()
	if p.PaymentDate != nil {
		paidAt = *p.PaymentDate
	}
	updated, err := txn.MarkAsPaid(paidAt)
	if err != nil {
		return err
	}
	updated, err = applyFields(updated, p)
	if err != nil {
		return err
	}

	return s.store.UpdateTransactionWithAccount(updated, acct)
}

// revertOne is the one allowed backward transition: a settled record goes
// back to pending and its balance movement is reversed.
func (s *Service) revertOne(txnID string, p BulkUpdateParams) error {
	txn, err := s.store.Transaction(txnID)
	if err != nil {
		return err
	}
	if !txn.IsSettled() {
		updated, err := txn.MarkAsPending()
		if err != nil {
			return err
		}
		updated, err = applyFields(updated, p)
		if err != nil {
			return err
		}
		return s.store.UpdateTransaction(updated)
	}

	acct, err := s.store.Account(txn.AccountID)
	if err != nil {
		return err
	}

	// Reverse the settlement movement: credited revenue is debited back,
	// debited expense is credited back.
	if txn.Type == model.TypeRevenue {
		acct, err = acct.Debit(txn.Amount)
		if err != nil {
			return err
		}
	} else {
		acct = acct.Credit(txn.Amount)
	}

	updated, err := txn.MarkAsPending()
	if err != nil {
		return err
	}
	updated, err = applyFields(updated, p)
	if err != nil {
		return err
	}

	return s.store.UpdateTransactionWithAccount(updated, acct)
}

// updateOne applies a non-settling change: category/costCenter/notes and
// the overdue/cancelled transitions. No balance impact. Fields are applied
// before the transition so that cancelling may still set a final note.
func (s *Service) updateOne(txnID string, p BulkUpdateParams) error {
	txn, err := s.store.Transaction(txnID)
	if err != nil {
		return err
	}

	txn, err = applyFields(txn, p)
	if err != nil {
		return err
	}

	if p.Status != nil {
		switch *p.Status {
		case model.StatusOverdue:
			txn, err = txn.MarkAsOverdue()
		case model.StatusCancelled:
			txn, err = txn.Cancel()
		default:
			err = fmt.Errorf("unsupported bulk status %q", *p.Status)
		}
		if err != nil {
			return err
		}
	}

	return s.store.UpdateTransaction(txn)
}

// applyFields routes the optional field changes through the entity rules,
// so a cancelled record rejects them like any other change.
func applyFields(txn model.Transaction, p BulkUpdateParams) (model.Transaction, error) {
	if p.Notes != nil {
		updated, err := txn.UpdateNotes(*p.Notes)
		if err != nil {
			return model.Transaction{}, err
		}
		txn = updated
	}
	if p.Category != nil || p.CostCenter != nil {
		if txn.Status == model.StatusCancelled {
			return model.Transaction{}, &model.InvalidStateError{Op: "reclassify", Status: txn.Status}
		}
		if p.Category != nil {
			txn.Category = *p.Category
		}
		if p.CostCenter != nil {
			txn.CostCenter = *p.CostCenter
		}
	}
	return txn, nil
}
