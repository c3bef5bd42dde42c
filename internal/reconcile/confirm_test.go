package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerdesk-dev/ledgerdesk/internal/logger"
	"github.com/ledgerdesk-dev/ledgerdesk/internal/model"
	"github.com/ledgerdesk-dev/ledgerdesk/internal/store"
)

func newConfirmService(t *testing.T) (*Service, *store.Memory) {
	t.Helper()
	mem := store.NewMemory()
	require.NoError(t, mem.CreateAccount(model.Account{
		ID: "acc_checking", Name: "Checking", Type: model.AccountTypeChecking,
		Balance: dec("1000.00"), IsActive: true,
	}))
	return NewService(mem, logger.Nop()), mem
}

func candidateFor(txn model.Transaction, l model.StatementLine) model.MatchCandidate {
	return model.MatchCandidate{
		Line:        l,
		Transaction: &txn,
		Confidence:  1.0,
		Status:      model.MatchMatched,
	}
}

func TestConfirm(t *testing.T) {
	svc, mem := newConfirmService(t)
	txn := openTxn("txn_1", "Pagamento Cliente X", "1500.00", date(2025, 3, 1))
	require.NoError(t, mem.CreateTransactions([]model.Transaction{txn}))

	l := line("Pagamento Cliente X", "1500.00", date(2025, 3, 3))
	l.Reference = "stmt_001"

	updated, err := svc.Confirm(candidateFor(txn, l))
	require.NoError(t, err)

	assert.Equal(t, model.StatusReceived, updated.Status)
	assert.Equal(t, "stmt_001", updated.BankReference)
	require.NotNil(t, updated.PaymentDate)
	assert.Equal(t, date(2025, 3, 3), *updated.PaymentDate, "payment date comes from the statement line")

	stored, err := mem.Transaction("txn_1")
	require.NoError(t, err)
	assert.Equal(t, model.StatusReceived, stored.Status)
	assert.Equal(t, "stmt_001", stored.BankReference)
}

func TestConfirm_DoesNotMoveBalance(t *testing.T) {
	svc, mem := newConfirmService(t)
	txn := openTxn("txn_1", "Pagamento Cliente X", "1500.00", date(2025, 3, 1))
	require.NoError(t, mem.CreateTransactions([]model.Transaction{txn}))

	_, err := svc.Confirm(candidateFor(txn, line("Pagamento Cliente X", "1500.00", date(2025, 3, 3))))
	require.NoError(t, err)

	acct, err := mem.Account("acc_checking")
	require.NoError(t, err)
	assert.True(t, acct.Balance.Equal(dec("1000.00")))
}

func TestConfirm_Twice(t *testing.T) {
	svc, mem := newConfirmService(t)
	txn := openTxn("txn_1", "Pagamento Cliente X", "1500.00", date(2025, 3, 1))
	require.NoError(t, mem.CreateTransactions([]model.Transaction{txn}))

	c := candidateFor(txn, line("Pagamento Cliente X", "1500.00", date(2025, 3, 3)))
	_, err := svc.Confirm(c)
	require.NoError(t, err)

	_, err = svc.Confirm(c)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAlreadyConfirmed)
}

func TestConfirm_NoTransaction(t *testing.T) {
	svc, _ := newConfirmService(t)
	_, err := svc.Confirm(model.MatchCandidate{
		Line:   line("anything", "10.00", date(2025, 3, 1)),
		Status: model.MatchUnmatched,
	})
	assert.ErrorIs(t, err, ErrNoTransaction)
}

func TestConfirm_TransactionDeletedSinceMatch(t *testing.T) {
	svc, mem := newConfirmService(t)
	txn := openTxn("txn_1", "Pagamento Cliente X", "1500.00", date(2025, 3, 1))
	require.NoError(t, mem.CreateTransactions([]model.Transaction{txn}))
	require.NoError(t, mem.DeleteTransaction("txn_1"))

	_, err := svc.Confirm(candidateFor(txn, line("Pagamento Cliente X", "1500.00", date(2025, 3, 3))))
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestConfirm_CancelledTransaction(t *testing.T) {
	svc, mem := newConfirmService(t)
	txn := openTxn("txn_1", "Pagamento Cliente X", "1500.00", date(2025, 3, 1))
	txn.Status = model.StatusCancelled
	require.NoError(t, mem.CreateTransactions([]model.Transaction{txn}))

	_, err := svc.Confirm(candidateFor(txn, line("Pagamento Cliente X", "1500.00", date(2025, 3, 3))))
	require.Error(t, err)

	var stateErr *model.InvalidStateError
	assert.ErrorAs(t, err, &stateErr)
}

func TestReject(t *testing.T) {
	svc, _ := newConfirmService(t)
	txn := openTxn("txn_1", "Pagamento Cliente X", "1500.00", date(2025, 3, 1))

	rejected := svc.Reject(candidateFor(txn, line("Pagamento Cliente X", "1500.00", date(2025, 3, 3))))
	assert.Nil(t, rejected.Transaction)
	assert.Zero(t, rejected.Confidence)
	assert.Equal(t, model.MatchUnmatched, rejected.Status)
}

func TestReject_UnmatchedCandidate(t *testing.T) {
	svc, _ := newConfirmService(t)
	c := model.MatchCandidate{
		Line:   line("anything", "10.00", date(2025, 3, 1)),
		Status: model.MatchUnmatched,
	}
	rejected := svc.Reject(c)
	assert.Equal(t, model.MatchUnmatched, rejected.Status)
}
