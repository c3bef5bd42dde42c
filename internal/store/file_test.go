package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerdesk-dev/ledgerdesk/internal/model"
)

func TestFileStore_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	fs := NewFileStore(dir)

	m := NewMemory()
	require.NoError(t, m.CreateAccount(testAcct("acc_checking", "1000.00")))
	require.NoError(t, m.CreateTransactions([]model.Transaction{testTxn("txn_1", model.StatusPending)}))
	require.NoError(t, fs.Save(m))

	_, err := os.Stat(filepath.Join(dir, "accounts", "accounts.csv"))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "ledger", "transactions.csv"))
	require.NoError(t, err)

	loaded, err := fs.Load()
	require.NoError(t, err)

	acct, err := loaded.Account("acc_checking")
	require.NoError(t, err)
	assert.True(t, acct.Balance.Equal(dec("1000.00")))

	txn, err := loaded.Transaction("txn_1")
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, txn.Status)
}

func TestFileStore_EmptyDir(t *testing.T) {
	fs := NewFileStore(t.TempDir())

	m, err := fs.Load()
	require.NoError(t, err)
	assert.Empty(t, m.AllAccounts())
	assert.Empty(t, m.AllTransactions())
}

func TestDefaultAccounts(t *testing.T) {
	accts := DefaultAccounts()
	require.NotEmpty(t, accts)
	for _, a := range accts {
		assert.True(t, a.IsActive)
		assert.True(t, a.Balance.IsZero())
	}
}
