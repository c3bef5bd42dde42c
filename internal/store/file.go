package store

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/ledgerdesk-dev/ledgerdesk/internal/model"
)

const (
	accountsFile     = "accounts/accounts.csv"
	transactionsFile = "ledger/transactions.csv"
)

// FileStore loads a data directory into a Memory store and saves it back.
// The whole-directory load/mutate/save cycle keeps the paired
// transaction/account writes atomic at the command level.
type FileStore struct {
	dataDir string
}

// NewFileStore creates a FileStore rooted at dataDir.
func NewFileStore(dataDir string) *FileStore {
	return &FileStore{dataDir: dataDir}
}

// Load reads accounts.csv and transactions.csv into a Memory store.
// Missing files yield an empty store rather than an error.
func (fsr *FileStore) Load() (*Memory, error) {
	m := NewMemory()

	accts, err := readFile(filepath.Join(fsr.dataDir, accountsFile), ReadAccounts)
	if err != nil {
		return nil, err
	}
	for _, a := range accts {
		if err := m.CreateAccount(a); err != nil {
			return nil, fmt.Errorf("loading account %s: %w", a.ID, err)
		}
	}

	txns, err := readFile(filepath.Join(fsr.dataDir, transactionsFile), ReadTransactions)
	if err != nil {
		return nil, err
	}
	if len(txns) > 0 {
		if err := m.CreateTransactions(txns); err != nil {
			return nil, fmt.Errorf("loading transactions: %w", err)
		}
	}

	return m, nil
}

// Save writes the store contents back to the data directory.
func (fsr *FileStore) Save(m *Memory) error {
	if err := writeFile(filepath.Join(fsr.dataDir, accountsFile), m.AllAccounts(), WriteAccounts); err != nil {
		return err
	}
	return writeFile(filepath.Join(fsr.dataDir, transactionsFile), m.AllTransactions(), WriteTransactions)
}

func readFile[T any](path string, read func(r io.Reader) ([]T, error)) ([]T, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	out, err := read(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return out, nil
}

func writeFile[T any](path string, records []T, write func(w io.Writer, records []T) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating %s dir: %w", filepath.Dir(path), err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	if err := write(f, records); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// DefaultAccounts returns the accounts a fresh data directory starts with.
func DefaultAccounts() []model.Account {
	return []model.Account{
		{ID: "acc_checking", Name: "Business Checking", Type: model.AccountTypeChecking, IsActive: true},
		{ID: "acc_savings", Name: "Business Savings", Type: model.AccountTypeSavings, IsActive: true},
		{ID: "acc_cash", Name: "Petty Cash", Type: model.AccountTypeCash, IsActive: true},
	}
}
