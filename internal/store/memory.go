package store

import (
	"fmt"
	"sync"

	"github.com/ledgerdesk-dev/ledgerdesk/internal/model"
)

// Memory is an in-memory Store. All methods are safe for concurrent use;
// UpdateTransactionWithAccount holds the lock across both writes so the
// transaction-status and account-balance updates land together.
type Memory struct {
	mu        sync.RWMutex
	txns      map[string]model.Transaction
	txnOrder  []string
	accts     map[string]model.Account
	acctOrder []string
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		txns:  make(map[string]model.Transaction),
		accts: make(map[string]model.Account),
	}
}

// Transaction returns a transaction by id.
func (m *Memory) Transaction(id string) (model.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.txns[id]
	if !ok {
		return model.Transaction{}, fmt.Errorf("transaction %s: %w", id, ErrNotFound)
	}
	return t, nil
}

// Transactions returns transactions passing the filter, in insertion order.
func (m *Memory) Transactions(f TransactionFilter) ([]model.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []model.Transaction
	for _, id := range m.txnOrder {
		if t := m.txns[id]; f.Matches(t) {
			out = append(out, t)
		}
	}
	return out, nil
}

// CreateTransactions inserts new transactions. Duplicate ids are rejected.
func (m *Memory) CreateTransactions(txns []model.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range txns {
		if _, exists := m.txns[t.ID]; exists {
			return fmt.Errorf("transaction %s already exists", t.ID)
		}
	}
	for _, t := range txns {
		m.txns[t.ID] = t
		m.txnOrder = append(m.txnOrder, t.ID)
	}
	return nil
}

// UpdateTransaction replaces an existing transaction.
func (m *Memory) UpdateTransaction(txn model.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.updateTransactionLocked(txn)
}

// DeleteTransaction removes a transaction by id.
func (m *Memory) DeleteTransaction(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.txns[id]; !ok {
		return fmt.Errorf("transaction %s: %w", id, ErrNotFound)
	}
	delete(m.txns, id)
	for i, existing := range m.txnOrder {
		if existing == id {
			m.txnOrder = append(m.txnOrder[:i], m.txnOrder[i+1:]...)
			break
		}
	}
	return nil
}

// Account returns an account by id.
func (m *Memory) Account(id string) (model.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.accts[id]
	if !ok {
		return model.Account{}, fmt.Errorf("account %s: %w", id, ErrNotFound)
	}
	return a, nil
}

// ActiveAccounts returns all active accounts in insertion order.
func (m *Memory) ActiveAccounts() ([]model.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []model.Account
	for _, id := range m.acctOrder {
		if a := m.accts[id]; a.IsActive {
			out = append(out, a)
		}
	}
	return out, nil
}

// AllAccounts returns every account, active or not.
func (m *Memory) AllAccounts() []model.Account {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]model.Account, 0, len(m.acctOrder))
	for _, id := range m.acctOrder {
		out = append(out, m.accts[id])
	}
	return out
}

// AllTransactions returns every transaction in insertion order.
func (m *Memory) AllTransactions() []model.Transaction {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]model.Transaction, 0, len(m.txnOrder))
	for _, id := range m.txnOrder {
		out = append(out, m.txns[id])
	}
	return out
}

// CreateAccount inserts a new account.
func (m *Memory) CreateAccount(a model.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.accts[a.ID]; exists {
		return fmt.Errorf("account %s already exists", a.ID)
	}
	m.accts[a.ID] = a
	m.acctOrder = append(m.acctOrder, a.ID)
	return nil
}

// UpdateAccount replaces an existing account.
func (m *Memory) UpdateAccount(a model.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.updateAccountLocked(a)
}

// UpdateTransactionWithAccount applies a transaction update and its paired
// account update under a single lock. Either both land or neither does.
func (m *Memory) UpdateTransactionWithAccount(txn model.Transaction, acct model.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.txns[txn.ID]; !ok {
		return fmt.Errorf("transaction %s: %w", txn.ID, ErrNotFound)
	}
	if _, ok := m.accts[acct.ID]; !ok {
		return fmt.Errorf("account %s: %w", acct.ID, ErrNotFound)
	}
	m.txns[txn.ID] = txn
	m.accts[acct.ID] = acct
	return nil
}

func (m *Memory) updateTransactionLocked(txn model.Transaction) error {
	if _, ok := m.txns[txn.ID]; !ok {
		return fmt.Errorf("transaction %s: %w", txn.ID, ErrNotFound)
	}
	m.txns[txn.ID] = txn
	return nil
}

func (m *Memory) updateAccountLocked(a model.Account) error {
	if _, ok := m.accts[a.ID]; !ok {
		return fmt.Errorf("account %s: %w", a.ID, ErrNotFound)
	}
	m.accts[a.ID] = a
	return nil
}
