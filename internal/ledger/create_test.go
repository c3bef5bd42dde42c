package ledger

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerdesk-dev/ledgerdesk/internal/logger"
	"github.com/ledgerdesk-dev/ledgerdesk/internal/model"
	"github.com/ledgerdesk-dev/ledgerdesk/internal/store"
)

func newTestService(t *testing.T, balance string) (*Service, *store.Memory) {
	t.Helper()
	mem := store.NewMemory()
	require.NoError(t, mem.CreateAccount(model.Account{
		ID:       "acc_checking",
		Name:     "Business Checking",
		Type:     model.AccountTypeChecking,
		Balance:  dec(balance),
		IsActive: true,
	}))
	return NewService(mem, DefaultCategories(), DefaultLimits(), logger.Nop()), mem
}

func TestCreate_PaidExpenseDebitsAccount(t *testing.T) {
	svc, mem := newTestService(t, "1000.00")

	p := validParams()
	p.Amount = dec("500.00")
	p.IsPaid = true
	p.PaymentMethod = "pix"

	result, err := svc.Create(p)
	require.NoError(t, err)
	require.Len(t, result.Transactions, 1)
	assert.Equal(t, model.StatusPaid, result.Transactions[0].Status)
	assert.True(t, result.Account.Balance.Equal(dec("500.00")))

	acct, err := mem.Account("acc_checking")
	require.NoError(t, err)
	assert.True(t, acct.Balance.Equal(dec("500.00")))
}

func TestCreate_PaidExpenseInsufficientFunds(t *testing.T) {
	svc, mem := newTestService(t, "100.00")

	p := validParams()
	p.Amount = dec("500.00")
	p.IsPaid = true
	p.PaymentMethod = "pix"

	_, err := svc.Create(p)
	require.Error(t, err)
	var ife *model.InsufficientFundsError
	require.ErrorAs(t, err, &ife)

	// Nothing persisted, balance untouched.
	acct, err := mem.Account("acc_checking")
	require.NoError(t, err)
	assert.True(t, acct.Balance.Equal(dec("100.00")))
	txns, err := mem.Transactions(store.TransactionFilter{})
	require.NoError(t, err)
	assert.Empty(t, txns)
}

func TestCreate_PaidRevenueCreditsAccount(t *testing.T) {
	svc, _ := newTestService(t, "100.00")

	p := validParams()
	p.Type = model.TypeRevenue
	p.Category = "services"
	p.Amount = dec("250.00")
	p.IsPaid = true
	p.PaymentMethod = "transfer"

	result, err := svc.Create(p)
	require.NoError(t, err)
	assert.Equal(t, model.StatusReceived, result.Transactions[0].Status)
	assert.True(t, result.Account.Balance.Equal(dec("350.00")))
}

func TestCreate_UnpaidNeverTouchesBalance(t *testing.T) {
	svc, mem := newTestService(t, "1000.00")

	p := validParams()
	p.Amount = dec("999.00")

	result, err := svc.Create(p)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, result.Transactions[0].Status)
	assert.Nil(t, result.Transactions[0].PaymentDate)

	acct, err := mem.Account("acc_checking")
	require.NoError(t, err)
	assert.True(t, acct.Balance.Equal(dec("1000.00")))
}

func TestCreate_ValidationFailureCreatesNothing(t *testing.T) {
	svc, mem := newTestService(t, "1000.00")

	p := validParams()
	p.Amount = dec("-10.00")

	_, err := svc.Create(p)
	require.Error(t, err)
	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)

	txns, err := mem.Transactions(store.TransactionFilter{})
	require.NoError(t, err)
	assert.Empty(t, txns)
}

func TestCreate_AccountNotFound(t *testing.T) {
	svc, _ := newTestService(t, "1000.00")

	p := validParams()
	p.AccountID = "acc_missing"

	_, err := svc.Create(p)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestCreate_InactiveAccount(t *testing.T) {
	svc, mem := newTestService(t, "1000.00")
	require.NoError(t, mem.CreateAccount(model.Account{
		ID: "acc_closed", Name: "Closed", Type: model.AccountTypeSavings, IsActive: false,
	}))

	p := validParams()
	p.AccountID = "acc_closed"

	_, err := svc.Create(p)
	require.Error(t, err)
	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
}

func TestCreate_InstallmentsPreserveTotal(t *testing.T) {
	svc, _ := newTestService(t, "0.00")

	p := validParams()
	p.Amount = dec("100.00")
	p.Installments = 3

	result, err := svc.Create(p)
	require.NoError(t, err)
	require.Len(t, result.Transactions, 3)

	assert.True(t, result.Transactions[0].Amount.Equal(dec("33.34")))
	assert.True(t, result.Transactions[1].Amount.Equal(dec("33.33")))
	assert.True(t, result.Transactions[2].Amount.Equal(dec("33.33")))

	total := decimal.Zero
	for _, txn := range result.Transactions {
		total = total.Add(txn.Amount)
		assert.Equal(t, 1, txn.InstallmentCount, "each installment is independently payable")
	}
	assert.True(t, total.Equal(dec("100.00")))
}

func TestCreate_InstallmentsPreserveTotal_AllCounts(t *testing.T) {
	for n := 1; n <= MaxInstallments; n++ {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			svc, _ := newTestService(t, "0.00")

			p := validParams()
			p.Amount = dec("777.77")
			p.Installments = n

			result, err := svc.Create(p)
			require.NoError(t, err)
			require.Len(t, result.Transactions, n)

			total := decimal.Zero
			for _, txn := range result.Transactions {
				total = total.Add(txn.Amount)
			}
			assert.True(t, total.Equal(dec("777.77")), "split must sum exactly, got %s", total)
		})
	}
}

func TestCreate_InstallmentsDueDatesStep(t *testing.T) {
	svc, _ := newTestService(t, "0.00")

	p := validParams()
	p.Amount = dec("300.00")
	p.Installments = 3
	due := date(2025, 2, 10)
	p.DueDate = &due

	result, err := svc.Create(p)
	require.NoError(t, err)
	require.Len(t, result.Transactions, 3)

	require.NotNil(t, result.Transactions[0].DueDate)
	assert.Equal(t, date(2025, 2, 10), *result.Transactions[0].DueDate)
	assert.Equal(t, date(2025, 3, 10), *result.Transactions[1].DueDate)
	assert.Equal(t, date(2025, 4, 10), *result.Transactions[2].DueDate)

	assert.Contains(t, result.Transactions[0].Description, "(1/3)")
	assert.Contains(t, result.Transactions[2].Description, "(3/3)")
}

func TestCreate_MonthlyRecurrence(t *testing.T) {
	svc, _ := newTestService(t, "0.00")

	p := validParams()
	p.Description = "Assinatura CRM"
	p.TransactionDate = date(2025, 1, 15)
	p.Recurrence = &RecurrenceSpec{Frequency: FreqMonthly, Count: 3}

	result, err := svc.Create(p)
	require.NoError(t, err)
	require.Len(t, result.Transactions, 3)

	assert.Equal(t, date(2025, 1, 15), result.Transactions[0].TransactionDate)
	assert.Equal(t, date(2025, 2, 15), result.Transactions[1].TransactionDate)
	assert.Equal(t, date(2025, 3, 15), result.Transactions[2].TransactionDate)

	assert.Equal(t, "Assinatura CRM (1/3)", result.Transactions[0].Description)
	assert.Equal(t, "Assinatura CRM (2/3)", result.Transactions[1].Description)
	assert.Equal(t, "Assinatura CRM (3/3)", result.Transactions[2].Description)

	// Each sibling carries the full amount.
	for _, txn := range result.Transactions {
		assert.True(t, txn.Amount.Equal(p.Amount))
	}
}

func TestCreate_QuarterlyRecurrence(t *testing.T) {
	svc, _ := newTestService(t, "0.00")

	p := validParams()
	p.TransactionDate = date(2025, 1, 1)
	p.Recurrence = &RecurrenceSpec{Frequency: FreqQuarterly, Count: 4}

	result, err := svc.Create(p)
	require.NoError(t, err)
	require.Len(t, result.Transactions, 4)
	assert.Equal(t, date(2025, 10, 1), result.Transactions[3].TransactionDate)
}

func TestCreate_PaidRecurrenceChecksTotalDelta(t *testing.T) {
	// Three paid monthly expenses of 400 need 1200, not 400.
	svc, _ := newTestService(t, "1000.00")

	p := validParams()
	p.Amount = dec("400.00")
	p.IsPaid = true
	p.PaymentMethod = "pix"
	p.Recurrence = &RecurrenceSpec{Frequency: FreqMonthly, Count: 3}

	_, err := svc.Create(p)
	var ife *model.InsufficientFundsError
	require.ErrorAs(t, err, &ife)
	assert.True(t, ife.Requested.Equal(dec("1200.00")))
}

func TestCreate_ConfiguredInstallmentCap(t *testing.T) {
	mem := store.NewMemory()
	require.NoError(t, mem.CreateAccount(model.Account{
		ID: "acc_checking", Name: "Checking", Type: model.AccountTypeChecking,
		Balance: dec("0.00"), IsActive: true,
	}))
	svc := NewService(mem, DefaultCategories(), Limits{MaxInstallments: 3}, logger.Nop())

	p := validParams()
	p.Installments = 4

	_, err := svc.Create(p)
	require.Error(t, err)
	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "installments", verrs[0].Field)

	// The default cap would have let this through.
	p.Installments = 3
	_, err = svc.Create(p)
	require.NoError(t, err)
}

func TestCreate_GeneratedIDsAreUnique(t *testing.T) {
	svc, _ := newTestService(t, "0.00")

	p := validParams()
	p.Installments = 12

	result, err := svc.Create(p)
	require.NoError(t, err)

	seen := make(map[string]bool)
	for _, txn := range result.Transactions {
		assert.False(t, seen[txn.ID], "duplicate id %s", txn.ID)
		seen[txn.ID] = true
	}
}
