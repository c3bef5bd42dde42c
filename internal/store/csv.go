package store

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledgerdesk-dev/ledgerdesk/internal/model"
)

// TransactionHeader is the CSV header for transactions.csv.
const TransactionHeader = "id,description,amount,type,category,status,account_id,transaction_date,due_date,payment_date,client_id,supplier_id,cost_center,reference_code,payment_method,installment_count,notes,attachments,bank_reference"

const (
	txnNumFields      = 19
	dateFormat        = "2006-01-02"
	colTxnID          = 0
	colTxnDesc        = 1
	colTxnAmount      = 2
	colTxnType        = 3
	colTxnCategory    = 4
	colTxnStatus      = 5
	colTxnAccountID   = 6
	colTxnDate        = 7
	colTxnDueDate     = 8
	colTxnPaymentDate = 9
	colTxnClientID    = 10
	colTxnSupplierID  = 11
	colTxnCostCenter  = 12
	colTxnRefCode     = 13
	colTxnPayMethod   = 14
	colTxnInstCount   = 15
	colTxnNotes       = 16
	colTxnAttachments = 17
	colTxnBankRef     = 18
)

// AccountHeader is the CSV header for accounts.csv.
const AccountHeader = "id,name,type,balance,is_active"

const (
	acctNumFields  = 5
	colAcctID      = 0
	colAcctName    = 1
	colAcctType    = 2
	colAcctBalance = 3
	colAcctActive  = 4
)

// ReadTransactions reads all transactions from a transactions.csv reader.
func ReadTransactions(r io.Reader) ([]model.Transaction, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = txnNumFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading transactions CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var txns []model.Transaction
	for i, rec := range records[1:] {
		t, err := UnmarshalTransaction(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		txns = append(txns, t)
	}
	return txns, nil
}

// WriteTransactions writes transactions to a transactions.csv writer,
// including the header.
func WriteTransactions(w io.Writer, txns []model.Transaction) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(TransactionHeader, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, t := range txns {
		if err := cw.Write(MarshalTransaction(t)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

// MarshalTransaction converts a Transaction to a CSV row.
func MarshalTransaction(t model.Transaction) []string {
	row := make([]string, txnNumFields)
	row[colTxnID] = t.ID
	row[colTxnDesc] = t.Description
	row[colTxnAmount] = t.Amount.StringFixed(2)
	row[colTxnType] = string(t.Type)
	row[colTxnCategory] = t.Category
	row[colTxnStatus] = string(t.Status)
	row[colTxnAccountID] = t.AccountID
	row[colTxnDate] = t.TransactionDate.Format(dateFormat)

	if t.DueDate != nil {
		row[colTxnDueDate] = t.DueDate.Format(dateFormat)
	}
	if t.PaymentDate != nil {
		row[colTxnPaymentDate] = t.PaymentDate.Format(dateFormat)
	}

	row[colTxnClientID] = t.ClientID
	row[colTxnSupplierID] = t.SupplierID
	row[colTxnCostCenter] = t.CostCenter
	row[colTxnRefCode] = t.ReferenceCode
	row[colTxnPayMethod] = t.PaymentMethod
	row[colTxnInstCount] = strconv.Itoa(t.InstallmentCount)
	row[colTxnNotes] = t.Notes
	row[colTxnAttachments] = strings.Join(t.Attachments, ";")
	row[colTxnBankRef] = t.BankReference

	return row
}

// UnmarshalTransaction converts a CSV row to a Transaction.
func UnmarshalTransaction(record []string) (model.Transaction, error) {
	if len(record) != txnNumFields {
		return model.Transaction{}, fmt.Errorf("expected %d fields, got %d", txnNumFields, len(record))
	}

	amount, err := decimal.NewFromString(record[colTxnAmount])
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing amount %q: %w", record[colTxnAmount], err)
	}

	txnDate, err := time.Parse(dateFormat, record[colTxnDate])
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing transaction_date %q: %w", record[colTxnDate], err)
	}

	var dueDate, paymentDate *time.Time
	if record[colTxnDueDate] != "" {
		d, err := time.Parse(dateFormat, record[colTxnDueDate])
		if err != nil {
			return model.Transaction{}, fmt.Errorf("parsing due_date %q: %w", record[colTxnDueDate], err)
		}
		dueDate = &d
	}
	if record[colTxnPaymentDate] != "" {
		d, err := time.Parse(dateFormat, record[colTxnPaymentDate])
		if err != nil {
			return model.Transaction{}, fmt.Errorf("parsing payment_date %q: %w", record[colTxnPaymentDate], err)
		}
		paymentDate = &d
	}

	instCount, err := strconv.Atoi(record[colTxnInstCount])
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing installment_count %q: %w", record[colTxnInstCount], err)
	}

	var attachments []string
	if record[colTxnAttachments] != "" {
		attachments = strings.Split(record[colTxnAttachments], ";")
	}

	return model.Transaction{
		ID:               record[colTxnID],
		Description:      record[colTxnDesc],
		Amount:           amount,
		Type:             model.TransactionType(record[colTxnType]),
		Category:         record[colTxnCategory],
		Status:           model.TransactionStatus(record[colTxnStatus]),
		AccountID:        record[colTxnAccountID],
		TransactionDate:  txnDate,
		DueDate:          dueDate,
		PaymentDate:      paymentDate,
		ClientID:         record[colTxnClientID],
		SupplierID:       record[colTxnSupplierID],
		CostCenter:       record[colTxnCostCenter],
		ReferenceCode:    record[colTxnRefCode],
		PaymentMethod:    record[colTxnPayMethod],
		InstallmentCount: instCount,
		Notes:            record[colTxnNotes],
		Attachments:      attachments,
		BankReference:    record[colTxnBankRef],
	}, nil
}

// ReadAccounts reads all accounts from an accounts.csv reader.
func ReadAccounts(r io.Reader) ([]model.Account, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = acctNumFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading accounts CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var accts []model.Account
	for i, rec := range records[1:] {
		a, err := UnmarshalAccount(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		accts = append(accts, a)
	}
	return accts, nil
}

// WriteAccounts writes accounts to an accounts.csv writer, including the
// header.
func WriteAccounts(w io.Writer, accts []model.Account) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(AccountHeader, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, a := range accts {
		if err := cw.Write(MarshalAccount(a)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

// MarshalAccount converts an Account to a CSV row.
func MarshalAccount(a model.Account) []string {
	row := make([]string, acctNumFields)
	row[colAcctID] = a.ID
	row[colAcctName] = a.Name
	row[colAcctType] = string(a.Type)
	row[colAcctBalance] = a.Balance.StringFixed(2)
	row[colAcctActive] = strconv.FormatBool(a.IsActive)
	return row
}

// UnmarshalAccount converts a CSV row to an Account.
func UnmarshalAccount(record []string) (model.Account, error) {
	if len(record) != acctNumFields {
		return model.Account{}, fmt.Errorf("expected %d fields, got %d", acctNumFields, len(record))
	}

	balance, err := decimal.NewFromString(record[colAcctBalance])
	if err != nil {
		return model.Account{}, fmt.Errorf("parsing balance %q: %w", record[colAcctBalance], err)
	}

	active, err := strconv.ParseBool(record[colAcctActive])
	if err != nil {
		return model.Account{}, fmt.Errorf("parsing is_active %q: %w", record[colAcctActive], err)
	}

	return model.Account{
		ID:       record[colAcctID],
		Name:     record[colAcctName],
		Type:     model.AccountType(record[colAcctType]),
		Balance:  balance,
		IsActive: active,
	}, nil
}
