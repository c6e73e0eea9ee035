package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is a single double-entry posting: one debit account, one credit
// account, the same positive amount on both sides. Immutable once created;
// an administrator may delete it, nothing may update it.
type Transaction struct {
	TransactionID   string          `json:"transactionID"` // Primary Key (UUID)
	ChurchID        string          `json:"churchID"`      // FK -> churches.church_id
	DebitAccountID  string          `json:"debitAccountID"`
	CreditAccountID string          `json:"creditAccountID"`
	Amount          decimal.Decimal `json:"amount"` // Always > 0
	TransactionDate time.Time       `json:"transactionDate"`
	Reference       string          `json:"reference"`
	Description     string          `json:"description"`
	AuditFields
}

// LedgerLine is one transaction as seen from a single account's ledger,
// with the running balance after applying it.
type LedgerLine struct {
	Transaction
	IsDebit        bool            `json:"isDebit"` // True when the viewed account is the debit side
	RunningBalance decimal.Decimal `json:"runningBalance"`
}

// AccountLedger is the period view over one account: its transactions with
// running balances, seeded by the balance carried in from prior activity.
type AccountLedger struct {
	AccountID        string          `json:"accountID"`
	BeginningBalance decimal.Decimal `json:"beginningBalance"`
	Lines            []LedgerLine    `json:"lines"`
	CurrentBalance   decimal.Decimal `json:"currentBalance"`
}

// TrialBalanceRow aggregates one account's debit and credit totals over a
// period, with the signed balance per the account-type convention.
type TrialBalanceRow struct {
	AccountID   string          `json:"accountID"`
	Code        string          `json:"code"`
	Name        string          `json:"name"`
	AccountType AccountType     `json:"accountType"`
	Level       int             `json:"level"`
	DebitTotal  decimal.Decimal `json:"debitTotal"`
	CreditTotal decimal.Decimal `json:"creditTotal"`
	Balance     decimal.Decimal `json:"balance"`
}

// TrialBalance is the ledger-wide report. IsBalanced must hold by
// construction; a false value is a journal integrity failure, not a result.
type TrialBalance struct {
	Rows        []TrialBalanceRow `json:"rows"`
	TotalDebit  decimal.Decimal   `json:"totalDebit"`
	TotalCredit decimal.Decimal   `json:"totalCredit"`
	IsBalanced  bool              `json:"isBalanced"`
	Summary     TrialBalanceSummary `json:"summary"`
}

// TrialBalanceSummary sums the positive balance component per account type.
type TrialBalanceSummary struct {
	Assets      decimal.Decimal `json:"assets"`
	Liabilities decimal.Decimal `json:"liabilities"`
	Equity      decimal.Decimal `json:"equity"`
	Revenue     decimal.Decimal `json:"revenue"`
	Expenses    decimal.Decimal `json:"expenses"`
}
