package repositories

import (
	"context"
	"time"

	"github.com/parishware/church_finance_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AccountActivity aggregates one account's raw debit and credit totals over a
// period, before the sign convention is applied.
type AccountActivity struct {
	Account     domain.Account
	DebitTotal  decimal.Decimal
	CreditTotal decimal.Decimal
}

// TransactionReader defines read operations for posted transactions.
type TransactionReader interface {
	// FindTransactionByID retrieves a specific transaction.
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// ListTransactionsByAccount retrieves the transactions touching an account
	// in [from, to], ordered by (transaction_date, created_at).
	ListTransactionsByAccount(ctx context.Context, accountID string, from, to time.Time) ([]domain.Transaction, error)

	// SumAccountActivityBefore returns the account's total debits and credits
	// over all transactions strictly before the given date. Feeds the
	// beginning balance of a period ledger.
	SumAccountActivityBefore(ctx context.Context, accountID string, before time.Time) (debitTotal, creditTotal decimal.Decimal, err error)

	// AggregateActivity returns per-account debit/credit totals over a period
	// for all accounts of a church (and global accounts it posted against),
	// optionally filtered to a single hierarchy level.
	AggregateActivity(ctx context.Context, churchID string, from, to time.Time, levelFilter *int) ([]AccountActivity, error)
}

// TransactionWriter defines write operations for posted transactions.
type TransactionWriter interface {
	SaveTransaction(ctx context.Context, txn domain.Transaction) error

	// DeleteTransaction removes a posting. Postings are otherwise immutable.
	DeleteTransaction(ctx context.Context, transactionID string) error
}

// TransactionRepositoryFacade combines all transaction repository interfaces.
type TransactionRepositoryFacade interface {
	TransactionReader
	TransactionWriter
}
