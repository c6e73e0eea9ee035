package services

import (
	"context"
	"time"

	"github.com/parishware/church_finance_app/internal/core/domain"
	"github.com/parishware/church_finance_app/internal/dto"
)

// TransactionSvcFacade posts double-entry transactions and derives balances
// by replaying them; no separate balance table exists.
type TransactionSvcFacade interface {
	PostTransaction(ctx context.Context, churchID string, req dto.CreateTransactionRequest, creatorUserID string) (*domain.Transaction, error)
	DeleteTransaction(ctx context.Context, churchID, transactionID string, deleterUserID string) error

	// GetAccountLedger returns the account's period transactions with running
	// balances, seeded by the fold over all prior activity.
	GetAccountLedger(ctx context.Context, churchID, accountID string, from, to time.Time, requestingUserID string) (*domain.AccountLedger, error)

	// GetTrialBalance aggregates period debits and credits per account and
	// verifies the ledger-wide balance invariant.
	GetTrialBalance(ctx context.Context, churchID string, from, to time.Time, levelFilter *int, requestingUserID string) (*domain.TrialBalance, error)
}
