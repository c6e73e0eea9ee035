package repositories

import (
	"context"

	"github.com/parishware/church_finance_app/internal/core/domain"
)

// AccountReader defines read operations for chart-of-account data.
type AccountReader interface {
	// FindAccountByID retrieves a specific account by its unique identifier.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// FindAccountByCode looks a code up within the union of global accounts
	// and the given church's accounts.
	FindAccountByCode(ctx context.Context, churchID string, code string) (*domain.Account, error)

	// ListAccounts retrieves the accounts visible to a church (global plus
	// church-owned), ordered by the derived sort key.
	ListAccounts(ctx context.Context, churchID string, includeInactive bool) ([]domain.Account, error)

	// CountActiveChildren returns how many active accounts have the given
	// account as their parent.
	CountActiveChildren(ctx context.Context, accountID string) (int, error)

	// HasTransactions reports whether any transaction debits or credits the account.
	HasTransactions(ctx context.Context, accountID string) (bool, error)
}

// AccountWriter defines write operations for chart-of-account data.
type AccountWriter interface {
	SaveAccount(ctx context.Context, account domain.Account) error
	UpdateAccount(ctx context.Context, account domain.Account) error
}

// AccountRepositoryFacade combines all account repository interfaces.
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
}
