package services

import (
	"context"

	"github.com/parishware/church_finance_app/internal/core/domain"
	"github.com/parishware/church_finance_app/internal/dto"
)

// AccountSvcFacade owns the chart of accounts: hierarchical codes, types,
// validity and soft deletion.
type AccountSvcFacade interface {
	CreateAccount(ctx context.Context, churchID string, req dto.CreateAccountRequest, creatorUserID string) (*domain.Account, error)
	GetAccountByID(ctx context.Context, churchID, accountID string, requestingUserID string) (*domain.Account, error)
	ListAccounts(ctx context.Context, churchID string, requestingUserID string, params dto.ListAccountsParams) ([]domain.Account, error)
	UpdateAccount(ctx context.Context, churchID, accountID string, req dto.UpdateAccountRequest, updaterUserID string) (*domain.Account, error)
	DeactivateAccount(ctx context.Context, churchID, accountID string, deleterUserID string) error

	// ValidateCode checks a code's shape and hierarchy fit without writing.
	ValidateCode(ctx context.Context, churchID, code string) dto.ValidateCodeResponse
}
