package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/parishware/church_finance_app/internal/apperrors"
	"github.com/parishware/church_finance_app/internal/core/domain"
	portsrepo "github.com/parishware/church_finance_app/internal/core/ports/repositories"
	portssvc "github.com/parishware/church_finance_app/internal/core/ports/services"
	"github.com/parishware/church_finance_app/internal/dto"
	"github.com/parishware/church_finance_app/internal/middleware"
	"github.com/parishware/church_finance_app/internal/utils/accountcode"
)

// accountService owns the chart of accounts.
type accountService struct {
	accountRepo portsrepo.AccountRepositoryFacade
	churchSvc   portssvc.ChurchAuthorizerSvc
}

// NewAccountService creates a new AccountService.
func NewAccountService(accountRepo portsrepo.AccountRepositoryFacade, churchSvc portssvc.ChurchAuthorizerSvc) portssvc.AccountSvcFacade {
	return &accountService{
		accountRepo: accountRepo,
		churchSvc:   churchSvc,
	}
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

// resolveParent checks the parent relationship rules: the parent must exist,
// sit exactly one level above the child, carry the same type, and be the
// code-derived ancestor when the code has one.
func (s *accountService) resolveParent(ctx context.Context, churchID string, req dto.CreateAccountRequest, code accountcode.Code) (*domain.Account, error) {
	parentCode := accountcode.ParentCode(code.Raw)
	if parentCode == "" {
		if req.ParentAccountID != nil {
			return nil, fmt.Errorf("%w: top-level account %s cannot have a parent", apperrors.ErrValidation, code.Raw)
		}
		return nil, nil
	}

	var parent *domain.Account
	var err error
	if req.ParentAccountID != nil {
		parent, err = s.accountRepo.FindAccountByID(ctx, *req.ParentAccountID)
	} else {
		parent, err = s.accountRepo.FindAccountByCode(ctx, churchID, parentCode)
	}
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: parent account %s not found", apperrors.ErrNotFound, parentCode)
		}
		return nil, fmt.Errorf("failed to resolve parent account: %w", err)
	}

	if !parent.VisibleTo(churchID) {
		return nil, fmt.Errorf("%w: parent account %s not found", apperrors.ErrNotFound, parentCode)
	}
	if parent.Code != parentCode {
		return nil, fmt.Errorf("%w: parent account code %s does not match code-derived parent %s", apperrors.ErrValidation, parent.Code, parentCode)
	}
	if parent.Level != code.Level-1 {
		return nil, fmt.Errorf("%w: parent level %d is not one level above the derived level %d", apperrors.ErrValidation, parent.Level, code.Level)
	}
	if parent.AccountType != code.AccountType {
		return nil, fmt.Errorf("%w: parent type %s does not match child type %s", apperrors.ErrValidation, parent.AccountType, code.AccountType)
	}
	return parent, nil
}

// CreateAccount creates a chart-of-account entry after validating the code
// shape, uniqueness and hierarchy. Implements portssvc.AccountSvcFacade.
func (s *accountService) CreateAccount(ctx context.Context, churchID string, req dto.CreateAccountRequest, creatorUserID string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	role, err := s.churchSvc.AuthorizeUserAction(ctx, creatorUserID, churchID, domain.RoleFinanceManager)
	if err != nil {
		logger.Warn("Authorization failed for CreateAccount", slog.String("user_id", creatorUserID), slog.String("church_id", churchID), slog.String("error", err.Error()))
		return nil, err
	}
	if req.Global && role != domain.RoleAdmin {
		return nil, fmt.Errorf("%w: only administrators may create global accounts", apperrors.ErrForbidden)
	}

	code, err := accountcode.Parse(req.Code)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
	}
	if code.AccountType != req.AccountType {
		return nil, fmt.Errorf("%w: code %s encodes type %s but %s was requested", apperrors.ErrValidation, req.Code, code.AccountType, req.AccountType)
	}

	// Duplicate check spans global accounts and this church's accounts.
	if existing, err := s.accountRepo.FindAccountByCode(ctx, churchID, req.Code); err == nil && existing != nil {
		return nil, fmt.Errorf("%w: account code %s already exists", apperrors.ErrDuplicate, req.Code)
	} else if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check for duplicate account code: %w", err)
	}

	parent, err := s.resolveParent(ctx, churchID, req, code)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	account := domain.Account{
		AccountID:        uuid.NewString(),
		Code:             req.Code,
		Name:             req.Name,
		AccountType:      code.AccountType,
		Level:            code.Level,
		SortOrder:        code.SortOrder,
		Description:      req.Description,
		AllowTransaction: req.AllowTransaction,
		IsActive:         true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}
	if !req.Global {
		account.ChurchID = &churchID
	}
	if parent != nil {
		account.ParentAccountID = &parent.AccountID
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		logger.Error("Failed to save account", slog.String("error", err.Error()), slog.String("church_id", churchID))
		return nil, fmt.Errorf("failed to save account: %w", err)
	}

	logger.Info("Account created successfully", slog.String("account_id", account.AccountID), slog.String("code", account.Code))
	return &account, nil
}

// GetAccountByID retrieves one account visible to the church.
func (s *accountService) GetAccountByID(ctx context.Context, churchID, accountID string, requestingUserID string) (*domain.Account, error) {
	if _, err := s.churchSvc.AuthorizeUserAction(ctx, requestingUserID, churchID, domain.RoleMember); err != nil {
		return nil, err
	}

	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if !account.VisibleTo(churchID) {
		// Obscure existence of other tenants' accounts.
		return nil, apperrors.ErrNotFound
	}
	return account, nil
}

// ListAccounts retrieves the accounts visible to a church ordered by the
// code-derived sort key.
func (s *accountService) ListAccounts(ctx context.Context, churchID string, requestingUserID string, params dto.ListAccountsParams) ([]domain.Account, error) {
	if _, err := s.churchSvc.AuthorizeUserAction(ctx, requestingUserID, churchID, domain.RoleMember); err != nil {
		return nil, err
	}
	return s.accountRepo.ListAccounts(ctx, churchID, params.IncludeInactive)
}

// UpdateAccount updates the mutable fields of an account. Code and type are
// immutable.
func (s *accountService) UpdateAccount(ctx context.Context, churchID, accountID string, req dto.UpdateAccountRequest, updaterUserID string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.churchSvc.AuthorizeUserAction(ctx, updaterUserID, churchID, domain.RoleFinanceManager); err != nil {
		return nil, err
	}

	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if !account.VisibleTo(churchID) {
		return nil, apperrors.ErrNotFound
	}

	updated := false
	if req.Name != nil {
		account.Name = *req.Name
		updated = true
	}
	if req.Description != nil {
		account.Description = *req.Description
		updated = true
	}
	if req.AllowTransaction != nil {
		account.AllowTransaction = *req.AllowTransaction
		updated = true
	}
	if !updated {
		return account, nil
	}

	account.LastUpdatedAt = time.Now().UTC()
	account.LastUpdatedBy = updaterUserID

	if err := s.accountRepo.UpdateAccount(ctx, *account); err != nil {
		logger.Error("Failed to update account", slog.String("error", err.Error()), slog.String("account_id", accountID))
		return nil, fmt.Errorf("failed to update account: %w", err)
	}
	return account, nil
}

// DeactivateAccount soft-deletes an account. Conflicts when the account still
// has active children or any referencing transactions.
func (s *accountService) DeactivateAccount(ctx context.Context, churchID, accountID string, deleterUserID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.churchSvc.AuthorizeUserAction(ctx, deleterUserID, churchID, domain.RoleFinanceManager); err != nil {
		return err
	}

	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return err
	}
	if !account.VisibleTo(churchID) {
		return apperrors.ErrNotFound
	}
	if !account.IsActive {
		return fmt.Errorf("%w: account %s is already inactive", apperrors.ErrConflict, accountID)
	}

	children, err := s.accountRepo.CountActiveChildren(ctx, accountID)
	if err != nil {
		return fmt.Errorf("failed to count child accounts: %w", err)
	}
	if children > 0 {
		return fmt.Errorf("%w: account %s has %d active child accounts", apperrors.ErrConflict, accountID, children)
	}

	hasTxns, err := s.accountRepo.HasTransactions(ctx, accountID)
	if err != nil {
		return fmt.Errorf("failed to check account transactions: %w", err)
	}
	if hasTxns {
		return fmt.Errorf("%w: account %s has referencing transactions", apperrors.ErrConflict, accountID)
	}

	account.IsActive = false
	account.LastUpdatedAt = time.Now().UTC()
	account.LastUpdatedBy = deleterUserID

	if err := s.accountRepo.UpdateAccount(ctx, *account); err != nil {
		logger.Error("Failed to deactivate account", slog.String("error", err.Error()), slog.String("account_id", accountID))
		return fmt.Errorf("failed to deactivate account: %w", err)
	}

	logger.Info("Account deactivated", slog.String("account_id", accountID))
	return nil
}

// ValidateCode checks a code's shape, uniqueness and hierarchy fit without
// writing anything.
func (s *accountService) ValidateCode(ctx context.Context, churchID, code string) dto.ValidateCodeResponse {
	parsed, err := accountcode.Parse(code)
	if err != nil {
		return dto.ValidateCodeResponse{IsValid: false, Error: err.Error()}
	}

	if existing, err := s.accountRepo.FindAccountByCode(ctx, churchID, code); err == nil && existing != nil {
		return dto.ValidateCodeResponse{
			IsValid:     false,
			Level:       parsed.Level,
			AccountType: parsed.AccountType,
			Error:       fmt.Sprintf("account code %s already exists", code),
		}
	}

	if parentCode := accountcode.ParentCode(code); parentCode != "" {
		parent, err := s.accountRepo.FindAccountByCode(ctx, churchID, parentCode)
		if err != nil || parent == nil {
			return dto.ValidateCodeResponse{
				IsValid:     false,
				Level:       parsed.Level,
				AccountType: parsed.AccountType,
				Error:       fmt.Sprintf("parent account %s not found", parentCode),
			}
		}
		if parent.AccountType != parsed.AccountType {
			return dto.ValidateCodeResponse{
				IsValid:     false,
				Level:       parsed.Level,
				AccountType: parsed.AccountType,
				Error:       fmt.Sprintf("parent account type %s does not match %s", parent.AccountType, parsed.AccountType),
			}
		}
	}

	return dto.ValidateCodeResponse{IsValid: true, Level: parsed.Level, AccountType: parsed.AccountType}
}
