package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/parishware/church_finance_app/internal/apperrors"
	"github.com/parishware/church_finance_app/internal/core/domain"
	portsrepo "github.com/parishware/church_finance_app/internal/core/ports/repositories"
	portssvc "github.com/parishware/church_finance_app/internal/core/ports/services"
	"github.com/parishware/church_finance_app/internal/dto"
	"github.com/parishware/church_finance_app/internal/middleware"
	"github.com/parishware/church_finance_app/internal/utils/accounting"
)

// transactionService posts double-entry transactions and derives ledgers and
// trial balances from them. Balances are never stored, always recomputed.
type transactionService struct {
	txnRepo     portsrepo.TransactionRepositoryFacade
	accountRepo portsrepo.AccountRepositoryFacade
	churchSvc   portssvc.ChurchAuthorizerSvc
}

// NewTransactionService creates a new TransactionService.
func NewTransactionService(
	txnRepo portsrepo.TransactionRepositoryFacade,
	accountRepo portsrepo.AccountRepositoryFacade,
	churchSvc portssvc.ChurchAuthorizerSvc,
) portssvc.TransactionSvcFacade {
	return &transactionService{
		txnRepo:     txnRepo,
		accountRepo: accountRepo,
		churchSvc:   churchSvc,
	}
}

var _ portssvc.TransactionSvcFacade = (*transactionService)(nil)

// loadPostableAccount fetches an account and verifies it can take a posting
// for the given church.
func (s *transactionService) loadPostableAccount(ctx context.Context, churchID, accountID, side string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("%s account: %w", side, err)
	}
	if !account.VisibleTo(churchID) {
		return nil, fmt.Errorf("%w: %s account %s not found", apperrors.ErrNotFound, side, accountID)
	}
	if !account.IsActive {
		return nil, fmt.Errorf("%w: %s account %s is inactive", apperrors.ErrValidation, side, account.Code)
	}
	if !account.AllowTransaction {
		return nil, fmt.Errorf("%w: %s account %s does not allow direct postings", apperrors.ErrValidation, side, account.Code)
	}
	return account, nil
}

// PostTransaction records one balanced double-entry movement between two
// postable accounts.
func (s *transactionService) PostTransaction(ctx context.Context, churchID string, req dto.CreateTransactionRequest, creatorUserID string) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.churchSvc.AuthorizeUserAction(ctx, creatorUserID, churchID, domain.RoleDepartmentAccountant); err != nil {
		return nil, err
	}

	if req.DebitAccountID == req.CreditAccountID {
		return nil, fmt.Errorf("%w: debit and credit accounts must differ", apperrors.ErrValidation)
	}
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}

	if _, err := s.loadPostableAccount(ctx, churchID, req.DebitAccountID, "debit"); err != nil {
		return nil, err
	}
	if _, err := s.loadPostableAccount(ctx, churchID, req.CreditAccountID, "credit"); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	txn := domain.Transaction{
		TransactionID:   uuid.NewString(),
		ChurchID:        churchID,
		DebitAccountID:  req.DebitAccountID,
		CreditAccountID: req.CreditAccountID,
		Amount:          req.Amount,
		TransactionDate: req.TransactionDate,
		Description:     req.Description,
		Reference:       req.Reference,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.txnRepo.SaveTransaction(ctx, txn); err != nil {
		logger.Error("Failed to save transaction", slog.String("error", err.Error()), slog.String("church_id", churchID))
		return nil, fmt.Errorf("failed to save transaction: %w", err)
	}

	logger.Info("Transaction posted",
		slog.String("transaction_id", txn.TransactionID),
		slog.String("amount", txn.Amount.String()),
	)
	return &txn, nil
}

// DeleteTransaction removes a posted transaction. Administrators only, since
// it rewrites reported history.
func (s *transactionService) DeleteTransaction(ctx context.Context, churchID, transactionID string, deleterUserID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.churchSvc.AuthorizeUserAction(ctx, deleterUserID, churchID, domain.RoleAdmin); err != nil {
		return err
	}

	txn, err := s.txnRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return err
	}
	if txn.ChurchID != churchID {
		return apperrors.ErrNotFound
	}

	if err := s.txnRepo.DeleteTransaction(ctx, transactionID); err != nil {
		logger.Error("Failed to delete transaction", slog.String("error", err.Error()), slog.String("transaction_id", transactionID))
		return fmt.Errorf("failed to delete transaction: %w", err)
	}

	logger.Info("Transaction deleted", slog.String("transaction_id", transactionID))
	return nil
}

// GetAccountLedger computes the period ledger for one account: the beginning
// balance folded over everything before the period, then a running balance
// line per transaction inside it.
func (s *transactionService) GetAccountLedger(ctx context.Context, churchID, accountID string, from, to time.Time, requestingUserID string) (*domain.AccountLedger, error) {
	if _, err := s.churchSvc.AuthorizeUserAction(ctx, requestingUserID, churchID, domain.RoleMember); err != nil {
		return nil, err
	}
	if to.Before(from) {
		return nil, fmt.Errorf("%w: period end precedes period start", apperrors.ErrValidation)
	}

	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if !account.VisibleTo(churchID) {
		return nil, apperrors.ErrNotFound
	}

	debitBefore, creditBefore, err := s.txnRepo.SumAccountActivityBefore(ctx, accountID, from)
	if err != nil {
		return nil, fmt.Errorf("failed to sum prior activity: %w", err)
	}
	beginning, err := accounting.SignedBalance(debitBefore, creditBefore, account.AccountType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrIntegrity, err)
	}

	txns, err := s.txnRepo.ListTransactionsByAccount(ctx, accountID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list period transactions: %w", err)
	}

	ledger := domain.AccountLedger{
		AccountID:        account.AccountID,
		BeginningBalance: beginning,
		Lines:            make([]domain.LedgerLine, 0, len(txns)),
		CurrentBalance:   beginning,
	}

	running := beginning
	for _, txn := range txns {
		isDebit := txn.DebitAccountID == accountID
		signed, err := accounting.SignedAmount(txn.Amount, account.AccountType, isDebit)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrIntegrity, err)
		}
		running = running.Add(signed)
		ledger.Lines = append(ledger.Lines, domain.LedgerLine{
			Transaction:    txn,
			IsDebit:        isDebit,
			RunningBalance: running,
		})
	}
	ledger.CurrentBalance = running

	return &ledger, nil
}

// GetTrialBalance aggregates every account's signed balance for the period.
// A trial balance whose debit and credit totals disagree beyond tolerance is
// an integrity failure, not a report.
func (s *transactionService) GetTrialBalance(ctx context.Context, churchID string, from, to time.Time, levelFilter *int, requestingUserID string) (*domain.TrialBalance, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.churchSvc.AuthorizeUserAction(ctx, requestingUserID, churchID, domain.RoleMember); err != nil {
		return nil, err
	}
	if to.Before(from) {
		return nil, fmt.Errorf("%w: period end precedes period start", apperrors.ErrValidation)
	}

	activity, err := s.txnRepo.AggregateActivity(ctx, churchID, from, to, levelFilter)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate account activity: %w", err)
	}

	tb := domain.TrialBalance{
		Rows:        make([]domain.TrialBalanceRow, 0, len(activity)),
		TotalDebit:  decimal.Zero,
		TotalCredit: decimal.Zero,
	}

	for _, act := range activity {
		balance, err := accounting.SignedBalance(act.DebitTotal, act.CreditTotal, act.Account.AccountType)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrIntegrity, err)
		}
		tb.Rows = append(tb.Rows, domain.TrialBalanceRow{
			AccountID:   act.Account.AccountID,
			Code:        act.Account.Code,
			Name:        act.Account.Name,
			AccountType: act.Account.AccountType,
			Level:       act.Account.Level,
			DebitTotal:  act.DebitTotal,
			CreditTotal: act.CreditTotal,
			Balance:     balance,
		})
		tb.TotalDebit = tb.TotalDebit.Add(act.DebitTotal)
		tb.TotalCredit = tb.TotalCredit.Add(act.CreditTotal)

		// Summary buckets accumulate the positive component only.
		if balance.IsPositive() {
			switch act.Account.AccountType {
			case domain.Asset:
				tb.Summary.Assets = tb.Summary.Assets.Add(balance)
			case domain.Liability:
				tb.Summary.Liabilities = tb.Summary.Liabilities.Add(balance)
			case domain.Equity:
				tb.Summary.Equity = tb.Summary.Equity.Add(balance)
			case domain.Revenue:
				tb.Summary.Revenue = tb.Summary.Revenue.Add(balance)
			case domain.Expense:
				tb.Summary.Expenses = tb.Summary.Expenses.Add(balance)
			}
		}
	}

	tb.IsBalanced = domain.AmountsEqual(tb.TotalDebit, tb.TotalCredit)
	if !tb.IsBalanced {
		logger.Error("Trial balance does not balance",
			slog.String("church_id", churchID),
			slog.String("total_debit", tb.TotalDebit.String()),
			slog.String("total_credit", tb.TotalCredit.String()),
		)
		return nil, fmt.Errorf("%w: trial balance out of balance, debits %s vs credits %s",
			apperrors.ErrIntegrity, tb.TotalDebit.String(), tb.TotalCredit.String())
	}

	return &tb, nil
}
