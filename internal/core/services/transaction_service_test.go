package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/parishware/church_finance_app/internal/apperrors"
	"github.com/parishware/church_finance_app/internal/core/domain"
	portsrepo "github.com/parishware/church_finance_app/internal/core/ports/repositories"
	portssvc "github.com/parishware/church_finance_app/internal/core/ports/services"
	"github.com/parishware/church_finance_app/internal/core/services"
	"github.com/parishware/church_finance_app/internal/dto"
)

// --- Test Suite Setup ---
type TransactionServiceTestSuite struct {
	suite.Suite
	mockTxnRepo     *MockTransactionRepository
	mockAccountRepo *MockAccountRepository
	mockChurchSvc   *MockChurchService
	service         portssvc.TransactionSvcFacade
	churchID        string
	userID          string
	cashAccount     domain.Account
	expenseAccount  domain.Account
	revenueAccount  domain.Account
}

func (suite *TransactionServiceTestSuite) SetupTest() {
	suite.mockTxnRepo = new(MockTransactionRepository)
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.mockChurchSvc = new(MockChurchService)
	suite.service = services.NewTransactionService(suite.mockTxnRepo, suite.mockAccountRepo, suite.mockChurchSvc)

	suite.churchID = uuid.NewString()
	suite.userID = uuid.NewString()

	churchID := suite.churchID
	suite.cashAccount = domain.Account{
		AccountID:        uuid.NewString(),
		ChurchID:         &churchID,
		Code:             "1-11-01",
		Name:             "Cash on hand",
		AccountType:      domain.Asset,
		Level:            3,
		AllowTransaction: true,
		IsActive:         true,
	}
	suite.expenseAccount = domain.Account{
		AccountID:        uuid.NewString(),
		ChurchID:         &churchID,
		Code:             "5-01-01",
		Name:             "Office supplies",
		AccountType:      domain.Expense,
		Level:            3,
		AllowTransaction: true,
		IsActive:         true,
	}
	suite.revenueAccount = domain.Account{
		AccountID:        uuid.NewString(),
		ChurchID:         &churchID,
		Code:             "4-01",
		Name:             "Tithes",
		AccountType:      domain.Revenue,
		Level:            2,
		AllowTransaction: true,
		IsActive:         true,
	}
}

// --- Test Cases ---

func (suite *TransactionServiceTestSuite) TestPostTransaction_Success() {
	ctx := context.Background()
	req := dto.CreateTransactionRequest{
		DebitAccountID:  suite.expenseAccount.AccountID,
		CreditAccountID: suite.cashAccount.AccountID,
		Amount:          decimal.NewFromInt(75),
		TransactionDate: time.Now().UTC(),
		Description:     "Printer paper",
	}

	suite.mockChurchSvc.On("AuthorizeUserAction", ctx, suite.userID, suite.churchID, domain.RoleDepartmentAccountant).Return(domain.RoleDepartmentAccountant, nil).Once()
	suite.mockAccountRepo.On("FindAccountByID", ctx, suite.expenseAccount.AccountID).Return(&suite.expenseAccount, nil).Once()
	suite.mockAccountRepo.On("FindAccountByID", ctx, suite.cashAccount.AccountID).Return(&suite.cashAccount, nil).Once()
	suite.mockTxnRepo.On("SaveTransaction", ctx, mock.AnythingOfType("domain.Transaction")).Return(nil).Once()

	txn, err := suite.service.PostTransaction(ctx, suite.churchID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(txn)
	suite.NotEmpty(txn.TransactionID)
	suite.Equal(suite.churchID, txn.ChurchID)
	suite.True(txn.Amount.Equal(decimal.NewFromInt(75)))
	suite.Equal(suite.userID, txn.CreatedBy)
	suite.mockTxnRepo.AssertExpectations(suite.T())
}

func (suite *TransactionServiceTestSuite) TestPostTransaction_SameAccount() {
	ctx := context.Background()
	req := dto.CreateTransactionRequest{
		DebitAccountID:  suite.cashAccount.AccountID,
		CreditAccountID: suite.cashAccount.AccountID,
		Amount:          decimal.NewFromInt(10),
		TransactionDate: time.Now().UTC(),
	}

	suite.mockChurchSvc.On("AuthorizeUserAction", ctx, suite.userID, suite.churchID, domain.RoleDepartmentAccountant).Return(domain.RoleDepartmentAccountant, nil).Once()

	_, err := suite.service.PostTransaction(ctx, suite.churchID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "SaveTransaction", mock.Anything, mock.Anything)
}

func (suite *TransactionServiceTestSuite) TestPostTransaction_NonPositiveAmount() {
	ctx := context.Background()
	req := dto.CreateTransactionRequest{
		DebitAccountID:  suite.expenseAccount.AccountID,
		CreditAccountID: suite.cashAccount.AccountID,
		Amount:          decimal.NewFromInt(-5),
		TransactionDate: time.Now().UTC(),
	}

	suite.mockChurchSvc.On("AuthorizeUserAction", ctx, suite.userID, suite.churchID, domain.RoleDepartmentAccountant).Return(domain.RoleDepartmentAccountant, nil).Once()

	_, err := suite.service.PostTransaction(ctx, suite.churchID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *TransactionServiceTestSuite) TestPostTransaction_InactiveAccount() {
	ctx := context.Background()
	suite.expenseAccount.IsActive = false
	req := dto.CreateTransactionRequest{
		DebitAccountID:  suite.expenseAccount.AccountID,
		CreditAccountID: suite.cashAccount.AccountID,
		Amount:          decimal.NewFromInt(10),
		TransactionDate: time.Now().UTC(),
	}

	suite.mockChurchSvc.On("AuthorizeUserAction", ctx, suite.userID, suite.churchID, domain.RoleDepartmentAccountant).Return(domain.RoleDepartmentAccountant, nil).Once()
	suite.mockAccountRepo.On("FindAccountByID", ctx, suite.expenseAccount.AccountID).Return(&suite.expenseAccount, nil).Once()

	_, err := suite.service.PostTransaction(ctx, suite.churchID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *TransactionServiceTestSuite) TestPostTransaction_SummaryAccountRefused() {
	ctx := context.Background()
	suite.expenseAccount.AllowTransaction = false
	req := dto.CreateTransactionRequest{
		DebitAccountID:  suite.expenseAccount.AccountID,
		CreditAccountID: suite.cashAccount.AccountID,
		Amount:          decimal.NewFromInt(10),
		TransactionDate: time.Now().UTC(),
	}

	suite.mockChurchSvc.On("AuthorizeUserAction", ctx, suite.userID, suite.churchID, domain.RoleDepartmentAccountant).Return(domain.RoleDepartmentAccountant, nil).Once()
	suite.mockAccountRepo.On("FindAccountByID", ctx, suite.expenseAccount.AccountID).Return(&suite.expenseAccount, nil).Once()

	_, err := suite.service.PostTransaction(ctx, suite.churchID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *TransactionServiceTestSuite) TestPostTransaction_ForeignAccountHidden() {
	ctx := context.Background()
	otherChurchID := uuid.NewString()
	suite.expenseAccount.ChurchID = &otherChurchID
	req := dto.CreateTransactionRequest{
		DebitAccountID:  suite.expenseAccount.AccountID,
		CreditAccountID: suite.cashAccount.AccountID,
		Amount:          decimal.NewFromInt(10),
		TransactionDate: time.Now().UTC(),
	}

	suite.mockChurchSvc.On("AuthorizeUserAction", ctx, suite.userID, suite.churchID, domain.RoleDepartmentAccountant).Return(domain.RoleDepartmentAccountant, nil).Once()
	suite.mockAccountRepo.On("FindAccountByID", ctx, suite.expenseAccount.AccountID).Return(&suite.expenseAccount, nil).Once()

	_, err := suite.service.PostTransaction(ctx, suite.churchID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *TransactionServiceTestSuite) TestGetAccountLedger_RunningBalance() {
	ctx := context.Background()
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)
	accountID := suite.cashAccount.AccountID

	// 500 debited, 100 credited before the period: asset begins at 400.
	suite.mockChurchSvc.On("AuthorizeUserAction", ctx, suite.userID, suite.churchID, domain.RoleMember).Return(domain.RoleMember, nil).Once()
	suite.mockAccountRepo.On("FindAccountByID", ctx, accountID).Return(&suite.cashAccount, nil).Once()
	suite.mockTxnRepo.On("SumAccountActivityBefore", ctx, accountID, from).Return(decimal.NewFromInt(500), decimal.NewFromInt(100), nil).Once()

	txns := []domain.Transaction{
		{
			TransactionID:   uuid.NewString(),
			ChurchID:        suite.churchID,
			DebitAccountID:  accountID,
			CreditAccountID: suite.revenueAccount.AccountID,
			Amount:          decimal.NewFromInt(200),
			TransactionDate: from.AddDate(0, 0, 5),
		},
		{
			TransactionID:   uuid.NewString(),
			ChurchID:        suite.churchID,
			DebitAccountID:  suite.expenseAccount.AccountID,
			CreditAccountID: accountID,
			Amount:          decimal.NewFromInt(50),
			TransactionDate: from.AddDate(0, 0, 10),
		},
	}
	suite.mockTxnRepo.On("ListTransactionsByAccount", ctx, accountID, from, to).Return(txns, nil).Once()

	ledger, err := suite.service.GetAccountLedger(ctx, suite.churchID, accountID, from, to, suite.userID)

	suite.Require().NoError(err)
	suite.True(ledger.BeginningBalance.Equal(decimal.NewFromInt(400)))
	suite.Require().Len(ledger.Lines, 2)
	suite.True(ledger.Lines[0].IsDebit)
	suite.True(ledger.Lines[0].RunningBalance.Equal(decimal.NewFromInt(600)))
	suite.False(ledger.Lines[1].IsDebit)
	suite.True(ledger.Lines[1].RunningBalance.Equal(decimal.NewFromInt(550)))
	suite.True(ledger.CurrentBalance.Equal(decimal.NewFromInt(550)))
}

func (suite *TransactionServiceTestSuite) TestGetAccountLedger_RevenueSignConvention() {
	ctx := context.Background()
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)
	accountID := suite.revenueAccount.AccountID

	suite.mockChurchSvc.On("AuthorizeUserAction", ctx, suite.userID, suite.churchID, domain.RoleMember).Return(domain.RoleMember, nil).Once()
	suite.mockAccountRepo.On("FindAccountByID", ctx, accountID).Return(&suite.revenueAccount, nil).Once()
	suite.mockTxnRepo.On("SumAccountActivityBefore", ctx, accountID, from).Return(decimal.Zero, decimal.Zero, nil).Once()

	// A credit increases a revenue account.
	txns := []domain.Transaction{
		{
			TransactionID:   uuid.NewString(),
			ChurchID:        suite.churchID,
			DebitAccountID:  suite.cashAccount.AccountID,
			CreditAccountID: accountID,
			Amount:          decimal.NewFromInt(300),
			TransactionDate: from.AddDate(0, 0, 3),
		},
	}
	suite.mockTxnRepo.On("ListTransactionsByAccount", ctx, accountID, from, to).Return(txns, nil).Once()

	ledger, err := suite.service.GetAccountLedger(ctx, suite.churchID, accountID, from, to, suite.userID)

	suite.Require().NoError(err)
	suite.True(ledger.CurrentBalance.Equal(decimal.NewFromInt(300)))
}

func (suite *TransactionServiceTestSuite) TestGetAccountLedger_InvertedPeriod() {
	ctx := context.Background()
	from := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	suite.mockChurchSvc.On("AuthorizeUserAction", ctx, suite.userID, suite.churchID, domain.RoleMember).Return(domain.RoleMember, nil).Once()

	_, err := suite.service.GetAccountLedger(ctx, suite.churchID, suite.cashAccount.AccountID, from, to, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *TransactionServiceTestSuite) TestGetTrialBalance_Balanced() {
	ctx := context.Background()
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)

	activity := []portsrepo.AccountActivity{
		{Account: suite.cashAccount, DebitTotal: decimal.NewFromInt(300), CreditTotal: decimal.NewFromInt(100)},
		{Account: suite.expenseAccount, DebitTotal: decimal.NewFromInt(100), CreditTotal: decimal.Zero},
		{Account: suite.revenueAccount, DebitTotal: decimal.Zero, CreditTotal: decimal.NewFromInt(300)},
	}

	suite.mockChurchSvc.On("AuthorizeUserAction", ctx, suite.userID, suite.churchID, domain.RoleMember).Return(domain.RoleMember, nil).Once()
	suite.mockTxnRepo.On("AggregateActivity", ctx, suite.churchID, from, to, (*int)(nil)).Return(activity, nil).Once()

	tb, err := suite.service.GetTrialBalance(ctx, suite.churchID, from, to, nil, suite.userID)

	suite.Require().NoError(err)
	suite.True(tb.IsBalanced)
	suite.True(tb.TotalDebit.Equal(decimal.NewFromInt(400)))
	suite.True(tb.TotalCredit.Equal(decimal.NewFromInt(400)))
	suite.Require().Len(tb.Rows, 3)
	suite.True(tb.Summary.Assets.Equal(decimal.NewFromInt(200)))
	suite.True(tb.Summary.Expenses.Equal(decimal.NewFromInt(100)))
	suite.True(tb.Summary.Revenue.Equal(decimal.NewFromInt(300)))
}

func (suite *TransactionServiceTestSuite) TestGetTrialBalance_Unbalanced() {
	ctx := context.Background()
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)

	activity := []portsrepo.AccountActivity{
		{Account: suite.cashAccount, DebitTotal: decimal.NewFromInt(300), CreditTotal: decimal.Zero},
		{Account: suite.revenueAccount, DebitTotal: decimal.Zero, CreditTotal: decimal.NewFromInt(250)},
	}

	suite.mockChurchSvc.On("AuthorizeUserAction", ctx, suite.userID, suite.churchID, domain.RoleMember).Return(domain.RoleMember, nil).Once()
	suite.mockTxnRepo.On("AggregateActivity", ctx, suite.churchID, from, to, (*int)(nil)).Return(activity, nil).Once()

	_, err := suite.service.GetTrialBalance(ctx, suite.churchID, from, to, nil, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrIntegrity)
}

func (suite *TransactionServiceTestSuite) TestDeleteTransaction_AdminOnly() {
	ctx := context.Background()

	suite.mockChurchSvc.On("AuthorizeUserAction", ctx, suite.userID, suite.churchID, domain.RoleAdmin).Return(domain.ChurchRole(""), apperrors.ErrForbidden).Once()

	err := suite.service.DeleteTransaction(ctx, suite.churchID, uuid.NewString(), suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "DeleteTransaction", mock.Anything, mock.Anything)
}

func (suite *TransactionServiceTestSuite) TestDeleteTransaction_OtherChurchHidden() {
	ctx := context.Background()
	txn := &domain.Transaction{
		TransactionID: uuid.NewString(),
		ChurchID:      uuid.NewString(),
		Amount:        decimal.NewFromInt(10),
	}

	suite.mockChurchSvc.On("AuthorizeUserAction", ctx, suite.userID, suite.churchID, domain.RoleAdmin).Return(domain.RoleAdmin, nil).Once()
	suite.mockTxnRepo.On("FindTransactionByID", ctx, txn.TransactionID).Return(txn, nil).Once()

	err := suite.service.DeleteTransaction(ctx, suite.churchID, txn.TransactionID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "DeleteTransaction", mock.Anything, mock.Anything)
}

// --- Run Test Suite ---
func TestTransactionService(t *testing.T) {
	suite.Run(t, new(TransactionServiceTestSuite))
}
