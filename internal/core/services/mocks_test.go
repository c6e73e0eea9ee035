package services_test

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/parishware/church_finance_app/internal/core/domain"
	portsrepo "github.com/parishware/church_finance_app/internal/core/ports/repositories"
	portssvc "github.com/parishware/church_finance_app/internal/core/ports/services"
	"github.com/parishware/church_finance_app/internal/dto"
)

// --- Mock ChurchService ---

type MockChurchService struct {
	mock.Mock
}

var _ portssvc.ChurchSvcFacade = (*MockChurchService)(nil)

func (m *MockChurchService) AuthorizeUserAction(ctx context.Context, userID, churchID string, minRole domain.ChurchRole) (domain.ChurchRole, error) {
	args := m.Called(ctx, userID, churchID, minRole)
	return args.Get(0).(domain.ChurchRole), args.Error(1)
}

func (m *MockChurchService) CreateChurch(ctx context.Context, req dto.CreateChurchRequest, creatorUserID string) (*domain.Church, error) {
	args := m.Called(ctx, req, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Church), args.Error(1)
}

func (m *MockChurchService) GetChurchByID(ctx context.Context, churchID string, requestingUserID string) (*domain.Church, error) {
	args := m.Called(ctx, churchID, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Church), args.Error(1)
}

func (m *MockChurchService) AddUserToChurch(ctx context.Context, churchID string, req dto.AddChurchMemberRequest, addingUserID string) error {
	args := m.Called(ctx, churchID, req, addingUserID)
	return args.Error(0)
}

func (m *MockChurchService) ListApproversForRole(ctx context.Context, churchID string, role domain.ChurchRole) ([]string, error) {
	args := m.Called(ctx, churchID, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// --- Mock NotificationEnqueuer ---

type MockNotifier struct {
	mock.Mock
}

var _ portssvc.NotificationEnqueuer = (*MockNotifier)(nil)

func (m *MockNotifier) Enqueue(ctx context.Context, recipientID string, notifType domain.NotificationType, title, message, relatedID string) {
	m.Called(ctx, recipientID, notifType, title, message, relatedID)
}

// --- Mock AccountRepository ---

type MockAccountRepository struct {
	mock.Mock
}

var _ portsrepo.AccountRepositoryFacade = (*MockAccountRepository)(nil)

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountByCode(ctx context.Context, churchID string, code string) (*domain.Account, error) {
	args := m.Called(ctx, churchID, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccounts(ctx context.Context, churchID string, includeInactive bool) ([]domain.Account, error) {
	args := m.Called(ctx, churchID, includeInactive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) CountActiveChildren(ctx context.Context, accountID string) (int, error) {
	args := m.Called(ctx, accountID)
	return args.Int(0), args.Error(1)
}

func (m *MockAccountRepository) HasTransactions(ctx context.Context, accountID string) (bool, error) {
	args := m.Called(ctx, accountID)
	return args.Bool(0), args.Error(1)
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

// --- Mock TransactionRepository ---

type MockTransactionRepository struct {
	mock.Mock
}

var _ portsrepo.TransactionRepositoryFacade = (*MockTransactionRepository)(nil)

func (m *MockTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) ListTransactionsByAccount(ctx context.Context, accountID string, from, to time.Time) ([]domain.Transaction, error) {
	args := m.Called(ctx, accountID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) SumAccountActivityBefore(ctx context.Context, accountID string, before time.Time) (decimal.Decimal, decimal.Decimal, error) {
	args := m.Called(ctx, accountID, before)
	return args.Get(0).(decimal.Decimal), args.Get(1).(decimal.Decimal), args.Error(2)
}

func (m *MockTransactionRepository) AggregateActivity(ctx context.Context, churchID string, from, to time.Time, levelFilter *int) ([]portsrepo.AccountActivity, error) {
	args := m.Called(ctx, churchID, from, to, levelFilter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]portsrepo.AccountActivity), args.Error(1)
}

func (m *MockTransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

func (m *MockTransactionRepository) DeleteTransaction(ctx context.Context, transactionID string) error {
	args := m.Called(ctx, transactionID)
	return args.Error(0)
}

// --- Mock BudgetRepository ---

type MockBudgetRepository struct {
	mock.Mock
}

var _ portsrepo.BudgetRepositoryFacade = (*MockBudgetRepository)(nil)

func (m *MockBudgetRepository) FindBudgetByID(ctx context.Context, budgetID string) (*domain.Budget, error) {
	args := m.Called(ctx, budgetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Budget), args.Error(1)
}

func (m *MockBudgetRepository) FindBudgetByPeriod(ctx context.Context, churchID, departmentID string, year int, quarter, month *int) (*domain.Budget, error) {
	args := m.Called(ctx, churchID, departmentID, year, quarter, month)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Budget), args.Error(1)
}

func (m *MockBudgetRepository) ListBudgetsByChurch(ctx context.Context, churchID string, departmentID *string, year *int) ([]domain.Budget, error) {
	args := m.Called(ctx, churchID, departmentID, year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Budget), args.Error(1)
}

func (m *MockBudgetRepository) FindBudgetItemByID(ctx context.Context, budgetItemID string) (*domain.BudgetItem, error) {
	args := m.Called(ctx, budgetItemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BudgetItem), args.Error(1)
}

func (m *MockBudgetRepository) FindExecutionByItemID(ctx context.Context, budgetItemID string) (*domain.BudgetExecution, error) {
	args := m.Called(ctx, budgetItemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BudgetExecution), args.Error(1)
}

func (m *MockBudgetRepository) FindBudgetChangeByID(ctx context.Context, budgetChangeID string) (*domain.BudgetChange, error) {
	args := m.Called(ctx, budgetChangeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BudgetChange), args.Error(1)
}

func (m *MockBudgetRepository) HasExpensesForBudget(ctx context.Context, budgetID string, statuses []domain.ExpenseStatus) (bool, error) {
	args := m.Called(ctx, budgetID, statuses)
	return args.Bool(0), args.Error(1)
}

func (m *MockBudgetRepository) SaveBudget(ctx context.Context, budget domain.Budget, items []domain.BudgetItem, executions []domain.BudgetExecution) error {
	args := m.Called(ctx, budget, items, executions)
	return args.Error(0)
}

func (m *MockBudgetRepository) ReplaceBudgetItems(ctx context.Context, budget domain.Budget, items []domain.BudgetItem, executions []domain.BudgetExecution) error {
	args := m.Called(ctx, budget, items, executions)
	return args.Error(0)
}

func (m *MockBudgetRepository) UpdateBudgetStatus(ctx context.Context, budgetID string, status domain.BudgetStatus, approvedBy string, approvedAt time.Time) error {
	args := m.Called(ctx, budgetID, status, approvedBy, approvedAt)
	return args.Error(0)
}

func (m *MockBudgetRepository) SaveBudgetChange(ctx context.Context, change domain.BudgetChange) error {
	args := m.Called(ctx, change)
	return args.Error(0)
}

func (m *MockBudgetRepository) ApplyBudgetChange(ctx context.Context, change domain.BudgetChange, processedBy string, processedAt time.Time) error {
	args := m.Called(ctx, change, processedBy, processedAt)
	return args.Error(0)
}

func (m *MockBudgetRepository) RejectBudgetChange(ctx context.Context, budgetChangeID string, processedBy string, processedAt time.Time) error {
	args := m.Called(ctx, budgetChangeID, processedBy, processedAt)
	return args.Error(0)
}

func (m *MockBudgetRepository) RecalculateInTx(ctx context.Context, tx pgx.Tx, budgetItemID string, updatedBy string, updatedAt time.Time) (*domain.BudgetExecution, error) {
	args := m.Called(ctx, tx, budgetItemID, updatedBy, updatedAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BudgetExecution), args.Error(1)
}

func (m *MockBudgetRepository) Recalculate(ctx context.Context, budgetItemID string, updatedBy string, updatedAt time.Time) (*domain.BudgetExecution, error) {
	args := m.Called(ctx, budgetItemID, updatedBy, updatedAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BudgetExecution), args.Error(1)
}

// --- Mock ExpenseRepository ---

type MockExpenseRepository struct {
	mock.Mock
}

var _ portsrepo.ExpenseRepositoryFacade = (*MockExpenseRepository)(nil)

func (m *MockExpenseRepository) FindExpenseByID(ctx context.Context, expenseReportID string) (*domain.ExpenseReport, error) {
	args := m.Called(ctx, expenseReportID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExpenseReport), args.Error(1)
}

func (m *MockExpenseRepository) ListExpensesByChurch(ctx context.Context, churchID string, status *domain.ExpenseStatus, budgetItemID *string) ([]domain.ExpenseReport, error) {
	args := m.Called(ctx, churchID, status, budgetItemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ExpenseReport), args.Error(1)
}

func (m *MockExpenseRepository) SaveExpense(ctx context.Context, report domain.ExpenseReport, steps []domain.ApprovalStep) error {
	args := m.Called(ctx, report, steps)
	return args.Error(0)
}

func (m *MockExpenseRepository) MarkSubmitted(ctx context.Context, report domain.ExpenseReport) error {
	args := m.Called(ctx, report)
	return args.Error(0)
}

func (m *MockExpenseRepository) AdvanceStep(ctx context.Context, report domain.ExpenseReport, step domain.ApprovalStep) error {
	args := m.Called(ctx, report, step)
	return args.Error(0)
}

func (m *MockExpenseRepository) RejectWorkflow(ctx context.Context, report domain.ExpenseReport, step domain.ApprovalStep) error {
	args := m.Called(ctx, report, step)
	return args.Error(0)
}

func (m *MockExpenseRepository) FinalizeApproval(ctx context.Context, report domain.ExpenseReport, step domain.ApprovalStep) error {
	args := m.Called(ctx, report, step)
	return args.Error(0)
}

func (m *MockExpenseRepository) UpdateExpenseStatus(ctx context.Context, report domain.ExpenseReport) error {
	args := m.Called(ctx, report)
	return args.Error(0)
}

func (m *MockExpenseRepository) DeleteExpense(ctx context.Context, expenseReportID string) error {
	args := m.Called(ctx, expenseReportID)
	return args.Error(0)
}

// --- Mock DepartmentReader ---

type MockDepartmentReader struct {
	mock.Mock
}

var _ portsrepo.DepartmentReader = (*MockDepartmentReader)(nil)

func (m *MockDepartmentReader) FindDepartmentByID(ctx context.Context, departmentID string) (*domain.Department, error) {
	args := m.Called(ctx, departmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Department), args.Error(1)
}

// --- Mock ChurchRepository ---

type MockChurchRepository struct {
	mock.Mock
}

var _ portsrepo.ChurchRepositoryFacade = (*MockChurchRepository)(nil)

func (m *MockChurchRepository) FindChurchByID(ctx context.Context, churchID string) (*domain.Church, error) {
	args := m.Called(ctx, churchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Church), args.Error(1)
}

func (m *MockChurchRepository) FindUserChurchRole(ctx context.Context, userID, churchID string) (domain.ChurchRole, error) {
	args := m.Called(ctx, userID, churchID)
	return args.Get(0).(domain.ChurchRole), args.Error(1)
}

func (m *MockChurchRepository) ListUserIDsByRole(ctx context.Context, churchID string, role domain.ChurchRole) ([]string, error) {
	args := m.Called(ctx, churchID, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockChurchRepository) SaveChurch(ctx context.Context, church domain.Church) error {
	args := m.Called(ctx, church)
	return args.Error(0)
}

func (m *MockChurchRepository) AddUserToChurch(ctx context.Context, membership domain.UserChurch) error {
	args := m.Called(ctx, membership)
	return args.Error(0)
}

// --- Mock UserRepository ---

type MockUserRepository struct {
	mock.Mock
}

var _ portsrepo.UserRepositoryFacade = (*MockUserRepository)(nil)

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}
