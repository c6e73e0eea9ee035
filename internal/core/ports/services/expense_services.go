package services

import (
	"context"

	"github.com/parishware/church_finance_app/internal/core/domain"
	"github.com/parishware/church_finance_app/internal/dto"
)

// ExpenseSvcFacade drives an expense report through the fixed approval chain,
// consulting the budget before each terminal transition.
type ExpenseSvcFacade interface {
	CreateExpense(ctx context.Context, churchID string, req dto.CreateExpenseRequest, requesterUserID string) (*domain.ExpenseReport, error)
	GetExpenseByID(ctx context.Context, churchID, expenseReportID string, requestingUserID string) (*domain.ExpenseReport, error)
	ListExpenses(ctx context.Context, churchID string, requestingUserID string, params dto.ListExpensesParams) ([]domain.ExpenseReport, error)

	// SubmitExpense moves a DRAFT report into the approval chain.
	SubmitExpense(ctx context.Context, churchID, expenseReportID string, requesterUserID string) (*domain.ExpenseReport, error)

	// ApproveStep applies an approver's decision to the current step.
	ApproveStep(ctx context.Context, churchID, expenseReportID string, req dto.ApproveStepRequest, actorUserID string) (*domain.ExpenseReport, error)

	// ApproveDirect is the simplified single-step path restricted to
	// managerial roles, bypassing the chain.
	ApproveDirect(ctx context.Context, churchID, expenseReportID string, status domain.ExpenseStatus, actorUserID string) (*domain.ExpenseReport, error)

	DeleteExpense(ctx context.Context, churchID, expenseReportID string, actorUserID string) error

	// ValidateBudgetExpense checks sufficiency without writing anything.
	ValidateBudgetExpense(ctx context.Context, churchID string, req dto.ValidateBudgetExpenseRequest, requestingUserID string) dto.ValidateBudgetExpenseResponse
}
