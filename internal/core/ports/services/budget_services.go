package services

import (
	"context"

	"github.com/parishware/church_finance_app/internal/core/domain"
	"github.com/parishware/church_finance_app/internal/dto"
	"github.com/shopspring/decimal"
)

// BudgetSvcFacade owns budgets, their line items and execution counters, and
// the budget change (transfer) workflow.
type BudgetSvcFacade interface {
	CreateBudget(ctx context.Context, churchID string, req dto.CreateBudgetRequest, creatorUserID string) (*domain.Budget, error)
	GetBudgetByID(ctx context.Context, churchID, budgetID string, requestingUserID string) (*domain.Budget, error)
	ListBudgets(ctx context.Context, churchID string, requestingUserID string, params dto.ListBudgetsParams) ([]domain.Budget, error)
	UpdateBudget(ctx context.Context, churchID, budgetID string, req dto.UpdateBudgetRequest, updaterUserID string) (*domain.Budget, error)
	ApproveBudget(ctx context.Context, churchID, budgetID string, decision string, approverUserID string) (*domain.Budget, error)

	RequestBudgetChange(ctx context.Context, churchID, budgetID string, req dto.RequestBudgetChangeRequest, requesterUserID string) (*domain.BudgetChange, error)
	ApproveBudgetChange(ctx context.Context, churchID, budgetChangeID string, decision domain.BudgetChangeStatus, approverUserID string) (*domain.BudgetChange, error)

	// CheckBalance answers whether requestAmount can still be drawn from the item.
	CheckBalance(ctx context.Context, churchID, budgetItemID string, requestAmount decimal.Decimal, requestingUserID string) (*domain.BudgetBalance, error)
}
