package dto

import (
	"time"

	"github.com/parishware/church_finance_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// BudgetItemRequest is one category line of a budget being created or replaced.
type BudgetItemRequest struct {
	Category    string          `json:"category" binding:"required"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
}

// CreateBudgetRequest defines the data needed to create a departmental budget.
// The item amounts must sum to totalAmount within the 0.01 tolerance.
type CreateBudgetRequest struct {
	DepartmentID string              `json:"departmentID" binding:"required"`
	Name         string              `json:"name" binding:"required"`
	Year         int                 `json:"year" binding:"required,min=2000,max=2200"`
	Quarter      *int                `json:"quarter" binding:"omitempty,min=1,max=4"`
	Month        *int                `json:"month" binding:"omitempty,min=1,max=12"`
	TotalAmount  decimal.Decimal     `json:"totalAmount" binding:"required"`
	StartDate    time.Time           `json:"startDate" binding:"required"`
	EndDate      time.Time           `json:"endDate" binding:"required"`
	Items        []BudgetItemRequest `json:"items" binding:"required,min=1,dive"`
}

// UpdateBudgetRequest replaces a budget's header fields and, when items are
// given, its whole item set (allowed only before any execution).
type UpdateBudgetRequest struct {
	Name        *string             `json:"name"`
	TotalAmount *decimal.Decimal    `json:"totalAmount"`
	StartDate   *time.Time          `json:"startDate"`
	EndDate     *time.Time          `json:"endDate"`
	Items       []BudgetItemRequest `json:"items" binding:"omitempty,min=1,dive"`
}

// ApproveBudgetRequest carries the approval decision for a budget.
// APPROVED moves the budget to ACTIVE.
type ApproveBudgetRequest struct {
	Decision string `json:"decision" binding:"required,oneof=APPROVED REJECTED"`
}

// RequestBudgetChangeRequest asks for a TRANSFER/INCREASE/DECREASE against an
// active budget. TRANSFER requires distinct from/to items of the same budget.
type RequestBudgetChangeRequest struct {
	ChangeType domain.BudgetChangeType `json:"changeType" binding:"required,oneof=TRANSFER INCREASE DECREASE"`
	Amount     decimal.Decimal         `json:"amount" binding:"required"`
	FromItemID *string                 `json:"fromItemID"`
	ToItemID   *string                 `json:"toItemID"`
	Reason     string                  `json:"reason" binding:"required"`
}

// ApproveBudgetChangeRequest carries the decision on a pending change.
type ApproveBudgetChangeRequest struct {
	Decision domain.BudgetChangeStatus `json:"decision" binding:"required,oneof=APPROVED REJECTED"`
}

// CheckBalanceParams carries the amount a caller wants to draw.
type CheckBalanceParams struct {
	RequestAmount decimal.Decimal `form:"requestAmount" binding:"required"`
}

// BudgetExecutionResponse mirrors a budget item's execution counters.
type BudgetExecutionResponse struct {
	BudgetItemID    string          `json:"budgetItemID"`
	TotalBudget     decimal.Decimal `json:"totalBudget"`
	UsedAmount      decimal.Decimal `json:"usedAmount"`
	PendingAmount   decimal.Decimal `json:"pendingAmount"`
	RemainingAmount decimal.Decimal `json:"remainingAmount"`
	ExecutionRate   decimal.Decimal `json:"executionRate"`
}

// BudgetItemResponse is one budget line with its execution, when loaded.
type BudgetItemResponse struct {
	BudgetItemID string                   `json:"budgetItemID"`
	Category     string                   `json:"category"`
	Description  string                   `json:"description"`
	Amount       decimal.Decimal          `json:"amount"`
	Execution    *BudgetExecutionResponse `json:"execution,omitempty"`
}

// BudgetResponse defines the data returned for a budget.
type BudgetResponse struct {
	BudgetID     string               `json:"budgetID"`
	ChurchID     string               `json:"churchID"`
	DepartmentID string               `json:"departmentID"`
	Name         string               `json:"name"`
	Year         int                  `json:"year"`
	Quarter      *int                 `json:"quarter,omitempty"`
	Month        *int                 `json:"month,omitempty"`
	TotalAmount  decimal.Decimal      `json:"totalAmount"`
	Status       domain.BudgetStatus  `json:"status"`
	StartDate    time.Time            `json:"startDate"`
	EndDate      time.Time            `json:"endDate"`
	ApprovedBy   *string              `json:"approvedBy,omitempty"`
	ApprovedAt   *time.Time           `json:"approvedAt,omitempty"`
	Items        []BudgetItemResponse `json:"items,omitempty"`
	CreatedAt    time.Time            `json:"createdAt"`
}

// ToBudgetExecutionResponse converts a domain.BudgetExecution.
func ToBudgetExecutionResponse(e *domain.BudgetExecution) BudgetExecutionResponse {
	return BudgetExecutionResponse{
		BudgetItemID:    e.BudgetItemID,
		TotalBudget:     e.TotalBudget,
		UsedAmount:      e.UsedAmount,
		PendingAmount:   e.PendingAmount,
		RemainingAmount: e.RemainingAmount,
		ExecutionRate:   e.ExecutionRate,
	}
}

// ToBudgetResponse converts a domain.Budget with its items.
func ToBudgetResponse(b *domain.Budget) BudgetResponse {
	items := make([]BudgetItemResponse, len(b.Items))
	for i, item := range b.Items {
		items[i] = BudgetItemResponse{
			BudgetItemID: item.BudgetItemID,
			Category:     item.Category,
			Description:  item.Description,
			Amount:       item.Amount,
		}
		if item.Execution != nil {
			exec := ToBudgetExecutionResponse(item.Execution)
			items[i].Execution = &exec
		}
	}
	return BudgetResponse{
		BudgetID:     b.BudgetID,
		ChurchID:     b.ChurchID,
		DepartmentID: b.DepartmentID,
		Name:         b.Name,
		Year:         b.Year,
		Quarter:      b.Quarter,
		Month:        b.Month,
		TotalAmount:  b.TotalAmount,
		Status:       b.Status,
		StartDate:    b.StartDate,
		EndDate:      b.EndDate,
		ApprovedBy:   b.ApprovedBy,
		ApprovedAt:   b.ApprovedAt,
		Items:        items,
		CreatedAt:    b.CreatedAt,
	}
}

// BudgetChangeResponse defines the data returned for a change request.
type BudgetChangeResponse struct {
	BudgetChangeID string                    `json:"budgetChangeID"`
	BudgetID       string                    `json:"budgetID"`
	ChangeType     domain.BudgetChangeType   `json:"changeType"`
	Amount         decimal.Decimal           `json:"amount"`
	FromItemID     *string                   `json:"fromItemID,omitempty"`
	ToItemID       *string                   `json:"toItemID,omitempty"`
	Reason         string                    `json:"reason"`
	Status         domain.BudgetChangeStatus `json:"status"`
	ProcessedBy    *string                   `json:"processedBy,omitempty"`
	ProcessedAt    *time.Time                `json:"processedAt,omitempty"`
	CreatedAt      time.Time                 `json:"createdAt"`
}

// ToBudgetChangeResponse converts a domain.BudgetChange.
func ToBudgetChangeResponse(c *domain.BudgetChange) BudgetChangeResponse {
	return BudgetChangeResponse{
		BudgetChangeID: c.BudgetChangeID,
		BudgetID:       c.BudgetID,
		ChangeType:     c.ChangeType,
		Amount:         c.Amount,
		FromItemID:     c.FromItemID,
		ToItemID:       c.ToItemID,
		Reason:         c.Reason,
		Status:         c.Status,
		ProcessedBy:    c.ProcessedBy,
		ProcessedAt:    c.ProcessedAt,
		CreatedAt:      c.CreatedAt,
	}
}

// BudgetBalanceResponse answers a balance check against a budget item.
type BudgetBalanceResponse struct {
	BudgetItemID    string          `json:"budgetItemID"`
	RemainingAmount decimal.Decimal `json:"remainingAmount"`
	CanApprove      bool            `json:"canApprove"`
	ExceedAmount    decimal.Decimal `json:"exceedAmount"`
}

// ToBudgetBalanceResponse converts a domain.BudgetBalance.
func ToBudgetBalanceResponse(b *domain.BudgetBalance) BudgetBalanceResponse {
	return BudgetBalanceResponse{
		BudgetItemID:    b.BudgetItemID,
		RemainingAmount: b.RemainingAmount,
		CanApprove:      b.CanApprove,
		ExceedAmount:    b.ExceedAmount,
	}
}

// ListBudgetsParams defines query filters for listing budgets.
type ListBudgetsParams struct {
	DepartmentID *string `form:"departmentID"`
	Year         *int    `form:"year"`
}

// ListBudgetsResponse wraps the list of budgets.
type ListBudgetsResponse struct {
	Budgets []BudgetResponse `json:"budgets"`
}
