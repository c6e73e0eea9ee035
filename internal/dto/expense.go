package dto

import (
	"time"

	"github.com/parishware/church_finance_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ApproverAssignment pre-assigns a specific user to one approval step.
type ApproverAssignment struct {
	StepOrder int    `json:"stepOrder" binding:"required,min=1,max=3"`
	UserID    string `json:"userID" binding:"required"`
}

// CreateExpenseRequest defines the data needed to open an expense report.
// When budgetItemID is set the request must pass a budget sufficiency
// pre-check before anything is written.
type CreateExpenseRequest struct {
	Title               string               `json:"title" binding:"required"`
	Category            string               `json:"category" binding:"required"`
	Amount              decimal.Decimal      `json:"amount" binding:"required"`
	ExpenseDate         time.Time            `json:"expenseDate" binding:"required"`
	DepartmentID        *string              `json:"departmentID"`
	BudgetItemID        *string              `json:"budgetItemID"`
	ApproverAssignments []ApproverAssignment `json:"approverAssignments" binding:"omitempty,dive"`
}

// ApproveStepRequest carries an approver's decision on the current step.
type ApproveStepRequest struct {
	Decision domain.ApprovalDecision `json:"decision" binding:"required,oneof=APPROVE REJECT"`
	Comment  string                  `json:"comment"`
}

// ApproveExpenseRequest is the simplified single-step decision that bypasses
// the approval chain (managerial roles only).
type ApproveExpenseRequest struct {
	Status domain.ExpenseStatus `json:"status" binding:"required,oneof=APPROVED REJECTED PAID"`
}

// ValidateBudgetExpenseRequest asks whether an amount could be drawn from a
// budget item, without writing anything.
type ValidateBudgetExpenseRequest struct {
	BudgetItemID string          `json:"budgetItemID" binding:"required"`
	Amount       decimal.Decimal `json:"amount" binding:"required"`
}

// ValidateBudgetExpenseResponse reports the outcome of the validation.
type ValidateBudgetExpenseResponse struct {
	IsValid         bool            `json:"isValid"`
	RemainingAmount decimal.Decimal `json:"remainingAmount"`
	Error           string          `json:"error,omitempty"`
}

// ApprovalStepResponse is one stage of the report's approval chain.
type ApprovalStepResponse struct {
	ApprovalStepID string                    `json:"approvalStepID"`
	StepOrder      int                       `json:"stepOrder"`
	RequiredRole   domain.ChurchRole         `json:"requiredRole"`
	AssignedUserID *string                   `json:"assignedUserID,omitempty"`
	Status         domain.ApprovalStepStatus `json:"status"`
	ActedBy        *string                   `json:"actedBy,omitempty"`
	ActedAt        *time.Time                `json:"actedAt,omitempty"`
	Comment        string                    `json:"comment,omitempty"`
}

// ExpenseResponse defines the data returned for an expense report.
type ExpenseResponse struct {
	ExpenseReportID string                 `json:"expenseReportID"`
	ChurchID        string                 `json:"churchID"`
	RequesterID     string                 `json:"requesterID"`
	DepartmentID    *string                `json:"departmentID,omitempty"`
	Title           string                 `json:"title"`
	Category        string                 `json:"category"`
	Amount          decimal.Decimal        `json:"amount"`
	ExpenseDate     time.Time              `json:"expenseDate"`
	BudgetItemID    *string                `json:"budgetItemID,omitempty"`
	Status          domain.ExpenseStatus   `json:"status"`
	WorkflowStatus  domain.WorkflowStatus  `json:"workflowStatus"`
	CurrentStep     int                    `json:"currentStep"`
	TotalSteps      int                    `json:"totalSteps"`
	Steps           []ApprovalStepResponse `json:"steps,omitempty"`
	CreatedAt       time.Time              `json:"createdAt"`
}

// ToExpenseResponse converts a domain.ExpenseReport with its steps.
func ToExpenseResponse(e *domain.ExpenseReport) ExpenseResponse {
	steps := make([]ApprovalStepResponse, len(e.Steps))
	for i, s := range e.Steps {
		steps[i] = ApprovalStepResponse{
			ApprovalStepID: s.ApprovalStepID,
			StepOrder:      s.StepOrder,
			RequiredRole:   s.RequiredRole,
			AssignedUserID: s.AssignedUserID,
			Status:         s.Status,
			ActedBy:        s.ActedBy,
			ActedAt:        s.ActedAt,
			Comment:        s.Comment,
		}
	}
	return ExpenseResponse{
		ExpenseReportID: e.ExpenseReportID,
		ChurchID:        e.ChurchID,
		RequesterID:     e.RequesterID,
		DepartmentID:    e.DepartmentID,
		Title:           e.Title,
		Category:        e.Category,
		Amount:          e.Amount,
		ExpenseDate:     e.ExpenseDate,
		BudgetItemID:    e.BudgetItemID,
		Status:          e.Status,
		WorkflowStatus:  e.WorkflowStatus,
		CurrentStep:     e.CurrentStep,
		TotalSteps:      e.TotalSteps,
		Steps:           steps,
		CreatedAt:       e.CreatedAt,
	}
}

// ListExpensesParams defines query filters for listing expense reports.
type ListExpensesParams struct {
	Status       *domain.ExpenseStatus `form:"status" binding:"omitempty,oneof=PENDING APPROVED REJECTED PAID"`
	BudgetItemID *string               `form:"budgetItemID"`
}

// ListExpensesResponse wraps the list of expense reports.
type ListExpensesResponse struct {
	Expenses []ExpenseResponse `json:"expenses"`
}
