package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExpenseReport represents an expense report row with its workflow state.
type ExpenseReport struct {
	ExpenseReportID string          `db:"expense_report_id"`
	ChurchID        string          `db:"church_id"`
	RequesterID     string          `db:"requester_id"`
	DepartmentID    *string         `db:"department_id"` // Nullable
	Title           string          `db:"title"`
	Category        string          `db:"category"`
	Amount          decimal.Decimal `db:"amount"`
	ExpenseDate     time.Time       `db:"expense_date"`
	BudgetItemID    *string         `db:"budget_item_id"` // Nullable
	Status          string          `db:"status"`
	WorkflowStatus  string          `db:"workflow_status"`
	CurrentStep     int             `db:"current_step"`
	TotalSteps      int             `db:"total_steps"`
	AuditFields
}

// ApprovalStep represents one stage of a report's approval chain.
type ApprovalStep struct {
	ApprovalStepID  string     `db:"approval_step_id"`
	ExpenseReportID string     `db:"expense_report_id"`
	StepOrder       int        `db:"step_order"`
	RequiredRole    string     `db:"required_role"`
	AssignedUserID  *string    `db:"assigned_user_id"` // Nullable
	Status          string     `db:"status"`
	ActedBy         *string    `db:"acted_by"` // Nullable
	ActedAt         *time.Time `db:"acted_at"` // Nullable
	Comment         string     `db:"comment"`
	AuditFields
}
