package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExpenseStatus is the coarse settlement state of an expense report.
type ExpenseStatus string

const (
	ExpensePending  ExpenseStatus = "PENDING"
	ExpenseApproved ExpenseStatus = "APPROVED"
	ExpenseRejected ExpenseStatus = "REJECTED"
	ExpensePaid     ExpenseStatus = "PAID"
)

// WorkflowStatus is the lifecycle state of the approval chain, distinct from
// the per-step approval status and from ExpenseStatus.
type WorkflowStatus string

const (
	WorkflowDraft      WorkflowStatus = "DRAFT"
	WorkflowInProgress WorkflowStatus = "IN_PROGRESS"
	WorkflowApproved   WorkflowStatus = "APPROVED"
	WorkflowRejected   WorkflowStatus = "REJECTED"
)

// ExpenseTotalSteps is the fixed length of the approval chain.
const ExpenseTotalSteps = 3

// ExpenseReport is a request to spend, optionally drawing against a budget
// item, that must clear the approval chain before it counts as used budget.
type ExpenseReport struct {
	ExpenseReportID string          `json:"expenseReportID"` // Primary Key (UUID)
	ChurchID        string          `json:"churchID"`        // FK -> churches.church_id
	RequesterID     string          `json:"requesterID"`     // FK -> users.user_id
	DepartmentID    *string         `json:"departmentID,omitempty"`
	Title           string          `json:"title"`
	Category        string          `json:"category"`
	Amount          decimal.Decimal `json:"amount"`
	ExpenseDate     time.Time       `json:"expenseDate"`
	BudgetItemID    *string         `json:"budgetItemID,omitempty"`
	Status          ExpenseStatus   `json:"status"`
	WorkflowStatus  WorkflowStatus  `json:"workflowStatus"`
	CurrentStep     int             `json:"currentStep"` // 0 while DRAFT, then 1..ExpenseTotalSteps
	TotalSteps      int             `json:"totalSteps"`
	Steps           []ApprovalStep  `json:"steps,omitempty"`
	AuditFields
}

// IsTerminal reports whether the workflow can accept no further step actions.
func (e ExpenseReport) IsTerminal() bool {
	return e.WorkflowStatus == WorkflowApproved || e.WorkflowStatus == WorkflowRejected
}

// ApprovalStepStatus is the state of one step in the chain.
type ApprovalStepStatus string

const (
	StepPending  ApprovalStepStatus = "PENDING"
	StepApproved ApprovalStepStatus = "APPROVED"
	StepRejected ApprovalStepStatus = "REJECTED"
)

// ApprovalDecision is the action an approver takes on a step.
type ApprovalDecision string

const (
	DecisionApprove ApprovalDecision = "APPROVE"
	DecisionReject  ApprovalDecision = "REJECT"
)

// ApprovalStep is one stage of the fixed sign-off chain owned by an
// ExpenseReport. Steps are created atomically with the report and acted on
// strictly in StepOrder.
type ApprovalStep struct {
	ApprovalStepID  string             `json:"approvalStepID"`  // Primary Key (UUID)
	ExpenseReportID string             `json:"expenseReportID"` // FK -> expense_reports
	StepOrder       int                `json:"stepOrder"`       // 1..ExpenseTotalSteps
	RequiredRole    ChurchRole         `json:"requiredRole"`
	AssignedUserID  *string            `json:"assignedUserID,omitempty"`
	Status          ApprovalStepStatus `json:"status"`
	ActedBy         *string            `json:"actedBy,omitempty"`
	ActedAt         *time.Time         `json:"actedAt,omitempty"`
	Comment         string             `json:"comment"`
	AuditFields
}

// StepRoleForOrder returns the role required to approve the given step.
func StepRoleForOrder(order int) ChurchRole {
	switch order {
	case 1:
		return RoleDepartmentAccountant
	case 2:
		return RoleDepartmentHead
	default:
		return RoleCommitteeChair
	}
}

// RoleMayActOnStep reports whether a holder of the given role may act on a
// step requiring requiredRole. Admins and finance managers may act on any step.
func RoleMayActOnStep(actor ChurchRole, requiredRole ChurchRole) bool {
	if actor == RoleAdmin || actor == RoleFinanceManager {
		return true
	}
	return actor == requiredRole
}
