package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BudgetStatus is the lifecycle state of a departmental budget.
type BudgetStatus string

const (
	BudgetDraft     BudgetStatus = "DRAFT"
	BudgetSubmitted BudgetStatus = "SUBMITTED"
	BudgetActive    BudgetStatus = "ACTIVE"
	BudgetRejected  BudgetStatus = "REJECTED"
)

// Budget is a department's allocation for a period. Exactly one budget may
// exist per (department, year, quarter, month) tuple. The sum of its items'
// amounts must equal TotalAmount within AmountTolerance.
type Budget struct {
	BudgetID     string          `json:"budgetID"` // Primary Key (UUID)
	ChurchID     string          `json:"churchID"` // FK -> churches.church_id
	DepartmentID string          `json:"departmentID"`
	Name         string          `json:"name"`
	Year         int             `json:"year"`
	Quarter      *int            `json:"quarter,omitempty"` // 1..4, nil for annual budgets
	Month        *int            `json:"month,omitempty"`   // 1..12, nil unless monthly
	TotalAmount  decimal.Decimal `json:"totalAmount"`
	Status       BudgetStatus    `json:"status"`
	StartDate    time.Time       `json:"startDate"`
	EndDate      time.Time       `json:"endDate"`
	ApprovedBy   *string         `json:"approvedBy,omitempty"`
	ApprovedAt   *time.Time      `json:"approvedAt,omitempty"`
	Items        []BudgetItem    `json:"items,omitempty"`
	AuditFields
}

// CoversDate reports whether the given date falls inside the budget period.
func (b Budget) CoversDate(t time.Time) bool {
	return !t.Before(b.StartDate) && !t.After(b.EndDate)
}

// BudgetItem is one category line inside a budget. It owns a 1:1
// BudgetExecution created together with it.
type BudgetItem struct {
	BudgetItemID string          `json:"budgetItemID"` // Primary Key (UUID)
	BudgetID     string          `json:"budgetID"`     // FK -> budgets.budget_id
	Category     string          `json:"category"`
	Description  string          `json:"description"`
	Amount       decimal.Decimal `json:"amount"`
	Execution    *BudgetExecution `json:"execution,omitempty"`
	AuditFields
}

// BudgetExecution tracks how much of a budget item is used, committed or
// still free. Invariant: TotalBudget == UsedAmount + PendingAmount +
// RemainingAmount within AmountTolerance, at all times.
type BudgetExecution struct {
	BudgetExecutionID string          `json:"budgetExecutionID"` // Primary Key (UUID)
	BudgetItemID      string          `json:"budgetItemID"`      // FK -> budget_items.budget_item_id (unique)
	TotalBudget       decimal.Decimal `json:"totalBudget"`
	UsedAmount        decimal.Decimal `json:"usedAmount"`
	PendingAmount     decimal.Decimal `json:"pendingAmount"`
	RemainingAmount   decimal.Decimal `json:"remainingAmount"`
	ExecutionRate     decimal.Decimal `json:"executionRate"` // UsedAmount / TotalBudget * 100
	AuditFields
}

// NewSeededExecution builds the execution row created alongside a budget item:
// everything still remaining, nothing used or pending.
func NewSeededExecution(item BudgetItem, audit AuditFields) BudgetExecution {
	return BudgetExecution{
		BudgetItemID:    item.BudgetItemID,
		TotalBudget:     item.Amount,
		UsedAmount:      decimal.Zero,
		PendingAmount:   decimal.Zero,
		RemainingAmount: item.Amount,
		ExecutionRate:   decimal.Zero,
		AuditFields:     audit,
	}
}

// BudgetChangeType is the kind of amendment requested against a budget.
type BudgetChangeType string

const (
	ChangeTransfer BudgetChangeType = "TRANSFER"
	ChangeIncrease BudgetChangeType = "INCREASE"
	ChangeDecrease BudgetChangeType = "DECREASE"
)

// BudgetChangeStatus is the approval state of a budget change request.
type BudgetChangeStatus string

const (
	ChangePending  BudgetChangeStatus = "PENDING"
	ChangeApproved BudgetChangeStatus = "APPROVED"
	ChangeRejected BudgetChangeStatus = "REJECTED"
)

// BudgetChange is a requested TRANSFER/INCREASE/DECREASE against a budget.
// Amounts are only mutated when the change is approved, never at request time.
type BudgetChange struct {
	BudgetChangeID string             `json:"budgetChangeID"` // Primary Key (UUID)
	BudgetID       string             `json:"budgetID"`       // FK -> budgets.budget_id
	ChangeType     BudgetChangeType   `json:"changeType"`
	Amount         decimal.Decimal    `json:"amount"`
	FromItemID     *string            `json:"fromItemID,omitempty"` // TRANSFER source
	ToItemID       *string            `json:"toItemID,omitempty"`   // TRANSFER destination
	Reason         string             `json:"reason"`
	Status         BudgetChangeStatus `json:"status"`
	ProcessedBy    *string            `json:"processedBy,omitempty"`
	ProcessedAt    *time.Time         `json:"processedAt,omitempty"`
	AuditFields
}

// BudgetBalance is the answer to "can this amount still be drawn from this
// budget item": the current remaining amount and, if not, by how much the
// request exceeds it.
type BudgetBalance struct {
	BudgetItemID    string          `json:"budgetItemID"`
	RemainingAmount decimal.Decimal `json:"remainingAmount"`
	CanApprove      bool            `json:"canApprove"`
	ExceedAmount    decimal.Decimal `json:"exceedAmount"`
}
