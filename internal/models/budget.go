package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Budget represents a departmental budget header row.
type Budget struct {
	BudgetID     string          `db:"budget_id"`
	ChurchID     string          `db:"church_id"`
	DepartmentID string          `db:"department_id"`
	Name         string          `db:"name"`
	Year         int             `db:"year"`
	Quarter      *int            `db:"quarter"` // Nullable
	Month        *int            `db:"month"`   // Nullable
	TotalAmount  decimal.Decimal `db:"total_amount"`
	Status       string          `db:"status"`
	StartDate    time.Time       `db:"start_date"`
	EndDate      time.Time       `db:"end_date"`
	ApprovedBy   *string         `db:"approved_by"` // Nullable
	ApprovedAt   *time.Time      `db:"approved_at"` // Nullable
	AuditFields
}

// BudgetItem represents one category line of a budget.
type BudgetItem struct {
	BudgetItemID string          `db:"budget_item_id"`
	BudgetID     string          `db:"budget_id"`
	Category     string          `db:"category"`
	Description  string          `db:"description"`
	Amount       decimal.Decimal `db:"amount"`
	AuditFields
}

// BudgetExecution represents the 1:1 execution counters of a budget item.
type BudgetExecution struct {
	BudgetExecutionID string          `db:"budget_execution_id"`
	BudgetItemID      string          `db:"budget_item_id"`
	TotalBudget       decimal.Decimal `db:"total_budget"`
	UsedAmount        decimal.Decimal `db:"used_amount"`
	PendingAmount     decimal.Decimal `db:"pending_amount"`
	RemainingAmount   decimal.Decimal `db:"remaining_amount"`
	ExecutionRate     decimal.Decimal `db:"execution_rate"`
	AuditFields
}

// BudgetChange represents a TRANSFER/INCREASE/DECREASE request row.
type BudgetChange struct {
	BudgetChangeID string          `db:"budget_change_id"`
	BudgetID       string          `db:"budget_id"`
	ChangeType     string          `db:"change_type"`
	Amount         decimal.Decimal `db:"amount"`
	FromItemID     *string         `db:"from_item_id"` // Nullable
	ToItemID       *string         `db:"to_item_id"`   // Nullable
	Reason         string          `db:"reason"`
	Status         string          `db:"status"`
	ProcessedBy    *string         `db:"processed_by"` // Nullable
	ProcessedAt    *time.Time      `db:"processed_at"` // Nullable
	AuditFields
}
