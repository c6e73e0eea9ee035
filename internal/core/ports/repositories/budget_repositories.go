package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/parishware/church_finance_app/internal/core/domain"
)

// BudgetReader defines read operations for budgets, items, executions and
// change requests.
type BudgetReader interface {
	// FindBudgetByID retrieves a budget with its items and their executions.
	FindBudgetByID(ctx context.Context, budgetID string) (*domain.Budget, error)

	// FindBudgetByPeriod retrieves the budget for the exact
	// (department, year, quarter, month) tuple, or ErrNotFound.
	FindBudgetByPeriod(ctx context.Context, churchID, departmentID string, year int, quarter, month *int) (*domain.Budget, error)

	// ListBudgetsByChurch retrieves budgets (without items) for a church,
	// optionally filtered by department and/or year.
	ListBudgetsByChurch(ctx context.Context, churchID string, departmentID *string, year *int) ([]domain.Budget, error)

	// FindBudgetItemByID retrieves one budget item with its execution.
	FindBudgetItemByID(ctx context.Context, budgetItemID string) (*domain.BudgetItem, error)

	// FindExecutionByItemID retrieves the execution row of a budget item.
	FindExecutionByItemID(ctx context.Context, budgetItemID string) (*domain.BudgetExecution, error)

	// FindBudgetChangeByID retrieves one budget change request.
	FindBudgetChangeByID(ctx context.Context, budgetChangeID string) (*domain.BudgetChange, error)

	// HasExpensesForBudget reports whether any expense report in the given
	// statuses references any item of the budget.
	HasExpensesForBudget(ctx context.Context, budgetID string, statuses []domain.ExpenseStatus) (bool, error)
}

// BudgetWriter defines write operations for budgets. Multi-row mutations run
// inside a single database transaction owned by the implementation.
type BudgetWriter interface {
	// SaveBudget atomically creates the budget, its items and a seeded
	// execution row per item.
	SaveBudget(ctx context.Context, budget domain.Budget, items []domain.BudgetItem, executions []domain.BudgetExecution) error

	// ReplaceBudgetItems atomically deletes the budget's execution and item
	// rows, recreates both, and updates the budget header.
	ReplaceBudgetItems(ctx context.Context, budget domain.Budget, items []domain.BudgetItem, executions []domain.BudgetExecution) error

	// UpdateBudgetStatus stamps an approval decision on a budget.
	UpdateBudgetStatus(ctx context.Context, budgetID string, status domain.BudgetStatus, approvedBy string, approvedAt time.Time) error

	// SaveBudgetChange persists a PENDING change request without mutating amounts.
	SaveBudgetChange(ctx context.Context, change domain.BudgetChange) error

	// ApplyBudgetChange atomically marks the change APPROVED and applies its
	// effect: for a TRANSFER both execution rows are locked, the source's
	// remaining amount is re-validated, and item amounts, total budgets,
	// remaining amounts and execution rates are adjusted on both sides.
	// Returns a budget-insufficiency error when the source no longer covers
	// the amount.
	ApplyBudgetChange(ctx context.Context, change domain.BudgetChange, processedBy string, processedAt time.Time) error

	// RejectBudgetChange marks the change REJECTED; amounts stay untouched.
	RejectBudgetChange(ctx context.Context, budgetChangeID string, processedBy string, processedAt time.Time) error
}

// ExecutionRecalculator re-derives a budget item's execution counters from
// the expense reports referencing it, instead of trusting incremental deltas.
type ExecutionRecalculator interface {
	// RecalculateInTx recomputes used/pending/remaining/rate inside the
	// caller's transaction and updates the execution row.
	RecalculateInTx(ctx context.Context, tx pgx.Tx, budgetItemID string, updatedBy string, updatedAt time.Time) (*domain.BudgetExecution, error)

	// Recalculate recomputes the counters in a transaction of its own.
	Recalculate(ctx context.Context, budgetItemID string, updatedBy string, updatedAt time.Time) (*domain.BudgetExecution, error)
}

// BudgetRepositoryFacade combines all budget repository interfaces.
type BudgetRepositoryFacade interface {
	BudgetReader
	BudgetWriter
	ExecutionRecalculator
}
