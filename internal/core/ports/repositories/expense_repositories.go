package repositories

import (
	"context"

	"github.com/parishware/church_finance_app/internal/core/domain"
)

// ExpenseReader defines read operations for expense reports and their steps.
type ExpenseReader interface {
	// FindExpenseByID retrieves an expense report with its approval steps.
	FindExpenseByID(ctx context.Context, expenseReportID string) (*domain.ExpenseReport, error)

	// ListExpensesByChurch retrieves expense reports (without steps),
	// optionally filtered by status and/or budget item.
	ListExpensesByChurch(ctx context.Context, churchID string, status *domain.ExpenseStatus, budgetItemID *string) ([]domain.ExpenseReport, error)
}

// ExpenseWriter defines write operations for the expense workflow. Every
// transition that touches more than one row runs inside a single database
// transaction owned by the implementation.
type ExpenseWriter interface {
	// SaveExpense atomically creates the report and its full approval chain,
	// recalculating the referenced item's pending amount in the same
	// transaction.
	SaveExpense(ctx context.Context, report domain.ExpenseReport, steps []domain.ApprovalStep) error

	// MarkSubmitted moves a DRAFT report to IN_PROGRESS at step 1.
	MarkSubmitted(ctx context.Context, report domain.ExpenseReport) error

	// AdvanceStep marks the given step APPROVED and bumps the report's
	// current step, atomically.
	AdvanceStep(ctx context.Context, report domain.ExpenseReport, step domain.ApprovalStep) error

	// RejectWorkflow marks the given step REJECTED and the whole report
	// terminally rejected, recalculating the item's counters atomically.
	RejectWorkflow(ctx context.Context, report domain.ExpenseReport, step domain.ApprovalStep) error

	// FinalizeApproval marks the last step APPROVED and the report
	// terminally approved. When the report draws on a budget item, the
	// execution row is locked, remaining budget is re-validated, and the
	// counters are recalculated, all inside one transaction. Returns a
	// budget-insufficiency error when the re-check fails.
	FinalizeApproval(ctx context.Context, report domain.ExpenseReport, step domain.ApprovalStep) error

	// UpdateExpenseStatus applies the simplified single-step decision
	// (APPROVED/REJECTED/PAID), with the same lock + re-validate + recalculate
	// treatment as FinalizeApproval for terminal approvals.
	UpdateExpenseStatus(ctx context.Context, report domain.ExpenseReport) error

	// DeleteExpense removes a report and its steps.
	DeleteExpense(ctx context.Context, expenseReportID string) error
}

// ExpenseRepositoryFacade combines all expense repository interfaces.
type ExpenseRepositoryFacade interface {
	ExpenseReader
	ExpenseWriter
}
