package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/parishware/church_finance_app/internal/apperrors"
	"github.com/parishware/church_finance_app/internal/core/domain"
	portsrepo "github.com/parishware/church_finance_app/internal/core/ports/repositories"
	"github.com/parishware/church_finance_app/internal/models"
	"github.com/parishware/church_finance_app/internal/utils/mapping"
)

const expenseColumns = `expense_report_id, church_id, requester_id, department_id, title, category, amount, expense_date, budget_item_id, status, workflow_status, current_step, total_steps, created_at, created_by, last_updated_at, last_updated_by`
const approvalStepColumns = `approval_step_id, expense_report_id, step_order, required_role, assigned_user_id, status, acted_by, acted_at, comment, created_at, created_by, last_updated_at, last_updated_by`

// PgxExpenseRepository persists expense reports and their approval chains.
// Terminal transitions recalculate the referenced budget item's execution
// counters in the same transaction, via the recalculator it shares with the
// budget repository.
type PgxExpenseRepository struct {
	BaseRepository
	recalc portsrepo.ExecutionRecalculator
}

func newPgxExpenseRepository(pool *pgxpool.Pool, recalc portsrepo.ExecutionRecalculator) portsrepo.ExpenseRepositoryFacade {
	return &PgxExpenseRepository{
		BaseRepository: BaseRepository{Pool: pool},
		recalc:         recalc,
	}
}

var _ portsrepo.ExpenseRepositoryFacade = (*PgxExpenseRepository)(nil)

func scanExpense(row pgx.Row) (*models.ExpenseReport, error) {
	var m models.ExpenseReport
	err := row.Scan(
		&m.ExpenseReportID,
		&m.ChurchID,
		&m.RequesterID,
		&m.DepartmentID,
		&m.Title,
		&m.Category,
		&m.Amount,
		&m.ExpenseDate,
		&m.BudgetItemID,
		&m.Status,
		&m.WorkflowStatus,
		&m.CurrentStep,
		&m.TotalSteps,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// FindExpenseByID retrieves an expense report with its approval steps.
func (r *PgxExpenseRepository) FindExpenseByID(ctx context.Context, expenseReportID string) (*domain.ExpenseReport, error) {
	query := `SELECT ` + expenseColumns + ` FROM expense_reports WHERE expense_report_id = $1;`

	m, err := scanExpense(r.Pool.QueryRow(ctx, query, expenseReportID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find expense report %s: %w", expenseReportID, err)
	}
	report := mapping.ToDomainExpenseReport(*m)

	stepQuery := `SELECT ` + approvalStepColumns + ` FROM approval_steps WHERE expense_report_id = $1 ORDER BY step_order;`
	rows, err := r.Pool.Query(ctx, stepQuery, expenseReportID)
	if err != nil {
		return nil, fmt.Errorf("failed to load steps for report %s: %w", expenseReportID, err)
	}
	defer rows.Close()

	var stepModels []models.ApprovalStep
	for rows.Next() {
		var sm models.ApprovalStep
		err := rows.Scan(
			&sm.ApprovalStepID,
			&sm.ExpenseReportID,
			&sm.StepOrder,
			&sm.RequiredRole,
			&sm.AssignedUserID,
			&sm.Status,
			&sm.ActedBy,
			&sm.ActedAt,
			&sm.Comment,
			&sm.CreatedAt,
			&sm.CreatedBy,
			&sm.LastUpdatedAt,
			&sm.LastUpdatedBy,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan approval step row: %w", err)
		}
		stepModels = append(stepModels, sm)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating approval step rows: %w", err)
	}

	report.Steps = mapping.ToDomainApprovalStepSlice(stepModels)
	return &report, nil
}

// ListExpensesByChurch retrieves reports (without steps), newest first.
func (r *PgxExpenseRepository) ListExpensesByChurch(ctx context.Context, churchID string, status *domain.ExpenseStatus, budgetItemID *string) ([]domain.ExpenseReport, error) {
	query := `SELECT ` + expenseColumns + ` FROM expense_reports WHERE church_id = $1`
	args := []any{churchID}

	if status != nil {
		args = append(args, string(*status))
		query += fmt.Sprintf(` AND status = $%d`, len(args))
	}
	if budgetItemID != nil {
		args = append(args, *budgetItemID)
		query += fmt.Sprintf(` AND budget_item_id = $%d`, len(args))
	}
	query += ` ORDER BY created_at DESC;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list expense reports for church %s: %w", churchID, err)
	}
	defer rows.Close()

	var ms []models.ExpenseReport
	for rows.Next() {
		m, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense report row: %w", err)
		}
		ms = append(ms, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating expense report rows: %w", err)
	}
	return mapping.ToDomainExpenseReportSlice(ms), nil
}

// SaveExpense atomically creates the report and its full approval chain, then
// recalculates the referenced item's pending amount in the same transaction.
func (r *PgxExpenseRepository) SaveExpense(ctx context.Context, report domain.ExpenseReport, steps []domain.ApprovalStep) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	m := mapping.ToModelExpenseReport(report)
	reportQuery := `
		INSERT INTO expense_reports (` + expenseColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17);
	`
	_, err = tx.Exec(ctx, reportQuery,
		m.ExpenseReportID, m.ChurchID, m.RequesterID, m.DepartmentID, m.Title, m.Category,
		m.Amount, m.ExpenseDate, m.BudgetItemID, m.Status, m.WorkflowStatus, m.CurrentStep, m.TotalSteps,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense report %s: %w", m.ExpenseReportID, err)
	}

	batch := &pgx.Batch{}
	stepQuery := `
		INSERT INTO approval_steps (` + approvalStepColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	for _, step := range steps {
		sm := mapping.ToModelApprovalStep(step)
		batch.Queue(stepQuery,
			sm.ApprovalStepID, sm.ExpenseReportID, sm.StepOrder, sm.RequiredRole, sm.AssignedUserID,
			sm.Status, sm.ActedBy, sm.ActedAt, sm.Comment,
			sm.CreatedAt, sm.CreatedBy, sm.LastUpdatedAt, sm.LastUpdatedBy,
		)
	}
	br := tx.SendBatch(ctx, batch)
	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			return fmt.Errorf("failed to insert approval steps: %w", err)
		}
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to close approval step batch: %w", err)
	}

	if report.BudgetItemID != nil {
		if _, err := r.recalc.RecalculateInTx(ctx, tx, *report.BudgetItemID, report.CreatedBy, report.CreatedAt); err != nil {
			return err
		}
	}

	return r.Commit(ctx, tx)
}

// MarkSubmitted moves a DRAFT report to IN_PROGRESS at step 1.
func (r *PgxExpenseRepository) MarkSubmitted(ctx context.Context, report domain.ExpenseReport) error {
	query := `
		UPDATE expense_reports
		SET workflow_status = $2, current_step = $3, last_updated_at = $4, last_updated_by = $5
		WHERE expense_report_id = $1 AND workflow_status = 'DRAFT';
	`
	tag, err := r.Pool.Exec(ctx, query,
		report.ExpenseReportID, string(report.WorkflowStatus), report.CurrentStep,
		report.LastUpdatedAt, report.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to submit expense report %s: %w", report.ExpenseReportID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: report is no longer in draft", apperrors.ErrConflict)
	}
	return nil
}

func updateStepInTx(ctx context.Context, tx pgx.Tx, step domain.ApprovalStep) error {
	sm := mapping.ToModelApprovalStep(step)
	query := `
		UPDATE approval_steps
		SET status = $2, acted_by = $3, acted_at = $4, comment = $5, last_updated_at = $6, last_updated_by = $7
		WHERE approval_step_id = $1 AND status = 'PENDING';
	`
	tag, err := tx.Exec(ctx, query,
		sm.ApprovalStepID, sm.Status, sm.ActedBy, sm.ActedAt, sm.Comment, sm.LastUpdatedAt, sm.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update approval step %s: %w", sm.ApprovalStepID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: approval step has already been decided", apperrors.ErrConflict)
	}
	return nil
}

func updateReportInTx(ctx context.Context, tx pgx.Tx, report domain.ExpenseReport) error {
	m := mapping.ToModelExpenseReport(report)
	query := `
		UPDATE expense_reports
		SET status = $2, workflow_status = $3, current_step = $4, last_updated_at = $5, last_updated_by = $6
		WHERE expense_report_id = $1;
	`
	tag, err := tx.Exec(ctx, query,
		m.ExpenseReportID, m.Status, m.WorkflowStatus, m.CurrentStep, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update expense report %s: %w", m.ExpenseReportID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// AdvanceStep marks the step APPROVED and bumps the report's current step.
func (r *PgxExpenseRepository) AdvanceStep(ctx context.Context, report domain.ExpenseReport, step domain.ApprovalStep) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	if err := updateStepInTx(ctx, tx, step); err != nil {
		return err
	}
	if err := updateReportInTx(ctx, tx, report); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// RejectWorkflow marks the step REJECTED and the report terminally rejected.
// The rejected amount stops counting as pending, so the item's counters are
// recalculated in the same transaction.
func (r *PgxExpenseRepository) RejectWorkflow(ctx context.Context, report domain.ExpenseReport, step domain.ApprovalStep) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	if err := updateStepInTx(ctx, tx, step); err != nil {
		return err
	}
	if err := updateReportInTx(ctx, tx, report); err != nil {
		return err
	}
	if report.BudgetItemID != nil {
		if _, err := r.recalc.RecalculateInTx(ctx, tx, *report.BudgetItemID, report.LastUpdatedBy, report.LastUpdatedAt); err != nil {
			return err
		}
	}
	return r.Commit(ctx, tx)
}

// revalidateDraw checks, under the recalculator's row lock, that the item can
// absorb the report's amount as it moves from pending to used. The amount
// itself is already inside the counters as pending, so the check is that the
// remaining amount has not gone negative once everything is re-derived.
func (r *PgxExpenseRepository) revalidateDraw(ctx context.Context, tx pgx.Tx, report domain.ExpenseReport) error {
	execution, err := r.recalc.RecalculateInTx(ctx, tx, *report.BudgetItemID, report.LastUpdatedBy, report.LastUpdatedAt)
	if err != nil {
		return err
	}
	if execution.RemainingAmount.IsNegative() {
		return apperrors.NewInsufficientBudgetError(
			execution.RemainingAmount.Add(report.Amount), report.Amount)
	}
	return nil
}

// FinalizeApproval marks the last step APPROVED and the report terminally
// approved, re-validating the budget draw under a row lock.
func (r *PgxExpenseRepository) FinalizeApproval(ctx context.Context, report domain.ExpenseReport, step domain.ApprovalStep) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	if err := updateStepInTx(ctx, tx, step); err != nil {
		return err
	}
	if err := updateReportInTx(ctx, tx, report); err != nil {
		return err
	}
	if report.BudgetItemID != nil {
		if err := r.revalidateDraw(ctx, tx, report); err != nil {
			return err
		}
	}
	return r.Commit(ctx, tx)
}

// UpdateExpenseStatus applies the simplified single-step decision, with the
// same lock-and-revalidate treatment for terminal approvals.
func (r *PgxExpenseRepository) UpdateExpenseStatus(ctx context.Context, report domain.ExpenseReport) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	if err := updateReportInTx(ctx, tx, report); err != nil {
		return err
	}
	if report.BudgetItemID != nil {
		if report.Status == domain.ExpenseApproved {
			if err := r.revalidateDraw(ctx, tx, report); err != nil {
				return err
			}
		} else {
			if _, err := r.recalc.RecalculateInTx(ctx, tx, *report.BudgetItemID, report.LastUpdatedBy, report.LastUpdatedAt); err != nil {
				return err
			}
		}
	}
	return r.Commit(ctx, tx)
}

// DeleteExpense removes a report and its steps, releasing any pending draw.
func (r *PgxExpenseRepository) DeleteExpense(ctx context.Context, expenseReportID string) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	var budgetItemID *string
	if err := tx.QueryRow(ctx, `SELECT budget_item_id FROM expense_reports WHERE expense_report_id = $1;`, expenseReportID).Scan(&budgetItemID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("failed to load expense report %s: %w", expenseReportID, err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM approval_steps WHERE expense_report_id = $1;`, expenseReportID); err != nil {
		return fmt.Errorf("failed to delete steps of report %s: %w", expenseReportID, err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM expense_reports WHERE expense_report_id = $1;`, expenseReportID); err != nil {
		return fmt.Errorf("failed to delete expense report %s: %w", expenseReportID, err)
	}

	if budgetItemID != nil {
		if _, err := r.recalc.RecalculateInTx(ctx, tx, *budgetItemID, "", time.Now().UTC()); err != nil {
			return err
		}
	}
	return r.Commit(ctx, tx)
}
