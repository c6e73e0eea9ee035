package pgsql

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/parishware/church_finance_app/internal/apperrors"
	"github.com/parishware/church_finance_app/internal/core/domain"
	portsrepo "github.com/parishware/church_finance_app/internal/core/ports/repositories"
	"github.com/parishware/church_finance_app/internal/models"
	"github.com/parishware/church_finance_app/internal/utils/accounting"
	"github.com/parishware/church_finance_app/internal/utils/mapping"
)

const budgetColumns = `budget_id, church_id, department_id, name, year, quarter, month, total_amount, status, start_date, end_date, approved_by, approved_at, created_at, created_by, last_updated_at, last_updated_by`
const budgetItemColumns = `budget_item_id, budget_id, category, description, amount, created_at, created_by, last_updated_at, last_updated_by`
const budgetExecutionColumns = `budget_execution_id, budget_item_id, total_budget, used_amount, pending_amount, remaining_amount, execution_rate, created_at, created_by, last_updated_at, last_updated_by`
const budgetChangeColumns = `budget_change_id, budget_id, change_type, amount, from_item_id, to_item_id, reason, status, processed_by, processed_at, created_at, created_by, last_updated_at, last_updated_by`

type PgxBudgetRepository struct {
	BaseRepository
}

func newPgxBudgetRepository(pool *pgxpool.Pool) portsrepo.BudgetRepositoryFacade {
	return &PgxBudgetRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.BudgetRepositoryFacade = (*PgxBudgetRepository)(nil)

func scanBudget(row pgx.Row) (*models.Budget, error) {
	var m models.Budget
	err := row.Scan(
		&m.BudgetID,
		&m.ChurchID,
		&m.DepartmentID,
		&m.Name,
		&m.Year,
		&m.Quarter,
		&m.Month,
		&m.TotalAmount,
		&m.Status,
		&m.StartDate,
		&m.EndDate,
		&m.ApprovedBy,
		&m.ApprovedAt,
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

func scanBudgetChange(row pgx.Row) (*models.BudgetChange, error) {
	var m models.BudgetChange
	err := row.Scan(
		&m.BudgetChangeID,
		&m.BudgetID,
		&m.ChangeType,
		&m.Amount,
		&m.FromItemID,
		&m.ToItemID,
		&m.Reason,
		&m.Status,
		&m.ProcessedBy,
		&m.ProcessedAt,
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

func scanExecution(row pgx.Row) (*models.BudgetExecution, error) {
	var m models.BudgetExecution
	err := row.Scan(
		&m.BudgetExecutionID,
		&m.BudgetItemID,
		&m.TotalBudget,
		&m.UsedAmount,
		&m.PendingAmount,
		&m.RemainingAmount,
		&m.ExecutionRate,
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

// FindBudgetByID retrieves a budget with its items and their executions.
func (r *PgxBudgetRepository) FindBudgetByID(ctx context.Context, budgetID string) (*domain.Budget, error) {
	query := `SELECT ` + budgetColumns + ` FROM budgets WHERE budget_id = $1;`

	m, err := scanBudget(r.Pool.QueryRow(ctx, query, budgetID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find budget %s: %w", budgetID, err)
	}
	budget := mapping.ToDomainBudget(*m)

	itemQuery := `
		SELECT i.budget_item_id, i.budget_id, i.category, i.description, i.amount,
			i.created_at, i.created_by, i.last_updated_at, i.last_updated_by,
			e.budget_execution_id, e.total_budget, e.used_amount, e.pending_amount, e.remaining_amount, e.execution_rate
		FROM budget_items i
		JOIN budget_executions e ON e.budget_item_id = i.budget_item_id
		WHERE i.budget_id = $1
		ORDER BY i.category;
	`
	rows, err := r.Pool.Query(ctx, itemQuery, budgetID)
	if err != nil {
		return nil, fmt.Errorf("failed to load items for budget %s: %w", budgetID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var im models.BudgetItem
		var em models.BudgetExecution
		err := rows.Scan(
			&im.BudgetItemID,
			&im.BudgetID,
			&im.Category,
			&im.Description,
			&im.Amount,
			&im.CreatedAt,
			&im.CreatedBy,
			&im.LastUpdatedAt,
			&im.LastUpdatedBy,
			&em.BudgetExecutionID,
			&em.TotalBudget,
			&em.UsedAmount,
			&em.PendingAmount,
			&em.RemainingAmount,
			&em.ExecutionRate,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan budget item row: %w", err)
		}
		em.BudgetItemID = im.BudgetItemID
		item := mapping.ToDomainBudgetItem(im)
		exec := mapping.ToDomainBudgetExecution(em)
		item.Execution = &exec
		budget.Items = append(budget.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating budget item rows: %w", err)
	}

	return &budget, nil
}

// FindBudgetByPeriod retrieves the budget for the exact period tuple.
func (r *PgxBudgetRepository) FindBudgetByPeriod(ctx context.Context, churchID, departmentID string, year int, quarter, month *int) (*domain.Budget, error) {
	query := `
		SELECT ` + budgetColumns + `
		FROM budgets
		WHERE church_id = $1 AND department_id = $2 AND year = $3
		  AND quarter IS NOT DISTINCT FROM $4
		  AND month IS NOT DISTINCT FROM $5;
	`
	m, err := scanBudget(r.Pool.QueryRow(ctx, query, churchID, departmentID, year, quarter, month))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find budget by period: %w", err)
	}
	budget := mapping.ToDomainBudget(*m)
	return &budget, nil
}

// ListBudgetsByChurch retrieves budget headers, newest period first.
func (r *PgxBudgetRepository) ListBudgetsByChurch(ctx context.Context, churchID string, departmentID *string, year *int) ([]domain.Budget, error) {
	query := `SELECT ` + budgetColumns + ` FROM budgets WHERE church_id = $1`
	args := []any{churchID}

	if departmentID != nil {
		args = append(args, *departmentID)
		query += fmt.Sprintf(` AND department_id = $%d`, len(args))
	}
	if year != nil {
		args = append(args, *year)
		query += fmt.Sprintf(` AND year = $%d`, len(args))
	}
	query += ` ORDER BY year DESC, quarter DESC NULLS LAST, month DESC NULLS LAST, name;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list budgets for church %s: %w", churchID, err)
	}
	defer rows.Close()

	var ms []models.Budget
	for rows.Next() {
		m, err := scanBudget(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan budget row: %w", err)
		}
		ms = append(ms, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating budget rows: %w", err)
	}
	return mapping.ToDomainBudgetSlice(ms), nil
}

// FindBudgetItemByID retrieves one budget item with its execution.
func (r *PgxBudgetRepository) FindBudgetItemByID(ctx context.Context, budgetItemID string) (*domain.BudgetItem, error) {
	query := `SELECT ` + budgetItemColumns + ` FROM budget_items WHERE budget_item_id = $1;`

	var m models.BudgetItem
	err := r.Pool.QueryRow(ctx, query, budgetItemID).Scan(
		&m.BudgetItemID,
		&m.BudgetID,
		&m.Category,
		&m.Description,
		&m.Amount,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find budget item %s: %w", budgetItemID, err)
	}

	item := mapping.ToDomainBudgetItem(m)
	execution, err := r.FindExecutionByItemID(ctx, budgetItemID)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}
	item.Execution = execution
	return &item, nil
}

// FindExecutionByItemID retrieves the execution row of a budget item.
func (r *PgxBudgetRepository) FindExecutionByItemID(ctx context.Context, budgetItemID string) (*domain.BudgetExecution, error) {
	query := `SELECT ` + budgetExecutionColumns + ` FROM budget_executions WHERE budget_item_id = $1;`

	m, err := scanExecution(r.Pool.QueryRow(ctx, query, budgetItemID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find execution for item %s: %w", budgetItemID, err)
	}
	execution := mapping.ToDomainBudgetExecution(*m)
	return &execution, nil
}

// FindBudgetChangeByID retrieves one change request.
func (r *PgxBudgetRepository) FindBudgetChangeByID(ctx context.Context, budgetChangeID string) (*domain.BudgetChange, error) {
	query := `SELECT ` + budgetChangeColumns + ` FROM budget_changes WHERE budget_change_id = $1;`

	m, err := scanBudgetChange(r.Pool.QueryRow(ctx, query, budgetChangeID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find budget change %s: %w", budgetChangeID, err)
	}
	change := mapping.ToDomainBudgetChange(*m)
	return &change, nil
}

// HasExpensesForBudget reports whether any expense report in the given
// statuses draws on any item of the budget.
func (r *PgxBudgetRepository) HasExpensesForBudget(ctx context.Context, budgetID string, statuses []domain.ExpenseStatus) (bool, error) {
	statusStrs := make([]string, len(statuses))
	for i, s := range statuses {
		statusStrs[i] = string(s)
	}

	query := `
		SELECT EXISTS (
			SELECT 1
			FROM expense_reports e
			JOIN budget_items i ON i.budget_item_id = e.budget_item_id
			WHERE i.budget_id = $1 AND e.status = ANY($2)
		);
	`
	var exists bool
	if err := r.Pool.QueryRow(ctx, query, budgetID, statusStrs).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check expenses for budget %s: %w", budgetID, err)
	}
	return exists, nil
}

func insertItemsAndExecutions(batch *pgx.Batch, items []domain.BudgetItem, executions []domain.BudgetExecution) {
	itemQuery := `
		INSERT INTO budget_items (` + budgetItemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	for _, item := range items {
		m := mapping.ToModelBudgetItem(item)
		batch.Queue(itemQuery,
			m.BudgetItemID, m.BudgetID, m.Category, m.Description, m.Amount,
			m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
		)
	}

	execQuery := `
		INSERT INTO budget_executions (` + budgetExecutionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	for _, exec := range executions {
		m := mapping.ToModelBudgetExecution(exec)
		batch.Queue(execQuery,
			m.BudgetExecutionID, m.BudgetItemID, m.TotalBudget, m.UsedAmount, m.PendingAmount,
			m.RemainingAmount, m.ExecutionRate,
			m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
		)
	}
}

// SaveBudget atomically creates the budget header, its items and one seeded
// execution row per item.
func (r *PgxBudgetRepository) SaveBudget(ctx context.Context, budget domain.Budget, items []domain.BudgetItem, executions []domain.BudgetExecution) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	m := mapping.ToModelBudget(budget)
	headerQuery := `
		INSERT INTO budgets (` + budgetColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17);
	`
	_, err = tx.Exec(ctx, headerQuery,
		m.BudgetID, m.ChurchID, m.DepartmentID, m.Name, m.Year, m.Quarter, m.Month,
		m.TotalAmount, m.Status, m.StartDate, m.EndDate, m.ApprovedBy, m.ApprovedAt,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: a budget for this department and period already exists", apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to insert budget %s: %w", m.BudgetID, err)
	}

	batch := &pgx.Batch{}
	insertItemsAndExecutions(batch, items, executions)
	br := tx.SendBatch(ctx, batch)
	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			return fmt.Errorf("failed to insert budget item rows: %w", err)
		}
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to close budget item batch: %w", err)
	}

	return r.Commit(ctx, tx)
}

// ReplaceBudgetItems atomically rewrites the budget header and its whole
// item/execution set. Callers must have verified nothing has executed yet.
func (r *PgxBudgetRepository) ReplaceBudgetItems(ctx context.Context, budget domain.Budget, items []domain.BudgetItem, executions []domain.BudgetExecution) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	m := mapping.ToModelBudget(budget)
	headerQuery := `
		UPDATE budgets
		SET name = $2, total_amount = $3, start_date = $4, end_date = $5, last_updated_at = $6, last_updated_by = $7
		WHERE budget_id = $1;
	`
	tag, err := tx.Exec(ctx, headerQuery,
		m.BudgetID, m.Name, m.TotalAmount, m.StartDate, m.EndDate, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update budget %s: %w", m.BudgetID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	// Executions first: they reference the items.
	if _, err := tx.Exec(ctx, `DELETE FROM budget_executions WHERE budget_item_id IN (SELECT budget_item_id FROM budget_items WHERE budget_id = $1);`, m.BudgetID); err != nil {
		return fmt.Errorf("failed to clear executions for budget %s: %w", m.BudgetID, err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM budget_items WHERE budget_id = $1;`, m.BudgetID); err != nil {
		return fmt.Errorf("failed to clear items for budget %s: %w", m.BudgetID, err)
	}

	batch := &pgx.Batch{}
	insertItemsAndExecutions(batch, items, executions)
	br := tx.SendBatch(ctx, batch)
	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			return fmt.Errorf("failed to insert replacement item rows: %w", err)
		}
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to close replacement batch: %w", err)
	}

	return r.Commit(ctx, tx)
}

// UpdateBudgetStatus stamps an approval decision on a budget.
func (r *PgxBudgetRepository) UpdateBudgetStatus(ctx context.Context, budgetID string, status domain.BudgetStatus, approvedBy string, approvedAt time.Time) error {
	query := `
		UPDATE budgets
		SET status = $2, approved_by = $3, approved_at = $4, last_updated_at = $4, last_updated_by = $3
		WHERE budget_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query, budgetID, string(status), approvedBy, approvedAt)
	if err != nil {
		return fmt.Errorf("failed to update status of budget %s: %w", budgetID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// SaveBudgetChange persists a PENDING change request without touching amounts.
func (r *PgxBudgetRepository) SaveBudgetChange(ctx context.Context, change domain.BudgetChange) error {
	m := mapping.ToModelBudgetChange(change)

	query := `
		INSERT INTO budget_changes (` + budgetChangeColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.BudgetChangeID, m.BudgetID, m.ChangeType, m.Amount, m.FromItemID, m.ToItemID,
		m.Reason, m.Status, m.ProcessedBy, m.ProcessedAt,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save budget change %s: %w", m.BudgetChangeID, err)
	}
	return nil
}

// lockExecutionRow reads an execution row under FOR UPDATE.
func lockExecutionRow(ctx context.Context, tx pgx.Tx, budgetItemID string) (*models.BudgetExecution, error) {
	query := `SELECT ` + budgetExecutionColumns + ` FROM budget_executions WHERE budget_item_id = $1 FOR UPDATE;`
	m, err := scanExecution(tx.QueryRow(ctx, query, budgetItemID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to lock execution for item %s: %w", budgetItemID, err)
	}
	return m, nil
}

func writeExecutionRow(ctx context.Context, tx pgx.Tx, m *models.BudgetExecution, by string, at time.Time) error {
	query := `
		UPDATE budget_executions
		SET total_budget = $2, used_amount = $3, pending_amount = $4, remaining_amount = $5, execution_rate = $6,
			last_updated_at = $7, last_updated_by = $8
		WHERE budget_execution_id = $1;
	`
	_, err := tx.Exec(ctx, query,
		m.BudgetExecutionID, m.TotalBudget, m.UsedAmount, m.PendingAmount, m.RemainingAmount, m.ExecutionRate, at, by,
	)
	if err != nil {
		return fmt.Errorf("failed to write execution %s: %w", m.BudgetExecutionID, err)
	}
	return nil
}

// adjustItemTotal shifts an item's allocation and its execution's totals by
// delta (positive or negative). The execution row must already be locked.
func adjustItemTotal(ctx context.Context, tx pgx.Tx, exec *models.BudgetExecution, delta decimal.Decimal, by string, at time.Time) error {
	if _, err := tx.Exec(ctx,
		`UPDATE budget_items SET amount = amount + $2, last_updated_at = $3, last_updated_by = $4 WHERE budget_item_id = $1;`,
		exec.BudgetItemID, delta, at, by,
	); err != nil {
		return fmt.Errorf("failed to adjust item %s: %w", exec.BudgetItemID, err)
	}

	exec.TotalBudget = exec.TotalBudget.Add(delta)
	exec.RemainingAmount = exec.RemainingAmount.Add(delta)
	exec.ExecutionRate = accounting.ExecutionRate(exec.UsedAmount, exec.TotalBudget)
	return writeExecutionRow(ctx, tx, exec, by, at)
}

// markChangeProcessed stamps a decided change inside the caller's transaction.
func markChangeProcessed(ctx context.Context, tx pgx.Tx, budgetChangeID string, status domain.BudgetChangeStatus, by string, at time.Time) error {
	query := `
		UPDATE budget_changes
		SET status = $2, processed_by = $3, processed_at = $4, last_updated_at = $4, last_updated_by = $3
		WHERE budget_change_id = $1 AND status = 'PENDING';
	`
	tag, err := tx.Exec(ctx, query, budgetChangeID, string(status), by, at)
	if err != nil {
		return fmt.Errorf("failed to mark change %s processed: %w", budgetChangeID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: change request has already been processed", apperrors.ErrConflict)
	}
	return nil
}

// ApplyBudgetChange marks the change APPROVED and applies its effect in one
// transaction. Sources are locked and their remaining amount re-validated at
// this moment: the request-time check can be stale.
func (r *PgxBudgetRepository) ApplyBudgetChange(ctx context.Context, change domain.BudgetChange, processedBy string, processedAt time.Time) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	if err := markChangeProcessed(ctx, tx, change.BudgetChangeID, domain.ChangeApproved, processedBy, processedAt); err != nil {
		return err
	}

	switch change.ChangeType {
	case domain.ChangeTransfer:
		// Lock both rows in a stable order to keep concurrent transfers from
		// deadlocking each other.
		itemIDs := []string{*change.FromItemID, *change.ToItemID}
		sort.Strings(itemIDs)
		locked := make(map[string]*models.BudgetExecution, 2)
		for _, id := range itemIDs {
			exec, err := lockExecutionRow(ctx, tx, id)
			if err != nil {
				return err
			}
			locked[id] = exec
		}

		fromExec := locked[*change.FromItemID]
		if fromExec.RemainingAmount.LessThan(change.Amount) {
			return apperrors.NewInsufficientBudgetError(fromExec.RemainingAmount, change.Amount)
		}
		if err := adjustItemTotal(ctx, tx, fromExec, change.Amount.Neg(), processedBy, processedAt); err != nil {
			return err
		}
		if err := adjustItemTotal(ctx, tx, locked[*change.ToItemID], change.Amount, processedBy, processedAt); err != nil {
			return err
		}

	case domain.ChangeIncrease:
		exec, err := lockExecutionRow(ctx, tx, *change.ToItemID)
		if err != nil {
			return err
		}
		if err := adjustItemTotal(ctx, tx, exec, change.Amount, processedBy, processedAt); err != nil {
			return err
		}
		if err := shiftBudgetTotal(ctx, tx, change.BudgetID, change.Amount, processedBy, processedAt); err != nil {
			return err
		}

	case domain.ChangeDecrease:
		exec, err := lockExecutionRow(ctx, tx, *change.FromItemID)
		if err != nil {
			return err
		}
		if exec.RemainingAmount.LessThan(change.Amount) {
			return apperrors.NewInsufficientBudgetError(exec.RemainingAmount, change.Amount)
		}
		if err := adjustItemTotal(ctx, tx, exec, change.Amount.Neg(), processedBy, processedAt); err != nil {
			return err
		}
		if err := shiftBudgetTotal(ctx, tx, change.BudgetID, change.Amount.Neg(), processedBy, processedAt); err != nil {
			return err
		}

	default:
		return fmt.Errorf("%w: unknown change type %s", apperrors.ErrValidation, change.ChangeType)
	}

	return r.Commit(ctx, tx)
}

func shiftBudgetTotal(ctx context.Context, tx pgx.Tx, budgetID string, delta decimal.Decimal, by string, at time.Time) error {
	if _, err := tx.Exec(ctx,
		`UPDATE budgets SET total_amount = total_amount + $2, last_updated_at = $3, last_updated_by = $4 WHERE budget_id = $1;`,
		budgetID, delta, at, by,
	); err != nil {
		return fmt.Errorf("failed to shift total of budget %s: %w", budgetID, err)
	}
	return nil
}

// RejectBudgetChange marks the change REJECTED; amounts stay untouched.
func (r *PgxBudgetRepository) RejectBudgetChange(ctx context.Context, budgetChangeID string, processedBy string, processedAt time.Time) error {
	query := `
		UPDATE budget_changes
		SET status = 'REJECTED', processed_by = $2, processed_at = $3, last_updated_at = $3, last_updated_by = $2
		WHERE budget_change_id = $1 AND status = 'PENDING';
	`
	tag, err := r.Pool.Exec(ctx, query, budgetChangeID, processedBy, processedAt)
	if err != nil {
		return fmt.Errorf("failed to reject budget change %s: %w", budgetChangeID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: change request has already been processed", apperrors.ErrConflict)
	}
	return nil
}

// RecalculateInTx re-derives a budget item's execution counters from the
// expense reports that reference it, inside the caller's transaction. The
// execution row is locked first so the derivation and the write are atomic.
func (r *PgxBudgetRepository) RecalculateInTx(ctx context.Context, tx pgx.Tx, budgetItemID string, updatedBy string, updatedAt time.Time) (*domain.BudgetExecution, error) {
	exec, err := lockExecutionRow(ctx, tx, budgetItemID)
	if err != nil {
		return nil, err
	}

	var itemAmount decimal.Decimal
	if err := tx.QueryRow(ctx, `SELECT amount FROM budget_items WHERE budget_item_id = $1;`, budgetItemID).Scan(&itemAmount); err != nil {
		return nil, fmt.Errorf("failed to read amount of item %s: %w", budgetItemID, err)
	}

	sumQuery := `
		SELECT
			COALESCE(SUM(amount) FILTER (WHERE status IN ('APPROVED', 'PAID')), 0),
			COALESCE(SUM(amount) FILTER (WHERE status = 'PENDING'), 0)
		FROM expense_reports
		WHERE budget_item_id = $1;
	`
	var used, pending decimal.Decimal
	if err := tx.QueryRow(ctx, sumQuery, budgetItemID).Scan(&used, &pending); err != nil {
		return nil, fmt.Errorf("failed to sum expenses for item %s: %w", budgetItemID, err)
	}

	exec.TotalBudget = itemAmount
	exec.UsedAmount = used
	exec.PendingAmount = pending
	exec.RemainingAmount = itemAmount.Sub(used).Sub(pending)
	exec.ExecutionRate = accounting.ExecutionRate(used, itemAmount)

	if err := writeExecutionRow(ctx, tx, exec, updatedBy, updatedAt); err != nil {
		return nil, err
	}

	execution := mapping.ToDomainBudgetExecution(*exec)
	return &execution, nil
}

// Recalculate recomputes the counters in a transaction of its own.
func (r *PgxBudgetRepository) Recalculate(ctx context.Context, budgetItemID string, updatedBy string, updatedAt time.Time) (*domain.BudgetExecution, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	execution, err := r.RecalculateInTx(ctx, tx, budgetItemID, updatedBy, updatedAt)
	if err != nil {
		return nil, err
	}
	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return execution, nil
}
