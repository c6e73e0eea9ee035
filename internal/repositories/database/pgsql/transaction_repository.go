package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/parishware/church_finance_app/internal/apperrors"
	"github.com/parishware/church_finance_app/internal/core/domain"
	portsrepo "github.com/parishware/church_finance_app/internal/core/ports/repositories"
	"github.com/parishware/church_finance_app/internal/models"
	"github.com/parishware/church_finance_app/internal/utils/mapping"
)

const transactionColumns = `transaction_id, church_id, debit_account_id, credit_account_id, amount, transaction_date, reference, description, created_at, created_by, last_updated_at, last_updated_by`

type PgxTransactionRepository struct {
	pool *pgxpool.Pool
}

func newPgxTransactionRepository(pool *pgxpool.Pool) portsrepo.TransactionRepositoryFacade {
	return &PgxTransactionRepository{pool: pool}
}

var _ portsrepo.TransactionRepositoryFacade = (*PgxTransactionRepository)(nil)

func scanTransaction(row pgx.Row) (*models.Transaction, error) {
	var m models.Transaction
	err := row.Scan(
		&m.TransactionID,
		&m.ChurchID,
		&m.DebitAccountID,
		&m.CreditAccountID,
		&m.Amount,
		&m.TransactionDate,
		&m.Reference,
		&m.Description,
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

// SaveTransaction inserts one posting.
func (r *PgxTransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction) error {
	m := mapping.ToModelTransaction(txn)

	query := `
		INSERT INTO transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := r.pool.Exec(ctx, query,
		m.TransactionID,
		m.ChurchID,
		m.DebitAccountID,
		m.CreditAccountID,
		m.Amount,
		m.TransactionDate,
		m.Reference,
		m.Description,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				return fmt.Errorf("%w: transaction %s already exists", apperrors.ErrDuplicate, m.TransactionID)
			case "23503":
				return fmt.Errorf("%w: referenced account does not exist", apperrors.ErrValidation)
			}
		}
		return fmt.Errorf("failed to save transaction %s: %w", m.TransactionID, err)
	}
	return nil
}

// FindTransactionByID retrieves a specific posting.
func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE transaction_id = $1;`

	m, err := scanTransaction(r.pool.QueryRow(ctx, query, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find transaction %s: %w", transactionID, err)
	}

	txn := mapping.ToDomainTransaction(*m)
	return &txn, nil
}

// ListTransactionsByAccount retrieves the postings touching an account inside
// [from, to], oldest first. Ties on the date break on insertion time so a
// ledger's running balance is reproducible.
func (r *PgxTransactionRepository) ListTransactionsByAccount(ctx context.Context, accountID string, from, to time.Time) ([]domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE (debit_account_id = $1 OR credit_account_id = $1)
		  AND transaction_date >= $2 AND transaction_date <= $3
		ORDER BY transaction_date, created_at;
	`
	rows, err := r.pool.Query(ctx, query, accountID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions for account %s: %w", accountID, err)
	}
	defer rows.Close()

	var ms []models.Transaction
	for rows.Next() {
		m, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		ms = append(ms, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transaction rows: %w", err)
	}

	return mapping.ToDomainTransactionSlice(ms), nil
}

// SumAccountActivityBefore totals the account's debits and credits over all
// postings strictly before the given date.
func (r *PgxTransactionRepository) SumAccountActivityBefore(ctx context.Context, accountID string, before time.Time) (decimal.Decimal, decimal.Decimal, error) {
	query := `
		SELECT
			COALESCE(SUM(amount) FILTER (WHERE debit_account_id = $1), 0),
			COALESCE(SUM(amount) FILTER (WHERE credit_account_id = $1), 0)
		FROM transactions
		WHERE (debit_account_id = $1 OR credit_account_id = $1)
		  AND transaction_date < $2;
	`
	var debitTotal, creditTotal decimal.Decimal
	if err := r.pool.QueryRow(ctx, query, accountID, before).Scan(&debitTotal, &creditTotal); err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("failed to sum prior activity for account %s: %w", accountID, err)
	}
	return debitTotal, creditTotal, nil
}

// AggregateActivity returns per-account debit/credit totals over the period
// for every account visible to the church, optionally restricted to one
// hierarchy level. Accounts without activity appear with zero totals so the
// trial balance covers the whole chart.
func (r *PgxTransactionRepository) AggregateActivity(ctx context.Context, churchID string, from, to time.Time, levelFilter *int) ([]portsrepo.AccountActivity, error) {
	query := `
		SELECT ` + qualifiedAccountColumns("a") + `,
			COALESCE(d.total, 0) AS debit_total,
			COALESCE(c.total, 0) AS credit_total
		FROM accounts a
		LEFT JOIN (
			SELECT debit_account_id AS account_id, SUM(amount) AS total
			FROM transactions
			WHERE church_id = $1 AND transaction_date >= $2 AND transaction_date <= $3
			GROUP BY debit_account_id
		) d ON d.account_id = a.account_id
		LEFT JOIN (
			SELECT credit_account_id AS account_id, SUM(amount) AS total
			FROM transactions
			WHERE church_id = $1 AND transaction_date >= $2 AND transaction_date <= $3
			GROUP BY credit_account_id
		) c ON c.account_id = a.account_id
		WHERE (a.church_id IS NULL OR a.church_id = $1) AND a.is_active = TRUE
	`
	args := []any{churchID, from, to}
	if levelFilter != nil {
		query += ` AND a.level = $4`
		args = append(args, *levelFilter)
	}
	query += ` ORDER BY a.sort_order;`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate activity for church %s: %w", churchID, err)
	}
	defer rows.Close()

	var activity []portsrepo.AccountActivity
	for rows.Next() {
		var m models.Account
		var act portsrepo.AccountActivity
		err := rows.Scan(
			&m.AccountID,
			&m.ChurchID,
			&m.Code,
			&m.Name,
			&m.AccountType,
			&m.Level,
			&m.SortOrder,
			&m.ParentAccountID,
			&m.Description,
			&m.AllowTransaction,
			&m.IsActive,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
			&act.DebitTotal,
			&act.CreditTotal,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan activity row: %w", err)
		}
		act.Account = mapping.ToDomainAccount(m)
		activity = append(activity, act)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating activity rows: %w", err)
	}
	return activity, nil
}

// DeleteTransaction removes a posting.
func (r *PgxTransactionRepository) DeleteTransaction(ctx context.Context, transactionID string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM transactions WHERE transaction_id = $1;`, transactionID)
	if err != nil {
		return fmt.Errorf("failed to delete transaction %s: %w", transactionID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// qualifiedAccountColumns prefixes the account column list with a table alias.
func qualifiedAccountColumns(alias string) string {
	return alias + `.account_id, ` + alias + `.church_id, ` + alias + `.code, ` + alias + `.name, ` +
		alias + `.account_type, ` + alias + `.level, ` + alias + `.sort_order, ` + alias + `.parent_account_id, ` +
		alias + `.description, ` + alias + `.allow_transaction, ` + alias + `.is_active, ` +
		alias + `.created_at, ` + alias + `.created_by, ` + alias + `.last_updated_at, ` + alias + `.last_updated_by`
}
