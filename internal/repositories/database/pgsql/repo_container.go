package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/parishware/church_finance_app/internal/core/ports/repositories"
)

// NewRepositoryProvider wires every repository against one pool. The budget
// repository doubles as the execution recalculator the expense repository
// uses inside its transactions.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	accountRepo := newPgxAccountRepository(dbPool)
	transactionRepo := newPgxTransactionRepository(dbPool)
	budgetRepo := newPgxBudgetRepository(dbPool)
	expenseRepo := newPgxExpenseRepository(dbPool, budgetRepo)
	churchRepo := newPgxChurchRepository(dbPool)
	userRepo := newPgxUserRepository(dbPool)
	departmentRepo := newPgxDepartmentRepository(dbPool)
	notificationRepo := newPgxNotificationRepository(dbPool)

	return portsrepo.RepositoryProvider{
		AccountRepo:      accountRepo,
		TransactionRepo:  transactionRepo,
		BudgetRepo:       budgetRepo,
		ExpenseRepo:      expenseRepo,
		ChurchRepo:       churchRepo,
		UserRepo:         userRepo,
		DepartmentRepo:   departmentRepo,
		NotificationRepo: notificationRepo,
	}
}
