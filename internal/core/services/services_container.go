package services

import (
	portsrepo "github.com/parishware/church_finance_app/internal/core/ports/repositories"
	portssvc "github.com/parishware/church_finance_app/internal/core/ports/services"
)

// NewServiceContainer wires every service with its repositories. The church
// service comes first since everything else authorizes through it.
func NewServiceContainer(repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Church = NewChurchService(repos.ChurchRepo, repos.UserRepo)
	container.Notification = NewNotificationService(repos.NotificationRepo)
	container.User = NewUserService(repos.UserRepo)

	container.Account = NewAccountService(repos.AccountRepo, container.Church)
	container.Transaction = NewTransactionService(repos.TransactionRepo, repos.AccountRepo, container.Church)
	container.Budget = NewBudgetService(repos.BudgetRepo, repos.DepartmentRepo, container.Church, container.Notification)
	container.Expense = NewExpenseService(repos.ExpenseRepo, repos.BudgetRepo, container.Church, container.Notification)

	return container
}
