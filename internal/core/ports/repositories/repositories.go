package repositories

// RepositoryProvider bundles every repository implementation the service
// container needs, so wiring happens in one place at startup.
type RepositoryProvider struct {
	AccountRepo      AccountRepositoryFacade
	TransactionRepo  TransactionRepositoryFacade
	BudgetRepo       BudgetRepositoryFacade
	ExpenseRepo      ExpenseRepositoryFacade
	ChurchRepo       ChurchRepositoryFacade
	UserRepo         UserRepositoryFacade
	DepartmentRepo   DepartmentReader
	NotificationRepo NotificationWriter
}
