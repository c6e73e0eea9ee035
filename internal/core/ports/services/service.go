package services

// ServiceContainer bundles every service facade for route registration.
type ServiceContainer struct {
	Account      AccountSvcFacade
	Transaction  TransactionSvcFacade
	Budget       BudgetSvcFacade
	Expense      ExpenseSvcFacade
	Church       ChurchSvcFacade
	User         UserSvcFacade
	Notification NotificationEnqueuer
}
