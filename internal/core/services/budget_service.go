package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/parishware/church_finance_app/internal/apperrors"
	"github.com/parishware/church_finance_app/internal/core/domain"
	portsrepo "github.com/parishware/church_finance_app/internal/core/ports/repositories"
	portssvc "github.com/parishware/church_finance_app/internal/core/ports/services"
	"github.com/parishware/church_finance_app/internal/dto"
	"github.com/parishware/church_finance_app/internal/middleware"
)

// budgetService owns budgets, their items and execution counters, and the
// budget change workflow. Amount mutations only happen through approved
// changes or through the execution recalculator.
type budgetService struct {
	budgetRepo     portsrepo.BudgetRepositoryFacade
	departmentRepo portsrepo.DepartmentReader
	churchSvc      portssvc.ChurchAuthorizerSvc
	notifier       portssvc.NotificationEnqueuer
}

// NewBudgetService creates a new BudgetService.
func NewBudgetService(
	budgetRepo portsrepo.BudgetRepositoryFacade,
	departmentRepo portsrepo.DepartmentReader,
	churchSvc portssvc.ChurchAuthorizerSvc,
	notifier portssvc.NotificationEnqueuer,
) portssvc.BudgetSvcFacade {
	return &budgetService{
		budgetRepo:     budgetRepo,
		departmentRepo: departmentRepo,
		churchSvc:      churchSvc,
		notifier:       notifier,
	}
}

var _ portssvc.BudgetSvcFacade = (*budgetService)(nil)

// buildItems materializes item and execution rows from the request lines and
// verifies the sum-equals-total invariant.
func buildItems(budgetID string, total decimal.Decimal, lines []dto.BudgetItemRequest, audit domain.AuditFields) ([]domain.BudgetItem, []domain.BudgetExecution, error) {
	items := make([]domain.BudgetItem, 0, len(lines))
	executions := make([]domain.BudgetExecution, 0, len(lines))
	sum := decimal.Zero

	for _, line := range lines {
		if !line.Amount.IsPositive() {
			return nil, nil, fmt.Errorf("%w: item %q amount must be positive", apperrors.ErrValidation, line.Category)
		}
		item := domain.BudgetItem{
			BudgetItemID: uuid.NewString(),
			BudgetID:     budgetID,
			Category:     line.Category,
			Description:  line.Description,
			Amount:       line.Amount,
			AuditFields:  audit,
		}
		exec := domain.NewSeededExecution(item, audit)
		exec.BudgetExecutionID = uuid.NewString()

		items = append(items, item)
		executions = append(executions, exec)
		sum = sum.Add(line.Amount)
	}

	if !domain.AmountsEqual(sum, total) {
		return nil, nil, fmt.Errorf("%w: item amounts sum to %s but the budget total is %s",
			apperrors.ErrBusinessRule, sum.String(), total.String())
	}
	return items, executions, nil
}

// CreateBudget creates a DRAFT budget with its items and seeded execution rows.
func (s *budgetService) CreateBudget(ctx context.Context, churchID string, req dto.CreateBudgetRequest, creatorUserID string) (*domain.Budget, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.churchSvc.AuthorizeUserAction(ctx, creatorUserID, churchID, domain.RoleDepartmentAccountant); err != nil {
		return nil, err
	}

	if !req.EndDate.After(req.StartDate) {
		return nil, fmt.Errorf("%w: end date must fall after start date", apperrors.ErrValidation)
	}
	if req.Month != nil && req.Quarter == nil {
		return nil, fmt.Errorf("%w: a monthly budget requires its quarter", apperrors.ErrValidation)
	}
	if !req.TotalAmount.IsPositive() {
		return nil, fmt.Errorf("%w: total amount must be positive", apperrors.ErrValidation)
	}

	department, err := s.departmentRepo.FindDepartmentByID(ctx, req.DepartmentID)
	if err != nil {
		return nil, fmt.Errorf("department: %w", err)
	}
	if department.ChurchID != churchID {
		return nil, fmt.Errorf("%w: department %s not found", apperrors.ErrNotFound, req.DepartmentID)
	}

	// One budget per (department, year, quarter, month).
	if existing, err := s.budgetRepo.FindBudgetByPeriod(ctx, churchID, req.DepartmentID, req.Year, req.Quarter, req.Month); err == nil && existing != nil {
		return nil, fmt.Errorf("%w: a budget for this department and period already exists", apperrors.ErrDuplicate)
	} else if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check for duplicate budget: %w", err)
	}

	now := time.Now().UTC()
	audit := domain.AuditFields{CreatedAt: now, CreatedBy: creatorUserID, LastUpdatedAt: now, LastUpdatedBy: creatorUserID}

	budget := domain.Budget{
		BudgetID:     uuid.NewString(),
		ChurchID:     churchID,
		DepartmentID: req.DepartmentID,
		Name:         req.Name,
		Year:         req.Year,
		Quarter:      req.Quarter,
		Month:        req.Month,
		TotalAmount:  req.TotalAmount,
		Status:       domain.BudgetDraft,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		AuditFields:  audit,
	}

	items, executions, err := buildItems(budget.BudgetID, req.TotalAmount, req.Items, audit)
	if err != nil {
		return nil, err
	}

	if err := s.budgetRepo.SaveBudget(ctx, budget, items, executions); err != nil {
		logger.Error("Failed to save budget", slog.String("error", err.Error()), slog.String("church_id", churchID))
		return nil, fmt.Errorf("failed to save budget: %w", err)
	}

	for i := range items {
		items[i].Execution = &executions[i]
	}
	budget.Items = items

	logger.Info("Budget created", slog.String("budget_id", budget.BudgetID), slog.Int("items", len(items)))
	return &budget, nil
}

// GetBudgetByID retrieves a budget with its items and execution counters.
func (s *budgetService) GetBudgetByID(ctx context.Context, churchID, budgetID string, requestingUserID string) (*domain.Budget, error) {
	if _, err := s.churchSvc.AuthorizeUserAction(ctx, requestingUserID, churchID, domain.RoleMember); err != nil {
		return nil, err
	}

	budget, err := s.budgetRepo.FindBudgetByID(ctx, budgetID)
	if err != nil {
		return nil, err
	}
	if budget.ChurchID != churchID {
		return nil, apperrors.ErrNotFound
	}
	return budget, nil
}

// ListBudgets retrieves a church's budgets without their item details.
func (s *budgetService) ListBudgets(ctx context.Context, churchID string, requestingUserID string, params dto.ListBudgetsParams) ([]domain.Budget, error) {
	if _, err := s.churchSvc.AuthorizeUserAction(ctx, requestingUserID, churchID, domain.RoleMember); err != nil {
		return nil, err
	}
	return s.budgetRepo.ListBudgetsByChurch(ctx, churchID, params.DepartmentID, params.Year)
}

// UpdateBudget rewrites a budget's header and optionally its whole item set.
// Allowed only before approval and before any execution has been recorded.
func (s *budgetService) UpdateBudget(ctx context.Context, churchID, budgetID string, req dto.UpdateBudgetRequest, updaterUserID string) (*domain.Budget, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.churchSvc.AuthorizeUserAction(ctx, updaterUserID, churchID, domain.RoleDepartmentAccountant); err != nil {
		return nil, err
	}

	budget, err := s.budgetRepo.FindBudgetByID(ctx, budgetID)
	if err != nil {
		return nil, err
	}
	if budget.ChurchID != churchID {
		return nil, apperrors.ErrNotFound
	}
	if budget.Status != domain.BudgetDraft && budget.Status != domain.BudgetSubmitted {
		return nil, fmt.Errorf("%w: budget in status %s cannot be edited", apperrors.ErrConflict, budget.Status)
	}

	for _, item := range budget.Items {
		if item.Execution != nil && (!item.Execution.UsedAmount.IsZero() || !item.Execution.PendingAmount.IsZero()) {
			return nil, fmt.Errorf("%w: budget item %s already has recorded execution", apperrors.ErrConflict, item.BudgetItemID)
		}
	}
	hasExpenses, err := s.budgetRepo.HasExpensesForBudget(ctx, budgetID, []domain.ExpenseStatus{domain.ExpensePending, domain.ExpenseApproved, domain.ExpensePaid})
	if err != nil {
		return nil, fmt.Errorf("failed to check budget expenses: %w", err)
	}
	if hasExpenses {
		return nil, fmt.Errorf("%w: budget has expense reports drawing on it", apperrors.ErrConflict)
	}

	if req.Name != nil {
		budget.Name = *req.Name
	}
	if req.TotalAmount != nil {
		budget.TotalAmount = *req.TotalAmount
	}
	if req.StartDate != nil {
		budget.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		budget.EndDate = *req.EndDate
	}
	if !budget.EndDate.After(budget.StartDate) {
		return nil, fmt.Errorf("%w: end date must fall after start date", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	budget.LastUpdatedAt = now
	budget.LastUpdatedBy = updaterUserID
	audit := domain.AuditFields{CreatedAt: now, CreatedBy: updaterUserID, LastUpdatedAt: now, LastUpdatedBy: updaterUserID}

	var items []domain.BudgetItem
	var executions []domain.BudgetExecution
	if len(req.Items) > 0 {
		items, executions, err = buildItems(budget.BudgetID, budget.TotalAmount, req.Items, audit)
		if err != nil {
			return nil, err
		}
	} else {
		// Items stay; the new total must still match their sum.
		sum := decimal.Zero
		for _, item := range budget.Items {
			sum = sum.Add(item.Amount)
		}
		if !domain.AmountsEqual(sum, budget.TotalAmount) {
			return nil, fmt.Errorf("%w: item amounts sum to %s but the budget total is %s",
				apperrors.ErrBusinessRule, sum.String(), budget.TotalAmount.String())
		}
		items = budget.Items
		for _, item := range budget.Items {
			if item.Execution != nil {
				executions = append(executions, *item.Execution)
			}
		}
	}

	if err := s.budgetRepo.ReplaceBudgetItems(ctx, *budget, items, executions); err != nil {
		logger.Error("Failed to update budget", slog.String("error", err.Error()), slog.String("budget_id", budgetID))
		return nil, fmt.Errorf("failed to update budget: %w", err)
	}

	if len(req.Items) > 0 {
		for i := range items {
			items[i].Execution = &executions[i]
		}
		budget.Items = items
	}
	return budget, nil
}

// ApproveBudget applies the approval decision: APPROVED activates the budget,
// REJECTED sends it back terminally.
func (s *budgetService) ApproveBudget(ctx context.Context, churchID, budgetID string, decision string, approverUserID string) (*domain.Budget, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.churchSvc.AuthorizeUserAction(ctx, approverUserID, churchID, domain.RoleFinanceManager); err != nil {
		return nil, err
	}

	budget, err := s.budgetRepo.FindBudgetByID(ctx, budgetID)
	if err != nil {
		return nil, err
	}
	if budget.ChurchID != churchID {
		return nil, apperrors.ErrNotFound
	}
	if budget.Status != domain.BudgetDraft && budget.Status != domain.BudgetSubmitted {
		return nil, fmt.Errorf("%w: budget in status %s has already been decided", apperrors.ErrConflict, budget.Status)
	}

	var status domain.BudgetStatus
	switch decision {
	case "APPROVED":
		status = domain.BudgetActive
	case "REJECTED":
		status = domain.BudgetRejected
	default:
		return nil, fmt.Errorf("%w: decision must be APPROVED or REJECTED", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	if err := s.budgetRepo.UpdateBudgetStatus(ctx, budgetID, status, approverUserID, now); err != nil {
		logger.Error("Failed to update budget status", slog.String("error", err.Error()), slog.String("budget_id", budgetID))
		return nil, fmt.Errorf("failed to update budget status: %w", err)
	}

	budget.Status = status
	budget.ApprovedBy = &approverUserID
	budget.ApprovedAt = &now

	s.notifier.Enqueue(ctx, budget.CreatedBy, domain.NotifyBudgetProcessed,
		"Budget "+string(status),
		fmt.Sprintf("Budget %q was %s", budget.Name, status), budget.BudgetID)

	logger.Info("Budget decided", slog.String("budget_id", budgetID), slog.String("status", string(status)))
	return budget, nil
}

// RequestBudgetChange records a PENDING amendment against an active budget.
// No amounts move until the change is approved.
func (s *budgetService) RequestBudgetChange(ctx context.Context, churchID, budgetID string, req dto.RequestBudgetChangeRequest, requesterUserID string) (*domain.BudgetChange, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.churchSvc.AuthorizeUserAction(ctx, requesterUserID, churchID, domain.RoleDepartmentAccountant); err != nil {
		return nil, err
	}
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: change amount must be positive", apperrors.ErrValidation)
	}

	budget, err := s.budgetRepo.FindBudgetByID(ctx, budgetID)
	if err != nil {
		return nil, err
	}
	if budget.ChurchID != churchID {
		return nil, apperrors.ErrNotFound
	}
	if budget.Status != domain.BudgetActive {
		return nil, fmt.Errorf("%w: only an ACTIVE budget can be amended", apperrors.ErrConflict)
	}

	itemsByID := make(map[string]domain.BudgetItem, len(budget.Items))
	for _, item := range budget.Items {
		itemsByID[item.BudgetItemID] = item
	}
	mustOwn := func(itemID *string, side string) (*domain.BudgetItem, error) {
		if itemID == nil {
			return nil, fmt.Errorf("%w: %s item is required for a %s change", apperrors.ErrValidation, side, req.ChangeType)
		}
		item, ok := itemsByID[*itemID]
		if !ok {
			return nil, fmt.Errorf("%w: %s item %s does not belong to this budget", apperrors.ErrValidation, side, *itemID)
		}
		return &item, nil
	}

	switch req.ChangeType {
	case domain.ChangeTransfer:
		fromItem, err := mustOwn(req.FromItemID, "source")
		if err != nil {
			return nil, err
		}
		if _, err := mustOwn(req.ToItemID, "destination"); err != nil {
			return nil, err
		}
		if *req.FromItemID == *req.ToItemID {
			return nil, fmt.Errorf("%w: transfer source and destination must differ", apperrors.ErrValidation)
		}
		if fromItem.Execution != nil && fromItem.Execution.RemainingAmount.LessThan(req.Amount) {
			return nil, apperrors.NewInsufficientBudgetError(fromItem.Execution.RemainingAmount, req.Amount)
		}
	case domain.ChangeIncrease:
		if _, err := mustOwn(req.ToItemID, "destination"); err != nil {
			return nil, err
		}
	case domain.ChangeDecrease:
		fromItem, err := mustOwn(req.FromItemID, "source")
		if err != nil {
			return nil, err
		}
		if fromItem.Execution != nil && fromItem.Execution.RemainingAmount.LessThan(req.Amount) {
			return nil, apperrors.NewInsufficientBudgetError(fromItem.Execution.RemainingAmount, req.Amount)
		}
	default:
		return nil, fmt.Errorf("%w: unknown change type %s", apperrors.ErrValidation, req.ChangeType)
	}

	now := time.Now().UTC()
	change := domain.BudgetChange{
		BudgetChangeID: uuid.NewString(),
		BudgetID:       budgetID,
		ChangeType:     req.ChangeType,
		Amount:         req.Amount,
		FromItemID:     req.FromItemID,
		ToItemID:       req.ToItemID,
		Reason:         req.Reason,
		Status:         domain.ChangePending,
		AuditFields:    domain.AuditFields{CreatedAt: now, CreatedBy: requesterUserID, LastUpdatedAt: now, LastUpdatedBy: requesterUserID},
	}

	if err := s.budgetRepo.SaveBudgetChange(ctx, change); err != nil {
		logger.Error("Failed to save budget change", slog.String("error", err.Error()), slog.String("budget_id", budgetID))
		return nil, fmt.Errorf("failed to save budget change: %w", err)
	}

	logger.Info("Budget change requested", slog.String("budget_change_id", change.BudgetChangeID), slog.String("type", string(change.ChangeType)))
	return &change, nil
}

// ApproveBudgetChange decides a pending change. Approval applies the amounts
// atomically; the source's remaining budget is re-validated at this moment,
// not at request time, since executions may have moved in between.
func (s *budgetService) ApproveBudgetChange(ctx context.Context, churchID, budgetChangeID string, decision domain.BudgetChangeStatus, approverUserID string) (*domain.BudgetChange, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.churchSvc.AuthorizeUserAction(ctx, approverUserID, churchID, domain.RoleFinanceManager); err != nil {
		return nil, err
	}

	change, err := s.budgetRepo.FindBudgetChangeByID(ctx, budgetChangeID)
	if err != nil {
		return nil, err
	}
	budget, err := s.budgetRepo.FindBudgetByID(ctx, change.BudgetID)
	if err != nil {
		return nil, err
	}
	if budget.ChurchID != churchID {
		return nil, apperrors.ErrNotFound
	}
	if change.Status != domain.ChangePending {
		return nil, fmt.Errorf("%w: change request has already been %s", apperrors.ErrConflict, change.Status)
	}

	now := time.Now().UTC()
	switch decision {
	case domain.ChangeApproved:
		if err := s.budgetRepo.ApplyBudgetChange(ctx, *change, approverUserID, now); err != nil {
			logger.Warn("Budget change application failed", slog.String("budget_change_id", budgetChangeID), slog.String("error", err.Error()))
			return nil, err
		}
	case domain.ChangeRejected:
		if err := s.budgetRepo.RejectBudgetChange(ctx, budgetChangeID, approverUserID, now); err != nil {
			logger.Error("Failed to reject budget change", slog.String("error", err.Error()), slog.String("budget_change_id", budgetChangeID))
			return nil, fmt.Errorf("failed to reject budget change: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: decision must be APPROVED or REJECTED", apperrors.ErrValidation)
	}

	change.Status = decision
	change.ProcessedBy = &approverUserID
	change.ProcessedAt = &now

	s.notifier.Enqueue(ctx, change.CreatedBy, domain.NotifyBudgetProcessed,
		"Budget change "+string(decision),
		fmt.Sprintf("Your %s request for %s was %s", change.ChangeType, change.Amount.String(), decision),
		change.BudgetChangeID)

	logger.Info("Budget change decided", slog.String("budget_change_id", budgetChangeID), slog.String("status", string(decision)))
	return change, nil
}

// CheckBalance answers whether requestAmount can still be drawn from the item.
func (s *budgetService) CheckBalance(ctx context.Context, churchID, budgetItemID string, requestAmount decimal.Decimal, requestingUserID string) (*domain.BudgetBalance, error) {
	if _, err := s.churchSvc.AuthorizeUserAction(ctx, requestingUserID, churchID, domain.RoleMember); err != nil {
		return nil, err
	}
	if !requestAmount.IsPositive() {
		return nil, fmt.Errorf("%w: request amount must be positive", apperrors.ErrValidation)
	}

	item, err := s.budgetRepo.FindBudgetItemByID(ctx, budgetItemID)
	if err != nil {
		return nil, err
	}
	budget, err := s.budgetRepo.FindBudgetByID(ctx, item.BudgetID)
	if err != nil {
		return nil, err
	}
	if budget.ChurchID != churchID {
		return nil, apperrors.ErrNotFound
	}

	execution := item.Execution
	if execution == nil {
		execution, err = s.budgetRepo.FindExecutionByItemID(ctx, budgetItemID)
		if err != nil {
			return nil, err
		}
	}

	balance := domain.BudgetBalance{
		BudgetItemID:    budgetItemID,
		RemainingAmount: execution.RemainingAmount,
		CanApprove:      !execution.RemainingAmount.LessThan(requestAmount),
		ExceedAmount:    decimal.Zero,
	}
	if !balance.CanApprove {
		balance.ExceedAmount = requestAmount.Sub(execution.RemainingAmount)
	}
	return &balance, nil
}
