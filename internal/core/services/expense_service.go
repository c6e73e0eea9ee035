package services

import (
	"context"
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

// expenseService drives expense reports through the fixed three-step approval
// chain. Budget sufficiency is checked when the report is created and checked
// again, under a row lock, at the terminal approval.
type expenseService struct {
	expenseRepo portsrepo.ExpenseRepositoryFacade
	budgetRepo  portsrepo.BudgetRepositoryFacade
	churchSvc   portssvc.ChurchSvcFacade
	notifier    portssvc.NotificationEnqueuer
}

// NewExpenseService creates a new ExpenseService.
func NewExpenseService(
	expenseRepo portsrepo.ExpenseRepositoryFacade,
	budgetRepo portsrepo.BudgetRepositoryFacade,
	churchSvc portssvc.ChurchSvcFacade,
	notifier portssvc.NotificationEnqueuer,
) portssvc.ExpenseSvcFacade {
	return &expenseService{
		expenseRepo: expenseRepo,
		budgetRepo:  budgetRepo,
		churchSvc:   churchSvc,
		notifier:    notifier,
	}
}

var _ portssvc.ExpenseSvcFacade = (*expenseService)(nil)

// checkBudgetDraw verifies that the budget item can fund the amount on the
// given date: the owning budget must be ACTIVE, the date inside its period,
// and the remaining amount sufficient.
func (s *expenseService) checkBudgetDraw(ctx context.Context, churchID, budgetItemID string, amount decimal.Decimal, expenseDate time.Time) error {
	item, err := s.budgetRepo.FindBudgetItemByID(ctx, budgetItemID)
	if err != nil {
		return fmt.Errorf("budget item: %w", err)
	}
	budget, err := s.budgetRepo.FindBudgetByID(ctx, item.BudgetID)
	if err != nil {
		return fmt.Errorf("budget: %w", err)
	}
	if budget.ChurchID != churchID {
		return fmt.Errorf("%w: budget item %s not found", apperrors.ErrNotFound, budgetItemID)
	}
	if budget.Status != domain.BudgetActive {
		return fmt.Errorf("%w: budget %s is not active", apperrors.ErrBusinessRule, budget.BudgetID)
	}
	if !budget.CoversDate(expenseDate) {
		return fmt.Errorf("%w: expense date is outside the budget period", apperrors.ErrBusinessRule)
	}

	execution := item.Execution
	if execution == nil {
		execution, err = s.budgetRepo.FindExecutionByItemID(ctx, budgetItemID)
		if err != nil {
			return fmt.Errorf("budget execution: %w", err)
		}
	}
	if execution.RemainingAmount.LessThan(amount) {
		return apperrors.NewInsufficientBudgetError(execution.RemainingAmount, amount)
	}
	return nil
}

// CreateExpense opens a DRAFT expense report with its full approval chain.
// The report immediately counts as pending against the referenced budget item.
func (s *expenseService) CreateExpense(ctx context.Context, churchID string, req dto.CreateExpenseRequest, requesterUserID string) (*domain.ExpenseReport, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.churchSvc.AuthorizeUserAction(ctx, requesterUserID, churchID, domain.RoleMember); err != nil {
		return nil, err
	}
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}

	if req.BudgetItemID != nil {
		if err := s.checkBudgetDraw(ctx, churchID, *req.BudgetItemID, req.Amount, req.ExpenseDate); err != nil {
			return nil, err
		}
	}

	assignedByStep := make(map[int]string, len(req.ApproverAssignments))
	for _, a := range req.ApproverAssignments {
		if _, dup := assignedByStep[a.StepOrder]; dup {
			return nil, fmt.Errorf("%w: duplicate assignment for step %d", apperrors.ErrValidation, a.StepOrder)
		}
		assignedByStep[a.StepOrder] = a.UserID
	}

	now := time.Now().UTC()
	audit := domain.AuditFields{CreatedAt: now, CreatedBy: requesterUserID, LastUpdatedAt: now, LastUpdatedBy: requesterUserID}

	report := domain.ExpenseReport{
		ExpenseReportID: uuid.NewString(),
		ChurchID:        churchID,
		RequesterID:     requesterUserID,
		DepartmentID:    req.DepartmentID,
		Title:           req.Title,
		Category:        req.Category,
		Amount:          req.Amount,
		ExpenseDate:     req.ExpenseDate,
		BudgetItemID:    req.BudgetItemID,
		Status:          domain.ExpensePending,
		WorkflowStatus:  domain.WorkflowDraft,
		CurrentStep:     0,
		TotalSteps:      domain.ExpenseTotalSteps,
		AuditFields:     audit,
	}

	steps := make([]domain.ApprovalStep, 0, domain.ExpenseTotalSteps)
	for order := 1; order <= domain.ExpenseTotalSteps; order++ {
		step := domain.ApprovalStep{
			ApprovalStepID:  uuid.NewString(),
			ExpenseReportID: report.ExpenseReportID,
			StepOrder:       order,
			RequiredRole:    domain.StepRoleForOrder(order),
			Status:          domain.StepPending,
			AuditFields:     audit,
		}
		if userID, ok := assignedByStep[order]; ok {
			step.AssignedUserID = &userID
		}
		steps = append(steps, step)
	}

	if err := s.expenseRepo.SaveExpense(ctx, report, steps); err != nil {
		logger.Error("Failed to save expense report", slog.String("error", err.Error()), slog.String("church_id", churchID))
		return nil, fmt.Errorf("failed to save expense report: %w", err)
	}

	report.Steps = steps
	logger.Info("Expense report created", slog.String("expense_report_id", report.ExpenseReportID), slog.String("amount", report.Amount.String()))
	return &report, nil
}

// GetExpenseByID retrieves an expense report with its approval chain.
func (s *expenseService) GetExpenseByID(ctx context.Context, churchID, expenseReportID string, requestingUserID string) (*domain.ExpenseReport, error) {
	if _, err := s.churchSvc.AuthorizeUserAction(ctx, requestingUserID, churchID, domain.RoleMember); err != nil {
		return nil, err
	}

	report, err := s.expenseRepo.FindExpenseByID(ctx, expenseReportID)
	if err != nil {
		return nil, err
	}
	if report.ChurchID != churchID {
		return nil, apperrors.ErrNotFound
	}
	return report, nil
}

// ListExpenses retrieves a church's expense reports without their steps.
func (s *expenseService) ListExpenses(ctx context.Context, churchID string, requestingUserID string, params dto.ListExpensesParams) ([]domain.ExpenseReport, error) {
	if _, err := s.churchSvc.AuthorizeUserAction(ctx, requestingUserID, churchID, domain.RoleMember); err != nil {
		return nil, err
	}
	return s.expenseRepo.ListExpensesByChurch(ctx, churchID, params.Status, params.BudgetItemID)
}

// SubmitExpense moves a DRAFT report into the approval chain at step 1 and
// notifies the step's approvers.
func (s *expenseService) SubmitExpense(ctx context.Context, churchID, expenseReportID string, requesterUserID string) (*domain.ExpenseReport, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.churchSvc.AuthorizeUserAction(ctx, requesterUserID, churchID, domain.RoleMember); err != nil {
		return nil, err
	}

	report, err := s.expenseRepo.FindExpenseByID(ctx, expenseReportID)
	if err != nil {
		return nil, err
	}
	if report.ChurchID != churchID {
		return nil, apperrors.ErrNotFound
	}
	if report.RequesterID != requesterUserID {
		return nil, fmt.Errorf("%w: only the requester may submit a report", apperrors.ErrForbidden)
	}
	if report.WorkflowStatus != domain.WorkflowDraft {
		return nil, fmt.Errorf("%w: report is already %s", apperrors.ErrConflict, report.WorkflowStatus)
	}

	report.WorkflowStatus = domain.WorkflowInProgress
	report.CurrentStep = 1
	report.LastUpdatedAt = time.Now().UTC()
	report.LastUpdatedBy = requesterUserID

	if err := s.expenseRepo.MarkSubmitted(ctx, *report); err != nil {
		logger.Error("Failed to submit expense report", slog.String("error", err.Error()), slog.String("expense_report_id", expenseReportID))
		return nil, fmt.Errorf("failed to submit expense report: %w", err)
	}

	s.notifyStepApprovers(ctx, report, 1)
	logger.Info("Expense report submitted", slog.String("expense_report_id", expenseReportID))
	return report, nil
}

// currentPendingStep finds the step the workflow is waiting on.
func currentPendingStep(report *domain.ExpenseReport) (*domain.ApprovalStep, error) {
	for i := range report.Steps {
		step := &report.Steps[i]
		if step.StepOrder == report.CurrentStep {
			if step.Status != domain.StepPending {
				return nil, fmt.Errorf("%w: step %d has already been %s", apperrors.ErrConflict, step.StepOrder, step.Status)
			}
			return step, nil
		}
	}
	return nil, fmt.Errorf("%w: no pending step %d on report", apperrors.ErrIntegrity, report.CurrentStep)
}

// ApproveStep applies an approver's decision to the report's current step.
// A rejection at any step terminates the whole chain; the final approval
// re-validates the budget draw under a row lock before settling.
func (s *expenseService) ApproveStep(ctx context.Context, churchID, expenseReportID string, req dto.ApproveStepRequest, actorUserID string) (*domain.ExpenseReport, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	actorRole, err := s.churchSvc.AuthorizeUserAction(ctx, actorUserID, churchID, domain.RoleMember)
	if err != nil {
		return nil, err
	}

	report, err := s.expenseRepo.FindExpenseByID(ctx, expenseReportID)
	if err != nil {
		return nil, err
	}
	if report.ChurchID != churchID {
		return nil, apperrors.ErrNotFound
	}
	if report.IsTerminal() {
		return nil, fmt.Errorf("%w: workflow already settled as %s", apperrors.ErrConflict, report.WorkflowStatus)
	}
	if report.WorkflowStatus != domain.WorkflowInProgress {
		return nil, fmt.Errorf("%w: report has not been submitted", apperrors.ErrBusinessRule)
	}

	step, err := currentPendingStep(report)
	if err != nil {
		return nil, err
	}
	if !domain.RoleMayActOnStep(actorRole, step.RequiredRole) {
		return nil, fmt.Errorf("%w: step %d requires role %s", apperrors.ErrForbidden, step.StepOrder, step.RequiredRole)
	}

	now := time.Now().UTC()
	step.ActedBy = &actorUserID
	step.ActedAt = &now
	step.Comment = req.Comment
	step.LastUpdatedAt = now
	step.LastUpdatedBy = actorUserID
	report.LastUpdatedAt = now
	report.LastUpdatedBy = actorUserID

	switch req.Decision {
	case domain.DecisionReject:
		step.Status = domain.StepRejected
		report.WorkflowStatus = domain.WorkflowRejected
		report.Status = domain.ExpenseRejected
		if err := s.expenseRepo.RejectWorkflow(ctx, *report, *step); err != nil {
			logger.Error("Failed to reject expense workflow", slog.String("error", err.Error()), slog.String("expense_report_id", expenseReportID))
			return nil, fmt.Errorf("failed to reject expense workflow: %w", err)
		}
		s.notifier.Enqueue(ctx, report.RequesterID, domain.NotifyExpenseRejected,
			"Expense report rejected",
			fmt.Sprintf("Your expense %q was rejected at step %d", report.Title, step.StepOrder),
			report.ExpenseReportID)

	case domain.DecisionApprove:
		step.Status = domain.StepApproved
		if step.StepOrder < report.TotalSteps {
			report.CurrentStep = step.StepOrder + 1
			if err := s.expenseRepo.AdvanceStep(ctx, *report, *step); err != nil {
				logger.Error("Failed to advance expense workflow", slog.String("error", err.Error()), slog.String("expense_report_id", expenseReportID))
				return nil, fmt.Errorf("failed to advance expense workflow: %w", err)
			}
			s.notifyStepApprovers(ctx, report, report.CurrentStep)
		} else {
			report.WorkflowStatus = domain.WorkflowApproved
			report.Status = domain.ExpenseApproved
			if err := s.expenseRepo.FinalizeApproval(ctx, *report, *step); err != nil {
				logger.Warn("Final expense approval failed", slog.String("expense_report_id", expenseReportID), slog.String("error", err.Error()))
				return nil, err
			}
			s.notifier.Enqueue(ctx, report.RequesterID, domain.NotifyExpenseApproved,
				"Expense report approved",
				fmt.Sprintf("Your expense %q was fully approved", report.Title),
				report.ExpenseReportID)
		}

	default:
		return nil, fmt.Errorf("%w: decision must be APPROVE or REJECT", apperrors.ErrValidation)
	}

	logger.Info("Approval step decided",
		slog.String("expense_report_id", expenseReportID),
		slog.Int("step", step.StepOrder),
		slog.String("decision", string(req.Decision)),
	)
	return report, nil
}

// ApproveDirect applies the simplified single-step decision, bypassing the
// chain. Restricted to managerial roles; terminal approvals get the same
// lock-and-revalidate treatment as the chain's final step.
func (s *expenseService) ApproveDirect(ctx context.Context, churchID, expenseReportID string, status domain.ExpenseStatus, actorUserID string) (*domain.ExpenseReport, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.churchSvc.AuthorizeUserAction(ctx, actorUserID, churchID, domain.RoleFinanceManager); err != nil {
		return nil, err
	}

	report, err := s.expenseRepo.FindExpenseByID(ctx, expenseReportID)
	if err != nil {
		return nil, err
	}
	if report.ChurchID != churchID {
		return nil, apperrors.ErrNotFound
	}

	now := time.Now().UTC()
	switch status {
	case domain.ExpenseApproved:
		if report.Status != domain.ExpensePending {
			return nil, fmt.Errorf("%w: report is already %s", apperrors.ErrConflict, report.Status)
		}
		report.Status = domain.ExpenseApproved
		report.WorkflowStatus = domain.WorkflowApproved
	case domain.ExpenseRejected:
		if report.Status != domain.ExpensePending {
			return nil, fmt.Errorf("%w: report is already %s", apperrors.ErrConflict, report.Status)
		}
		report.Status = domain.ExpenseRejected
		report.WorkflowStatus = domain.WorkflowRejected
	case domain.ExpensePaid:
		if report.Status != domain.ExpenseApproved {
			return nil, fmt.Errorf("%w: only an approved report can be marked paid", apperrors.ErrConflict)
		}
		report.Status = domain.ExpensePaid
	default:
		return nil, fmt.Errorf("%w: status must be APPROVED, REJECTED or PAID", apperrors.ErrValidation)
	}
	report.LastUpdatedAt = now
	report.LastUpdatedBy = actorUserID

	if err := s.expenseRepo.UpdateExpenseStatus(ctx, *report); err != nil {
		logger.Warn("Direct expense decision failed", slog.String("expense_report_id", expenseReportID), slog.String("error", err.Error()))
		return nil, err
	}

	notifType := domain.NotifyExpenseApproved
	if status == domain.ExpenseRejected {
		notifType = domain.NotifyExpenseRejected
	}
	s.notifier.Enqueue(ctx, report.RequesterID, notifType,
		"Expense report "+string(status),
		fmt.Sprintf("Your expense %q is now %s", report.Title, status),
		report.ExpenseReportID)

	logger.Info("Expense decided directly", slog.String("expense_report_id", expenseReportID), slog.String("status", string(status)))
	return report, nil
}

// DeleteExpense removes a report that never settled: still pending, or
// rejected. Approved and paid reports are history and stay.
func (s *expenseService) DeleteExpense(ctx context.Context, churchID, expenseReportID string, actorUserID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	role, err := s.churchSvc.AuthorizeUserAction(ctx, actorUserID, churchID, domain.RoleMember)
	if err != nil {
		return err
	}

	report, err := s.expenseRepo.FindExpenseByID(ctx, expenseReportID)
	if err != nil {
		return err
	}
	if report.ChurchID != churchID {
		return apperrors.ErrNotFound
	}
	if report.RequesterID != actorUserID && !role.AtLeast(domain.RoleFinanceManager) {
		return fmt.Errorf("%w: only the requester or a finance manager may delete a report", apperrors.ErrForbidden)
	}
	if report.Status != domain.ExpensePending && report.Status != domain.ExpenseRejected {
		return fmt.Errorf("%w: a report in status %s cannot be deleted", apperrors.ErrConflict, report.Status)
	}

	if err := s.expenseRepo.DeleteExpense(ctx, expenseReportID); err != nil {
		logger.Error("Failed to delete expense report", slog.String("error", err.Error()), slog.String("expense_report_id", expenseReportID))
		return fmt.Errorf("failed to delete expense report: %w", err)
	}

	logger.Info("Expense report deleted", slog.String("expense_report_id", expenseReportID))
	return nil
}

// ValidateBudgetExpense checks sufficiency without writing anything.
func (s *expenseService) ValidateBudgetExpense(ctx context.Context, churchID string, req dto.ValidateBudgetExpenseRequest, requestingUserID string) dto.ValidateBudgetExpenseResponse {
	if _, err := s.churchSvc.AuthorizeUserAction(ctx, requestingUserID, churchID, domain.RoleMember); err != nil {
		return dto.ValidateBudgetExpenseResponse{IsValid: false, Error: err.Error()}
	}

	execution, err := s.budgetRepo.FindExecutionByItemID(ctx, req.BudgetItemID)
	if err != nil {
		return dto.ValidateBudgetExpenseResponse{IsValid: false, Error: err.Error()}
	}

	resp := dto.ValidateBudgetExpenseResponse{
		RemainingAmount: execution.RemainingAmount,
		IsValid:         !execution.RemainingAmount.LessThan(req.Amount),
	}
	if !resp.IsValid {
		resp.Error = apperrors.NewInsufficientBudgetError(execution.RemainingAmount, req.Amount).Error()
	}
	return resp
}

// notifyStepApprovers fans an approval request out to the step's assigned
// user, or to every holder of the required role when nobody was assigned.
func (s *expenseService) notifyStepApprovers(ctx context.Context, report *domain.ExpenseReport, stepOrder int) {
	var step *domain.ApprovalStep
	for i := range report.Steps {
		if report.Steps[i].StepOrder == stepOrder {
			step = &report.Steps[i]
			break
		}
	}
	if step == nil {
		return
	}

	title := "Expense approval requested"
	message := fmt.Sprintf("Expense %q (%s) awaits your approval at step %d", report.Title, report.Amount.String(), stepOrder)

	if step.AssignedUserID != nil {
		s.notifier.Enqueue(ctx, *step.AssignedUserID, domain.NotifyApprovalRequested, title, message, report.ExpenseReportID)
		return
	}

	approvers, err := s.churchSvc.ListApproversForRole(ctx, report.ChurchID, step.RequiredRole)
	if err != nil {
		middleware.GetLoggerFromCtx(ctx).Warn("Failed to list approvers for notification",
			slog.String("church_id", report.ChurchID), slog.String("role", string(step.RequiredRole)), slog.String("error", err.Error()))
		return
	}
	for _, approverID := range approvers {
		s.notifier.Enqueue(ctx, approverID, domain.NotifyApprovalRequested, title, message, report.ExpenseReportID)
	}
}
