package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/parishware/church_finance_app/internal/apperrors"
	"github.com/parishware/church_finance_app/internal/core/domain"
	portssvc "github.com/parishware/church_finance_app/internal/core/ports/services"
	"github.com/parishware/church_finance_app/internal/core/services"
	"github.com/parishware/church_finance_app/internal/dto"
)

// --- Test Suite Setup ---
type ExpenseServiceTestSuite struct {
	suite.Suite
	mockExpenseRepo *MockExpenseRepository
	mockBudgetRepo  *MockBudgetRepository
	mockChurchSvc   *MockChurchService
	mockNotifier    *MockNotifier
	service         portssvc.ExpenseSvcFacade
	churchID        string
	requesterID     string
	budget          domain.Budget
	budgetItem      domain.BudgetItem
	execution       domain.BudgetExecution
}

func (suite *ExpenseServiceTestSuite) SetupTest() {
	suite.mockExpenseRepo = new(MockExpenseRepository)
	suite.mockBudgetRepo = new(MockBudgetRepository)
	suite.mockChurchSvc = new(MockChurchService)
	suite.mockNotifier = new(MockNotifier)
	suite.service = services.NewExpenseService(suite.mockExpenseRepo, suite.mockBudgetRepo, suite.mockChurchSvc, suite.mockNotifier)

	suite.churchID = uuid.NewString()
	suite.requesterID = uuid.NewString()

	now := time.Now().UTC()
	suite.budget = domain.Budget{
		BudgetID:  uuid.NewString(),
		ChurchID:  suite.churchID,
		Status:    domain.BudgetActive,
		StartDate: now.AddDate(0, -1, 0),
		EndDate:   now.AddDate(0, 1, 0),
	}
	suite.budgetItem = domain.BudgetItem{
		BudgetItemID: uuid.NewString(),
		BudgetID:     suite.budget.BudgetID,
		Category:     "Supplies",
		Amount:       decimal.NewFromInt(500),
	}
	suite.execution = domain.BudgetExecution{
		BudgetExecutionID: uuid.NewString(),
		BudgetItemID:      suite.budgetItem.BudgetItemID,
		TotalBudget:       decimal.NewFromInt(500),
		UsedAmount:        decimal.NewFromInt(100),
		PendingAmount:     decimal.NewFromInt(100),
		RemainingAmount:   decimal.NewFromInt(300),
	}
}

// draftReport builds a DRAFT report with its three pending steps.
func (suite *ExpenseServiceTestSuite) draftReport() *domain.ExpenseReport {
	report := &domain.ExpenseReport{
		ExpenseReportID: uuid.NewString(),
		ChurchID:        suite.churchID,
		RequesterID:     suite.requesterID,
		Title:           "Retreat supplies",
		Category:        "Supplies",
		Amount:          decimal.NewFromInt(200),
		ExpenseDate:     time.Now().UTC(),
		Status:          domain.ExpensePending,
		WorkflowStatus:  domain.WorkflowDraft,
		CurrentStep:     0,
		TotalSteps:      domain.ExpenseTotalSteps,
	}
	for order := 1; order <= domain.ExpenseTotalSteps; order++ {
		report.Steps = append(report.Steps, domain.ApprovalStep{
			ApprovalStepID:  uuid.NewString(),
			ExpenseReportID: report.ExpenseReportID,
			StepOrder:       order,
			RequiredRole:    domain.StepRoleForOrder(order),
			Status:          domain.StepPending,
		})
	}
	return report
}

// inProgressReport builds a submitted report waiting on the given step.
func (suite *ExpenseServiceTestSuite) inProgressReport(currentStep int) *domain.ExpenseReport {
	report := suite.draftReport()
	report.WorkflowStatus = domain.WorkflowInProgress
	report.CurrentStep = currentStep
	for i := range report.Steps {
		if report.Steps[i].StepOrder < currentStep {
			report.Steps[i].Status = domain.StepApproved
		}
	}
	return report
}

// --- Test Cases ---

func (suite *ExpenseServiceTestSuite) TestCreateExpense_Success() {
	ctx := context.Background()
	itemID := suite.budgetItem.BudgetItemID
	req := dto.CreateExpenseRequest{
		Title:        "Retreat supplies",
		Category:     "Supplies",
		Amount:       decimal.NewFromInt(200),
		ExpenseDate:  time.Now().UTC(),
		BudgetItemID: &itemID,
	}

	suite.mockChurchSvc.On("AuthorizeUserAction", ctx, suite.requesterID, suite.churchID, domain.RoleMember).Return(domain.RoleMember, nil).Once()
	suite.mockBudgetRepo.On("FindBudgetItemByID", ctx, itemID).Return(&suite.budgetItem, nil).Once()
	suite.mockBudgetRepo.On("FindBudgetByID", ctx, suite.budget.BudgetID).Return(&suite.budget, nil).Once()
	suite.mockBudgetRepo.On("FindExecutionByItemID", ctx, itemID).Return(&suite.execution, nil).Once()
	suite.mockExpenseRepo.On("SaveExpense", ctx, mock.AnythingOfType("domain.ExpenseReport"), mock.AnythingOfType("[]domain.ApprovalStep")).Return(nil).Once()

	report, err := suite.service.CreateExpense(ctx, suite.churchID, req, suite.requesterID)

	suite.Require().NoError(err)
	suite.Require().NotNil(report)
	suite.Equal(domain.WorkflowDraft, report.WorkflowStatus)
	suite.Equal(domain.ExpensePending, report.Status)
	suite.Equal(0, report.CurrentStep)
	suite.Require().Len(report.Steps, domain.ExpenseTotalSteps)
	suite.Equal(domain.RoleDepartmentAccountant, report.Steps[0].RequiredRole)
	suite.Equal(domain.RoleDepartmentHead, report.Steps[1].RequiredRole)
	suite.Equal(domain.RoleCommitteeChair, report.Steps[2].RequiredRole)

	suite.mockExpenseRepo.AssertExpectations(suite.T())
	suite.mockBudgetRepo.AssertExpectations(suite.T())
}

func (suite *ExpenseServiceTestSuite) TestCreateExpense_InsufficientBudget() {
	ctx := context.Background()
	itemID := suite.budgetItem.BudgetItemID
	req := dto.CreateExpenseRequest{
		Title:        "Sound system",
		Category:     "Equipment",
		Amount:       decimal.NewFromInt(450),
		ExpenseDate:  time.Now().UTC(),
		BudgetItemID: &itemID,
	}

	suite.mockChurchSvc.On("AuthorizeUserAction", ctx, suite.requesterID, suite.churchID, domain.RoleMember).Return(domain.RoleMember, nil).Once()
	suite.mockBudgetRepo.On("FindBudgetItemByID", ctx, itemID).Return(&suite.budgetItem, nil).Once()
	suite.mockBudgetRepo.On("FindBudgetByID", ctx, suite.budget.BudgetID).Return(&suite.budget, nil).Once()
	suite.mockBudgetRepo.On("FindExecutionByItemID", ctx, itemID).Return(&suite.execution, nil).Once()

	_, err := suite.service.CreateExpense(ctx, suite.churchID, req, suite.requesterID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrBusinessRule)
	var bizErr *apperrors.BusinessRuleError
	suite.Require().ErrorAs(err, &bizErr)
	suite.True(bizErr.RemainingAmount.Equal(decimal.NewFromInt(300)))
	suite.True(bizErr.ExceedAmount.Equal(decimal.NewFromInt(150)))
	suite.mockExpenseRepo.AssertNotCalled(suite.T(), "SaveExpense", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ExpenseServiceTestSuite) TestCreateExpense_InactiveBudget() {
	ctx := context.Background()
	suite.budget.Status = domain.BudgetDraft
	itemID := suite.budgetItem.BudgetItemID
	req := dto.CreateExpenseRequest{
		Title:        "Flyers",
		Category:     "Printing",
		Amount:       decimal.NewFromInt(50),
		ExpenseDate:  time.Now().UTC(),
		BudgetItemID: &itemID,
	}

	suite.mockChurchSvc.On("AuthorizeUserAction", ctx, suite.requesterID, suite.churchID, domain.RoleMember).Return(domain.RoleMember, nil).Once()
	suite.mockBudgetRepo.On("FindBudgetItemByID", ctx, itemID).Return(&suite.budgetItem, nil).Once()
	suite.mockBudgetRepo.On("FindBudgetByID", ctx, suite.budget.BudgetID).Return(&suite.budget, nil).Once()

	_, err := suite.service.CreateExpense(ctx, suite.churchID, req, suite.requesterID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrBusinessRule)
	suite.mockExpenseRepo.AssertNotCalled(suite.T(), "SaveExpense", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ExpenseServiceTestSuite) TestCreateExpense_DateOutsideBudgetPeriod() {
	ctx := context.Background()
	itemID := suite.budgetItem.BudgetItemID
	req := dto.CreateExpenseRequest{
		Title:        "Old invoice",
		Category:     "Supplies",
		Amount:       decimal.NewFromInt(50),
		ExpenseDate:  suite.budget.StartDate.AddDate(0, -2, 0),
		BudgetItemID: &itemID,
	}

	suite.mockChurchSvc.On("AuthorizeUserAction", ctx, suite.requesterID, suite.churchID, domain.RoleMember).Return(domain.RoleMember, nil).Once()
	suite.mockBudgetRepo.On("FindBudgetItemByID", ctx, itemID).Return(&suite.budgetItem, nil).Once()
	suite.mockBudgetRepo.On("FindBudgetByID", ctx, suite.budget.BudgetID).Return(&suite.budget, nil).Once()

	_, err := suite.service.CreateExpense(ctx, suite.churchID, req, suite.requesterID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrBusinessRule)
}

func (suite *ExpenseServiceTestSuite) TestCreateExpense_NonPositiveAmount() {
	ctx := context.Background()
	req := dto.CreateExpenseRequest{
		Title:       "Nothing",
		Category:    "Misc",
		Amount:      decimal.Zero,
		ExpenseDate: time.Now().UTC(),
	}

	suite.mockChurchSvc.On("AuthorizeUserAction", ctx, suite.requesterID, suite.churchID, domain.RoleMember).Return(domain.RoleMember, nil).Once()

	_, err := suite.service.CreateExpense(ctx, suite.churchID, req, suite.requesterID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *ExpenseServiceTestSuite) TestSubmitExpense_Success() {
	ctx := context.Background()
	report := suite.draftReport()

	suite.mockChurchSvc.On("AuthorizeUserAction", ctx, suite.requesterID, suite.churchID, domain.RoleMember).Return(domain.RoleMember, nil).Once()
	suite.mockExpenseRepo.On("FindExpenseByID", ctx, report.ExpenseReportID).Return(report, nil).Once()
	suite.mockExpenseRepo.On("MarkSubmitted", ctx, mock.AnythingOfType("domain.ExpenseReport")).Return(nil).Once()
	suite.mockChurchSvc.On("ListApproversForRole", ctx, suite.churchID, domain.RoleDepartmentAccountant).Return([]string{"approver-1"}, nil).Once()
	suite.mockNotifier.On("Enqueue", ctx, "approver-1", domain.NotifyApprovalRequested, mock.AnythingOfType("string"), mock.AnythingOfType("string"), report.ExpenseReportID).Once()

	submitted, err := suite.service.SubmitExpense(ctx, suite.churchID, report.ExpenseReportID, suite.requesterID)

	suite.Require().NoError(err)
	suite.Equal(domain.WorkflowInProgress, submitted.WorkflowStatus)
	suite.Equal(1, submitted.CurrentStep)
	suite.mockExpenseRepo.AssertExpectations(suite.T())
	suite.mockNotifier.AssertExpectations(suite.T())
}

func (suite *ExpenseServiceTestSuite) TestSubmitExpense_NotRequester() {
	ctx := context.Background()
	report := suite.draftReport()
	otherUserID := uuid.NewString()

	suite.mockChurchSvc.On("AuthorizeUserAction", ctx, otherUserID, suite.churchID, domain.RoleMember).Return(domain.RoleMember, nil).Once()
	suite.mockExpenseRepo.On("FindExpenseByID", ctx, report.ExpenseReportID).Return(report, nil).Once()

	_, err := suite.service.SubmitExpense(ctx, suite.churchID, report.ExpenseReportID, otherUserID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockExpenseRepo.AssertNotCalled(suite.T(), "MarkSubmitted", mock.Anything, mock.Anything)
}

func (suite *ExpenseServiceTestSuite) TestSubmitExpense_AlreadySubmitted() {
	ctx := context.Background()
	report := suite.inProgressReport(1)

	suite.mockChurchSvc.On("AuthorizeUserAction", ctx, suite.requesterID, suite.churchID, domain.RoleMember).Return(domain.RoleMember, nil).Once()
	suite.mockExpenseRepo.On("FindExpenseByID", ctx, report.ExpenseReportID).Return(report, nil).Once()

	_, err := suite.service.SubmitExpense(ctx, suite.churchID, report.ExpenseReportID, suite.requesterID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
}

func (suite *ExpenseServiceTestSuite) TestApproveStep_AdvancesChain() {
	ctx := context.Background()
	report := suite.inProgressReport(1)
	actorID := uuid.NewString()
	req := dto.ApproveStepRequest{Decision: domain.DecisionApprove, Comment: "looks right"}

	suite.mockChurchSvc.On("AuthorizeUserAction", ctx, actorID, suite.churchID, domain.RoleMember).Return(domain.RoleDepartmentAccountant, nil).Once()
	suite.mockExpenseRepo.On("FindExpenseByID", ctx, report.ExpenseReportID).Return(report, nil).Once()
	suite.mockExpenseRepo.On("AdvanceStep", ctx, mock.AnythingOfType("domain.ExpenseReport"), mock.AnythingOfType("domain.ApprovalStep")).Return(nil).Once()
	suite.mockChurchSvc.On("ListApproversForRole", ctx, suite.churchID, domain.RoleDepartmentHead).Return([]string{"head-1"}, nil).Once()
	suite.mockNotifier.On("Enqueue", ctx, "head-1", domain.NotifyApprovalRequested, mock.AnythingOfType("string"), mock.AnythingOfType("string"), report.ExpenseReportID).Once()

	updated, err := suite.service.ApproveStep(ctx, suite.churchID, report.ExpenseReportID, req, actorID)

	suite.Require().NoError(err)
	suite.Equal(2, updated.CurrentStep)
	suite.Equal(domain.WorkflowInProgress, updated.WorkflowStatus)
	suite.Equal(domain.StepApproved, updated.Steps[0].Status)
	suite.Equal("looks right", updated.Steps[0].Comment)
	suite.mockExpenseRepo.AssertExpectations(suite.T())
}

func (suite *ExpenseServiceTestSuite) TestApproveStep_FinalApproval() {
	ctx := context.Background()
	report := suite.inProgressReport(3)
	actorID := uuid.NewString()
	req := dto.ApproveStepRequest{Decision: domain.DecisionApprove}

	suite.mockChurchSvc.On("AuthorizeUserAction", ctx, actorID, suite.churchID, domain.RoleMember).Return(domain.RoleCommitteeChair, nil).Once()
	suite.mockExpenseRepo.On("FindExpenseByID", ctx, report.ExpenseReportID).Return(report, nil).Once()
	suite.mockExpenseRepo.On("FinalizeApproval", ctx, mock.AnythingOfType("domain.ExpenseReport"), mock.AnythingOfType("domain.ApprovalStep")).Return(nil).Once()
	suite.mockNotifier.On("Enqueue", ctx, suite.requesterID, domain.NotifyExpenseApproved, mock.AnythingOfType("string"), mock.AnythingOfType("string"), report.ExpenseReportID).Once()

	updated, err := suite.service.ApproveStep(ctx, suite.churchID, report.ExpenseReportID, req, actorID)

	suite.Require().NoError(err)
	suite.Equal(domain.WorkflowApproved, updated.WorkflowStatus)
	suite.Equal(domain.ExpenseApproved, updated.Status)
	suite.mockExpenseRepo.AssertExpectations(suite.T())
	suite.mockNotifier.AssertExpectations(suite.T())
}

func (suite *ExpenseServiceTestSuite) TestApproveStep_FinalApprovalInsufficientBudget() {
	ctx := context.Background()
	report := suite.inProgressReport(3)
	actorID := uuid.NewString()
	req := dto.ApproveStepRequest{Decision: domain.DecisionApprove}
	bizErr := apperrors.NewInsufficientBudgetError(decimal.NewFromInt(100), decimal.NewFromInt(200))

	suite.mockChurchSvc.On("AuthorizeUserAction", ctx, actorID, suite.churchID, domain.RoleMember).Return(domain.RoleFinanceManager, nil).Once()
	suite.mockExpenseRepo.On("FindExpenseByID", ctx, report.ExpenseReportID).Return(report, nil).Once()
	suite.mockExpenseRepo.On("FinalizeApproval", ctx, mock.AnythingOfType("domain.ExpenseReport"), mock.AnythingOfType("domain.ApprovalStep")).Return(bizErr).Once()

	_, err := suite.service.ApproveStep(ctx, suite.churchID, report.ExpenseReportID, req, actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrBusinessRule)
	suite.mockNotifier.AssertNotCalled(suite.T(), "Enqueue", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ExpenseServiceTestSuite) TestApproveStep_RejectionTerminatesChain() {
	ctx := context.Background()
	report := suite.inProgressReport(2)
	actorID := uuid.NewString()
	req := dto.ApproveStepRequest{Decision: domain.DecisionReject, Comment: "no receipts"}

	suite.mockChurchSvc.On("AuthorizeUserAction", ctx, actorID, suite.churchID, domain.RoleMember).Return(domain.RoleDepartmentHead, nil).Once()
	suite.mockExpenseRepo.On("FindExpenseByID", ctx, report.ExpenseReportID).Return(report, nil).Once()
	suite.mockExpenseRepo.On("RejectWorkflow", ctx, mock.AnythingOfType("domain.ExpenseReport"), mock.AnythingOfType("domain.ApprovalStep")).Return(nil).Once()
	suite.mockNotifier.On("Enqueue", ctx, suite.requesterID, domain.NotifyExpenseRejected, mock.AnythingOfType("string"), mock.AnythingOfType("string"), report.ExpenseReportID).Once()

	updated, err := suite.service.ApproveStep(ctx, suite.churchID, report.ExpenseReportID, req, actorID)

	suite.Require().NoError(err)
	suite.Equal(domain.WorkflowRejected, updated.WorkflowStatus)
	suite.Equal(domain.ExpenseRejected, updated.Status)
	suite.mockExpenseRepo.AssertExpectations(suite.T())
}

func (suite *ExpenseServiceTestSuite) TestApproveStep_WrongRole() {
	ctx := context.Background()
	report := suite.inProgressReport(2)
	actorID := uuid.NewString()
	req := dto.ApproveStepRequest{Decision: domain.DecisionApprove}

	// A department accountant cannot act on the department head's step.
	suite.mockChurchSvc.On("AuthorizeUserAction", ctx, actorID, suite.churchID, domain.RoleMember).Return(domain.RoleDepartmentAccountant, nil).Once()
	suite.mockExpenseRepo.On("FindExpenseByID", ctx, report.ExpenseReportID).Return(report, nil).Once()

	_, err := suite.service.ApproveStep(ctx, suite.churchID, report.ExpenseReportID, req, actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockExpenseRepo.AssertNotCalled(suite.T(), "AdvanceStep", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ExpenseServiceTestSuite) TestApproveStep_FinanceManagerMayActAnyStep() {
	ctx := context.Background()
	report := suite.inProgressReport(2)
	actorID := uuid.NewString()
	req := dto.ApproveStepRequest{Decision: domain.DecisionApprove}

	suite.mockChurchSvc.On("AuthorizeUserAction", ctx, actorID, suite.churchID, domain.RoleMember).Return(domain.RoleFinanceManager, nil).Once()
	suite.mockExpenseRepo.On("FindExpenseByID", ctx, report.ExpenseReportID).Return(report, nil).Once()
	suite.mockExpenseRepo.On("AdvanceStep", ctx, mock.AnythingOfType("domain.ExpenseReport"), mock.AnythingOfType("domain.ApprovalStep")).Return(nil).Once()
	suite.mockChurchSvc.On("ListApproversForRole", ctx, suite.churchID, domain.RoleCommitteeChair).Return([]string{}, nil).Once()

	updated, err := suite.service.ApproveStep(ctx, suite.churchID, report.ExpenseReportID, req, actorID)

	suite.Require().NoError(err)
	suite.Equal(3, updated.CurrentStep)
}

func (suite *ExpenseServiceTestSuite) TestApproveStep_TerminalWorkflow() {
	ctx := context.Background()
	report := suite.inProgressReport(3)
	report.WorkflowStatus = domain.WorkflowRejected
	actorID := uuid.NewString()
	req := dto.ApproveStepRequest{Decision: domain.DecisionApprove}

	suite.mockChurchSvc.On("AuthorizeUserAction", ctx, actorID, suite.churchID, domain.RoleMember).Return(domain.RoleAdmin, nil).Once()
	suite.mockExpenseRepo.On("FindExpenseByID", ctx, report.ExpenseReportID).Return(report, nil).Once()

	_, err := suite.service.ApproveStep(ctx, suite.churchID, report.ExpenseReportID, req, actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
}

func (suite *ExpenseServiceTestSuite) TestApproveDirect_PaidRequiresApproved() {
	ctx := context.Background()
	report := suite.draftReport()
	actorID := uuid.NewString()

	suite.mockChurchSvc.On("AuthorizeUserAction", ctx, actorID, suite.churchID, domain.RoleFinanceManager).Return(domain.RoleFinanceManager, nil).Once()
	suite.mockExpenseRepo.On("FindExpenseByID", ctx, report.ExpenseReportID).Return(report, nil).Once()

	_, err := suite.service.ApproveDirect(ctx, suite.churchID, report.ExpenseReportID, domain.ExpensePaid, actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockExpenseRepo.AssertNotCalled(suite.T(), "UpdateExpenseStatus", mock.Anything, mock.Anything)
}

func (suite *ExpenseServiceTestSuite) TestApproveDirect_Approve() {
	ctx := context.Background()
	report := suite.draftReport()
	actorID := uuid.NewString()

	suite.mockChurchSvc.On("AuthorizeUserAction", ctx, actorID, suite.churchID, domain.RoleFinanceManager).Return(domain.RoleFinanceManager, nil).Once()
	suite.mockExpenseRepo.On("FindExpenseByID", ctx, report.ExpenseReportID).Return(report, nil).Once()
	suite.mockExpenseRepo.On("UpdateExpenseStatus", ctx, mock.AnythingOfType("domain.ExpenseReport")).Return(nil).Once()
	suite.mockNotifier.On("Enqueue", ctx, suite.requesterID, domain.NotifyExpenseApproved, mock.AnythingOfType("string"), mock.AnythingOfType("string"), report.ExpenseReportID).Once()

	updated, err := suite.service.ApproveDirect(ctx, suite.churchID, report.ExpenseReportID, domain.ExpenseApproved, actorID)

	suite.Require().NoError(err)
	suite.Equal(domain.ExpenseApproved, updated.Status)
	suite.Equal(domain.WorkflowApproved, updated.WorkflowStatus)
	suite.mockExpenseRepo.AssertExpectations(suite.T())
}

func (suite *ExpenseServiceTestSuite) TestDeleteExpense_PaidReportRefused() {
	ctx := context.Background()
	report := suite.draftReport()
	report.Status = domain.ExpensePaid

	suite.mockChurchSvc.On("AuthorizeUserAction", ctx, suite.requesterID, suite.churchID, domain.RoleMember).Return(domain.RoleMember, nil).Once()
	suite.mockExpenseRepo.On("FindExpenseByID", ctx, report.ExpenseReportID).Return(report, nil).Once()

	err := suite.service.DeleteExpense(ctx, suite.churchID, report.ExpenseReportID, suite.requesterID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockExpenseRepo.AssertNotCalled(suite.T(), "DeleteExpense", mock.Anything, mock.Anything)
}

func (suite *ExpenseServiceTestSuite) TestDeleteExpense_OtherMemberForbidden() {
	ctx := context.Background()
	report := suite.draftReport()
	otherUserID := uuid.NewString()

	suite.mockChurchSvc.On("AuthorizeUserAction", ctx, otherUserID, suite.churchID, domain.RoleMember).Return(domain.RoleMember, nil).Once()
	suite.mockExpenseRepo.On("FindExpenseByID", ctx, report.ExpenseReportID).Return(report, nil).Once()

	err := suite.service.DeleteExpense(ctx, suite.churchID, report.ExpenseReportID, otherUserID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *ExpenseServiceTestSuite) TestValidateBudgetExpense_Insufficient() {
	ctx := context.Background()
	req := dto.ValidateBudgetExpenseRequest{
		BudgetItemID: suite.budgetItem.BudgetItemID,
		Amount:       decimal.NewFromInt(500),
	}

	suite.mockChurchSvc.On("AuthorizeUserAction", ctx, suite.requesterID, suite.churchID, domain.RoleMember).Return(domain.RoleMember, nil).Once()
	suite.mockBudgetRepo.On("FindExecutionByItemID", ctx, suite.budgetItem.BudgetItemID).Return(&suite.execution, nil).Once()

	resp := suite.service.ValidateBudgetExpense(ctx, suite.churchID, req, suite.requesterID)

	suite.False(resp.IsValid)
	suite.True(resp.RemainingAmount.Equal(decimal.NewFromInt(300)))
	suite.NotEmpty(resp.Error)
}

// --- Run Test Suite ---
func TestExpenseService(t *testing.T) {
	suite.Run(t, new(ExpenseServiceTestSuite))
}
