package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/parishware/church_finance_app/internal/core/ports/services"
	"github.com/parishware/church_finance_app/internal/dto"
	"github.com/parishware/church_finance_app/internal/middleware"
)

// expenseHandler handles HTTP requests for expense reports and their
// approval workflow.
type expenseHandler struct {
	expenseService portssvc.ExpenseSvcFacade
}

func newExpenseHandler(es portssvc.ExpenseSvcFacade) *expenseHandler {
	return &expenseHandler{expenseService: es}
}

// registerExpenseRoutes registers expense routes under a specific church.
func registerExpenseRoutes(rg *gin.RouterGroup, expenseService portssvc.ExpenseSvcFacade) {
	h := newExpenseHandler(expenseService)

	expenses := rg.Group("/expenses")
	{
		expenses.POST("", h.createExpense)
		expenses.GET("", h.listExpenses)
		expenses.POST("/validate-budget", h.validateBudget)
		expenses.GET("/:expenseID", h.getExpense)
		expenses.POST("/:expenseID/submit", h.submitExpense)
		expenses.POST("/:expenseID/steps", h.approveStep)
		expenses.POST("/:expenseID/approve", h.approveDirect)
		expenses.DELETE("/:expenseID", h.deleteExpense)
	}
}

// createExpense godoc
// @Summary Create an expense report
// @Description Opens an expense report in DRAFT with its three-step approval chain. A budget-linked report must pass a sufficiency pre-check.
// @Tags expenses
// @Accept json
// @Produce json
// @Param churchID path string true "Church ID"
// @Param expense body dto.CreateExpenseRequest true "Expense details"
// @Success 201 {object} dto.ExpenseResponse
// @Failure 400 {object} ErrorResponse "Invalid input or insufficient budget"
// @Failure 404 {object} ErrorResponse "Budget item not found"
// @Security BearerAuth
// @Router /churches/{churchID}/expenses [post]
func (h *expenseHandler) createExpense(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createExpense", slog.String("error", err.Error()))
		respondBindError(c, err)
		return
	}

	requesterUserID, ok := requireUserID(c)
	if !ok {
		return
	}

	expense, err := h.expenseService.CreateExpense(c.Request.Context(), c.Param("churchID"), req, requesterUserID)
	if err != nil {
		logger.Warn("Failed to create expense", slog.String("error", err.Error()))
		respondError(c, err)
		return
	}

	logger.Info("Expense created", slog.String("expense_report_id", expense.ExpenseReportID))
	c.JSON(http.StatusCreated, dto.ToExpenseResponse(expense))
}

// listExpenses godoc
// @Summary List expense reports
// @Tags expenses
// @Produce json
// @Param churchID path string true "Church ID"
// @Param status query string false "Filter by status" Enums(PENDING, APPROVED, REJECTED, PAID)
// @Param budgetItemID query string false "Filter by budget item"
// @Success 200 {object} dto.ListExpensesResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Security BearerAuth
// @Router /churches/{churchID}/expenses [get]
func (h *expenseHandler) listExpenses(c *gin.Context) {
	var params dto.ListExpensesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return
	}

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	expenses, err := h.expenseService.ListExpenses(c.Request.Context(), c.Param("churchID"), userID, params)
	if err != nil {
		respondError(c, err)
		return
	}

	res := dto.ListExpensesResponse{Expenses: make([]dto.ExpenseResponse, len(expenses))}
	for i := range expenses {
		res.Expenses[i] = dto.ToExpenseResponse(&expenses[i])
	}
	c.JSON(http.StatusOK, res)
}

// getExpense godoc
// @Summary Get an expense report by ID
// @Description Returns the report with its full approval chain.
// @Tags expenses
// @Produce json
// @Param churchID path string true "Church ID"
// @Param expenseID path string true "Expense report ID"
// @Success 200 {object} dto.ExpenseResponse
// @Failure 404 {object} ErrorResponse "Expense not found"
// @Security BearerAuth
// @Router /churches/{churchID}/expenses/{expenseID} [get]
func (h *expenseHandler) getExpense(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	expense, err := h.expenseService.GetExpenseByID(c.Request.Context(), c.Param("churchID"), c.Param("expenseID"), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToExpenseResponse(expense))
}

// submitExpense godoc
// @Summary Submit an expense report
// @Description Moves a DRAFT report into the approval chain at step one. Requester only.
// @Tags expenses
// @Produce json
// @Param churchID path string true "Church ID"
// @Param expenseID path string true "Expense report ID"
// @Success 200 {object} dto.ExpenseResponse
// @Failure 403 {object} ErrorResponse "Not the requester"
// @Failure 409 {object} ErrorResponse "Not in DRAFT"
// @Security BearerAuth
// @Router /churches/{churchID}/expenses/{expenseID}/submit [post]
func (h *expenseHandler) submitExpense(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	requesterUserID, ok := requireUserID(c)
	if !ok {
		return
	}

	expense, err := h.expenseService.SubmitExpense(c.Request.Context(), c.Param("churchID"), c.Param("expenseID"), requesterUserID)
	if err != nil {
		logger.Warn("Failed to submit expense", slog.String("expense_report_id", c.Param("expenseID")), slog.String("error", err.Error()))
		respondError(c, err)
		return
	}

	logger.Info("Expense submitted", slog.String("expense_report_id", expense.ExpenseReportID))
	c.JSON(http.StatusOK, dto.ToExpenseResponse(expense))
}

// approveStep godoc
// @Summary Act on the current approval step
// @Description Applies an APPROVE or REJECT decision to the report's current step. The final approval re-validates the budget under lock.
// @Tags expenses
// @Accept json
// @Produce json
// @Param churchID path string true "Church ID"
// @Param expenseID path string true "Expense report ID"
// @Param decision body dto.ApproveStepRequest true "Decision and optional comment"
// @Success 200 {object} dto.ExpenseResponse
// @Failure 400 {object} ErrorResponse "Insufficient budget at final approval"
// @Failure 403 {object} ErrorResponse "Role cannot act on this step"
// @Failure 409 {object} ErrorResponse "Workflow already terminal"
// @Security BearerAuth
// @Router /churches/{churchID}/expenses/{expenseID}/steps [post]
func (h *expenseHandler) approveStep(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.ApproveStepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for approveStep", slog.String("error", err.Error()))
		respondBindError(c, err)
		return
	}

	actorUserID, ok := requireUserID(c)
	if !ok {
		return
	}

	expense, err := h.expenseService.ApproveStep(c.Request.Context(), c.Param("churchID"), c.Param("expenseID"), req, actorUserID)
	if err != nil {
		logger.Warn("Failed to act on approval step", slog.String("expense_report_id", c.Param("expenseID")), slog.String("error", err.Error()))
		respondError(c, err)
		return
	}

	logger.Info("Approval step processed",
		slog.String("expense_report_id", expense.ExpenseReportID),
		slog.String("decision", string(req.Decision)),
		slog.Int("current_step", expense.CurrentStep),
	)
	c.JSON(http.StatusOK, dto.ToExpenseResponse(expense))
}

// approveDirect godoc
// @Summary Decide an expense directly
// @Description Applies a terminal status without walking the chain. Managerial roles only. Marking APPROVED re-validates the budget; PAID requires APPROVED.
// @Tags expenses
// @Accept json
// @Produce json
// @Param churchID path string true "Church ID"
// @Param expenseID path string true "Expense report ID"
// @Param status body dto.ApproveExpenseRequest true "Target status"
// @Success 200 {object} dto.ExpenseResponse
// @Failure 400 {object} ErrorResponse "Insufficient budget"
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Failure 409 {object} ErrorResponse "Invalid status transition"
// @Security BearerAuth
// @Router /churches/{churchID}/expenses/{expenseID}/approve [post]
func (h *expenseHandler) approveDirect(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.ApproveExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for approveDirect", slog.String("error", err.Error()))
		respondBindError(c, err)
		return
	}

	actorUserID, ok := requireUserID(c)
	if !ok {
		return
	}

	expense, err := h.expenseService.ApproveDirect(c.Request.Context(), c.Param("churchID"), c.Param("expenseID"), req.Status, actorUserID)
	if err != nil {
		logger.Warn("Failed to decide expense", slog.String("expense_report_id", c.Param("expenseID")), slog.String("error", err.Error()))
		respondError(c, err)
		return
	}

	logger.Info("Expense decided",
		slog.String("expense_report_id", expense.ExpenseReportID),
		slog.String("status", string(expense.Status)),
	)
	c.JSON(http.StatusOK, dto.ToExpenseResponse(expense))
}

// deleteExpense godoc
// @Summary Delete an expense report
// @Description Removes a PENDING or REJECTED report and releases its pending budget draw.
// @Tags expenses
// @Param churchID path string true "Church ID"
// @Param expenseID path string true "Expense report ID"
// @Success 204 "No Content"
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Failure 409 {object} ErrorResponse "Report already finalized"
// @Security BearerAuth
// @Router /churches/{churchID}/expenses/{expenseID} [delete]
func (h *expenseHandler) deleteExpense(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	actorUserID, ok := requireUserID(c)
	if !ok {
		return
	}

	expenseID := c.Param("expenseID")
	if err := h.expenseService.DeleteExpense(c.Request.Context(), c.Param("churchID"), expenseID, actorUserID); err != nil {
		logger.Warn("Failed to delete expense", slog.String("expense_report_id", expenseID), slog.String("error", err.Error()))
		respondError(c, err)
		return
	}

	logger.Info("Expense deleted", slog.String("expense_report_id", expenseID))
	c.Status(http.StatusNoContent)
}

// validateBudget godoc
// @Summary Validate a budget draw
// @Description Checks whether an amount could be drawn from a budget item, without writing anything.
// @Tags expenses
// @Accept json
// @Produce json
// @Param churchID path string true "Church ID"
// @Param check body dto.ValidateBudgetExpenseRequest true "Item and amount"
// @Success 200 {object} dto.ValidateBudgetExpenseResponse
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Security BearerAuth
// @Router /churches/{churchID}/expenses/validate-budget [post]
func (h *expenseHandler) validateBudget(c *gin.Context) {
	var req dto.ValidateBudgetExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	result := h.expenseService.ValidateBudgetExpense(c.Request.Context(), c.Param("churchID"), req, userID)
	c.JSON(http.StatusOK, result)
}
