package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/parishware/church_finance_app/internal/core/ports/services"
	"github.com/parishware/church_finance_app/internal/dto"
	"github.com/parishware/church_finance_app/internal/middleware"
)

// budgetHandler handles HTTP requests for budgets and budget changes.
type budgetHandler struct {
	budgetService portssvc.BudgetSvcFacade
}

func newBudgetHandler(bs portssvc.BudgetSvcFacade) *budgetHandler {
	return &budgetHandler{budgetService: bs}
}

// registerBudgetRoutes registers budget routes under a specific church.
func registerBudgetRoutes(rg *gin.RouterGroup, budgetService portssvc.BudgetSvcFacade) {
	h := newBudgetHandler(budgetService)

	budgets := rg.Group("/budgets")
	{
		budgets.POST("", h.createBudget)
		budgets.GET("", h.listBudgets)
		budgets.GET("/:budgetID", h.getBudget)
		budgets.PUT("/:budgetID", h.updateBudget)
		budgets.POST("/:budgetID/approve", h.approveBudget)
		budgets.POST("/:budgetID/changes", h.requestBudgetChange)
	}

	rg.POST("/budget-changes/:changeID/approve", h.approveBudgetChange)
	rg.GET("/budget-items/:itemID/balance", h.checkBalance)
}

// createBudget godoc
// @Summary Create a budget
// @Description Creates a departmental budget in DRAFT with its category items and seeded execution counters. Item amounts must sum to the total.
// @Tags budgets
// @Accept json
// @Produce json
// @Param churchID path string true "Church ID"
// @Param budget body dto.CreateBudgetRequest true "Budget details"
// @Success 201 {object} dto.BudgetResponse
// @Failure 400 {object} ErrorResponse "Invalid period or item sum mismatch"
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Failure 409 {object} ErrorResponse "Budget already exists for the period"
// @Security BearerAuth
// @Router /churches/{churchID}/budgets [post]
func (h *budgetHandler) createBudget(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createBudget", slog.String("error", err.Error()))
		respondBindError(c, err)
		return
	}

	creatorUserID, ok := requireUserID(c)
	if !ok {
		return
	}

	budget, err := h.budgetService.CreateBudget(c.Request.Context(), c.Param("churchID"), req, creatorUserID)
	if err != nil {
		logger.Warn("Failed to create budget", slog.String("error", err.Error()))
		respondError(c, err)
		return
	}

	logger.Info("Budget created", slog.String("budget_id", budget.BudgetID))
	c.JSON(http.StatusCreated, dto.ToBudgetResponse(budget))
}

// listBudgets godoc
// @Summary List budgets
// @Tags budgets
// @Produce json
// @Param churchID path string true "Church ID"
// @Param departmentID query string false "Filter by department"
// @Param year query int false "Filter by year"
// @Success 200 {object} dto.ListBudgetsResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Security BearerAuth
// @Router /churches/{churchID}/budgets [get]
func (h *budgetHandler) listBudgets(c *gin.Context) {
	var params dto.ListBudgetsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return
	}

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	budgets, err := h.budgetService.ListBudgets(c.Request.Context(), c.Param("churchID"), userID, params)
	if err != nil {
		respondError(c, err)
		return
	}

	res := dto.ListBudgetsResponse{Budgets: make([]dto.BudgetResponse, len(budgets))}
	for i := range budgets {
		res.Budgets[i] = dto.ToBudgetResponse(&budgets[i])
	}
	c.JSON(http.StatusOK, res)
}

// getBudget godoc
// @Summary Get a budget by ID
// @Description Returns the budget with its items and current execution counters.
// @Tags budgets
// @Produce json
// @Param churchID path string true "Church ID"
// @Param budgetID path string true "Budget ID"
// @Success 200 {object} dto.BudgetResponse
// @Failure 404 {object} ErrorResponse "Budget not found"
// @Security BearerAuth
// @Router /churches/{churchID}/budgets/{budgetID} [get]
func (h *budgetHandler) getBudget(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	budget, err := h.budgetService.GetBudgetByID(c.Request.Context(), c.Param("churchID"), c.Param("budgetID"), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToBudgetResponse(budget))
}

// updateBudget godoc
// @Summary Update a budget
// @Description Updates header fields and optionally replaces the item set. Allowed only before approval and before any execution.
// @Tags budgets
// @Accept json
// @Produce json
// @Param churchID path string true "Church ID"
// @Param budgetID path string true "Budget ID"
// @Param budget body dto.UpdateBudgetRequest true "Fields to update"
// @Success 200 {object} dto.BudgetResponse
// @Failure 400 {object} ErrorResponse "Item sum mismatch"
// @Failure 404 {object} ErrorResponse "Budget not found"
// @Failure 409 {object} ErrorResponse "Budget already executing"
// @Security BearerAuth
// @Router /churches/{churchID}/budgets/{budgetID} [put]
func (h *budgetHandler) updateBudget(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.UpdateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for updateBudget", slog.String("error", err.Error()))
		respondBindError(c, err)
		return
	}

	updaterUserID, ok := requireUserID(c)
	if !ok {
		return
	}

	budget, err := h.budgetService.UpdateBudget(c.Request.Context(), c.Param("churchID"), c.Param("budgetID"), req, updaterUserID)
	if err != nil {
		respondError(c, err)
		return
	}

	logger.Info("Budget updated", slog.String("budget_id", budget.BudgetID))
	c.JSON(http.StatusOK, dto.ToBudgetResponse(budget))
}

// approveBudget godoc
// @Summary Approve or reject a budget
// @Description Finance managers approve a submitted budget into ACTIVE or reject it.
// @Tags budgets
// @Accept json
// @Produce json
// @Param churchID path string true "Church ID"
// @Param budgetID path string true "Budget ID"
// @Param decision body dto.ApproveBudgetRequest true "Decision"
// @Success 200 {object} dto.BudgetResponse
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Failure 409 {object} ErrorResponse "Budget not awaiting approval"
// @Security BearerAuth
// @Router /churches/{churchID}/budgets/{budgetID}/approve [post]
func (h *budgetHandler) approveBudget(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.ApproveBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for approveBudget", slog.String("error", err.Error()))
		respondBindError(c, err)
		return
	}

	approverUserID, ok := requireUserID(c)
	if !ok {
		return
	}

	budget, err := h.budgetService.ApproveBudget(c.Request.Context(), c.Param("churchID"), c.Param("budgetID"), req.Decision, approverUserID)
	if err != nil {
		respondError(c, err)
		return
	}

	logger.Info("Budget decision applied",
		slog.String("budget_id", budget.BudgetID),
		slog.String("decision", req.Decision),
	)
	c.JSON(http.StatusOK, dto.ToBudgetResponse(budget))
}

// requestBudgetChange godoc
// @Summary Request a budget change
// @Description Opens a TRANSFER, INCREASE or DECREASE request against an active budget.
// @Tags budgets
// @Accept json
// @Produce json
// @Param churchID path string true "Church ID"
// @Param budgetID path string true "Budget ID"
// @Param change body dto.RequestBudgetChangeRequest true "Change details"
// @Success 201 {object} dto.BudgetChangeResponse
// @Failure 400 {object} ErrorResponse "Invalid change or insufficient source budget"
// @Failure 404 {object} ErrorResponse "Budget or item not found"
// @Security BearerAuth
// @Router /churches/{churchID}/budgets/{budgetID}/changes [post]
func (h *budgetHandler) requestBudgetChange(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.RequestBudgetChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for requestBudgetChange", slog.String("error", err.Error()))
		respondBindError(c, err)
		return
	}

	requesterUserID, ok := requireUserID(c)
	if !ok {
		return
	}

	change, err := h.budgetService.RequestBudgetChange(c.Request.Context(), c.Param("churchID"), c.Param("budgetID"), req, requesterUserID)
	if err != nil {
		logger.Warn("Failed to request budget change", slog.String("error", err.Error()))
		respondError(c, err)
		return
	}

	logger.Info("Budget change requested",
		slog.String("budget_change_id", change.BudgetChangeID),
		slog.String("change_type", string(change.ChangeType)),
	)
	c.JSON(http.StatusCreated, dto.ToBudgetChangeResponse(change))
}

// approveBudgetChange godoc
// @Summary Approve or reject a budget change
// @Description Applies a pending change to the execution counters or rejects it. The source item's remaining budget is re-validated under lock at approval time.
// @Tags budgets
// @Accept json
// @Produce json
// @Param churchID path string true "Church ID"
// @Param changeID path string true "Budget change ID"
// @Param decision body dto.ApproveBudgetChangeRequest true "Decision"
// @Success 200 {object} dto.BudgetChangeResponse
// @Failure 400 {object} ErrorResponse "Insufficient source budget"
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Failure 409 {object} ErrorResponse "Change already processed"
// @Security BearerAuth
// @Router /churches/{churchID}/budget-changes/{changeID}/approve [post]
func (h *budgetHandler) approveBudgetChange(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.ApproveBudgetChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for approveBudgetChange", slog.String("error", err.Error()))
		respondBindError(c, err)
		return
	}

	approverUserID, ok := requireUserID(c)
	if !ok {
		return
	}

	change, err := h.budgetService.ApproveBudgetChange(c.Request.Context(), c.Param("churchID"), c.Param("changeID"), req.Decision, approverUserID)
	if err != nil {
		logger.Warn("Failed to process budget change", slog.String("error", err.Error()))
		respondError(c, err)
		return
	}

	logger.Info("Budget change processed",
		slog.String("budget_change_id", change.BudgetChangeID),
		slog.String("status", string(change.Status)),
	)
	c.JSON(http.StatusOK, dto.ToBudgetChangeResponse(change))
}

// checkBalance godoc
// @Summary Check a budget item's balance
// @Description Answers whether the given amount could still be drawn from the item.
// @Tags budgets
// @Produce json
// @Param churchID path string true "Church ID"
// @Param itemID path string true "Budget item ID"
// @Param requestAmount query string true "Amount to check"
// @Success 200 {object} dto.BudgetBalanceResponse
// @Failure 404 {object} ErrorResponse "Budget item not found"
// @Security BearerAuth
// @Router /churches/{churchID}/budget-items/{itemID}/balance [get]
func (h *budgetHandler) checkBalance(c *gin.Context) {
	var params dto.CheckBalanceParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return
	}

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	balance, err := h.budgetService.CheckBalance(c.Request.Context(), c.Param("churchID"), c.Param("itemID"), params.RequestAmount, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToBudgetBalanceResponse(balance))
}
