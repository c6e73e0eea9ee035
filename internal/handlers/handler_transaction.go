package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/parishware/church_finance_app/internal/core/ports/services"
	"github.com/parishware/church_finance_app/internal/dto"
	"github.com/parishware/church_finance_app/internal/middleware"
)

// transactionHandler handles HTTP requests for postings and ledger reports.
type transactionHandler struct {
	transactionService portssvc.TransactionSvcFacade
}

func newTransactionHandler(ts portssvc.TransactionSvcFacade) *transactionHandler {
	return &transactionHandler{transactionService: ts}
}

// registerTransactionRoutes registers posting and reporting routes under a
// specific church. The ledger view hangs off the account resource.
func registerTransactionRoutes(rg *gin.RouterGroup, transactionService portssvc.TransactionSvcFacade) {
	h := newTransactionHandler(transactionService)

	transactions := rg.Group("/transactions")
	{
		transactions.POST("", h.postTransaction)
		transactions.DELETE("/:transactionID", h.deleteTransaction)
	}

	rg.GET("/accounts/:accountID/ledger", h.getAccountLedger)
	rg.GET("/reports/trial-balance", h.getTrialBalance)
}

// postTransaction godoc
// @Summary Post a transaction
// @Description Records a balanced double-entry movement between two postable accounts.
// @Tags transactions
// @Accept json
// @Produce json
// @Param churchID path string true "Church ID"
// @Param transaction body dto.CreateTransactionRequest true "Transaction details"
// @Success 201 {object} dto.TransactionResponse
// @Failure 400 {object} ErrorResponse "Invalid posting"
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Security BearerAuth
// @Router /churches/{churchID}/transactions [post]
func (h *transactionHandler) postTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for postTransaction", slog.String("error", err.Error()))
		respondBindError(c, err)
		return
	}

	creatorUserID, ok := requireUserID(c)
	if !ok {
		return
	}

	txn, err := h.transactionService.PostTransaction(c.Request.Context(), c.Param("churchID"), req, creatorUserID)
	if err != nil {
		logger.Warn("Failed to post transaction", slog.String("error", err.Error()))
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTransactionResponse(txn))
}

// deleteTransaction godoc
// @Summary Delete a transaction
// @Description Removes a posted transaction. Administrators only.
// @Tags transactions
// @Param churchID path string true "Church ID"
// @Param transactionID path string true "Transaction ID"
// @Success 204 "No Content"
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Failure 404 {object} ErrorResponse "Transaction not found"
// @Security BearerAuth
// @Router /churches/{churchID}/transactions/{transactionID} [delete]
func (h *transactionHandler) deleteTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	deleterUserID, ok := requireUserID(c)
	if !ok {
		return
	}

	transactionID := c.Param("transactionID")
	if err := h.transactionService.DeleteTransaction(c.Request.Context(), c.Param("churchID"), transactionID, deleterUserID); err != nil {
		logger.Warn("Failed to delete transaction", slog.String("transaction_id", transactionID), slog.String("error", err.Error()))
		respondError(c, err)
		return
	}

	logger.Info("Transaction deleted", slog.String("transaction_id", transactionID))
	c.Status(http.StatusNoContent)
}

// getAccountLedger godoc
// @Summary Get an account's ledger
// @Description Returns the period transactions with running balances, seeded by the balance before the period.
// @Tags transactions
// @Produce json
// @Param churchID path string true "Church ID"
// @Param accountID path string true "Account ID"
// @Param from query string true "Period start (YYYY-MM-DD)"
// @Param to query string true "Period end (YYYY-MM-DD)"
// @Success 200 {object} dto.AccountLedgerResponse
// @Failure 400 {object} ErrorResponse "Invalid period"
// @Failure 404 {object} ErrorResponse "Account not found"
// @Security BearerAuth
// @Router /churches/{churchID}/accounts/{accountID}/ledger [get]
func (h *transactionHandler) getAccountLedger(c *gin.Context) {
	var params dto.LedgerPeriodParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return
	}

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	ledger, err := h.transactionService.GetAccountLedger(c.Request.Context(), c.Param("churchID"), c.Param("accountID"), params.From, params.To, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountLedgerResponse(ledger))
}

// getTrialBalance godoc
// @Summary Get the trial balance
// @Description Aggregates every account's period debits and credits and verifies the ledger-wide balance.
// @Tags transactions
// @Produce json
// @Param churchID path string true "Church ID"
// @Param from query string true "Period start (YYYY-MM-DD)"
// @Param to query string true "Period end (YYYY-MM-DD)"
// @Param level query int false "Restrict to accounts of this hierarchy level"
// @Success 200 {object} dto.TrialBalanceResponse
// @Failure 400 {object} ErrorResponse "Invalid period"
// @Failure 500 {object} ErrorResponse "Ledger out of balance"
// @Security BearerAuth
// @Router /churches/{churchID}/reports/trial-balance [get]
func (h *transactionHandler) getTrialBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.TrialBalanceParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return
	}

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	tb, err := h.transactionService.GetTrialBalance(c.Request.Context(), c.Param("churchID"), params.From, params.To, params.Level, userID)
	if err != nil {
		logger.Warn("Failed to compute trial balance", slog.String("error", err.Error()))
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToTrialBalanceResponse(tb))
}
