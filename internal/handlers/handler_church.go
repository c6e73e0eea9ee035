package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/parishware/church_finance_app/internal/core/ports/services"
	"github.com/parishware/church_finance_app/internal/dto"
	"github.com/parishware/church_finance_app/internal/middleware"
)

// churchHandler handles HTTP requests related to churches and memberships.
type churchHandler struct {
	churchService portssvc.ChurchSvcFacade
}

func newChurchHandler(cs portssvc.ChurchSvcFacade) *churchHandler {
	return &churchHandler{churchService: cs}
}

// registerChurchRoutes registers church routes and nests every church-scoped
// resource (accounts, transactions, budgets, expenses) under the church.
func registerChurchRoutes(rg *gin.RouterGroup, services *portssvc.ServiceContainer) {
	h := newChurchHandler(services.Church)

	churches := rg.Group("/churches")
	{
		churches.POST("", h.createChurch)
	}

	churchSpecific := rg.Group("/churches/:churchID")
	{
		churchSpecific.GET("", h.getChurch)
		churchSpecific.POST("/users", h.addMember)

		registerAccountRoutes(churchSpecific, services.Account)
		registerTransactionRoutes(churchSpecific, services.Transaction)
		registerBudgetRoutes(churchSpecific, services.Budget)
		registerExpenseRoutes(churchSpecific, services.Expense)
	}
}

// createChurch godoc
// @Summary Create a new church
// @Description Creates a church and assigns the creator as admin.
// @Tags churches
// @Accept json
// @Produce json
// @Param church body dto.CreateChurchRequest true "Church details"
// @Success 201 {object} dto.ChurchResponse
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Security BearerAuth
// @Router /churches [post]
func (h *churchHandler) createChurch(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateChurchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createChurch", slog.String("error", err.Error()))
		respondBindError(c, err)
		return
	}

	creatorUserID, ok := requireUserID(c)
	if !ok {
		return
	}

	church, err := h.churchService.CreateChurch(c.Request.Context(), req, creatorUserID)
	if err != nil {
		logger.Error("Failed to create church", slog.String("error", err.Error()))
		respondError(c, err)
		return
	}

	logger.Info("Church created", slog.String("church_id", church.ChurchID))
	c.JSON(http.StatusCreated, dto.ToChurchResponse(church))
}

// getChurch godoc
// @Summary Get a church by ID
// @Tags churches
// @Produce json
// @Param churchID path string true "Church ID"
// @Success 200 {object} dto.ChurchResponse
// @Failure 404 {object} ErrorResponse "Church not found"
// @Security BearerAuth
// @Router /churches/{churchID} [get]
func (h *churchHandler) getChurch(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	church, err := h.churchService.GetChurchByID(c.Request.Context(), c.Param("churchID"), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToChurchResponse(church))
}

// addMember godoc
// @Summary Add a user to a church
// @Description Adds a user to the church with a role. Admins only.
// @Tags churches
// @Accept json
// @Param churchID path string true "Church ID"
// @Param member body dto.AddChurchMemberRequest true "User ID and role"
// @Success 204 "No Content"
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Failure 409 {object} ErrorResponse "Already a member"
// @Security BearerAuth
// @Router /churches/{churchID}/users [post]
func (h *churchHandler) addMember(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.AddChurchMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for addMember", slog.String("error", err.Error()))
		respondBindError(c, err)
		return
	}

	addingUserID, ok := requireUserID(c)
	if !ok {
		return
	}

	churchID := c.Param("churchID")
	if err := h.churchService.AddUserToChurch(c.Request.Context(), churchID, req, addingUserID); err != nil {
		logger.Warn("Failed to add member", slog.String("church_id", churchID), slog.String("error", err.Error()))
		respondError(c, err)
		return
	}

	logger.Info("Member added", slog.String("church_id", churchID), slog.String("member_user_id", req.UserID))
	c.Status(http.StatusNoContent)
}
