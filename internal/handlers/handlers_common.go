package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/parishware/church_finance_app/internal/apperrors"
	"github.com/parishware/church_finance_app/internal/middleware"
)

// ErrorResponse is the uniform error payload. Budget-insufficiency rejections
// additionally carry the computed remaining and exceeding amounts.
type ErrorResponse struct {
	Error           string           `json:"error"`
	RemainingAmount *decimal.Decimal `json:"remainingAmount,omitempty"`
	ExceedAmount    *decimal.Decimal `json:"exceedAmount,omitempty"`
}

// respondError maps a service error onto an HTTP status and payload.
func respondError(c *gin.Context, err error) {
	var ruleErr *apperrors.BusinessRuleError
	if errors.As(err, &ruleErr) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:           ruleErr.Reason,
			RemainingAmount: &ruleErr.RemainingAmount,
			ExceedAmount:    &ruleErr.ExceedAmount,
		})
		return
	}

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		c.JSON(appErr.Code, ErrorResponse{Error: appErr.Message})
		return
	}

	switch {
	case errors.Is(err, apperrors.ErrValidation), errors.Is(err, apperrors.ErrBusinessRule):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, apperrors.ErrForbidden):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case errors.Is(err, apperrors.ErrDuplicate), errors.Is(err, apperrors.ErrConflict):
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	case errors.Is(err, apperrors.ErrIntegrity):
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
	default:
		logger := middleware.GetLoggerFromCtx(c.Request.Context())
		logger.Error("Unhandled error in handler", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
	}
}

// requireUserID extracts the authenticated user ID placed in the context by
// the auth middleware. Responds 401 when it is missing.
func requireUserID(c *gin.Context) (string, bool) {
	userID, ok := middleware.GetUserIDFromCtx(c.Request.Context())
	if !ok {
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
	}
	return userID, ok
}

// respondBindError reports a request binding failure.
func respondBindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
}
