package apperrors

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrNotFound indicates that a requested resource could not be found,
// or is not visible to the caller's church.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates the resource is in a state that forbids the requested
// change (active children, referencing transactions, already-processed approval).
var ErrConflict = errors.New("resource state conflict")

// ErrForbidden indicates the caller's role is not authorized for the action.
var ErrForbidden = errors.New("action forbidden")

// ErrBusinessRule indicates a domain rule rejected the operation
// (insufficient budget, wrong workflow state, unbalanced items).
var ErrBusinessRule = errors.New("business rule violation")

// ErrIntegrity indicates a stored-data invariant does not hold
// (e.g. trial balance debits != credits). Never a legitimate business state.
var ErrIntegrity = errors.New("data integrity violation")

// ErrInternal indicates an unexpected failure not attributable to the caller.
var ErrInternal = errors.New("internal error")

// AppError wraps a lower-level failure with an HTTP-ish code and a message.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// BusinessRuleError is a business rule violation that carries the computed
// numbers the caller needs to explain the rejection (remaining budget and by
// how much the request exceeds it).
type BusinessRuleError struct {
	Reason          string
	RemainingAmount decimal.Decimal
	ExceedAmount    decimal.Decimal
}

func (e *BusinessRuleError) Error() string {
	return e.Reason
}

// Unwrap makes errors.Is(err, ErrBusinessRule) hold for every BusinessRuleError.
func (e *BusinessRuleError) Unwrap() error {
	return ErrBusinessRule
}

// NewInsufficientBudgetError builds the budget-insufficiency rejection used by
// expense creation, final-step approval and budget transfers.
func NewInsufficientBudgetError(remaining, requested decimal.Decimal) *BusinessRuleError {
	return &BusinessRuleError{
		Reason:          fmt.Sprintf("insufficient remaining budget: remaining %s, requested %s", remaining.String(), requested.String()),
		RemainingAmount: remaining,
		ExceedAmount:    requested.Sub(remaining),
	}
}
