package dto

import (
	"time"

	"github.com/parishware/church_finance_app/internal/core/domain"
)

// CreateAccountRequest defines the data needed to create a chart-of-account
// entry. Level and sort order are derived from the code, never supplied.
type CreateAccountRequest struct {
	Code             string             `json:"code" binding:"required"`
	Name             string             `json:"name" binding:"required"`
	AccountType      domain.AccountType `json:"accountType" binding:"required,oneof=ASSET LIABILITY EQUITY REVENUE EXPENSE"`
	ParentAccountID  *string            `json:"parentAccountID"`
	Description      string             `json:"description"`
	AllowTransaction bool               `json:"allowTransaction"`
	Global           bool               `json:"global"` // System-wide account (admins only)
}

// UpdateAccountRequest defines the data allowed for updating an account.
// Code and type are immutable once created.
type UpdateAccountRequest struct {
	Name             *string `json:"name"`
	Description      *string `json:"description"`
	AllowTransaction *bool   `json:"allowTransaction"`
}

// ValidateCodeRequest asks whether a code would be accepted, without writing.
type ValidateCodeRequest struct {
	Code string `json:"code" binding:"required"`
}

// ValidateCodeResponse reports the outcome of a code validation.
type ValidateCodeResponse struct {
	IsValid     bool               `json:"isValid"`
	Level       int                `json:"level,omitempty"`
	AccountType domain.AccountType `json:"accountType,omitempty"`
	Error       string             `json:"error,omitempty"`
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID        string             `json:"accountID"`
	ChurchID         *string            `json:"churchID,omitempty"`
	Code             string             `json:"code"`
	Name             string             `json:"name"`
	AccountType      domain.AccountType `json:"accountType"`
	Level            int                `json:"level"`
	ParentAccountID  *string            `json:"parentAccountID,omitempty"`
	Description      string             `json:"description"`
	AllowTransaction bool               `json:"allowTransaction"`
	IsActive         bool               `json:"isActive"`
	CreatedAt        time.Time          `json:"createdAt"`
	LastUpdatedAt    time.Time          `json:"lastUpdatedAt"`
}

// ToAccountResponse converts a domain.Account to AccountResponse.
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:        acc.AccountID,
		ChurchID:         acc.ChurchID,
		Code:             acc.Code,
		Name:             acc.Name,
		AccountType:      acc.AccountType,
		Level:            acc.Level,
		ParentAccountID:  acc.ParentAccountID,
		Description:      acc.Description,
		AllowTransaction: acc.AllowTransaction,
		IsActive:         acc.IsActive,
		CreatedAt:        acc.CreatedAt,
		LastUpdatedAt:    acc.LastUpdatedAt,
	}
}

// ListAccountsParams defines query parameters for listing accounts.
type ListAccountsParams struct {
	IncludeInactive bool `form:"includeInactive,default=false"`
}

// ListAccountsResponse wraps the list of accounts.
type ListAccountsResponse struct {
	Accounts []AccountResponse `json:"accounts"`
}

// ToListAccountsResponse converts domain accounts to the list response.
func ToListAccountsResponse(accounts []domain.Account) ListAccountsResponse {
	res := make([]AccountResponse, len(accounts))
	for i, acc := range accounts {
		res[i] = ToAccountResponse(&acc)
	}
	return ListAccountsResponse{Accounts: res}
}
