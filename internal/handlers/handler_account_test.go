package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/parishware/church_finance_app/internal/apperrors"
	"github.com/parishware/church_finance_app/internal/core/domain"
	portssvc "github.com/parishware/church_finance_app/internal/core/ports/services"
	"github.com/parishware/church_finance_app/internal/dto"
	"github.com/parishware/church_finance_app/internal/middleware"
)

// --- Mock AccountService ---
type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) CreateAccount(ctx context.Context, churchID string, req dto.CreateAccountRequest, creatorUserID string) (*domain.Account, error) {
	args := m.Called(ctx, churchID, req, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}
func (m *MockAccountService) GetAccountByID(ctx context.Context, churchID, accountID string, requestingUserID string) (*domain.Account, error) {
	args := m.Called(ctx, churchID, accountID, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}
func (m *MockAccountService) ListAccounts(ctx context.Context, churchID string, requestingUserID string, params dto.ListAccountsParams) ([]domain.Account, error) {
	args := m.Called(ctx, churchID, requestingUserID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}
func (m *MockAccountService) UpdateAccount(ctx context.Context, churchID, accountID string, req dto.UpdateAccountRequest, updaterUserID string) (*domain.Account, error) {
	args := m.Called(ctx, churchID, accountID, req, updaterUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}
func (m *MockAccountService) DeactivateAccount(ctx context.Context, churchID, accountID string, deleterUserID string) error {
	args := m.Called(ctx, churchID, accountID, deleterUserID)
	return args.Error(0)
}
func (m *MockAccountService) ValidateCode(ctx context.Context, churchID, code string) dto.ValidateCodeResponse {
	args := m.Called(ctx, churchID, code)
	return args.Get(0).(dto.ValidateCodeResponse)
}

// Ensure mock implements the interface
var _ portssvc.AccountSvcFacade = (*MockAccountService)(nil)

// --- Test Suite ---
type AccountHandlerTestSuite struct {
	suite.Suite
	router             *gin.Engine
	mockAccountService *MockAccountService
	jwtSecret          string
}

// generateTestToken creates a signed JWT accepted by the real auth middleware.
func (suite *AccountHandlerTestSuite) generateTestToken(userID string) string {
	claims := jwt.RegisteredClaims{
		Issuer:    "cfa-test",
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(suite.jwtSecret))
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return signed
}

func (suite *AccountHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"

	// Use the real AuthMiddleware so the user ID lands in the context.
	suite.router.Use(middleware.AuthMiddleware(suite.jwtSecret))

	suite.mockAccountService = new(MockAccountService)

	v1 := suite.router.Group("/api/v1/churches/:churchID")
	registerAccountRoutes(v1, suite.mockAccountService)
}

func (suite *AccountHandlerTestSuite) doRequest(method, url string, body any, userID string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		suite.Require().NoError(err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, reader)
	suite.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(userID))
	}

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

// --- Test Cases ---

func (suite *AccountHandlerTestSuite) TestCreateAccount_Success() {
	churchID := uuid.NewString()
	creatorUserID := uuid.NewString()

	reqBody := dto.CreateAccountRequest{
		Code:             "1-11-01",
		Name:             "Petty Cash",
		AccountType:      domain.Asset,
		AllowTransaction: true,
	}
	created := &domain.Account{
		AccountID:        uuid.NewString(),
		ChurchID:         &churchID,
		Code:             reqBody.Code,
		Name:             reqBody.Name,
		AccountType:      domain.Asset,
		Level:            3,
		AllowTransaction: true,
		IsActive:         true,
		AuditFields: domain.AuditFields{
			CreatedAt:     time.Now(),
			CreatedBy:     creatorUserID,
			LastUpdatedAt: time.Now(),
			LastUpdatedBy: creatorUserID,
		},
	}

	suite.mockAccountService.On("CreateAccount",
		mock.AnythingOfType("*context.valueCtx"),
		churchID,
		mock.MatchedBy(func(r dto.CreateAccountRequest) bool {
			return r.Code == reqBody.Code && r.AccountType == domain.Asset
		}),
		creatorUserID,
	).Return(created, nil).Once()

	url := fmt.Sprintf("/api/v1/churches/%s/accounts", churchID)
	w := suite.doRequest(http.MethodPost, url, reqBody, creatorUserID)

	suite.Equal(http.StatusCreated, w.Code)

	var resp dto.AccountResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(created.AccountID, resp.AccountID)
	suite.Equal("1-11-01", resp.Code)
	suite.Equal(3, resp.Level)
	suite.mockAccountService.AssertExpectations(suite.T())
}

func (suite *AccountHandlerTestSuite) TestCreateAccount_MissingToken() {
	churchID := uuid.NewString()
	reqBody := dto.CreateAccountRequest{Code: "1-11", Name: "Bank", AccountType: domain.Asset}

	url := fmt.Sprintf("/api/v1/churches/%s/accounts", churchID)
	w := suite.doRequest(http.MethodPost, url, reqBody, "")

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockAccountService.AssertNotCalled(suite.T(), "CreateAccount", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AccountHandlerTestSuite) TestCreateAccount_InvalidBody() {
	churchID := uuid.NewString()
	userID := uuid.NewString()

	// Missing required code and name.
	url := fmt.Sprintf("/api/v1/churches/%s/accounts", churchID)
	w := suite.doRequest(http.MethodPost, url, map[string]any{"accountType": "ASSET"}, userID)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockAccountService.AssertNotCalled(suite.T(), "CreateAccount", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AccountHandlerTestSuite) TestGetAccount_NotFound() {
	churchID := uuid.NewString()
	accountID := uuid.NewString()
	userID := uuid.NewString()

	suite.mockAccountService.On("GetAccountByID",
		mock.AnythingOfType("*context.valueCtx"), churchID, accountID, userID,
	).Return(nil, apperrors.ErrNotFound).Once()

	url := fmt.Sprintf("/api/v1/churches/%s/accounts/%s", churchID, accountID)
	w := suite.doRequest(http.MethodGet, url, nil, userID)

	suite.Equal(http.StatusNotFound, w.Code)

	var resp ErrorResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.NotEmpty(resp.Error)
}

func (suite *AccountHandlerTestSuite) TestListAccounts_Success() {
	churchID := uuid.NewString()
	userID := uuid.NewString()

	accounts := []domain.Account{
		{AccountID: uuid.NewString(), ChurchID: &churchID, Code: "1", Name: "Assets", AccountType: domain.Asset, Level: 1, IsActive: true},
		{AccountID: uuid.NewString(), Code: "5", Name: "Expenses", AccountType: domain.Expense, Level: 1, IsActive: true},
	}

	suite.mockAccountService.On("ListAccounts",
		mock.AnythingOfType("*context.valueCtx"),
		churchID,
		userID,
		mock.MatchedBy(func(p dto.ListAccountsParams) bool { return p.IncludeInactive }),
	).Return(accounts, nil).Once()

	url := fmt.Sprintf("/api/v1/churches/%s/accounts?includeInactive=true", churchID)
	w := suite.doRequest(http.MethodGet, url, nil, userID)

	suite.Equal(http.StatusOK, w.Code)

	var resp dto.ListAccountsResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Len(resp.Accounts, 2)
	suite.Equal("1", resp.Accounts[0].Code)
	suite.Nil(resp.Accounts[1].ChurchID)
	suite.mockAccountService.AssertExpectations(suite.T())
}

func (suite *AccountHandlerTestSuite) TestDeactivateAccount_Success() {
	churchID := uuid.NewString()
	accountID := uuid.NewString()
	userID := uuid.NewString()

	suite.mockAccountService.On("DeactivateAccount",
		mock.AnythingOfType("*context.valueCtx"), churchID, accountID, userID,
	).Return(nil).Once()

	url := fmt.Sprintf("/api/v1/churches/%s/accounts/%s", churchID, accountID)
	w := suite.doRequest(http.MethodDelete, url, nil, userID)

	suite.Equal(http.StatusNoContent, w.Code)
	suite.mockAccountService.AssertExpectations(suite.T())
}

func (suite *AccountHandlerTestSuite) TestDeactivateAccount_StillReferenced() {
	churchID := uuid.NewString()
	accountID := uuid.NewString()
	userID := uuid.NewString()

	suite.mockAccountService.On("DeactivateAccount",
		mock.AnythingOfType("*context.valueCtx"), churchID, accountID, userID,
	).Return(fmt.Errorf("account has recorded transactions: %w", apperrors.ErrConflict)).Once()

	url := fmt.Sprintf("/api/v1/churches/%s/accounts/%s", churchID, accountID)
	w := suite.doRequest(http.MethodDelete, url, nil, userID)

	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *AccountHandlerTestSuite) TestValidateCode_Success() {
	churchID := uuid.NewString()
	userID := uuid.NewString()

	suite.mockAccountService.On("ValidateCode",
		mock.AnythingOfType("*context.valueCtx"), churchID, "5-01-02",
	).Return(dto.ValidateCodeResponse{IsValid: true, Level: 3, AccountType: domain.Expense}).Once()

	url := fmt.Sprintf("/api/v1/churches/%s/accounts/validate-code", churchID)
	w := suite.doRequest(http.MethodPost, url, dto.ValidateCodeRequest{Code: "5-01-02"}, userID)

	suite.Equal(http.StatusOK, w.Code)

	var resp dto.ValidateCodeResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.True(resp.IsValid)
	suite.Equal(3, resp.Level)
	suite.Equal(domain.Expense, resp.AccountType)
	suite.mockAccountService.AssertExpectations(suite.T())
}

// --- Run Test Suite ---
func TestAccountHandler(t *testing.T) {
	suite.Run(t, new(AccountHandlerTestSuite))
}
