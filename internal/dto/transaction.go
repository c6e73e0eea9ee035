package dto

import (
	"time"

	"github.com/parishware/church_finance_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateTransactionRequest defines a double-entry posting: one debit account,
// one credit account, one positive amount.
type CreateTransactionRequest struct {
	DebitAccountID  string          `json:"debitAccountID" binding:"required"`
	CreditAccountID string          `json:"creditAccountID" binding:"required"`
	Amount          decimal.Decimal `json:"amount" binding:"required"`
	TransactionDate time.Time       `json:"transactionDate" binding:"required"`
	Reference       string          `json:"reference"`
	Description     string          `json:"description"`
}

// TransactionResponse defines the data returned for a posted transaction.
type TransactionResponse struct {
	TransactionID   string          `json:"transactionID"`
	ChurchID        string          `json:"churchID"`
	DebitAccountID  string          `json:"debitAccountID"`
	CreditAccountID string          `json:"creditAccountID"`
	Amount          decimal.Decimal `json:"amount"`
	TransactionDate time.Time       `json:"transactionDate"`
	Reference       string          `json:"reference"`
	Description     string          `json:"description"`
	CreatedAt       time.Time       `json:"createdAt"`
	CreatedBy       string          `json:"createdBy"`
}

// ToTransactionResponse converts a domain.Transaction to TransactionResponse.
func ToTransactionResponse(txn *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		TransactionID:   txn.TransactionID,
		ChurchID:        txn.ChurchID,
		DebitAccountID:  txn.DebitAccountID,
		CreditAccountID: txn.CreditAccountID,
		Amount:          txn.Amount,
		TransactionDate: txn.TransactionDate,
		Reference:       txn.Reference,
		Description:     txn.Description,
		CreatedAt:       txn.CreatedAt,
		CreatedBy:       txn.CreatedBy,
	}
}

// LedgerPeriodParams defines the reporting period query parameters.
type LedgerPeriodParams struct {
	From time.Time `form:"from" time_format:"2006-01-02" binding:"required"`
	To   time.Time `form:"to" time_format:"2006-01-02" binding:"required"`
}

// TrialBalanceParams extends the period with an optional level filter.
type TrialBalanceParams struct {
	From  time.Time `form:"from" time_format:"2006-01-02" binding:"required"`
	To    time.Time `form:"to" time_format:"2006-01-02" binding:"required"`
	Level *int      `form:"level" binding:"omitempty,min=1,max=4"`
}

// LedgerLineResponse is one transaction as seen from a single account, with
// the running balance after applying it.
type LedgerLineResponse struct {
	TransactionResponse
	IsDebit        bool            `json:"isDebit"`
	RunningBalance decimal.Decimal `json:"runningBalance"`
}

// AccountLedgerResponse is the period ledger view over one account.
type AccountLedgerResponse struct {
	AccountID        string               `json:"accountID"`
	BeginningBalance decimal.Decimal      `json:"beginningBalance"`
	Transactions     []LedgerLineResponse `json:"transactions"`
	CurrentBalance   decimal.Decimal      `json:"currentBalance"`
}

// ToAccountLedgerResponse converts a domain.AccountLedger.
func ToAccountLedgerResponse(l *domain.AccountLedger) AccountLedgerResponse {
	lines := make([]LedgerLineResponse, len(l.Lines))
	for i, line := range l.Lines {
		lines[i] = LedgerLineResponse{
			TransactionResponse: ToTransactionResponse(&line.Transaction),
			IsDebit:             line.IsDebit,
			RunningBalance:      line.RunningBalance,
		}
	}
	return AccountLedgerResponse{
		AccountID:        l.AccountID,
		BeginningBalance: l.BeginningBalance,
		Transactions:     lines,
		CurrentBalance:   l.CurrentBalance,
	}
}

// TrialBalanceRowResponse is one account's aggregate over the period.
type TrialBalanceRowResponse struct {
	AccountID   string             `json:"accountID"`
	Code        string             `json:"code"`
	Name        string             `json:"name"`
	AccountType domain.AccountType `json:"accountType"`
	Level       int                `json:"level"`
	DebitTotal  decimal.Decimal    `json:"debitTotal"`
	CreditTotal decimal.Decimal    `json:"creditTotal"`
	Balance     decimal.Decimal    `json:"balance"`
}

// TrialBalanceResponse is the ledger-wide report for a period.
type TrialBalanceResponse struct {
	Balances    []TrialBalanceRowResponse `json:"balances"`
	TotalDebit  decimal.Decimal           `json:"totalDebit"`
	TotalCredit decimal.Decimal           `json:"totalCredit"`
	IsBalanced  bool                      `json:"isBalanced"`
	Assets      decimal.Decimal           `json:"assets"`
	Liabilities decimal.Decimal           `json:"liabilities"`
	Equity      decimal.Decimal           `json:"equity"`
	Revenue     decimal.Decimal           `json:"revenue"`
	Expenses    decimal.Decimal           `json:"expenses"`
}

// ToTrialBalanceResponse converts a domain.TrialBalance.
func ToTrialBalanceResponse(tb *domain.TrialBalance) TrialBalanceResponse {
	rows := make([]TrialBalanceRowResponse, len(tb.Rows))
	for i, r := range tb.Rows {
		rows[i] = TrialBalanceRowResponse{
			AccountID:   r.AccountID,
			Code:        r.Code,
			Name:        r.Name,
			AccountType: r.AccountType,
			Level:       r.Level,
			DebitTotal:  r.DebitTotal,
			CreditTotal: r.CreditTotal,
			Balance:     r.Balance,
		}
	}
	return TrialBalanceResponse{
		Balances:    rows,
		TotalDebit:  tb.TotalDebit,
		TotalCredit: tb.TotalCredit,
		IsBalanced:  tb.IsBalanced,
		Assets:      tb.Summary.Assets,
		Liabilities: tb.Summary.Liabilities,
		Equity:      tb.Summary.Equity,
		Revenue:     tb.Summary.Revenue,
		Expenses:    tb.Summary.Expenses,
	}
}
