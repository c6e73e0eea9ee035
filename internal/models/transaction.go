package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction represents one immutable double-entry posting row.
type Transaction struct {
	TransactionID   string          `db:"transaction_id"`
	ChurchID        string          `db:"church_id"`
	DebitAccountID  string          `db:"debit_account_id"`
	CreditAccountID string          `db:"credit_account_id"`
	Amount          decimal.Decimal `db:"amount"`
	TransactionDate time.Time       `db:"transaction_date"`
	Reference       string          `db:"reference"`
	Description     string          `db:"description"`
	AuditFields
}
