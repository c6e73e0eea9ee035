package models

// Account represents a chart-of-accounts row. ChurchID is NULL for global
// accounts shared by every church.
type Account struct {
	AccountID        string  `db:"account_id"`
	ChurchID         *string `db:"church_id"` // Nullable: NULL means global
	Code             string  `db:"code"`
	Name             string  `db:"name"`
	AccountType      string  `db:"account_type"`
	Level            int     `db:"level"`
	SortOrder        int64   `db:"sort_order"`
	ParentAccountID  *string `db:"parent_account_id"` // Nullable
	Description      string  `db:"description"`
	AllowTransaction bool    `db:"allow_transaction"`
	IsActive         bool    `db:"is_active"`
	AuditFields
}
