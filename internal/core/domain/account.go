package domain

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Revenue   AccountType = "REVENUE"
	Expense   AccountType = "EXPENSE"
)

// Account is one entry in the hierarchical chart of accounts.
//
// The code is dash-separated digit segments (e.g. "1-11-01-01", 1 to 4
// segments); the leading digit encodes the account type and the segment count
// is the level. Level and SortOrder are always derived from the code, never
// supplied by callers. A nil ChurchID marks a global (system) account visible
// to every church.
type Account struct {
	AccountID       string      `json:"accountID"` // Primary Key (UUID)
	ChurchID        *string     `json:"churchID"`  // Nullable FK -> churches.church_id; nil = global account
	Code            string      `json:"code"`
	Name            string      `json:"name"`
	AccountType     AccountType `json:"accountType"`
	Level           int         `json:"level"`           // Derived: number of code segments (1..4)
	SortOrder       int64       `json:"sortOrder"`       // Derived: numeric key from zero-padded segments
	ParentAccountID *string     `json:"parentAccountID"` // Nullable FK -> accounts.account_id
	Description     string      `json:"description"`
	AllowTransaction bool       `json:"allowTransaction"` // Only leaf accounts may post transactions
	IsActive        bool        `json:"isActive"`
	AuditFields
}

// IsGlobal reports whether the account is a system-wide account not owned by
// any single church.
func (a Account) IsGlobal() bool {
	return a.ChurchID == nil
}

// VisibleTo reports whether the account may be used by the given church.
func (a Account) VisibleTo(churchID string) bool {
	return a.ChurchID == nil || *a.ChurchID == churchID
}
