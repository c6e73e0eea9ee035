package mapping

import (
	"github.com/parishware/church_finance_app/internal/core/domain"
	"github.com/parishware/church_finance_app/internal/models"
)

// ToModelAccount converts a domain Account to a model Account.
func ToModelAccount(d domain.Account) models.Account {
	return models.Account{
		AccountID:        d.AccountID,
		ChurchID:         d.ChurchID,
		Code:             d.Code,
		Name:             d.Name,
		AccountType:      string(d.AccountType),
		Level:            d.Level,
		SortOrder:        d.SortOrder,
		ParentAccountID:  d.ParentAccountID,
		Description:      d.Description,
		AllowTransaction: d.AllowTransaction,
		IsActive:         d.IsActive,
		AuditFields:      ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainAccount converts a model Account to a domain Account.
func ToDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountID:        m.AccountID,
		ChurchID:         m.ChurchID,
		Code:             m.Code,
		Name:             m.Name,
		AccountType:      domain.AccountType(m.AccountType),
		Level:            m.Level,
		SortOrder:        m.SortOrder,
		ParentAccountID:  m.ParentAccountID,
		Description:      m.Description,
		AllowTransaction: m.AllowTransaction,
		IsActive:         m.IsActive,
		AuditFields:      ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainAccountSlice converts a slice of model Accounts.
func ToDomainAccountSlice(ms []models.Account) []domain.Account {
	ds := make([]domain.Account, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainAccount(m)
	}
	return ds
}
