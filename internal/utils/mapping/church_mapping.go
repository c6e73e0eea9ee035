package mapping

import (
	"github.com/parishware/church_finance_app/internal/core/domain"
	"github.com/parishware/church_finance_app/internal/models"
)

// ToModelChurch converts a domain Church.
func ToModelChurch(d domain.Church) models.Church {
	return models.Church{
		ChurchID:    d.ChurchID,
		Name:        d.Name,
		Description: d.Description,
		IsActive:    d.IsActive,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainChurch converts a model Church.
func ToDomainChurch(m models.Church) domain.Church {
	return domain.Church{
		ChurchID:    m.ChurchID,
		Name:        m.Name,
		Description: m.Description,
		IsActive:    m.IsActive,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelUserChurch converts a domain membership.
func ToModelUserChurch(d domain.UserChurch) models.UserChurch {
	return models.UserChurch{
		UserID:   d.UserID,
		ChurchID: d.ChurchID,
		Role:     string(d.Role),
		JoinedAt: d.JoinedAt,
	}
}

// ToDomainDepartment converts a model Department.
func ToDomainDepartment(m models.Department) domain.Department {
	return domain.Department{
		DepartmentID: m.DepartmentID,
		ChurchID:     m.ChurchID,
		Name:         m.Name,
		ParentID:     m.ParentID,
		IsActive:     m.IsActive,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}
