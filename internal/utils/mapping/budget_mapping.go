package mapping

import (
	"github.com/parishware/church_finance_app/internal/core/domain"
	"github.com/parishware/church_finance_app/internal/models"
)

// ToModelBudget converts a domain Budget header to a model Budget.
func ToModelBudget(d domain.Budget) models.Budget {
	return models.Budget{
		BudgetID:     d.BudgetID,
		ChurchID:     d.ChurchID,
		DepartmentID: d.DepartmentID,
		Name:         d.Name,
		Year:         d.Year,
		Quarter:      d.Quarter,
		Month:        d.Month,
		TotalAmount:  d.TotalAmount,
		Status:       string(d.Status),
		StartDate:    d.StartDate,
		EndDate:      d.EndDate,
		ApprovedBy:   d.ApprovedBy,
		ApprovedAt:   d.ApprovedAt,
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainBudget converts a model Budget to a domain Budget (without items).
func ToDomainBudget(m models.Budget) domain.Budget {
	return domain.Budget{
		BudgetID:     m.BudgetID,
		ChurchID:     m.ChurchID,
		DepartmentID: m.DepartmentID,
		Name:         m.Name,
		Year:         m.Year,
		Quarter:      m.Quarter,
		Month:        m.Month,
		TotalAmount:  m.TotalAmount,
		Status:       domain.BudgetStatus(m.Status),
		StartDate:    m.StartDate,
		EndDate:      m.EndDate,
		ApprovedBy:   m.ApprovedBy,
		ApprovedAt:   m.ApprovedAt,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainBudgetSlice converts a slice of model Budgets.
func ToDomainBudgetSlice(ms []models.Budget) []domain.Budget {
	ds := make([]domain.Budget, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainBudget(m)
	}
	return ds
}

// ToModelBudgetItem converts a domain BudgetItem to a model BudgetItem.
func ToModelBudgetItem(d domain.BudgetItem) models.BudgetItem {
	return models.BudgetItem{
		BudgetItemID: d.BudgetItemID,
		BudgetID:     d.BudgetID,
		Category:     d.Category,
		Description:  d.Description,
		Amount:       d.Amount,
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainBudgetItem converts a model BudgetItem (without its execution).
func ToDomainBudgetItem(m models.BudgetItem) domain.BudgetItem {
	return domain.BudgetItem{
		BudgetItemID: m.BudgetItemID,
		BudgetID:     m.BudgetID,
		Category:     m.Category,
		Description:  m.Description,
		Amount:       m.Amount,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelBudgetExecution converts a domain BudgetExecution.
func ToModelBudgetExecution(d domain.BudgetExecution) models.BudgetExecution {
	return models.BudgetExecution{
		BudgetExecutionID: d.BudgetExecutionID,
		BudgetItemID:      d.BudgetItemID,
		TotalBudget:       d.TotalBudget,
		UsedAmount:        d.UsedAmount,
		PendingAmount:     d.PendingAmount,
		RemainingAmount:   d.RemainingAmount,
		ExecutionRate:     d.ExecutionRate,
		AuditFields:       ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainBudgetExecution converts a model BudgetExecution.
func ToDomainBudgetExecution(m models.BudgetExecution) domain.BudgetExecution {
	return domain.BudgetExecution{
		BudgetExecutionID: m.BudgetExecutionID,
		BudgetItemID:      m.BudgetItemID,
		TotalBudget:       m.TotalBudget,
		UsedAmount:        m.UsedAmount,
		PendingAmount:     m.PendingAmount,
		RemainingAmount:   m.RemainingAmount,
		ExecutionRate:     m.ExecutionRate,
		AuditFields:       ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelBudgetChange converts a domain BudgetChange.
func ToModelBudgetChange(d domain.BudgetChange) models.BudgetChange {
	return models.BudgetChange{
		BudgetChangeID: d.BudgetChangeID,
		BudgetID:       d.BudgetID,
		ChangeType:     string(d.ChangeType),
		Amount:         d.Amount,
		FromItemID:     d.FromItemID,
		ToItemID:       d.ToItemID,
		Reason:         d.Reason,
		Status:         string(d.Status),
		ProcessedBy:    d.ProcessedBy,
		ProcessedAt:    d.ProcessedAt,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainBudgetChange converts a model BudgetChange.
func ToDomainBudgetChange(m models.BudgetChange) domain.BudgetChange {
	return domain.BudgetChange{
		BudgetChangeID: m.BudgetChangeID,
		BudgetID:       m.BudgetID,
		ChangeType:     domain.BudgetChangeType(m.ChangeType),
		Amount:         m.Amount,
		FromItemID:     m.FromItemID,
		ToItemID:       m.ToItemID,
		Reason:         m.Reason,
		Status:         domain.BudgetChangeStatus(m.Status),
		ProcessedBy:    m.ProcessedBy,
		ProcessedAt:    m.ProcessedAt,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}
