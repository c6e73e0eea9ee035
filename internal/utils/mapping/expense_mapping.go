package mapping

import (
	"github.com/parishware/church_finance_app/internal/core/domain"
	"github.com/parishware/church_finance_app/internal/models"
)

// ToModelExpenseReport converts a domain ExpenseReport (without steps).
func ToModelExpenseReport(d domain.ExpenseReport) models.ExpenseReport {
	return models.ExpenseReport{
		ExpenseReportID: d.ExpenseReportID,
		ChurchID:        d.ChurchID,
		RequesterID:     d.RequesterID,
		DepartmentID:    d.DepartmentID,
		Title:           d.Title,
		Category:        d.Category,
		Amount:          d.Amount,
		ExpenseDate:     d.ExpenseDate,
		BudgetItemID:    d.BudgetItemID,
		Status:          string(d.Status),
		WorkflowStatus:  string(d.WorkflowStatus),
		CurrentStep:     d.CurrentStep,
		TotalSteps:      d.TotalSteps,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainExpenseReport converts a model ExpenseReport (without steps).
func ToDomainExpenseReport(m models.ExpenseReport) domain.ExpenseReport {
	return domain.ExpenseReport{
		ExpenseReportID: m.ExpenseReportID,
		ChurchID:        m.ChurchID,
		RequesterID:     m.RequesterID,
		DepartmentID:    m.DepartmentID,
		Title:           m.Title,
		Category:        m.Category,
		Amount:          m.Amount,
		ExpenseDate:     m.ExpenseDate,
		BudgetItemID:    m.BudgetItemID,
		Status:          domain.ExpenseStatus(m.Status),
		WorkflowStatus:  domain.WorkflowStatus(m.WorkflowStatus),
		CurrentStep:     m.CurrentStep,
		TotalSteps:      m.TotalSteps,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainExpenseReportSlice converts a slice of model ExpenseReports.
func ToDomainExpenseReportSlice(ms []models.ExpenseReport) []domain.ExpenseReport {
	ds := make([]domain.ExpenseReport, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainExpenseReport(m)
	}
	return ds
}

// ToModelApprovalStep converts a domain ApprovalStep.
func ToModelApprovalStep(d domain.ApprovalStep) models.ApprovalStep {
	return models.ApprovalStep{
		ApprovalStepID:  d.ApprovalStepID,
		ExpenseReportID: d.ExpenseReportID,
		StepOrder:       d.StepOrder,
		RequiredRole:    string(d.RequiredRole),
		AssignedUserID:  d.AssignedUserID,
		Status:          string(d.Status),
		ActedBy:         d.ActedBy,
		ActedAt:         d.ActedAt,
		Comment:         d.Comment,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainApprovalStep converts a model ApprovalStep.
func ToDomainApprovalStep(m models.ApprovalStep) domain.ApprovalStep {
	return domain.ApprovalStep{
		ApprovalStepID:  m.ApprovalStepID,
		ExpenseReportID: m.ExpenseReportID,
		StepOrder:       m.StepOrder,
		RequiredRole:    domain.ChurchRole(m.RequiredRole),
		AssignedUserID:  m.AssignedUserID,
		Status:          domain.ApprovalStepStatus(m.Status),
		ActedBy:         m.ActedBy,
		ActedAt:         m.ActedAt,
		Comment:         m.Comment,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainApprovalStepSlice converts a slice of model ApprovalSteps.
func ToDomainApprovalStepSlice(ms []models.ApprovalStep) []domain.ApprovalStep {
	ds := make([]domain.ApprovalStep, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainApprovalStep(m)
	}
	return ds
}
