package repositories

import (
	"context"

	"github.com/parishware/church_finance_app/internal/core/domain"
)

// DepartmentReader provides read-only access to departments, which are owned
// by the member-administration side of the system. This service only needs
// them for foreign-key validation.
type DepartmentReader interface {
	FindDepartmentByID(ctx context.Context, departmentID string) (*domain.Department, error)
}
