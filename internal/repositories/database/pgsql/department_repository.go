package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/parishware/church_finance_app/internal/apperrors"
	"github.com/parishware/church_finance_app/internal/core/domain"
	portsrepo "github.com/parishware/church_finance_app/internal/core/ports/repositories"
	"github.com/parishware/church_finance_app/internal/models"
	"github.com/parishware/church_finance_app/internal/utils/mapping"
)

// PgxDepartmentRepository reads departments for foreign-key validation.
// Department administration is owned elsewhere.
type PgxDepartmentRepository struct {
	pool *pgxpool.Pool
}

func newPgxDepartmentRepository(pool *pgxpool.Pool) portsrepo.DepartmentReader {
	return &PgxDepartmentRepository{pool: pool}
}

var _ portsrepo.DepartmentReader = (*PgxDepartmentRepository)(nil)

// FindDepartmentByID retrieves an active department.
func (r *PgxDepartmentRepository) FindDepartmentByID(ctx context.Context, departmentID string) (*domain.Department, error) {
	query := `
		SELECT department_id, church_id, name, parent_id, is_active, created_at, created_by, last_updated_at, last_updated_by
		FROM departments
		WHERE department_id = $1 AND is_active = TRUE;
	`
	var m models.Department
	err := r.pool.QueryRow(ctx, query, departmentID).Scan(
		&m.DepartmentID,
		&m.ChurchID,
		&m.Name,
		&m.ParentID,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find department %s: %w", departmentID, err)
	}

	department := mapping.ToDomainDepartment(m)
	return &department, nil
}
