package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/parishware/church_finance_app/internal/apperrors"
	"github.com/parishware/church_finance_app/internal/core/domain"
	portsrepo "github.com/parishware/church_finance_app/internal/core/ports/repositories"
	"github.com/parishware/church_finance_app/internal/models"
	"github.com/parishware/church_finance_app/internal/utils/mapping"
)

const churchColumns = `church_id, name, description, is_active, created_at, created_by, last_updated_at, last_updated_by`

type PgxChurchRepository struct {
	pool *pgxpool.Pool
}

func newPgxChurchRepository(pool *pgxpool.Pool) portsrepo.ChurchRepositoryFacade {
	return &PgxChurchRepository{pool: pool}
}

var _ portsrepo.ChurchRepositoryFacade = (*PgxChurchRepository)(nil)

// FindChurchByID retrieves a church by its ID.
func (r *PgxChurchRepository) FindChurchByID(ctx context.Context, churchID string) (*domain.Church, error) {
	query := `SELECT ` + churchColumns + ` FROM churches WHERE church_id = $1;`

	var m models.Church
	err := r.pool.QueryRow(ctx, query, churchID).Scan(
		&m.ChurchID,
		&m.Name,
		&m.Description,
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
		return nil, fmt.Errorf("failed to find church %s: %w", churchID, err)
	}

	church := mapping.ToDomainChurch(m)
	return &church, nil
}

// FindUserChurchRole returns the user's role in a church, or ErrNotFound when
// the user is not a member.
func (r *PgxChurchRepository) FindUserChurchRole(ctx context.Context, userID, churchID string) (domain.ChurchRole, error) {
	query := `SELECT role FROM user_churches WHERE user_id = $1 AND church_id = $2;`

	var role string
	if err := r.pool.QueryRow(ctx, query, userID, churchID).Scan(&role); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", apperrors.ErrNotFound
		}
		return "", fmt.Errorf("failed to find role of user %s in church %s: %w", userID, churchID, err)
	}
	return domain.ChurchRole(role), nil
}

// ListUserIDsByRole returns the users holding a role in a church.
func (r *PgxChurchRepository) ListUserIDsByRole(ctx context.Context, churchID string, role domain.ChurchRole) ([]string, error) {
	query := `
		SELECT uc.user_id
		FROM user_churches uc
		JOIN users u ON u.user_id = uc.user_id
		WHERE uc.church_id = $1 AND uc.role = $2 AND u.deleted_at IS NULL
		ORDER BY uc.joined_at;
	`
	rows, err := r.pool.Query(ctx, query, churchID, string(role))
	if err != nil {
		return nil, fmt.Errorf("failed to list %s users of church %s: %w", role, churchID, err)
	}
	defer rows.Close()

	var userIDs []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan user id: %w", err)
		}
		userIDs = append(userIDs, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating membership rows: %w", err)
	}
	return userIDs, nil
}

// SaveChurch inserts a new church.
func (r *PgxChurchRepository) SaveChurch(ctx context.Context, church domain.Church) error {
	m := mapping.ToModelChurch(church)

	query := `
		INSERT INTO churches (` + churchColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err := r.pool.Exec(ctx, query,
		m.ChurchID, m.Name, m.Description, m.IsActive,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: church %s already exists", apperrors.ErrDuplicate, m.ChurchID)
		}
		return fmt.Errorf("failed to save church %s: %w", m.ChurchID, err)
	}
	return nil
}

// AddUserToChurch inserts a membership row.
func (r *PgxChurchRepository) AddUserToChurch(ctx context.Context, membership domain.UserChurch) error {
	m := mapping.ToModelUserChurch(membership)

	query := `
		INSERT INTO user_churches (user_id, church_id, role, joined_at)
		VALUES ($1, $2, $3, $4);
	`
	_, err := r.pool.Exec(ctx, query, m.UserID, m.ChurchID, m.Role, m.JoinedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				return fmt.Errorf("%w: user is already a member of this church", apperrors.ErrDuplicate)
			case "23503":
				return fmt.Errorf("%w: user or church does not exist", apperrors.ErrValidation)
			}
		}
		return fmt.Errorf("failed to add user %s to church %s: %w", m.UserID, m.ChurchID, err)
	}
	return nil
}
