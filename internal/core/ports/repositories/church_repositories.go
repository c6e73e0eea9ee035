package repositories

import (
	"context"

	"github.com/parishware/church_finance_app/internal/core/domain"
)

// ChurchReader defines read operations for churches and memberships.
type ChurchReader interface {
	FindChurchByID(ctx context.Context, churchID string) (*domain.Church, error)

	// FindUserChurchRole returns the caller's role in a church, or
	// ErrNotFound when the user is not a member.
	FindUserChurchRole(ctx context.Context, userID, churchID string) (domain.ChurchRole, error)

	// ListUserIDsByRole returns the active users holding a role in a church.
	// Used for approval notification fan-out.
	ListUserIDsByRole(ctx context.Context, churchID string, role domain.ChurchRole) ([]string, error)
}

// ChurchWriter defines write operations for churches and memberships.
type ChurchWriter interface {
	SaveChurch(ctx context.Context, church domain.Church) error
	AddUserToChurch(ctx context.Context, membership domain.UserChurch) error
}

// ChurchRepositoryFacade combines all church repository interfaces.
type ChurchRepositoryFacade interface {
	ChurchReader
	ChurchWriter
}
