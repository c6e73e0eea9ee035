package services

import (
	"context"

	"github.com/parishware/church_finance_app/internal/core/domain"
	"github.com/parishware/church_finance_app/internal/dto"
)

// ChurchAuthorizerSvc gates every tenant-scoped operation on the caller's
// membership role.
type ChurchAuthorizerSvc interface {
	// AuthorizeUserAction verifies the user is a member of the church with at
	// least the given role, returning the actual role held. Returns
	// ErrNotFound when the user is not a member (existence is obscured) and
	// ErrForbidden when the role is too low.
	AuthorizeUserAction(ctx context.Context, userID, churchID string, minRole domain.ChurchRole) (domain.ChurchRole, error)
}

// ChurchSvcFacade manages church tenants and memberships.
type ChurchSvcFacade interface {
	ChurchAuthorizerSvc

	CreateChurch(ctx context.Context, req dto.CreateChurchRequest, creatorUserID string) (*domain.Church, error)
	GetChurchByID(ctx context.Context, churchID string, requestingUserID string) (*domain.Church, error)
	AddUserToChurch(ctx context.Context, churchID string, req dto.AddChurchMemberRequest, addingUserID string) error

	// ListApproversForRole returns the active holders of a role in a church.
	ListApproversForRole(ctx context.Context, churchID string, role domain.ChurchRole) ([]string, error)
}
