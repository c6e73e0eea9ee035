package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/parishware/church_finance_app/internal/apperrors"
	"github.com/parishware/church_finance_app/internal/core/domain"
	portsrepo "github.com/parishware/church_finance_app/internal/core/ports/repositories"
	portssvc "github.com/parishware/church_finance_app/internal/core/ports/services"
	"github.com/parishware/church_finance_app/internal/dto"
	"github.com/parishware/church_finance_app/internal/middleware"
)

// churchService manages church tenants, memberships and the role checks every
// other service delegates to.
type churchService struct {
	churchRepo portsrepo.ChurchRepositoryFacade
	userRepo   portsrepo.UserReader
}

// NewChurchService creates a new ChurchService.
func NewChurchService(churchRepo portsrepo.ChurchRepositoryFacade, userRepo portsrepo.UserReader) portssvc.ChurchSvcFacade {
	return &churchService{
		churchRepo: churchRepo,
		userRepo:   userRepo,
	}
}

var _ portssvc.ChurchSvcFacade = (*churchService)(nil)

// AuthorizeUserAction verifies membership and minimum role. Non-members get
// ErrNotFound so church existence is not leaked to outsiders.
func (s *churchService) AuthorizeUserAction(ctx context.Context, userID, churchID string, minRole domain.ChurchRole) (domain.ChurchRole, error) {
	role, err := s.churchRepo.FindUserChurchRole(ctx, userID, churchID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return "", apperrors.ErrNotFound
		}
		return "", fmt.Errorf("failed to resolve church role: %w", err)
	}
	if !role.AtLeast(minRole) {
		return "", fmt.Errorf("%w: requires role %s or higher", apperrors.ErrForbidden, minRole)
	}
	return role, nil
}

// CreateChurch creates a church tenant and makes the creator its first admin.
func (s *churchService) CreateChurch(ctx context.Context, req dto.CreateChurchRequest, creatorUserID string) (*domain.Church, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	now := time.Now().UTC()
	church := domain.Church{
		ChurchID:    uuid.NewString(),
		Name:        req.Name,
		Description: req.Description,
		IsActive:    true,
		AuditFields: domain.AuditFields{CreatedAt: now, CreatedBy: creatorUserID, LastUpdatedAt: now, LastUpdatedBy: creatorUserID},
	}

	if err := s.churchRepo.SaveChurch(ctx, church); err != nil {
		logger.Error("Failed to save church", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save church: %w", err)
	}

	membership := domain.UserChurch{
		UserID:   creatorUserID,
		ChurchID: church.ChurchID,
		Role:     domain.RoleAdmin,
		JoinedAt: now,
	}
	if err := s.churchRepo.AddUserToChurch(ctx, membership); err != nil {
		logger.Error("Failed to add creator to church", slog.String("error", err.Error()), slog.String("church_id", church.ChurchID))
		return nil, fmt.Errorf("failed to add creator membership: %w", err)
	}

	logger.Info("Church created", slog.String("church_id", church.ChurchID), slog.String("name", church.Name))
	return &church, nil
}

// GetChurchByID retrieves a church the caller belongs to.
func (s *churchService) GetChurchByID(ctx context.Context, churchID string, requestingUserID string) (*domain.Church, error) {
	if _, err := s.AuthorizeUserAction(ctx, requestingUserID, churchID, domain.RoleMember); err != nil {
		return nil, err
	}
	return s.churchRepo.FindChurchByID(ctx, churchID)
}

// AddUserToChurch grants a user a role in the church. Admins only.
func (s *churchService) AddUserToChurch(ctx context.Context, churchID string, req dto.AddChurchMemberRequest, addingUserID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.AuthorizeUserAction(ctx, addingUserID, churchID, domain.RoleAdmin); err != nil {
		return err
	}

	user, err := s.userRepo.FindUserByID(ctx, req.UserID)
	if err != nil {
		return fmt.Errorf("user: %w", err)
	}

	if existing, err := s.churchRepo.FindUserChurchRole(ctx, req.UserID, churchID); err == nil && existing != "" {
		return fmt.Errorf("%w: user is already a member with role %s", apperrors.ErrDuplicate, existing)
	} else if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return fmt.Errorf("failed to check existing membership: %w", err)
	}

	membership := domain.UserChurch{
		UserID:   user.UserID,
		UserName: user.Name,
		ChurchID: churchID,
		Role:     req.Role,
		JoinedAt: time.Now().UTC(),
	}
	if err := s.churchRepo.AddUserToChurch(ctx, membership); err != nil {
		logger.Error("Failed to add user to church", slog.String("error", err.Error()), slog.String("church_id", churchID), slog.String("user_id", req.UserID))
		return fmt.Errorf("failed to add user to church: %w", err)
	}

	logger.Info("User added to church", slog.String("church_id", churchID), slog.String("user_id", req.UserID), slog.String("role", string(req.Role)))
	return nil
}

// ListApproversForRole returns the active holders of a role in a church.
func (s *churchService) ListApproversForRole(ctx context.Context, churchID string, role domain.ChurchRole) ([]string, error) {
	return s.churchRepo.ListUserIDsByRole(ctx, churchID, role)
}
