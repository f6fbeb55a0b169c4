package permissions

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/dcorreia/accounthub/internal/types"
)

var _ PermissionsService = (*PermissionsServiceImpl)(nil)

// PermissionsService exposes the permission slice of a user record.
type PermissionsService interface {
	GetPermission(ctx context.Context, userID uuid.UUID) (*types.UserPermission, error)
	UpdatePermission(ctx context.Context, userID uuid.UUID, params types.UpdatePermissionParams) error
}

type PermissionsServiceImpl struct {
	repo   PermissionsRepo
	logger *slog.Logger
}

func NewPermissionsService(repo PermissionsRepo, logger *slog.Logger) *PermissionsServiceImpl {
	return &PermissionsServiceImpl{
		repo:   repo,
		logger: logger,
	}
}

func (s *PermissionsServiceImpl) GetPermission(ctx context.Context, userID uuid.UUID) (*types.UserPermission, error) {
	return s.repo.GetPermission(ctx, userID)
}

func (s *PermissionsServiceImpl) UpdatePermission(ctx context.Context, userID uuid.UUID, params types.UpdatePermissionParams) error {
	l := s.logger.With(slog.String("method", "UpdatePermission"), slog.String("userID", userID.String()))

	if err := s.repo.UpdatePermission(ctx, userID, params); err != nil {
		return err
	}

	l.InfoContext(ctx, "Permission updated")
	return nil
}
