package userSettings

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/dcorreia/accounthub/internal/types"
)

var _ UserSettingsService = (*UserSettingsServiceImpl)(nil)

// UserSettingsService exposes the preference slice of a user record.
type UserSettingsService interface {
	GetPreferences(ctx context.Context, userID uuid.UUID) (*types.UserPreferences, error)
	UpdatePreferences(ctx context.Context, userID uuid.UUID, params types.UpdatePreferencesParams) error
}

type UserSettingsServiceImpl struct {
	repo   UserSettingsRepo
	logger *slog.Logger
}

func NewUserSettingsService(repo UserSettingsRepo, logger *slog.Logger) *UserSettingsServiceImpl {
	return &UserSettingsServiceImpl{
		repo:   repo,
		logger: logger,
	}
}

func (s *UserSettingsServiceImpl) GetPreferences(ctx context.Context, userID uuid.UUID) (*types.UserPreferences, error) {
	return s.repo.GetPreferences(ctx, userID)
}

func (s *UserSettingsServiceImpl) UpdatePreferences(ctx context.Context, userID uuid.UUID, params types.UpdatePreferencesParams) error {
	l := s.logger.With(slog.String("method", "UpdatePreferences"), slog.String("userID", userID.String()))

	if err := s.repo.UpdatePreferences(ctx, userID, params); err != nil {
		return err
	}

	l.InfoContext(ctx, "Preferences updated")
	return nil
}
