package userSettings

import (
	"context"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dcorreia/accounthub/internal/types"
)

func newMockSettingsRepo(t *testing.T) (*PostgresUserSettingsRepo, pgxmock.PgxPoolIface) {
	t.Helper()
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mockPool.Close)

	repo := &PostgresUserSettingsRepo{
		logger: slog.New(slog.DiscardHandler),
		pgpool: mockPool,
	}
	return repo, mockPool
}

func TestUpdatePreferences_EmptyUpdateUnknownUser(t *testing.T) {
	repo, mockPool := newMockSettingsRepo(t)
	userID := uuid.New()

	mockPool.ExpectQuery("SELECT EXISTS \\(SELECT 1 FROM users WHERE id = \\$1\\)").
		WithArgs(userID).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))

	err := repo.UpdatePreferences(context.Background(), userID, types.UpdatePreferencesParams{})
	assert.ErrorIs(t, err, types.ErrNotFound)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestUpdatePreferences_EmptyUpdateExistingUser(t *testing.T) {
	repo, mockPool := newMockSettingsRepo(t)
	userID := uuid.New()

	mockPool.ExpectQuery("SELECT EXISTS \\(SELECT 1 FROM users WHERE id = \\$1\\)").
		WithArgs(userID).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	err := repo.UpdatePreferences(context.Background(), userID, types.UpdatePreferencesParams{})
	assert.NoError(t, err)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestUpdatePreferences_PartialUpdate(t *testing.T) {
	repo, mockPool := newMockSettingsRepo(t)
	userID := uuid.New()
	theme := types.ThemeDark

	mockPool.ExpectExec("UPDATE users SET theme = \\$1, updated_at = now\\(\\) WHERE id = \\$2").
		WithArgs(theme, userID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := repo.UpdatePreferences(context.Background(), userID, types.UpdatePreferencesParams{Theme: &theme})
	assert.NoError(t, err)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}
