package permissions

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

func newMockPermissionsRepo(t *testing.T) (*PostgresPermissionsRepo, pgxmock.PgxPoolIface) {
	t.Helper()
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mockPool.Close)

	repo := &PostgresPermissionsRepo{
		logger: slog.New(slog.DiscardHandler),
		pgpool: mockPool,
	}
	return repo, mockPool
}

func TestUpdatePermission_EmptyUpdateUnknownUser(t *testing.T) {
	repo, mockPool := newMockPermissionsRepo(t)
	userID := uuid.New()

	mockPool.ExpectQuery("SELECT EXISTS \\(SELECT 1 FROM users WHERE id = \\$1\\)").
		WithArgs(userID).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))

	err := repo.UpdatePermission(context.Background(), userID, types.UpdatePermissionParams{})
	assert.ErrorIs(t, err, types.ErrNotFound)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestUpdatePermission_EmptyUpdateExistingUser(t *testing.T) {
	repo, mockPool := newMockPermissionsRepo(t)
	userID := uuid.New()

	mockPool.ExpectQuery("SELECT EXISTS \\(SELECT 1 FROM users WHERE id = \\$1\\)").
		WithArgs(userID).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	err := repo.UpdatePermission(context.Background(), userID, types.UpdatePermissionParams{})
	assert.NoError(t, err)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestUpdatePermission_PartialUpdate(t *testing.T) {
	repo, mockPool := newMockPermissionsRepo(t)
	userID := uuid.New()
	permission := "Grant"

	mockPool.ExpectExec("UPDATE users SET permission = \\$1, updated_at = now\\(\\) WHERE id = \\$2").
		WithArgs(permission, userID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := repo.UpdatePermission(context.Background(), userID, types.UpdatePermissionParams{Permission: &permission})
	assert.NoError(t, err)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}
