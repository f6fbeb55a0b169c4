package user

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

func newMockUserRepo(t *testing.T) (*PostgresUserRepo, pgxmock.PgxPoolIface) {
	t.Helper()
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mockPool.Close)

	repo := &PostgresUserRepo{
		logger: slog.New(slog.DiscardHandler),
		pgpool: mockPool,
	}
	return repo, mockPool
}

func TestUpdateUser_EmptyUpdateUnknownUser(t *testing.T) {
	repo, mockPool := newMockUserRepo(t)
	userID := uuid.New()

	mockPool.ExpectQuery("SELECT EXISTS \\(SELECT 1 FROM users WHERE id = \\$1\\)").
		WithArgs(userID).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))

	err := repo.UpdateUser(context.Background(), userID, UpdateUserRecord{})
	assert.ErrorIs(t, err, types.ErrNotFound)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestUpdateUser_EmptyUpdateExistingUser(t *testing.T) {
	repo, mockPool := newMockUserRepo(t)
	userID := uuid.New()

	mockPool.ExpectQuery("SELECT EXISTS \\(SELECT 1 FROM users WHERE id = \\$1\\)").
		WithArgs(userID).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	err := repo.UpdateUser(context.Background(), userID, UpdateUserRecord{})
	assert.NoError(t, err)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestUpdateUser_UnknownUser(t *testing.T) {
	repo, mockPool := newMockUserRepo(t)
	userID := uuid.New()
	title := "Dr"

	mockPool.ExpectExec("UPDATE users SET title = \\$1, updated_at = \\$2 WHERE id = \\$3").
		WithArgs(title, pgxmock.AnyArg(), userID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	mockPool.ExpectQuery("SELECT EXISTS \\(SELECT 1 FROM users WHERE id = \\$1\\)").
		WithArgs(userID).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))

	err := repo.UpdateUser(context.Background(), userID, UpdateUserRecord{Title: &title})
	assert.ErrorIs(t, err, types.ErrNotFound)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}
