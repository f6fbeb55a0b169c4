package activity

import (
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dcorreia/accounthub/internal/types"
)

func newMockRepo(t *testing.T) (*PostgresActivityRepo, pgxmock.PgxPoolIface) {
	t.Helper()
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mockPool.Close)

	repo := &PostgresActivityRepo{
		logger: slog.New(slog.DiscardHandler),
		pgpool: mockPool,
	}
	return repo, mockPool
}

func TestGetLog_DecodesEntries(t *testing.T) {
	repo, mockPool := newMockRepo(t)
	userID := uuid.New()

	entries := []types.ActivityEntry{
		{Action: "login", Timestamp: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC), SourceAddress: "10.0.0.1:1234", ClientInfo: "test-agent"},
	}
	raw, err := json.Marshal(entries)
	require.NoError(t, err)

	mockPool.ExpectQuery("SELECT activity_log FROM users WHERE id = \\$1").
		WithArgs(userID).
		WillReturnRows(pgxmock.NewRows([]string{"activity_log"}).AddRow(raw))

	got, err := repo.GetLog(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, entries, got)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestGetLog_UnknownUser(t *testing.T) {
	repo, mockPool := newMockRepo(t)
	userID := uuid.New()

	mockPool.ExpectQuery("SELECT activity_log FROM users WHERE id = \\$1").
		WithArgs(userID).
		WillReturnRows(pgxmock.NewRows([]string{"activity_log"}))

	_, err := repo.GetLog(context.Background(), userID)
	assert.ErrorIs(t, err, types.ErrNotFound)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestSetLog_WritesEncodedDocument(t *testing.T) {
	repo, mockPool := newMockRepo(t)
	userID := uuid.New()

	entries := []types.ActivityEntry{
		{Action: "login", Timestamp: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)},
	}
	raw, err := json.Marshal(entries)
	require.NoError(t, err)

	mockPool.ExpectExec("UPDATE users SET activity_log = \\$1, updated_at = now\\(\\) WHERE id = \\$2").
		WithArgs(raw, userID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, repo.SetLog(context.Background(), userID, entries))
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestSetLog_UnknownUser(t *testing.T) {
	repo, mockPool := newMockRepo(t)
	userID := uuid.New()

	mockPool.ExpectExec("UPDATE users SET activity_log = \\$1, updated_at = now\\(\\) WHERE id = \\$2").
		WithArgs(pgxmock.AnyArg(), userID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.SetLog(context.Background(), userID, nil)
	assert.ErrorIs(t, err, types.ErrNotFound)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}
