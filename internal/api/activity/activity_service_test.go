package activity

import (
	"context"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dcorreia/accounthub/internal/types"
)

type MockActivityRepo struct {
	mock.Mock
}

func (m *MockActivityRepo) GetLog(ctx context.Context, userID uuid.UUID) ([]types.ActivityEntry, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.ActivityEntry), args.Error(1)
}

func (m *MockActivityRepo) SetLog(ctx context.Context, userID uuid.UUID, entries []types.ActivityEntry) error {
	args := m.Called(ctx, userID, entries)
	return args.Error(0)
}

func newTestActivityService(repo ActivityRepo) *ActivityServiceImpl {
	return NewActivityService(repo, slog.New(slog.DiscardHandler))
}

func TestRecord_AppendsEntry(t *testing.T) {
	ctx := context.Background()
	repo := new(MockActivityRepo)
	svc := newTestActivityService(repo)

	userID := uuid.New()
	existing := []types.ActivityEntry{{Action: "login", Timestamp: time.Now().Add(-time.Hour)}}

	repo.On("GetLog", ctx, userID).Return(existing, nil)
	repo.On("SetLog", ctx, userID, mock.MatchedBy(func(entries []types.ActivityEntry) bool {
		if len(entries) != 2 {
			return false
		}
		last := entries[1]
		return last.Action == "password_change" &&
			last.SourceAddress == "10.0.0.1:4444" &&
			last.ClientInfo == "test-agent"
	})).Return(nil)

	err := svc.Record(ctx, userID, "password_change", "10.0.0.1:4444", "test-agent")
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestRecord_EvictsOldestBeyondCap(t *testing.T) {
	ctx := context.Background()
	repo := new(MockActivityRepo)
	svc := newTestActivityService(repo)

	userID := uuid.New()
	full := make([]types.ActivityEntry, types.ActivityLogCap)
	for i := range full {
		full[i] = types.ActivityEntry{
			Action:    fmt.Sprintf("action-%d", i),
			Timestamp: time.Now().Add(time.Duration(i-types.ActivityLogCap) * time.Minute),
		}
	}

	repo.On("GetLog", ctx, userID).Return(full, nil)
	repo.On("SetLog", ctx, userID, mock.MatchedBy(func(entries []types.ActivityEntry) bool {
		if len(entries) != types.ActivityLogCap {
			return false
		}
		// Oldest entry evicted, newest appended at the tail
		return entries[0].Action == "action-1" &&
			entries[types.ActivityLogCap-1].Action == "login"
	})).Return(nil)

	err := svc.Record(ctx, userID, "login", "", "")
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestRecord_UnknownUser(t *testing.T) {
	ctx := context.Background()
	repo := new(MockActivityRepo)
	svc := newTestActivityService(repo)

	userID := uuid.New()
	repo.On("GetLog", ctx, userID).Return(nil, types.ErrNotFound)

	err := svc.Record(ctx, userID, "login", "", "")
	assert.ErrorIs(t, err, types.ErrNotFound)
	repo.AssertNotCalled(t, "SetLog", mock.Anything, mock.Anything, mock.Anything)
}

func TestQuery_FiltersByActionAndWindow(t *testing.T) {
	ctx := context.Background()
	repo := new(MockActivityRepo)
	svc := newTestActivityService(repo)

	userID := uuid.New()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	entries := []types.ActivityEntry{
		{Action: "login", Timestamp: base},
		{Action: "password_change", Timestamp: base.Add(time.Hour)},
		{Action: "login", Timestamp: base.Add(2 * time.Hour)},
		{Action: "login", Timestamp: base.Add(3 * time.Hour)},
	}
	repo.On("GetLog", ctx, userID).Return(entries, nil)

	start := base.Add(time.Hour)
	end := base.Add(2 * time.Hour)
	matched, err := svc.Query(ctx, userID, types.ActivityFilter{
		Action: "login",
		Start:  &start,
		End:    &end,
	})
	require.NoError(t, err)
	require.Len(t, matched, 1)
	assert.Equal(t, base.Add(2*time.Hour), matched[0].Timestamp)
}

func TestQuery_NoFilterReturnsAllInOrder(t *testing.T) {
	ctx := context.Background()
	repo := new(MockActivityRepo)
	svc := newTestActivityService(repo)

	userID := uuid.New()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	entries := []types.ActivityEntry{
		{Action: "login", Timestamp: base},
		{Action: "deactivate", Timestamp: base.Add(time.Minute)},
		{Action: "reactivate", Timestamp: base.Add(2 * time.Minute)},
	}
	repo.On("GetLog", ctx, userID).Return(entries, nil)

	matched, err := svc.Query(ctx, userID, types.ActivityFilter{})
	require.NoError(t, err)
	assert.Equal(t, entries, matched)
}

func TestQuery_BoundsAreInclusive(t *testing.T) {
	ctx := context.Background()
	repo := new(MockActivityRepo)
	svc := newTestActivityService(repo)

	userID := uuid.New()
	ts := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	repo.On("GetLog", ctx, userID).Return([]types.ActivityEntry{{Action: "login", Timestamp: ts}}, nil)

	matched, err := svc.Query(ctx, userID, types.ActivityFilter{Start: &ts, End: &ts})
	require.NoError(t, err)
	assert.Len(t, matched, 1)
}
