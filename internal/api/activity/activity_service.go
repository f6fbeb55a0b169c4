package activity

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dcorreia/accounthub/internal/types"
)

var _ ActivityService = (*ActivityServiceImpl)(nil)

// ActivityService manages the bounded per-user activity log.
type ActivityService interface {
	Record(ctx context.Context, userID uuid.UUID, action, sourceAddress, clientInfo string) error
	Query(ctx context.Context, userID uuid.UUID, filter types.ActivityFilter) ([]types.ActivityEntry, error)
}

type ActivityServiceImpl struct {
	repo   ActivityRepo
	logger *slog.Logger
}

func NewActivityService(repo ActivityRepo, logger *slog.Logger) *ActivityServiceImpl {
	return &ActivityServiceImpl{
		repo:   repo,
		logger: logger,
	}
}

// Record appends an entry to the user's log, evicting the oldest entries
// once the log exceeds its cap.
func (s *ActivityServiceImpl) Record(ctx context.Context, userID uuid.UUID, action, sourceAddress, clientInfo string) error {
	l := s.logger.With(slog.String("method", "Record"), slog.String("userID", userID.String()))

	entries, err := s.repo.GetLog(ctx, userID)
	if err != nil {
		return err
	}

	entries = append(entries, types.ActivityEntry{
		Action:        action,
		Timestamp:     time.Now().UTC(),
		SourceAddress: sourceAddress,
		ClientInfo:    clientInfo,
	})
	if len(entries) > types.ActivityLogCap {
		entries = entries[len(entries)-types.ActivityLogCap:]
	}

	if err := s.repo.SetLog(ctx, userID, entries); err != nil {
		return err
	}

	l.DebugContext(ctx, "Activity recorded", slog.String("action", action))
	return nil
}

// Query returns the entries matching the filter, preserving insertion
// order. Time bounds are inclusive; a missing bound is open-ended.
func (s *ActivityServiceImpl) Query(ctx context.Context, userID uuid.UUID, filter types.ActivityFilter) ([]types.ActivityEntry, error) {
	entries, err := s.repo.GetLog(ctx, userID)
	if err != nil {
		return nil, err
	}

	matched := make([]types.ActivityEntry, 0, len(entries))
	for _, e := range entries {
		if filter.Action != "" && e.Action != filter.Action {
			continue
		}
		if filter.Start != nil && e.Timestamp.Before(*filter.Start) {
			continue
		}
		if filter.End != nil && e.Timestamp.After(*filter.End) {
			continue
		}
		matched = append(matched, e)
	}
	return matched, nil
}
