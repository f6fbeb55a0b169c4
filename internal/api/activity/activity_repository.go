package activity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dcorreia/accounthub/internal/types"
)

var _ ActivityRepo = (*PostgresActivityRepo)(nil)

// ActivityRepo reads and writes the per-user activity log stored as a
// JSONB document on the user row.
type ActivityRepo interface {
	GetLog(ctx context.Context, userID uuid.UUID) ([]types.ActivityEntry, error)
	SetLog(ctx context.Context, userID uuid.UUID, entries []types.ActivityEntry) error
}

// pgxQuerier is the subset of pgxpool.Pool this repository needs.
type pgxQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PostgresActivityRepo struct {
	logger *slog.Logger
	pgpool pgxQuerier
}

func NewPostgresActivityRepo(pgxpool *pgxpool.Pool, logger *slog.Logger) *PostgresActivityRepo {
	return &PostgresActivityRepo{
		logger: logger,
		pgpool: pgxpool,
	}
}

func (r *PostgresActivityRepo) GetLog(ctx context.Context, userID uuid.UUID) ([]types.ActivityEntry, error) {
	var raw []byte
	err := r.pgpool.QueryRow(ctx,
		`SELECT activity_log FROM users WHERE id = $1`, userID).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user %s not found: %w", userID, types.ErrNotFound)
		}
		return nil, fmt.Errorf("database error fetching activity log: %w", err)
	}

	entries := []types.ActivityEntry{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &entries); err != nil {
			return nil, fmt.Errorf("failed to decode activity log for user %s: %w", userID, err)
		}
	}
	return entries, nil
}

func (r *PostgresActivityRepo) SetLog(ctx context.Context, userID uuid.UUID, entries []types.ActivityEntry) error {
	raw, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to encode activity log: %w", err)
	}

	tag, err := r.pgpool.Exec(ctx,
		`UPDATE users SET activity_log = $1, updated_at = now() WHERE id = $2`,
		raw, userID)
	if err != nil {
		return fmt.Errorf("database error updating activity log: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user %s not found: %w", userID, types.ErrNotFound)
	}
	return nil
}
