package userSettings

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/dcorreia/accounthub/internal/types"
)

var _ UserSettingsRepo = (*PostgresUserSettingsRepo)(nil)

// UserSettingsRepo is the data access contract for the preference slice
// of a user record.
type UserSettingsRepo interface {
	GetPreferences(ctx context.Context, userID uuid.UUID) (*types.UserPreferences, error)
	UpdatePreferences(ctx context.Context, userID uuid.UUID, params types.UpdatePreferencesParams) error
}

// pgxQuerier is the subset of pgxpool.Pool this repository needs.
type pgxQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PostgresUserSettingsRepo struct {
	logger *slog.Logger
	pgpool pgxQuerier
}

func NewPostgresUserSettingsRepo(pgxpool *pgxpool.Pool, logger *slog.Logger) *PostgresUserSettingsRepo {
	return &PostgresUserSettingsRepo{
		logger: logger,
		pgpool: pgxpool,
	}
}

func (r *PostgresUserSettingsRepo) GetPreferences(ctx context.Context, userID uuid.UUID) (*types.UserPreferences, error) {
	var prefs types.UserPreferences
	err := r.pgpool.QueryRow(ctx,
		`SELECT id, theme, notifications, language FROM users WHERE id = $1`,
		userID).Scan(&prefs.ID, &prefs.Theme, &prefs.Notifications, &prefs.Language)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user %s not found: %w", userID, types.ErrNotFound)
		}
		return nil, fmt.Errorf("database error fetching preferences: %w", err)
	}
	return &prefs, nil
}

// UpdatePreferences applies a partial update; only provided fields are
// written.
func (r *PostgresUserSettingsRepo) UpdatePreferences(ctx context.Context, userID uuid.UUID, params types.UpdatePreferencesParams) error {
	ctx, span := otel.Tracer("UserSettingsRepo").Start(ctx, "UpdatePreferences", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "UPDATE"),
		attribute.String("user.id", userID.String()),
	))
	defer span.End()

	var setClauses []string
	var args []interface{}
	argID := 1

	addClause := func(column string, value interface{}) {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, argID))
		args = append(args, value)
		argID++
	}

	if params.Theme != nil {
		addClause("theme", *params.Theme)
	}
	if params.Notifications != nil {
		addClause("notifications", *params.Notifications)
	}
	if params.Language != nil {
		addClause("language", *params.Language)
	}

	if len(setClauses) == 0 {
		// An empty update is a no-op, but the target must still exist.
		var exists bool
		if err := r.pgpool.QueryRow(ctx,
			"SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)", userID).Scan(&exists); err != nil {
			span.RecordError(err)
			return fmt.Errorf("database error checking user existence: %w", err)
		}
		if !exists {
			span.SetStatus(codes.Error, "User not found")
			return fmt.Errorf("user %s not found: %w", userID, types.ErrNotFound)
		}
		span.SetStatus(codes.Ok, "No fields to update")
		return nil
	}

	setClauses = append(setClauses, "updated_at = now()")
	query := fmt.Sprintf("UPDATE users SET %s WHERE id = $%d",
		strings.Join(setClauses, ", "), argID)
	args = append(args, userID)

	tag, err := r.pgpool.Exec(ctx, query, args...)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Database UPDATE failed")
		return fmt.Errorf("database error updating preferences: %w", err)
	}
	if tag.RowsAffected() == 0 {
		span.SetStatus(codes.Error, "User not found")
		return fmt.Errorf("user %s not found: %w", userID, types.ErrNotFound)
	}

	span.SetStatus(codes.Ok, "Preferences updated")
	return nil
}
