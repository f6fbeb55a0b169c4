package permissions

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

	"github.com/dcorreia/accounthub/internal/types"
)

var _ PermissionsRepo = (*PostgresPermissionsRepo)(nil)

// PermissionsRepo is the data access contract for the authorization
// metadata slice of a user record.
type PermissionsRepo interface {
	GetPermission(ctx context.Context, userID uuid.UUID) (*types.UserPermission, error)
	UpdatePermission(ctx context.Context, userID uuid.UUID, params types.UpdatePermissionParams) error
}

// pgxQuerier is the subset of pgxpool.Pool this repository needs.
type pgxQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PostgresPermissionsRepo struct {
	logger *slog.Logger
	pgpool pgxQuerier
}

func NewPostgresPermissionsRepo(pgxpool *pgxpool.Pool, logger *slog.Logger) *PostgresPermissionsRepo {
	return &PostgresPermissionsRepo{
		logger: logger,
		pgpool: pgxpool,
	}
}

func (r *PostgresPermissionsRepo) GetPermission(ctx context.Context, userID uuid.UUID) (*types.UserPermission, error) {
	var perm types.UserPermission
	err := r.pgpool.QueryRow(ctx,
		`SELECT id, permission, privileges, securable FROM users WHERE id = $1`,
		userID).Scan(&perm.ID, &perm.Permission, &perm.Privileges, &perm.Securable)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user %s not found: %w", userID, types.ErrNotFound)
		}
		return nil, fmt.Errorf("database error fetching permission: %w", err)
	}
	return &perm, nil
}

func (r *PostgresPermissionsRepo) UpdatePermission(ctx context.Context, userID uuid.UUID, params types.UpdatePermissionParams) error {
	var setClauses []string
	var args []interface{}
	argID := 1

	addClause := func(column string, value interface{}) {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, argID))
		args = append(args, value)
		argID++
	}

	if params.Permission != nil {
		addClause("permission", *params.Permission)
	}
	if params.Privileges != nil {
		addClause("privileges", *params.Privileges)
	}
	if params.Securable != nil {
		addClause("securable", *params.Securable)
	}

	if len(setClauses) == 0 {
		// An empty update is a no-op, but the target must still exist.
		var exists bool
		if err := r.pgpool.QueryRow(ctx,
			"SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)", userID).Scan(&exists); err != nil {
			return fmt.Errorf("database error checking user existence: %w", err)
		}
		if !exists {
			return fmt.Errorf("user %s not found: %w", userID, types.ErrNotFound)
		}
		return nil
	}

	setClauses = append(setClauses, "updated_at = now()")
	query := fmt.Sprintf("UPDATE users SET %s WHERE id = $%d",
		strings.Join(setClauses, ", "), argID)
	args = append(args, userID)

	tag, err := r.pgpool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("database error updating permission: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user %s not found: %w", userID, types.ErrNotFound)
	}
	return nil
}
