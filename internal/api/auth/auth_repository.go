package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dcorreia/accounthub/internal/types"
)

var _ AuthRepo = (*PostgresAuthRepo)(nil)

// AuthRepo is the credential-side data access contract. It is the only
// place the password hash ever leaves the database.
type AuthRepo interface {
	GetUserByEmail(ctx context.Context, email string) (*types.UserAuth, error)
	GetCredentialsByID(ctx context.Context, userID uuid.UUID) (*types.UserAuth, error)
	GetProfileByID(ctx context.Context, userID uuid.UUID) (*types.UserProfile, error)
	UpdateLastLogin(ctx context.Context, userID uuid.UUID, at time.Time) error
	UpdatePassword(ctx context.Context, userID uuid.UUID, newHashedPassword string) error
}

// pgxQuerier is the subset of pgxpool.Pool this repository needs.
type pgxQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PostgresAuthRepo struct {
	logger *slog.Logger
	pgpool pgxQuerier
}

func NewPostgresAuthRepo(pgxpool *pgxpool.Pool, logger *slog.Logger) *PostgresAuthRepo {
	return &PostgresAuthRepo{
		logger: logger,
		pgpool: pgxpool,
	}
}

const selectCredentialColumns = `id, email, firstname, password_hash, status`

func (r *PostgresAuthRepo) scanCredential(row pgx.Row) (*types.UserAuth, error) {
	var u types.UserAuth
	err := row.Scan(&u.ID, &u.Email, &u.FirstName, &u.PasswordHash, &u.Status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user not found: %w", types.ErrNotFound)
		}
		return nil, fmt.Errorf("database error fetching credentials: %w", err)
	}
	return &u, nil
}

// GetUserByEmail fetches the credential projection by email. Email
// matching is case-insensitive.
func (r *PostgresAuthRepo) GetUserByEmail(ctx context.Context, email string) (*types.UserAuth, error) {
	row := r.pgpool.QueryRow(ctx,
		`SELECT `+selectCredentialColumns+` FROM users WHERE lower(email) = lower($1)`,
		email)
	return r.scanCredential(row)
}

func (r *PostgresAuthRepo) GetCredentialsByID(ctx context.Context, userID uuid.UUID) (*types.UserAuth, error) {
	row := r.pgpool.QueryRow(ctx,
		`SELECT `+selectCredentialColumns+` FROM users WHERE id = $1`,
		userID)
	return r.scanCredential(row)
}

// GetProfileByID fetches the default projection for the login response.
func (r *PostgresAuthRepo) GetProfileByID(ctx context.Context, userID uuid.UUID) (*types.UserProfile, error) {
	var u types.UserProfile
	err := r.pgpool.QueryRow(ctx, `
        SELECT id, email, title, firstname, lastname, role, profile_pic,
               theme, notifications, language, status, permission,
               privileges, securable, last_login_at, created_at, updated_at
        FROM users WHERE id = $1`, userID).Scan(
		&u.ID, &u.Email, &u.Title, &u.FirstName, &u.LastName, &u.Role, &u.ProfilePic,
		&u.Theme, &u.Notifications, &u.Language, &u.Status, &u.Permission,
		&u.Privileges, &u.Securable, &u.LastLoginAt, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user not found: %w", types.ErrNotFound)
		}
		return nil, fmt.Errorf("database error fetching user profile: %w", err)
	}
	return &u, nil
}

func (r *PostgresAuthRepo) UpdateLastLogin(ctx context.Context, userID uuid.UUID, at time.Time) error {
	tag, err := r.pgpool.Exec(ctx,
		`UPDATE users SET last_login_at = $1, updated_at = now() WHERE id = $2`,
		at, userID)
	if err != nil {
		return fmt.Errorf("database error updating last login: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user %s not found: %w", userID, types.ErrNotFound)
	}
	return nil
}

func (r *PostgresAuthRepo) UpdatePassword(ctx context.Context, userID uuid.UUID, newHashedPassword string) error {
	l := r.logger.With(slog.String("method", "UpdatePassword"), slog.String("userID", userID.String()))

	tag, err := r.pgpool.Exec(ctx,
		`UPDATE users SET password_hash = $1, updated_at = now() WHERE id = $2`,
		newHashedPassword, userID)
	if err != nil {
		l.ErrorContext(ctx, "Failed to update password hash", slog.Any("error", err))
		return fmt.Errorf("database error updating password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user %s not found: %w", userID, types.ErrNotFound)
	}

	l.InfoContext(ctx, "Password hash updated")
	return nil
}
