package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

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

var _ UserRepo = (*PostgresUserRepo)(nil)

// UserRepo defines the contract for user data persistence.
type UserRepo interface {
	// Insert persists a new user record and returns the store-assigned id.
	// Returns types.ErrConflict if the email is already registered.
	Insert(ctx context.Context, rec InsertUserRecord) (uuid.UUID, error)

	// GetAll retrieves the default projection of every user record.
	GetAll(ctx context.Context) ([]types.UserProfile, error)

	// GetUserByID retrieves a user's default projection by id.
	// Returns types.ErrNotFound if the user doesn't exist.
	GetUserByID(ctx context.Context, userID uuid.UUID) (*types.UserProfile, error)

	// EmailExists reports whether a record with exactly this stored email
	// value exists (case-sensitive equality).
	EmailExists(ctx context.Context, email string) (bool, error)

	// UpdateUser applies a partial update. Only non-nil fields are written.
	// Returns types.ErrNotFound if the user doesn't exist.
	UpdateUser(ctx context.Context, userID uuid.UUID, rec UpdateUserRecord) error

	// DeleteUser removes the record irrevocably.
	// Returns types.ErrNotFound if the user doesn't exist.
	DeleteUser(ctx context.Context, userID uuid.UUID) error

	// SearchUsers compiles the typed filter set into a store query.
	// String filters are case-insensitive substring matches; status and
	// timestamps are exact matches.
	SearchUsers(ctx context.Context, filter types.SearchUsersFilter) ([]types.UserProfile, error)

	// SearchAllUsers matches one term against email, title, firstname,
	// lastname and role (logical OR).
	SearchAllUsers(ctx context.Context, term string) ([]types.UserProfile, error)

	// DeactivateUser transitions active -> deactivated.
	// Returns types.ErrConflict if already deactivated, types.ErrNotFound
	// if the user doesn't exist.
	DeactivateUser(ctx context.Context, userID uuid.UUID) error

	// ReactivateUser transitions deactivated -> active.
	// Returns types.ErrConflict if already active, types.ErrNotFound if
	// the user doesn't exist.
	ReactivateUser(ctx context.Context, userID uuid.UUID) error
}

// selectUserColumns is the default projection. password_hash is deliberately
// absent; only the auth repository reads it.
const selectUserColumns = `
	id, email, title, firstname, lastname, role, profile_pic,
	theme, notifications, language, status,
	permission, privileges, securable,
	last_login_at, created_at, updated_at`

// pgxQuerier is the subset of pgxpool.Pool this repository needs.
type pgxQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PostgresUserRepo struct {
	logger *slog.Logger
	pgpool pgxQuerier
}

func NewPostgresUserRepo(pgxpool *pgxpool.Pool, logger *slog.Logger) *PostgresUserRepo {
	return &PostgresUserRepo{
		logger: logger,
		pgpool: pgxpool,
	}
}

func scanUserProfile(row pgx.Row) (*types.UserProfile, error) {
	var u types.UserProfile
	err := row.Scan(
		&u.ID, &u.Email, &u.Title, &u.FirstName, &u.LastName, &u.Role, &u.ProfilePic,
		&u.Theme, &u.Notifications, &u.Language, &u.Status,
		&u.Permission, &u.Privileges, &u.Securable,
		&u.LastLoginAt, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *PostgresUserRepo) collectProfiles(rows pgx.Rows) ([]types.UserProfile, error) {
	defer rows.Close()
	var users []types.UserProfile
	for rows.Next() {
		u, err := scanUserProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("database error scanning user: %w", err)
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("database error reading users: %w", err)
	}
	return users, nil
}

func (r *PostgresUserRepo) Insert(ctx context.Context, rec InsertUserRecord) (uuid.UUID, error) {
	ctx, span := otel.Tracer("UserRepo").Start(ctx, "Insert", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "INSERT"),
		attribute.String("db.sql.table", "users"),
	))
	defer span.End()

	l := r.logger.With(slog.String("method", "Insert"))

	query := `
		INSERT INTO users (email, password_hash, title, firstname, lastname, role, profile_pic,
		                   theme, notifications, language, permission, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, now(), now())
		RETURNING id`

	var id uuid.UUID
	err := r.pgpool.QueryRow(ctx, query,
		rec.Email, rec.PasswordHash, rec.Title, rec.FirstName, rec.LastName, rec.Role, rec.ProfilePic,
		rec.Theme, rec.Notifications, rec.Language, rec.Permission,
	).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			span.SetStatus(codes.Error, "Duplicate email")
			return uuid.Nil, fmt.Errorf("email %q is already registered: %w", rec.Email, types.ErrConflict)
		}
		l.ErrorContext(ctx, "Failed to insert user", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB INSERT failed")
		return uuid.Nil, fmt.Errorf("database error inserting user: %w", err)
	}

	span.SetStatus(codes.Ok, "User inserted")
	return id, nil
}

func (r *PostgresUserRepo) GetAll(ctx context.Context) ([]types.UserProfile, error) {
	query := `SELECT` + selectUserColumns + ` FROM users ORDER BY created_at`

	rows, err := r.pgpool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("database error fetching users: %w", err)
	}
	return r.collectProfiles(rows)
}

func (r *PostgresUserRepo) GetUserByID(ctx context.Context, userID uuid.UUID) (*types.UserProfile, error) {
	query := `SELECT` + selectUserColumns + ` FROM users WHERE id = $1`

	u, err := scanUserProfile(r.pgpool.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user %s not found: %w", userID, types.ErrNotFound)
		}
		return nil, fmt.Errorf("database error fetching user: %w", err)
	}
	return u, nil
}

func (r *PostgresUserRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.pgpool.QueryRow(ctx,
		"SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)", email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("database error checking email: %w", err)
	}
	return exists, nil
}

func (r *PostgresUserRepo) userExists(ctx context.Context, userID uuid.UUID) (bool, error) {
	var exists bool
	err := r.pgpool.QueryRow(ctx,
		"SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)", userID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("database error checking user existence: %w", err)
	}
	return exists, nil
}

func (r *PostgresUserRepo) UpdateUser(ctx context.Context, userID uuid.UUID, rec UpdateUserRecord) error {
	ctx, span := otel.Tracer("UserRepo").Start(ctx, "UpdateUser", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "UPDATE"),
		attribute.String("db.sql.table", "users"),
		attribute.String("db.user.id", userID.String()),
	))
	defer span.End()

	l := r.logger.With(slog.String("method", "UpdateUser"), slog.String("userID", userID.String()))

	var setClauses []string
	var args []interface{}
	argID := 1

	if rec.Title != nil {
		setClauses = append(setClauses, fmt.Sprintf("title = $%d", argID))
		args = append(args, *rec.Title)
		argID++
	}
	if rec.FirstName != nil {
		setClauses = append(setClauses, fmt.Sprintf("firstname = $%d", argID))
		args = append(args, *rec.FirstName)
		argID++
	}
	if rec.LastName != nil {
		setClauses = append(setClauses, fmt.Sprintf("lastname = $%d", argID))
		args = append(args, *rec.LastName)
		argID++
	}
	if rec.Email != nil {
		setClauses = append(setClauses, fmt.Sprintf("email = $%d", argID))
		args = append(args, *rec.Email)
		argID++
	}
	if rec.Role != nil {
		setClauses = append(setClauses, fmt.Sprintf("role = $%d", argID))
		args = append(args, *rec.Role)
		argID++
	}
	if rec.PasswordHash != nil {
		setClauses = append(setClauses, fmt.Sprintf("password_hash = $%d", argID))
		args = append(args, *rec.PasswordHash)
		argID++
	}
	if rec.ProfilePic != nil {
		setClauses = append(setClauses, fmt.Sprintf("profile_pic = $%d", argID))
		args = append(args, *rec.ProfilePic)
		argID++
	}

	if len(setClauses) == 0 {
		// An empty update is a no-op, but the target must still exist.
		l.WarnContext(ctx, "UpdateUser called with no fields to update")
		exists, err := r.userExists(ctx, userID)
		if err != nil {
			span.RecordError(err)
			return err
		}
		if !exists {
			span.SetStatus(codes.Error, "User not found")
			return fmt.Errorf("user %s not found for update: %w", userID, types.ErrNotFound)
		}
		span.SetStatus(codes.Ok, "No update fields provided")
		return nil
	}

	setClauses = append(setClauses, fmt.Sprintf("updated_at = $%d", argID))
	args = append(args, time.Now())
	argID++

	args = append(args, userID)
	query := fmt.Sprintf("UPDATE users SET %s WHERE id = $%d",
		strings.Join(setClauses, ", "), argID)

	tag, err := r.pgpool.Exec(ctx, query, args...)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			span.SetStatus(codes.Error, "Duplicate email")
			return fmt.Errorf("email is already registered: %w", types.ErrConflict)
		}
		l.ErrorContext(ctx, "Failed to execute update query", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB UPDATE failed")
		return fmt.Errorf("database error updating user: %w", err)
	}

	if tag.RowsAffected() == 0 {
		span.SetStatus(codes.Error, "User not found")
		return fmt.Errorf("user %s not found for update: %w", userID, types.ErrNotFound)
	}

	span.SetStatus(codes.Ok, "User updated")
	return nil
}

func (r *PostgresUserRepo) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	l := r.logger.With(slog.String("method", "DeleteUser"), slog.String("userID", userID.String()))

	tag, err := r.pgpool.Exec(ctx, "DELETE FROM users WHERE id = $1", userID)
	if err != nil {
		l.ErrorContext(ctx, "Failed to delete user", slog.Any("error", err))
		return fmt.Errorf("database error deleting user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user %s not found for delete: %w", userID, types.ErrNotFound)
	}

	l.InfoContext(ctx, "User deleted")
	return nil
}

func (r *PostgresUserRepo) SearchUsers(ctx context.Context, filter types.SearchUsersFilter) ([]types.UserProfile, error) {
	ctx, span := otel.Tracer("UserRepo").Start(ctx, "SearchUsers", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.sql.table", "users"),
	))
	defer span.End()

	l := r.logger.With(slog.String("method", "SearchUsers"))

	var whereClauses []string
	var args []interface{}
	argID := 1

	like := func(column, value string) {
		whereClauses = append(whereClauses, fmt.Sprintf("%s ILIKE $%d", column, argID))
		args = append(args, "%"+value+"%")
		argID++
	}

	if filter.Email != "" {
		like("email", filter.Email)
	}
	if filter.Title != "" {
		like("title", filter.Title)
	}
	if filter.FullName != "" {
		// fullName supersedes the discrete name filters
		like("firstname || ' ' || lastname", filter.FullName)
	} else {
		if filter.FirstName != "" {
			like("firstname", filter.FirstName)
		}
		if filter.LastName != "" {
			like("lastname", filter.LastName)
		}
	}
	if filter.Role != "" {
		like("role::text", filter.Role)
	}
	if filter.Status != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("status = $%d", argID))
		args = append(args, filter.Status)
		argID++
	}
	// Timestamp filters keep the original exact-equality semantics.
	if filter.CreatedAt != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("created_at = $%d", argID))
		args = append(args, *filter.CreatedAt)
		argID++
	}
	if filter.LastLoginAt != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("last_login_at = $%d", argID))
		args = append(args, *filter.LastLoginAt)
		argID++
	}

	query := `SELECT` + selectUserColumns + ` FROM users WHERE ` +
		strings.Join(whereClauses, " AND ") + ` ORDER BY created_at`

	rows, err := r.pgpool.Query(ctx, query, args...)
	if err != nil {
		l.ErrorContext(ctx, "Failed to search users", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB query failed")
		return nil, fmt.Errorf("database error searching users: %w", err)
	}

	users, err := r.collectProfiles(rows)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetStatus(codes.Ok, "Search completed")
	return users, nil
}

func (r *PostgresUserRepo) SearchAllUsers(ctx context.Context, term string) ([]types.UserProfile, error) {
	l := r.logger.With(slog.String("method", "SearchAllUsers"))

	query := `SELECT` + selectUserColumns + `
		FROM users
		WHERE email ILIKE $1 OR title ILIKE $1 OR firstname ILIKE $1
		   OR lastname ILIKE $1 OR role::text ILIKE $1
		ORDER BY created_at`

	rows, err := r.pgpool.Query(ctx, query, "%"+term+"%")
	if err != nil {
		l.ErrorContext(ctx, "Failed to free-text search users", slog.Any("error", err))
		return nil, fmt.Errorf("database error searching users: %w", err)
	}
	return r.collectProfiles(rows)
}

// setStatus performs a guarded status transition. The conditional UPDATE
// keeps the check and the write in one statement; a zero row count is then
// disambiguated into not-found vs redundant-transition.
func (r *PostgresUserRepo) setStatus(ctx context.Context, userID uuid.UUID, from, to types.AccountStatus) error {
	ctx, span := otel.Tracer("UserRepo").Start(ctx, "SetStatus", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "UPDATE"),
		attribute.String("db.sql.table", "users"),
		attribute.String("db.user.id", userID.String()),
		attribute.String("user.status.to", string(to)),
	))
	defer span.End()

	l := r.logger.With(slog.String("method", "SetStatus"),
		slog.String("userID", userID.String()), slog.String("to", string(to)))

	tag, err := r.pgpool.Exec(ctx,
		"UPDATE users SET status = $1, updated_at = $2 WHERE id = $3 AND status = $4",
		to, time.Now(), userID, from)
	if err != nil {
		l.ErrorContext(ctx, "Failed to update status", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB UPDATE failed")
		return fmt.Errorf("database error updating status: %w", err)
	}

	if tag.RowsAffected() == 0 {
		exists, checkErr := r.userExists(ctx, userID)
		if checkErr != nil {
			span.RecordError(checkErr)
			return checkErr
		}
		if !exists {
			span.SetStatus(codes.Error, "User not found")
			return fmt.Errorf("user %s not found: %w", userID, types.ErrNotFound)
		}
		span.SetStatus(codes.Error, "Redundant status transition")
		return fmt.Errorf("user %s is already %s: %w", userID, to, types.ErrConflict)
	}

	l.InfoContext(ctx, "User status updated")
	span.SetStatus(codes.Ok, "Status updated")
	return nil
}

func (r *PostgresUserRepo) DeactivateUser(ctx context.Context, userID uuid.UUID) error {
	return r.setStatus(ctx, userID, types.StatusActive, types.StatusDeactivated)
}

func (r *PostgresUserRepo) ReactivateUser(ctx context.Context, userID uuid.UUID) error {
	return r.setStatus(ctx, userID, types.StatusDeactivated, types.StatusActive)
}
