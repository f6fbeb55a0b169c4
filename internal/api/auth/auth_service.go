package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/dcorreia/accounthub/app/observability/metrics"
	"github.com/dcorreia/accounthub/config"
	"github.com/dcorreia/accounthub/internal/types"
)

var _ AuthService = (*AuthServiceImpl)(nil)

// AuthService is the authentication business logic contract.
type AuthService interface {
	Login(ctx context.Context, email, password, sourceAddress, clientInfo string) (*LoginResponse, error)
	ChangePassword(ctx context.Context, userID uuid.UUID, currentPassword, newPassword string) error
}

// ActivityRecorder appends an action to a user's activity log. Satisfied
// by the activity service.
type ActivityRecorder interface {
	Record(ctx context.Context, userID uuid.UUID, action, sourceAddress, clientInfo string) error
}

type AuthServiceImpl struct {
	repo     AuthRepo
	activity ActivityRecorder
	logger   *slog.Logger
	jwtCfg   config.JWTConfig
}

func NewAuthService(repo AuthRepo, activity ActivityRecorder, jwtCfg config.JWTConfig, logger *slog.Logger) *AuthServiceImpl {
	return &AuthServiceImpl{
		repo:     repo,
		activity: activity,
		logger:   logger,
		jwtCfg:   jwtCfg,
	}
}

// Login verifies the credentials, stamps last_login_at, records the
// action in the activity log and mints a signed access token.
func (s *AuthServiceImpl) Login(ctx context.Context, email, password, sourceAddress, clientInfo string) (*LoginResponse, error) {
	l := s.logger.With(slog.String("method", "Login"), slog.String("email", email))
	metrics.Get().LoginRequestsTotal.Add(ctx, 1)

	if email == "" || password == "" {
		return nil, fmt.Errorf("email and password are required: %w", types.ErrBadRequest)
	}

	user, err := s.repo.GetUserByEmail(ctx, strings.ToLower(email))
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			metrics.Get().LoginFailuresTotal.Add(ctx, 1)
			l.WarnContext(ctx, "Login attempt for unknown email")
		}
		return nil, err
	}

	if user.Status == types.StatusDeactivated {
		metrics.Get().LoginFailuresTotal.Add(ctx, 1)
		l.WarnContext(ctx, "Login attempt on deactivated account", slog.String("userID", user.ID.String()))
		return nil, fmt.Errorf("account is deactivated: %w", types.ErrForbidden)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		metrics.Get().LoginFailuresTotal.Add(ctx, 1)
		l.WarnContext(ctx, "Login attempt with wrong password", slog.String("userID", user.ID.String()))
		return nil, fmt.Errorf("invalid credentials: %w", types.ErrUnauthenticated)
	}

	now := time.Now()
	if err := s.repo.UpdateLastLogin(ctx, user.ID, now); err != nil {
		return nil, fmt.Errorf("failed to record login time: %w", err)
	}

	if err := s.activity.Record(ctx, user.ID, "login", sourceAddress, clientInfo); err != nil {
		l.ErrorContext(ctx, "Failed to record login activity", slog.Any("error", err))
		return nil, fmt.Errorf("failed to record login activity: %w", err)
	}

	token, err := s.mintAccessToken(user, now)
	if err != nil {
		l.ErrorContext(ctx, "Failed to sign access token", slog.Any("error", err))
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}

	profile, err := s.repo.GetProfileByID(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	l.InfoContext(ctx, "Login succeeded", slog.String("userID", user.ID.String()))
	return &LoginResponse{AccessToken: token, User: profile}, nil
}

func (s *AuthServiceImpl) mintAccessToken(user *types.UserAuth, issuedAt time.Time) (string, error) {
	claims := jwt.MapClaims{
		"user_id":    user.ID.String(),
		"email":      user.Email,
		"first_name": user.FirstName,
		"iat":        issuedAt.Unix(),
		"exp":        issuedAt.Add(s.jwtCfg.AccessTokenTTL).Unix(),
	}
	if s.jwtCfg.Issuer != "" {
		claims["iss"] = s.jwtCfg.Issuer
	}
	if s.jwtCfg.Audience != "" {
		claims["aud"] = s.jwtCfg.Audience
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtCfg.SecretKey))
}

// ChangePassword verifies the current password before rehashing and
// persisting the new one.
func (s *AuthServiceImpl) ChangePassword(ctx context.Context, userID uuid.UUID, currentPassword, newPassword string) error {
	l := s.logger.With(slog.String("method", "ChangePassword"), slog.String("userID", userID.String()))

	if currentPassword == "" || newPassword == "" {
		return fmt.Errorf("current and new password are required: %w", types.ErrBadRequest)
	}

	user, err := s.repo.GetCredentialsByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)); err != nil {
		l.WarnContext(ctx, "Password change with wrong current password")
		return fmt.Errorf("current password is incorrect: %w", types.ErrUnauthenticated)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash new password: %w", err)
	}

	if err := s.repo.UpdatePassword(ctx, userID, string(hashed)); err != nil {
		return err
	}

	l.InfoContext(ctx, "Password changed")
	return nil
}
