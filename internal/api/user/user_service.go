package user

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"golang.org/x/crypto/bcrypt"

	"github.com/dcorreia/accounthub/internal/types"
)

const (
	profileCacheTTL = 5 * time.Minute

	// bcrypt.DefaultCost is 10, the moderate work factor this service
	// standardizes on.
	hashCost = bcrypt.DefaultCost
)

var _ UserService = (*UserServiceImpl)(nil)

// UserService defines the business logic contract for user operations.
type UserService interface {
	GetAll(ctx context.Context) ([]types.UserProfile, error)
	GetUser(ctx context.Context, userID uuid.UUID) (*types.UserProfile, error)
	CreateUser(ctx context.Context, params types.CreateUserParams) (uuid.UUID, error)
	UpdateUser(ctx context.Context, userID uuid.UUID, params types.UpdateUserParams) error
	DeleteUser(ctx context.Context, userID uuid.UUID) error
	SearchUsers(ctx context.Context, filter types.SearchUsersFilter) ([]types.UserProfile, error)
	SearchAllUsers(ctx context.Context, term string) ([]types.UserProfile, error)
	DeactivateUser(ctx context.Context, userID uuid.UUID) error
	ReactivateUser(ctx context.Context, userID uuid.UUID) error
}

type UserServiceImpl struct {
	repo         UserRepo
	logger       *slog.Logger
	profileCache *cache.Cache
}

func NewUserService(repo UserRepo, logger *slog.Logger) *UserServiceImpl {
	return &UserServiceImpl{
		repo:         repo,
		logger:       logger,
		profileCache: cache.New(profileCacheTTL, 10*time.Minute),
	}
}

func profileCacheKey(userID uuid.UUID) string {
	return "user:" + userID.String()
}

func (s *UserServiceImpl) GetAll(ctx context.Context) ([]types.UserProfile, error) {
	return s.repo.GetAll(ctx)
}

func (s *UserServiceImpl) GetUser(ctx context.Context, userID uuid.UUID) (*types.UserProfile, error) {
	l := s.logger.With(slog.String("method", "GetUser"), slog.String("userID", userID.String()))

	if cached, found := s.profileCache.Get(profileCacheKey(userID)); found {
		l.DebugContext(ctx, "Profile cache hit")
		return cached.(*types.UserProfile), nil
	}

	profile, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	s.profileCache.Set(profileCacheKey(userID), profile, cache.DefaultExpiration)
	return profile, nil
}

func (s *UserServiceImpl) CreateUser(ctx context.Context, params types.CreateUserParams) (uuid.UUID, error) {
	l := s.logger.With(slog.String("method", "CreateUser"), slog.String("email", params.Email))

	// The request validator already checked these; re-check the record
	// invariants defensively.
	if params.Email == "" || params.Password == "" || params.Title == "" ||
		params.FirstName == "" || params.LastName == "" || params.ProfilePic == "" {
		return uuid.Nil, fmt.Errorf("missing required user fields: %w", types.ErrBadRequest)
	}
	if params.Role != types.RoleAdmin && params.Role != types.RoleUser {
		return uuid.Nil, fmt.Errorf("invalid role %q: %w", params.Role, types.ErrBadRequest)
	}

	email := strings.ToLower(params.Email)

	exists, err := s.repo.EmailExists(ctx, email)
	if err != nil {
		return uuid.Nil, err
	}
	if exists {
		return uuid.Nil, fmt.Errorf("email %q is already registered: %w", email, types.ErrConflict)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(params.Password), hashCost)
	if err != nil {
		l.ErrorContext(ctx, "Failed to hash password", slog.Any("error", err))
		return uuid.Nil, fmt.Errorf("failed to hash password: %w", err)
	}

	rec := InsertUserRecord{
		Email:         email,
		PasswordHash:  string(hashed),
		Title:         params.Title,
		FirstName:     params.FirstName,
		LastName:      params.LastName,
		Role:          params.Role,
		ProfilePic:    params.ProfilePic,
		Theme:         types.DefaultTheme,
		Notifications: true,
		Language:      types.DefaultLanguage,
		Permission:    types.DefaultPermission,
	}

	id, err := s.repo.Insert(ctx, rec)
	if err != nil {
		return uuid.Nil, err
	}

	l.InfoContext(ctx, "User created", slog.String("userID", id.String()))
	return id, nil
}

func (s *UserServiceImpl) UpdateUser(ctx context.Context, userID uuid.UUID, params types.UpdateUserParams) error {
	l := s.logger.With(slog.String("method", "UpdateUser"), slog.String("userID", userID.String()))

	rec := UpdateUserRecord{
		Title:      params.Title,
		FirstName:  params.FirstName,
		LastName:   params.LastName,
		ProfilePic: params.ProfilePic,
	}

	if params.Email != nil {
		email := strings.ToLower(*params.Email)
		rec.Email = &email
	}
	if params.Role != nil {
		if *params.Role != types.RoleAdmin && *params.Role != types.RoleUser {
			return fmt.Errorf("invalid role %q: %w", *params.Role, types.ErrBadRequest)
		}
		rec.Role = params.Role
	}
	if params.Password != nil {
		hashed, err := bcrypt.GenerateFromPassword([]byte(*params.Password), hashCost)
		if err != nil {
			l.ErrorContext(ctx, "Failed to hash password", slog.Any("error", err))
			return fmt.Errorf("failed to hash password: %w", err)
		}
		hash := string(hashed)
		rec.PasswordHash = &hash
	}

	if err := s.repo.UpdateUser(ctx, userID, rec); err != nil {
		return err
	}

	s.profileCache.Delete(profileCacheKey(userID))
	l.InfoContext(ctx, "User updated")
	return nil
}

func (s *UserServiceImpl) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	if err := s.repo.DeleteUser(ctx, userID); err != nil {
		return err
	}
	s.profileCache.Delete(profileCacheKey(userID))
	return nil
}

func (s *UserServiceImpl) SearchUsers(ctx context.Context, filter types.SearchUsersFilter) ([]types.UserProfile, error) {
	if filter.IsZero() {
		return nil, fmt.Errorf("at least one search filter is required: %w", types.ErrBadRequest)
	}

	if filter.FullName != "" {
		// fullName is mutually exclusive with the discrete name filters
		filter.FirstName = ""
		filter.LastName = ""
	}

	users, err := s.repo.SearchUsers(ctx, filter)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, fmt.Errorf("no users matched the search criteria: %w", types.ErrNotFound)
	}
	return users, nil
}

func (s *UserServiceImpl) SearchAllUsers(ctx context.Context, term string) ([]types.UserProfile, error) {
	if term == "" {
		return nil, fmt.Errorf("search term is required: %w", types.ErrBadRequest)
	}

	users, err := s.repo.SearchAllUsers(ctx, term)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, fmt.Errorf("no users matched %q: %w", term, types.ErrNotFound)
	}
	return users, nil
}

func (s *UserServiceImpl) DeactivateUser(ctx context.Context, userID uuid.UUID) error {
	if err := s.repo.DeactivateUser(ctx, userID); err != nil {
		return err
	}
	s.profileCache.Delete(profileCacheKey(userID))
	return nil
}

func (s *UserServiceImpl) ReactivateUser(ctx context.Context, userID uuid.UUID) error {
	if err := s.repo.ReactivateUser(ctx, userID); err != nil {
		return err
	}
	s.profileCache.Delete(profileCacheKey(userID))
	return nil
}
