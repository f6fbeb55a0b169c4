package container

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	database "github.com/dcorreia/accounthub/app/db"
	"github.com/dcorreia/accounthub/config"
	"github.com/dcorreia/accounthub/internal/api/activity"
	"github.com/dcorreia/accounthub/internal/api/auth"
	"github.com/dcorreia/accounthub/internal/api/permissions"
	"github.com/dcorreia/accounthub/internal/api/user"
	userSettings "github.com/dcorreia/accounthub/internal/api/user_settings"
)

// Container holds all application dependencies
type Container struct {
	Config             *config.Config
	Logger             *slog.Logger
	Pool               *pgxpool.Pool
	AuthHandler        *auth.AuthHandler
	UserHandler        *user.HandlerImpl
	SettingsHandler    *userSettings.UserSettingsHandler
	PermissionsHandler *permissions.PermissionsHandler
	ActivityHandler    *activity.ActivityHandler
}

// NewContainer initializes and returns a new dependency container
func NewContainer(cfg *config.Config, logger *slog.Logger) (*Container, error) {
	dbConfig, err := database.NewDatabaseConfig(cfg, logger)
	if err != nil {
		logger.Error("Failed to generate database config", slog.Any("error", err))
		return nil, err
	}

	pool, err := database.Init(dbConfig.ConnectionURL, logger)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.Any("error", err))
		return nil, err
	}

	activityRepo := activity.NewPostgresActivityRepo(pool, logger)
	activityService := activity.NewActivityService(activityRepo, logger)
	activityHandler := activity.NewActivityHandler(activityService, logger)

	authRepo := auth.NewPostgresAuthRepo(pool, logger)
	authService := auth.NewAuthService(authRepo, activityService, cfg.JWT, logger)
	authHandler := auth.NewAuthHandler(authService, logger)

	userRepo := user.NewPostgresUserRepo(pool, logger)
	userService := user.NewUserService(userRepo, logger)
	userHandler := user.NewHandlerImpl(userService, logger)

	userSettingsRepo := userSettings.NewPostgresUserSettingsRepo(pool, logger)
	userSettingsService := userSettings.NewUserSettingsService(userSettingsRepo, logger)
	userSettingsHandler := userSettings.NewUserSettingsHandler(userSettingsService, logger)

	permissionsRepo := permissions.NewPostgresPermissionsRepo(pool, logger)
	permissionsService := permissions.NewPermissionsService(permissionsRepo, logger)
	permissionsHandler := permissions.NewPermissionsHandler(permissionsService, logger)

	return &Container{
		Config:             cfg,
		Logger:             logger,
		Pool:               pool,
		AuthHandler:        authHandler,
		UserHandler:        userHandler,
		SettingsHandler:    userSettingsHandler,
		PermissionsHandler: permissionsHandler,
		ActivityHandler:    activityHandler,
	}, nil
}

// Close releases all resources held by the container
func (c *Container) Close() {
	if c.Pool != nil {
		c.Pool.Close()
	}
}

// WaitForDB waits for the database to be ready
func (c *Container) WaitForDB(ctx context.Context) bool {
	return database.WaitForDB(ctx, c.Pool, c.Logger)
}

// RunMigrations runs database migrations
func (c *Container) RunMigrations(connectionURL string) error {
	return database.RunMigrations(connectionURL, c.Logger)
}
