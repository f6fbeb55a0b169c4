package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/dcorreia/accounthub/internal/api/activity"
	"github.com/dcorreia/accounthub/internal/api/auth"
	"github.com/dcorreia/accounthub/internal/api/permissions"
	"github.com/dcorreia/accounthub/internal/api/user"
	userSettings "github.com/dcorreia/accounthub/internal/api/user_settings"
)

// Config contains the handlers and middleware needed for the router setup.
type Config struct {
	AuthHandler            *auth.AuthHandler
	UserHandler            *user.HandlerImpl
	SettingsHandler        *userSettings.UserSettingsHandler
	PermissionsHandler     *permissions.PermissionsHandler
	ActivityHandler        *activity.ActivityHandler
	AuthenticateMiddleware func(http.Handler) http.Handler
}

// SetupRouter initializes and configures the main application router.
// Server-wide middleware (logger, requestID, recoverer) are applied
// before mounting this router in main.go.
func SetupRouter(cfg *Config) chi.Router {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("pong"))
	})

	r.Route("/api/v1", func(r chi.Router) {
		// Public routes: account creation and login
		r.Group(func(r chi.Router) {
			r.Post("/users/login", cfg.AuthHandler.Login)
			r.Post("/users", cfg.UserHandler.Create)
		})

		// Protected routes require a valid access token
		r.Group(func(r chi.Router) {
			r.Use(cfg.AuthenticateMiddleware)

			r.Get("/users", cfg.UserHandler.GetAll)
			r.Get("/users/search", cfg.UserHandler.Search)
			r.Get("/users/searchAll", cfg.UserHandler.SearchAll)

			r.Route("/users/{id}", func(r chi.Router) {
				r.Get("/", cfg.UserHandler.GetByID)
				r.Put("/", cfg.UserHandler.Update)
				r.Delete("/", cfg.UserHandler.Delete)
				r.Put("/role", cfg.UserHandler.UpdateRole)
				r.Put("/deactivate", cfg.UserHandler.Deactivate)
				r.Put("/reactivate", cfg.UserHandler.Reactivate)
				r.Put("/password", cfg.AuthHandler.ChangePassword)

				r.Get("/preferences", cfg.SettingsHandler.GetPreferences)
				r.Put("/preferences", cfg.SettingsHandler.UpdatePreferences)

				r.Get("/permissions", cfg.PermissionsHandler.GetPermission)
				r.Put("/permissions", cfg.PermissionsHandler.UpdatePermission)

				r.Get("/activity", cfg.ActivityHandler.GetActivities)
				r.Post("/activity", cfg.ActivityHandler.Record)
			})
		})
	})

	return r
}
