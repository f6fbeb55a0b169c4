package user

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dcorreia/accounthub/app/observability/metrics"
	"github.com/dcorreia/accounthub/internal/api"
	"github.com/dcorreia/accounthub/internal/types"
)

var _ Handler = (*HandlerImpl)(nil)

type Handler interface {
	GetAll(w http.ResponseWriter, r *http.Request)
	GetByID(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	UpdateRole(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	Search(w http.ResponseWriter, r *http.Request)
	SearchAll(w http.ResponseWriter, r *http.Request)
	Deactivate(w http.ResponseWriter, r *http.Request)
	Reactivate(w http.ResponseWriter, r *http.Request)
}

type HandlerImpl struct {
	userService UserService
	logger      *slog.Logger
}

// NewHandlerImpl creates a new user HandlerImpl instance.
func NewHandlerImpl(userService UserService, logger *slog.Logger) *HandlerImpl {
	if logger == nil {
		panic("attempting to create user HandlerImpl with nil logger")
	}
	return &HandlerImpl{
		userService: userService,
		logger:      logger,
	}
}

// userIDParam parses the {id} URL parameter.
func userIDParam(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, "id"))
}

func (h *HandlerImpl) GetAll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "GetAll"))

	users, err := h.userService.GetAll(ctx)
	if err != nil {
		l.ErrorContext(ctx, "Failed to list users", slog.Any("error", err))
		api.ErrorResponse(w, r, api.MapErrorStatus(err), "Failed to list users")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, users)
}

func (h *HandlerImpl) GetByID(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "GetByID"))

	userID, err := userIDParam(r)
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid user ID format")
		return
	}

	profile, err := h.userService.GetUser(ctx, userID)
	if err != nil {
		l.ErrorContext(ctx, "Failed to get user", slog.Any("error", err))
		if errors.Is(err, types.ErrNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, "User not found")
		} else {
			api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to retrieve user")
		}
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, profile)
}

func (h *HandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "Create"))

	var req CreateUserRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Failed to decode request", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := req.Validate(); err != nil {
		l.WarnContext(ctx, "Create request failed validation", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, fmt.Sprintf("Invalid input: %s", err.Error()))
		return
	}

	params := types.CreateUserParams{
		Title:      req.Title,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Role:       types.Role(req.Role),
		Email:      req.Email,
		Password:   req.Password,
		ProfilePic: req.ProfilePic,
	}

	if _, err := h.userService.CreateUser(ctx, params); err != nil {
		l.ErrorContext(ctx, "Failed to create user", slog.Any("error", err))
		if errors.Is(err, types.ErrConflict) {
			api.ErrorResponse(w, r, http.StatusConflict, "Email is already registered")
		} else {
			api.ErrorResponse(w, r, api.MapErrorStatus(err), "Failed to create user")
		}
		return
	}

	metrics.Get().UsersCreatedTotal.Add(ctx, 1)
	api.WriteJSONResponse(w, r, http.StatusCreated, types.Response{
		Success: true,
		Message: "User created",
	})
}

func (h *HandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "Update"))

	userID, err := userIDParam(r)
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid user ID format")
		return
	}

	var req UpdateUserRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Failed to decode request", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := req.Validate(); err != nil {
		l.WarnContext(ctx, "Update request failed validation", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, fmt.Sprintf("Invalid input: %s", err.Error()))
		return
	}

	params := types.UpdateUserParams{
		Title:      req.Title,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Email:      req.Email,
		Password:   req.Password,
		ProfilePic: req.ProfilePic,
	}
	if req.Role != nil {
		role := types.Role(*req.Role)
		params.Role = &role
	}

	if err := h.userService.UpdateUser(ctx, userID, params); err != nil {
		l.ErrorContext(ctx, "Failed to update user", slog.Any("error", err))
		api.ErrorResponse(w, r, api.MapErrorStatus(err), "Failed to update user")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, types.Response{
		Success: true,
		Message: "User updated",
	})
}

func (h *HandlerImpl) UpdateRole(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "UpdateRole"))

	userID, err := userIDParam(r)
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid user ID format")
		return
	}

	var req UpdateRoleRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Failed to decode request", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := req.Validate(); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, fmt.Sprintf("Invalid input: %s", err.Error()))
		return
	}

	role := types.Role(req.Role)
	if err := h.userService.UpdateUser(ctx, userID, types.UpdateUserParams{Role: &role}); err != nil {
		l.ErrorContext(ctx, "Failed to update role", slog.Any("error", err))
		api.ErrorResponse(w, r, api.MapErrorStatus(err), "Failed to update role")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, types.Response{
		Success: true,
		Message: "Role updated",
	})
}

func (h *HandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "Delete"))

	userID, err := userIDParam(r)
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid user ID format")
		return
	}

	if err := h.userService.DeleteUser(ctx, userID); err != nil {
		l.ErrorContext(ctx, "Failed to delete user", slog.Any("error", err))
		if errors.Is(err, types.ErrNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, "User not found")
		} else {
			api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to delete user")
		}
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, types.Response{
		Success: true,
		Message: "User deleted",
	})
}

// parseSearchFilter builds the typed filter from query parameters.
// Timestamp params must be RFC 3339.
func parseSearchFilter(r *http.Request) (types.SearchUsersFilter, error) {
	q := r.URL.Query()
	filter := types.SearchUsersFilter{
		Email:     q.Get("email"),
		Title:     q.Get("title"),
		FirstName: q.Get("firstName"),
		LastName:  q.Get("lastName"),
		FullName:  q.Get("fullName"),
		Role:      q.Get("role"),
		Status:    q.Get("status"),
	}
	if v := q.Get("createdAt"); v != "" {
		ts, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return filter, fmt.Errorf("invalid createdAt timestamp: %w", err)
		}
		filter.CreatedAt = &ts
	}
	if v := q.Get("lastLoginAt"); v != "" {
		ts, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return filter, fmt.Errorf("invalid lastLoginAt timestamp: %w", err)
		}
		filter.LastLoginAt = &ts
	}
	return filter, nil
}

func (h *HandlerImpl) Search(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "Search"))

	filter, err := parseSearchFilter(r)
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	users, err := h.userService.SearchUsers(ctx, filter)
	if err != nil {
		l.WarnContext(ctx, "User search failed", slog.Any("error", err))
		switch {
		case errors.Is(err, types.ErrBadRequest):
			api.ErrorResponse(w, r, http.StatusBadRequest, "At least one search term is required")
		case errors.Is(err, types.ErrNotFound):
			api.ErrorResponse(w, r, http.StatusNotFound, "No users matched the search criteria")
		default:
			api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to search users")
		}
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, users)
}

func (h *HandlerImpl) SearchAll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "SearchAll"))

	users, err := h.userService.SearchAllUsers(ctx, r.URL.Query().Get("query"))
	if err != nil {
		l.WarnContext(ctx, "Free-text user search failed", slog.Any("error", err))
		switch {
		case errors.Is(err, types.ErrBadRequest):
			api.ErrorResponse(w, r, http.StatusBadRequest, "Search term is required")
		case errors.Is(err, types.ErrNotFound):
			api.ErrorResponse(w, r, http.StatusNotFound, "No users matched the search term")
		default:
			api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to search users")
		}
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, users)
}

func (h *HandlerImpl) Deactivate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "Deactivate"))

	userID, err := userIDParam(r)
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid user ID format")
		return
	}

	if err := h.userService.DeactivateUser(ctx, userID); err != nil {
		l.WarnContext(ctx, "Failed to deactivate user", slog.Any("error", err))
		if errors.Is(err, types.ErrConflict) {
			api.ErrorResponse(w, r, http.StatusConflict, "User is already deactivated")
		} else {
			api.ErrorResponse(w, r, api.MapErrorStatus(err), "Failed to deactivate user")
		}
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, types.Response{
		Success: true,
		Message: "User deactivated",
	})
}

func (h *HandlerImpl) Reactivate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "Reactivate"))

	userID, err := userIDParam(r)
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid user ID format")
		return
	}

	if err := h.userService.ReactivateUser(ctx, userID); err != nil {
		l.WarnContext(ctx, "Failed to reactivate user", slog.Any("error", err))
		if errors.Is(err, types.ErrConflict) {
			api.ErrorResponse(w, r, http.StatusConflict, "User is already active")
		} else {
			api.ErrorResponse(w, r, api.MapErrorStatus(err), "Failed to reactivate user")
		}
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, types.Response{
		Success: true,
		Message: "User reactivated",
	})
}
