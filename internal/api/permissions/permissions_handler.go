package permissions

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dcorreia/accounthub/internal/api"
	"github.com/dcorreia/accounthub/internal/types"
)

type PermissionsHandler struct {
	permissionsService PermissionsService
	logger             *slog.Logger
}

func NewPermissionsHandler(permissionsService PermissionsService, logger *slog.Logger) *PermissionsHandler {
	return &PermissionsHandler{
		permissionsService: permissionsService,
		logger:             logger,
	}
}

// UpdatePermissionRequest is the expected JSON body for permission
// updates. All fields are optional.
type UpdatePermissionRequest struct {
	Permission *string `json:"permission,omitempty"`
	Privileges *string `json:"privileges,omitempty"`
	Securable  *string `json:"securable,omitempty"`
}

// GetPermission handles GET /users/{id}/permissions.
func (h *PermissionsHandler) GetPermission(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "GetPermission"))

	userID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid user ID format")
		return
	}

	perm, err := h.permissionsService.GetPermission(ctx, userID)
	if err != nil {
		l.ErrorContext(ctx, "Failed to get permission", slog.Any("error", err))
		if errors.Is(err, types.ErrNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, "User not found")
		} else {
			api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to retrieve permission")
		}
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, perm)
}

// UpdatePermission handles PUT /users/{id}/permissions.
func (h *PermissionsHandler) UpdatePermission(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "UpdatePermission"))

	userID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid user ID format")
		return
	}

	var req UpdatePermissionRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Failed to decode request", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	params := types.UpdatePermissionParams{
		Permission: req.Permission,
		Privileges: req.Privileges,
		Securable:  req.Securable,
	}

	if err := h.permissionsService.UpdatePermission(ctx, userID, params); err != nil {
		l.ErrorContext(ctx, "Failed to update permission", slog.Any("error", err))
		api.ErrorResponse(w, r, api.MapErrorStatus(err), "Failed to update permission")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, types.Response{
		Success: true,
		Message: "Permission updated",
	})
}
