package userSettings

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dcorreia/accounthub/internal/api"
	"github.com/dcorreia/accounthub/internal/types"
)

type UserSettingsHandler struct {
	settingsService UserSettingsService
	logger          *slog.Logger
}

func NewUserSettingsHandler(settingsService UserSettingsService, logger *slog.Logger) *UserSettingsHandler {
	return &UserSettingsHandler{
		settingsService: settingsService,
		logger:          logger,
	}
}

// GetPreferences handles GET /users/{id}/preferences.
func (h *UserSettingsHandler) GetPreferences(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "GetPreferences"))

	userID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid user ID format")
		return
	}

	prefs, err := h.settingsService.GetPreferences(ctx, userID)
	if err != nil {
		l.ErrorContext(ctx, "Failed to get preferences", slog.Any("error", err))
		if errors.Is(err, types.ErrNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, "User not found")
		} else {
			api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to retrieve preferences")
		}
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, prefs)
}

// UpdatePreferences handles PUT /users/{id}/preferences.
func (h *UserSettingsHandler) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "UpdatePreferences"))

	userID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid user ID format")
		return
	}

	var req UpdatePreferencesRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Failed to decode request", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := req.Validate(); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, fmt.Sprintf("Invalid input: %s", err.Error()))
		return
	}

	params := types.UpdatePreferencesParams{
		Notifications: req.Notifications,
	}
	if req.Theme != nil {
		theme := types.Theme(*req.Theme)
		params.Theme = &theme
	}
	if req.Language != nil {
		lang := types.Language(*req.Language)
		params.Language = &lang
	}

	if err := h.settingsService.UpdatePreferences(ctx, userID, params); err != nil {
		l.ErrorContext(ctx, "Failed to update preferences", slog.Any("error", err))
		api.ErrorResponse(w, r, api.MapErrorStatus(err), "Failed to update preferences")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, types.Response{
		Success: true,
		Message: "Preferences updated",
	})
}
