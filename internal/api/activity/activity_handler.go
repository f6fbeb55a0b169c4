package activity

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/dcorreia/accounthub/internal/api"
	"github.com/dcorreia/accounthub/internal/types"
)

type ActivityHandler struct {
	activityService ActivityService
	logger          *slog.Logger
}

func NewActivityHandler(activityService ActivityService, logger *slog.Logger) *ActivityHandler {
	return &ActivityHandler{
		activityService: activityService,
		logger:          logger,
	}
}

// RecordActivityRequest is the expected JSON body for recording an action.
type RecordActivityRequest struct {
	Action        string `json:"action"`
	SourceAddress string `json:"source_address"`
	ClientInfo    string `json:"client_info"`
}

func (r RecordActivityRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Action, validation.Required),
	)
}

// Record handles POST /users/{id}/activity.
func (h *ActivityHandler) Record(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "Record"))

	userID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid user ID format")
		return
	}

	var req RecordActivityRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Failed to decode request", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := req.Validate(); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, fmt.Sprintf("Invalid input: %s", err.Error()))
		return
	}

	source := req.SourceAddress
	if source == "" {
		source = r.RemoteAddr
	}
	client := req.ClientInfo
	if client == "" {
		client = r.UserAgent()
	}

	if err := h.activityService.Record(ctx, userID, req.Action, source, client); err != nil {
		l.ErrorContext(ctx, "Failed to record activity", slog.Any("error", err))
		if errors.Is(err, types.ErrNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, "User not found")
		} else {
			api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to record activity")
		}
		return
	}

	api.WriteJSONResponse(w, r, http.StatusCreated, types.Response{
		Success: true,
		Message: "Activity recorded",
	})
}

// GetActivities handles GET /users/{id}/activity. Supports optional
// action, start and end query parameters (timestamps in RFC 3339).
func (h *ActivityHandler) GetActivities(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "GetActivities"))

	userID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid user ID format")
		return
	}

	q := r.URL.Query()
	filter := types.ActivityFilter{Action: q.Get("action")}
	if v := q.Get("start"); v != "" {
		ts, err := time.Parse(time.RFC3339, v)
		if err != nil {
			api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid start timestamp")
			return
		}
		filter.Start = &ts
	}
	if v := q.Get("end"); v != "" {
		ts, err := time.Parse(time.RFC3339, v)
		if err != nil {
			api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid end timestamp")
			return
		}
		filter.End = &ts
	}

	entries, err := h.activityService.Query(ctx, userID, filter)
	if err != nil {
		l.ErrorContext(ctx, "Failed to query activity log", slog.Any("error", err))
		if errors.Is(err, types.ErrNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, "User not found")
		} else {
			api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to query activity log")
		}
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, entries)
}
