package user

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dcorreia/accounthub/app/observability/metrics"
	"github.com/dcorreia/accounthub/internal/types"
)

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) GetAll(ctx context.Context) ([]types.UserProfile, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.UserProfile), args.Error(1)
}

func (m *MockUserService) GetUser(ctx context.Context, userID uuid.UUID) (*types.UserProfile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.UserProfile), args.Error(1)
}

func (m *MockUserService) CreateUser(ctx context.Context, params types.CreateUserParams) (uuid.UUID, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockUserService) UpdateUser(ctx context.Context, userID uuid.UUID, params types.UpdateUserParams) error {
	args := m.Called(ctx, userID, params)
	return args.Error(0)
}

func (m *MockUserService) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockUserService) SearchUsers(ctx context.Context, filter types.SearchUsersFilter) ([]types.UserProfile, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.UserProfile), args.Error(1)
}

func (m *MockUserService) SearchAllUsers(ctx context.Context, term string) ([]types.UserProfile, error) {
	args := m.Called(ctx, term)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.UserProfile), args.Error(1)
}

func (m *MockUserService) DeactivateUser(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockUserService) ReactivateUser(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func newTestRouter(svc UserService) chi.Router {
	metrics.InitAppMetrics()
	h := NewHandlerImpl(svc, slog.New(slog.DiscardHandler))

	r := chi.NewRouter()
	r.Get("/users", h.GetAll)
	r.Post("/users", h.Create)
	r.Get("/users/search", h.Search)
	r.Get("/users/searchAll", h.SearchAll)
	r.Get("/users/{id}", h.GetByID)
	r.Put("/users/{id}", h.Update)
	r.Delete("/users/{id}", h.Delete)
	r.Put("/users/{id}/deactivate", h.Deactivate)
	return r
}

func TestCreateHandler_Success(t *testing.T) {
	svc := new(MockUserService)
	router := newTestRouter(svc)

	svc.On("CreateUser", mock.Anything, mock.MatchedBy(func(p types.CreateUserParams) bool {
		return p.Email == "jane@example.com" && p.Role == types.RoleUser
	})).Return(uuid.New(), nil)

	body := map[string]string{
		"title":            "Dr",
		"firstname":        "Jane",
		"lastname":         "Doe",
		"role":             "User",
		"email":            "jane@example.com",
		"password":         "password123",
		"confirm_password": "password123",
		"profile_pic":      "https://cdn.example.com/jane.png",
	}
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/users", bytes.NewReader(raw))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	svc.AssertExpectations(t)
}

func TestCreateHandler_PasswordMismatch(t *testing.T) {
	svc := new(MockUserService)
	router := newTestRouter(svc)

	body := map[string]string{
		"title":            "Dr",
		"firstname":        "Jane",
		"lastname":         "Doe",
		"role":             "User",
		"email":            "jane@example.com",
		"password":         "password123",
		"confirm_password": "different",
		"profile_pic":      "https://cdn.example.com/jane.png",
	}
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/users", bytes.NewReader(raw))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
}

func TestCreateHandler_DuplicateEmail(t *testing.T) {
	svc := new(MockUserService)
	router := newTestRouter(svc)

	svc.On("CreateUser", mock.Anything, mock.Anything).Return(uuid.Nil, types.ErrConflict)

	body := map[string]string{
		"title":            "Dr",
		"firstname":        "Jane",
		"lastname":         "Doe",
		"role":             "User",
		"email":            "jane@example.com",
		"password":         "password123",
		"confirm_password": "password123",
		"profile_pic":      "https://cdn.example.com/jane.png",
	}
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/users", bytes.NewReader(raw))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestGetByIDHandler_InvalidID(t *testing.T) {
	svc := new(MockUserService)
	router := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/users/not-a-uuid", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNotCalled(t, "GetUser", mock.Anything, mock.Anything)
}

func TestGetByIDHandler_NotFound(t *testing.T) {
	svc := new(MockUserService)
	router := newTestRouter(svc)

	userID := uuid.New()
	svc.On("GetUser", mock.Anything, userID).Return(nil, types.ErrNotFound)

	req := httptest.NewRequest(http.MethodGet, "/users/"+userID.String(), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSearchHandler_ParsesFilter(t *testing.T) {
	svc := new(MockUserService)
	router := newTestRouter(svc)

	svc.On("SearchUsers", mock.Anything, mock.MatchedBy(func(f types.SearchUsersFilter) bool {
		return f.FullName == "Jane Doe" && f.Status == "active"
	})).Return([]types.UserProfile{{ID: uuid.New()}}, nil)

	req := httptest.NewRequest(http.MethodGet, "/users/search?fullName=Jane+Doe&status=active", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}

func TestSearchHandler_InvalidTimestamp(t *testing.T) {
	svc := new(MockUserService)
	router := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/users/search?createdAt=yesterday", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNotCalled(t, "SearchUsers", mock.Anything, mock.Anything)
}

func TestSearchAllHandler_EmptyTerm(t *testing.T) {
	svc := new(MockUserService)
	router := newTestRouter(svc)

	svc.On("SearchAllUsers", mock.Anything, "").Return(nil, types.ErrBadRequest)

	req := httptest.NewRequest(http.MethodGet, "/users/searchAll", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeactivateHandler_AlreadyDeactivated(t *testing.T) {
	svc := new(MockUserService)
	router := newTestRouter(svc)

	userID := uuid.New()
	svc.On("DeactivateUser", mock.Anything, userID).Return(types.ErrConflict)

	req := httptest.NewRequest(http.MethodPut, "/users/"+userID.String()+"/deactivate", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
}
