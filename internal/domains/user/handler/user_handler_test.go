package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"book-inventory-backend/internal/domains/user"
	"book-inventory-backend/internal/shared/middleware"
	"book-inventory-backend/pkg/jwt"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) Register(ctx context.Context, req user.RegisterRequest) (*user.AuthResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*user.AuthResponse)
	return resp, args.Error(1)
}

func (m *mockService) Login(ctx context.Context, req user.LoginRequest) (*user.AuthResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*user.AuthResponse)
	return resp, args.Error(1)
}

func (m *mockService) GetProfile(ctx context.Context, userID uuid.UUID) (*user.UserDTO, error) {
	args := m.Called(ctx, userID)
	dto, _ := args.Get(0).(*user.UserDTO)
	return dto, args.Error(1)
}

func setup(t *testing.T) (*gin.Engine, *mockService, *jwt.Manager) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	manager, err := jwt.NewManager("handler-secret", time.Hour)
	require.NoError(t, err)

	svc := new(mockService)
	h := NewUserHandler(svc)
	r := gin.New()
	auth := r.Group("/auth")
	auth.POST("/register", h.Register)
	auth.POST("/login", h.Login)
	auth.GET("/me", middleware.AuthMiddleware(manager), h.GetProfile)
	return r, svc, manager
}

func postJSON(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRegister(t *testing.T) {
	r, svc, _ := setup(t)
	id := uuid.New()
	svc.On("Register", mock.Anything, user.RegisterRequest{Email: "ana@example.com", Password: "s3cretpass", Name: "Ana"}).
		Return(&user.AuthResponse{AccessToken: "tok", User: user.UserDTO{ID: id, Email: "ana@example.com"}}, nil)

	w := postJSON(r, "/auth/register", `{"email":"ana@example.com","password":"s3cretpass","name":"Ana"}`)

	require.Equal(t, http.StatusCreated, w.Code)
	var body struct {
		Data user.AuthResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "tok", body.Data.AccessToken)
	assert.Equal(t, id, body.Data.User.ID)
	svc.AssertExpectations(t)
}

func TestRegister_Errors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"duplicate", user.ErrEmailAlreadyExists, http.StatusConflict},
		{"validation", user.RegisterRequest{}.Validate(), http.StatusBadRequest},
		{"unexpected", assert.AnError, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, svc, _ := setup(t)
			svc.On("Register", mock.Anything, mock.Anything).Return(nil, tt.err)

			w := postJSON(r, "/auth/register", `{"email":"ana@example.com"}`)
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestLogin_BadBody(t *testing.T) {
	r, svc, _ := setup(t)

	w := postJSON(r, "/auth/login", `{not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "Login", mock.Anything, mock.Anything)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	r, svc, _ := setup(t)
	svc.On("Login", mock.Anything, mock.Anything).Return(nil, user.ErrInvalidCredentials)

	w := postJSON(r, "/auth/login", `{"email":"ana@example.com","password":"nope"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGetProfile(t *testing.T) {
	r, svc, manager := setup(t)
	id := uuid.New()
	token, err := manager.GenerateAccessToken(id.String(), "ana@example.com", "user")
	require.NoError(t, err)
	svc.On("GetProfile", mock.Anything, id).Return(&user.UserDTO{ID: id, Name: "Ana"}, nil)

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"name":"Ana"`)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/auth/me", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
