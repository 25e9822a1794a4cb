package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-api-filestore/internal/domain"
	"github.com/go-api-filestore/internal/transport/http/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mock ---

type mockUserSvc struct{ mock.Mock }

func (m *mockUserSvc) Register(ctx context.Context, req domain.CreateUserRequest) error {
	return m.Called(ctx, req).Error(0)
}

func (m *mockUserSvc) Fetch(ctx context.Context, phone, tokenID string) (*domain.User, error) {
	args := m.Called(ctx, phone, tokenID)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserSvc) Update(ctx context.Context, phone string, req domain.UpdateUserRequest, tokenID string) error {
	return m.Called(ctx, phone, req, tokenID).Error(0)
}

func (m *mockUserSvc) Delete(ctx context.Context, phone, tokenID string) error {
	return m.Called(ctx, phone, tokenID).Error(0)
}

// --- helpers ---

func newUserRouter(svc *mockUserSvc) http.Handler {
	h := NewUserHandler(svc)
	r := chi.NewRouter()
	r.Use(middleware.BearerToken)
	r.Post("/users", h.Register)
	r.Get("/users/{phone}", h.Get)
	r.Put("/users/{phone}", h.Update)
	r.Delete("/users/{phone}", h.Delete)
	return r
}

func doJSON(t *testing.T, h http.Handler, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Token", token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// --- tests ---

func TestRegister_Created(t *testing.T) {
	svc := &mockUserSvc{}
	svc.On("Register", mock.Anything, mock.MatchedBy(func(r domain.CreateUserRequest) bool {
		return r.Phone == "5551234567" && r.TOSAgreement
	})).Return(nil)

	rec := doJSON(t, newUserRouter(svc), http.MethodPost, "/users", "", map[string]interface{}{
		"firstName": "Alice", "lastName": "Smith", "phone": "5551234567",
		"password": "hunter2", "tosAgreement": true,
	})

	assert.Equal(t, http.StatusCreated, rec.Code)
	svc.AssertExpectations(t)
}

func TestRegister_Conflict(t *testing.T) {
	svc := &mockUserSvc{}
	svc.On("Register", mock.Anything, mock.Anything).
		Return(fmt.Errorf("a user with phone 5551234567 already exists: %w", domain.ErrConflict))

	rec := doJSON(t, newUserRouter(svc), http.MethodPost, "/users", "", map[string]interface{}{
		"phone": "5551234567",
	})

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestRegister_MalformedBodyMapsToBadRequest(t *testing.T) {
	// A malformed body parses to an empty request; the service reports the
	// missing fields rather than the handler rejecting the body outright.
	svc := &mockUserSvc{}
	svc.On("Register", mock.Anything, domain.CreateUserRequest{}).
		Return(fmt.Errorf("field 'FirstName' is missing or invalid (required): %w", domain.ErrBadRequest))

	req := httptest.NewRequest(http.MethodPost, "/users", bytes.NewBufferString(`{"firstName":`))
	rec := httptest.NewRecorder()
	newUserRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGet_Forbidden(t *testing.T) {
	svc := &mockUserSvc{}
	svc.On("Fetch", mock.Anything, "5551234567", "forged").
		Return(nil, fmt.Errorf("missing or invalid token: %w", domain.ErrForbidden))

	rec := doJSON(t, newUserRouter(svc), http.MethodGet, "/users/5551234567", "forged", nil)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestGet_OKWithoutPasswordField(t *testing.T) {
	svc := &mockUserSvc{}
	svc.On("Fetch", mock.Anything, "5551234567", "sometoken").Return(&domain.User{
		FirstName:    "Alice",
		LastName:     "Smith",
		Phone:        "5551234567",
		TOSAgreement: true,
	}, nil)

	rec := doJSON(t, newUserRouter(svc), http.MethodGet, "/users/5551234567", "sometoken", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Alice", body["firstName"])
	assert.NotContains(t, body, "passwordHash")
	assert.NotContains(t, body, "password")
}

func TestUpdate_BadRequest(t *testing.T) {
	svc := &mockUserSvc{}
	svc.On("Update", mock.Anything, "5551234567", domain.UpdateUserRequest{}, "sometoken").
		Return(fmt.Errorf("at least one field is required: %w", domain.ErrBadRequest))

	rec := doJSON(t, newUserRouter(svc), http.MethodPut, "/users/5551234567", "sometoken", map[string]interface{}{})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDelete_OK(t *testing.T) {
	svc := &mockUserSvc{}
	svc.On("Delete", mock.Anything, "5551234567", "sometoken").Return(nil)

	rec := doJSON(t, newUserRouter(svc), http.MethodDelete, "/users/5551234567", "sometoken", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}

func TestDelete_InternalErrorDoesNotLeak(t *testing.T) {
	svc := &mockUserSvc{}
	svc.On("Delete", mock.Anything, "5551234567", "sometoken").
		Return(fmt.Errorf("delete record users/5551234567: disk detached"))

	rec := doJSON(t, newUserRouter(svc), http.MethodDelete, "/users/5551234567", "sometoken", nil)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "disk detached")
}
