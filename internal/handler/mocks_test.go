package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ucu-wifi/guest-portal-go/internal/middleware"
	"github.com/ucu-wifi/guest-portal-go/internal/model"
	"github.com/ucu-wifi/guest-portal-go/internal/service"
)

var testAdmin = &model.AdminSummary{ID: "8a3c2f4e-1b7d-4c6e-9f0a-2d5b8e1c4a7f", Email: "it@ucu.ac.ug"}

type mockAuthService struct {
	mock.Mock
}

func (m *mockAuthService) Register(ctx context.Context, in service.RegisterInput) (*model.AdminSummary, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AdminSummary), args.Error(1)
}

func (m *mockAuthService) Login(ctx context.Context, in service.LoginInput) (*service.LoginResult, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.LoginResult), args.Error(1)
}

func (m *mockAuthService) Logout(ctx context.Context, adminID string) error {
	return m.Called(ctx, adminID).Error(0)
}

type mockGuestUserService struct {
	mock.Mock
}

func (m *mockGuestUserService) Create(ctx context.Context, admin model.AdminSummary, in service.CreateGuestUserInput) (*service.CreateGuestUserResult, error) {
	args := m.Called(ctx, admin, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.CreateGuestUserResult), args.Error(1)
}

func (m *mockGuestUserService) List(ctx context.Context, adminID string, status model.GuestStatus) ([]model.GuestUser, error) {
	args := m.Called(ctx, adminID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.GuestUser), args.Error(1)
}

func (m *mockGuestUserService) Update(ctx context.Context, adminID, id string, in service.UpdateGuestUserInput) (*model.GuestUser, error) {
	args := m.Called(ctx, adminID, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.GuestUser), args.Error(1)
}

func (m *mockGuestUserService) Delete(ctx context.Context, adminID, id string) error {
	return m.Called(ctx, adminID, id).Error(0)
}

func (m *mockGuestUserService) ToggleStatus(ctx context.Context, adminID, id string) (bool, error) {
	args := m.Called(ctx, adminID, id)
	return args.Bool(0), args.Error(1)
}

// fakeAuth stands in for AuthMiddleware: requests carrying any bearer token
// are attributed to testAdmin.
func fakeAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.Header.Get("Authorization"), "Bearer ") {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r.WithContext(middleware.WithAdmin(r.Context(), testAdmin)))
	})
}

func passThrough(next http.Handler) http.Handler { return next }

func doRequest(t *testing.T, h http.Handler, method, target, body string, authed bool) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		req.Header.Set("Authorization", "Bearer token")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}
