package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ucu-wifi/guest-portal-go/internal/audit"
	apperrors "github.com/ucu-wifi/guest-portal-go/internal/errors"
	"github.com/ucu-wifi/guest-portal-go/internal/httputil"
	"github.com/ucu-wifi/guest-portal-go/internal/metrics"
	"github.com/ucu-wifi/guest-portal-go/internal/middleware"
	"github.com/ucu-wifi/guest-portal-go/internal/model"
	"github.com/ucu-wifi/guest-portal-go/internal/service"
)

type AuthService interface {
	Register(ctx context.Context, in service.RegisterInput) (*model.AdminSummary, error)
	Login(ctx context.Context, in service.LoginInput) (*service.LoginResult, error)
	Logout(ctx context.Context, adminID string) error
}

type AuthHandler struct {
	authService    AuthService
	authMiddleware func(http.Handler) http.Handler
	loginLimiter   func(http.Handler) http.Handler
	debug          bool
}

func NewAuthHandler(
	authService AuthService,
	authMiddleware func(http.Handler) http.Handler,
	loginLimiter func(http.Handler) http.Handler,
	debug bool,
) *AuthHandler {
	return &AuthHandler{
		authService:    authService,
		authMiddleware: authMiddleware,
		loginLimiter:   loginLimiter,
		debug:          debug,
	}
}

func (h *AuthHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Group(func(r chi.Router) {
		r.Use(h.loginLimiter)
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)
	})

	r.Group(func(r chi.Router) {
		r.Use(h.authMiddleware)
		r.Post("/logout", h.Logout)
		r.Get("/profile", h.Profile)
	})

	return r
}

func (h *AuthHandler) writeError(w http.ResponseWriter, err error) {
	httputil.WriteError(w, err, h.debug)
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var in service.RegisterInput
	if err := decodeJSON(r, &in); err != nil {
		h.writeError(w, err)
		return
	}

	admin, err := h.authService.Register(r.Context(), in)
	if err != nil {
		h.writeError(w, err)
		return
	}

	audit.LogFromRequest(r, audit.Event{
		Type:    audit.EventAdminRegister,
		AdminID: admin.ID,
	})
	writeSuccess(w, http.StatusCreated, "Admin account created successfully", nil)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var in service.LoginInput
	if err := decodeJSON(r, &in); err != nil {
		h.writeError(w, err)
		return
	}

	result, err := h.authService.Login(r.Context(), in)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrCodeInvalidCredentials) {
			metrics.LoginAttempts.WithLabelValues("failure").Inc()
			audit.LogFromRequest(r, audit.Event{
				Type:    audit.EventLoginFailure,
				Details: map[string]interface{}{"email": in.Email},
			})
		}
		h.writeError(w, err)
		return
	}

	metrics.LoginAttempts.WithLabelValues("success").Inc()
	audit.LogFromRequest(r, audit.Event{
		Type:    audit.EventLoginSuccess,
		AdminID: result.Admin.ID,
	})
	writeSuccess(w, http.StatusOK, "Login successful", result)
}

// Logout revokes every session of the caller, not just the presented token.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	admin := middleware.GetAdmin(r.Context())
	if admin == nil {
		h.writeError(w, apperrors.Unauthorized("Access token required"))
		return
	}

	if err := h.authService.Logout(r.Context(), admin.ID); err != nil {
		h.writeError(w, err)
		return
	}

	audit.LogFromRequest(r, audit.Event{
		Type:    audit.EventLogout,
		AdminID: admin.ID,
	})
	writeSuccess(w, http.StatusOK, "Logout successful", nil)
}

func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	admin := middleware.GetAdmin(r.Context())
	if admin == nil {
		h.writeError(w, apperrors.Unauthorized("Access token required"))
		return
	}

	writeSuccess(w, http.StatusOK, "", map[string]any{"admin": admin})
}
