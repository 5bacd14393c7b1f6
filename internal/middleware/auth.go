package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/ucu-wifi/guest-portal-go/internal/audit"
	apperrors "github.com/ucu-wifi/guest-portal-go/internal/errors"
	"github.com/ucu-wifi/guest-portal-go/internal/model"
)

type contextKey string

const AdminContextKey contextKey = "admin"

func GetAdmin(ctx context.Context) *model.AdminSummary {
	if admin, ok := ctx.Value(AdminContextKey).(*model.AdminSummary); ok {
		return admin
	}
	return nil
}

// WithAdmin stores the authenticated admin on ctx.
func WithAdmin(ctx context.Context, admin *model.AdminSummary) context.Context {
	return context.WithValue(ctx, AdminContextKey, admin)
}

type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*model.AdminSummary, error)
}

type AuthMiddleware struct {
	auth Authenticator
}

func NewAuthMiddleware(auth Authenticator) *AuthMiddleware {
	return &AuthMiddleware{auth: auth}
}

func (m *AuthMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractBearerToken(r)
		if token == "" {
			writeError(w, apperrors.Unauthorized("Access token required"))
			return
		}

		admin, err := m.auth.Authenticate(r.Context(), token)
		if err != nil {
			if apperrors.GetCode(err) != apperrors.ErrCodeDatabase {
				audit.LogFromRequest(r, audit.Event{
					Type:    audit.EventAuthFailure,
					Details: map[string]interface{}{"reason": string(apperrors.GetCode(err))},
				})
			}
			writeError(w, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithAdmin(r.Context(), admin)))
	})
}

func extractBearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(authHeader, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
