package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ucu-wifi/guest-portal-go/internal/model"
	"github.com/ucu-wifi/guest-portal-go/internal/service"
)

type mockLimiter struct {
	allowFunc func(ctx context.Context, key string, limit int, window time.Duration) (service.RateLimitDecision, error)
	lastKey   string
}

func (m *mockLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (service.RateLimitDecision, error) {
	m.lastKey = key
	return m.allowFunc(ctx, key, limit, window)
}

func TestAdminRateLimitMiddleware(t *testing.T) {
	admin := &model.AdminSummary{ID: "admin-1", Email: "it@ucu.ac.ug"}

	serve := func(limiter Limiter, withAdmin bool) *httptest.ResponseRecorder {
		m := NewAdminRateLimitMiddleware(limiter, 60, "guest-users")
		handler := m.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))
		req := httptest.NewRequest(http.MethodGet, "/api/guest-users", nil)
		if withAdmin {
			req = req.WithContext(WithAdmin(req.Context(), admin))
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	t.Run("allows request under limit and sets headers", func(t *testing.T) {
		limiter := &mockLimiter{
			allowFunc: func(ctx context.Context, key string, limit int, window time.Duration) (service.RateLimitDecision, error) {
				assert.Equal(t, 60, limit)
				assert.Equal(t, time.Minute, window)
				return service.RateLimitDecision{Allowed: true, Limit: 60, Remaining: 59, ResetAt: time.Now().Add(time.Minute)}, nil
			},
		}

		rec := serve(limiter, true)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "admin:admin-1:guest-users", limiter.lastKey)
		assert.Equal(t, "60", rec.Header().Get("X-RateLimit-Limit"))
		assert.Equal(t, "59", rec.Header().Get("X-RateLimit-Remaining"))
		assert.NotEmpty(t, rec.Header().Get("X-RateLimit-Reset"))
	})

	t.Run("rejects request over limit", func(t *testing.T) {
		limiter := &mockLimiter{
			allowFunc: func(ctx context.Context, key string, limit int, window time.Duration) (service.RateLimitDecision, error) {
				return service.RateLimitDecision{Allowed: false, Limit: 60, Remaining: 0, ResetAt: time.Now().Add(30 * time.Second)}, nil
			},
		}

		rec := serve(limiter, true)

		assert.Equal(t, http.StatusTooManyRequests, rec.Code)
		assert.NotEmpty(t, rec.Header().Get("Retry-After"))
		assert.Equal(t, "RATE_LIMIT_EXCEEDED", decodeError(t, rec)["code"])
	})

	t.Run("fails open when limiter errors", func(t *testing.T) {
		limiter := &mockLimiter{
			allowFunc: func(ctx context.Context, key string, limit int, window time.Duration) (service.RateLimitDecision, error) {
				return service.RateLimitDecision{}, errors.New("redis: connection refused")
			},
		}

		rec := serve(limiter, true)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, rec.Header().Get("X-RateLimit-Limit"))
	})

	t.Run("skips unauthenticated requests", func(t *testing.T) {
		limiter := &mockLimiter{
			allowFunc: func(ctx context.Context, key string, limit int, window time.Duration) (service.RateLimitDecision, error) {
				t.Fatal("limiter should not be called")
				return service.RateLimitDecision{}, nil
			},
		}

		rec := serve(limiter, false)

		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestRetryAfterSeconds(t *testing.T) {
	assert.Equal(t, 1, retryAfterSeconds(time.Now().Add(-time.Second)))
	assert.GreaterOrEqual(t, retryAfterSeconds(time.Now().Add(10*time.Second)), 10)
}
