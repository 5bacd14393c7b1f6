package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ucu-wifi/guest-portal-go/internal/audit"
	apperrors "github.com/ucu-wifi/guest-portal-go/internal/errors"
	"github.com/ucu-wifi/guest-portal-go/internal/redis"
	"github.com/ucu-wifi/guest-portal-go/internal/service"
)

const adminRateLimitWindow = time.Minute

type Limiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (service.RateLimitDecision, error)
}

// AdminRateLimitMiddleware throttles authenticated API calls per admin using
// the shared Redis limiter. It must run after AuthMiddleware. A Redis outage
// lets requests through.
type AdminRateLimitMiddleware struct {
	limiter Limiter
	limit   int
	scope   string
}

func NewAdminRateLimitMiddleware(limiter Limiter, limitPerMin int, scope string) *AdminRateLimitMiddleware {
	return &AdminRateLimitMiddleware{limiter: limiter, limit: limitPerMin, scope: scope}
}

func (m *AdminRateLimitMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		admin := GetAdmin(r.Context())
		if admin == nil || m.limit <= 0 {
			next.ServeHTTP(w, r)
			return
		}

		d, err := m.limiter.Allow(r.Context(), redis.AdminRateLimitKey(admin.ID, m.scope), m.limit, adminRateLimitWindow)
		if err != nil {
			log.Warn().Err(err).Str("admin_id", admin.ID).Msg("admin rate limit unavailable, allowing request")
			next.ServeHTTP(w, r)
			return
		}

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(d.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(d.Remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(d.ResetAt.Unix(), 10))

		if !d.Allowed {
			audit.LogFromRequest(r, audit.Event{
				Type:    audit.EventRateLimitExceed,
				AdminID: admin.ID,
				Details: map[string]interface{}{"scope": m.scope},
			})
			w.Header().Set("Retry-After", strconv.Itoa(retryAfterSeconds(d.ResetAt)))
			writeError(w, apperrors.RateLimitExceeded())
			return
		}

		next.ServeHTTP(w, r)
	})
}

func retryAfterSeconds(resetAt time.Time) int {
	s := int(time.Until(resetAt).Seconds()) + 1
	if s < 1 {
		return 1
	}
	return s
}
