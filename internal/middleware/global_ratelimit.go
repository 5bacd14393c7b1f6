package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/httprate"

	"github.com/ucu-wifi/guest-portal-go/internal/audit"
	apperrors "github.com/ucu-wifi/guest-portal-go/internal/errors"
)

// GlobalRateLimit limits every request per client IP. It keys on RemoteAddr,
// so chi's RealIP must run first when the service sits behind a proxy.
func GlobalRateLimit(limit int, window time.Duration) func(http.Handler) http.Handler {
	return httprate.Limit(
		limit,
		window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			audit.LogFromRequest(r, audit.Event{
				Type:    audit.EventRateLimitExceed,
				Details: map[string]interface{}{"scope": "global"},
			})
			writeError(w, apperrors.New(apperrors.ErrCodeRateLimitExceeded,
				"Too many requests from this IP, please try again later."))
		}),
	)
}
