package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ucu-wifi/guest-portal-go/internal/config"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	db          Pinger
	redis       Pinger
	environment string
}

func NewHealthHandler(db, redis Pinger, environment string) *HealthHandler {
	return &HealthHandler{db: db, redis: redis, environment: environment}
}

// ServeHTTP reports 503 when either backing store is unreachable.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), config.DBPingTimeout)
	defer cancel()

	checks := map[string]string{
		"database": h.check(ctx, "database", h.db),
		"redis":    h.check(ctx, "redis", h.redis),
	}

	status := http.StatusOK
	message := "Server is running"
	for _, v := range checks {
		if v != "ok" {
			status = http.StatusServiceUnavailable
			message = "Service degraded"
		}
	}

	writeJSON(w, status, map[string]any{
		"success":     status == http.StatusOK,
		"message":     message,
		"timestamp":   time.Now().UTC().Format(time.RFC3339),
		"environment": h.environment,
		"checks":      checks,
	})
}

func (h *HealthHandler) check(ctx context.Context, name string, p Pinger) string {
	if err := p.Ping(ctx); err != nil {
		log.Warn().Err(err).Str("dependency", name).Msg("health check failed")
		return "unavailable"
	}
	return "ok"
}
