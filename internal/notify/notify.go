package notify

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
)

// ErrNotConfigured is returned by notifiers that have no delivery transport.
var ErrNotConfigured = errors.New("email delivery not configured")

// Credentials is what a guest needs to log in to the WiFi network.
type Credentials struct {
	FullName  string
	Email     string
	Username  string
	Password  string
	ExpiresAt time.Time
}

// Notifier delivers freshly issued guest credentials.
type Notifier interface {
	Send(ctx context.Context, c Credentials) error
}

// LogNotifier stands in when no mail transport is configured. It never logs
// the password.
type LogNotifier struct{}

func (LogNotifier) Send(ctx context.Context, c Credentials) error {
	log.Info().
		Str("to", c.Email).
		Str("username", c.Username).
		Time("expires_at", c.ExpiresAt).
		Msg("credential email skipped: no SMTP transport configured")
	return ErrNotConfigured
}
