package notify

import (
	"context"
	"time"

	"github.com/felixgeelhaar/fortify/circuitbreaker"
	"github.com/rs/zerolog/log"
)

// Resilient bounds each send with a timeout and stops calling a failing mail
// server for a while once it has failed repeatedly. It does not retry.
type Resilient struct {
	next    Notifier
	timeout time.Duration
	breaker circuitbreaker.CircuitBreaker[struct{}]
}

func NewResilient(next Notifier, timeout time.Duration) *Resilient {
	return &Resilient{
		next:    next,
		timeout: timeout,
		breaker: circuitbreaker.New[struct{}](circuitbreaker.Config{
			MaxRequests: 1,
			Interval:    time.Minute,
			Timeout:     30 * time.Second,
			ReadyToTrip: func(counts circuitbreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 3
			},
			OnStateChange: func(from, to circuitbreaker.State) {
				log.Warn().
					Str("component", "notify").
					Str("from", from.String()).
					Str("to", to.String()).
					Msg("circuit breaker state change")
			},
		}),
	}
}

func (r *Resilient) Send(ctx context.Context, c Credentials) error {
	_, err := r.breaker.Execute(ctx, func(ctx context.Context) (struct{}, error) {
		ctx, cancel := context.WithTimeout(ctx, r.timeout)
		defer cancel()
		return struct{}{}, r.next.Send(ctx, c)
	})
	return err
}
