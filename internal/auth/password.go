package auth

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/felixgeelhaar/fortify/bulkhead"
	"golang.org/x/crypto/bcrypt"

	"github.com/ucu-wifi/guest-portal-go/internal/config"
)

// MaxPasswordBytes is the longest input bcrypt accepts.
const MaxPasswordBytes = 72

var (
	ErrEmptyPassword   = errors.New("password is empty")
	ErrPasswordTooLong = errors.New("password exceeds 72 bytes")
	// ErrMalformedHash means the stored hash is not a usable bcrypt hash.
	ErrMalformedHash = errors.New("malformed password hash")
	// ErrHasherUnavailable means the hashing pool rejected or timed out the
	// call; the password was never checked.
	ErrHasherUnavailable = errors.New("password hasher unavailable")
)

// Hasher hashes and verifies passwords with bcrypt. Work runs through a
// bulkhead so concurrent requests share a bounded number of CPU slots.
type Hasher struct {
	cost int
	pool bulkhead.Bulkhead[string]

	dummyOnce sync.Once
	dummy     string
}

// NewHasher builds a Hasher. concurrency <= 0 means runtime.NumCPU().
func NewHasher(cost, concurrency int) *Hasher {
	if concurrency <= 0 {
		concurrency = runtime.NumCPU()
	}
	return &Hasher{
		cost: cost,
		pool: bulkhead.New[string](bulkhead.Config{
			MaxConcurrent: concurrency,
			MaxQueue:      concurrency * config.HashQueuePerSlot,
			QueueTimeout:  config.HashQueueTimeout,
		}),
	}
}

func (h *Hasher) Hash(ctx context.Context, password string) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}
	if len(password) > MaxPasswordBytes {
		return "", ErrPasswordTooLong
	}

	var hashErr error
	hash, err := h.pool.Execute(ctx, func(ctx context.Context) (string, error) {
		b, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
		hashErr = err
		return string(b), nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrHasherUnavailable, err)
	}
	if errors.Is(hashErr, bcrypt.ErrPasswordTooLong) {
		return "", ErrPasswordTooLong
	}
	if hashErr != nil {
		return "", fmt.Errorf("hash password: %w", hashErr)
	}
	return hash, nil
}

// Verify reports whether password matches hash. A mismatch is (false, nil).
// A bad stored hash wraps ErrMalformedHash; a saturated pool wraps
// ErrHasherUnavailable.
func (h *Hasher) Verify(ctx context.Context, password, hash string) (bool, error) {
	if hash == "" {
		return false, fmt.Errorf("%w: empty", ErrMalformedHash)
	}

	var cmpErr error
	_, err := h.pool.Execute(ctx, func(ctx context.Context) (string, error) {
		cmpErr = bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
		return "", nil
	})
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrHasherUnavailable, err)
	}

	switch {
	case cmpErr == nil:
		return true, nil
	case errors.Is(cmpErr, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("%w: %v", ErrMalformedHash, cmpErr)
	}
}

// DummyHash returns a valid hash at the configured cost, used to keep
// unknown-account logins as slow as real ones.
func (h *Hasher) DummyHash() string {
	h.dummyOnce.Do(func() {
		hash, err := bcrypt.GenerateFromPassword([]byte("guest-portal-timing-equaliser"), h.cost)
		if err == nil {
			h.dummy = string(hash)
		}
	})
	return h.dummy
}
