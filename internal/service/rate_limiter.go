package service

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// rateLimitScript is a sliding window over a sorted set of request timestamps
// in milliseconds. Returns {allowed, remaining, resetAtMs}.
var rateLimitScript = redis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])
local member = ARGV[4]

redis.call('ZREMRANGEBYSCORE', key, '-inf', now - window)

local count = redis.call('ZCARD', key)
if count >= limit then
    local oldest = redis.call('ZRANGE', key, 0, 0, 'WITHSCORES')
    local resetAt = now + window
    if #oldest >= 2 then
        resetAt = tonumber(oldest[2]) + window
    end
    return {0, 0, resetAt}
end

redis.call('ZADD', key, now, member)
redis.call('PEXPIRE', key, window + 1000)

return {1, limit - count - 1, now + window}
`)

type RateLimitDecision struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// RateLimiter is a Redis-backed sliding window limiter shared by all API
// instances. On a Redis error the decision denies and the error is returned so
// the caller can choose to fail open.
type RateLimiter struct {
	client redis.Scripter
	now    func() time.Time
}

func NewRateLimiter(client redis.Scripter) *RateLimiter {
	return &RateLimiter{client: client, now: time.Now}
}

func (rl *RateLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (RateLimitDecision, error) {
	now := rl.now()
	nowMs := now.UnixMilli()
	fullKey := fmt.Sprintf("ratelimit:%s", key)
	member := fmt.Sprintf("%d-%d", nowMs, now.UnixNano())

	result, err := rateLimitScript.Run(ctx, rl.client, []string{fullKey},
		nowMs, window.Milliseconds(), limit, member,
	).Int64Slice()

	if err == nil && len(result) != 3 {
		err = fmt.Errorf("unexpected rate limit result length %d", len(result))
	}
	if err != nil {
		return RateLimitDecision{Allowed: false, Limit: limit, ResetAt: now.Add(window)},
			fmt.Errorf("rate limit %s: %w", key, err)
	}

	return RateLimitDecision{
		Allowed:   result[0] == 1,
		Limit:     limit,
		Remaining: int(result[1]),
		ResetAt:   time.UnixMilli(result[2]),
	}, nil
}
