package limiter

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrRateLimitExceeded = errors.New("rate limit exceeded")

// tokenBucketScript implements the token bucket atomically in Redis.
// KEYS[1] = bucket key
// ARGV[1] = capacity (burst)
// ARGV[2] = refill rate (tokens per second)
// ARGV[3] = current unix time (seconds)
// ARGV[4] = requested tokens
// Returns: {allowed (1/0), remaining tokens (floored)}
const tokenBucketScript = `
local key = KEYS[1]
local capacity = tonumber(ARGV[1])
local rate = tonumber(ARGV[2])
local now = tonumber(ARGV[3])
local requested = tonumber(ARGV[4])

local info = redis.call("HMGET", key, "tokens", "last_refill")
local tokens = tonumber(info[1])
local last_refill = tonumber(info[2])

if not tokens then
	tokens = capacity
	last_refill = now
end

local delta = math.max(0, now - last_refill)
local filled = math.min(capacity, tokens + (delta * rate))

local allowed = 0
if filled >= requested then
	allowed = 1
	filled = filled - requested
end

redis.call("HMSET", key, "tokens", filled, "last_refill", now)
redis.call("EXPIRE", key, 60)

return {allowed, math.floor(filled)}
`

// TokenBucketLimiter is the per-client request limiter over Redis.
type TokenBucketLimiter struct {
	client *redis.Client
}

func NewTokenBucketLimiter(client *redis.Client) *TokenBucketLimiter {
	return &TokenBucketLimiter{client: client}
}

// Allow consumes one token from the bucket identified by key. rate is
// tokens per second, burst the bucket capacity. Returns the remaining
// token count; ErrRateLimitExceeded when the bucket is empty, other
// errors when Redis is unreachable.
func (l *TokenBucketLimiter) Allow(ctx context.Context, key string, rate float64, burst int) (bool, int, error) {
	now := time.Now().Unix()

	result, err := l.client.Eval(ctx, tokenBucketScript, []string{key}, burst, rate, now, 1).Result()
	if err != nil {
		return false, 0, err
	}

	// Lua integers come back as int64.
	res, ok := result.([]interface{})
	if !ok || len(res) != 2 {
		return false, 0, errors.New("unexpected script result")
	}
	allowed, _ := res[0].(int64)
	remaining, _ := res[1].(int64)

	if allowed != 1 {
		return false, int(remaining), ErrRateLimitExceeded
	}
	return true, int(remaining), nil
}
