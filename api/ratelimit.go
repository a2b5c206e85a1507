package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// LimitWindow is how long a submission counter lives
const LimitWindow = 24 * time.Hour

// Limiter counts submissions per caller in redis
type Limiter struct {
	Redis  redis.Cmdable
	Prefix string
	Limit  int64
}

// NewRedisClient connects to redis and pings it once
func NewRedisClient(ctx context.Context, addr, password string) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return rdb, nil
}

// Allow increments the caller's counter. It reports whether the caller is still
// under the limit and, when not, how long until the window resets.
func (l *Limiter) Allow(ctx context.Context, key string) (bool, time.Duration, error) {
	k := l.Prefix + ":" + key
	count, err := l.Redis.Incr(ctx, k).Result()
	if err != nil {
		return false, 0, fmt.Errorf("incrementing %s: %w", k, err)
	}
	if count == 1 {
		if err := l.Redis.Expire(ctx, k, LimitWindow).Err(); err != nil {
			return false, 0, fmt.Errorf("setting ttl on %s: %w", k, err)
		}
	}
	if count > l.Limit {
		retryAfter, _ := l.Redis.TTL(ctx, k).Result()
		return false, retryAfter, nil
	}
	return true, 0, nil
}

// Middleware rejects callers that went over the limit with 429. A nil limiter
// or a redis failure lets the request through.
func (l *Limiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if l == nil || l.Redis == nil {
			next.ServeHTTP(w, r)
			return
		}
		caller, err := CallerFrom(r)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}
		ok, retryAfter, err := l.Allow(r.Context(), caller.ID.Hex())
		if err != nil {
			zap.S().Errorw("rate limiter unavailable", "error", err)
			next.ServeHTTP(w, r)
			return
		}
		if !ok {
			w.Header().Set("Retry-After", fmt.Sprintf("%.0f", retryAfter.Seconds()))
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(fmt.Sprintf(`{"response": "daily complaint limit of %d reached"}`, l.Limit)))
			return
		}
		next.ServeHTTP(w, r)
	})
}
