package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	RequestsPerWindow int           // Number of requests allowed per window
	Window            time.Duration // Time window for rate limiting
	KeyPrefix         string        // Redis key prefix
}

// rateLimitKey names the counter for the caller: the audit actor when one is
// set, the remote address otherwise.
func rateLimitKey(r *http.Request, prefix string) string {
	if actor, ok := GetActor(r.Context()); ok {
		return fmt.Sprintf("%s:actor:%s", prefix, actor)
	}
	return fmt.Sprintf("%s:%s", prefix, r.RemoteAddr)
}

// fixedWindow counts a hit on key and returns the hit count and the time left
// in the current window. A counter without an expiry gets a fresh window.
func fixedWindow(ctx context.Context, client *redis.Client, key string, window time.Duration) (int64, time.Duration, error) {
	pipe := client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	ttl := pipe.TTL(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, 0, fmt.Errorf("failed to count request: %w", err)
	}

	if ttl.Val() > 0 {
		return incr.Val(), ttl.Val(), nil
	}
	if err := client.Expire(ctx, key, window).Err(); err != nil {
		return incr.Val(), window, fmt.Errorf("failed to start rate limit window: %w", err)
	}
	return incr.Val(), window, nil
}

func setRateLimitHeaders(h http.Header, limit int, count int64, resetIn time.Duration) {
	remaining := int64(limit) - count
	if remaining < 0 {
		remaining = 0
	}
	h.Set("X-RateLimit-Limit", strconv.Itoa(limit))
	h.Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))
	h.Set("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(resetIn).Unix(), 10))
}

// RateLimitMiddleware limits each caller to RequestsPerWindow requests per
// fixed window. Requests pass when Redis is unavailable.
func RateLimitMiddleware(redisClient *redis.Client, config RateLimitConfig, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := rateLimitKey(r, config.KeyPrefix)

			count, resetIn, err := fixedWindow(r.Context(), redisClient, key, config.Window)
			if err != nil {
				logger.Error("Rate limit check failed", zap.String("key", key), zap.Error(err))
				if count == 0 {
					next.ServeHTTP(w, r)
					return
				}
			}

			setRateLimitHeaders(w.Header(), config.RequestsPerWindow, count, resetIn)

			if count > int64(config.RequestsPerWindow) {
				logger.Warn("Rate limit exceeded",
					zap.String("key", key),
					zap.Int64("count", count),
					zap.Int("limit", config.RequestsPerWindow),
				)
				w.Header().Set("Retry-After", strconv.Itoa(int(resetIn.Round(time.Second).Seconds())))
				RespondWithError(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
