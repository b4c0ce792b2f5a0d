package middleware

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/HammerMeetNail/swasthyasaathi/internal/handlers"
	"github.com/HammerMeetNail/swasthyasaathi/internal/logging"
)

// KeyFunc picks the bucket a request is counted against.
type KeyFunc func(r *http.Request) string

// RateLimiter is a fixed-window counter kept in Redis.
type RateLimiter struct {
	redis    *redis.Client
	limit    int64
	window   time.Duration
	prefix   string
	keyFunc  KeyFunc
	failOpen bool
	onLimit  http.Handler
}

func NewRateLimiter(redisClient *redis.Client, limit int64, window time.Duration, prefix string, keyFunc KeyFunc, failOpen bool) *RateLimiter {
	if keyFunc == nil {
		keyFunc = GetClientIP
	}
	return &RateLimiter{
		redis:    redisClient,
		limit:    limit,
		window:   window,
		prefix:   prefix,
		keyFunc:  keyFunc,
		failOpen: failOpen,
	}
}

// NewAdviceRateLimiter limits generation requests per session, falling back
// to the client IP for cookie-less requests. It fails open so a Redis outage never blocks advice.
func NewAdviceRateLimiter(redisClient *redis.Client, perHour int64) *RateLimiter {
	return NewRateLimiter(redisClient, perHour, time.Hour, "ratelimit:advice:", SessionOrIPKey, true)
}

// OnLimit replaces the default JSON 429 response, e.g. to re-render a page.
func (rl *RateLimiter) OnLimit(h http.Handler) *RateLimiter {
	cp := *rl
	cp.onLimit = h
	return &cp
}

func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if rl.redis == nil {
			rl.unavailable(w, r, next, nil)
			return
		}

		allowed, remaining, reset, err := rl.allow(r.Context(), rl.prefix+rl.keyFunc(r))
		if err != nil {
			rl.unavailable(w, r, next, err)
			return
		}

		w.Header().Set("X-RateLimit-Limit", strconv.FormatInt(rl.limit, 10))
		w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(reset.Unix(), 10))

		if !allowed {
			retryAfter := int(time.Until(reset).Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}
			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			if rl.onLimit != nil {
				rl.onLimit.ServeHTTP(w, r)
				return
			}
			writeError(w, http.StatusTooManyRequests, "Rate limit exceeded. Please try again later.")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (rl *RateLimiter) unavailable(w http.ResponseWriter, r *http.Request, next http.Handler, err error) {
	if err != nil {
		logging.Warn("Rate limiter unavailable", map[string]interface{}{
			"error":     err.Error(),
			"fail_open": rl.failOpen,
		})
	}
	if rl.failOpen {
		next.ServeHTTP(w, r)
		return
	}
	writeError(w, http.StatusServiceUnavailable, "Service temporarily unavailable")
}

func (rl *RateLimiter) allow(ctx context.Context, key string) (bool, int64, time.Time, error) {
	count, err := rl.redis.Incr(ctx, key).Result()
	if err != nil {
		return false, 0, time.Time{}, fmt.Errorf("incrementing counter: %w", err)
	}
	if count == 1 {
		if err := rl.redis.Expire(ctx, key, rl.window).Err(); err != nil {
			return false, 0, time.Time{}, fmt.Errorf("setting window: %w", err)
		}
	}

	ttl, err := rl.redis.TTL(ctx, key).Result()
	if err != nil {
		return false, 0, time.Time{}, fmt.Errorf("reading window: %w", err)
	}
	if ttl < 0 {
		// Counter lost its expiry; start a fresh window.
		_ = rl.redis.Expire(ctx, key, rl.window).Err()
		ttl = rl.window
	}

	remaining := rl.limit - count
	if remaining < 0 {
		remaining = 0
	}
	return count <= rl.limit, remaining, time.Now().Add(ttl), nil
}

// GetClientIP returns the first X-Forwarded-For hop, then X-Real-IP, then
// the connection address.
func GetClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first := strings.TrimSpace(strings.Split(xff, ",")[0])
		if host, _, err := net.SplitHostPort(first); err == nil {
			return host
		}
		return first
	}

	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		return xri
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// SessionOrIPKey buckets by an established session id. Requests whose id was
// minted on the spot share the client IP bucket, so dropping the cookie does
// not buy a fresh allowance.
func SessionOrIPKey(r *http.Request) string {
	if id, ok := handlers.GetSessionIDFromContext(r.Context()); ok && !handlers.IsNewSession(r.Context()) {
		return "session:" + id.String()
	}
	return "ip:" + GetClientIP(r)
}
