package middleware

import (
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/BRajendra10/yotube-backend/internal/handlers/render"
)

type RateLimitConfig struct {
	// Allowed attempts per window, per client IP. Zero disables the limiter.
	Limit  int
	Window time.Duration

	// Redis client the counters live in. Nil disables the limiter.
	Redis *redis.Client
}

// RateLimitMiddleware applies a fixed-window counter per client IP,
// keyed in redis with INCR/EXPIRE. Meant for credential endpoints
// (login, resend code) to slow down guessing.
func RateLimitMiddleware(cfg RateLimitConfig, keyPrefix string) func(http.Handler) http.Handler {
	window := cfg.Window
	if window <= 0 {
		window = time.Minute
	}

	return func(next http.Handler) http.Handler {
		if cfg.Redis == nil || cfg.Limit <= 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := fmt.Sprintf("ratelimit:%s:%s", keyPrefix, clientIP(r))

			count, err := cfg.Redis.Incr(r.Context(), key).Result()
			if err != nil {
				// Redis being down should not lock everyone out
				next.ServeHTTP(w, r)
				return
			}
			if count == 1 {
				_ = cfg.Redis.Expire(r.Context(), key, window).Err()
			}

			if count > int64(cfg.Limit) {
				ttl, _ := cfg.Redis.TTL(r.Context(), key).Result()
				if ttl > 0 {
					w.Header().Set("Retry-After", strconv.Itoa(int(ttl.Seconds())))
				}
				render.Error(w, http.StatusTooManyRequests, "Too many attempts, slow down")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
