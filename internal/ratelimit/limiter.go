// Package ratelimit throttles the public lead-capture endpoints with a
// fixed-window per-IP counter on Redis. The limiter fails open: Redis being
// down must not block lead capture.
package ratelimit

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"homeleads/internal/platform/config"
	platformredis "homeleads/internal/platform/redis"
)

// Limiter counts submissions per client IP per window.
type Limiter struct {
	client *platformredis.Client
	limit  int
	window time.Duration
	logger *slog.Logger
}

// New builds a limiter. A nil Redis client disables limiting entirely.
func New(client *platformredis.Client, cfg config.RateLimitConfig, logger *slog.Logger) *Limiter {
	return &Limiter{client: client, limit: cfg.PerMinute, window: cfg.Window, logger: logger}
}

// Allow reports whether the client identified by ip may submit.
func (l *Limiter) Allow(ctx context.Context, ip string) bool {
	if l.client == nil || l.limit <= 0 {
		return true
	}

	key := "ratelimit:leads:" + ip
	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		l.logger.WarnContext(ctx, "rate limiter unavailable, failing open", "error", err)
		return true
	}
	if count == 1 {
		// First hit in this window sets the expiry.
		if err := l.client.Expire(ctx, key, l.window).Err(); err != nil {
			l.logger.WarnContext(ctx, "rate limiter expire failed", "error", err)
		}
	}
	return count <= int64(l.limit)
}

// Middleware applies the limiter to an HTTP route.
func (l *Limiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.Allow(r.Context(), clientIP(r)) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"error":"rate_limited","message":"too many submissions, please try again later"}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	// X-Forwarded-For may carry the whole proxy chain; the originating
	// client is the first element.
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		return strings.TrimSpace(first)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
