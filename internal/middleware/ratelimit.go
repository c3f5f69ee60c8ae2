package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"sales-dashboard/internal/config"
	"sales-dashboard/internal/errors"
	"sales-dashboard/internal/observability"
)

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per client IP.
type RateLimiter struct {
	cfg      config.SecurityConfig
	mu       sync.Mutex
	limiters map[string]*limiterEntry
}

func NewRateLimiter(cfg config.SecurityConfig) *RateLimiter {
	return &RateLimiter{
		cfg:      cfg,
		limiters: make(map[string]*limiterEntry),
	}
}

func (rl *RateLimiter) Allow(ip string) bool {
	if !rl.cfg.EnableRateLimit {
		return true
	}

	rl.mu.Lock()
	entry, ok := rl.limiters[ip]
	if !ok {
		entry = &limiterEntry{
			limiter: rate.NewLimiter(rate.Limit(rl.cfg.RateLimitRPS), rl.cfg.RateLimitBurst),
		}
		rl.limiters[ip] = entry
	}
	entry.lastSeen = time.Now()
	rl.mu.Unlock()

	return entry.limiter.Allow()
}

// Sweep drops limiters idle for longer than maxIdle and reports how many remain.
func (rl *RateLimiter) Sweep(maxIdle time.Duration) int {
	cutoff := time.Now().Add(-maxIdle)

	rl.mu.Lock()
	defer rl.mu.Unlock()
	for ip, entry := range rl.limiters {
		if entry.lastSeen.Before(cutoff) {
			delete(rl.limiters, ip)
		}
	}
	return len(rl.limiters)
}

// Run sweeps idle limiters every interval until ctx is done.
func (rl *RateLimiter) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rl.Sweep(interval)
		}
	}
}

func RateLimit(limiter *RateLimiter, logger *slog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := getClientIP(r)

			if !limiter.Allow(ip) {
				logger.Warn("rate limit exceeded", "ip", ip, "request_id", observability.GetRequestID(r.Context()))
				errors.WriteError(w, r, logger, errors.RateLimit("Too many requests"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
