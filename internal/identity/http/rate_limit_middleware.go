package http

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const (
	limiterCleanupInterval = 5 * time.Minute
	limiterIdleTimeout     = time.Hour
)

// loginLimiterStore keeps one token bucket per client IP.
type loginLimiterStore struct {
	limiters sync.Map // client IP -> *loginLimiterEntry
	rps      float64
	burst    int
}

type loginLimiterEntry struct {
	limiter    *rate.Limiter
	mu         sync.Mutex
	lastAccess time.Time
}

// LoginRateLimitMiddleware throttles password attempts per client IP using a token
// bucket. Rejected requests get 429 Too Many Requests with a Retry-After header.
// Idle limiters are evicted until ctx is cancelled.
func LoginRateLimitMiddleware(ctx context.Context, rps float64, burst int, logger *slog.Logger) gin.HandlerFunc {
	store := &loginLimiterStore{rps: rps, burst: burst}
	go store.evictIdle(ctx, limiterCleanupInterval)

	return func(c *gin.Context) {
		clientIP := c.ClientIP()
		limiter := store.limiter(clientIP)

		if !limiter.Allow() {
			reservation := limiter.Reserve()
			retryAfter := int(reservation.Delay().Seconds())
			reservation.Cancel()
			if retryAfter < 1 {
				retryAfter = 1
			}

			logger.Debug("login rate limit exceeded",
				slog.String("client_ip", clientIP),
				slog.Int("retry_after", retryAfter))

			c.Header("Retry-After", strconv.Itoa(retryAfter))
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":   "rate_limit_exceeded",
				"message": "Too many login attempts from this IP. Please retry after the specified delay.",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

func (s *loginLimiterStore) limiter(ip string) *rate.Limiter {
	now := time.Now()
	value, _ := s.limiters.LoadOrStore(ip, &loginLimiterEntry{
		limiter:    rate.NewLimiter(rate.Limit(s.rps), s.burst),
		lastAccess: now,
	})

	entry := value.(*loginLimiterEntry)
	entry.mu.Lock()
	entry.lastAccess = now
	entry.mu.Unlock()
	return entry.limiter
}

func (s *loginLimiterStore) evictIdle(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			threshold := time.Now().Add(-limiterIdleTimeout)
			s.limiters.Range(func(key, value any) bool {
				entry := value.(*loginLimiterEntry)
				entry.mu.Lock()
				idle := entry.lastAccess.Before(threshold)
				entry.mu.Unlock()

				if idle {
					s.limiters.Delete(key)
				}
				return true
			})
		}
	}
}
