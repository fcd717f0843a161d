package httpmiddleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// TokenBucket is an in-memory per-key rate limiter; for multi-instance
// deployments swap to a Redis-backed limiter.
type TokenBucket struct {
	capacity int
	rate     int // tokens per minute
	mu       sync.Mutex
	state    map[string]*bucket
}

type bucket struct {
	tokens int
	last   time.Time
}

// NewTokenBucket creates a limiter with capacity tokens refilled at perMinute.
func NewTokenBucket(capacity, perMinute int) *TokenBucket {
	if capacity <= 0 {
		capacity = perMinute
	}
	return &TokenBucket{
		capacity: capacity,
		rate:     perMinute,
		state:    make(map[string]*bucket),
	}
}

// GinMiddleware returns a gin handler enforcing per-IP limits.
func (l *TokenBucket) GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if ip == "" {
			ip = "unknown"
		}
		if !l.Allow(ip) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit"})
			return
		}
		c.Next()
	}
}

// Allow consumes one token for key, refilling by elapsed time first. Keys
// idle long enough to fully refill are dropped from the table.
func (l *TokenBucket) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := time.Now()
	b, ok := l.state[key]
	if !ok {
		l.prune(now)
		l.state[key] = &bucket{tokens: l.capacity - 1, last: now}
		return true
	}
	elapsed := now.Sub(b.last).Minutes()
	refill := int(elapsed * float64(l.rate))
	if refill > 0 {
		b.tokens += refill
		if b.tokens > l.capacity {
			b.tokens = l.capacity
		}
		b.last = now
	}
	if b.tokens <= 0 {
		return false
	}
	b.tokens--
	return true
}

// prune drops buckets idle past a full refill cycle. Called with the lock held.
func (l *TokenBucket) prune(now time.Time) {
	if len(l.state) < 1024 {
		return
	}
	cutoff := now.Add(-2 * time.Minute)
	for key, b := range l.state {
		if b.last.Before(cutoff) {
			delete(l.state, key)
		}
	}
}
