package api

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const (
	// defaultIdleTTL is how long a client may stay silent before its bucket is dropped.
	defaultIdleTTL = 10 * time.Minute
	maxIdleTTL     = 24 * time.Hour
)

// ClientRateLimiter keeps one token bucket per client IP. Buckets idle for longer than
// idleTTL are swept on a later request; idleTTL is never shorter than a full refill, so a
// swept client comes back with the same budget it would have had.
type ClientRateLimiter struct {
	limiters  sync.Map // client IP -> *clientLimiter
	rate      rate.Limit
	burst     int
	idleTTL   time.Duration
	lastSweep atomic.Int64
	now       func() time.Time
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen atomic.Int64 // unix nanoseconds
}

// NewClientRateLimiter creates a limiter allowing r requests per second with the given burst per client.
func NewClientRateLimiter(r rate.Limit, burst int) *ClientRateLimiter {
	l := &ClientRateLimiter{
		rate:    r,
		burst:   burst,
		idleTTL: max(defaultIdleTTL, refillDuration(r, burst)),
		now:     time.Now,
	}

	l.lastSweep.Store(l.now().UnixNano())

	return l
}

// refillDuration is the time an empty bucket needs to fill up again.
func refillDuration(r rate.Limit, burst int) time.Duration {
	if r <= 0 || r == rate.Inf {
		return 0
	}

	seconds := float64(burst) / float64(r)
	if seconds >= maxIdleTTL.Seconds() {
		return maxIdleTTL
	}

	return time.Duration(seconds * float64(time.Second)).Round(time.Millisecond)
}

// LimiterFor returns the token bucket of ip, creating it on first use.
func (l *ClientRateLimiter) LimiterFor(ip string) *rate.Limiter {
	now := l.now()

	entry, ok := l.limiters.Load(ip)
	if !ok {
		entry, _ = l.limiters.LoadOrStore(ip, &clientLimiter{limiter: rate.NewLimiter(l.rate, l.burst)})
	}

	client := entry.(*clientLimiter)
	client.lastSeen.Store(now.UnixNano())

	l.sweepIdle(now)

	return client.limiter
}

// sweepIdle drops idle buckets at most once per idleTTL; one caller wins the sweep.
func (l *ClientRateLimiter) sweepIdle(now time.Time) {
	last := l.lastSweep.Load()
	if now.UnixNano()-last < int64(l.idleTTL) {
		return
	}

	if !l.lastSweep.CompareAndSwap(last, now.UnixNano()) {
		return
	}

	cutoff := now.Add(-l.idleTTL).UnixNano()

	l.limiters.Range(func(key, value any) bool {
		if value.(*clientLimiter).lastSeen.Load() < cutoff {
			l.limiters.CompareAndDelete(key, value)
		}

		return true
	})
}

// Middleware rejects requests over the client's budget with 429 and a Retry-After header.
func (l *ClientRateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		limiter := l.LimiterFor(c.ClientIP())

		if !limiter.Allow() {
			retryAfter := 1
			if l.rate > 0 {
				retryAfter = int(math.Ceil(1 / float64(l.rate)))
			}

			c.Header("Retry-After", strconv.Itoa(retryAfter))
			renderError(c, http.StatusTooManyRequests, "RateLimited", "too many requests")
			c.Abort()

			return
		}

		c.Next()
	}
}
