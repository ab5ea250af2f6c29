package api

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

var errRateLimited = errors.New("rate limit exceeded, please slow down")

// RateLimiterConfig holds the token-bucket parameters for per-IP limiting.
type RateLimiterConfig struct {
	IPRateLimit  rate.Limit // requests per second
	IPBurstLimit int

	// CleanupInterval controls how often idle visitor buckets are dropped.
	CleanupInterval time.Duration
}

// DefaultRateLimiterConfig returns the production defaults.
func DefaultRateLimiterConfig() RateLimiterConfig {
	return RateLimiterConfig{
		IPRateLimit:     10,
		IPBurstLimit:    20,
		CleanupInterval: 10 * time.Minute,
	}
}

// visitor tracks one client's limiter and its last activity.
type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter is a per-IP token-bucket limiter with background cleanup of
// idle visitors.
type RateLimiter struct {
	config   RateLimiterConfig
	visitors map[string]*visitor
	mu       sync.RWMutex
	stopCh   chan struct{}
}

// NewRateLimiter creates a rate limiter and starts its cleanup goroutine.
func NewRateLimiter(config RateLimiterConfig) *RateLimiter {
	rl := &RateLimiter{
		config:   config,
		visitors: make(map[string]*visitor),
		stopCh:   make(chan struct{}),
	}

	go rl.cleanupVisitors()

	return rl
}

func (rl *RateLimiter) getVisitor(key string, rateLimit rate.Limit, burst int) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, exists := rl.visitors[key]
	if !exists {
		limiter := rate.NewLimiter(rateLimit, burst)
		rl.visitors[key] = &visitor{limiter: limiter, lastSeen: time.Now()}
		return limiter
	}

	v.lastSeen = time.Now()
	return v.limiter
}

func (rl *RateLimiter) cleanupVisitors() {
	ticker := time.NewTicker(rl.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.mu.Lock()
			for key, v := range rl.visitors {
				if time.Since(v.lastSeen) > rl.config.CleanupInterval*3 {
					delete(rl.visitors, key)
				}
			}
			rl.mu.Unlock()
		case <-rl.stopCh:
			return
		}
	}
}

// Stop terminates the cleanup goroutine.
func (rl *RateLimiter) Stop() {
	close(rl.stopCh)
}

// Middleware enforces the per-IP limit on every request it wraps.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		key := "ip:" + ctx.ClientIP()

		limiter := rl.getVisitor(key, rl.config.IPRateLimit, rl.config.IPBurstLimit)

		if !limiter.Allow() {
			ctx.AbortWithStatusJSON(http.StatusTooManyRequests, errorResponse(errRateLimited))
			return
		}

		ctx.Next()
	}
}

// GeocodeAPIMiddleware is a stricter per-minute limit for endpoints that
// may call out to the upstream geocoding service, whose usage policy
// requires throttling. It keeps its own visitor map so the general limit
// is unaffected.
func (rl *RateLimiter) GeocodeAPIMiddleware(ratePerMinute int) gin.HandlerFunc {
	geocodeVisitors := make(map[string]*visitor)
	var mu sync.Mutex

	return func(ctx *gin.Context) {
		key := "geocode:" + ctx.ClientIP()

		mu.Lock()
		v, exists := geocodeVisitors[key]
		if !exists {
			limiter := rate.NewLimiter(rate.Limit(float64(ratePerMinute)/60.0), ratePerMinute)
			geocodeVisitors[key] = &visitor{limiter: limiter, lastSeen: time.Now()}
			v = geocodeVisitors[key]
		}
		v.lastSeen = time.Now()
		mu.Unlock()

		if !v.limiter.Allow() {
			ctx.AbortWithStatusJSON(http.StatusTooManyRequests, errorResponse(errRateLimited))
			return
		}

		ctx.Next()
	}
}
