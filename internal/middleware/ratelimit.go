package middleware

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/time/rate"
)

// clientLimiterCapacity bounds the per-client limiter registry so a churn
// of client IPs cannot grow memory without limit.
const clientLimiterCapacity = 4096

// RateLimiter applies a token-bucket rate limit per client IP. Limiters
// are kept in an LRU registry; evicted clients simply start with a fresh
// bucket on their next request.
type RateLimiter struct {
	mu      sync.Mutex
	clients *lru.Cache[string, *rate.Limiter]
	limit   rate.Limit
	burst   int
}

// NewRateLimiter creates a per-client rate limiter allowing limit
// requests per second with the given burst.
func NewRateLimiter(limit float64, burst int) (*RateLimiter, error) {
	clients, err := lru.New[string, *rate.Limiter](clientLimiterCapacity)
	if err != nil {
		return nil, err
	}
	return &RateLimiter{
		clients: clients,
		limit:   rate.Limit(limit),
		burst:   burst,
	}, nil
}

// Handler returns the gin middleware enforcing the limit.
func (rl *RateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.limiterFor(c.ClientIP()).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":          "Rate limit exceeded",
				"correlation_id": c.GetString("correlation_id"),
			})
			return
		}
		c.Next()
	}
}

func (rl *RateLimiter) limiterFor(clientIP string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	if limiter, ok := rl.clients.Get(clientIP); ok {
		return limiter
	}
	limiter := rate.NewLimiter(rl.limit, rl.burst)
	rl.clients.Add(clientIP, limiter)
	return limiter
}
