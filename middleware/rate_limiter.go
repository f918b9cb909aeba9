package middleware

import (
	"net/http"
	"sync"
	"time"

	"slotfinder/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// limiterIdle is how long an unused per-IP limiter is kept. Idle limiters are
// swept at most once per limiterIdle.
const limiterIdle = 10 * time.Minute

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// rateLimiterStore holds a map of IP addresses to their rate limiters.
type rateLimiterStore struct {
	mu        sync.Mutex
	perMin    int
	visitors  map[string]*visitor
	lastSweep time.Time
}

func newRateLimiterStore(perMin int) *rateLimiterStore {
	if perMin <= 0 {
		perMin = 200
	}
	return &rateLimiterStore{perMin: perMin, visitors: make(map[string]*visitor)}
}

// getLimiter returns the rate limiter for a given IP, creating one if it doesn't exist.
func (s *rateLimiterStore) getLimiter(ip string, now time.Time) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	if now.Sub(s.lastSweep) > limiterIdle {
		s.sweep(now)
	}

	v, exists := s.visitors[ip]
	if !exists {
		// perMin requests per minute, with the whole minute's budget as burst.
		v = &visitor{limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(s.perMin)), s.perMin)}
		s.visitors[ip] = v
	}
	v.lastSeen = now
	return v.limiter
}

// sweep drops idle visitors. Callers hold s.mu.
func (s *rateLimiterStore) sweep(now time.Time) {
	for k, v := range s.visitors {
		if now.Sub(v.lastSeen) > limiterIdle {
			delete(s.visitors, k)
		}
	}
	s.lastSweep = now
}

// RateLimitMiddleware limits requests per client IP address.
func RateLimitMiddleware(perMin int) gin.HandlerFunc {
	store := newRateLimiterStore(perMin)
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if !store.getLimiter(ip, time.Now()).Allow() {
			LoggerFrom(c).Warn("Rate limit exceeded", zap.String("ip", ip))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, utils.ErrorResponse{Success: false, Error: "Rate limit exceeded. Try again later."})
			return
		}
		c.Next()
	}
}
