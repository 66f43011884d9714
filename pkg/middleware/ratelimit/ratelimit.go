package ratelimit

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	appErrors "github.com/riseresearch/rise-api/pkg/errors"
	"github.com/riseresearch/rise-api/pkg/response"
)

// idleEviction is how long a client limiter may sit unused before it is dropped.
const idleEviction = 10 * time.Minute

type entry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Store keeps one token bucket per client key.
type Store struct {
	mu        sync.Mutex
	limiters  map[string]*entry
	limit     rate.Limit
	burst     int
	lastSweep time.Time
	now       func() time.Time
	onReject  func()
}

// NewStore builds a store allowing perMinute requests with the given burst.
func NewStore(perMinute, burst int) *Store {
	if perMinute <= 0 {
		perMinute = 120
	}
	if burst <= 0 {
		burst = 1
	}
	return &Store{
		limiters: make(map[string]*entry),
		limit:    rate.Every(time.Minute / time.Duration(perMinute)),
		burst:    burst,
		now:      time.Now,
	}
}

// OnReject registers a callback run for every rejected request.
func (s *Store) OnReject(fn func()) *Store {
	s.onReject = fn
	return s
}

// Allow reports whether key may make another request now.
func (s *Store) Allow(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if now.Sub(s.lastSweep) > idleEviction {
		for k, e := range s.limiters {
			if now.Sub(e.lastSeen) > idleEviction {
				delete(s.limiters, k)
			}
		}
		s.lastSweep = now
	}

	e, ok := s.limiters[key]
	if !ok {
		e = &entry{limiter: rate.NewLimiter(s.limit, s.burst)}
		s.limiters[key] = e
	}
	e.lastSeen = now
	return e.limiter.AllowN(now, 1)
}

// Middleware rejects clients that exceed their bucket with 429.
func Middleware(store *Store, logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(c *gin.Context) {
		if store == nil {
			c.Next()
			return
		}
		ip := c.ClientIP()
		if !store.Allow(ip) {
			logger.Warn("rate limit exceeded", zap.String("ip", ip), zap.String("path", c.Request.URL.Path))
			if store.onReject != nil {
				store.onReject()
			}
			response.Error(c, appErrors.ErrRateLimited)
			c.Abort()
			return
		}
		c.Next()
	}
}
