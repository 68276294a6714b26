package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/zhanma666/evil-cook-project/internal/types"
)

// RateLimitConfig defines configuration for rate limiting
type RateLimitConfig struct {
	// Window is the time window for rate limiting
	Window time.Duration
	// Limit is the maximum number of requests allowed in the window
	Limit int
	// KeyPrefix namespaces the counters of one limiter
	KeyPrefix string
}

// Limiter decides whether the client identified by key may make a request
type Limiter interface {
	IsAllowed(ctx context.Context, key string) (allowed bool, remaining int, reset time.Time, err error)
	Config() RateLimitConfig
}

// RateLimiter is a fixed-window limiter whose counters live in Redis, so the
// limit holds across API instances.
type RateLimiter struct {
	redis  *redis.Client
	config RateLimitConfig
	now    func() time.Time
}

// NewRateLimiter creates a new rate limiter instance
func NewRateLimiter(redisClient *redis.Client, config RateLimitConfig) *RateLimiter {
	return &RateLimiter{
		redis:  redisClient,
		config: config,
		now:    time.Now,
	}
}

func (rl *RateLimiter) Config() RateLimitConfig {
	return rl.config
}

// IsAllowed counts the request against the current window
func (rl *RateLimiter) IsAllowed(ctx context.Context, key string) (bool, int, time.Time, error) {
	windowStart := rl.now().Truncate(rl.config.Window)
	redisKey := fmt.Sprintf("%s:%s:%d", rl.config.KeyPrefix, key, windowStart.Unix())

	pipe := rl.redis.Pipeline()
	incrCmd := pipe.Incr(ctx, redisKey)
	pipe.Expire(ctx, redisKey, rl.config.Window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, 0, time.Time{}, err
	}

	count := int(incrCmd.Val())
	remaining := rl.config.Limit - count
	if remaining < 0 {
		remaining = 0
	}

	return count <= rl.config.Limit, remaining, windowStart.Add(rl.config.Window), nil
}

// MemoryRateLimiter keeps one token bucket per key in process. It is used
// when Redis is not configured; limits are per instance.
type MemoryRateLimiter struct {
	config  RateLimitConfig
	every   rate.Limit
	mu      sync.Mutex
	buckets map[string]*rate.Limiter
	now     func() time.Time
}

// maxBuckets bounds the bucket map; full buckets are dropped past it
const maxBuckets = 10000

func NewMemoryRateLimiter(config RateLimitConfig) *MemoryRateLimiter {
	if config.Limit < 1 {
		config.Limit = 1
	}
	return &MemoryRateLimiter{
		config:  config,
		every:   rate.Every(config.Window / time.Duration(config.Limit)),
		buckets: make(map[string]*rate.Limiter),
		now:     time.Now,
	}
}

func (m *MemoryRateLimiter) Config() RateLimitConfig {
	return m.config
}

func (m *MemoryRateLimiter) IsAllowed(_ context.Context, key string) (bool, int, time.Time, error) {
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	bucket, ok := m.buckets[key]
	if !ok {
		if len(m.buckets) >= maxBuckets {
			m.evictFull(now)
		}
		bucket = rate.NewLimiter(m.every, m.config.Limit)
		m.buckets[key] = bucket
	}

	allowed := bucket.AllowN(now, 1)
	tokens := bucket.TokensAt(now)
	remaining := int(math.Max(0, math.Floor(tokens)))

	// time until the bucket is full again
	missing := float64(m.config.Limit) - tokens
	reset := now.Add(time.Duration(missing * float64(time.Second) / float64(m.every)))

	return allowed, remaining, reset, nil
}

func (m *MemoryRateLimiter) evictFull(now time.Time) {
	for key, bucket := range m.buckets {
		if bucket.TokensAt(now) >= float64(m.config.Limit) {
			delete(m.buckets, key)
		}
	}
}

// RateLimit enforces limiter per client IP. Limiter failures are logged and
// the request is let through.
func RateLimit(limiter Limiter, logger *slog.Logger) gin.HandlerFunc {
	cfg := limiter.Config()
	return func(c *gin.Context) {
		allowed, remaining, reset, err := limiter.IsAllowed(c.Request.Context(), c.ClientIP())
		if err != nil {
			logger.Warn("rate limit check failed", "prefix", cfg.KeyPrefix, "error", err)
			c.Header("X-RateLimit-Error", "rate limit check failed")
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(cfg.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(reset.Unix(), 10))

		if !allowed {
			retryAfter := int(math.Ceil(time.Until(reset).Seconds()))
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			c.AbortWithStatusJSON(http.StatusTooManyRequests,
				types.Failure("too many requests, please try again later"))
			return
		}

		c.Next()
	}
}

// NewLimiter returns a Redis-backed limiter when client is non-nil and an
// in-process one otherwise.
func NewLimiter(client *redis.Client, config RateLimitConfig) Limiter {
	if client != nil {
		return NewRateLimiter(client, config)
	}
	return NewMemoryRateLimiter(config)
}
