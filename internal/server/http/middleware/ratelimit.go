package middleware

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	mgin "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"
)

const limiterPrefix = "leatherdesk_submissions"

// SubmissionLimiter throttles public submissions per client IP.
type SubmissionLimiter struct {
	handler gin.HandlerFunc
	client  *redis.Client
}

// NewSubmissionLimiter builds a limiter for a ulule formatted rate such as "20-M".
// With redisURL set the counters are shared through Redis; an unreachable or
// malformed URL falls back to an in-process store.
func NewSubmissionLimiter(formatted, redisURL string, logger *slog.Logger) (*SubmissionLimiter, error) {
	rate, err := limiter.NewRateFromFormatted(formatted)
	if err != nil {
		return nil, fmt.Errorf("parse rate limit %q: %w", formatted, err)
	}

	l := &SubmissionLimiter{}
	var store limiter.Store
	if redisURL != "" {
		redisStore, client, err := newRedisStore(redisURL)
		if err != nil {
			logger.Warn("rate limit redis store unavailable, falling back to memory", slog.String("error", err.Error()))
		} else {
			store = redisStore
			l.client = client
		}
	}
	if store == nil {
		store = newMemoryStore()
	}

	l.handler = mgin.NewMiddleware(
		limiter.New(store, rate),
		mgin.WithLimitReachedHandler(func(c *gin.Context) {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
		}),
		mgin.WithErrorHandler(func(c *gin.Context, err error) {
			logger.Error("rate limit store failed", slog.String("error", err.Error()))
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "service unavailable"})
		}),
	)
	return l, nil
}

// newMemoryStore starts a cleanup goroutine, so it is built only when no shared store serves.
var newMemoryStore = func() limiter.Store {
	return memory.NewStoreWithOptions(limiter.StoreOptions{Prefix: limiterPrefix})
}

var newRedisStore = func(redisURL string) (limiter.Store, *redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	store, err := sredis.NewStoreWithOptions(client, limiter.StoreOptions{Prefix: limiterPrefix, MaxRetry: 3})
	if err != nil {
		_ = client.Close()
		return nil, nil, err
	}
	return store, client, nil
}

// Handler returns the gin middleware.
func (l *SubmissionLimiter) Handler() gin.HandlerFunc {
	return l.handler
}

// Close releases the Redis connection if one is used.
func (l *SubmissionLimiter) Close() error {
	if l.client == nil {
		return nil
	}
	return l.client.Close()
}
