package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	redis "github.com/redis/go-redis/v9"
)

var redisClient *redis.Client

// InitRedisRateLimiter initializes a shared Redis client used by the middleware.
// Provide addr (host:port), password and db index. If connection fails, redisClient remains nil
// and the limiters count in process memory instead.
func InitRedisRateLimiter(addr, password string, db int) {
	if addr == "" {
		return
	}
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		// on ping failure, keep the server available with local counters
		_ = client.Close()
		return
	}
	redisClient = client
}

// SetRedisClient shares an already connected client with the limiters
func SetRedisClient(client *redis.Client) {
	redisClient = client
}

// hit increments key in Redis, or in mem when Redis is unavailable
func hit(c *gin.Context, mem *memoryWindow, key string, window time.Duration) int64 {
	if redisClient != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), time.Second)
		defer cancel()

		val, err := redisClient.Incr(ctx, key).Result()
		if err == nil {
			if val == 1 {
				// first increment, set expiry
				redisClient.Expire(ctx, key, window)
			}
			return val
		}
		c.Header("X-RateLimit-Error", "redis-error")
		RLFallback.Inc()
	}
	return mem.incr(key, time.Now())
}

// RedisRateLimit implements a fixed-window per-IP rate limiter using Redis INCR/EXPIRE.
// key format: rl:<window_seconds>:<identifier>
func RedisRateLimit(maxRequests int, window time.Duration) gin.HandlerFunc {
	mem := newMemoryWindow(window)
	return func(c *gin.Context) {
		key := "rl:" + strconv.FormatInt(int64(window.Seconds()), 10) + ":" + c.ClientIP()

		if hit(c, mem, key, window) > int64(maxRequests) {
			// metrics
			RLBlocked.WithLabelValues("ip", c.FullPath()).Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}

		// metrics
		RLRequests.WithLabelValues("ip", c.FullPath()).Inc()
		c.Next()
	}
}
