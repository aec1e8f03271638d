package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// SpinRateLimit limits spin requests per wallet (not per IP).
// Requires JWT middleware to run before this.
func SpinRateLimit(maxSpins int, window time.Duration) gin.HandlerFunc {
	mem := newMemoryWindow(window)
	return func(c *gin.Context) {
		wallet := Wallet(c)
		if wallet == "" {
			// JWT middleware didn't run or failed
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		key := "spin_rl:" + wallet + ":" + strconv.FormatInt(int64(window.Seconds()), 10)
		val := hit(c, mem, key, window)

		// Set headers for client info
		c.Header("X-SpinRateLimit-Limit", strconv.Itoa(maxSpins))
		c.Header("X-SpinRateLimit-Remaining", strconv.FormatInt(max(0, int64(maxSpins)-val), 10))

		if val > int64(maxSpins) {
			RLBlocked.WithLabelValues("spin", c.FullPath()).Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "spin rate limit exceeded",
				"retry_after": int(window.Seconds()),
			})
			return
		}

		RLRequests.WithLabelValues("spin", c.FullPath()).Inc()
		c.Next()
	}
}
