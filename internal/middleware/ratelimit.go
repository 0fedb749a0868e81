package middleware

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/TheStackSquad/the-almaroof-initiative-sub001/internal/ratelimit"
)

// RateLimit throttles a route per client IP using the Counter capability.
// The counter failing open is deliberate: a broken Redis must not take the
// signin path down with it.
func RateLimit(counter ratelimit.Counter, limit int64, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := "rl:" + c.FullPath() + ":" + c.ClientIP()
		n, err := counter.Incr(c.Request.Context(), key, window)
		if err != nil {
			log.Printf("[ratelimit] counter error for %s: %v", key, err)
			c.Next()
			return
		}
		if n > limit {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many attempts, try again later"})
			return
		}
		c.Next()
	}
}
