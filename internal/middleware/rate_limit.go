package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	APIMaxRequests = 100 // par minute et par IP
	APICooldown    = 1 * time.Minute
)

// APIRateLimit limite le nombre de requêtes par IP. Sans Redis, ou si Redis
// ne répond pas, la requête passe.
func APIRateLimit(rdb redis.Cmdable, limit int) gin.HandlerFunc {
	if limit <= 0 {
		limit = APIMaxRequests
	}
	return func(c *gin.Context) {
		if rdb == nil {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		key := "api_requests:" + c.ClientIP()

		// Incrémenter le compteur; la fenêtre démarre au premier hit
		pipe := rdb.TxPipeline()
		incr := pipe.Incr(ctx, key)
		pipe.ExpireNX(ctx, key, APICooldown)
		if _, err := pipe.Exec(ctx); err != nil {
			zap.L().Warn("⚠️ Rate limit indisponible", zap.Error(err))
			c.Next()
			return
		}

		requests := int(incr.Val())
		remaining := limit - requests
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))

		if requests > limit {
			c.Header("Retry-After", strconv.Itoa(int(APICooldown.Seconds())))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success":    false,
				"message":    "Too many requests, please try again later.",
				"retryAfter": int(APICooldown.Seconds()),
			})
			return
		}

		c.Next()
	}
}
