package middleware

import (
	"fmt"
	"net/http"
	"time"

	"carewatch/models"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	Redis     *redis.Client
	Requests  int
	Window    time.Duration
	KeyPrefix string
}

// RateLimit returns a fixed-window Redis rate limiter keyed by client IP.
// When Redis is unreachable requests pass through; blocking an SOS on a
// broken cache would invert the failure priorities.
func RateLimit(config RateLimitConfig) gin.HandlerFunc {
	if config.KeyPrefix == "" {
		config.KeyPrefix = "carewatch:rate"
	}

	return gin.HandlerFunc(func(c *gin.Context) {
		if config.Redis == nil {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		key := fmt.Sprintf("%s:%s", config.KeyPrefix, c.ClientIP())

		count, err := config.Redis.Incr(ctx, key).Result()
		if err != nil {
			logrus.Warnf("Rate limiter unavailable: %v", err)
			c.Next()
			return
		}
		if count == 1 {
			config.Redis.Expire(ctx, key, config.Window)
		}

		if count > int64(config.Requests) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, models.APIResponse{
				Success: false,
				Message: "Rate limit exceeded",
				Error: &models.APIError{
					Code:    models.ErrCodeRateLimit,
					Message: "Too many requests, slow down",
				},
				Timestamp: time.Now(),
			})
			return
		}

		c.Next()
	})
}

// EmergencyRateLimit allows a generous burst for emergency endpoints. The
// limit exists to absorb a stuck UI re-firing the SOS button, not to police
// legitimate use.
func EmergencyRateLimit(redisClient *redis.Client) gin.HandlerFunc {
	return RateLimit(RateLimitConfig{
		Redis:     redisClient,
		Requests:  30,
		Window:    time.Minute,
		KeyPrefix: "carewatch:rate:emergency",
	})
}
