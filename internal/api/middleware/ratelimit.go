package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	mgin "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// NewRateLimiter creates a per-client-IP rate limiting middleware allowing
// requests per period. A zero request count disables limiting.
func NewRateLimiter(requests int64, period time.Duration) (gin.HandlerFunc, error) {
	if requests < 0 {
		return nil, fmt.Errorf("invalid rate limit: %d requests", requests)
	}
	if requests == 0 {
		return func(c *gin.Context) { c.Next() }, nil
	}
	if period <= 0 {
		return nil, fmt.Errorf("invalid rate limit period %s", period)
	}

	instance := limiter.New(memory.NewStore(), limiter.Rate{
		Period: period,
		Limit:  requests,
	})

	return mgin.NewMiddleware(instance,
		mgin.WithLimitReachedHandler(func(c *gin.Context) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":   "rate_limited",
				"message": "too many requests",
			})
		}),
	), nil
}
