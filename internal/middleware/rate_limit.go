package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"social_network/internal/service"
	"social_network/pkg/logger"
)

type RateLimitMiddleware struct {
	rateLimitService service.RateLimitService
	log              logger.Logger
}

func NewRateLimitMiddleware(rateLimitService service.RateLimitService, log logger.Logger) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		rateLimitService: rateLimitService,
		log:              log,
	}
}

// Limit counts requests per client IP. When the counter store is
// unreachable requests are let through.
func (m *RateLimitMiddleware) Limit() gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := m.rateLimitService.Limit()
		if limit <= 0 {
			c.Next()
			return
		}

		allowed, remaining, err := m.rateLimitService.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			m.log.Error("Rate limit check failed", "error", err)
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))

		if !allowed {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Rate limit exceeded"})
			c.Abort()
			return
		}

		c.Next()
	}
}
