package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"social_network/pkg/logger"
)

const rateLimitKeyPrefix = "ratelimit:%s"

type RateLimitRepository interface {
	// Hit counts one request against key and returns the count inside the current window.
	Hit(ctx context.Context, key string, window time.Duration) (int64, error)
}

type rateLimitRepository struct {
	redis redis.Cmdable
	log   logger.Logger
}

func NewRateLimitRepository(redis redis.Cmdable, log logger.Logger) RateLimitRepository {
	return &rateLimitRepository{redis: redis, log: log}
}

// Hit anchors the window at the first request: only the INCR that creates
// the key sets its TTL.
func (r *rateLimitRepository) Hit(ctx context.Context, key string, window time.Duration) (int64, error) {
	redisKey := fmt.Sprintf(rateLimitKeyPrefix, key)

	count, err := r.redis.Incr(ctx, redisKey).Result()
	if err != nil {
		r.log.Error("Failed to count rate limit hit", "error", err, "key", key)
		return 0, fmt.Errorf("failed to count rate limit hit: %w", err)
	}

	if count == 1 {
		if err := r.redis.Expire(ctx, redisKey, window).Err(); err != nil {
			r.log.Error("Failed to set rate limit window", "error", err, "key", key)
			// a key without TTL would never reset
			if delErr := r.redis.Del(ctx, redisKey).Err(); delErr != nil {
				r.log.Warn("Failed to drop rate limit key", "error", delErr, "key", key)
			}
			return 0, fmt.Errorf("failed to set rate limit window: %w", err)
		}
	}

	return count, nil
}
