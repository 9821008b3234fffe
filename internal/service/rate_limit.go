package service

import (
	"context"
	"time"

	"social_network/internal/repository"
	"social_network/pkg/logger"
)

type RateLimitService interface {
	// Allow counts a request for key and reports whether it fits the window.
	Allow(ctx context.Context, key string) (bool, int, error)
	Limit() int
}

type rateLimitService struct {
	rateLimitRepo repository.RateLimitRepository
	limit         int
	window        time.Duration
	log           logger.Logger
}

func NewRateLimitService(rateLimitRepo repository.RateLimitRepository, limit int, window time.Duration, log logger.Logger) RateLimitService {
	return &rateLimitService{
		rateLimitRepo: rateLimitRepo,
		limit:         limit,
		window:        window,
		log:           log,
	}
}

func (s *rateLimitService) Allow(ctx context.Context, key string) (bool, int, error) {
	if s.limit <= 0 {
		return true, 0, nil
	}

	count, err := s.rateLimitRepo.Hit(ctx, key, s.window)
	if err != nil {
		return false, 0, err
	}

	remaining := s.limit - int(count)
	if remaining < 0 {
		remaining = 0
	}
	return count <= int64(s.limit), remaining, nil
}

func (s *rateLimitService) Limit() int {
	return s.limit
}
