package repository

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"social_network/pkg/logger"
)

type Repositories struct {
	User      UserRepository
	Chat      ChatRepository
	Group     GroupMessageRepository
	RateLimit RateLimitRepository
}

func NewRepositories(db *pgxpool.Pool, redis *redis.Client, log logger.Logger) *Repositories {
	repos := &Repositories{
		User:      NewUserRepository(db, log),
		Chat:      NewChatRepository(db, log),
		Group:     NewGroupMessageRepository(db, log),
		RateLimit: NewRateLimitRepository(redis, log),
	}

	log.Info("Repositories initialized")

	return repos
}
