package service

import (
	"social_network/internal/config"
	"social_network/internal/domain"
	"social_network/internal/repository"
	"social_network/pkg/logger"
)

type Services struct {
	User      UserService
	Chat      ChatService
	GroupChat GroupChatService
	Presence  PresenceService
	Media     MediaService
	RateLimit RateLimitService
}

func NewServices(repos *repository.Repositories, cfg *config.Config, log logger.Logger) *Services {
	classifier := domain.NewClassifier(cfg.Chat.MaxRepeat, cfg.Chat.MaxExpandedBytes)
	media := NewMediaService(cfg.Upload.Dir, log)

	services := &Services{
		User:      NewUserService(repos.User, log),
		Chat:      NewChatService(repos.Chat, classifier, log),
		GroupChat: NewGroupChatService(repos.Group, media, classifier, log),
		Presence:  NewPresenceService(),
		Media:     media,
		RateLimit: NewRateLimitService(repos.RateLimit, cfg.RateLimit.Limit, cfg.RateLimit.Window, log),
	}

	log.Info("Services initialized", "max_repeat", cfg.Chat.MaxRepeat, "upload_dir", cfg.Upload.Dir)

	return services
}
