package handler

import (
	"social_network/internal/config"
	"social_network/internal/middleware"
	"social_network/internal/realtime"
	"social_network/internal/service"
	"social_network/pkg/logger"
)

type Handlers struct {
	Health    *HealthHandler
	User      *UserHandler
	Chat      *ChatHandler
	GroupChat *GroupChatHandler
	Media     *MediaHandler
	WebSocket *WebSocketHandler
}

func NewHandlers(
	services *service.Services,
	hub *realtime.Hub,
	relay realtime.Dispatcher,
	origins *middleware.OriginPolicy,
	checks map[string]Pinger,
	cfg *config.Config,
	log logger.Logger,
) *Handlers {
	return &Handlers{
		Health:    NewHealthHandler(checks, services.Presence.Count),
		User:      NewUserHandler(services.User, log),
		Chat:      NewChatHandler(services.Chat, log),
		GroupChat: NewGroupChatHandler(services.GroupChat, services.Media, log),
		Media:     NewMediaHandler(services.Media, log),
		WebSocket: NewWebSocketHandler(hub, relay, origins, cfg.Socket, log),
	}
}
