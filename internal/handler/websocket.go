package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"social_network/internal/config"
	"social_network/internal/middleware"
	"social_network/internal/realtime"
	"social_network/pkg/logger"
)

type WebSocketHandler struct {
	upgrader websocket.Upgrader
	hub      *realtime.Hub
	relay    realtime.Dispatcher
	opts     realtime.ClientOptions
	log      logger.Logger
}

func NewWebSocketHandler(hub *realtime.Hub, relay realtime.Dispatcher, origins *middleware.OriginPolicy, cfg config.SocketConfig, log logger.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     origins.CheckOrigin,
		},
		hub:   hub,
		relay: relay,
		opts: realtime.ClientOptions{
			MaxMessageSize: cfg.MaxMessageSize,
			SendBuffer:     cfg.SendBuffer,
			RateBurst:      cfg.RateBurst,
			RatePerSecond:  cfg.RatePerSecond,
		},
		log: log,
	}
}

// Handle upgrades the request and hands the connection to the hub.
func (h *WebSocketHandler) Handle(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error
		h.log.Warn("Failed to upgrade connection", "error", err, "origin", c.GetHeader("Origin"))
		return
	}

	if client := h.hub.Serve(conn, c.ClientIP(), h.relay, h.opts); client == nil {
		h.log.Warn("Rejected connection during shutdown", "addr", c.ClientIP())
	}
}
