package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"social_network/internal/config"
	"social_network/internal/handler"
	"social_network/internal/metrics"
	"social_network/internal/middleware"
	"social_network/internal/realtime"
	"social_network/internal/repository"
	"social_network/internal/service"
	"social_network/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger := logger.New(cfg.Log.Level)
	if cfg.IsProduction() {
		appLogger = logger.NewJSON(cfg.Log.Level)
	}

	// PostgreSQL
	poolCfg, err := pgxpool.ParseConfig(cfg.Database.DSN)
	if err != nil {
		appLogger.Fatal("Invalid database DSN", "error", err)
	}
	poolCfg.MaxConns = int32(cfg.Database.MaxConnections)
	poolCfg.MaxConnIdleTime = cfg.Database.MaxIdleTime
	poolCfg.MaxConnLifetime = cfg.Database.ConnMaxLifetime

	dbPool, err := pgxpool.NewWithConfig(context.Background(), poolCfg)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", "error", err)
	}
	defer dbPool.Close()

	if err := dbPool.Ping(context.Background()); err != nil {
		appLogger.Fatal("Failed to ping database", "error", err)
	}
	if err := repository.EnsureSchema(context.Background(), dbPool); err != nil {
		appLogger.Fatal("Failed to apply schema", "error", err)
	}
	appLogger.Info("Database connection established")

	// Redis
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()

	if err := rdb.Ping(context.Background()).Err(); err != nil {
		appLogger.Fatal("Failed to connect to Redis", "error", err)
	}
	appLogger.Info("Redis connection established")

	repos := repository.NewRepositories(dbPool, rdb, appLogger)
	services := service.NewServices(repos, cfg, appLogger)

	hub := realtime.NewHub(appLogger)
	relay := realtime.NewRelay(hub, services.Chat, services.Presence, realtime.RelayOptions{
		NotifySendFailure: cfg.Socket.NotifySendFailure,
	}, appLogger)

	sweeper, err := startPresenceSweep(cfg.Presence.SweepSchedule, services.Presence, hub, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to schedule presence sweep", "error", err)
	}

	origins := middleware.NewOriginPolicy(cfg.Server.AllowedOrigins)
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(services.RateLimit, appLogger)

	checks := map[string]handler.Pinger{
		"postgres": dbPool.Ping,
		"redis": func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		},
	}
	handlers := handler.NewHandlers(services, hub, relay, origins, checks, cfg, appLogger)

	router := setupRouter(handlers, origins, rateLimitMiddleware, cfg, appLogger)

	// WriteTimeout is left unset: hijacked websocket connections manage their own deadlines.
	srv := &http.Server{
		Addr:        fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:     router,
		ReadTimeout: cfg.Server.ReadTimeout,
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		appLogger.Info("Starting server", "addr", srv.Addr, "environment", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal("Failed to start server", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	<-sweeper.Stop().Done()

	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error("Server forced to shutdown", "error", err)
	}
	if err := hub.Shutdown(5 * time.Second); err != nil {
		appLogger.Warn("Realtime hub did not stop cleanly", "error", err)
	}

	appLogger.Info("Server exited")
}

// startPresenceSweep periodically drops presence entries whose connection
// is gone, for example after a missed disconnect.
func startPresenceSweep(schedule string, presence service.PresenceService, hub *realtime.Hub, log logger.Logger) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		if pruned := presence.Prune(hub.Alive); pruned > 0 {
			log.Info("Pruned stale presence entries", "count", pruned)
		}
		metrics.OnlineUsers.Set(float64(presence.Count()))
	})
	if err != nil {
		return nil, err
	}
	c.Start()
	return c, nil
}

func setupRouter(
	handlers *handler.Handlers,
	origins *middleware.OriginPolicy,
	rateLimitMiddleware *middleware.RateLimitMiddleware,
	cfg *config.Config,
	log logger.Logger,
) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(origins))
	router.Use(middleware.RequestLogger(log))
	router.Use(middleware.ErrorHandler(log))

	router.GET("/ok", handlers.Health.OK)
	router.GET("/health", handlers.Health.Check)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Realtime socket
	router.GET("/socket", handlers.WebSocket.Handle)
	router.GET("/ws", handlers.WebSocket.Handle)

	// Uploaded media
	router.Static("/"+service.FolderGroup, filepath.Join(cfg.Upload.Dir, service.FolderGroup))
	router.Static("/"+service.FolderChat, filepath.Join(cfg.Upload.Dir, service.FolderChat))

	api := router.Group("/api")
	api.Use(rateLimitMiddleware.Limit())
	{
		people := api.Group("/people")
		{
			people.GET("/:id", handlers.User.Get)
			people.PUT("/:id", handlers.User.Save)
		}

		chat := api.Group("/chat")
		{
			chat.GET("/:id", handlers.Chat.GetMessage)
			chat.GET("/conversation/:userId/:peerId", handlers.Chat.GetConversation)
			chat.POST("/media", handlers.Media.UploadChatMedia)
		}

		handlers.GroupChat.Register(api.Group("/gchat"))
	}

	return router
}
