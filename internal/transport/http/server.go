package http

import (
	"context"
	"fmt"
	"log"
	stdhttp "net/http"
	"time"

	"warbler/internal/cache"
	"warbler/internal/config"
	"warbler/internal/database"
	"warbler/internal/handler"
	"warbler/internal/redis"
	"warbler/internal/repository"
	"warbler/internal/service"
)

// Run loads configuration, connects the backing stores, wires every layer
// and serves HTTP until the process exits.
func Run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := database.EnsureSchema(db); err != nil {
		return err
	}

	redisClient, err := redis.NewClient(cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("failed to create redis client: %w", err)
	}
	defer redisClient.Close()

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := redisClient.Ping(pingCtx); err != nil {
		return fmt.Errorf("failed to reach redis: %w", err)
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	followRepo := repository.NewFollowRepository(db)
	likeRepo := repository.NewLikeRepository(db)
	tokenRepo := repository.NewRefreshTokenRepository(db)

	feedCache := cache.NewFeedCache(redisClient.Client)

	// Services
	userService := service.NewUserService(userRepo, tokenRepo, feedCache)
	authService := service.NewAuthService(tokenRepo, cfg)
	messageService := service.NewMessageService(messageRepo, followRepo, feedCache)
	followService := service.NewFollowService(followRepo, userRepo, feedCache)
	likeService := service.NewLikeService(likeRepo, messageRepo)
	feedService := service.NewFeedService(feedCache, messageRepo, followRepo, likeRepo)

	// Handlers
	router := NewRouter(RouterConfig{
		AuthHandler:    handler.NewAuthHandler(userService, authService),
		UserHandler:    handler.NewUserHandler(userService, followService, messageService),
		FollowHandler:  handler.NewFollowHandler(followService),
		MessageHandler: handler.NewMessageHandler(messageService, likeService),
		FeedHandler:    handler.NewFeedHandler(feedService),
		JWTSecret:      cfg.JWTSecret,
	})

	addr := ":" + cfg.ServerPort
	log.Printf("Starting server on %s", addr)
	return stdhttp.ListenAndServe(addr, router)
}
